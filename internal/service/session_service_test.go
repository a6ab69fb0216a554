package service

import (
	"errors"
	"testing"
	"time"

	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/olympiadquiz/server/internal/session"
)

// fakeContentRepo serves a single quiz by ID, records imports, and fails
// everything else.
type fakeContentRepo struct {
	quiz      *model.Quiz
	imported  []dto.SubjectImport
	importErr error
}

func (f *fakeContentRepo) QuizByID(id uint) (*model.Quiz, error) {
	if f.quiz != nil && f.quiz.ID == id {
		return f.quiz, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeContentRepo) ListSubjects() ([]model.Subject, error)        { return nil, nil }
func (f *fakeContentRepo) SubjectByID(id uint) (*model.Subject, error)   { return nil, errs.ErrNotFound }
func (f *fakeContentRepo) TopicByID(id uint) (*model.Topic, error)       { return nil, errs.ErrNotFound }
func (f *fakeContentRepo) ClassByID(id uint) (*model.Class, error)       { return nil, errs.ErrNotFound }
func (f *fakeContentRepo) LevelByID(id uint) (*model.Level, error)       { return nil, errs.ErrNotFound }
func (f *fakeContentRepo) QuizzesByLevel(uint, bool) ([]model.Quiz, error) {
	return nil, nil
}
func (f *fakeContentRepo) AllQuizzes() ([]model.Quiz, error) { return nil, nil }
func (f *fakeContentRepo) UpdateQuizMeta(uint, string, string, int) error {
	return errs.ErrNotFound
}
func (f *fakeContentRepo) ToggleQuizVisibility(uint) (*bool, error) { return nil, errs.ErrNotFound }
func (f *fakeContentRepo) AddQuestion(uint, string, string, []string, int) (*model.Question, error) {
	return nil, errs.ErrNotFound
}
func (f *fakeContentRepo) UpdateQuestion(uint, string, string, []string, int) error {
	return errs.ErrNotFound
}
func (f *fakeContentRepo) DeleteQuestion(uint) error           { return errs.ErrNotFound }
func (f *fakeContentRepo) DeleteQuiz(uint) error               { return errs.ErrNotFound }
func (f *fakeContentRepo) DeleteSubject(uint) error            { return errs.ErrNotFound }
func (f *fakeContentRepo) ImportSubject(subject dto.SubjectImport) error {
	if f.importErr != nil {
		return f.importErr
	}
	f.imported = append(f.imported, subject)
	return nil
}

// fakeAttemptRepo records created attempts in memory.
type fakeAttemptRepo struct {
	created    []model.QuizAttempt
	failCreate bool
	nextID     uint
	agg        repository.AttemptAggregates
}

func (f *fakeAttemptRepo) Create(attempt *model.QuizAttempt) error {
	if f.failCreate {
		return errs.ErrPersistence
	}
	f.nextID++
	attempt.ID = f.nextID
	f.created = append(f.created, *attempt)
	return nil
}

func (f *fakeAttemptRepo) ListByUserAndQuiz(userID, quizID uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for i := len(f.created) - 1; i >= 0; i-- {
		a := f.created[i]
		if a.UserID == userID && a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) ListAll() ([]model.QuizAttempt, error) { return f.created, nil }

func (f *fakeAttemptRepo) Aggregates() (repository.AttemptAggregates, error) {
	return f.agg, nil
}

func fixtureQuiz() *model.Quiz {
	return &model.Quiz{
		ID:        3,
		Title:     "Fractions",
		TimeLimit: 1,
		IsVisible: true,
		Questions: []model.Question{
			{
				ID:   10,
				Text: "1/2 + 1/2?",
				Answers: []model.Answer{
					{ID: 100, Text: "1", IsCorrect: true},
					{ID: 101, Text: "2"},
				},
			},
			{
				ID:          11,
				Text:        "1/4 of 8?",
				Explanation: "8 divided by 4.",
				Answers: []model.Answer{
					{ID: 102, Text: "2", IsCorrect: true},
					{ID: 103, Text: "4"},
				},
			},
		},
	}
}

func newTestSessionService(contentRepo *fakeContentRepo, attemptRepo *fakeAttemptRepo, now *time.Time) *quizSessionService {
	return &quizSessionService{
		contentRepo: contentRepo,
		attemptRepo: attemptRepo,
		store:       session.NewStore(),
		now:         func() time.Time { return *now },
	}
}

func TestStartSnapshotsQuiz(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, &fakeAttemptRepo{}, &now)

	view, err := svc.Start(7, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if view.Completed || view.Progress == nil {
		t.Fatal("Start should return an in-progress view")
	}
	p := view.Progress
	if p.QuestionCount != 2 || p.Cursor != 0 {
		t.Errorf("progress = %d questions, cursor %d; want 2, 0", p.QuestionCount, p.Cursor)
	}
	if p.RemainingSeconds != 60 {
		t.Errorf("RemainingSeconds = %d, want 60", p.RemainingSeconds)
	}
	if p.Question.Question != "1/2 + 1/2?" {
		t.Errorf("first question = %q", p.Question.Question)
	}
	if p.Selected != nil {
		t.Error("fresh session should have no selection")
	}
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	now := time.Now()
	empty := &model.Quiz{ID: 3, Title: "Empty", TimeLimit: 10}
	svc := newTestSessionService(&fakeContentRepo{quiz: empty}, &fakeAttemptRepo{}, &now)

	if _, err := svc.Start(7, 3); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("Start on empty quiz = %v, want ErrValidation", err)
	}
}

func TestSessionNotVisibleToOtherUsers(t *testing.T) {
	now := time.Now()
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, &fakeAttemptRepo{}, &now)

	view, err := svc.Start(7, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Poll(view.Progress.SessionID, 8); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Poll as another user = %v, want ErrNotFound", err)
	}
}

func TestAnswerAndSubmitPersistsAttempt(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	attemptRepo := &fakeAttemptRepo{}
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, attemptRepo, &now)

	view, _ := svc.Start(7, 3)
	sid := view.Progress.SessionID

	if _, err := svc.Answer(sid, 7, 0); err != nil { // correct
		t.Fatalf("Answer: %v", err)
	}
	if _, err := svc.Navigate(sid, 7, dto.CursorRequest{Action: "next"}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if _, err := svc.Answer(sid, 7, 1); err != nil { // wrong
		t.Fatalf("Answer: %v", err)
	}

	now = now.Add(45 * time.Second)
	result, err := svc.Submit(sid, 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !result.Completed || result.Result == nil {
		t.Fatal("Submit should return a completed view")
	}
	r := result.Result
	if r.Score != 1 || r.TotalQuestions != 2 || r.Percentage != 50 {
		t.Errorf("result = %d/%d (%.0f%%), want 1/2 (50%%)", r.Score, r.TotalQuestions, r.Percentage)
	}
	if r.TimeTaken != 45 {
		t.Errorf("TimeTaken = %d, want 45", r.TimeTaken)
	}
	if r.AutoSubmitted {
		t.Error("explicit submit flagged as auto")
	}
	if r.AttemptID == nil {
		t.Fatal("AttemptID missing on persisted attempt")
	}
	if len(attemptRepo.created) != 1 {
		t.Fatalf("persisted %d attempts, want 1", len(attemptRepo.created))
	}
	stored, err := attemptRepo.created[0].GetResults()
	if err != nil || len(stored) != 2 {
		t.Fatalf("stored results = %v, %v", stored, err)
	}
	if !stored[0].IsCorrect || stored[1].IsCorrect {
		t.Errorf("stored correctness = %v/%v, want true/false", stored[0].IsCorrect, stored[1].IsCorrect)
	}

	// A submitted session is gone.
	if _, err := svc.Poll(sid, 7); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Poll after submit = %v, want ErrNotFound", err)
	}
}

func TestPollAutoSubmitsExpiredSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	attemptRepo := &fakeAttemptRepo{}
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, attemptRepo, &now)

	view, _ := svc.Start(7, 3)
	sid := view.Progress.SessionID
	if _, err := svc.Answer(sid, 7, 0); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	now = now.Add(61 * time.Second) // limit is 1 minute
	result, err := svc.Poll(sid, 7)
	if err != nil {
		t.Fatalf("Poll past the limit: %v", err)
	}
	if !result.Completed || result.Result == nil {
		t.Fatal("expired session should come back completed")
	}
	if !result.Result.AutoSubmitted {
		t.Error("expired session not flagged auto-submitted")
	}
	if result.Result.Score != 1 {
		t.Errorf("score = %d, want 1 (the one answer given before expiry)", result.Result.Score)
	}
	if len(attemptRepo.created) != 1 {
		t.Errorf("persisted %d attempts, want 1", len(attemptRepo.created))
	}
}

func TestAnswerAfterExpiryForcesSubmission(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, &fakeAttemptRepo{}, &now)

	view, _ := svc.Start(7, 3)
	sid := view.Progress.SessionID

	now = now.Add(2 * time.Minute)
	result, err := svc.Answer(sid, 7, 0)
	if err != nil {
		t.Fatalf("Answer past the limit: %v", err)
	}
	if !result.Completed {
		t.Fatal("answer past the limit should finalize, not record")
	}
	if result.Result.Score != 0 {
		t.Errorf("score = %d, want 0 (late answer must not count)", result.Result.Score)
	}
}

func TestSubmitWithPersistenceFailureReturnsWarning(t *testing.T) {
	now := time.Now()
	attemptRepo := &fakeAttemptRepo{failCreate: true}
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, attemptRepo, &now)

	view, _ := svc.Start(7, 3)
	result, err := svc.Submit(view.Progress.SessionID, 7)
	if err != nil {
		t.Fatalf("Submit with failing store: %v", err)
	}
	if result.Result == nil {
		t.Fatal("scored result should survive a persistence failure")
	}
	if result.Result.Warning == "" {
		t.Error("expected a warning when the attempt could not be saved")
	}
	if result.Result.AttemptID != nil {
		t.Error("AttemptID must be absent when nothing was persisted")
	}
}

func TestAnswerRejectsOutOfRangeOption(t *testing.T) {
	now := time.Now()
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, &fakeAttemptRepo{}, &now)

	view, _ := svc.Start(7, 3)
	if _, err := svc.Answer(view.Progress.SessionID, 7, 5); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("Answer(5) with 2 options = %v, want ErrValidation", err)
	}
}

func TestNavigateJumpAndClamp(t *testing.T) {
	now := time.Now()
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, &fakeAttemptRepo{}, &now)

	view, _ := svc.Start(7, 3)
	sid := view.Progress.SessionID

	v, err := svc.Navigate(sid, 7, dto.CursorRequest{Action: "jump", Index: 50})
	if err != nil {
		t.Fatalf("Navigate jump: %v", err)
	}
	if v.Progress.Cursor != 1 {
		t.Errorf("jump past end: cursor = %d, want 1", v.Progress.Cursor)
	}
	v, err = svc.Navigate(sid, 7, dto.CursorRequest{Action: "prev"})
	if err != nil {
		t.Fatalf("Navigate prev: %v", err)
	}
	if v.Progress.Cursor != 0 {
		t.Errorf("prev: cursor = %d, want 0", v.Progress.Cursor)
	}
	if _, err := svc.Navigate(sid, 7, dto.CursorRequest{Action: "sideways"}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("unknown action = %v, want ErrValidation", err)
	}
}

func TestMyAttemptsNewestFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	attemptRepo := &fakeAttemptRepo{}
	svc := newTestSessionService(&fakeContentRepo{quiz: fixtureQuiz()}, attemptRepo, &now)

	for i := 0; i < 2; i++ {
		view, _ := svc.Start(7, 3)
		if _, err := svc.Submit(view.Progress.SessionID, 7); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		now = now.Add(time.Hour)
	}

	attempts, err := svc.MyAttempts(7, 3)
	if err != nil {
		t.Fatalf("MyAttempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if !attempts[0].Date.After(attempts[1].Date) {
		t.Error("attempts not ordered newest first")
	}
}
