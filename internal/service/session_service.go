package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/olympiadquiz/server/internal/session"
	"github.com/rs/zerolog/log"
)

// QuizSessionService drives the quiz-taking lifecycle: start a session from a
// quiz snapshot, record answers, move the cursor, poll the clock, and submit.
// The timer is passive; expiry is detected whenever the caller touches the
// session, which then forces auto-submission.
type QuizSessionService interface {
	Start(userID, quizID uint) (*dto.SessionViewDTO, error)
	Poll(sessionID string, userID uint) (*dto.SessionViewDTO, error)
	Answer(sessionID string, userID uint, selected int) (*dto.SessionViewDTO, error)
	Navigate(sessionID string, userID uint, req dto.CursorRequest) (*dto.SessionViewDTO, error)
	Submit(sessionID string, userID uint) (*dto.SessionViewDTO, error)
	MyAttempts(userID, quizID uint) ([]dto.AttemptSummaryDTO, error)
}

type quizSessionService struct {
	contentRepo repository.ContentRepository
	attemptRepo repository.AttemptRepository
	store       *session.Store
	now         func() time.Time
}

func NewQuizSessionService(
	contentRepo repository.ContentRepository,
	attemptRepo repository.AttemptRepository,
	store *session.Store,
) QuizSessionService {
	return &quizSessionService{
		contentRepo: contentRepo,
		attemptRepo: attemptRepo,
		store:       store,
		now:         time.Now,
	}
}

// Start loads the quiz, freezes its question list into a session snapshot and
// starts the clock. Later edits to the quiz do not reach this session.
func (s *quizSessionService) Start(userID, quizID uint) (*dto.SessionViewDTO, error) {
	quiz, err := s.contentRepo.QuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("quiz %d has no questions: %w", quizID, errs.ErrValidation)
	}

	snapshot := make([]session.QuestionSnapshot, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		snapshot = append(snapshot, session.QuestionSnapshot{
			QuestionID:   question.ID,
			Text:         question.Text,
			Options:      question.Options(),
			CorrectIndex: question.CorrectIndex(),
			Explanation:  question.Explanation,
		})
	}

	sess := session.New(uuid.NewString(), userID, quiz.ID, quiz.Title, snapshot, quiz.TimeLimit, s.now())
	s.store.Put(sess)

	log.Info().Str("sessionID", sess.ID).Uint("userID", userID).Uint("quizID", quizID).
		Int("questions", len(snapshot)).Msg("Quiz session started")
	return s.progressView(sess), nil
}

func (s *quizSessionService) lookup(sessionID string, userID uint) (*session.Session, error) {
	sess, ok := s.store.Get(sessionID)
	if !ok || sess.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrNotFound)
	}
	return sess, nil
}

// Poll recomputes remaining time from the wall clock. When the limit has been
// reached the session is auto-submitted with whatever answers exist.
func (s *quizSessionService) Poll(sessionID string, userID uint) (*dto.SessionViewDTO, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return s.finalize(sess, true)
	}
	return s.progressView(sess), nil
}

func (s *quizSessionService) Answer(sessionID string, userID uint, selected int) (*dto.SessionViewDTO, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return s.finalize(sess, true)
	}
	if err := sess.Select(selected); err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrValidation)
	}
	return s.progressView(sess), nil
}

func (s *quizSessionService) Navigate(sessionID string, userID uint, req dto.CursorRequest) (*dto.SessionViewDTO, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return s.finalize(sess, true)
	}
	switch req.Action {
	case "next":
		sess.Next()
	case "prev":
		sess.Prev()
	case "jump":
		sess.Jump(req.Index)
	default:
		return nil, fmt.Errorf("unknown cursor action %q: %w", req.Action, errs.ErrValidation)
	}
	return s.progressView(sess), nil
}

// Submit completes the session explicitly. Submission is valid with any
// number of answered questions; unanswered ones score as incorrect.
func (s *quizSessionService) Submit(sessionID string, userID uint) (*dto.SessionViewDTO, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.finalize(sess, sess.Expired(s.now()))
}

// finalize scores the session, persists the attempt and drops the session
// from the store. A persistence failure is degraded, not fatal: the scored
// result is still returned for this run with a warning attached.
func (s *quizSessionService) finalize(sess *session.Session, autoSubmitted bool) (*dto.SessionViewDTO, error) {
	outcome, err := sess.Complete(s.now())
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sess.ID, errs.ErrNotFound)
	}
	s.store.Remove(sess.ID)

	results := make([]model.QuestionResult, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		results = append(results, model.QuestionResult{
			QuestionID:    r.QuestionID,
			Question:      r.Question,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
			Explanation:   r.Explanation,
		})
	}

	attempt := model.QuizAttempt{
		UserID:         sess.UserID,
		QuizID:         sess.QuizID,
		Score:          outcome.Score,
		TotalQuestions: outcome.TotalQuestions,
		TimeTaken:      outcome.TimeTaken,
		Date:           s.now(),
	}
	warning := ""
	if err := attempt.SetResults(results); err != nil {
		warning = "attempt could not be saved; results are shown for this run only"
		log.Error().Err(err).Str("sessionID", sess.ID).Msg("finalize: serializing results failed")
	} else if err := s.attemptRepo.Create(&attempt); err != nil {
		warning = "attempt could not be saved; results are shown for this run only"
		log.Error().Err(err).Str("sessionID", sess.ID).Uint("quizID", sess.QuizID).
			Msg("finalize: persisting attempt failed, returning in-memory results")
	}

	result := &dto.SessionResultDTO{
		QuizID:         sess.QuizID,
		QuizTitle:      sess.QuizTitle,
		Score:          outcome.Score,
		TotalQuestions: outcome.TotalQuestions,
		Percentage:     model.Percentage(outcome.Score, outcome.TotalQuestions),
		TimeTaken:      outcome.TimeTaken,
		AutoSubmitted:  autoSubmitted,
		Warning:        warning,
		Results:        resultDTOs(results),
	}
	if warning == "" {
		result.AttemptID = &attempt.ID
	}

	log.Info().Str("sessionID", sess.ID).Uint("quizID", sess.QuizID).
		Int("score", outcome.Score).Int("total", outcome.TotalQuestions).
		Bool("autoSubmitted", autoSubmitted).Msg("Quiz session completed")
	return &dto.SessionViewDTO{Completed: true, Result: result}, nil
}

func resultDTOs(results []model.QuestionResult) []dto.QuestionResultDTO {
	dtos := make([]dto.QuestionResultDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, dto.QuestionResultDTO{
			QuestionID:    r.QuestionID,
			Question:      r.Question,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
			Explanation:   r.Explanation,
		})
	}
	return dtos
}

func (s *quizSessionService) progressView(sess *session.Session) *dto.SessionViewDTO {
	now := s.now()
	cursor := sess.Cursor()
	question := sess.Question(cursor)

	progress := &dto.SessionProgressDTO{
		SessionID:     sess.ID,
		QuizID:        sess.QuizID,
		QuizTitle:     sess.QuizTitle,
		Cursor:        cursor,
		QuestionCount: sess.QuestionCount(),
		Question: dto.QuestionViewDTO{
			ID:       question.QuestionID,
			Question: question.Text,
			Options:  question.Options,
		},
		AnsweredCount:    sess.AnsweredCount(),
		Answered:         sess.AnsweredMap(),
		ElapsedSeconds:   sess.Elapsed(now),
		RemainingSeconds: sess.Remaining(now),
	}
	if selected := sess.Answer(cursor); selected != session.Unanswered {
		progress.Selected = &selected
	}
	return &dto.SessionViewDTO{Progress: progress}
}

func (s *quizSessionService) MyAttempts(userID, quizID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.ListByUserAndQuiz(userID, quizID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("quizID", quizID).Msg("MyAttempts: repository failure")
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	dtos := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, attempt := range attempts {
		results, err := attempt.GetResults()
		if err != nil {
			log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("MyAttempts: malformed stored results")
		}
		dtos = append(dtos, dto.AttemptSummaryDTO{
			ID:             attempt.ID,
			QuizID:         attempt.QuizID,
			QuizTitle:      attempt.Quiz.Title,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			Percentage:     attempt.Percentage(),
			TimeTaken:      attempt.TimeTaken,
			Date:           attempt.Date,
			Results:        resultDTOs(results),
		})
	}
	return dtos, nil
}
