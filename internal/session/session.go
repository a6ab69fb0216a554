// Package session implements the quiz-taking state machine: an immutable
// question snapshot fixed at start time, a cursor, per-question answers keyed
// by position, and a wall-clock timer. There is no countdown goroutine;
// remaining time is recomputed on demand from the start timestamp.
package session

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCompleted is returned when an operation reaches a session that has
	// already been scored.
	ErrCompleted = errors.New("session already completed")

	// ErrNoSelection is returned for an option index outside the current
	// question's option list.
	ErrNoSelection = errors.New("selected option out of range")
)

// Unanswered is the sentinel recorded for a question without a selection.
// It never matches a valid 0-based correct index.
const Unanswered = -1

// QuestionSnapshot is one question as frozen at session start. Later edits to
// the quiz do not reach an in-flight session.
type QuestionSnapshot struct {
	QuestionID   uint
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string
}

// Result is the per-question outcome produced at scoring time.
type Result struct {
	QuestionID    uint
	Question      string
	UserAnswer    int
	CorrectAnswer int
	IsCorrect     bool
	Explanation   string
}

// Outcome is the scored end state of a session.
type Outcome struct {
	Score          int
	TotalQuestions int
	TimeTaken      int // seconds
	Results        []Result
}

// Session is one user's in-flight run of a quiz. Safe for concurrent use;
// each method holds the session lock.
type Session struct {
	ID        string
	UserID    uint
	QuizID    uint
	QuizTitle string

	questions    []QuestionSnapshot
	limitSeconds int
	startedAt    time.Time

	mu        sync.Mutex
	cursor    int
	answers   map[int]int
	completed bool
}

// New starts a session: the snapshot is fixed, the cursor sits on the first
// question and the clock starts at now.
func New(id string, userID uint, quizID uint, quizTitle string, questions []QuestionSnapshot, timeLimitMinutes int, now time.Time) *Session {
	return &Session{
		ID:           id,
		UserID:       userID,
		QuizID:       quizID,
		QuizTitle:    quizTitle,
		questions:    questions,
		limitSeconds: timeLimitMinutes * 60,
		startedAt:    now,
		answers:      make(map[int]int),
	}
}

func (s *Session) QuestionCount() int {
	return len(s.questions)
}

// Question returns the snapshot at position i, clamped into range.
func (s *Session) Question(i int) QuestionSnapshot {
	return s.questions[clamp(i, len(s.questions))]
}

func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Select records (or overwrites) the chosen option index for the question at
// the current cursor position.
func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return ErrCompleted
	}
	if option < 0 || option >= len(s.questions[s.cursor].Options) {
		return ErrNoSelection
	}
	s.answers[s.cursor] = option
	return nil
}

// Answer returns the recorded selection for position i, or Unanswered.
func (s *Session) Answer(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected, ok := s.answers[i]; ok {
		return selected
	}
	return Unanswered
}

func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// AnsweredMap reports, per question position, whether a selection exists.
func (s *Session) AnsweredMap() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	answered := make([]bool, len(s.questions))
	for i := range s.questions {
		_, answered[i] = s.answers[i]
	}
	return answered
}

// Next advances the cursor by one; clamped at the last question.
func (s *Session) Next() int { return s.move(+1) }

// Prev moves the cursor back by one; clamped at the first question.
func (s *Session) Prev() int { return s.move(-1) }

func (s *Session) move(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = clamp(s.cursor+delta, len(s.questions))
	return s.cursor
}

// Jump moves the cursor to an arbitrary position, clamped into bounds.
func (s *Session) Jump(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = clamp(i, len(s.questions))
	return s.cursor
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Elapsed is the wall-clock time since the session started, in whole seconds.
func (s *Session) Elapsed(now time.Time) int {
	return int(now.Sub(s.startedAt).Seconds())
}

// Remaining is max(0, limit - elapsed) in seconds.
func (s *Session) Remaining(now time.Time) int {
	remaining := s.limitSeconds - s.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether elapsed time has reached the quiz's limit, which
// forces auto-submission with whatever answers exist.
func (s *Session) Expired(now time.Time) bool {
	return s.Elapsed(now) >= s.limitSeconds
}

// Abandoned reports whether the session's limit passed more than grace ago.
// An abandoned session has no caller left to claim its auto-submitted result.
func (s *Session) Abandoned(now time.Time, grace time.Duration) bool {
	deadline := s.startedAt.Add(time.Duration(s.limitSeconds) * time.Second)
	return now.Sub(deadline) > grace
}

// Complete scores the session exactly once. A question counts as correct iff
// the recorded selection equals the snapshot's correct index; the Unanswered
// sentinel never matches. The answer and cursor state is dead after this.
func (s *Session) Complete(now time.Time) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return Outcome{}, ErrCompleted
	}
	s.completed = true

	outcome := Outcome{
		TotalQuestions: len(s.questions),
		TimeTaken:      s.Elapsed(now),
		Results:        make([]Result, 0, len(s.questions)),
	}
	for i, q := range s.questions {
		userAnswer, ok := s.answers[i]
		if !ok {
			userAnswer = Unanswered
		}
		isCorrect := ok && userAnswer == q.CorrectIndex
		if isCorrect {
			outcome.Score++
		}
		outcome.Results = append(outcome.Results, Result{
			QuestionID:    q.QuestionID,
			Question:      q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectIndex,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}
	return outcome, nil
}
