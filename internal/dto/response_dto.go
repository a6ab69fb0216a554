package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// NamedRefDTO is a lightweight reference to a taxonomy node.
type NamedRefDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SubjectDTO struct {
	ID     uint          `json:"id"`
	Name   string        `json:"name"`
	Topics []NamedRefDTO `json:"topics"`
}

type TopicDTO struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	Breadcrumb []string      `json:"breadcrumb"`
	Classes    []NamedRefDTO `json:"classes"`
}

type ClassDTO struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	Breadcrumb []string      `json:"breadcrumb"`
	Levels     []NamedRefDTO `json:"levels"`
}

type LevelDTO struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	Breadcrumb []string         `json:"breadcrumb"`
	Quizzes    []QuizSummaryDTO `json:"quizzes"`
}

type QuizSummaryDTO struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	TimeLimit     int    `json:"time_limit"`
	QuestionCount int    `json:"question_count"`
	IsVisible     bool   `json:"is_visible"`
}

// QuestionViewDTO is a question as presented to a quiz taker: options in
// presentation order, correct flag withheld.
type QuestionViewDTO struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuizDetailDTO struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	TimeLimit   int               `json:"time_limit"`
	IsVisible   bool              `json:"is_visible"`
	Breadcrumb  []string          `json:"breadcrumb"`
	Questions   []QuestionViewDTO `json:"questions"`
}

// --- Quiz session DTOs ---

// SessionProgressDTO is the in-progress view of a quiz session, recomputed on
// every poll from wall-clock elapsed time.
type SessionProgressDTO struct {
	SessionID        string          `json:"session_id"`
	QuizID           uint            `json:"quiz_id"`
	QuizTitle        string          `json:"quiz_title"`
	Cursor           int             `json:"cursor"`
	QuestionCount    int             `json:"question_count"`
	Question         QuestionViewDTO `json:"question"`
	Selected         *int            `json:"selected,omitempty"`
	AnsweredCount    int             `json:"answered_count"`
	Answered         []bool          `json:"answered"`
	ElapsedSeconds   int             `json:"elapsed_seconds"`
	RemainingSeconds int             `json:"remaining_seconds"`
}

type QuestionResultDTO struct {
	QuestionID    uint   `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    int    `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// SessionResultDTO is the scored outcome of a completed session. Warning is
// set when the attempt could not be persisted; the result is still valid for
// this run but will not be retrievable later.
type SessionResultDTO struct {
	AttemptID      *uint               `json:"attempt_id,omitempty"`
	QuizID         uint                `json:"quiz_id"`
	QuizTitle      string              `json:"quiz_title"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	Percentage     float64             `json:"percentage"`
	TimeTaken      int                 `json:"time_taken"`
	AutoSubmitted  bool                `json:"auto_submitted"`
	Warning        string              `json:"warning,omitempty"`
	Results        []QuestionResultDTO `json:"results"`
}

// SessionViewDTO is returned by every session operation: either the
// in-progress state or, once the session completed, the final result.
type SessionViewDTO struct {
	Completed bool                `json:"completed"`
	Progress  *SessionProgressDTO `json:"progress,omitempty"`
	Result    *SessionResultDTO   `json:"result,omitempty"`
}

type AttemptSummaryDTO struct {
	ID             uint                `json:"id"`
	QuizID         uint                `json:"quiz_id"`
	QuizTitle      string              `json:"quiz_title"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	Percentage     float64             `json:"percentage"`
	TimeTaken      int                 `json:"time_taken"`
	Date           time.Time           `json:"date"`
	Results        []QuestionResultDTO `json:"results,omitempty"`
}
