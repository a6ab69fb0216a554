package dto

import "time"

// AdminQuestionDTO exposes the correct option index; admin editor only.
type AdminQuestionDTO struct {
	ID           uint     `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

type AdminQuizDTO struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	TimeLimit   int                `json:"time_limit"`
	IsVisible   bool               `json:"is_visible"`
	Breadcrumb  []string           `json:"breadcrumb"`
	Questions   []AdminQuestionDTO `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type VisibilityDTO struct {
	QuizID    uint `json:"quiz_id"`
	IsVisible bool `json:"is_visible"`
}

type ActiveUserDTO struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	AttemptCount int64  `json:"attempt_count"`
}

type StatisticsDTO struct {
	TotalUsers      int64           `json:"total_users"`
	AdminUsers      int64           `json:"admin_users"`
	RegularUsers    int64           `json:"regular_users"`
	TotalAttempts   int64           `json:"total_attempts"`
	AvgScorePercent float64         `json:"avg_score"`
	AvgTimeMinutes  float64         `json:"avg_time"`
	ActiveUsers     []ActiveUserDTO `json:"active_users"`
}

type AdminAttemptDTO struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	TimeTaken      int       `json:"time_taken"`
	Date           time.Time `json:"date"`
	IsAdmin        bool      `json:"is_admin"`
}

type AdminUserDTO struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	AttemptCount int    `json:"attempt_count"`
}
