package model

import (
	"encoding/json"
	"time"
)

// QuizAttempt is one completed, scored run of a quiz. Immutable once created;
// it is removed only by cascade when its quiz or user is deleted.
type QuizAttempt struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	User           User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;index"`
	Quiz           Quiz      `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Score          int       `json:"score" gorm:"not null"`
	TotalQuestions int       `json:"total_questions" gorm:"not null"`
	TimeTaken      int       `json:"time_taken"` // seconds
	Date           time.Time `json:"date" gorm:"not null;autoCreateTime;index"`
	Results        string    `json:"-" gorm:"type:text;not null"`
}

// QuestionResult is one per-question outcome record inside an attempt.
// UserAnswer is -1 when the question was left unanswered.
type QuestionResult struct {
	QuestionID    uint   `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    int    `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

func (a *QuizAttempt) SetResults(results []QuestionResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	a.Results = string(data)
	return nil
}

func (a *QuizAttempt) GetResults() ([]QuestionResult, error) {
	if a.Results == "" {
		return nil, nil
	}
	var results []QuestionResult
	if err := json.Unmarshal([]byte(a.Results), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Percentage is the attempt score as a percentage, defined as 0 when the quiz
// had no questions.
func (a *QuizAttempt) Percentage() float64 {
	return Percentage(a.Score, a.TotalQuestions)
}

func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
