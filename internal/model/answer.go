package model

type Answer struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"size:255;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}
