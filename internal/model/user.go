package model

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `json:"username" gorm:"size:80;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"size:120"`
	IsAdmin      bool   `json:"is_admin" gorm:"not null;default:false"`

	Attempts []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
