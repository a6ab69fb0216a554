package model

import (
	"time"
)

type Quiz struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	LevelID     *uint      `json:"level_id,omitempty" gorm:"index"`
	Level       *Level     `json:"level,omitempty" gorm:"foreignKey:LevelID"`
	TimeLimit   int        `json:"time_limit" gorm:"not null;default:30"` // minutes
	IsVisible   bool       `json:"is_visible" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Attempts []QuizAttempt `json:"-" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
