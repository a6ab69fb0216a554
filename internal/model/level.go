package model

type Level struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `json:"name" gorm:"size:100;not null"`
	ClassID uint   `json:"class_id" gorm:"not null;index"`
	Class   Class  `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Quizzes []Quiz `json:"quizzes,omitempty" gorm:"foreignKey:LevelID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
