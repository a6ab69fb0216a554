package model

type Subject struct {
	ID     uint    `gorm:"primarykey" json:"id"`
	Name   string  `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Topics []Topic `json:"topics,omitempty" gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
