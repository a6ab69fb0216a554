package model

type Topic struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	Name      string  `json:"name" gorm:"size:100;not null"`
	SubjectID uint    `json:"subject_id" gorm:"not null;index"`
	Subject   Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Classes   []Class `json:"classes,omitempty" gorm:"foreignKey:TopicID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
