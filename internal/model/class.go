package model

type Class struct {
	ID      uint    `gorm:"primarykey" json:"id"`
	Name    string  `json:"name" gorm:"size:100;not null"`
	TopicID uint    `json:"topic_id" gorm:"not null;index"`
	Topic   Topic   `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	Levels  []Level `json:"levels,omitempty" gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
