package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage is one durable message in a request's chat room. Append-only,
// ordered by Timestamp.
type ChatMessage struct {
	gorm.Model

	RequestID   uint      `gorm:"not null;index"`
	SenderID    uint      `gorm:"not null"`
	RecipientID uint      `gorm:"not null"`
	Message     string    `gorm:"type:text;not null"`
	Timestamp   time.Time `gorm:"not null;index"`

	// Relationships
	Request BloodRequest `gorm:"foreignKey:RequestID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
