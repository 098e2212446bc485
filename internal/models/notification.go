package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification records one outbound notification attempt for a request.
type Notification struct {
	gorm.Model

	RequestID uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Channel   string `gorm:"not null"` // e.g., "email"
	Status    string `gorm:"not null"` // "sent" or "failed"
	Message   string
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	SentAt    *time.Time

	// Relationships
	Request BloodRequest `gorm:"foreignKey:RequestID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User    User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
