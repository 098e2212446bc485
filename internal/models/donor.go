package models

import "gorm.io/gorm"

// Donor is the opt-in donor profile for a user. BloodGroup is copied from
// the user at registration time and not re-synced afterwards.
type Donor struct {
	gorm.Model

	UserID             uint   `gorm:"uniqueIndex;not null"`
	BloodGroup         string `gorm:"not null;index"`
	AvailabilityStatus string `gorm:"not null;default:available"` // "available" or "unavailable"

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
