package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string `gorm:"not null"`
	PhoneNumber  string
	Address      string
	BloodGroup   string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"` // "user" or "admin"

	// Relationships
	Donor         *Donor         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	BloodRequests []BloodRequest `gorm:"foreignKey:RecipientUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
