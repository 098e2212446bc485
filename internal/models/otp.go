package models

import (
	"time"

	"gorm.io/gorm"
)

// Otp is a short-lived email verification code issued during registration.
type Otp struct {
	gorm.Model

	Email     string    `gorm:"not null;index"`
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
