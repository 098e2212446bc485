package models

import "gorm.io/gorm"

// BloodRequest tracks a recipient's request through its lifecycle.
// AssignedDonorID is set iff Status is "approved"; a request is adjudicated
// at most once and never returns to "pending".
type BloodRequest struct {
	gorm.Model

	RecipientUserID    uint   `gorm:"not null;index"`
	RequiredBloodGroup string `gorm:"not null"`
	HospitalName       string `gorm:"not null"`
	Status             string `gorm:"not null;default:pending;index"` // "pending", "approved", "rejected"
	ApprovedByAdminID  *uint
	AssignedDonorID    *uint

	// Relationships
	Recipient    User          `gorm:"foreignKey:RecipientUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	ChatMessages []ChatMessage `gorm:"foreignKey:RequestID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
