package store

import (
	"strings"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"github.com/lifeblood-dev/lifeblood/internal/types"
	"gorm.io/gorm"
)

// RequestStore owns the BloodRequest lifecycle. All status changes go
// through Transition, which is conditioned on the current persisted status.
type RequestStore struct {
	DB *gorm.DB
}

func NewRequestStore(db *gorm.DB) *RequestStore {
	return &RequestStore{DB: db}
}

func (s *RequestStore) Create(recipientUserID uint, bloodGroup, hospitalName string) (*models.BloodRequest, error) {
	if !types.IsValidBloodGroup(bloodGroup) {
		return nil, ErrInvalidBloodGroup
	}

	hospitalName = strings.TrimSpace(hospitalName)

	request := models.BloodRequest{
		RecipientUserID:    recipientUserID,
		RequiredBloodGroup: bloodGroup,
		HospitalName:       hospitalName,
		Status:             types.StatusPending,
	}

	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (s *RequestStore) Get(id uint) (*models.BloodRequest, error) {
	var request models.BloodRequest

	if err := s.DB.First(&request, id).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// ListPending returns pending requests oldest first, with the recipient
// preloaded for the admin dashboard.
func (s *RequestStore) ListPending() ([]models.BloodRequest, error) {
	var requests []models.BloodRequest

	err := s.DB.Preload("Recipient").
		Where("status = ?", types.StatusPending).
		Order("created_at ASC").
		Find(&requests).Error

	return requests, err
}

func (s *RequestStore) ListForUser(userID uint) ([]models.BloodRequest, error) {
	var requests []models.BloodRequest

	err := s.DB.Where("recipient_user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error

	return requests, err
}

// Transition applies updates to a request only if its current status still
// matches expectedStatus. The conditional UPDATE is what makes concurrent
// adjudications of the same request mutually exclusive: the loser matches
// zero rows and gets ErrNotFoundOrProcessed.
func (s *RequestStore) Transition(id uint, expectedStatus string, updates map[string]interface{}) error {
	result := s.DB.Model(&models.BloodRequest{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFoundOrProcessed
	}

	return nil
}

type Conversation struct {
	RequestID          uint   `json:"id"`
	RequiredBloodGroup string `json:"required_blood_group"`
	RecipientID        uint   `json:"recipient_id"`
	RecipientName      string `json:"recipient_name"`
	DonorID            uint   `json:"donor_id"`
	DonorName          string `json:"donor_name"`
}

// ListConversations returns the approved requests the user participates in,
// either as the recipient or as the assigned donor.
func (s *RequestStore) ListConversations(userID uint) ([]Conversation, error) {
	var conversations []Conversation

	err := s.DB.Model(&models.BloodRequest{}).
		Select(`blood_requests.id AS request_id,
			blood_requests.required_blood_group,
			recipients.id AS recipient_id,
			recipients.full_name AS recipient_name,
			donors.id AS donor_id,
			donors.full_name AS donor_name`).
		Joins("JOIN users recipients ON recipients.id = blood_requests.recipient_user_id").
		Joins("JOIN users donors ON donors.id = blood_requests.assigned_donor_id").
		Where("(blood_requests.recipient_user_id = ? OR blood_requests.assigned_donor_id = ?) AND blood_requests.status = ?",
			userID, userID, types.StatusApproved).
		Order("blood_requests.created_at DESC").
		Scan(&conversations).Error

	return conversations, err
}
