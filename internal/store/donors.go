package store

import (
	"errors"
	"strings"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"github.com/lifeblood-dev/lifeblood/internal/types"
	"gorm.io/gorm"
)

// DonorRegistry owns donor profiles and eligibility reads.
type DonorRegistry struct {
	DB *gorm.DB
}

func NewDonorRegistry(db *gorm.DB) *DonorRegistry {
	return &DonorRegistry{DB: db}
}

// Register creates a donor profile for the user, copying the user's current
// blood group. A user registers at most once.
func (r *DonorRegistry) Register(userID uint) (*models.Donor, error) {
	var existing models.Donor

	err := r.DB.Where("user_id = ?", userID).First(&existing).Error

	if err == nil {
		return nil, ErrAlreadyRegistered
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User

	if err := r.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	donor := models.Donor{
		UserID:             userID,
		BloodGroup:         user.BloodGroup,
		AvailabilityStatus: types.AvailabilityAvailable,
	}

	if err := r.DB.Create(&donor).Error; err != nil {
		return nil, err
	}

	return &donor, nil
}

// SetAvailability toggles the donor's availability. Only the two canonical
// values are accepted.
func (r *DonorRegistry) SetAvailability(userID uint, status string) error {
	if status != types.AvailabilityAvailable && status != types.AvailabilityUnavailable {
		return ErrInvalidStatus
	}

	result := r.DB.Model(&models.Donor{}).
		Where("user_id = ?", userID).
		Update("availability_status", status)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotRegistered
	}

	return nil
}

// FindEligible returns available donors of the given blood group, excluding
// excludeUserID, in registration order. Callers wanting a single assignment
// take the head of the slice, so the ordering must be stable.
func (r *DonorRegistry) FindEligible(bloodGroup string, excludeUserID uint) ([]models.Donor, error) {
	var donors []models.Donor

	err := r.DB.Where("blood_group = ? AND availability_status = ? AND user_id != ?",
		bloodGroup, types.AvailabilityAvailable, excludeUserID).
		Order("id ASC").
		Find(&donors).Error

	return donors, err
}

func (r *DonorRegistry) Profile(userID uint) (*models.Donor, error) {
	var donor models.Donor

	err := r.DB.Where("user_id = ?", userID).First(&donor).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}

	return &donor, nil
}

type DonorCandidate struct {
	UserID     uint   `json:"id"`
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	BloodGroup string `json:"blood_group"`
}

// Search lists available donors of a blood group with an optional
// case-insensitive substring filter on the user's address. The searcher is
// always excluded from the results.
func (r *DonorRegistry) Search(bloodGroup, address string, excludeUserID uint) ([]DonorCandidate, error) {
	query := r.DB.Model(&models.Donor{}).
		Select("users.id AS user_id, users.full_name, users.address, donors.blood_group").
		Joins("JOIN users ON users.id = donors.user_id").
		Where("donors.blood_group = ? AND donors.availability_status = ? AND users.id != ?",
			bloodGroup, types.AvailabilityAvailable, excludeUserID)

	if trimmed := strings.TrimSpace(address); trimmed != "" {
		query = query.Where("LOWER(users.address) LIKE LOWER(?)", "%"+trimmed+"%")
	}

	var candidates []DonorCandidate

	err := query.Order("donors.id ASC").Scan(&candidates).Error

	return candidates, err
}
