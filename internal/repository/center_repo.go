package repository

import (
	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
)

type CenterRepository struct {
	db *gorm.DB
}

func NewCenterRepo(db *gorm.DB) *CenterRepository {
	return &CenterRepository{db: db}
}

// GetAllCenters retrieves all centers
func (r *CenterRepository) GetAllCenters() ([]models.Center, error) {
	var centers []models.Center
	err := r.db.Order("name ASC, id ASC").Find(&centers).Error
	return centers, err
}

// GetCenterByID retrieves a center by ID
func (r *CenterRepository) GetCenterByID(id uint) (*models.Center, error) {
	var center models.Center
	if err := r.db.First(&center, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &center, nil
}

// GetCentersByUserID retrieves the centers a user is a member of
func (r *CenterRepository) GetCentersByUserID(userID uint) ([]models.Center, error) {
	var centers []models.Center
	err := r.db.
		Joins("INNER JOIN memberships ON memberships.center_id = centers.id").
		Where("memberships.user_id = ?", userID).
		Order("centers.name ASC, centers.id ASC").
		Find(&centers).Error
	return centers, err
}

// CreateCenter creates a new center
func (r *CenterRepository) CreateCenter(center *models.Center) error {
	return r.db.Create(center).Error
}

// UpdateCenter writes the given columns of an existing center
func (r *CenterRepository) UpdateCenter(id uint, fields map[string]interface{}) (*models.Center, error) {
	var center models.Center
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&center, id).Error; err != nil {
			return notFound(err)
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&center).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&center, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &center, nil
}

// DeleteCenter removes a center, its memberships and its shifts after today.
// Shifts on or before today stay as history.
func (r *CenterRepository) DeleteCenter(id uint, today string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Center{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("center_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Where("center_id = ? AND day > ?", id, today).Delete(&models.Shift{}).Error
	})
}
