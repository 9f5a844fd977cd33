package repository

import (
	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
)

type BusyDayRepository struct {
	db *gorm.DB
}

func NewBusyDayRepo(db *gorm.DB) *BusyDayRepository {
	return &BusyDayRepository{db: db}
}

// ListDays returns a medic's busy days in [first, last], ascending
func (r *BusyDayRepository) ListDays(medicID uint, first, last string) ([]string, error) {
	days := []string{}
	err := r.db.Model(&models.BusyDay{}).
		Where("medic_id = ? AND day >= ? AND day <= ?", medicID, first, last).
		Order("day ASC").
		Pluck("day", &days).Error
	return days, err
}

// CreateBusyDay marks a day unavailable. A shift held by the medic that day
// yields ConstraintMedicScheduled; a repeated mark yields ConstraintBusyDay.
func (r *BusyDayRepository) CreateBusyDay(busy *models.BusyDay) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockMedic(tx, busy.MedicID).Error; err != nil {
			return err
		}
		scheduled, err := exists(tx.Model(&models.Shift{}).Where("medic_id = ? AND day = ?", busy.MedicID, busy.Day))
		if err != nil {
			return err
		}
		if scheduled {
			return conflict(ConstraintMedicScheduled)
		}
		return tx.Create(busy).Error
	})
	if isDuplicate(err) {
		return conflict(ConstraintBusyDay)
	}
	return err
}

// DeleteBusyDay removes a busy day mark
func (r *BusyDayRepository) DeleteBusyDay(medicID uint, day string) error {
	res := r.db.Where("medic_id = ? AND day = ?", medicID, day).Delete(&models.BusyDay{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
