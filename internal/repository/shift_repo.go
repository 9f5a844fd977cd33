package repository

import (
	"errors"
	"time"

	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ShiftRow is a shift joined with the assigned medic's display fields.
// The user columns are NULL when the medic no longer resolves.
type ShiftRow struct {
	Day            string
	MedicID        uint
	MedicFirstName *string
	MedicLastName  *string
	MedicEmail     *string
}

// PersonalShiftRow is a shift joined with its center's name
type PersonalShiftRow struct {
	Day        string
	CenterID   uint
	CenterName *string
}

// ReportRow is the shift count of one medic at one center over a range
type ReportRow struct {
	MedicID      uint
	FirstName    *string
	LastName     *string
	Email        *string
	AssignedDays int64
}

// GetShift returns the shift occupying a center's day
func (r *ShiftRepository) GetShift(centerID uint, day string) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.Where("center_id = ? AND day = ?", centerID, day).First(&shift).Error; err != nil {
		return nil, notFound(err)
	}
	return &shift, nil
}

// CreateShift inserts a shift. The busy-day check runs in the same
// transaction as the insert; the two unique indexes on shifts reject a taken
// slot (ConstraintShiftCenterDay) or a medic already booked elsewhere that day
// (ConstraintShiftDayMedic).
func (r *ShiftRepository) CreateShift(shift *models.Shift) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNotBusy(tx, shift.MedicID, shift.Day); err != nil {
			return err
		}
		return tx.Create(shift).Error
	})
	if isDuplicate(err) {
		return r.classifyShiftConflict(shift.MedicID, shift.Day)
	}
	return err
}

// ReplaceShift assigns medicID to a center's day, overwriting any current
// occupant. The new medic must still be free that day everywhere else.
func (r *ShiftRepository) ReplaceShift(centerID uint, day string, medicID, assignedBy uint, now time.Time) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNotBusy(tx, medicID, day); err != nil {
			return err
		}

		err := tx.Where("center_id = ? AND day = ?", centerID, day).First(&shift).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			shift = models.Shift{CenterID: centerID, Day: day, MedicID: medicID, AssignedBy: assignedBy}
			return tx.Create(&shift).Error
		case err != nil:
			return err
		}

		shift.MedicID = medicID
		shift.AssignedBy = assignedBy
		shift.UpdatedAt = &now
		return tx.Save(&shift).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, r.classifyShiftConflict(medicID, day)
		}
		return nil, err
	}
	return &shift, nil
}

// DeleteShift removes the shift occupying a center's day
func (r *ShiftRepository) DeleteShift(centerID uint, day string) error {
	res := r.db.Where("center_id = ? AND day = ?", centerID, day).Delete(&models.Shift{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CenterMonth returns a center's shifts in [first, last] with medic details
func (r *ShiftRepository) CenterMonth(centerID uint, first, last string) ([]ShiftRow, error) {
	var rows []ShiftRow
	err := r.db.Table("shifts").
		Select("shifts.day AS day, shifts.medic_id AS medic_id, users.first_name AS medic_first_name, users.last_name AS medic_last_name, users.email AS medic_email").
		Joins("LEFT JOIN users ON users.id = shifts.medic_id").
		Where("shifts.center_id = ? AND shifts.day >= ? AND shifts.day <= ?", centerID, first, last).
		Order("shifts.day ASC").
		Scan(&rows).Error
	return rows, err
}

// MedicMonth returns a medic's own shifts in [first, last] with center names
func (r *ShiftRepository) MedicMonth(medicID uint, first, last string) ([]PersonalShiftRow, error) {
	var rows []PersonalShiftRow
	err := r.db.Table("shifts").
		Select("shifts.day AS day, shifts.center_id AS center_id, centers.name AS center_name").
		Joins("LEFT JOIN centers ON centers.id = shifts.center_id").
		Where("shifts.medic_id = ? AND shifts.day >= ? AND shifts.day <= ?", medicID, first, last).
		Order("shifts.day ASC").
		Scan(&rows).Error
	return rows, err
}

// CountByMedic aggregates a center's shifts in [first, last] per medic,
// highest count first, then by name.
func (r *ShiftRepository) CountByMedic(centerID uint, first, last string) ([]ReportRow, error) {
	var rows []ReportRow
	err := r.db.Table("shifts").
		Select("shifts.medic_id AS medic_id, users.first_name AS first_name, users.last_name AS last_name, users.email AS email, COUNT(*) AS assigned_days").
		Joins("LEFT JOIN users ON users.id = shifts.medic_id").
		Where("shifts.center_id = ? AND shifts.day >= ? AND shifts.day <= ?", centerID, first, last).
		Group("shifts.medic_id, users.first_name, users.last_name, users.email").
		Order("assigned_days DESC, first_name ASC, last_name ASC, medic_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ShiftRepository) classifyShiftConflict(medicID uint, day string) error {
	booked, err := exists(r.db.Model(&models.Shift{}).Where("day = ? AND medic_id = ?", day, medicID))
	if err != nil {
		return err
	}
	if booked {
		return conflict(ConstraintShiftDayMedic)
	}
	return conflict(ConstraintShiftCenterDay)
}

func ensureNotBusy(tx *gorm.DB, medicID uint, day string) error {
	if err := lockMedic(tx, medicID).Error; err != nil {
		return err
	}
	busy, err := exists(tx.Model(&models.BusyDay{}).Where("medic_id = ? AND day = ?", medicID, day))
	if err != nil {
		return err
	}
	if busy {
		return conflict(ConstraintMedicUnavailable)
	}
	return nil
}

// lockMedic takes a row lock on the medic's user row. Every shift and busy
// day write for that medic runs behind it, so the cross-table exclusion
// check cannot interleave with a concurrent write for the same medic.
// SQLite has no row locks and its driver drops the clause.
func lockMedic(tx *gorm.DB, medicID uint) *gorm.DB {
	var ids []uint
	return tx.Model(&models.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", medicID).
		Pluck("id", &ids)
}
