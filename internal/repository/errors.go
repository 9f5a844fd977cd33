package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the targeted row does not exist
var ErrNotFound = errors.New("record not found")

// Constraint names a uniqueness or exclusivity rule enforced by the store
type Constraint string

const (
	ConstraintUserEmail        Constraint = "users.email"
	ConstraintMembership       Constraint = "memberships.center_user"
	ConstraintLeadUser         Constraint = "memberships.lead_user"
	ConstraintLeadCenter       Constraint = "memberships.lead_center"
	ConstraintShiftCenterDay   Constraint = "shifts.center_day"
	ConstraintShiftDayMedic    Constraint = "shifts.day_medic"
	ConstraintBusyDay          Constraint = "busy_days.medic_day"
	ConstraintMedicUnavailable Constraint = "busy_days.blocks_shift"
	ConstraintMedicScheduled   Constraint = "shifts.blocks_busy_day"
)

// ConflictError reports which constraint rejected a write
type ConflictError struct {
	Constraint Constraint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("constraint %s violated", e.Constraint)
}

// IsConflict reports whether err is a ConflictError for any of the given
// constraints, or for any constraint when none are given.
func IsConflict(err error, constraints ...Constraint) bool {
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if conflict.Constraint == c {
			return true
		}
	}
	return false
}

func conflict(c Constraint) error {
	return &ConflictError{Constraint: c}
}

// isDuplicate relies on gorm's TranslateError to normalize driver errors
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
