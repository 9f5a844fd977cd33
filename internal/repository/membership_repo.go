package repository

import (
	"errors"

	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepo(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// FindMembership returns the membership of a user in a center
func (r *MembershipRepository) FindMembership(centerID, userID uint) (*models.Membership, error) {
	var m models.Membership
	err := r.db.Where("center_id = ? AND user_id = ?", centerID, userID).First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// IsMember checks whether a user belongs to a center in any role
func (r *MembershipRepository) IsMember(centerID, userID uint) (bool, error) {
	return exists(r.db.Model(&models.Membership{}).
		Where("center_id = ? AND user_id = ?", centerID, userID))
}

// IsLead checks whether a user is the lead of a center
func (r *MembershipRepository) IsLead(centerID, userID uint) (bool, error) {
	return exists(r.db.Model(&models.Membership{}).
		Where("center_id = ? AND user_id = ? AND role = ?", centerID, userID, models.MemberRoleLead))
}

// ListMembers returns a center's members joined with their display fields
func (r *MembershipRepository) ListMembers(centerID uint) ([]models.MemberDetails, error) {
	var members []models.MemberDetails
	err := r.db.Table("memberships").
		Select("users.id AS user_id, users.first_name, users.last_name, users.email, users.phone, memberships.role").
		Joins("INNER JOIN users ON users.id = memberships.user_id").
		Where("memberships.center_id = ?", centerID).
		Order("memberships.role ASC, users.last_name ASC, users.first_name ASC").
		Scan(&members).Error
	return members, err
}

// AddMember inserts a medic membership; an existing one yields ConstraintMembership
func (r *MembershipRepository) AddMember(centerID, userID uint) (*models.Membership, error) {
	m := &models.Membership{CenterID: centerID, UserID: userID}
	m.SetRole(models.MemberRoleMedic)
	if err := r.db.Create(m).Error; err != nil {
		if isDuplicate(err) {
			return nil, conflict(ConstraintMembership)
		}
		return nil, err
	}
	return m, nil
}

// AssignLead makes userID the lead of centerID in one transaction: any
// current lead of the center is demoted to medic and the user's membership is
// created or promoted. A user who leads another center yields
// ConstraintLeadUser, whether found up front or raised by the unique index.
func (r *MembershipRepository) AssignLead(centerID, userID uint) (*models.Membership, error) {
	var m models.Membership
	err := r.db.Transaction(func(tx *gorm.DB) error {
		elsewhere, err := exists(tx.Model(&models.Membership{}).
			Where("user_id = ? AND role = ? AND center_id <> ?", userID, models.MemberRoleLead, centerID))
		if err != nil {
			return err
		}
		if elsewhere {
			return conflict(ConstraintLeadUser)
		}

		err = tx.Model(&models.Membership{}).
			Where("center_id = ? AND role = ?", centerID, models.MemberRoleLead).
			Updates(map[string]interface{}{
				"role":           models.MemberRoleMedic,
				"lead_user_id":   nil,
				"lead_center_id": nil,
			}).Error
		if err != nil {
			return err
		}

		err = tx.Where("center_id = ? AND user_id = ?", centerID, userID).First(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m = models.Membership{CenterID: centerID, UserID: userID}
			m.SetRole(models.MemberRoleLead)
			return tx.Create(&m).Error
		case err != nil:
			return err
		}
		m.SetRole(models.MemberRoleLead)
		return tx.Save(&m).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, r.classifyLeadConflict(centerID, userID)
		}
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) classifyLeadConflict(centerID, userID uint) error {
	elsewhere, err := exists(r.db.Model(&models.Membership{}).
		Where("user_id = ? AND role = ? AND center_id <> ?", userID, models.MemberRoleLead, centerID))
	if err != nil {
		return err
	}
	if elsewhere {
		return conflict(ConstraintLeadUser)
	}
	return conflict(ConstraintLeadCenter)
}

// RemoveMember deletes a membership and the member's shifts at that center
// dated strictly after today. It returns how many shifts were removed.
func (r *MembershipRepository) RemoveMember(centerID, userID uint, today string) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("center_id = ? AND user_id = ?", centerID, userID).Delete(&models.Membership{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		res = tx.Where("center_id = ? AND medic_id = ? AND day > ?", centerID, userID, today).Delete(&models.Shift{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	return removed, err
}
