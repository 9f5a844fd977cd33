package models

import "time"

// Center roles
const (
	MemberRoleMedic = "medic"
	MemberRoleLead  = "lead"
)

// Membership links a user to a center with a per-center role.
//
// LeadUserID and LeadCenterID mirror UserID and CenterID only while Role is
// lead and are NULL otherwise. Their unique indexes give a partial uniqueness
// rule on every supported driver: one lead membership per user globally and
// one lead per center.
type Membership struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	CenterID     uint      `gorm:"not null;uniqueIndex:idx_memberships_center_user,priority:1" json:"center_id,string"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_memberships_center_user,priority:2;index" json:"user_id,string"`
	Role         string    `gorm:"size:20;not null;default:medic" json:"role"`
	LeadUserID   *uint     `gorm:"uniqueIndex:idx_memberships_lead_user" json:"-"`
	LeadCenterID *uint     `gorm:"uniqueIndex:idx_memberships_lead_center" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Center Center `gorm:"foreignKey:CenterID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Membership model
func (Membership) TableName() string {
	return "memberships"
}

// SetRole updates the role and keeps the lead uniqueness columns in step
func (m *Membership) SetRole(role string) {
	m.Role = role
	if role == MemberRoleLead {
		userID, centerID := m.UserID, m.CenterID
		m.LeadUserID = &userID
		m.LeadCenterID = &centerID
		return
	}
	m.LeadUserID = nil
	m.LeadCenterID = nil
}

// MemberDetails is a membership joined with the member's display fields
type MemberDetails struct {
	UserID    uint    `json:"user_id,string"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"`
}
