package models

import "time"

// Global roles
const (
	RoleMedic = "medic"
	RoleAdmin = "admin"
)

// Account statuses. Only approved accounts may log in.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User represents the users table
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id,string"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	GlobalRole   string    `gorm:"size:20;not null;default:medic" json:"global_role"`
	Status       string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	Phone        *string   `gorm:"size:50" json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the global admin role
func (u *User) IsAdmin() bool {
	return u.GlobalRole == RoleAdmin
}

// IsApproved reports whether the account passed admin review
func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
