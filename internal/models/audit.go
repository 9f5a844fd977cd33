package models

import "time"

// AuditLog represents the audit_logs table.
// UserID is not a foreign key: entries outlive the users they mention.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id,string"`
	UserID    *uint     `gorm:"index" json:"user_id,string"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
