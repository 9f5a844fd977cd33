package models

import "time"

// Support ticket statuses
const (
	TicketStatusOpen     = "open"
	TicketStatusResolved = "resolved"
)

// SupportTicket is an inbound support request, authenticated or anonymous.
// The submitter's name is cached at creation time.
type SupportTicket struct {
	ID            uint      `gorm:"primaryKey" json:"id,string"`
	CreatedAt     time.Time `gorm:"index:idx_support_resolved_created,priority:2" json:"created_at"`
	Status        string    `gorm:"size:20;not null;default:open;index" json:"status"`
	Resolved      bool      `gorm:"not null;default:false;index:idx_support_resolved_created,priority:1" json:"resolved"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Email         *string   `gorm:"size:255" json:"email"`
	UserID        *uint     `gorm:"index" json:"user_id,string"`
	UserFirstName *string   `gorm:"size:100" json:"user_first_name"`
	UserLastName  *string   `gorm:"size:100" json:"user_last_name"`
}

// TableName specifies the table name for SupportTicket model
func (SupportTicket) TableName() string {
	return "support_tickets"
}
