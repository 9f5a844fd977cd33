package models

import "time"

// Shift assigns exactly one medic to one center for one calendar day.
// Day is stored as YYYY-MM-DD so range scans over a month are string ranges.
type Shift struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	CenterID   uint       `gorm:"not null;uniqueIndex:idx_shifts_center_day,priority:1" json:"center_id,string"`
	Day        string     `gorm:"size:10;not null;uniqueIndex:idx_shifts_center_day,priority:2;uniqueIndex:idx_shifts_day_medic,priority:1;index:idx_shifts_medic_day,priority:2" json:"date"`
	MedicID    uint       `gorm:"not null;uniqueIndex:idx_shifts_day_medic,priority:2;index:idx_shifts_medic_day,priority:1" json:"medic_id,string"`
	AssignedBy uint       `gorm:"not null" json:"assigned_by,string"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// TableName specifies the table name for Shift model
func (Shift) TableName() string {
	return "shifts"
}

// ScheduleDay is one calendar day of a center's monthly schedule
type ScheduleDay struct {
	Date           string  `json:"date"`
	Assigned       bool    `json:"assigned"`
	MedicID        *string `json:"medic_id"`
	MedicFirstName *string `json:"medic_first_name"`
	MedicLastName  *string `json:"medic_last_name"`
	MedicEmail     *string `json:"medic_email"`
}

// PersonalShift is one of the subject's own shifts with the center name
type PersonalShift struct {
	Date       string `json:"date"`
	CenterID   string `json:"center_id"`
	CenterName string `json:"center_name"`
}
