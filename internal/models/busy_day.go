package models

import "time"

// BusyDay is a medic-declared day of unavailability
type BusyDay struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	MedicID   uint      `gorm:"not null;uniqueIndex:idx_busy_days_medic_day,priority:1" json:"medic_id,string"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_busy_days_medic_day,priority:2" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for BusyDay model
func (BusyDay) TableName() string {
	return "busy_days"
}
