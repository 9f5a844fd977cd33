package models

import "time"

// Center represents an emergency care site with its own roster and calendar
type Center struct {
	ID        uint      `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Location  *string   `gorm:"size:255" json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Center model
func (Center) TableName() string {
	return "centers"
}
