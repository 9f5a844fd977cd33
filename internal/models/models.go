package models

// All returns every model migrated at startup
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Center{},
		&Membership{},
		&Shift{},
		&BusyDay{},
		&Message{},
		&SupportTicket{},
		&AuditLog{},
	}
}
