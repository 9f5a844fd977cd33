package models

import "time"

// SystemSender is the synthetic author of scheduling notifications
const SystemSender = "system"

// Message is a single entry in a system or direct conversation.
// FromID holds the sender's id as a string, or SystemSender.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id,string"`
	ConversationID string    `gorm:"size:100;not null;index:idx_messages_to_conversation,priority:2;index:idx_messages_conversation" json:"conversation_id"`
	FromID         string    `gorm:"size:50;not null;index" json:"from"`
	ToID           uint      `gorm:"not null;index:idx_messages_to_conversation,priority:1" json:"to,string"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Timestamp      time.Time `gorm:"not null;index:idx_messages_to_conversation,priority:3" json:"timestamp"`
	System         bool      `gorm:"not null;default:false" json:"system"`
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}

// ConversationSummary is the latest message of one conversation
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	LastMessage    string    `json:"last_message"`
	Timestamp      time.Time `json:"timestamp"`
}
