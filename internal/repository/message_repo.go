package repository

import (
	"strconv"

	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateMessage stores a message
func (r *MessageRepository) CreateMessage(msg *models.Message) error {
	return r.db.Create(msg).Error
}

// ListConversations returns the latest message of every conversation the user
// takes part in, newest conversation first.
func (r *MessageRepository) ListConversations(userID uint) ([]models.ConversationSummary, error) {
	sender := strconv.FormatUint(uint64(userID), 10)

	latest := r.db.Model(&models.Message{}).
		Select("conversation_id, MAX(timestamp) AS latest_at").
		Where("to_id = ? OR from_id = ?", userID, sender).
		Group("conversation_id")

	var msgs []models.Message
	err := r.db.Model(&models.Message{}).
		Select("messages.*").
		Joins("INNER JOIN (?) latest ON latest.conversation_id = messages.conversation_id AND latest.latest_at = messages.timestamp", latest).
		Where("messages.to_id = ? OR messages.from_id = ?", userID, sender).
		Order("messages.timestamp DESC, messages.id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(msgs))
	summaries := make([]models.ConversationSummary, 0, len(msgs))
	for _, m := range msgs {
		if seen[m.ConversationID] {
			continue
		}
		seen[m.ConversationID] = true
		summaries = append(summaries, models.ConversationSummary{
			ConversationID: m.ConversationID,
			LastMessage:    m.Content,
			Timestamp:      m.Timestamp,
		})
	}
	return summaries, nil
}

// ListMessages returns a conversation's messages the user sent or received,
// oldest first.
func (r *MessageRepository) ListMessages(conversationID string, userID uint) ([]models.Message, error) {
	sender := strconv.FormatUint(uint64(userID), 10)
	msgs := []models.Message{}
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Where(r.db.Where("to_id = ?", userID).Or("from_id = ?", sender)).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}
