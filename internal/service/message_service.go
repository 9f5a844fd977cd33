package service

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"
)

// DirectConversationID names the conversation between two users. The id
// does not depend on who writes first.
func DirectConversationID(a, b uint) string {
	ids := []string{
		strconv.FormatUint(uint64(a), 10),
		strconv.FormatUint(uint64(b), 10),
	}
	sort.Strings(ids)
	return "dm_" + strings.Join(ids, "_")
}

// SystemConversationID names a user's notification thread
func SystemConversationID(userID uint) string {
	return "system_" + strconv.FormatUint(uint64(userID), 10)
}

type MessageService struct {
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	calendar    *Calendar
}

func NewMessageService(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository, calendar *Calendar) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo, calendar: calendar}
}

// Conversations lists the subject's conversations, most recent first
func (s *MessageService) Conversations(actor *Subject) ([]models.ConversationSummary, error) {
	conversations, err := s.messageRepo.ListConversations(actor.ID())
	if err != nil {
		return nil, Internal("failed to list conversations", err)
	}
	return conversations, nil
}

// Messages returns a conversation's messages in chronological order. Only
// messages the subject sent or received are visible.
func (s *MessageService) Messages(actor *Subject, conversationID string) ([]models.Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, Validation("conversation_id is required")
	}
	msgs, err := s.messageRepo.ListMessages(conversationID, actor.ID())
	if err != nil {
		return nil, Internal("failed to load messages", err)
	}
	return msgs, nil
}

// Send posts a direct message. The system thread cannot be replied to.
func (s *MessageService) Send(actor *Subject, to, content string) (*models.Message, error) {
	to = strings.TrimSpace(to)
	content = strings.TrimSpace(content)
	if to == "" || content == "" {
		return nil, Validation("to_user_id and content are required")
	}
	if to == models.SystemSender {
		return nil, Validation("cannot message system")
	}
	recipientID, err := ParseID(to)
	if err != nil {
		return nil, Validation("invalid to_user_id")
	}

	if _, err := s.userRepo.FindUserByID(recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("recipient not found")
		}
		return nil, Internal("failed to load recipient", err)
	}

	msg := &models.Message{
		ConversationID: DirectConversationID(actor.ID(), recipientID),
		FromID:         strconv.FormatUint(uint64(actor.ID()), 10),
		ToID:           recipientID,
		Content:        content,
		Timestamp:      s.calendar.Now().UTC(),
	}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		return nil, Internal("failed to send message", err)
	}
	return msg, nil
}
