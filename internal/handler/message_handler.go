package handler

import (
	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageHandler struct {
	base
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{base: base{log: log}, messageService: messageService}
}

type SendMessageRequest struct {
	ToUserID string `json:"to_user_id" binding:"required"`
	Content  string `json:"content" binding:"required,max=4000"`
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	conversations, err := h.messageService.Conversations(middleware.SubjectFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"conversations": conversations})
}

func (h *MessageHandler) Messages(c *gin.Context) {
	messages, err := h.messageService.Messages(middleware.SubjectFrom(c), c.Param("conversation_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"messages": messages})
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	message, err := h.messageService.Send(middleware.SubjectFrom(c), req.ToUserID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"message":         message,
		"conversation_id": message.ConversationID,
	})
}
