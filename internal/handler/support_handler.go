package handler

import (
	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SupportHandler struct {
	base
	supportService *service.SupportService
}

func NewSupportHandler(supportService *service.SupportService, log *zap.Logger) *SupportHandler {
	return &SupportHandler{base: base{log: log}, supportService: supportService}
}

type SupportRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
}

// Submit files a ticket. Anonymous callers must supply an email.
func (h *SupportHandler) Submit(c *gin.Context) {
	var req SupportRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ticket, err := h.supportService.Submit(middleware.SubjectFrom(c), req.Message, req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, ticket)
}
