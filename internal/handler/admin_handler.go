package handler

import (
	"strconv"
	"strings"

	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the approved-admin console: user review, account
// overrides, the support inbox and the audit trail
type AdminHandler struct {
	base
	userService    *service.UserService
	supportService *service.SupportService
	auditService   *service.AuditService
}

func NewAdminHandler(userService *service.UserService, supportService *service.SupportService, auditService *service.AuditService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		base:           base{log: log},
		userService:    userService,
		supportService: supportService,
		auditService:   auditService,
	}
}

type SetEmailRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type ResolveTicketRequest struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(middleware.SubjectFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"users": users, "count": len(users)})
}

func (h *AdminHandler) ListPending(c *gin.Context) {
	users, err := h.userService.ListPending(middleware.SubjectFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"pending": users, "count": len(users)})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	h.withUserID(c, func(userID uint) error {
		return h.userService.Approve(middleware.SubjectFrom(c), userID)
	}, "User approved")
}

func (h *AdminHandler) Reject(c *gin.Context) {
	h.withUserID(c, func(userID uint) error {
		return h.userService.Reject(middleware.SubjectFrom(c), userID)
	}, "User rejected")
}

func (h *AdminHandler) SetEmail(c *gin.Context) {
	var req SetEmailRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	h.withUserID(c, func(userID uint) error {
		return h.userService.SetEmail(middleware.SubjectFrom(c), userID, req.Email)
	}, "Email updated")
}

func (h *AdminHandler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	h.withUserID(c, func(userID uint) error {
		return h.userService.SetPassword(middleware.SubjectFrom(c), userID, req.Password)
	}, "Password updated")
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	h.withUserID(c, func(userID uint) error {
		return h.userService.Delete(middleware.SubjectFrom(c), userID)
	}, "User deleted")
}

// ListSupport lists tickets; ?resolved=true|false filters, anything else
// lists all
func (h *AdminHandler) ListSupport(c *gin.Context) {
	var resolved *bool
	if raw, ok := c.GetQuery("resolved"); ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes":
			v := true
			resolved = &v
		case "false", "0", "no":
			v := false
			resolved = &v
		}
	}

	tickets, err := h.supportService.List(middleware.SubjectFrom(c), resolved)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"items": tickets})
}

func (h *AdminHandler) ResolveSupport(c *gin.Context) {
	ticketID, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req ResolveTicketRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ticket, err := h.supportService.SetResolved(middleware.SubjectFrom(c), ticketID, *req.Resolved)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, ticket)
}

// ListAudit returns the newest audit entries. ?limit= defaults to 100 and
// must be a positive number.
func (h *AdminHandler) ListAudit(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		h.fail(c, service.Validation("limit must be a positive number"))
		return
	}

	logs, err := h.auditService.ListRecent(middleware.SubjectFrom(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"entries": logs})
}

func (h *AdminHandler) withUserID(c *gin.Context, action func(uint) error, message string) {
	userID, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := action(userID); err != nil {
		h.fail(c, err)
		return
	}
	utils.MessageResponse(c, message)
}
