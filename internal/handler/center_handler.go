package handler

import (
	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CenterHandler struct {
	base
	centerService *service.CenterService
}

func NewCenterHandler(centerService *service.CenterService, log *zap.Logger) *CenterHandler {
	return &CenterHandler{base: base{log: log}, centerService: centerService}
}

type CenterRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Location *string `json:"location" binding:"omitempty,max=255"`
}

type MemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// GetAllCenters lists every center for admins, own centers for others
func (h *CenterHandler) GetAllCenters(c *gin.Context) {
	centers, err := h.centerService.ListCenters(middleware.SubjectFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"centers": centers,
		"count":   len(centers),
	})
}

func (h *CenterHandler) GetCenter(c *gin.Context) {
	center, err := h.centerService.GetCenter(middleware.SubjectFrom(c), middleware.CenterIDFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, center)
}

func (h *CenterHandler) CreateCenter(c *gin.Context) {
	var req CenterRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	center, err := h.centerService.CreateCenter(middleware.SubjectFrom(c), service.CenterInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, center)
}

func (h *CenterHandler) UpdateCenter(c *gin.Context) {
	centerID, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req CenterRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	center, err := h.centerService.UpdateCenter(middleware.SubjectFrom(c), centerID, service.CenterInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, center)
}

func (h *CenterHandler) DeleteCenter(c *gin.Context) {
	centerID, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.centerService.DeleteCenter(middleware.SubjectFrom(c), centerID); err != nil {
		h.fail(c, err)
		return
	}
	utils.MessageResponse(c, "Center deleted")
}

func (h *CenterHandler) ListMembers(c *gin.Context) {
	members, err := h.centerService.ListMembers(middleware.SubjectFrom(c), middleware.CenterIDFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"members": members})
}

func (h *CenterHandler) AddMember(c *gin.Context) {
	var req MemberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	userID, err := service.ParseID(req.UserID)
	if err != nil {
		h.fail(c, service.Validation("invalid user_id"))
		return
	}

	membership, err := h.centerService.AddMember(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, membership)
}

func (h *CenterHandler) AssignLead(c *gin.Context) {
	centerID, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req MemberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	userID, err := service.ParseID(req.UserID)
	if err != nil {
		h.fail(c, service.Validation("invalid user_id"))
		return
	}

	membership, err := h.centerService.AssignLead(middleware.SubjectFrom(c), centerID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, membership)
}

// RemoveMember deletes a membership and reports how many future shifts went with it
func (h *CenterHandler) RemoveMember(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	removed, err := h.centerService.RemoveMember(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message":               "Member removed",
		"future_shifts_removed": removed,
	})
}
