package handler

import (
	"strconv"

	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	base
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{base: base{log: log}, userService: userService}
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Me returns the caller's profile
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetProfile(middleware.SubjectFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// UpdateMe edits first name, last name and phone
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	user, changed, err := h.userService.UpdateProfile(middleware.SubjectFrom(c), service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "Profile updated"
	if !changed {
		message = "Nothing to update"
	}
	utils.SuccessResponse(c, gin.H{"message": message, "user": user})
}

// ChangePassword replaces the caller's password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	err := h.userService.ChangePassword(middleware.SubjectFrom(c), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.MessageResponse(c, "Password changed")
}

// FindByEmail looks a user up by ?email=
func (h *UserHandler) FindByEmail(c *gin.Context) {
	user, err := h.userService.FindByEmail(c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"id":         strconv.FormatUint(uint64(user.ID), 10),
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"status":     user.Status,
	})
}

// Basics returns display fields for ?ids=a,b,c
func (h *UserHandler) Basics(c *gin.Context) {
	users, err := h.userService.Basics(c.Query("ids"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"users": users})
}
