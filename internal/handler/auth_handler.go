package handler

import (
	"net/http"

	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	base
	authService  *service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		base:         base{log: log},
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles self-registration. The account starts pending.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.authService.Register(service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Registration successful, awaiting approval",
		"user":    user,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	// Set refresh token as HttpOnly cookie
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		refreshCookie,
		response.RefreshToken,
		int(utils.GetRefreshTokenExpiry().Seconds()),
		"/",
		"",
		h.secureCookie,
		true,
	)

	utils.SuccessResponse(c, gin.H{
		"access_token": response.AccessToken,
		"expires_in":   int(utils.GetAccessTokenExpiry().Seconds()),
		"user":         response.User,
	})
}

// Refresh generates a new access token from the refresh cookie, or from
// the request body for clients without cookies
func (h *AuthHandler) Refresh(c *gin.Context) {
	accessToken, err := h.authService.RefreshAccessToken(h.refreshToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
		"expires_in":   int(utils.GetAccessTokenExpiry().Seconds()),
	})
}

// Logout revokes the refresh token and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(h.refreshToken(c)); err != nil {
		h.fail(c, err)
		return
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookie, true)
	utils.MessageResponse(c, "Logged out successfully")
}

func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
		return token
	}
	var req RefreshRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.RefreshToken
}
