package middleware

import (
	"strings"

	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID  = "userID"
	ContextSubject = "subject"
)

// AuthMiddleware resolves bearer tokens to approved subjects
type AuthMiddleware struct {
	access *service.AccessService
	log    *zap.Logger
}

func NewAuthMiddleware(access *service.AccessService, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{access: access, log: log}
}

// RequireAuth validates the JWT access token from the Authorization header
// and loads the subject. Unknown users are rejected with 401 and accounts
// that are no longer approved with 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			AbortWithError(c, m.log, service.Unauthorized("Authorization header required"))
			return
		}
		if !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the subject when a token is present. Requests
// without an Authorization header continue anonymously; a bad token is
// still rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// RequireApprovedAdmin checks that the authenticated subject is an approved admin
func (m *AuthMiddleware) RequireApprovedAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.access.RequireApprovedAdmin(SubjectFrom(c)); err != nil {
			AbortWithError(c, m.log, err)
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, authHeader string) bool {
	// Check Bearer prefix
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		AbortWithError(c, m.log, service.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
		return false
	}

	claims, err := utils.ValidateAccessToken(parts[1])
	if err != nil {
		AbortWithError(c, m.log, service.Unauthorized("Invalid or expired token"))
		return false
	}

	subject, err := m.access.ResolveSubject(claims.UserID)
	if err != nil {
		AbortWithError(c, m.log, err)
		return false
	}

	// Inject subject into context
	c.Set(ContextUserID, subject.ID())
	c.Set(ContextSubject, subject)
	return true
}

// SubjectFrom returns the authenticated subject, or nil for anonymous requests
func SubjectFrom(c *gin.Context) *service.Subject {
	value, ok := c.Get(ContextSubject)
	if !ok {
		return nil
	}
	subject, _ := value.(*service.Subject)
	return subject
}
