package middleware

import (
	"emergency-center-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextCenterID = "centerID"

// AccessControlMiddleware guards center-scoped routes. The center id is
// read from the :id path parameter.
type AccessControlMiddleware struct {
	access *service.AccessService
	log    *zap.Logger
}

func NewAccessControlMiddleware(access *service.AccessService, log *zap.Logger) *AccessControlMiddleware {
	return &AccessControlMiddleware{access: access, log: log}
}

// RequireCenterMember admits members of the center and approved admins
func (m *AccessControlMiddleware) RequireCenterMember() gin.HandlerFunc {
	return m.guard(m.access.RequireMember)
}

// RequireCenterLeadOrAdmin admits the center's lead and approved admins
func (m *AccessControlMiddleware) RequireCenterLeadOrAdmin() gin.HandlerFunc {
	return m.guard(m.access.RequireLeadOrAdmin)
}

func (m *AccessControlMiddleware) guard(check func(*service.Subject, uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		centerID, err := service.ParseID(c.Param("id"))
		if err != nil {
			AbortWithError(c, m.log, service.Validation("invalid center id"))
			return
		}

		if err := check(SubjectFrom(c), centerID); err != nil {
			AbortWithError(c, m.log, err)
			return
		}

		c.Set(ContextCenterID, centerID)
		c.Next()
	}
}

// CenterIDFrom returns the center id validated by AccessControlMiddleware
func CenterIDFrom(c *gin.Context) uint {
	return c.GetUint(ContextCenterID)
}
