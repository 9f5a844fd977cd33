package middleware

import (
	"errors"
	"net/http"

	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps a service error kind to an HTTP status
func StatusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err in the standard error envelope. Internal errors
// are logged, reported to Sentry when enabled, and hidden from the caller.
func RespondError(c *gin.Context, log *zap.Logger, err error) {
	kind := service.KindOf(err)
	status := StatusFor(kind)

	if kind != service.KindInternal {
		var svcErr *service.Error
		errors.As(err, &svcErr)
		utils.ErrorResponse(c, status, svcErr.Message)
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	_ = c.Error(err)
	utils.ErrorResponse(c, status, "Internal server error")
}

// AbortWithError is RespondError for middleware: the chain stops here
func AbortWithError(c *gin.Context, log *zap.Logger, err error) {
	RespondError(c, log, err)
	c.Abort()
}
