package handler

import (
	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// base carries what every handler needs to answer errors
type base struct {
	log *zap.Logger
}

func (b base) fail(c *gin.Context, err error) {
	middleware.RespondError(c, b.log, err)
}

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := service.ParseID(c.Param(name))
	if err != nil {
		return 0, service.Validation("invalid " + name)
	}
	return id, nil
}
