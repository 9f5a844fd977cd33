package logging

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger: human readable in gin debug mode,
// JSON otherwise
func New(ginMode string) (*zap.Logger, error) {
	if ginMode == gin.DebugMode {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Must is like New but falls back to a no-op logger on error
func Must(ginMode string) *zap.Logger {
	logger, err := New(ginMode)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
