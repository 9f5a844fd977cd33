package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"emergency-center-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind service.Kind
		want int
	}{
		{service.KindValidation, http.StatusBadRequest},
		{service.KindUnauthorized, http.StatusUnauthorized},
		{service.KindForbidden, http.StatusForbidden},
		{service.KindNotFound, http.StatusNotFound},
		{service.KindConflict, http.StatusConflict},
		{service.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "conflict message is shown",
			err:      service.Conflict("day already assigned at this center"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"day already assigned at this center","success":false}`,
		},
		{
			name:     "internal detail is hidden",
			err:      service.Internal("failed to save shift", errors.New("disk on fire")),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error","success":false}`,
		},
		{
			name:     "plain errors are internal",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error","success":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
