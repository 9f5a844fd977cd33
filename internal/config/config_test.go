package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("SCHEDULE_TIMEZONE", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := LoadConfig()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, time.Local, cfg.Schedule.Location)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "2h")
	t.Setenv("SCHEDULE_TIMEZONE", "Europe/Bucharest")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ADMIN_EMAIL", "  Root@Example.COM ")
	t.Setenv("GIN_MODE", "release")

	cfg := LoadConfig()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "Europe/Bucharest", cfg.Schedule.Location.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
	assert.True(t, cfg.IsRelease())
}

func TestLoadConfigFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "a week")
	t.Setenv("TOKEN_PURGE_INTERVAL", "-5m")
	t.Setenv("SCHEDULE_TIMEZONE", "Mars/Olympus_Mons")

	cfg := LoadConfig()

	assert.Equal(t, 7*24*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, time.Hour, cfg.Schedule.TokenPurgeInterval)
	assert.Equal(t, time.Local, cfg.Schedule.Location)
}
