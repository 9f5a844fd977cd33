package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emergency-center-scheduler/internal/app"
	"emergency-center-scheduler/internal/config"
	"emergency-center-scheduler/internal/database"
	"emergency-center-scheduler/internal/logging"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	gin.SetMode(cfg.Server.GinMode)

	log := logging.Must(cfg.Server.GinMode)
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("timezone", cfg.Schedule.Location.String()),
	)

	// 2. Error reporting
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// 3. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 4. Initialize database connection
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// 5. Services
	calendar := service.NewCalendar(cfg.Schedule.Location)
	container := app.NewContainer(db, cfg, calendar, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := container.Auth.EnsureAdmin(cfg.Admin.Email, cfg.Admin.Password, "Admin", "User")
		if err != nil {
			log.Error("failed to seed admin", zap.Error(err))
		} else if created {
			log.Info("seeded admin account", zap.String("email", cfg.Admin.Email))
		}
	}

	// 6. Start background worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go container.Worker.Start(ctx)

	// 7. Router
	router, err := app.NewRouter(container, cfg, log)
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Setup graceful shutdown
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Cancel background worker context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server exited")
}
