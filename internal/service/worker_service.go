package service

import (
	"context"
	"time"

	"emergency-center-scheduler/internal/repository"

	"go.uber.org/zap"
)

// WorkerService periodically deletes refresh tokens that are expired or
// revoked
type WorkerService struct {
	userRepo *repository.UserRepository
	calendar *Calendar
	interval time.Duration
	log      *zap.Logger
}

func NewWorkerService(userRepo *repository.UserRepository, calendar *Calendar, interval time.Duration, log *zap.Logger) *WorkerService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &WorkerService{
		userRepo: userRepo,
		calendar: calendar,
		interval: interval,
		log:      log,
	}
}

// Start runs the purge loop until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("token purge worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("token purge worker stopped")
			return
		case <-ticker.C:
			w.PurgeOnce()
		}
	}
}

// PurgeOnce deletes stale refresh tokens and returns how many were removed
func (w *WorkerService) PurgeOnce() int64 {
	purged, err := w.userRepo.PurgeRefreshTokens(w.calendar.Now())
	if err != nil {
		w.log.Error("failed to purge refresh tokens", zap.Error(err))
		return 0
	}
	if purged > 0 {
		w.log.Info("purged refresh tokens", zap.Int64("count", purged))
	}
	return purged
}
