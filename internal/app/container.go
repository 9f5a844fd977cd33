package app

import (
	"emergency-center-scheduler/internal/config"
	"emergency-center-scheduler/internal/repository"
	"emergency-center-scheduler/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds the services built over one database handle
type Container struct {
	Access       *service.AccessService
	Auth         *service.AuthService
	Users        *service.UserService
	Centers      *service.CenterService
	Schedule     *service.ScheduleService
	Availability *service.AvailabilityService
	Messages     *service.MessageService
	Reports      *service.ReportService
	Support      *service.SupportService
	Audit        *service.AuditService
	Worker       *service.WorkerService
}

func NewContainer(db *gorm.DB, cfg *config.Config, calendar *service.Calendar, log *zap.Logger) *Container {
	// Repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	centerRepo := repository.NewCenterRepo(db)
	membershipRepo := repository.NewMembershipRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	busyDayRepo := repository.NewBusyDayRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	supportRepo := repository.NewSupportRepo(db)

	access := service.NewAccessService(userRepo, membershipRepo)

	return &Container{
		Access:       access,
		Auth:         service.NewAuthService(userRepo, auditRepo, calendar, log),
		Users:        service.NewUserService(userRepo, auditRepo, access, log),
		Centers:      service.NewCenterService(centerRepo, membershipRepo, userRepo, auditRepo, access, calendar, log),
		Schedule:     service.NewScheduleService(shiftRepo, centerRepo, membershipRepo, messageRepo, auditRepo, access, calendar, log),
		Availability: service.NewAvailabilityService(busyDayRepo, calendar),
		Messages:     service.NewMessageService(messageRepo, userRepo, calendar),
		Reports:      service.NewReportService(shiftRepo, access),
		Support:      service.NewSupportService(supportRepo, auditRepo, access, log),
		Audit:        service.NewAuditService(auditRepo, access),
		Worker:       service.NewWorkerService(userRepo, calendar, cfg.Schedule.TokenPurgeInterval, log),
	}
}
