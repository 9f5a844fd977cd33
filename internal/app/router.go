package app

import (
	"sync"

	"emergency-center-scheduler/internal/config"
	"emergency-center-scheduler/internal/handler"
	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/pkg/utils"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// NewRouter builds the gin engine with every route registered
func NewRouter(c *Container, cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	validatorsOnce.Do(func() {
		validatorsErr = handler.RegisterValidators()
	})
	if validatorsErr != nil {
		return nil, validatorsErr
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.CORS(cfg))

	authMiddleware := middleware.NewAuthMiddleware(c.Access, log)
	centerAccess := middleware.NewAccessControlMiddleware(c.Access, log)

	authHandler := handler.NewAuthHandler(c.Auth, cfg.IsRelease(), log)
	userHandler := handler.NewUserHandler(c.Users, log)
	adminHandler := handler.NewAdminHandler(c.Users, c.Support, c.Audit, log)
	centerHandler := handler.NewCenterHandler(c.Centers, log)
	scheduleHandler := handler.NewScheduleHandler(c.Schedule, c.Availability, log)
	messageHandler := handler.NewMessageHandler(c.Messages, log)
	reportHandler := handler.NewReportHandler(c.Reports, log)
	supportHandler := handler.NewSupportHandler(c.Support, log)

	// Health check endpoint
	r.GET("/health", func(ctx *gin.Context) {
		utils.SuccessResponse(ctx, gin.H{
			"status":  "healthy",
			"service": "emergency-center-scheduler",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Support accepts anonymous tickets
	r.POST("/support", authMiddleware.OptionalAuth(), supportHandler.Submit)

	authed := r.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.GET("/me", userHandler.Me)
		authed.PATCH("/me", userHandler.UpdateMe)
		authed.POST("/me/change-password", userHandler.ChangePassword)

		authed.GET("/users/find", userHandler.FindByEmail)
		authed.GET("/users/basics", userHandler.Basics)

		authed.GET("/my/schedule", scheduleHandler.MySchedule)
		authed.GET("/my/busy", scheduleHandler.ListBusy)
		authed.POST("/my/busy", scheduleHandler.MarkBusy)
		authed.DELETE("/my/busy/:date", scheduleHandler.UnmarkBusy)

		authed.GET("/conversations", messageHandler.Conversations)
		authed.GET("/messages/:conversation_id", messageHandler.Messages)
		authed.POST("/messages", messageHandler.Send)
	}

	// Admin routes
	admin := authed.Group("/admin")
	admin.Use(authMiddleware.RequireApprovedAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/pending", adminHandler.ListPending)
		admin.PATCH("/users/:id/approve", adminHandler.Approve)
		admin.PATCH("/users/:id/reject", adminHandler.Reject)
		admin.PATCH("/users/:id/email", adminHandler.SetEmail)
		admin.PATCH("/users/:id/password", adminHandler.SetPassword)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/support", adminHandler.ListSupport)
		admin.PATCH("/support/:id", adminHandler.ResolveSupport)
		admin.GET("/audit", adminHandler.ListAudit)
	}

	// Center routes
	centers := authed.Group("/centers")
	{
		centers.GET("", centerHandler.GetAllCenters)
		centers.POST("", authMiddleware.RequireApprovedAdmin(), centerHandler.CreateCenter)
		centers.PATCH("/:id", authMiddleware.RequireApprovedAdmin(), centerHandler.UpdateCenter)
		centers.DELETE("/:id", authMiddleware.RequireApprovedAdmin(), centerHandler.DeleteCenter)
		centers.PATCH("/:id/assign-lead", authMiddleware.RequireApprovedAdmin(), centerHandler.AssignLead)

		member := centerAccess.RequireCenterMember()
		lead := centerAccess.RequireCenterLeadOrAdmin()

		centers.GET("/:id", member, centerHandler.GetCenter)
		centers.GET("/:id/members", member, centerHandler.ListMembers)
		centers.POST("/:id/members", lead, centerHandler.AddMember)
		centers.DELETE("/:id/members/:user_id", lead, centerHandler.RemoveMember)

		centers.GET("/:id/schedule", member, scheduleHandler.CenterSchedule)
		centers.POST("/:id/schedule", lead, scheduleHandler.Assign)
		centers.PUT("/:id/schedule", lead, scheduleHandler.Replace)
		centers.DELETE("/:id/schedule/:date", lead, scheduleHandler.Unassign)

		centers.GET("/:id/reports", member, reportHandler.MonthReport)
		centers.GET("/:id/reports.csv", member, reportHandler.MonthReportCSV)
	}

	return r, nil
}
