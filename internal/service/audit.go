package service

import (
	"fmt"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"

	"go.uber.org/zap"
)

// Audit actions
const (
	ActionUserRegister   = "user_register"
	ActionUserLogin      = "user_login"
	ActionUserApprove    = "user_approve"
	ActionUserReject     = "user_reject"
	ActionUserEmail      = "user_email_change"
	ActionUserPassword   = "user_password_reset"
	ActionUserDelete     = "user_delete"
	ActionCenterCreate   = "center_create"
	ActionCenterUpdate   = "center_update"
	ActionCenterDelete   = "center_delete"
	ActionMemberAdd      = "member_add"
	ActionMemberRemove   = "member_remove"
	ActionLeadAssign     = "lead_assign"
	ActionShiftAssign    = "shift_assign"
	ActionShiftReplace   = "shift_replace"
	ActionShiftUnassign  = "shift_unassign"
	ActionTicketResolved = "ticket_resolution"
)

// auditor records audit rows. A failed write is logged and never fails the
// operation being audited.
type auditor struct {
	repo *repository.AuditRepository
	log  *zap.Logger
}

func newAuditor(repo *repository.AuditRepository, log *zap.Logger) auditor {
	return auditor{repo: repo, log: log}
}

func (a auditor) record(actorID uint, action, format string, args ...interface{}) {
	details := fmt.Sprintf(format, args...)
	if err := a.repo.CreateAuditLog(&actorID, action, details); err != nil {
		a.log.Warn("failed to write audit log",
			zap.String("action", action),
			zap.Uint("actor_id", actorID),
			zap.Error(err),
		)
	}
}

// AuditService exposes the audit trail to admins
type AuditService struct {
	auditRepo *repository.AuditRepository
	access    *AccessService
}

func NewAuditService(auditRepo *repository.AuditRepository, access *AccessService) *AuditService {
	return &AuditService{auditRepo: auditRepo, access: access}
}

const maxAuditEntries = 500

// ListRecent returns the newest audit entries
func (s *AuditService) ListRecent(actor *Subject, limit int) ([]models.AuditLog, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxAuditEntries {
		limit = 100
	}
	logs, err := s.auditRepo.ListAuditLogs(limit)
	if err != nil {
		return nil, Internal("failed to load audit log", err)
	}
	return logs, nil
}
