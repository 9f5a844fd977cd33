package service

import (
	"errors"
	"strings"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"
	"emergency-center-scheduler/pkg/utils"

	"go.uber.org/zap"
)

type UserService struct {
	userRepo *repository.UserRepository
	access   *AccessService
	audit    auditor
}

func NewUserService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, access *AccessService, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		access:   access,
		audit:    newAuditor(auditRepo, log),
	}
}

// ProfileUpdate holds the self-editable profile fields; nil means unchanged
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UserBasics is the public identity of a user
type UserBasics struct {
	ID         uint   `json:"id,string"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	GlobalRole string `json:"global_role"`
}

// GetProfile returns the subject's own account
func (s *UserService) GetProfile(actor *Subject) (*models.User, error) {
	return s.loadUser(actor.ID())
}

// UpdateProfile applies the given fields, trimmed. It reports whether
// anything was written; an empty update is a no-op.
func (s *UserService) UpdateProfile(actor *Subject, in ProfileUpdate) (*models.User, bool, error) {
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, false, Validation("first_name cannot be empty")
		}
		fields["first_name"] = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return nil, false, Validation("last_name cannot be empty")
		}
		fields["last_name"] = name
	}
	if in.Phone != nil {
		if phone := strings.TrimSpace(*in.Phone); phone != "" {
			fields["phone"] = phone
		} else {
			fields["phone"] = nil
		}
	}

	if len(fields) == 0 {
		user, err := s.loadUser(actor.ID())
		return user, false, err
	}

	if err := s.userRepo.UpdateProfile(actor.ID(), fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, NotFound("user not found")
		}
		return nil, false, Internal("failed to update profile", err)
	}

	user, err := s.loadUser(actor.ID())
	return user, true, err
}

// ChangePassword replaces the subject's password after verifying the
// current one. The new password must differ from the old.
func (s *UserService) ChangePassword(actor *Subject, current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return Validation("current_password, new_password and confirm_password are required")
	}
	if next != confirm {
		return Validation("passwords do not match")
	}
	if len(next) < utils.MinPasswordLength {
		return Validation("new password must be at least 6 characters")
	}

	user, err := s.loadUser(actor.ID())
	if err != nil {
		return err
	}
	if !utils.ComparePassword(user.PasswordHash, current) {
		return Validation("current password is incorrect")
	}
	if utils.ComparePassword(user.PasswordHash, next) {
		return Validation("new password must differ from the current one")
	}

	return s.setPassword(user.ID, next)
}

// FindByEmail looks up a user by email for any authenticated subject
func (s *UserService) FindByEmail(email string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, Validation("email is required")
	}
	user, err := s.userRepo.FindUserByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, Internal("failed to load user", err)
	}
	return user, nil
}

// Basics resolves a comma separated id list to display fields. Malformed
// and unknown ids are skipped.
func (s *UserService) Basics(idList string) ([]UserBasics, error) {
	var ids []uint
	seen := map[uint]bool{}
	for _, raw := range strings.Split(idList, ",") {
		id, err := ParseID(raw)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	out := []UserBasics{}
	if len(ids) == 0 {
		return out, nil
	}

	users, err := s.userRepo.FindUsersByIDs(ids)
	if err != nil {
		return nil, Internal("failed to load users", err)
	}
	for _, u := range users {
		out = append(out, UserBasics{
			ID:         u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			GlobalRole: u.GlobalRole,
		})
	}
	return out, nil
}

// ListUsers returns every account (admin only)
func (s *UserService) ListUsers(actor *Subject) ([]models.User, error) {
	return s.listByStatus(actor, "")
}

// ListPending returns accounts awaiting review (admin only)
func (s *UserService) ListPending(actor *Subject) ([]models.User, error) {
	return s.listByStatus(actor, models.StatusPending)
}

// Approve lets a user log in (admin only)
func (s *UserService) Approve(actor *Subject, userID uint) error {
	return s.setStatus(actor, userID, models.StatusApproved, ActionUserApprove)
}

// Reject blocks a user from logging in (admin only)
func (s *UserService) Reject(actor *Subject, userID uint) error {
	return s.setStatus(actor, userID, models.StatusRejected, ActionUserReject)
}

// SetEmail overrides a user's email (admin only)
func (s *UserService) SetEmail(actor *Subject, userID uint, email string) error {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return err
	}
	email = NormalizeEmail(email)
	if email == "" {
		return Validation("email is required")
	}

	err := s.userRepo.SetEmail(userID, email)
	switch {
	case repository.IsConflict(err, repository.ConstraintUserEmail):
		return Conflict("email already in use")
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("user not found")
	case err != nil:
		return Internal("failed to update email", err)
	}

	s.audit.record(actor.ID(), ActionUserEmail, "Changed email of user %d to %s", userID, email)
	return nil
}

// SetPassword overrides a user's password (admin only)
func (s *UserService) SetPassword(actor *Subject, userID uint, password string) error {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return err
	}
	if len(password) < utils.MinPasswordLength {
		return Validation("password must be at least 6 characters")
	}
	if err := s.setPassword(userID, password); err != nil {
		return err
	}

	s.audit.record(actor.ID(), ActionUserPassword, "Reset password of user %d", userID)
	return nil
}

// Delete removes a user and everything keyed by them (admin only)
func (s *UserService) Delete(actor *Subject, userID uint) error {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return err
	}

	err := s.userRepo.DeleteUser(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("user not found")
	}
	if err != nil {
		return Internal("failed to delete user", err)
	}

	s.audit.record(actor.ID(), ActionUserDelete, "Deleted user %d", userID)
	return nil
}

func (s *UserService) listByStatus(actor *Subject, status string) ([]models.User, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListUsers(status)
	if err != nil {
		return nil, Internal("failed to list users", err)
	}
	return users, nil
}

func (s *UserService) setStatus(actor *Subject, userID uint, status, action string) error {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return err
	}

	err := s.userRepo.SetStatus(userID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("user not found")
	}
	if err != nil {
		return Internal("failed to update user status", err)
	}

	s.audit.record(actor.ID(), action, "Set status of user %d to %s", userID, status)
	return nil
}

func (s *UserService) setPassword(userID uint, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return Internal("failed to hash password", err)
	}
	err = s.userRepo.SetPasswordHash(userID, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("user not found")
	}
	if err != nil {
		return Internal("failed to update password", err)
	}
	return nil
}

func (s *UserService) loadUser(id uint) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, Internal("failed to load user", err)
	}
	return user, nil
}
