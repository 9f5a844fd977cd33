package service

import (
	"errors"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"
)

// Subject is the resolved, approved caller of an operation
type Subject struct {
	User *models.User
}

func (s *Subject) ID() uint { return s.User.ID }

// IsAdmin reports the global admin role regardless of status
func (s *Subject) IsAdmin() bool { return s.User.IsAdmin() }

// IsApprovedAdmin is the predicate guarding every admin operation
func (s *Subject) IsApprovedAdmin() bool { return s.User.IsAdmin() && s.User.IsApproved() }

// AccessService evaluates the authorization predicates shared by every
// protected operation. Each check fails closed when the subject or its
// membership cannot be resolved.
type AccessService struct {
	userRepo       *repository.UserRepository
	membershipRepo *repository.MembershipRepository
}

func NewAccessService(userRepo *repository.UserRepository, membershipRepo *repository.MembershipRepository) *AccessService {
	return &AccessService{userRepo: userRepo, membershipRepo: membershipRepo}
}

// ResolveSubject loads the user behind an authenticated id. Unknown users
// are unauthorized; accounts that are no longer approved are forbidden.
func (s *AccessService) ResolveSubject(userID uint) (*Subject, error) {
	if userID == 0 {
		return nil, Unauthorized("authentication required")
	}
	user, err := s.userRepo.FindUserByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, Internal("failed to resolve user", err)
	}
	if !user.IsApproved() {
		return nil, Forbidden("account is not approved")
	}
	return &Subject{User: user}, nil
}

// IsMember reports whether the subject belongs to a center. Approved admins
// pass for every center.
func (s *AccessService) IsMember(subject *Subject, centerID uint) (bool, error) {
	if subject == nil {
		return false, nil
	}
	if subject.IsApprovedAdmin() {
		return true, nil
	}
	ok, err := s.membershipRepo.IsMember(centerID, subject.ID())
	if err != nil {
		return false, Internal("failed to check membership", err)
	}
	return ok, nil
}

// IsLeadOrAdmin reports whether the subject may manage a center
func (s *AccessService) IsLeadOrAdmin(subject *Subject, centerID uint) (bool, error) {
	if subject == nil {
		return false, nil
	}
	if subject.IsApprovedAdmin() {
		return true, nil
	}
	ok, err := s.membershipRepo.IsLead(centerID, subject.ID())
	if err != nil {
		return false, Internal("failed to check lead role", err)
	}
	return ok, nil
}

// RequireApprovedAdmin fails with forbidden unless the subject is an
// approved admin
func (s *AccessService) RequireApprovedAdmin(subject *Subject) error {
	if subject == nil {
		return Unauthorized("authentication required")
	}
	if !subject.IsApprovedAdmin() {
		return Forbidden("admin access required")
	}
	return nil
}

// RequireMember fails with forbidden unless the subject belongs to the center
func (s *AccessService) RequireMember(subject *Subject, centerID uint) error {
	if subject == nil {
		return Unauthorized("authentication required")
	}
	ok, err := s.IsMember(subject, centerID)
	if err != nil {
		return err
	}
	if !ok {
		return Forbidden("not a member of this center")
	}
	return nil
}

// RequireLeadOrAdmin fails with forbidden unless the subject leads the
// center or is an approved admin
func (s *AccessService) RequireLeadOrAdmin(subject *Subject, centerID uint) error {
	if subject == nil {
		return Unauthorized("authentication required")
	}
	ok, err := s.IsLeadOrAdmin(subject, centerID)
	if err != nil {
		return err
	}
	if !ok {
		return Forbidden("lead or admin access required")
	}
	return nil
}
