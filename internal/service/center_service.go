package service

import (
	"errors"
	"strings"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"

	"go.uber.org/zap"
)

type CenterService struct {
	centerRepo     *repository.CenterRepository
	membershipRepo *repository.MembershipRepository
	userRepo       *repository.UserRepository
	access         *AccessService
	calendar       *Calendar
	audit          auditor
}

func NewCenterService(
	centerRepo *repository.CenterRepository,
	membershipRepo *repository.MembershipRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRepository,
	access *AccessService,
	calendar *Calendar,
	log *zap.Logger,
) *CenterService {
	return &CenterService{
		centerRepo:     centerRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		access:         access,
		calendar:       calendar,
		audit:          newAuditor(auditRepo, log),
	}
}

// CenterInput carries center fields; nil means unchanged on update
type CenterInput struct {
	Name     *string
	Location *string
}

// ListCenters returns every center to admins and the subject's own centers
// to everyone else
func (s *CenterService) ListCenters(actor *Subject) ([]models.Center, error) {
	var (
		centers []models.Center
		err     error
	)
	if actor.IsApprovedAdmin() {
		centers, err = s.centerRepo.GetAllCenters()
	} else {
		centers, err = s.centerRepo.GetCentersByUserID(actor.ID())
	}
	if err != nil {
		return nil, Internal("failed to list centers", err)
	}
	return centers, nil
}

// GetCenter returns a center to its members and admins
func (s *CenterService) GetCenter(actor *Subject, centerID uint) (*models.Center, error) {
	if err := s.access.RequireMember(actor, centerID); err != nil {
		return nil, err
	}
	return s.loadCenter(centerID)
}

// CreateCenter creates a center (admin only)
func (s *CenterService) CreateCenter(actor *Subject, in CenterInput) (*models.Center, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, Validation("name is required")
	}

	center := &models.Center{
		Name:     strings.TrimSpace(*in.Name),
		Location: trimmedOrNil(in.Location),
	}
	if err := s.centerRepo.CreateCenter(center); err != nil {
		return nil, Internal("failed to create center", err)
	}

	s.audit.record(actor.ID(), ActionCenterCreate, "Created center %d (%s)", center.ID, center.Name)
	return center, nil
}

// UpdateCenter edits a center's name or location (admin only)
func (s *CenterService) UpdateCenter(actor *Subject, centerID uint, in CenterInput) (*models.Center, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, Validation("name cannot be empty")
		}
		fields["name"] = name
	}
	if in.Location != nil {
		fields["location"] = trimmedOrNil(in.Location)
	}

	center, err := s.centerRepo.UpdateCenter(centerID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("center not found")
	}
	if err != nil {
		return nil, Internal("failed to update center", err)
	}

	if len(fields) > 0 {
		s.audit.record(actor.ID(), ActionCenterUpdate, "Updated center %d", centerID)
	}
	return center, nil
}

// DeleteCenter removes a center with its memberships and future shifts
// (admin only)
func (s *CenterService) DeleteCenter(actor *Subject, centerID uint) error {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return err
	}

	err := s.centerRepo.DeleteCenter(centerID, s.calendar.Today())
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("center not found")
	}
	if err != nil {
		return Internal("failed to delete center", err)
	}

	s.audit.record(actor.ID(), ActionCenterDelete, "Deleted center %d", centerID)
	return nil
}

// ListMembers returns a center's roster with display fields
func (s *CenterService) ListMembers(actor *Subject, centerID uint) ([]models.MemberDetails, error) {
	if err := s.access.RequireMember(actor, centerID); err != nil {
		return nil, err
	}
	if _, err := s.loadCenter(centerID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.ListMembers(centerID)
	if err != nil {
		return nil, Internal("failed to list members", err)
	}
	return members, nil
}

// AddMember adds an approved user to a center as a medic (lead or admin)
func (s *CenterService) AddMember(actor *Subject, centerID, userID uint) (*models.Membership, error) {
	if err := s.access.RequireLeadOrAdmin(actor, centerID); err != nil {
		return nil, err
	}
	if _, err := s.loadCenter(centerID); err != nil {
		return nil, err
	}
	user, err := s.loadApprovedUser(userID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.AddMember(centerID, user.ID)
	if repository.IsConflict(err, repository.ConstraintMembership) {
		return nil, Conflict("user is already a member of this center")
	}
	if err != nil {
		return nil, Internal("failed to add member", err)
	}

	s.audit.record(actor.ID(), ActionMemberAdd, "Added user %d to center %d", userID, centerID)
	return membership, nil
}

// AssignLead makes an approved user the single lead of a center (admin
// only). A user may lead at most one center.
func (s *CenterService) AssignLead(actor *Subject, centerID, userID uint) (*models.Membership, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.loadCenter(centerID); err != nil {
		return nil, err
	}
	if _, err := s.loadApprovedUser(userID); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.AssignLead(centerID, userID)
	switch {
	case repository.IsConflict(err, repository.ConstraintLeadUser):
		return nil, Conflict("medic already leads another center")
	case repository.IsConflict(err, repository.ConstraintLeadCenter):
		return nil, Conflict("center lead changed concurrently, retry")
	case err != nil:
		return nil, Internal("failed to assign lead", err)
	}

	s.audit.record(actor.ID(), ActionLeadAssign, "Assigned user %d as lead of center %d", userID, centerID)
	return membership, nil
}

// RemoveMember deletes a membership and the member's shifts at the center
// after today (lead or admin). It returns the number of shifts removed.
func (s *CenterService) RemoveMember(actor *Subject, centerID, userID uint) (int64, error) {
	if err := s.access.RequireLeadOrAdmin(actor, centerID); err != nil {
		return 0, err
	}

	removed, err := s.membershipRepo.RemoveMember(centerID, userID, s.calendar.Today())
	if errors.Is(err, repository.ErrNotFound) {
		return 0, NotFound("membership not found")
	}
	if err != nil {
		return 0, Internal("failed to remove member", err)
	}

	s.audit.record(actor.ID(), ActionMemberRemove, "Removed user %d from center %d (%d future shifts)", userID, centerID, removed)
	return removed, nil
}

func (s *CenterService) loadCenter(centerID uint) (*models.Center, error) {
	return loadCenter(s.centerRepo, centerID)
}

func (s *CenterService) loadApprovedUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("user does not exist or is not approved")
	}
	if err != nil {
		return nil, Internal("failed to load user", err)
	}
	if !user.IsApproved() {
		return nil, NotFound("user does not exist or is not approved")
	}
	return user, nil
}

func loadCenter(repo *repository.CenterRepository, centerID uint) (*models.Center, error) {
	center, err := repo.GetCenterByID(centerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("center not found")
	}
	if err != nil {
		return nil, Internal("failed to load center", err)
	}
	return center, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
