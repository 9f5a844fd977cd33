package service

import (
	"errors"
	"strings"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"

	"go.uber.org/zap"
)

type SupportService struct {
	supportRepo *repository.SupportRepository
	access      *AccessService
	audit       auditor
}

func NewSupportService(supportRepo *repository.SupportRepository, auditRepo *repository.AuditRepository, access *AccessService, log *zap.Logger) *SupportService {
	return &SupportService{
		supportRepo: supportRepo,
		access:      access,
		audit:       newAuditor(auditRepo, log),
	}
}

// Submit opens a ticket. Anonymous submitters (nil actor) must leave a
// contact email; authenticated ones default to their account email.
func (s *SupportService) Submit(actor *Subject, message, email string) (*models.SupportTicket, error) {
	message = strings.TrimSpace(message)
	email = NormalizeEmail(email)
	if message == "" {
		return nil, Validation("message is required")
	}
	if actor == nil && email == "" {
		return nil, Validation("email is required")
	}

	ticket := &models.SupportTicket{
		Status:  models.TicketStatusOpen,
		Message: message,
	}
	if actor != nil {
		userID := actor.ID()
		firstName, lastName := actor.User.FirstName, actor.User.LastName
		ticket.UserID = &userID
		ticket.UserFirstName = &firstName
		ticket.UserLastName = &lastName
		if email == "" {
			email = actor.User.Email
		}
	}
	if email != "" {
		ticket.Email = &email
	}

	if err := s.supportRepo.CreateTicket(ticket); err != nil {
		return nil, Internal("failed to create support ticket", err)
	}
	return ticket, nil
}

// List returns tickets newest first, optionally filtered by resolution
// (admin only)
func (s *SupportService) List(actor *Subject, resolved *bool) ([]models.SupportTicket, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}
	tickets, err := s.supportRepo.ListTickets(resolved)
	if err != nil {
		return nil, Internal("failed to list support tickets", err)
	}
	return tickets, nil
}

// SetResolved toggles a ticket's resolution (admin only)
func (s *SupportService) SetResolved(actor *Subject, ticketID uint, resolved bool) (*models.SupportTicket, error) {
	if err := s.access.RequireApprovedAdmin(actor); err != nil {
		return nil, err
	}

	ticket, err := s.supportRepo.SetResolved(ticketID, resolved)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("support ticket not found")
	}
	if err != nil {
		return nil, Internal("failed to update support ticket", err)
	}

	s.audit.record(actor.ID(), ActionTicketResolved, "Set ticket %d resolved=%t", ticketID, resolved)
	return ticket, nil
}
