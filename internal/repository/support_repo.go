package repository

import (
	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
)

type SupportRepository struct {
	db *gorm.DB
}

func NewSupportRepo(db *gorm.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

// CreateTicket stores a support ticket
func (r *SupportRepository) CreateTicket(ticket *models.SupportTicket) error {
	return r.db.Create(ticket).Error
}

// ListTickets lists tickets newest first, optionally filtered by resolution
func (r *SupportRepository) ListTickets(resolved *bool) ([]models.SupportTicket, error) {
	tickets := []models.SupportTicket{}
	query := r.db.Order("created_at DESC, id DESC")
	if resolved != nil {
		query = query.Where("resolved = ?", *resolved)
	}
	err := query.Find(&tickets).Error
	return tickets, err
}

// SetResolved toggles a ticket's resolution and keeps its status in step
func (r *SupportRepository) SetResolved(id uint, resolved bool) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticket, id).Error; err != nil {
			return notFound(err)
		}
		status := models.TicketStatusOpen
		if resolved {
			status = models.TicketStatusResolved
		}
		ticket.Resolved = resolved
		ticket.Status = status
		return tx.Model(&ticket).Updates(map[string]interface{}{
			"resolved": resolved,
			"status":   status,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
