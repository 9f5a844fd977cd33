package service

import (
	"errors"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"
)

// AvailabilityService manages the subject's own busy days
type AvailabilityService struct {
	busyDayRepo *repository.BusyDayRepository
	calendar    *Calendar
}

func NewAvailabilityService(busyDayRepo *repository.BusyDayRepository, calendar *Calendar) *AvailabilityService {
	return &AvailabilityService{busyDayRepo: busyDayRepo, calendar: calendar}
}

// BusyMonth lists the busy days of a month
type BusyMonth struct {
	Month string   `json:"month"`
	Days  []string `json:"days"`
}

// ListBusy returns the subject's busy days in a month
func (s *AvailabilityService) ListBusy(actor *Subject, month string) (*BusyMonth, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	days, err := s.busyDayRepo.ListDays(actor.ID(), m.First(), m.Last())
	if err != nil {
		return nil, Internal("failed to load busy days", err)
	}
	return &BusyMonth{Month: m.String(), Days: days}, nil
}

// MarkBusy blocks a future day. It fails if the subject is already
// scheduled anywhere that day.
func (s *AvailabilityService) MarkBusy(actor *Subject, date string) (string, error) {
	day, err := s.futureDay(date)
	if err != nil {
		return "", err
	}

	err = s.busyDayRepo.CreateBusyDay(&models.BusyDay{
		MedicID:   actor.ID(),
		Day:       day,
		CreatedAt: s.calendar.Now().UTC(),
	})
	switch {
	case repository.IsConflict(err, repository.ConstraintMedicScheduled):
		return "", Conflict("you are already scheduled on this day")
	case repository.IsConflict(err, repository.ConstraintBusyDay):
		return "", Conflict("already marked busy for this date")
	case err != nil:
		return "", Internal("failed to mark busy day", err)
	}
	return day, nil
}

// UnmarkBusy removes a future busy day
func (s *AvailabilityService) UnmarkBusy(actor *Subject, date string) (string, error) {
	day, err := s.futureDay(date)
	if err != nil {
		return "", err
	}

	err = s.busyDayRepo.DeleteBusyDay(actor.ID(), day)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NotFound("busy day not found")
	}
	if err != nil {
		return "", Internal("failed to remove busy day", err)
	}
	return day, nil
}

func (s *AvailabilityService) futureDay(date string) (string, error) {
	day, err := ParseDay(date)
	if err != nil {
		return "", err
	}
	if s.calendar.IsPast(day) {
		return "", Validation("cannot change availability for past dates")
	}
	return day, nil
}
