package service

import (
	"errors"
	"fmt"
	"strconv"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"

	"go.uber.org/zap"
)

type ScheduleService struct {
	shiftRepo      *repository.ShiftRepository
	centerRepo     *repository.CenterRepository
	membershipRepo *repository.MembershipRepository
	messageRepo    *repository.MessageRepository
	access         *AccessService
	calendar       *Calendar
	audit          auditor
	log            *zap.Logger
}

func NewScheduleService(
	shiftRepo *repository.ShiftRepository,
	centerRepo *repository.CenterRepository,
	membershipRepo *repository.MembershipRepository,
	messageRepo *repository.MessageRepository,
	auditRepo *repository.AuditRepository,
	access *AccessService,
	calendar *Calendar,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		shiftRepo:      shiftRepo,
		centerRepo:     centerRepo,
		membershipRepo: membershipRepo,
		messageRepo:    messageRepo,
		access:         access,
		calendar:       calendar,
		audit:          newAuditor(auditRepo, log),
		log:            log,
	}
}

// CenterSchedule is one center's calendar for a month, one entry per day
type CenterSchedule struct {
	CenterID uint                 `json:"center_id,string"`
	Month    string               `json:"month"`
	Days     []models.ScheduleDay `json:"days"`
}

// PersonalSchedule is the subject's own shifts in a month, by date
type PersonalSchedule struct {
	Month string                 `json:"month"`
	Days  []models.PersonalShift `json:"days"`
}

// Assignment is the result of assigning a medic to a day
type Assignment struct {
	Date    string `json:"date"`
	MedicID uint   `json:"medic_id,string"`
}

// CenterMonth builds a center's schedule for a month (members and admins)
func (s *ScheduleService) CenterMonth(actor *Subject, centerID uint, month string) (*CenterSchedule, error) {
	if err := s.access.RequireMember(actor, centerID); err != nil {
		return nil, err
	}
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	rows, err := s.shiftRepo.CenterMonth(centerID, m.First(), m.Last())
	if err != nil {
		return nil, Internal("failed to load schedule", err)
	}
	byDay := make(map[string]repository.ShiftRow, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	days := m.Days()
	out := make([]models.ScheduleDay, 0, len(days))
	for _, day := range days {
		entry := models.ScheduleDay{Date: day}
		if row, ok := byDay[day]; ok {
			medicID := strconv.FormatUint(uint64(row.MedicID), 10)
			entry.Assigned = true
			entry.MedicID = &medicID
			entry.MedicFirstName = row.MedicFirstName
			entry.MedicLastName = row.MedicLastName
			entry.MedicEmail = row.MedicEmail
		}
		out = append(out, entry)
	}

	return &CenterSchedule{CenterID: centerID, Month: m.String(), Days: out}, nil
}

// Assign puts a medic on an unoccupied day (lead or admin). The medic must
// belong to the center, must not have marked the day busy, and must not be
// scheduled at any center that day.
func (s *ScheduleService) Assign(actor *Subject, centerID, medicID uint, date string) (*Assignment, error) {
	center, day, err := s.prepareAssignment(actor, centerID, medicID, date)
	if err != nil {
		return nil, err
	}

	shift := &models.Shift{
		CenterID:   centerID,
		Day:        day,
		MedicID:    medicID,
		AssignedBy: actor.ID(),
	}
	if err := s.shiftRepo.CreateShift(shift); err != nil {
		return nil, shiftWriteError(err)
	}

	s.notifyAssignment(medicID, center, day)
	s.audit.record(actor.ID(), ActionShiftAssign, "Assigned user %d to center %d on %s", medicID, centerID, day)
	return &Assignment{Date: day, MedicID: medicID}, nil
}

// Replace puts a medic on a day, displacing any current occupant (lead or
// admin). The same availability rules as Assign apply to the new medic.
func (s *ScheduleService) Replace(actor *Subject, centerID, medicID uint, date string) (*Assignment, error) {
	center, day, err := s.prepareAssignment(actor, centerID, medicID, date)
	if err != nil {
		return nil, err
	}

	if _, err := s.shiftRepo.ReplaceShift(centerID, day, medicID, actor.ID(), s.calendar.Now().UTC()); err != nil {
		return nil, shiftWriteError(err)
	}

	s.notifyAssignment(medicID, center, day)
	s.audit.record(actor.ID(), ActionShiftReplace, "Replaced assignment at center %d on %s with user %d", centerID, day, medicID)
	return &Assignment{Date: day, MedicID: medicID}, nil
}

// Unassign clears a day (lead or admin). The date is normalized before the
// past-date check, like every other scheduling operation.
func (s *ScheduleService) Unassign(actor *Subject, centerID uint, date string) (string, error) {
	if err := s.access.RequireLeadOrAdmin(actor, centerID); err != nil {
		return "", err
	}
	day, err := ParseDay(date)
	if err != nil {
		return "", err
	}
	if s.calendar.IsPast(day) {
		return "", Validation("cannot change past dates")
	}

	err = s.shiftRepo.DeleteShift(centerID, day)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NotFound("no assignment for that date")
	}
	if err != nil {
		return "", Internal("failed to unassign shift", err)
	}

	s.audit.record(actor.ID(), ActionShiftUnassign, "Cleared center %d on %s", centerID, day)
	return day, nil
}

// MySchedule returns the subject's own shifts in a month across all centers
func (s *ScheduleService) MySchedule(actor *Subject, month string) (*PersonalSchedule, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	rows, err := s.shiftRepo.MedicMonth(actor.ID(), m.First(), m.Last())
	if err != nil {
		return nil, Internal("failed to load schedule", err)
	}

	days := make([]models.PersonalShift, 0, len(rows))
	for _, row := range rows {
		name := "Center"
		if row.CenterName != nil {
			name = *row.CenterName
		}
		days = append(days, models.PersonalShift{
			Date:       row.Day,
			CenterID:   strconv.FormatUint(uint64(row.CenterID), 10),
			CenterName: name,
		})
	}
	return &PersonalSchedule{Month: m.String(), Days: days}, nil
}

func (s *ScheduleService) prepareAssignment(actor *Subject, centerID, medicID uint, date string) (*models.Center, string, error) {
	if err := s.access.RequireLeadOrAdmin(actor, centerID); err != nil {
		return nil, "", err
	}
	day, err := ParseDay(date)
	if err != nil {
		return nil, "", err
	}
	if s.calendar.IsPast(day) {
		return nil, "", Validation("cannot assign past dates")
	}

	center, err := loadCenter(s.centerRepo, centerID)
	if err != nil {
		return nil, "", err
	}
	member, err := s.membershipRepo.IsMember(centerID, medicID)
	if err != nil {
		return nil, "", Internal("failed to check membership", err)
	}
	if !member {
		return nil, "", Validation("medic is not a member of this center")
	}
	return center, day, nil
}

func (s *ScheduleService) notifyAssignment(medicID uint, center *models.Center, day string) {
	msg := &models.Message{
		ConversationID: SystemConversationID(medicID),
		FromID:         models.SystemSender,
		ToID:           medicID,
		Content:        fmt.Sprintf("You have been scheduled on %s at %s.", day, center.Name),
		Timestamp:      s.calendar.Now().UTC(),
		System:         true,
	}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		s.log.Error("failed to send assignment notification",
			zap.Uint("medic_id", medicID),
			zap.Uint("center_id", center.ID),
			zap.String("date", day),
			zap.Error(err),
		)
	}
}

func shiftWriteError(err error) error {
	switch {
	case repository.IsConflict(err, repository.ConstraintMedicUnavailable):
		return Conflict("medic marked this day as unavailable")
	case repository.IsConflict(err, repository.ConstraintShiftDayMedic):
		return Conflict("medic is already scheduled at another center that day")
	case repository.IsConflict(err, repository.ConstraintShiftCenterDay):
		return Conflict("day already assigned at this center")
	default:
		return Internal("failed to save shift", err)
	}
}
