package handler

import (
	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler serves center calendars, the personal schedule and busy days
type ScheduleHandler struct {
	base
	scheduleService     *service.ScheduleService
	availabilityService *service.AvailabilityService
}

func NewScheduleHandler(scheduleService *service.ScheduleService, availabilityService *service.AvailabilityService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		base:                base{log: log},
		scheduleService:     scheduleService,
		availabilityService: availabilityService,
	}
}

type AssignmentRequest struct {
	MedicID string `json:"medic_id" binding:"required"`
	Date    string `json:"date" binding:"required,calendarday"`
}

type BusyDayRequest struct {
	Date string `json:"date" binding:"required,calendarday"`
}

func (h *ScheduleHandler) CenterSchedule(c *gin.Context) {
	schedule, err := h.scheduleService.CenterMonth(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), c.Query("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, schedule)
}

// Assign puts a medic on a free day
func (h *ScheduleHandler) Assign(c *gin.Context) {
	req, medicID, ok := h.bindAssignment(c)
	if !ok {
		return
	}

	assignment, err := h.scheduleService.Assign(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), medicID, req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, assignment)
}

// Replace puts a medic on a day whether or not it is already taken
func (h *ScheduleHandler) Replace(c *gin.Context) {
	req, medicID, ok := h.bindAssignment(c)
	if !ok {
		return
	}

	assignment, err := h.scheduleService.Replace(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), medicID, req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, assignment)
}

func (h *ScheduleHandler) Unassign(c *gin.Context) {
	day, err := h.scheduleService.Unassign(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Shift removed", "date": day})
}

func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	schedule, err := h.scheduleService.MySchedule(middleware.SubjectFrom(c), c.Query("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, schedule)
}

func (h *ScheduleHandler) ListBusy(c *gin.Context) {
	busy, err := h.availabilityService.ListBusy(middleware.SubjectFrom(c), c.Query("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, busy)
}

func (h *ScheduleHandler) MarkBusy(c *gin.Context) {
	var req BusyDayRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	day, err := h.availabilityService.MarkBusy(middleware.SubjectFrom(c), req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{"date": day})
}

func (h *ScheduleHandler) UnmarkBusy(c *gin.Context) {
	day, err := h.availabilityService.UnmarkBusy(middleware.SubjectFrom(c), c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Busy day removed", "date": day})
}

func (h *ScheduleHandler) bindAssignment(c *gin.Context) (AssignmentRequest, uint, bool) {
	var req AssignmentRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return req, 0, false
	}
	medicID, err := service.ParseID(req.MedicID)
	if err != nil {
		h.fail(c, service.Validation("invalid medic_id"))
		return req, 0, false
	}
	return req, medicID, true
}
