package handler

import (
	"fmt"
	"net/http"

	"emergency-center-scheduler/internal/middleware"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	base
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{base: base{log: log}, reportService: reportService}
}

func (h *ReportHandler) MonthReport(c *gin.Context) {
	report, err := h.reportService.CenterMonth(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), c.Query("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// MonthReportCSV streams the same report as a CSV attachment
func (h *ReportHandler) MonthReportCSV(c *gin.Context) {
	report, err := h.reportService.CenterMonth(middleware.SubjectFrom(c), middleware.CenterIDFrom(c), c.Query("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	body, err := report.CSV()
	if err != nil {
		h.fail(c, service.Internal("failed to encode report", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
