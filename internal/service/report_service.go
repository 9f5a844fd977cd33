package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"emergency-center-scheduler/internal/repository"
)

// ReportColumns is the fixed column order of the CSV report
var ReportColumns = []string{"medic_id", "first_name", "last_name", "email", "assigned_days"}

// ReportRow is one medic's assignment count in a month
type ReportRow struct {
	MedicID      uint   `json:"medic_id,string"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	AssignedDays int64  `json:"count"`
}

// CenterReport aggregates a center's shifts for a month
type CenterReport struct {
	CenterID uint        `json:"center_id,string"`
	Month    string      `json:"month"`
	Rows     []ReportRow `json:"rows"`
	Total    int64       `json:"total"`
}

type ReportService struct {
	shiftRepo *repository.ShiftRepository
	access    *AccessService
}

func NewReportService(shiftRepo *repository.ShiftRepository, access *AccessService) *ReportService {
	return &ReportService{shiftRepo: shiftRepo, access: access}
}

// CenterMonth counts assigned days per medic, highest first, then by name
// (members and admins)
func (s *ReportService) CenterMonth(actor *Subject, centerID uint, month string) (*CenterReport, error) {
	if err := s.access.RequireMember(actor, centerID); err != nil {
		return nil, err
	}
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	rows, err := s.shiftRepo.CountByMedic(centerID, m.First(), m.Last())
	if err != nil {
		return nil, Internal("failed to build report", err)
	}

	report := &CenterReport{CenterID: centerID, Month: m.String(), Rows: make([]ReportRow, 0, len(rows))}
	for _, r := range rows {
		report.Rows = append(report.Rows, ReportRow{
			MedicID:      r.MedicID,
			FirstName:    deref(r.FirstName),
			LastName:     deref(r.LastName),
			Email:        deref(r.Email),
			AssignedDays: r.AssignedDays,
		})
		report.Total += r.AssignedDays
	}
	return report, nil
}

// CSV renders the report with a header row
func (r *CenterReport) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ReportColumns); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		record := []string{
			strconv.FormatUint(uint64(row.MedicID), 10),
			row.FirstName,
			row.LastName,
			row.Email,
			strconv.FormatInt(row.AssignedDays, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename is the download name of the CSV report
func (r *CenterReport) Filename() string {
	return fmt.Sprintf("center_%d_%s_report.csv", r.CenterID, r.Month)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
