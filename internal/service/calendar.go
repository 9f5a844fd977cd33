package service

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DayLayout is the canonical calendar day format
	DayLayout = "2006-01-02"
	// MonthLayout is the canonical month format
	MonthLayout = "2006-01"

	lenientDayLayout   = "2006-1-2"
	lenientMonthLayout = "2006-1"
)

// ParseDay validates a calendar day and returns it as YYYY-MM-DD.
// Single-digit months and days are accepted.
func ParseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(lenientDayLayout, s)
	if err != nil {
		return "", Validation("invalid date, expected YYYY-MM-DD")
	}
	return t.Format(DayLayout), nil
}

// Month is a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth validates YYYY-MM
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(lenientMonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, Validation("invalid month, expected YYYY-MM")
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// First is the first day of the month
func (m Month) First() string {
	return m.start().Format(DayLayout)
}

// Last is the last day of the month
func (m Month) Last() string {
	return m.start().AddDate(0, 1, -1).Format(DayLayout)
}

// Days lists every day of the month in order
func (m Month) Days() []string {
	start := m.start()
	days := make([]string, 0, 31)
	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayLayout))
	}
	return days
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Calendar resolves "today" in the deployment's scheduling time zone
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	return NewCalendarWithClock(loc, time.Now)
}

// NewCalendarWithClock builds a Calendar with a custom clock
func NewCalendarWithClock(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc, now: now}
}

// Now returns the current instant
func (c *Calendar) Now() time.Time {
	return c.now()
}

// Today returns the current calendar day as YYYY-MM-DD
func (c *Calendar) Today() string {
	return c.now().In(c.loc).Format(DayLayout)
}

// IsPast reports whether a normalized day is strictly before today
func (c *Calendar) IsPast(day string) bool {
	return day < c.Today()
}
