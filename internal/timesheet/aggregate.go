// Package timesheet aggregates an employee's time entries into per-period
// summaries. The aggregator is pure and ignores input order. Per-entry salary
// is fixed at clock-out by the timeclock service, not derived here.
package timesheet

import (
	"time"

	"github.com/shopspring/decimal"

	"backend/internal/model"
)

// Summary holds per-employee, per-period totals.
type Summary struct {
	DaysWorked    int             `json:"days_worked"`
	TotalHours    float64         `json:"total_hours"`
	ApprovedHours float64         `json:"approved_hours"`
	PendingHours  float64         `json:"pending_hours"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

// Aggregate folds one employee's entries for a date range into a Summary.
// Entries without both clock times contribute nothing to daysWorked and
// nothing to the hour totals (nil total hours counts as zero).
// totalHours == approvedHours + pendingHours holds exactly.
func Aggregate(entries []model.TimeEntry) Summary {
	s := Summary{TotalEarnings: decimal.Zero}

	for _, e := range entries {
		if e.IsComplete() {
			s.DaysWorked++
		}
		if e.TotalHours == nil {
			continue
		}
		h := *e.TotalHours
		s.TotalHours += h
		if e.Approved {
			s.ApprovedHours += h
		}
		if e.Salary != nil {
			s.TotalEarnings = s.TotalEarnings.Add(*e.Salary)
		}
	}

	s.PendingHours = s.TotalHours - s.ApprovedHours
	return s
}

// WeekRange returns the Monday 00:00 and Sunday end for the week containing t.
// The end bound is exclusive (next Monday 00:00).
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week that started the previous Monday
	}
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -(wd - 1))
	return monday, monday.AddDate(0, 0, 7)
}
