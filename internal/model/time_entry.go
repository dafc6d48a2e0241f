package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntry represents one employee's clock-in/out pair for a calendar date.
// StartTime/EndTime are local business times stored as "HH:MM" strings; the
// record is partial (end time and total hours unset) until clock-out.
//
// Invariants enforced by the timesheet service:
//   - TotalHours is nil unless both StartTime and EndTime are set; shifts
//     ending past midnight wrap by adding 24h.
//   - Approved implies ApprovedBy is non-nil; unapproving clears both
//     ApprovedBy and ApprovedAt.
//   - Deletion is only permitted while the entry is pending.
type TimeEntry struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	WorkDate   time.Time        `gorm:"type:date;not null;index" json:"work_date"`
	StartTime  *string          `gorm:"type:varchar(5)" json:"start_time"` // "HH:MM", nil until clock-in restores it
	EndTime    *string          `gorm:"type:varchar(5)" json:"end_time"`   // "HH:MM", nil until clock-out
	TotalHours *float64         `gorm:"type:decimal(6,2)" json:"total_hours"`
	Salary     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"salary"` // hours x hourly rate, fixed at clock-out
	Approved   bool             `gorm:"not null;default:false;index" json:"approved"`
	ApprovedBy *uuid.UUID       `gorm:"type:uuid" json:"approved_by"`
	Approver   *User            `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt *time.Time       `json:"approved_at"`
	Notes      string           `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// IsComplete reports whether both clock times are present (a finished shift).
func (e *TimeEntry) IsComplete() bool {
	return e.StartTime != nil && e.EndTime != nil
}
