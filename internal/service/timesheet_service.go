package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/timesheet"
	ws "backend/internal/websocket"
	"backend/pkg/hhmm"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ClockInRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	WorkDate   string `json:"work_date" binding:"required"` // "2006-01-02"
	StartTime  string `json:"start_time"`                   // raw "HH:MM"-ish input; empty means now
	Notes      string `json:"notes"`
}

type ClockOutRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	WorkDate   string `json:"work_date" binding:"required"`
	EndTime    string `json:"end_time"` // raw input; empty means now
}

type UpdateTimeEntryRequest struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Notes     *string `json:"notes"`
}

type TimeEntryFilterRequest struct {
	EmployeeID string
	Approved   *bool
	From       string
	To         string
	Page       int
	Limit      int
}

type BulkApproveRequest struct {
	EntryIDs []string `json:"entry_ids" binding:"required,min=1"`
}

// BulkApprovalResult reports the outcome for one entry of a bulk approval.
// Items are independent: a failure never rolls back or aborts the others.
type BulkApprovalResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type TimeEntryResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	WorkDate     string   `json:"work_date"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	TotalHours   *float64 `json:"total_hours"`
	Salary       *string  `json:"salary,omitempty"`
	Approved     bool     `json:"approved"`
	ApprovedBy   *string  `json:"approved_by"`
	ApproverName string   `json:"approver_name,omitempty"`
	ApprovedAt   *string  `json:"approved_at"`
	Notes        string   `json:"notes"`
}

type WeeklyTimesheetResponse struct {
	EmployeeID string              `json:"employee_id"`
	WeekStart  string              `json:"week_start"`
	WeekEnd    string              `json:"week_end"` // exclusive
	Entries    []TimeEntryResponse `json:"entries"`
	Summary    timesheet.Summary   `json:"summary"`
}

// --- Interface ---

type TimesheetService interface {
	ClockIn(ctx context.Context, tenantID, userID uuid.UUID, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, tenantID, userID uuid.UUID, req ClockOutRequest) (TimeEntryResponse, error)
	UpdateEntry(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateTimeEntryRequest) (TimeEntryResponse, error)
	DeleteEntry(ctx context.Context, tenantID, userID uuid.UUID, id string) error
	ListEntries(ctx context.Context, tenantID uuid.UUID, req TimeEntryFilterRequest) ([]TimeEntryResponse, int64, error)
	Approve(ctx context.Context, tenantID, approverID uuid.UUID, id string) (TimeEntryResponse, error)
	Unapprove(ctx context.Context, tenantID, userID uuid.UUID, id string) (TimeEntryResponse, error)
	BulkApprove(ctx context.Context, tenantID, approverID uuid.UUID, req BulkApproveRequest) []BulkApprovalResult
	WeeklyTimesheet(ctx context.Context, tenantID uuid.UUID, employeeID string, anchor string) (WeeklyTimesheetResponse, error)
}

type timesheetService struct {
	entryRepo    repository.TimeEntryRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	now          func() time.Time
}

func NewTimesheetService(
	entryRepo repository.TimeEntryRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TimesheetService {
	return &timesheetService{
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
		now:          time.Now,
	}
}

// --- Implementation ---

// normalizeClock finalizes raw clock input; empty input means the current
// wall-clock minute.
func (s *timesheetService) normalizeClock(raw string) (string, error) {
	if raw == "" {
		return s.now().Format("15:04"), nil
	}
	normalized := hhmm.Finalize(raw, "")
	if normalized == "" {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	return normalized, nil
}

func (s *timesheetService) ClockIn(ctx context.Context, tenantID, userID uuid.UUID, req ClockInRequest) (TimeEntryResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TimeEntryResponse{}, fmt.Errorf("invalid employee_id: %w", err)
	}
	workDate, err := parseDate("work_date", req.WorkDate)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	start, err := s.normalizeClock(req.StartTime)
	if err != nil {
		return TimeEntryResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, tenantID, employeeID); err != nil {
		return TimeEntryResponse{}, errors.New("employee not found")
	}

	if _, err := s.entryRepo.FindOpen(ctx, tenantID, employeeID, workDate); err == nil {
		return TimeEntryResponse{}, errors.New("employee already has an open shift for this date")
	}

	entry := model.TimeEntry{
		TenantID:   tenantID,
		EmployeeID: employeeID,
		WorkDate:   workDate,
		StartTime:  &start,
		Notes:      req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Create(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to create time entry: %w", err)
		}
		return s.auditWrite(txCtx, tenantID, userID, model.ActionClockIn, entry.ID.String(), req.WorkDate, map[string]interface{}{
			"employee_id": req.EmployeeID,
			"start_time":  start,
		})
	})
	if err != nil {
		return TimeEntryResponse{}, err
	}

	s.hub.Publish(ws.EventClockIn, map[string]interface{}{
		"employee_id": req.EmployeeID,
		"work_date":   req.WorkDate,
		"start_time":  start,
	})

	return toTimeEntryResponse(entry), nil
}

func (s *timesheetService) ClockOut(ctx context.Context, tenantID, userID uuid.UUID, req ClockOutRequest) (TimeEntryResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TimeEntryResponse{}, fmt.Errorf("invalid employee_id: %w", err)
	}
	workDate, err := parseDate("work_date", req.WorkDate)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	end, err := s.normalizeClock(req.EndTime)
	if err != nil {
		return TimeEntryResponse{}, err
	}

	entry, err := s.entryRepo.FindOpen(ctx, tenantID, employeeID, workDate)
	if err != nil {
		return TimeEntryResponse{}, errors.New("no open shift found for this date")
	}

	employee, err := s.employeeRepo.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		return TimeEntryResponse{}, errors.New("employee not found")
	}

	hours := hhmm.DiffStrings(*entry.StartTime, end)
	salary := decimal.NewFromFloat(hours).Mul(employee.HourlyRate).Round(2)

	entry.EndTime = &end
	entry.TotalHours = &hours
	entry.Salary = &salary

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return fmt.Errorf("failed to complete time entry: %w", err)
		}
		return s.auditWrite(txCtx, tenantID, userID, model.ActionClockOut, entry.ID.String(), req.WorkDate, map[string]interface{}{
			"employee_id": req.EmployeeID,
			"end_time":    end,
			"total_hours": hours,
		})
	})
	if err != nil {
		return TimeEntryResponse{}, err
	}

	s.hub.Publish(ws.EventClockOut, map[string]interface{}{
		"employee_id": req.EmployeeID,
		"work_date":   req.WorkDate,
		"total_hours": hours,
	})

	return toTimeEntryResponse(*entry), nil
}

func (s *timesheetService) UpdateEntry(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateTimeEntryRequest) (TimeEntryResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return TimeEntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}

	entry, err := s.entryRepo.GetByID(ctx, tenantID, entryID)
	if err != nil {
		return TimeEntryResponse{}, errors.New("time entry not found")
	}
	if entry.Approved {
		return TimeEntryResponse{}, errors.New("approved entries cannot be edited; revoke approval first")
	}

	if req.StartTime != nil {
		start, err := s.normalizeClock(*req.StartTime)
		if err != nil {
			return TimeEntryResponse{}, err
		}
		entry.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := s.normalizeClock(*req.EndTime)
		if err != nil {
			return TimeEntryResponse{}, err
		}
		entry.EndTime = &end
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	// Re-derive hours and salary whenever both clock times are present
	if entry.IsComplete() {
		hours := hhmm.DiffStrings(*entry.StartTime, *entry.EndTime)
		entry.TotalHours = &hours
		if employee, err := s.employeeRepo.GetByID(ctx, tenantID, entry.EmployeeID); err == nil {
			salary := decimal.NewFromFloat(hours).Mul(employee.HourlyRate).Round(2)
			entry.Salary = &salary
		}
	} else {
		entry.TotalHours = nil
		entry.Salary = nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return fmt.Errorf("failed to update time entry: %w", err)
		}
		return s.auditWrite(txCtx, tenantID, userID, model.ActionUpdateTimeEntry, id, entry.WorkDate.Format(dateLayout), map[string]interface{}{
			"start_time": entry.StartTime,
			"end_time":   entry.EndTime,
		})
	})
	if err != nil {
		return TimeEntryResponse{}, err
	}

	return toTimeEntryResponse(*entry), nil
}

func (s *timesheetService) DeleteEntry(ctx context.Context, tenantID, userID uuid.UUID, id string) error {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid entry id: %w", err)
	}

	entry, err := s.entryRepo.GetByID(ctx, tenantID, entryID)
	if err != nil {
		return errors.New("time entry not found")
	}
	if entry.Approved {
		return errors.New("approved entries cannot be deleted")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Delete(txCtx, tenantID, entryID); err != nil {
			return fmt.Errorf("failed to delete time entry: %w", err)
		}
		return s.auditWrite(txCtx, tenantID, userID, model.ActionDeleteTimeEntry, id, entry.WorkDate.Format(dateLayout), nil)
	})
}

func (s *timesheetService) ListEntries(ctx context.Context, tenantID uuid.UUID, req TimeEntryFilterRequest) ([]TimeEntryResponse, int64, error) {
	filter := repository.TimeEntryFilter{
		Approved: req.Approved,
		Page:     req.Page,
		Limit:    req.Limit,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if req.EmployeeID != "" {
		employeeID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid employee_id: %w", err)
		}
		filter.EmployeeID = &employeeID
	}
	if req.From != "" {
		from, err := parseDate("from", req.From)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDate("to", req.To)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &to
	}

	entries, total, err := s.entryRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time entries: %w", err)
	}

	result := make([]TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toTimeEntryResponse(e))
	}
	return result, total, nil
}

// Approve moves a pending entry to approved, stamping approver and time.
// Approving an already-approved entry is a no-op: the original approver and
// timestamp are preserved.
func (s *timesheetService) Approve(ctx context.Context, tenantID, approverID uuid.UUID, id string) (TimeEntryResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return TimeEntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}

	entry, err := s.entryRepo.GetByID(ctx, tenantID, entryID)
	if err != nil {
		return TimeEntryResponse{}, errors.New("time entry not found")
	}

	if entry.Approved {
		return toTimeEntryResponse(*entry), nil
	}
	if !entry.IsComplete() {
		return TimeEntryResponse{}, errors.New("cannot approve an open shift")
	}

	now := s.now()
	entry.Approved = true
	entry.ApprovedBy = &approverID
	entry.ApprovedAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return fmt.Errorf("failed to approve time entry: %w", err)
		}
		return s.auditWrite(txCtx, tenantID, approverID, model.ActionApproveTimeEntry, id, entry.WorkDate.Format(dateLayout), map[string]interface{}{
			"employee_id": entry.EmployeeID.String(),
		})
	})
	if err != nil {
		return TimeEntryResponse{}, err
	}

	s.hub.Publish(ws.EventEntryApproved, map[string]interface{}{
		"entry_id":    id,
		"employee_id": entry.EmployeeID.String(),
	})

	return toTimeEntryResponse(*entry), nil
}

// Unapprove returns an approved entry to pending, clearing approver identity
// and timestamp together.
func (s *timesheetService) Unapprove(ctx context.Context, tenantID, userID uuid.UUID, id string) (TimeEntryResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return TimeEntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}

	entry, err := s.entryRepo.GetByID(ctx, tenantID, entryID)
	if err != nil {
		return TimeEntryResponse{}, errors.New("time entry not found")
	}
	if !entry.Approved {
		return TimeEntryResponse{}, errors.New("time entry is not approved")
	}

	entry.Approved = false
	entry.ApprovedBy = nil
	entry.ApprovedAt = nil
	entry.Approver = nil

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return fmt.Errorf("failed to revoke approval: %w", err)
		}
		return s.auditWrite(txCtx, tenantID, userID, model.ActionRevokeTimeEntry, id, entry.WorkDate.Format(dateLayout), map[string]interface{}{
			"employee_id": entry.EmployeeID.String(),
		})
	})
	if err != nil {
		return TimeEntryResponse{}, err
	}

	return toTimeEntryResponse(*entry), nil
}

// BulkApprove applies Approve to each entry independently and reports a
// per-item result list. Callers decide their own partial-failure policy.
func (s *timesheetService) BulkApprove(ctx context.Context, tenantID, approverID uuid.UUID, req BulkApproveRequest) []BulkApprovalResult {
	results := make([]BulkApprovalResult, 0, len(req.EntryIDs))
	for _, id := range req.EntryIDs {
		if _, err := s.Approve(ctx, tenantID, approverID, id); err != nil {
			results = append(results, BulkApprovalResult{ID: id, Error: err.Error()})
			continue
		}
		results = append(results, BulkApprovalResult{ID: id, Success: true})
	}
	return results
}

func (s *timesheetService) WeeklyTimesheet(ctx context.Context, tenantID uuid.UUID, employeeID string, anchor string) (WeeklyTimesheetResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return WeeklyTimesheetResponse{}, fmt.Errorf("invalid employee_id: %w", err)
	}

	// Stored work dates are UTC midnights, so the default anchor must be
	// read in UTC too or the week can shift by one near its boundaries.
	anchorDate := s.now().UTC()
	if anchor != "" {
		anchorDate, err = parseDate("date", anchor)
		if err != nil {
			return WeeklyTimesheetResponse{}, err
		}
	}

	weekStart, weekEnd := timesheet.WeekRange(anchorDate)
	entries, err := s.entryRepo.ListByEmployeeRange(ctx, tenantID, empID, weekStart, weekEnd)
	if err != nil {
		return WeeklyTimesheetResponse{}, fmt.Errorf("failed to load week entries: %w", err)
	}

	responses := make([]TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toTimeEntryResponse(e))
	}

	return WeeklyTimesheetResponse{
		EmployeeID: employeeID,
		WeekStart:  weekStart.Format(dateLayout),
		WeekEnd:    weekEnd.Format(dateLayout),
		Entries:    responses,
		Summary:    timesheet.Aggregate(entries),
	}, nil
}

func (s *timesheetService) auditWrite(ctx context.Context, tenantID, userID uuid.UUID, action, entityID, entityName string, payload map[string]interface{}) error {
	return writeAudit(ctx, s.auditRepo, tenantID, userID, action, entityID, entityName, payload)
}

// --- Helpers ---

func toTimeEntryResponse(e model.TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID.String(),
		WorkDate:   e.WorkDate.Format(dateLayout),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		TotalHours: e.TotalHours,
		Approved:   e.Approved,
		Notes:      e.Notes,
	}

	if e.Employee != nil {
		resp.EmployeeName = e.Employee.Name
	}
	if e.Salary != nil {
		s := e.Salary.StringFixed(2)
		resp.Salary = &s
	}
	if e.ApprovedBy != nil {
		s := e.ApprovedBy.String()
		resp.ApprovedBy = &s
	}
	if e.Approver != nil {
		resp.ApproverName = e.Approver.Username
	}
	if e.ApprovedAt != nil {
		s := e.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}

	return resp
}
