package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type timesheetFixture struct {
	svc      *timesheetService
	db       *gorm.DB
	tenantID uuid.UUID
	userID   uuid.UUID
	employee model.Employee
}

func setupTimesheet(t *testing.T) timesheetFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.User{}, &model.Employee{},
		&model.TimeEntry{}, &model.AuditLog{},
	))

	tenant := model.Tenant{Name: "Acme", Slug: "acme", IsActive: true}
	require.NoError(t, db.Create(&tenant).Error)

	user := model.User{TenantID: tenant.ID, Username: "manager", Email: "m@acme.test", Password: "x", Role: model.RoleManager}
	require.NoError(t, db.Create(&user).Error)

	employee := model.Employee{
		TenantID:   tenant.ID,
		Name:       "Jordan Fields",
		HourlyRate: decimal.NewFromInt(20),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&employee).Error)

	svc := NewTimesheetService(
		repository.NewTimeEntryRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		ws.NewHub(),
	).(*timesheetService)

	return timesheetFixture{svc: svc, db: db, tenantID: tenant.ID, userID: user.ID, employee: employee}
}

func TestClockInOutLifecycle(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()

	entry, err := f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		StartTime:  "09:00",
	})
	require.NoError(t, err)
	require.NotNil(t, entry.StartTime)
	assert.Equal(t, "09:00", *entry.StartTime)
	assert.Nil(t, entry.EndTime)
	assert.Nil(t, entry.TotalHours)
	assert.False(t, entry.Approved)

	_, err = f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		StartTime:  "10:00",
	})
	assert.Error(t, err, "second clock-in on an open shift must be rejected")

	out, err := f.svc.ClockOut(ctx, f.tenantID, f.userID, ClockOutRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		EndTime:    "17:30",
	})
	require.NoError(t, err)
	require.NotNil(t, out.TotalHours)
	assert.InDelta(t, 8.5, *out.TotalHours, 1e-9)
	require.NotNil(t, out.Salary)
	assert.Equal(t, "170.00", *out.Salary)

	// both mutations leave an audit trail
	var auditCount int64
	require.NoError(t, f.db.Model(&model.AuditLog{}).Where("tenant_id = ?", f.tenantID).Count(&auditCount).Error)
	assert.EqualValues(t, 2, auditCount)

	_, err = f.svc.ClockOut(ctx, f.tenantID, f.userID, ClockOutRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		EndTime:    "18:00",
	})
	assert.Error(t, err, "clock-out without an open shift must fail")
}

func TestClockOutWrapsPastMidnight(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		StartTime:  "22:00",
	})
	require.NoError(t, err)

	out, err := f.svc.ClockOut(ctx, f.tenantID, f.userID, ClockOutRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		EndTime:    "02:00",
	})
	require.NoError(t, err)
	require.NotNil(t, out.TotalHours)
	assert.InDelta(t, 4.0, *out.TotalHours, 1e-9)
}

func TestClockInNormalizesRawInput(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()

	entry, err := f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-24",
		StartTime:  "0930",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:30", *entry.StartTime)

	_, err = f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(),
		WorkDate:   "2026-08-25",
		StartTime:  "25:99",
	})
	assert.Error(t, err)
}

func completedEntry(t *testing.T, f timesheetFixture, workDate string) TimeEntryResponse {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(), WorkDate: workDate, StartTime: "09:00",
	})
	require.NoError(t, err)
	out, err := f.svc.ClockOut(ctx, f.tenantID, f.userID, ClockOutRequest{
		EmployeeID: f.employee.ID.String(), WorkDate: workDate, EndTime: "17:00",
	})
	require.NoError(t, err)
	return out
}

func TestApproveIsIdempotent(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()
	entry := completedEntry(t, f, "2026-08-24")

	firstNow := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return firstNow }

	approved, err := f.svc.Approve(ctx, f.tenantID, f.userID, entry.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.userID.String(), *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	// approving again, later and by someone else, changes nothing
	other := model.User{TenantID: f.tenantID, Username: "other", Email: "o@acme.test", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, f.db.Create(&other).Error)
	f.svc.now = func() time.Time { return firstNow.Add(48 * time.Hour) }

	again, err := f.svc.Approve(ctx, f.tenantID, other.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, *approved.ApprovedBy, *again.ApprovedBy)
	assert.Equal(t, *approved.ApprovedAt, *again.ApprovedAt)
}

func TestApproveRejectsOpenShift(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()

	open, err := f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(), WorkDate: "2026-08-24", StartTime: "09:00",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.tenantID, f.userID, open.ID)
	assert.Error(t, err)
}

func TestUnapproveClearsApproverAndTimestamp(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()
	entry := completedEntry(t, f, "2026-08-24")

	_, err := f.svc.Approve(ctx, f.tenantID, f.userID, entry.ID)
	require.NoError(t, err)

	pending, err := f.svc.Unapprove(ctx, f.tenantID, f.userID, entry.ID)
	require.NoError(t, err)
	assert.False(t, pending.Approved)
	assert.Nil(t, pending.ApprovedBy)
	assert.Nil(t, pending.ApprovedAt)

	// persisted state matches
	var stored model.TimeEntry
	require.NoError(t, f.db.First(&stored, "id = ?", entry.ID).Error)
	assert.False(t, stored.Approved)
	assert.Nil(t, stored.ApprovedBy)
	assert.Nil(t, stored.ApprovedAt)

	_, err = f.svc.Unapprove(ctx, f.tenantID, f.userID, entry.ID)
	assert.Error(t, err, "revoking a pending entry must fail")
}

func TestDeleteOnlyWhilePending(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()
	entry := completedEntry(t, f, "2026-08-24")

	_, err := f.svc.Approve(ctx, f.tenantID, f.userID, entry.ID)
	require.NoError(t, err)
	assert.Error(t, f.svc.DeleteEntry(ctx, f.tenantID, f.userID, entry.ID))

	_, err = f.svc.Unapprove(ctx, f.tenantID, f.userID, entry.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteEntry(ctx, f.tenantID, f.userID, entry.ID))

	var count int64
	require.NoError(t, f.db.Model(&model.TimeEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBulkApproveReportsPerItemResults(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()

	done := completedEntry(t, f, "2026-08-24")
	open, err := f.svc.ClockIn(ctx, f.tenantID, f.userID, ClockInRequest{
		EmployeeID: f.employee.ID.String(), WorkDate: "2026-08-25", StartTime: "09:00",
	})
	require.NoError(t, err)
	missing := uuid.New().String()

	results := f.svc.BulkApprove(ctx, f.tenantID, f.userID, BulkApproveRequest{
		EntryIDs: []string{done.ID, open.ID, missing},
	})
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Empty(t, results[0].Error)

	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	assert.False(t, results[2].Success)
	assert.NotEmpty(t, results[2].Error)

	// the failing items did not roll back the successful one
	approved, err := f.svc.Approve(ctx, f.tenantID, f.userID, done.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
}

func TestWeeklyTimesheet(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()

	// Mon Aug 24 and Wed Aug 26 fall in the anchor week; Sun Aug 23 does not.
	inWeek1 := completedEntry(t, f, "2026-08-24")
	completedEntry(t, f, "2026-08-26")
	completedEntry(t, f, "2026-08-23")

	_, err := f.svc.Approve(ctx, f.tenantID, f.userID, inWeek1.ID)
	require.NoError(t, err)

	week, err := f.svc.WeeklyTimesheet(ctx, f.tenantID, f.employee.ID.String(), "2026-08-28")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-24", week.WeekStart)
	assert.Equal(t, "2026-08-31", week.WeekEnd)
	require.Len(t, week.Entries, 2)

	assert.Equal(t, 2, week.Summary.DaysWorked)
	assert.InDelta(t, 16.0, week.Summary.TotalHours, 1e-9)
	assert.InDelta(t, 8.0, week.Summary.ApprovedHours, 1e-9)
	assert.InDelta(t, 8.0, week.Summary.PendingHours, 1e-9)
	assert.True(t, week.Summary.TotalEarnings.Equal(decimal.NewFromInt(320)))
}

func TestWeeklyTimesheetDefaultAnchorUsesUTC(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()
	completedEntry(t, f, "2026-08-24")

	// Sunday 22:00 in UTC-3 is already Monday 01:00 UTC. Work dates are
	// stored as UTC midnights, so the default week must start Aug 24.
	f.svc.now = func() time.Time {
		return time.Date(2026, 8, 23, 22, 0, 0, 0, time.FixedZone("UTC-3", -3*60*60))
	}

	week, err := f.svc.WeeklyTimesheet(ctx, f.tenantID, f.employee.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-24", week.WeekStart)
	require.Len(t, week.Entries, 1)
}

func TestUpdateEntryRecomputesDerivedFields(t *testing.T) {
	f := setupTimesheet(t)
	ctx := context.Background()
	entry := completedEntry(t, f, "2026-08-24")

	newEnd := "18:00"
	updated, err := f.svc.UpdateEntry(ctx, f.tenantID, f.userID, entry.ID, UpdateTimeEntryRequest{EndTime: &newEnd})
	require.NoError(t, err)
	require.NotNil(t, updated.TotalHours)
	assert.InDelta(t, 9.0, *updated.TotalHours, 1e-9)
	require.NotNil(t, updated.Salary)
	assert.Equal(t, "180.00", *updated.Salary)

	// the edit leaves an audit trail like every other mutation
	var auditCount int64
	require.NoError(t, f.db.Model(&model.AuditLog{}).
		Where("tenant_id = ? AND action = ?", f.tenantID, model.ActionUpdateTimeEntry).
		Count(&auditCount).Error)
	assert.EqualValues(t, 1, auditCount)

	_, err = f.svc.Approve(ctx, f.tenantID, f.userID, entry.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateEntry(ctx, f.tenantID, f.userID, entry.ID, UpdateTimeEntryRequest{EndTime: &newEnd})
	assert.Error(t, err, "approved entries are frozen until approval is revoked")
}
