package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.TimeEntry, error)
	// FindOpen returns the employee's clocked-in but not clocked-out entry
	// for the given work date, if any.
	FindOpen(ctx context.Context, tenantID, employeeID uuid.UUID, workDate time.Time) (*model.TimeEntry, error)
	ListByEmployeeRange(ctx context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error)
	List(ctx context.Context, tenantID uuid.UUID, filter TimeEntryFilter) ([]model.TimeEntry, int64, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
}

// TimeEntryFilter narrows a paginated time-entry listing.
type TimeEntryFilter struct {
	EmployeeID *uuid.UUID
	Approved   *bool
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type timeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *model.TimeEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *timeEntryRepository) GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	if err := GetDB(ctx, r.db).
		Preload("Employee").
		Preload("Approver").
		First(&entry, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindOpen(ctx context.Context, tenantID, employeeID uuid.UUID, workDate time.Time) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := GetDB(ctx, r.db).
		Where("tenant_id = ? AND employee_id = ? AND work_date = ?", tenantID, employeeID, workDate).
		Where("start_time IS NOT NULL AND end_time IS NULL").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) ListByEmployeeRange(ctx context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := GetDB(ctx, r.db).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Where("work_date >= ? AND work_date < ?", from, to).
		Order("work_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timeEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter TimeEntryFilter) ([]model.TimeEntry, int64, error) {
	var entries []model.TimeEntry
	var total int64

	build := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.TimeEntry{}).Where("tenant_id = ?", tenantID)
		if filter.EmployeeID != nil {
			q = q.Where("employee_id = ?", *filter.EmployeeID)
		}
		if filter.Approved != nil {
			q = q.Where("approved = ?", *filter.Approved)
		}
		if filter.From != nil {
			q = q.Where("work_date >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("work_date < ?", *filter.To)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := build().
		Preload("Employee").
		Preload("Approver").
		Order("work_date DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *model.TimeEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *timeEntryRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.TimeEntry{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}
