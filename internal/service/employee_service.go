package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	HourlyRate string `json:"hourly_rate" binding:"required"`
	UserID     string `json:"user_id"` // optional login link
}

type UpdateEmployeeRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	HourlyRate *string `json:"hourly_rate"`
	IsActive   *bool   `json:"is_active"`
}

// --- Interface ---

type EmployeeService interface {
	CreateEmployee(ctx context.Context, tenantID, userID uuid.UUID, req CreateEmployeeRequest) (*model.Employee, error)
	GetEmployee(ctx context.Context, tenantID uuid.UUID, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Employee, int64, error)
	UpdateEmployee(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateEmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, tenantID, userID uuid.UUID, id string) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewEmployeeService(repo repository.EmployeeRepository, userRepo repository.UserRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) EmployeeService {
	return &employeeService{repo: repo, userRepo: userRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *employeeService) CreateEmployee(ctx context.Context, tenantID, userID uuid.UUID, req CreateEmployeeRequest) (*model.Employee, error) {
	rate, err := parseAmount("hourly_rate", req.HourlyRate)
	if err != nil {
		return nil, err
	}
	if rate.IsNegative() {
		return nil, errors.New("hourly_rate must not be negative")
	}

	employee := model.Employee{
		TenantID:   tenantID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		HourlyRate: rate,
		IsActive:   true,
	}

	if req.UserID != "" {
		linkID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id: %w", err)
		}
		linked, err := s.userRepo.GetByID(ctx, linkID.String())
		if err != nil || linked.TenantID != tenantID {
			return nil, errors.New("linked user not found")
		}
		employee.UserID = &linkID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &employee); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionCreateEmployee, employee.ID.String(), employee.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, tenantID uuid.UUID, id string) (*model.Employee, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}
	employee, err := s.repo.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		return nil, errors.New("employee not found")
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Employee, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, tenantID, page, limit)
}

// UpdateEmployee adjusts profile fields. A changed hourly rate only affects
// future clock-outs; salaries already fixed on existing entries keep the rate
// in force when they were completed.
func (s *employeeService) UpdateEmployee(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.HourlyRate != nil {
		rate, err := parseAmount("hourly_rate", *req.HourlyRate)
		if err != nil {
			return nil, err
		}
		if rate.IsNegative() {
			return nil, errors.New("hourly_rate must not be negative")
		}
		employee.HourlyRate = rate
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, employee); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionUpdateEmployee, id, employee.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, tenantID, userID uuid.UUID, id string) error {
	employee, err := s.GetEmployee(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, tenantID, employee.ID); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionDeleteEmployee, id, employee.Name, nil)
	})
}
