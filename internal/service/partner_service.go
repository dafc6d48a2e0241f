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

type AddressRequest struct {
	AddressType string `json:"address_type" binding:"required"` // BILLING or SHIPPING
	FullAddress string `json:"full_address" binding:"required"`
	IsDefault   bool   `json:"is_default"`
}

type CreatePartnerRequest struct {
	Name          string           `json:"name" binding:"required"`
	Type          string           `json:"type" binding:"required"` // CUSTOMER, SUPPLIER, SPLIT, BOTH
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	TaxCode       string           `json:"tax_code"`
	CompanyName   string           `json:"company_name"`
	ContactPerson string           `json:"contact_person"`
	Addresses     []AddressRequest `json:"addresses"`
}

type UpdatePartnerRequest struct {
	Name          *string           `json:"name"`
	Type          *string           `json:"type"`
	Email         *string           `json:"email"`
	Phone         *string           `json:"phone"`
	TaxCode       *string           `json:"tax_code"`
	CompanyName   *string           `json:"company_name"`
	ContactPerson *string           `json:"contact_person"`
	IsActive      *bool             `json:"is_active"`
	Addresses     *[]AddressRequest `json:"addresses"`
}

// --- Interface ---

type PartnerService interface {
	CreatePartner(ctx context.Context, tenantID, userID uuid.UUID, req CreatePartnerRequest) (*model.Partner, error)
	GetPartner(ctx context.Context, tenantID uuid.UUID, id string) (*model.Partner, error)
	ListPartners(ctx context.Context, tenantID uuid.UUID, partnerType string, page, limit int) ([]model.Partner, int64, error)
	UpdatePartner(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdatePartnerRequest) (*model.Partner, error)
	DeletePartner(ctx context.Context, tenantID, userID uuid.UUID, id string) error
}

type partnerService struct {
	repo      repository.PartnerRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewPartnerService(repo repository.PartnerRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) PartnerService {
	return &partnerService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func validPartnerType(t string) bool {
	switch t {
	case model.PartnerTypeCustomer, model.PartnerTypeSupplier, model.PartnerTypeSplit, model.PartnerTypeBoth:
		return true
	}
	return false
}

func buildAddresses(reqs []AddressRequest) ([]model.PartnerAddress, error) {
	addresses := make([]model.PartnerAddress, 0, len(reqs))
	for _, a := range reqs {
		if a.AddressType != model.AddressTypeBilling && a.AddressType != model.AddressTypeShipping {
			return nil, fmt.Errorf("unknown address type %q", a.AddressType)
		}
		addresses = append(addresses, model.PartnerAddress{
			AddressType: a.AddressType,
			FullAddress: a.FullAddress,
			IsDefault:   a.IsDefault,
		})
	}
	return addresses, nil
}

func (s *partnerService) CreatePartner(ctx context.Context, tenantID, userID uuid.UUID, req CreatePartnerRequest) (*model.Partner, error) {
	if !validPartnerType(req.Type) {
		return nil, fmt.Errorf("unknown partner type %q", req.Type)
	}
	addresses, err := buildAddresses(req.Addresses)
	if err != nil {
		return nil, err
	}

	partner := model.Partner{
		TenantID:      tenantID,
		Name:          req.Name,
		Type:          req.Type,
		Email:         req.Email,
		Phone:         req.Phone,
		TaxCode:       req.TaxCode,
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		IsActive:      true,
		Addresses:     addresses,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &partner); err != nil {
			return fmt.Errorf("failed to create partner: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionCreatePartner, partner.ID.String(), partner.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (s *partnerService) GetPartner(ctx context.Context, tenantID uuid.UUID, id string) (*model.Partner, error) {
	partnerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid partner id: %w", err)
	}
	partner, err := s.repo.GetByID(ctx, tenantID, partnerID)
	if err != nil {
		return nil, errors.New("partner not found")
	}
	return partner, nil
}

func (s *partnerService) ListPartners(ctx context.Context, tenantID uuid.UUID, partnerType string, page, limit int) ([]model.Partner, int64, error) {
	if partnerType != "" && !validPartnerType(partnerType) {
		return nil, 0, fmt.Errorf("unknown partner type %q", partnerType)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, tenantID, partnerType, page, limit)
}

func (s *partnerService) UpdatePartner(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdatePartnerRequest) (*model.Partner, error) {
	partner, err := s.GetPartner(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.Type != nil {
		if !validPartnerType(*req.Type) {
			return nil, fmt.Errorf("unknown partner type %q", *req.Type)
		}
		partner.Type = *req.Type
	}
	if req.Email != nil {
		partner.Email = *req.Email
	}
	if req.Phone != nil {
		partner.Phone = *req.Phone
	}
	if req.TaxCode != nil {
		partner.TaxCode = *req.TaxCode
	}
	if req.CompanyName != nil {
		partner.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		partner.ContactPerson = *req.ContactPerson
	}
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
	}

	var newAddresses []model.PartnerAddress
	if req.Addresses != nil {
		newAddresses, err = buildAddresses(*req.Addresses)
		if err != nil {
			return nil, err
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, partner); err != nil {
			return fmt.Errorf("failed to update partner: %w", err)
		}
		if req.Addresses != nil {
			if err := s.repo.ReplaceAddresses(txCtx, partner.ID, newAddresses); err != nil {
				return fmt.Errorf("failed to replace addresses: %w", err)
			}
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionUpdatePartner, id, partner.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPartner(ctx, tenantID, id)
}

func (s *partnerService) DeletePartner(ctx context.Context, tenantID, userID uuid.UUID, id string) error {
	partner, err := s.GetPartner(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, tenantID, partner.ID); err != nil {
			return fmt.Errorf("failed to delete partner: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionDeletePartner, id, partner.Name, nil)
	})
}
