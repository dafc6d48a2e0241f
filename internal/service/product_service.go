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

type CreateProductRequest struct {
	SKU                 string `json:"sku" binding:"required"`
	Name                string `json:"name" binding:"required"`
	Kind                string `json:"kind"` // defaults to STANDARD
	DefaultProductCost  string `json:"default_product_cost"`
	DefaultShippingCost string `json:"default_shipping_cost"`
}

type UpdateProductRequest struct {
	Name                *string `json:"name"`
	DefaultProductCost  *string `json:"default_product_cost"`
	DefaultShippingCost *string `json:"default_shipping_cost"`
	IsActive            *bool   `json:"is_active"`
}

type AddProductCostRequest struct {
	PartnerID     string `json:"partner_id"` // empty = applies to any customer
	EffectiveFrom string `json:"effective_from" binding:"required"`
	ProductCost   string `json:"product_cost" binding:"required"`
	ShippingCost  string `json:"shipping_cost"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, tenantID uuid.UUID, id string) (*model.Product, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, tenantID, userID uuid.UUID, id string) error
	AddCost(ctx context.Context, tenantID, userID uuid.UUID, id string, req AddProductCostRequest) (*model.ProductCost, error)
}

type productService struct {
	repo      repository.ProductRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewProductService(repo repository.ProductRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) ProductService {
	return &productService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*model.Product, error) {
	kind := req.Kind
	if kind == "" {
		kind = model.ProductKindStandard
	}
	if kind != model.ProductKindStandard && kind != model.ProductKindRefund {
		return nil, fmt.Errorf("unknown product kind %q", kind)
	}

	product := model.Product{
		TenantID: tenantID,
		SKU:      req.SKU,
		Name:     req.Name,
		Kind:     kind,
		IsActive: true,
	}

	if req.DefaultProductCost != "" {
		cost, err := parseAmount("default_product_cost", req.DefaultProductCost)
		if err != nil {
			return nil, err
		}
		product.DefaultProductCost = cost
	}
	if req.DefaultShippingCost != "" {
		cost, err := parseAmount("default_shipping_cost", req.DefaultShippingCost)
		if err != nil {
			return nil, err
		}
		product.DefaultShippingCost = cost
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionCreateProduct, product.ID.String(), product.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, tenantID uuid.UUID, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.repo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, tenantID, page, limit)
}

func (s *productService) UpdateProduct(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateProductRequest) (*model.Product, error) {
	product, err := s.GetProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.DefaultProductCost != nil {
		cost, err := parseAmount("default_product_cost", *req.DefaultProductCost)
		if err != nil {
			return nil, err
		}
		product.DefaultProductCost = cost
	}
	if req.DefaultShippingCost != nil {
		cost, err := parseAmount("default_shipping_cost", *req.DefaultShippingCost)
		if err != nil {
			return nil, err
		}
		product.DefaultShippingCost = cost
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionUpdateProduct, id, product.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, tenantID, userID uuid.UUID, id string) error {
	product, err := s.GetProduct(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if product.Kind == model.ProductKindRefund {
		return errors.New("the refund/discount product cannot be deleted")
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, tenantID, product.ID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionDeleteProduct, id, product.Name, nil)
	})
}

// AddCost appends a dated cost record to the product's history. Existing
// records are never rewritten; order cost resolution picks the newest record
// effective on or before the order date.
func (s *productService) AddCost(ctx context.Context, tenantID, userID uuid.UUID, id string, req AddProductCostRequest) (*model.ProductCost, error) {
	product, err := s.GetProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	effectiveFrom, err := parseDate("effective_from", req.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	productCost, err := parseAmount("product_cost", req.ProductCost)
	if err != nil {
		return nil, err
	}

	cost := model.ProductCost{
		TenantID:      tenantID,
		ProductID:     product.ID,
		EffectiveFrom: effectiveFrom,
		ProductCost:   productCost,
	}

	if req.ShippingCost != "" {
		shipping, err := parseAmount("shipping_cost", req.ShippingCost)
		if err != nil {
			return nil, err
		}
		cost.ShippingCost = shipping
	}
	if req.PartnerID != "" {
		pid, err := uuid.Parse(req.PartnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid partner_id: %w", err)
		}
		cost.PartnerID = &pid
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.AddCost(txCtx, &cost); err != nil {
			return fmt.Errorf("failed to add product cost: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionUpdateProduct, id, product.Name, map[string]interface{}{
			"effective_from": req.EffectiveFrom,
			"product_cost":   req.ProductCost,
		})
	})
	if err != nil {
		return nil, err
	}
	return &cost, nil
}
