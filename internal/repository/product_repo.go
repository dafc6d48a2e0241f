package repository

import (
	"context"
	"errors"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error

	AddCost(ctx context.Context, cost *model.ProductCost) error
	// FindEffectiveCost returns the newest cost record effective on or before
	// asOf, preferring a row scoped to the given customer over a generic one.
	// Returns nil (no error) when no history exists.
	FindEffectiveCost(ctx context.Context, tenantID, productID uuid.UUID, customerID *uuid.UUID, asOf time.Time) (*model.ProductCost, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{}).Where("tenant_id = ?", tenantID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Product{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}

func (r *productRepository) AddCost(ctx context.Context, cost *model.ProductCost) error {
	return GetDB(ctx, r.db).Create(cost).Error
}

func (r *productRepository) FindEffectiveCost(ctx context.Context, tenantID, productID uuid.UUID, customerID *uuid.UUID, asOf time.Time) (*model.ProductCost, error) {
	db := GetDB(ctx, r.db)

	// Customer-specific history first
	if customerID != nil {
		var cost model.ProductCost
		err := db.
			Where("tenant_id = ? AND product_id = ? AND partner_id = ?", tenantID, productID, *customerID).
			Where("effective_from <= ?", asOf).
			Order("effective_from DESC").
			First(&cost).Error
		if err == nil {
			return &cost, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var cost model.ProductCost
	err := db.
		Where("tenant_id = ? AND product_id = ? AND partner_id IS NULL", tenantID, productID).
		Where("effective_from <= ?", asOf).
		Order("effective_from DESC").
		First(&cost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cost, nil
}
