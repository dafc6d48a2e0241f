package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplierOrderRepository interface {
	Create(ctx context.Context, order *model.SupplierOrder) error
	GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.SupplierOrder, error)
	// GetByIDForUpdate row-locks the order so concurrent delivery receipts
	// cannot both read the same delivered_qty.
	GetByIDForUpdate(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.SupplierOrder, error)
	List(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, page, limit int) ([]model.SupplierOrder, int64, error)
	Update(ctx context.Context, order *model.SupplierOrder) error
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
	AddDelivery(ctx context.Context, d *model.SupplierDelivery) error
}

type supplierOrderRepository struct {
	db *gorm.DB
}

func NewSupplierOrderRepository(db *gorm.DB) SupplierOrderRepository {
	return &supplierOrderRepository{db: db}
}

func (r *supplierOrderRepository) Create(ctx context.Context, order *model.SupplierOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *supplierOrderRepository) GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	if err := GetDB(ctx, r.db).
		Preload("Supplier").
		Preload("Product").
		Preload("Deliveries").
		First(&order, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *supplierOrderRepository) GetByIDForUpdate(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *supplierOrderRepository) List(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, page, limit int) ([]model.SupplierOrder, int64, error) {
	var orders []model.SupplierOrder
	var total int64

	build := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.SupplierOrder{}).Where("tenant_id = ?", tenantID)
		if supplierID != nil {
			q = q.Where("supplier_id = ?", *supplierID)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := build().
		Preload("Supplier").
		Preload("Product").
		Preload("Deliveries").
		Order("order_date DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *supplierOrderRepository) Update(ctx context.Context, order *model.SupplierOrder) error {
	return GetDB(ctx, r.db).Omit("Deliveries").Save(order).Error
}

func (r *supplierOrderRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.SupplierOrder{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}

func (r *supplierOrderRepository) AddDelivery(ctx context.Context, d *model.SupplierDelivery) error {
	return GetDB(ctx, r.db).Create(d).Error
}
