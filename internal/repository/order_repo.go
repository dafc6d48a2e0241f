package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
	ReplaceSplits(ctx context.Context, orderID uuid.UUID, splits []model.PartnerSplit) error
}

// OrderFilter narrows a paginated order listing.
type OrderFilter struct {
	PartnerID *uuid.UUID
	ProductID *uuid.UUID
	Delivered *bool
	Page      int
	Limit     int
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Partner").
		Preload("Product").
		Preload("Splits").
		Preload("Splits.Partner").
		First(&order, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	build := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.Order{}).Where("tenant_id = ?", tenantID)
		if filter.PartnerID != nil {
			q = q.Where("partner_id = ?", *filter.PartnerID)
		}
		if filter.ProductID != nil {
			q = q.Where("product_id = ?", *filter.ProductID)
		}
		if filter.Delivered != nil {
			q = q.Where("delivered = ?", *filter.Delivered)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := build().
		Preload("Partner").
		Preload("Product").
		Preload("Splits").
		Preload("Splits.Partner").
		Order("order_date DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Omit("Splits").Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Order{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}

func (r *orderRepository) ReplaceSplits(ctx context.Context, orderID uuid.UUID, splits []model.PartnerSplit) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.PartnerSplit{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	if len(splits) == 0 {
		return nil
	}
	for i := range splits {
		splits[i].OrderID = orderID
	}
	return db.Create(&splits).Error
}
