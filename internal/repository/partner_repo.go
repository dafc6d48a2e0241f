package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnerRepository interface {
	Create(ctx context.Context, partner *model.Partner) error
	GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.Partner, error)
	List(ctx context.Context, tenantID uuid.UUID, partnerType string, page, limit int) ([]model.Partner, int64, error)
	Update(ctx context.Context, partner *model.Partner) error
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
	ReplaceAddresses(ctx context.Context, partnerID uuid.UUID, addresses []model.PartnerAddress) error
}

type partnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) Create(ctx context.Context, partner *model.Partner) error {
	return GetDB(ctx, r.db).Create(partner).Error
}

func (r *partnerRepository) GetByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*model.Partner, error) {
	var partner model.Partner
	if err := GetDB(ctx, r.db).
		Preload("Addresses").
		First(&partner, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) List(ctx context.Context, tenantID uuid.UUID, partnerType string, page, limit int) ([]model.Partner, int64, error) {
	var partners []model.Partner
	var total int64

	build := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.Partner{}).Where("tenant_id = ?", tenantID)
		if partnerType != "" {
			// BOTH partners show up in customer and supplier listings alike
			q = q.Where("type = ? OR type = ?", partnerType, model.PartnerTypeBoth)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := build().
		Preload("Addresses").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&partners).Error; err != nil {
		return nil, 0, err
	}

	return partners, total, nil
}

func (r *partnerRepository) Update(ctx context.Context, partner *model.Partner) error {
	return GetDB(ctx, r.db).Save(partner).Error
}

func (r *partnerRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Partner{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}

func (r *partnerRepository) ReplaceAddresses(ctx context.Context, partnerID uuid.UUID, addresses []model.PartnerAddress) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.PartnerAddress{}, "partner_id = ?", partnerID).Error; err != nil {
		return err
	}
	if len(addresses) == 0 {
		return nil
	}
	for i := range addresses {
		addresses[i].PartnerID = partnerID
	}
	return db.Create(&addresses).Error
}
