package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductKind enum constants
const (
	ProductKindStandard = "STANDARD"
	// ProductKindRefund marks the distinguished Refund/Discount product:
	// its unit price is always strictly negative and profit is not reported.
	ProductKindRefund = "REFUND_DISCOUNT"
)

// Product represents a sellable item
type Product struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SKU                 string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name                string          `gorm:"type:varchar(255);not null" json:"name"`
	Kind                string          `gorm:"type:varchar(20);not null;default:'STANDARD'" json:"kind"` // STANDARD, REFUND_DISCOUNT
	DefaultProductCost  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"default_product_cost"`
	DefaultShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"default_shipping_cost"`
	IsActive            bool            `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ProductCost is a dated per-unit cost record, optionally narrowed to one
// customer. Cost resolution for an order picks the newest record effective on
// or before the order date, preferring a customer-specific row over a generic
// one; an explicit per-order override beats both.
type ProductCost struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"-"`
	PartnerID     *uuid.UUID      `gorm:"type:uuid;index" json:"partner_id"` // nil = applies to any customer
	EffectiveFrom time.Time       `gorm:"type:date;not null;index" json:"effective_from"`
	ProductCost   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_cost"`
	ShippingCost  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"shipping_cost"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
