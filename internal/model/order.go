package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a customer order for a single product line. Financial
// figures (order value, profit, profit percent) are not stored; they are
// derived on read by the finance calculator from quantity, unit price, cost
// overrides and partner splits.
type Order struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	OrderCode string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	PartnerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"partner_id"` // the customer
	Partner   *Partner   `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OrderDate time.Time  `gorm:"type:date;not null;index" json:"order_date"`

	Quantity  int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"` // negative for REFUND_DISCOUNT products

	// Optional per-order cost overrides. When nil, the dated ProductCost
	// history (by product, customer, order date) supplies the defaults.
	ProductCostOverride  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"product_cost_override"`
	ShippingCostOverride *decimal.Decimal `gorm:"type:decimal(10,2)" json:"shipping_cost_override"`

	Delivered bool           `gorm:"not null;default:false" json:"delivered"`
	Note      string         `gorm:"type:text" json:"note"`
	Splits    []PartnerSplit `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"splits"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PartnerSplit is a per-unit cut of an order's value owed to a third party.
// The UI offers at most two per order but the model supports N.
type PartnerSplit struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	PartnerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"partner_id"`
	Partner       *Partner        `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	AmountPerItem decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_per_item"`
	CreatedAt     time.Time       `json:"created_at"`
}
