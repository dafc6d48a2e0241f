package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierOrder represents a purchase order placed with a supplier. Delivery
// progress is tracked by quantity counters; the tri-state delivery status
// (not_delivered / partial / delivered) is derived on read, never stored,
// unless the user pins an explicit status.
type SupplierOrder struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	OrderCode  string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	SupplierID uuid.UUID  `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *Partner   `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OrderDate  time.Time  `gorm:"type:date;not null;index" json:"order_date"`

	TotalQty     int             `gorm:"type:int;not null" json:"total_qty"`
	DeliveredQty int             `gorm:"type:int;not null;default:0" json:"delivered_qty"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_cost"`

	// ExplicitStatus overrides the counter-derived status when set.
	ExplicitStatus *string `gorm:"type:varchar(20)" json:"explicit_status"`

	Note       string             `gorm:"type:text" json:"note"`
	Deliveries []SupplierDelivery `gorm:"foreignKey:SupplierOrderID;constraint:OnDelete:CASCADE" json:"deliveries"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	DeletedAt  gorm.DeletedAt     `gorm:"index" json:"-"`
}

// SupplierDelivery records one received shipment against a supplier order,
// with the running delivered quantity after the receipt.
type SupplierDelivery struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_order_id"`
	Quantity        int       `gorm:"type:int;not null" json:"quantity"`
	DeliveredAfter  int       `gorm:"type:int;not null" json:"delivered_after"`
	ReceivedAt      time.Time `gorm:"not null" json:"received_at"`
	Note            string    `gorm:"type:text" json:"note"`
	CreatedAt       time.Time `json:"created_at"`
}
