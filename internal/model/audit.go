package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionCreateOrder   = "CREATE_ORDER"
	ActionUpdateOrder   = "UPDATE_ORDER"
	ActionDeleteOrder   = "DELETE_ORDER"

	// Supplier order actions
	ActionCreateSupplierOrder = "CREATE_SUPPLIER_ORDER"
	ActionDeleteSupplierOrder = "DELETE_SUPPLIER_ORDER"
	ActionReceiveDelivery     = "RECEIVE_DELIVERY"
	ActionPinDeliveryStatus   = "PIN_DELIVERY_STATUS"

	// Timeclock actions
	ActionClockIn          = "CLOCK_IN"
	ActionClockOut         = "CLOCK_OUT"
	ActionUpdateTimeEntry  = "UPDATE_TIME_ENTRY"
	ActionApproveTimeEntry = "APPROVE_TIME_ENTRY"
	ActionRevokeTimeEntry  = "REVOKE_TIME_ENTRY_APPROVAL"
	ActionDeleteTimeEntry  = "DELETE_TIME_ENTRY"

	// Billing actions
	ActionCreateInvoice  = "CREATE_INVOICE"
	ActionRecordPayment  = "RECORD_PAYMENT"
	ActionCreatePartner  = "CREATE_PARTNER"
	ActionUpdatePartner  = "UPDATE_PARTNER"
	ActionDeletePartner  = "DELETE_PARTNER"
	ActionCreateEmployee = "CREATE_EMPLOYEE"
	ActionUpdateEmployee = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee = "DELETE_EMPLOYEE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
