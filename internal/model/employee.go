package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee represents a worker whose shifts are tracked via the timeclock.
// Employees are distinct from Users: a user is a login, an employee is who
// hours and pay are booked against. The two may be linked.
type Employee struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"` // Optional link to a login account
	User       *User           `gorm:"foreignKey:UserID" json:"-"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Email      string          `gorm:"type:varchar(255)" json:"email"`
	Phone      string          `gorm:"type:varchar(50)" json:"phone"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"hourly_rate"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}
