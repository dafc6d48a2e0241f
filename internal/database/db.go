package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.RefreshToken{},
		&model.Employee{},
		&model.TimeEntry{},
		&model.Partner{},
		&model.PartnerAddress{},
		&model.Product{},
		&model.ProductCost{},
		&model.Order{},
		&model.PartnerSplit{},
		&model.SupplierOrder{},
		&model.SupplierDelivery{},
		&model.Invoice{},
		&model.Payment{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
