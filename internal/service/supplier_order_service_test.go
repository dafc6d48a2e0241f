package service

import (
	"context"
	"testing"

	"backend/internal/delivery"
	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type supplierFixture struct {
	svc      SupplierOrderService
	db       *gorm.DB
	tenantID uuid.UUID
	userID   uuid.UUID
	supplier model.Partner
	product  model.Product
}

func setupSupplierOrders(t *testing.T) supplierFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.User{}, &model.Partner{}, &model.Product{},
		&model.SupplierOrder{}, &model.SupplierDelivery{}, &model.AuditLog{},
	))

	tenant := model.Tenant{Name: "Acme", Slug: "acme", IsActive: true}
	require.NoError(t, db.Create(&tenant).Error)
	user := model.User{TenantID: tenant.ID, Username: "admin", Email: "a@acme.test", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)

	supplier := model.Partner{TenantID: tenant.ID, Name: "Parts Inc", Type: model.PartnerTypeSupplier}
	require.NoError(t, db.Create(&supplier).Error)
	product := model.Product{TenantID: tenant.ID, SKU: "WIDGET-1", Name: "Widget", Kind: model.ProductKindStandard}
	require.NoError(t, db.Create(&product).Error)

	svc := NewSupplierOrderService(
		repository.NewSupplierOrderRepository(db),
		repository.NewPartnerRepository(db),
		repository.NewProductRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		ws.NewHub(),
	)

	return supplierFixture{svc: svc, db: db, tenantID: tenant.ID, userID: user.ID, supplier: supplier, product: product}
}

func (f supplierFixture) createOrder(t *testing.T, totalQty int) SupplierOrderResponse {
	t.Helper()
	order, err := f.svc.CreateSupplierOrder(context.Background(), f.tenantID, f.userID, CreateSupplierOrderRequest{
		SupplierID: f.supplier.ID.String(),
		ProductID:  f.product.ID.String(),
		OrderDate:  "2026-08-20",
		TotalQty:   totalQty,
		UnitCost:   "3.50",
	})
	require.NoError(t, err)
	return order
}

func TestDeliveryStatusProgression(t *testing.T) {
	f := setupSupplierOrders(t)
	ctx := context.Background()

	order := f.createOrder(t, 10)
	assert.Equal(t, delivery.StatusNotDelivered, order.Status)
	assert.Equal(t, "35.00", order.TotalCost)

	partial, err := f.svc.ReceiveDelivery(ctx, f.tenantID, f.userID, order.ID, ReceiveDeliveryRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusPartial, partial.Status)
	assert.Equal(t, 4, partial.DeliveredQty)
	require.Len(t, partial.Deliveries, 1)
	assert.Equal(t, 4, partial.Deliveries[0].DeliveredAfter)

	// over-delivery still resolves to delivered
	done, err := f.svc.ReceiveDelivery(ctx, f.tenantID, f.userID, order.ID, ReceiveDeliveryRequest{Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusDelivered, done.Status)
	assert.Equal(t, 12, done.DeliveredQty)
	require.Len(t, done.Deliveries, 2)
	assert.Equal(t, 12, done.Deliveries[1].DeliveredAfter)

	var auditCount int64
	require.NoError(t, f.db.Model(&model.AuditLog{}).
		Where("action = ?", model.ActionReceiveDelivery).Count(&auditCount).Error)
	assert.EqualValues(t, 2, auditCount)
}

func TestPinnedStatusBeatsCounters(t *testing.T) {
	f := setupSupplierOrders(t)
	ctx := context.Background()

	order := f.createOrder(t, 10)

	pinned, err := f.svc.PinStatus(ctx, f.tenantID, f.userID, order.ID, PinStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusDelivered, pinned.Status, "explicit status wins with zero counters")

	_, err = f.svc.PinStatus(ctx, f.tenantID, f.userID, order.ID, PinStatusRequest{Status: "DELIVERED"})
	assert.Error(t, err, "status values are case-sensitive")

	cleared, err := f.svc.PinStatus(ctx, f.tenantID, f.userID, order.ID, PinStatusRequest{})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusNotDelivered, cleared.Status, "clearing the pin hands control back to the counters")

	// the pin and the clear are both audited; the rejected value is not
	var auditCount int64
	require.NoError(t, f.db.Model(&model.AuditLog{}).
		Where("action = ?", model.ActionPinDeliveryStatus).Count(&auditCount).Error)
	assert.EqualValues(t, 2, auditCount)
}

func TestReceiveDeliveryValidation(t *testing.T) {
	f := setupSupplierOrders(t)
	ctx := context.Background()

	order := f.createOrder(t, 5)

	_, err := f.svc.ReceiveDelivery(ctx, f.tenantID, f.userID, order.ID, ReceiveDeliveryRequest{Quantity: 0})
	assert.Error(t, err)

	_, err = f.svc.ReceiveDelivery(ctx, f.tenantID, f.userID, uuid.NewString(), ReceiveDeliveryRequest{Quantity: 1})
	assert.Error(t, err)

	// a failed receipt leaves no delivery rows behind
	var count int64
	require.NoError(t, f.db.Model(&model.SupplierDelivery{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSupplierOrderValidation(t *testing.T) {
	f := setupSupplierOrders(t)
	ctx := context.Background()

	customer := model.Partner{TenantID: f.tenantID, Name: "Blue Cafe", Type: model.PartnerTypeCustomer}
	require.NoError(t, f.db.Create(&customer).Error)

	_, err := f.svc.CreateSupplierOrder(ctx, f.tenantID, f.userID, CreateSupplierOrderRequest{
		SupplierID: customer.ID.String(),
		ProductID:  f.product.ID.String(),
		OrderDate:  "2026-08-20",
		TotalQty:   5,
		UnitCost:   "1.00",
	})
	assert.Error(t, err, "a pure customer cannot act as supplier")

	_, err = f.svc.CreateSupplierOrder(ctx, f.tenantID, f.userID, CreateSupplierOrderRequest{
		SupplierID: f.supplier.ID.String(),
		ProductID:  f.product.ID.String(),
		OrderDate:  "2026-08-20",
		TotalQty:   5,
		UnitCost:   "-1.00",
	})
	assert.Error(t, err)
}
