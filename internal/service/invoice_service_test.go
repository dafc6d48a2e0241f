package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type invoiceFixture struct {
	svc      InvoiceService
	db       *gorm.DB
	tenantID uuid.UUID
	userID   uuid.UUID
	order    model.Order
}

func setupInvoices(t *testing.T) invoiceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.User{}, &model.Partner{}, &model.Product{},
		&model.Order{}, &model.PartnerSplit{}, &model.Invoice{}, &model.Payment{},
		&model.AuditLog{},
	))

	tenant := model.Tenant{Name: "Acme", Slug: "acme", IsActive: true}
	require.NoError(t, db.Create(&tenant).Error)
	user := model.User{TenantID: tenant.ID, Username: "admin", Email: "a@acme.test", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)

	customer := model.Partner{TenantID: tenant.ID, Name: "Blue Cafe", Type: model.PartnerTypeCustomer}
	require.NoError(t, db.Create(&customer).Error)
	product := model.Product{TenantID: tenant.ID, SKU: "WIDGET-1", Name: "Widget", Kind: model.ProductKindStandard}
	require.NoError(t, db.Create(&product).Error)

	order := model.Order{
		TenantID: tenant.ID, OrderCode: "ORD-TEST-1",
		PartnerID: customer.ID, ProductID: product.ID,
		OrderDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Quantity:  10, UnitPrice: decimal.RequireFromString("5.00"),
	}
	require.NoError(t, db.Create(&order).Error)

	svc := NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewOrderRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)

	return invoiceFixture{svc: svc, db: db, tenantID: tenant.ID, userID: user.ID, order: order}
}

func TestCreateInvoiceFromOrder(t *testing.T) {
	f := setupInvoices(t)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, f.tenantID, f.userID, CreateInvoiceRequest{
		OrderID:  f.order.ID.String(),
		SideFees: "2.50",
	})
	require.NoError(t, err)

	assert.Equal(t, "50.00", inv.Subtotal)
	assert.Equal(t, "2.50", inv.SideFees)
	assert.Equal(t, "52.50", inv.TotalAmount)
	assert.Equal(t, "0.00", inv.PaidAmount)
	assert.Equal(t, "52.50", inv.Remaining)
	assert.Equal(t, model.InvoiceStatusOpen, inv.Status)

	require.True(t, strings.HasPrefix(inv.InvoiceNo, "INV-"), "got %s", inv.InvoiceNo)
	assert.True(t, strings.HasSuffix(inv.InvoiceNo, "-00001"), "got %s", inv.InvoiceNo)

	second, err := f.svc.CreateInvoice(ctx, f.tenantID, f.userID, CreateInvoiceRequest{
		OrderID: f.order.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(second.InvoiceNo, "-00002"), "serials increment per day prefix, got %s", second.InvoiceNo)
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	f := setupInvoices(t)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, f.tenantID, f.userID, CreateInvoiceRequest{
		OrderID: f.order.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, "50.00", inv.TotalAmount)

	partial, err := f.svc.RecordPayment(ctx, f.tenantID, f.userID, inv.ID, RecordPaymentRequest{
		Amount: "20.00",
		Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartial, partial.Status)
	assert.Equal(t, "20.00", partial.PaidAmount)
	assert.Equal(t, "30.00", partial.Remaining)
	require.Len(t, partial.Payments, 1)

	paid, err := f.svc.RecordPayment(ctx, f.tenantID, f.userID, inv.ID, RecordPaymentRequest{
		Amount: "30.00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, "0.00", paid.Remaining)
	require.Len(t, paid.Payments, 2)

	// a fully paid invoice accepts no more money
	_, err = f.svc.RecordPayment(ctx, f.tenantID, f.userID, inv.ID, RecordPaymentRequest{Amount: "1.00"})
	assert.Error(t, err)
}

func TestRecordPaymentValidation(t *testing.T) {
	f := setupInvoices(t)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, f.tenantID, f.userID, CreateInvoiceRequest{
		OrderID: f.order.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, f.tenantID, f.userID, inv.ID, RecordPaymentRequest{Amount: "-5.00"})
	assert.Error(t, err)

	_, err = f.svc.RecordPayment(ctx, f.tenantID, f.userID, inv.ID, RecordPaymentRequest{Amount: "5.00", Method: "BARTER"})
	assert.Error(t, err)

	// failed attempts leave no payment rows
	var count int64
	require.NoError(t, f.db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}
