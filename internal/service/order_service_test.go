package service

import (
	"context"
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

type orderFixture struct {
	svc      OrderService
	db       *gorm.DB
	tenantID uuid.UUID
	userID   uuid.UUID
	customer model.Partner
	splitter model.Partner
	product  model.Product
	refund   model.Product
}

func setupOrders(t *testing.T) orderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.User{}, &model.Partner{}, &model.PartnerAddress{},
		&model.Product{}, &model.ProductCost{}, &model.Order{}, &model.PartnerSplit{},
		&model.AuditLog{},
	))

	tenant := model.Tenant{Name: "Acme", Slug: "acme", IsActive: true}
	require.NoError(t, db.Create(&tenant).Error)
	user := model.User{TenantID: tenant.ID, Username: "admin", Email: "a@acme.test", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)

	customer := model.Partner{TenantID: tenant.ID, Name: "Blue Cafe", Type: model.PartnerTypeCustomer}
	require.NoError(t, db.Create(&customer).Error)
	splitter := model.Partner{TenantID: tenant.ID, Name: "Referral Co", Type: model.PartnerTypeSplit}
	require.NoError(t, db.Create(&splitter).Error)

	product := model.Product{
		TenantID: tenant.ID, SKU: "WIDGET-1", Name: "Widget", Kind: model.ProductKindStandard,
		DefaultProductCost:  decimal.RequireFromString("1.50"),
		DefaultShippingCost: decimal.RequireFromString("0.50"),
	}
	require.NoError(t, db.Create(&product).Error)

	refund := model.Product{TenantID: tenant.ID, SKU: "REFUND", Name: "Refund / Discount", Kind: model.ProductKindRefund}
	require.NoError(t, db.Create(&refund).Error)

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewPartnerRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)

	return orderFixture{
		svc: svc, db: db, tenantID: tenant.ID, userID: user.ID,
		customer: customer, splitter: splitter, product: product, refund: refund,
	}
}

func TestCreateOrderComputesFinancials(t *testing.T) {
	f := setupOrders(t)
	ctx := context.Background()

	productCost := "0.85"
	shippingCost := "0.25"
	order, err := f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID:            f.customer.ID.String(),
		ProductID:            f.product.ID.String(),
		OrderDate:            "2026-08-20",
		Quantity:             10,
		UnitPrice:            "5.25",
		ProductCostOverride:  &productCost,
		ShippingCostOverride: &shippingCost,
		Splits: []SplitRequest{
			{PartnerID: f.splitter.ID.String(), AmountPerItem: "0.25"},
		},
	})
	require.NoError(t, err)

	fin := order.Financials
	require.True(t, fin.Computable)
	assert.True(t, fin.OrderValue.Equal(decimal.RequireFromString("52.50")), "got %s", fin.OrderValue)
	assert.True(t, fin.PartnerTotal.Equal(decimal.RequireFromString("2.50")), "got %s", fin.PartnerTotal)
	assert.True(t, fin.ProductCost.Equal(decimal.RequireFromString("8.50")), "got %s", fin.ProductCost)
	assert.True(t, fin.ShippingCost.Equal(decimal.RequireFromString("2.50")), "got %s", fin.ShippingCost)
	assert.True(t, fin.Profit.Equal(decimal.RequireFromString("39.00")), "got %s", fin.Profit)
	pct, _ := fin.ProfitPercent.Round(2).Float64()
	assert.InDelta(t, 74.29, pct, 0.01)
	assert.False(t, fin.ProfitSuppress)

	require.Len(t, order.Splits, 1)
	assert.Equal(t, "2.50", order.Splits[0].Total)
	assert.NotEmpty(t, order.OrderCode)
}

func TestEffectiveCostPrecedence(t *testing.T) {
	f := setupOrders(t)
	ctx := context.Background()

	mk := func(req CreateOrderRequest) OrderResponse {
		t.Helper()
		req.PartnerID = f.customer.ID.String()
		req.ProductID = f.product.ID.String()
		req.OrderDate = "2026-08-20"
		req.Quantity = 10
		req.UnitPrice = "5.00"
		resp, err := f.svc.CreateOrder(ctx, f.tenantID, f.userID, req)
		require.NoError(t, err)
		return resp
	}

	// no history: product defaults apply (1.50 + 0.50 per unit)
	noHistory := mk(CreateOrderRequest{})
	assert.True(t, noHistory.Financials.ProductCost.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, noHistory.Financials.ShippingCost.Equal(decimal.RequireFromString("5.00")))

	// generic history row effective before the order date beats the defaults
	require.NoError(t, f.db.Create(&model.ProductCost{
		TenantID: f.tenantID, ProductID: f.product.ID,
		EffectiveFrom: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ProductCost:   decimal.RequireFromString("1.20"),
		ShippingCost:  decimal.RequireFromString("0.30"),
	}).Error)
	withHistory := mk(CreateOrderRequest{})
	assert.True(t, withHistory.Financials.ProductCost.Equal(decimal.RequireFromString("12.00")))
	assert.True(t, withHistory.Financials.ShippingCost.Equal(decimal.RequireFromString("3.00")))

	// customer-specific history beats the generic row
	cid := f.customer.ID
	require.NoError(t, f.db.Create(&model.ProductCost{
		TenantID: f.tenantID, ProductID: f.product.ID, PartnerID: &cid,
		EffectiveFrom: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		ProductCost:   decimal.RequireFromString("1.00"),
		ShippingCost:  decimal.RequireFromString("0.20"),
	}).Error)
	customerSpecific := mk(CreateOrderRequest{})
	assert.True(t, customerSpecific.Financials.ProductCost.Equal(decimal.RequireFromString("10.00")))

	// an explicit per-order override beats every history row
	override := "0.90"
	withOverride := mk(CreateOrderRequest{ProductCostOverride: &override})
	assert.True(t, withOverride.Financials.ProductCost.Equal(decimal.RequireFromString("9.00")))
	// shipping still comes from the customer-specific history
	assert.True(t, withOverride.Financials.ShippingCost.Equal(decimal.RequireFromString("2.00")))
}

func TestRefundOrderPriceAndProfitSuppression(t *testing.T) {
	f := setupOrders(t)
	ctx := context.Background()

	// a positive submitted price is stored strictly negative
	order, err := f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID: f.customer.ID.String(),
		ProductID: f.refund.ID.String(),
		OrderDate: "2026-08-20",
		Quantity:  2,
		UnitPrice: "5.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "-5.00", order.UnitPrice)
	assert.True(t, order.Financials.OrderValue.Equal(decimal.RequireFromString("-10.00")))
	assert.True(t, order.Financials.ProfitSuppress)
	assert.True(t, order.Financials.Profit.IsZero())
	assert.True(t, order.Financials.ProfitPercent.IsZero())

	// zero price on the refund product is rejected
	_, err = f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID: f.customer.ID.String(),
		ProductID: f.refund.ID.String(),
		OrderDate: "2026-08-20",
		Quantity:  1,
		UnitPrice: "0",
	})
	assert.Error(t, err)

	// standard products require a strictly positive price
	_, err = f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID: f.customer.ID.String(),
		ProductID: f.product.ID.String(),
		OrderDate: "2026-08-20",
		Quantity:  1,
		UnitPrice: "-3.00",
	})
	assert.Error(t, err)
}

func TestUpdateOrderReplacesSplits(t *testing.T) {
	f := setupOrders(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID: f.customer.ID.String(),
		ProductID: f.product.ID.String(),
		OrderDate: "2026-08-20",
		Quantity:  4,
		UnitPrice: "10.00",
		Splits: []SplitRequest{
			{PartnerID: f.splitter.ID.String(), AmountPerItem: "1.00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Splits, 1)

	newSplits := []SplitRequest{
		{PartnerID: f.splitter.ID.String(), AmountPerItem: "2.00"},
	}
	qty := 5
	updated, err := f.svc.UpdateOrder(ctx, f.tenantID, f.userID, order.ID, UpdateOrderRequest{
		Quantity: &qty,
		Splits:   &newSplits,
	})
	require.NoError(t, err)
	require.Len(t, updated.Splits, 1)
	assert.Equal(t, "2.00", updated.Splits[0].AmountPerItem)
	assert.Equal(t, "10.00", updated.Splits[0].Total)
	assert.True(t, updated.Financials.PartnerTotal.Equal(decimal.RequireFromString("10.00")))

	var splitCount int64
	require.NoError(t, f.db.Model(&model.PartnerSplit{}).Count(&splitCount).Error)
	assert.EqualValues(t, 1, splitCount, "old split rows are replaced, not accumulated")
}

func TestCreateOrderRejectsNonCustomer(t *testing.T) {
	f := setupOrders(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID: f.splitter.ID.String(),
		ProductID: f.product.ID.String(),
		OrderDate: "2026-08-20",
		Quantity:  1,
		UnitPrice: "5.00",
	})
	assert.Error(t, err)

	_, err = f.svc.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
		PartnerID: f.customer.ID.String(),
		ProductID: f.product.ID.String(),
		OrderDate: "2026-08-20",
		Quantity:  0,
		UnitPrice: "5.00",
	})
	assert.Error(t, err, "zero quantity is not computable and must be rejected")
}
