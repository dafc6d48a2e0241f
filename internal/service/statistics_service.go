package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/finance"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
}

func NewStatisticsService(db *gorm.DB, productRepo repository.ProductRepository) StatisticsService {
	return &statisticsService{db: db, productRepo: productRepo}
}

// GetStatistics aggregates sales and labor totals for a tenant's time range.
// Order financials are resolved per order with the same precedence as the
// order detail view, so the report matches what each order page shows.
func (s *statisticsService) GetStatistics(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	var response model.StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	var orders []model.Order
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("Splits").
		Where("tenant_id = ? AND order_date >= ? AND order_date <= ?", tenantID, startDate, endDate).
		Find(&orders).Error; err != nil {
		return response, fmt.Errorf("failed to load orders: %w", err)
	}

	for _, order := range orders {
		unitProduct, unitShipping := resolveUnitCosts(ctx, s.productRepo, tenantID, order)

		in := finance.Input{
			Quantity:         order.Quantity,
			UnitPrice:        order.UnitPrice,
			UnitProductCost:  unitProduct,
			UnitShippingCost: unitShipping,
			RefundDiscount:   order.Product != nil && order.Product.Kind == model.ProductKindRefund,
		}
		for _, sp := range order.Splits {
			in.PartnerPerItem = append(in.PartnerPerItem, sp.AmountPerItem)
		}

		summary := finance.Compute(in)
		if !summary.Computable {
			continue
		}

		response.TotalOrders++
		response.TotalOrderValue += toFloat(summary.OrderValue)
		response.TotalCost += toFloat(summary.ProductCost) + toFloat(summary.ShippingCost)
		response.TotalPartnerSplits += toFloat(summary.PartnerTotal)
		if !summary.ProfitSuppress {
			response.Profit += toFloat(summary.Profit)
		} else {
			// refund orders still reduce the bottom line by their value
			response.Profit += toFloat(summary.OrderValue)
		}
	}

	// Top products by accumulated quantity
	var topProducts []model.ProductRanking
	if err := s.db.WithContext(ctx).Table("orders").
		Select("products.id as product_id, products.name as product_name, products.sku as product_sku, SUM(orders.quantity) as total_quantity, SUM(orders.quantity * orders.unit_price) as total_value").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("orders.tenant_id = ? AND orders.order_date >= ? AND orders.order_date <= ? AND orders.deleted_at IS NULL", tenantID, startDate, endDate).
		Group("products.id, products.name, products.sku").
		Order("total_quantity DESC").
		Limit(5).
		Scan(&topProducts).Error; err != nil {
		return response, fmt.Errorf("failed to rank products: %w", err)
	}
	response.TopProducts = topProducts

	// Labor totals from completed time entries
	var labor struct {
		Hours float64
		Cost  float64
	}
	if err := s.db.WithContext(ctx).Table("time_entries").
		Select("COALESCE(SUM(total_hours), 0) as hours, COALESCE(SUM(salary), 0) as cost").
		Where("tenant_id = ? AND work_date >= ? AND work_date <= ? AND total_hours IS NOT NULL", tenantID, startDate, endDate).
		Scan(&labor).Error; err != nil {
		return response, fmt.Errorf("failed to aggregate labor: %w", err)
	}
	response.TotalHoursWorked = labor.Hours
	response.TotalLaborCost = labor.Cost

	return response, nil
}
