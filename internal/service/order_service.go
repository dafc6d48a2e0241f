package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/finance"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type SplitRequest struct {
	PartnerID     string `json:"partner_id" binding:"required"`
	AmountPerItem string `json:"amount_per_item" binding:"required"`
}

type CreateOrderRequest struct {
	OrderCode            string         `json:"order_code"` // generated when empty
	PartnerID            string         `json:"partner_id" binding:"required"`
	ProductID            string         `json:"product_id" binding:"required"`
	OrderDate            string         `json:"order_date" binding:"required"`
	Quantity             int            `json:"quantity" binding:"required"`
	UnitPrice            string         `json:"unit_price" binding:"required"`
	ProductCostOverride  *string        `json:"product_cost_override"`
	ShippingCostOverride *string        `json:"shipping_cost_override"`
	Delivered            bool           `json:"delivered"`
	Note                 string         `json:"note"`
	Splits               []SplitRequest `json:"splits"`
}

type UpdateOrderRequest struct {
	OrderDate            *string         `json:"order_date"`
	Quantity             *int            `json:"quantity"`
	UnitPrice            *string         `json:"unit_price"`
	ProductCostOverride  *string         `json:"product_cost_override"`
	ShippingCostOverride *string         `json:"shipping_cost_override"`
	Delivered            *bool           `json:"delivered"`
	Note                 *string         `json:"note"`
	Splits               *[]SplitRequest `json:"splits"`
}

type OrderFilterRequest struct {
	PartnerID string
	ProductID string
	Delivered *bool
	Page      int
	Limit     int
}

type SplitResponse struct {
	PartnerID     string `json:"partner_id"`
	PartnerName   string `json:"partner_name,omitempty"`
	AmountPerItem string `json:"amount_per_item"`
	Total         string `json:"total"`
}

type OrderResponse struct {
	ID                   string          `json:"id"`
	OrderCode            string          `json:"order_code"`
	PartnerID            string          `json:"partner_id"`
	PartnerName          string          `json:"partner_name,omitempty"`
	ProductID            string          `json:"product_id"`
	ProductName          string          `json:"product_name,omitempty"`
	ProductKind          string          `json:"product_kind,omitempty"`
	OrderDate            string          `json:"order_date"`
	Quantity             int             `json:"quantity"`
	UnitPrice            string          `json:"unit_price"`
	ProductCostOverride  *string         `json:"product_cost_override"`
	ShippingCostOverride *string         `json:"shipping_cost_override"`
	Delivered            bool            `json:"delivered"`
	Note                 string          `json:"note"`
	Splits               []SplitResponse `json:"splits"`
	Financials           finance.Summary `json:"financials"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, tenantID, userID uuid.UUID, req CreateOrderRequest) (OrderResponse, error)
	GetOrder(ctx context.Context, tenantID uuid.UUID, id string) (OrderResponse, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID, req OrderFilterRequest) ([]OrderResponse, int64, error)
	UpdateOrder(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateOrderRequest) (OrderResponse, error)
	DeleteOrder(ctx context.Context, tenantID, userID uuid.UUID, id string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	partnerRepo repository.PartnerRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	partnerRepo repository.PartnerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		partnerRepo: partnerRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *orderService) CreateOrder(ctx context.Context, tenantID, userID uuid.UUID, req CreateOrderRequest) (OrderResponse, error) {
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid partner_id: %w", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid product_id: %w", err)
	}
	orderDate, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return OrderResponse{}, err
	}
	if req.Quantity <= 0 {
		return OrderResponse{}, errors.New("quantity must be a positive integer")
	}

	partner, err := s.partnerRepo.GetByID(ctx, tenantID, partnerID)
	if err != nil {
		return OrderResponse{}, errors.New("customer not found")
	}
	if partner.Type != model.PartnerTypeCustomer && partner.Type != model.PartnerTypeBoth {
		return OrderResponse{}, errors.New("partner is not a customer")
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return OrderResponse{}, errors.New("product not found")
	}

	rawPrice, err := parseAmount("unit_price", req.UnitPrice)
	if err != nil {
		return OrderResponse{}, err
	}
	unitPrice, err := finance.NormalizeUnitPrice(product.Kind == model.ProductKindRefund, rawPrice)
	if err != nil {
		return OrderResponse{}, err
	}

	productOverride, err := parseOptionalAmount("product_cost_override", req.ProductCostOverride)
	if err != nil {
		return OrderResponse{}, err
	}
	shippingOverride, err := parseOptionalAmount("shipping_cost_override", req.ShippingCostOverride)
	if err != nil {
		return OrderResponse{}, err
	}

	splits, err := s.buildSplits(ctx, tenantID, req.Splits)
	if err != nil {
		return OrderResponse{}, err
	}

	code := strings.TrimSpace(req.OrderCode)
	if code == "" {
		code = generateOrderCode(orderDate)
	}

	order := model.Order{
		TenantID:             tenantID,
		OrderCode:            code,
		PartnerID:            partnerID,
		ProductID:            productID,
		OrderDate:            orderDate,
		Quantity:             req.Quantity,
		UnitPrice:            unitPrice,
		ProductCostOverride:  productOverride,
		ShippingCostOverride: shippingOverride,
		Delivered:            req.Delivered,
		Note:                 req.Note,
		Splits:               splits,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionCreateOrder, order.ID.String(), code, map[string]interface{}{
			"partner_id": req.PartnerID,
			"product_id": req.ProductID,
			"quantity":   req.Quantity,
			"unit_price": unitPrice.String(),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return s.GetOrder(ctx, tenantID, order.ID.String())
}

func (s *orderService) GetOrder(ctx context.Context, tenantID uuid.UUID, id string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return OrderResponse{}, errors.New("order not found")
	}
	return s.toOrderResponse(ctx, tenantID, *order), nil
}

func (s *orderService) ListOrders(ctx context.Context, tenantID uuid.UUID, req OrderFilterRequest) ([]OrderResponse, int64, error) {
	filter := repository.OrderFilter{
		Delivered: req.Delivered,
		Page:      req.Page,
		Limit:     req.Limit,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if req.PartnerID != "" {
		id, err := uuid.Parse(req.PartnerID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid partner_id: %w", err)
		}
		filter.PartnerID = &id
	}
	if req.ProductID != "" {
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid product_id: %w", err)
		}
		filter.ProductID = &id
	}

	orders, total, err := s.orderRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, s.toOrderResponse(ctx, tenantID, o))
	}
	return result, total, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, tenantID, userID uuid.UUID, id string, req UpdateOrderRequest) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return OrderResponse{}, errors.New("order not found")
	}

	if req.OrderDate != nil {
		d, err := parseDate("order_date", *req.OrderDate)
		if err != nil {
			return OrderResponse{}, err
		}
		order.OrderDate = d
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return OrderResponse{}, errors.New("quantity must be a positive integer")
		}
		order.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		product, err := s.productRepo.GetByID(ctx, tenantID, order.ProductID)
		if err != nil {
			return OrderResponse{}, errors.New("product not found")
		}
		rawPrice, err := parseAmount("unit_price", *req.UnitPrice)
		if err != nil {
			return OrderResponse{}, err
		}
		price, err := finance.NormalizeUnitPrice(product.Kind == model.ProductKindRefund, rawPrice)
		if err != nil {
			return OrderResponse{}, err
		}
		order.UnitPrice = price
	}
	if req.ProductCostOverride != nil {
		v, err := parseOptionalAmount("product_cost_override", req.ProductCostOverride)
		if err != nil {
			return OrderResponse{}, err
		}
		order.ProductCostOverride = v
	}
	if req.ShippingCostOverride != nil {
		v, err := parseOptionalAmount("shipping_cost_override", req.ShippingCostOverride)
		if err != nil {
			return OrderResponse{}, err
		}
		order.ShippingCostOverride = v
	}
	if req.Delivered != nil {
		order.Delivered = *req.Delivered
	}
	if req.Note != nil {
		order.Note = *req.Note
	}

	var newSplits []model.PartnerSplit
	if req.Splits != nil {
		newSplits, err = s.buildSplits(ctx, tenantID, *req.Splits)
		if err != nil {
			return OrderResponse{}, err
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if req.Splits != nil {
			if err := s.orderRepo.ReplaceSplits(txCtx, order.ID, newSplits); err != nil {
				return fmt.Errorf("failed to replace splits: %w", err)
			}
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionUpdateOrder, id, order.OrderCode, nil)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return s.GetOrder(ctx, tenantID, id)
}

func (s *orderService) DeleteOrder(ctx context.Context, tenantID, userID uuid.UUID, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid order id: %w", err)
	}
	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return errors.New("order not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Delete(txCtx, tenantID, orderID); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionDeleteOrder, id, order.OrderCode, nil)
	})
}

// --- Helpers ---

func (s *orderService) buildSplits(ctx context.Context, tenantID uuid.UUID, reqs []SplitRequest) ([]model.PartnerSplit, error) {
	splits := make([]model.PartnerSplit, 0, len(reqs))
	for _, sr := range reqs {
		pid, err := uuid.Parse(sr.PartnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid split partner_id: %w", err)
		}
		if _, err := s.partnerRepo.GetByID(ctx, tenantID, pid); err != nil {
			return nil, fmt.Errorf("split partner %s not found", sr.PartnerID)
		}
		amount, err := parseAmount("amount_per_item", sr.AmountPerItem)
		if err != nil {
			return nil, err
		}
		if !amount.IsPositive() {
			return nil, errors.New("amount_per_item must be positive")
		}
		splits = append(splits, model.PartnerSplit{PartnerID: pid, AmountPerItem: amount})
	}
	return splits, nil
}

// resolveUnitCosts picks per-unit product and shipping costs for an order:
// the order's explicit override wins, then the dated cost history (customer
// rows before generic ones), then the product's defaults.
func resolveUnitCosts(ctx context.Context, productRepo repository.ProductRepository, tenantID uuid.UUID, order model.Order) (decimal.Decimal, decimal.Decimal) {
	var histProduct, histShipping *decimal.Decimal

	if order.ProductCostOverride == nil || order.ShippingCostOverride == nil {
		customerID := order.PartnerID
		if row, err := productRepo.FindEffectiveCost(ctx, tenantID, order.ProductID, &customerID, order.OrderDate); err == nil && row != nil {
			histProduct = &row.ProductCost
			histShipping = &row.ShippingCost
		} else if order.Product != nil {
			histProduct = &order.Product.DefaultProductCost
			histShipping = &order.Product.DefaultShippingCost
		}
	}

	return finance.EffectiveCost(order.ProductCostOverride, histProduct),
		finance.EffectiveCost(order.ShippingCostOverride, histShipping)
}

func (s *orderService) toOrderResponse(ctx context.Context, tenantID uuid.UUID, order model.Order) OrderResponse {
	unitProductCost, unitShippingCost := resolveUnitCosts(ctx, s.productRepo, tenantID, order)

	perItem := make([]decimal.Decimal, 0, len(order.Splits))
	for _, sp := range order.Splits {
		perItem = append(perItem, sp.AmountPerItem)
	}

	refund := order.Product != nil && order.Product.Kind == model.ProductKindRefund
	summary := finance.Compute(finance.Input{
		Quantity:         order.Quantity,
		UnitPrice:        order.UnitPrice,
		PartnerPerItem:   perItem,
		UnitProductCost:  unitProductCost,
		UnitShippingCost: unitShippingCost,
		RefundDiscount:   refund,
	})

	resp := OrderResponse{
		ID:         order.ID.String(),
		OrderCode:  order.OrderCode,
		PartnerID:  order.PartnerID.String(),
		ProductID:  order.ProductID.String(),
		OrderDate:  order.OrderDate.Format(dateLayout),
		Quantity:   order.Quantity,
		UnitPrice:  order.UnitPrice.StringFixed(2),
		Delivered:  order.Delivered,
		Note:       order.Note,
		Financials: summary,
	}

	if order.Partner != nil {
		resp.PartnerName = order.Partner.Name
	}
	if order.Product != nil {
		resp.ProductName = order.Product.Name
		resp.ProductKind = order.Product.Kind
	}
	if order.ProductCostOverride != nil {
		v := order.ProductCostOverride.StringFixed(2)
		resp.ProductCostOverride = &v
	}
	if order.ShippingCostOverride != nil {
		v := order.ShippingCostOverride.StringFixed(2)
		resp.ShippingCostOverride = &v
	}

	resp.Splits = make([]SplitResponse, 0, len(order.Splits))
	for _, sp := range order.Splits {
		sr := SplitResponse{
			PartnerID:     sp.PartnerID.String(),
			AmountPerItem: sp.AmountPerItem.StringFixed(2),
			Total:         finance.PartnerTotal(sp.AmountPerItem, order.Quantity).StringFixed(2),
		}
		if sp.Partner != nil {
			sr.PartnerName = sp.Partner.Name
		}
		resp.Splits = append(resp.Splits, sr)
	}

	return resp
}

func generateOrderCode(orderDate time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", orderDate.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
