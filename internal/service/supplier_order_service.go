package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/delivery"
	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateSupplierOrderRequest struct {
	OrderCode  string `json:"order_code"` // generated when empty
	SupplierID string `json:"supplier_id" binding:"required"`
	ProductID  string `json:"product_id" binding:"required"`
	OrderDate  string `json:"order_date" binding:"required"`
	TotalQty   int    `json:"total_qty" binding:"required"`
	UnitCost   string `json:"unit_cost" binding:"required"`
	Note       string `json:"note"`
}

type ReceiveDeliveryRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Note     string `json:"note"`
}

type PinStatusRequest struct {
	// Status pins an explicit delivery status; empty clears the pin so the
	// counters take over again.
	Status string `json:"status"`
}

type DeliveryResponse struct {
	ID             string `json:"id"`
	Quantity       int    `json:"quantity"`
	DeliveredAfter int    `json:"delivered_after"`
	ReceivedAt     string `json:"received_at"`
	Note           string `json:"note,omitempty"`
}

type SupplierOrderResponse struct {
	ID             string             `json:"id"`
	OrderCode      string             `json:"order_code"`
	SupplierID     string             `json:"supplier_id"`
	SupplierName   string             `json:"supplier_name,omitempty"`
	ProductID      string             `json:"product_id"`
	ProductName    string             `json:"product_name,omitempty"`
	OrderDate      string             `json:"order_date"`
	TotalQty       int                `json:"total_qty"`
	DeliveredQty   int                `json:"delivered_qty"`
	UnitCost       string             `json:"unit_cost"`
	TotalCost      string             `json:"total_cost"`
	Status         delivery.Status    `json:"status"`
	ExplicitStatus *string            `json:"explicit_status,omitempty"`
	Note           string             `json:"note,omitempty"`
	Deliveries     []DeliveryResponse `json:"deliveries,omitempty"`
}

// --- Interface ---

type SupplierOrderService interface {
	CreateSupplierOrder(ctx context.Context, tenantID, userID uuid.UUID, req CreateSupplierOrderRequest) (SupplierOrderResponse, error)
	GetSupplierOrder(ctx context.Context, tenantID uuid.UUID, id string) (SupplierOrderResponse, error)
	ListSupplierOrders(ctx context.Context, tenantID uuid.UUID, supplierID string, page, limit int) ([]SupplierOrderResponse, int64, error)
	ReceiveDelivery(ctx context.Context, tenantID, userID uuid.UUID, id string, req ReceiveDeliveryRequest) (SupplierOrderResponse, error)
	PinStatus(ctx context.Context, tenantID, userID uuid.UUID, id string, req PinStatusRequest) (SupplierOrderResponse, error)
	DeleteSupplierOrder(ctx context.Context, tenantID, userID uuid.UUID, id string) error
}

type supplierOrderService struct {
	repo        repository.SupplierOrderRepository
	partnerRepo repository.PartnerRepository
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
	now         func() time.Time
}

func NewSupplierOrderService(
	repo repository.SupplierOrderRepository,
	partnerRepo repository.PartnerRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) SupplierOrderService {
	return &supplierOrderService{
		repo:        repo,
		partnerRepo: partnerRepo,
		productRepo: productRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *supplierOrderService) CreateSupplierOrder(ctx context.Context, tenantID, userID uuid.UUID, req CreateSupplierOrderRequest) (SupplierOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return SupplierOrderResponse{}, fmt.Errorf("invalid supplier_id: %w", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return SupplierOrderResponse{}, fmt.Errorf("invalid product_id: %w", err)
	}
	orderDate, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return SupplierOrderResponse{}, err
	}
	if req.TotalQty <= 0 {
		return SupplierOrderResponse{}, errors.New("total_qty must be a positive integer")
	}
	unitCost, err := parseAmount("unit_cost", req.UnitCost)
	if err != nil {
		return SupplierOrderResponse{}, err
	}
	if unitCost.IsNegative() {
		return SupplierOrderResponse{}, errors.New("unit_cost must not be negative")
	}

	supplier, err := s.partnerRepo.GetByID(ctx, tenantID, supplierID)
	if err != nil {
		return SupplierOrderResponse{}, errors.New("supplier not found")
	}
	if supplier.Type != model.PartnerTypeSupplier && supplier.Type != model.PartnerTypeBoth {
		return SupplierOrderResponse{}, errors.New("partner is not a supplier")
	}
	if _, err := s.productRepo.GetByID(ctx, tenantID, productID); err != nil {
		return SupplierOrderResponse{}, errors.New("product not found")
	}

	code := strings.TrimSpace(req.OrderCode)
	if code == "" {
		code = fmt.Sprintf("SUP-%s-%s", orderDate.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
	}

	order := model.SupplierOrder{
		TenantID:   tenantID,
		OrderCode:  code,
		SupplierID: supplierID,
		ProductID:  productID,
		OrderDate:  orderDate,
		TotalQty:   req.TotalQty,
		UnitCost:   unitCost,
		Note:       req.Note,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create supplier order: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionCreateSupplierOrder, order.ID.String(), code, map[string]interface{}{
			"supplier_id": req.SupplierID,
			"product_id":  req.ProductID,
			"total_qty":   req.TotalQty,
		})
	})
	if err != nil {
		return SupplierOrderResponse{}, err
	}

	return toSupplierOrderResponse(order), nil
}

func (s *supplierOrderService) GetSupplierOrder(ctx context.Context, tenantID uuid.UUID, id string) (SupplierOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return SupplierOrderResponse{}, fmt.Errorf("invalid supplier order id: %w", err)
	}
	order, err := s.repo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return SupplierOrderResponse{}, errors.New("supplier order not found")
	}
	return toSupplierOrderResponse(*order), nil
}

func (s *supplierOrderService) ListSupplierOrders(ctx context.Context, tenantID uuid.UUID, supplierID string, page, limit int) ([]SupplierOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var sid *uuid.UUID
	if supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid supplier_id: %w", err)
		}
		sid = &id
	}

	orders, total, err := s.repo.List(ctx, tenantID, sid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list supplier orders: %w", err)
	}

	result := make([]SupplierOrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toSupplierOrderResponse(o))
	}
	return result, total, nil
}

// ReceiveDelivery books one shipment against the order: the row is locked for
// the duration of the transaction so concurrent receipts cannot lose counter
// updates.
func (s *supplierOrderService) ReceiveDelivery(ctx context.Context, tenantID, userID uuid.UUID, id string, req ReceiveDeliveryRequest) (SupplierOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return SupplierOrderResponse{}, fmt.Errorf("invalid supplier order id: %w", err)
	}
	if req.Quantity <= 0 {
		return SupplierOrderResponse{}, errors.New("quantity must be a positive integer")
	}

	var updated model.SupplierOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByIDForUpdate(txCtx, tenantID, orderID)
		if err != nil {
			return errors.New("supplier order not found")
		}

		order.DeliveredQty += req.Quantity
		receipt := model.SupplierDelivery{
			SupplierOrderID: order.ID,
			Quantity:        req.Quantity,
			DeliveredAfter:  order.DeliveredQty,
			ReceivedAt:      s.now(),
			Note:            req.Note,
		}

		if err := s.repo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update delivered quantity: %w", err)
		}
		if err := s.repo.AddDelivery(txCtx, &receipt); err != nil {
			return fmt.Errorf("failed to record delivery: %w", err)
		}
		if err := writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionReceiveDelivery, id, order.OrderCode, map[string]interface{}{
			"quantity":      req.Quantity,
			"delivered_qty": order.DeliveredQty,
			"total_qty":     order.TotalQty,
		}); err != nil {
			return err
		}

		updated = *order
		return nil
	})
	if err != nil {
		return SupplierOrderResponse{}, err
	}

	resp, err := s.GetSupplierOrder(ctx, tenantID, id)
	if err != nil {
		resp = toSupplierOrderResponse(updated)
	}

	s.hub.Publish(ws.EventDeliveryReceived, map[string]interface{}{
		"supplier_order_id": id,
		"order_code":        updated.OrderCode,
		"delivered_qty":     updated.DeliveredQty,
		"total_qty":         updated.TotalQty,
		"status":            string(resp.Status),
	})

	return resp, nil
}

// PinStatus sets or clears the explicit delivery status. A pinned status wins
// over the quantity counters until cleared.
func (s *supplierOrderService) PinStatus(ctx context.Context, tenantID, userID uuid.UUID, id string, req PinStatusRequest) (SupplierOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return SupplierOrderResponse{}, fmt.Errorf("invalid supplier order id: %w", err)
	}

	order, err := s.repo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return SupplierOrderResponse{}, errors.New("supplier order not found")
	}

	if req.Status == "" {
		order.ExplicitStatus = nil
	} else {
		status, err := delivery.ParseStatus(req.Status)
		if err != nil {
			return SupplierOrderResponse{}, err
		}
		pinned := string(status)
		order.ExplicitStatus = &pinned
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update supplier order: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionPinDeliveryStatus, id, order.OrderCode, map[string]interface{}{
			"status": req.Status,
		})
	})
	if err != nil {
		return SupplierOrderResponse{}, err
	}

	return s.GetSupplierOrder(ctx, tenantID, id)
}

func (s *supplierOrderService) DeleteSupplierOrder(ctx context.Context, tenantID, userID uuid.UUID, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid supplier order id: %w", err)
	}
	order, err := s.repo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return errors.New("supplier order not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, tenantID, orderID); err != nil {
			return fmt.Errorf("failed to delete supplier order: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionDeleteSupplierOrder, id, order.OrderCode, nil)
	})
}

// --- Helpers ---

func toSupplierOrderResponse(order model.SupplierOrder) SupplierOrderResponse {
	resp := SupplierOrderResponse{
		ID:             order.ID.String(),
		OrderCode:      order.OrderCode,
		SupplierID:     order.SupplierID.String(),
		ProductID:      order.ProductID.String(),
		OrderDate:      order.OrderDate.Format(dateLayout),
		TotalQty:       order.TotalQty,
		DeliveredQty:   order.DeliveredQty,
		UnitCost:       order.UnitCost.StringFixed(2),
		TotalCost:      order.UnitCost.Mul(decimal.NewFromInt(int64(order.TotalQty))).StringFixed(2),
		Status:         delivery.Resolve(order.ExplicitStatus, order.DeliveredQty, order.TotalQty, false),
		ExplicitStatus: order.ExplicitStatus,
		Note:           order.Note,
	}

	if order.Supplier != nil {
		resp.SupplierName = order.Supplier.Name
	}
	if order.Product != nil {
		resp.ProductName = order.Product.Name
	}

	for _, d := range order.Deliveries {
		resp.Deliveries = append(resp.Deliveries, DeliveryResponse{
			ID:             d.ID.String(),
			Quantity:       d.Quantity,
			DeliveredAfter: d.DeliveredAfter,
			ReceivedAt:     d.ReceivedAt.Format(time.RFC3339),
			Note:           d.Note,
		})
	}

	return resp
}
