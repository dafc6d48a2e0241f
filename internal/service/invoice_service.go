package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/finance"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateInvoiceRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	SideFees string `json:"side_fees"`
	Note     string `json:"note"`
}

type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method"` // CASH, TRANSFER, CARD; defaults to TRANSFER
	PaidAt string `json:"paid_at"`
	Note   string `json:"note"`
}

type InvoiceResponse struct {
	ID          string            `json:"id"`
	InvoiceNo   string            `json:"invoice_no"`
	OrderID     string            `json:"order_id"`
	OrderCode   string            `json:"order_code,omitempty"`
	Subtotal    string            `json:"subtotal"`
	SideFees    string            `json:"side_fees"`
	TotalAmount string            `json:"total_amount"`
	PaidAmount  string            `json:"paid_amount"`
	Remaining   string            `json:"remaining"`
	Status      string            `json:"status"`
	Note        string            `json:"note,omitempty"`
	Payments    []PaymentResponse `json:"payments,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

type PaymentResponse struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Method string `json:"method"`
	PaidAt string `json:"paid_at"`
	Note   string `json:"note,omitempty"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, tenantID, userID uuid.UUID, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, tenantID uuid.UUID, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, status string, page, limit int) ([]InvoiceResponse, int64, error)
	RecordPayment(ctx context.Context, tenantID, userID uuid.UUID, id string, req RecordPaymentRequest) (InvoiceResponse, error)
}

type invoiceService struct {
	repo      repository.InvoiceRepository
	orderRepo repository.OrderRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	now       func() time.Time
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		now:       time.Now,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID, userID uuid.UUID, req CreateInvoiceRequest) (InvoiceResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid order_id: %w", err)
	}

	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return InvoiceResponse{}, errors.New("order not found")
	}

	subtotal, ok := finance.OrderValue(order.Quantity, order.UnitPrice)
	if !ok {
		return InvoiceResponse{}, errors.New("order value is not computable")
	}

	sideFees := decimal.Zero
	if req.SideFees != "" {
		sideFees, err = parseAmount("side_fees", req.SideFees)
		if err != nil {
			return InvoiceResponse{}, err
		}
		if sideFees.IsNegative() {
			return InvoiceResponse{}, errors.New("side_fees must not be negative")
		}
	}

	var invoice model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoiceNo, err := s.generateInvoiceNo(txCtx)
		if err != nil {
			return err
		}

		invoice = model.Invoice{
			TenantID:    tenantID,
			InvoiceNo:   invoiceNo,
			OrderID:     orderID,
			Subtotal:    subtotal,
			SideFees:    sideFees,
			TotalAmount: subtotal.Add(sideFees),
			PaidAmount:  decimal.Zero,
			Status:      model.InvoiceStatusOpen,
			Note:        req.Note,
		}
		if err := s.repo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionCreateInvoice, invoice.ID.String(), invoiceNo, map[string]interface{}{
			"order_id":     req.OrderID,
			"total_amount": invoice.TotalAmount.String(),
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.GetInvoice(ctx, tenantID, invoice.ID.String())
}

func (s *invoiceService) GetInvoice(ctx context.Context, tenantID uuid.UUID, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.repo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return InvoiceResponse{}, errors.New("invoice not found")
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, status string, page, limit int) ([]InvoiceResponse, int64, error) {
	if status != "" && status != model.InvoiceStatusOpen && status != model.InvoiceStatusPartial && status != model.InvoiceStatusPaid {
		return nil, 0, fmt.Errorf("unknown invoice status %q", status)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	invoices, total, err := s.repo.List(ctx, tenantID, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// RecordPayment books money against the invoice and re-derives its status
// from the running paid amount. The invoice row is locked for the transaction
// so concurrent payments cannot lose updates.
func (s *invoiceService) RecordPayment(ctx context.Context, tenantID, userID uuid.UUID, id string, req RecordPaymentRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if !amount.IsPositive() {
		return InvoiceResponse{}, errors.New("amount must be positive")
	}

	method := req.Method
	if method == "" {
		method = model.PaymentMethodTransfer
	}
	if method != model.PaymentMethodCash && method != model.PaymentMethodTransfer && method != model.PaymentMethodCard {
		return InvoiceResponse{}, fmt.Errorf("unknown payment method %q", method)
	}

	paidAt := s.now()
	if req.PaidAt != "" {
		paidAt, err = time.Parse(time.RFC3339, req.PaidAt)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid paid_at %q: expected RFC3339", req.PaidAt)
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.repo.GetByIDForUpdate(txCtx, tenantID, invoiceID)
		if err != nil {
			return errors.New("invoice not found")
		}
		if invoice.Status == model.InvoiceStatusPaid {
			return errors.New("invoice is already fully paid")
		}

		payment := model.Payment{
			TenantID:  tenantID,
			InvoiceID: invoice.ID,
			Amount:    amount,
			Method:    method,
			PaidAt:    paidAt,
			Note:      req.Note,
		}
		if err := s.repo.AddPayment(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		invoice.PaidAmount = invoice.PaidAmount.Add(amount)
		invoice.Status = deriveInvoiceStatus(invoice.PaidAmount, invoice.TotalAmount)
		if err := s.repo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, tenantID, userID, model.ActionRecordPayment, id, invoice.InvoiceNo, map[string]interface{}{
			"amount": amount.String(),
			"method": method,
			"status": invoice.Status,
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.GetInvoice(ctx, tenantID, id)
}

// --- Helpers ---

// generateInvoiceNo issues INV-YYYYMMDD-NNNNN, serialized per day prefix via
// an advisory lock so concurrent creates cannot draw the same number.
func (s *invoiceService) generateInvoiceNo(ctx context.Context) (string, error) {
	prefix := "INV-" + s.now().Format("20060102") + "-"

	s.repo.LockSerialPrefix(ctx, prefix)

	count, err := s.repo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func deriveInvoiceStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return model.InvoiceStatusOpen
	case paid.LessThan(total):
		return model.InvoiceStatusPartial
	default:
		return model.InvoiceStatusPaid
	}
}

func toInvoiceResponse(invoice model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          invoice.ID.String(),
		InvoiceNo:   invoice.InvoiceNo,
		OrderID:     invoice.OrderID.String(),
		Subtotal:    invoice.Subtotal.StringFixed(2),
		SideFees:    invoice.SideFees.StringFixed(2),
		TotalAmount: invoice.TotalAmount.StringFixed(2),
		PaidAmount:  invoice.PaidAmount.StringFixed(2),
		Remaining:   invoice.TotalAmount.Sub(invoice.PaidAmount).StringFixed(2),
		Status:      invoice.Status,
		Note:        invoice.Note,
		CreatedAt:   invoice.CreatedAt.Format(time.RFC3339),
	}

	if invoice.Order != nil {
		resp.OrderCode = invoice.Order.OrderCode
	}

	for _, p := range invoice.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:     p.ID.String(),
			Amount: p.Amount.StringFixed(2),
			Method: p.Method,
			PaidAt: p.PaidAt.Format(time.RFC3339),
			Note:   p.Note,
		})
	}

	return resp
}
