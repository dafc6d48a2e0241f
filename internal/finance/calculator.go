// Package finance derives order value, partner split totals, profit and
// profit percent from an order's raw figures. Nothing here touches the
// database; the order service feeds it quantities, prices and resolved costs
// and stores none of the outputs.
package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrRefundPriceZero  = errors.New("refund/discount unit price must be non-zero")
	ErrNonPositivePrice = errors.New("unit price must be strictly positive")
)

// OrderValue is qty * unitPrice. ok is false when qty is not a positive
// integer; callers must treat that as "not computable" and suppress the
// derived figures rather than display garbage.
func OrderValue(qty int, unitPrice decimal.Decimal) (decimal.Decimal, bool) {
	if qty <= 0 {
		return decimal.Zero, false
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))), true
}

// PartnerTotal is amountPerItem * qty when both are positive, else zero.
func PartnerTotal(amountPerItem decimal.Decimal, qty int) decimal.Decimal {
	if amountPerItem.IsPositive() && qty > 0 {
		return amountPerItem.Mul(decimal.NewFromInt(int64(qty)))
	}
	return decimal.Zero
}

// Profit is orderValue minus partner totals, product cost and shipping cost.
// Only meaningful when orderValue > 0.
func Profit(orderValue decimal.Decimal, partnerTotals []decimal.Decimal, productCostTotal, shippingCostTotal decimal.Decimal) decimal.Decimal {
	p := orderValue.Sub(productCostTotal).Sub(shippingCostTotal)
	for _, t := range partnerTotals {
		p = p.Sub(t)
	}
	return p
}

// ProfitPercent is profit/orderValue*100, or zero when orderValue <= 0.
func ProfitPercent(profit, orderValue decimal.Decimal) decimal.Decimal {
	if !orderValue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(orderValue).Mul(decimal.NewFromInt(100))
}

// NormalizeUnitPrice applies the price sign rule. For the Refund/Discount
// product the stored price is always strictly negative regardless of the sign
// the caller submitted; every other product requires a strictly positive
// price.
func NormalizeUnitPrice(refund bool, price decimal.Decimal) (decimal.Decimal, error) {
	if refund {
		if price.IsZero() {
			return decimal.Zero, ErrRefundPriceZero
		}
		return price.Abs().Neg(), nil
	}
	if !price.IsPositive() {
		return decimal.Zero, ErrNonPositivePrice
	}
	return price, nil
}

// EffectiveCost resolves a per-unit cost: an explicit override wins over the
// historical default; absence of both yields zero.
func EffectiveCost(override, historical *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if historical != nil {
		return *historical
	}
	return decimal.Zero
}

// Summary carries every derived figure for one order.
type Summary struct {
	OrderValue     decimal.Decimal `json:"order_value"`
	PartnerTotal   decimal.Decimal `json:"partner_total"`
	ProductCost    decimal.Decimal `json:"product_cost"`    // per-order total
	ShippingCost   decimal.Decimal `json:"shipping_cost"`   // per-order total
	Profit         decimal.Decimal `json:"profit"`
	ProfitPercent  decimal.Decimal `json:"profit_percent"`
	ProfitSuppress bool            `json:"profit_suppressed"` // true for Refund/Discount orders
	Computable     bool            `json:"computable"`
}

// Input is the raw material for a Summary.
type Input struct {
	Quantity         int
	UnitPrice        decimal.Decimal
	PartnerPerItem   []decimal.Decimal // one per split partner
	UnitProductCost  decimal.Decimal
	UnitShippingCost decimal.Decimal
	RefundDiscount   bool
}

// Compute derives the full financial summary for one order. When the order
// value is not computable, only Computable=false is reported. Profit figures
// are zeroed and flagged suppressed for Refund/Discount orders.
func Compute(in Input) Summary {
	value, ok := OrderValue(in.Quantity, in.UnitPrice)
	if !ok {
		return Summary{Computable: false}
	}

	qty := decimal.NewFromInt(int64(in.Quantity))
	partnerTotals := make([]decimal.Decimal, 0, len(in.PartnerPerItem))
	partnerSum := decimal.Zero
	for _, per := range in.PartnerPerItem {
		t := PartnerTotal(per, in.Quantity)
		partnerTotals = append(partnerTotals, t)
		partnerSum = partnerSum.Add(t)
	}

	productTotal := in.UnitProductCost.Mul(qty)
	shippingTotal := in.UnitShippingCost.Mul(qty)

	s := Summary{
		OrderValue:   value,
		PartnerTotal: partnerSum,
		ProductCost:  productTotal,
		ShippingCost: shippingTotal,
		Computable:   true,
	}

	if in.RefundDiscount {
		s.ProfitSuppress = true
		return s
	}

	s.Profit = Profit(value, partnerTotals, productTotal, shippingTotal)
	s.ProfitPercent = ProfitPercent(s.Profit, value)
	return s
}
