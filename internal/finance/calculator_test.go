package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestOrderValue(t *testing.T) {
	t.Run("positive quantity", func(t *testing.T) {
		v, ok := OrderValue(10, d("5.25"))
		require.True(t, ok)
		assert.True(t, v.Equal(d("52.50")))
	})

	t.Run("non-positive quantity is not computable", func(t *testing.T) {
		_, ok := OrderValue(0, d("5.25"))
		assert.False(t, ok)
		_, ok = OrderValue(-3, d("5.25"))
		assert.False(t, ok)
	})
}

func TestPartnerTotal(t *testing.T) {
	assert.True(t, PartnerTotal(d("1.50"), 10).Equal(d("15.00")))
	assert.True(t, PartnerTotal(d("0"), 10).IsZero())
	assert.True(t, PartnerTotal(d("-1.50"), 10).IsZero())
	assert.True(t, PartnerTotal(d("1.50"), 0).IsZero())
}

func TestProfitPercent(t *testing.T) {
	assert.True(t, ProfitPercent(d("39.00"), d("52.50")).Sub(d("74.285714")).Abs().LessThan(d("0.001")))
	assert.True(t, ProfitPercent(d("10"), decimal.Zero).IsZero())
	assert.True(t, ProfitPercent(d("10"), d("-5")).IsZero())
}

func TestNormalizeUnitPrice(t *testing.T) {
	t.Run("refund forces negative", func(t *testing.T) {
		p, err := NormalizeUnitPrice(true, d("3.50"))
		require.NoError(t, err)
		assert.True(t, p.Equal(d("-3.50")))

		p, err = NormalizeUnitPrice(true, d("-3.50"))
		require.NoError(t, err)
		assert.True(t, p.Equal(d("-3.50")))
	})

	t.Run("refund rejects zero", func(t *testing.T) {
		_, err := NormalizeUnitPrice(true, decimal.Zero)
		assert.ErrorIs(t, err, ErrRefundPriceZero)
	})

	t.Run("standard requires strictly positive", func(t *testing.T) {
		_, err := NormalizeUnitPrice(false, d("-1.00"))
		assert.ErrorIs(t, err, ErrNonPositivePrice)
		_, err = NormalizeUnitPrice(false, decimal.Zero)
		assert.ErrorIs(t, err, ErrNonPositivePrice)

		p, err := NormalizeUnitPrice(false, d("2.00"))
		require.NoError(t, err)
		assert.True(t, p.Equal(d("2.00")))
	})
}

func TestEffectiveCost(t *testing.T) {
	override := d("2.00")
	historical := d("1.25")

	assert.True(t, EffectiveCost(&override, &historical).Equal(d("2.00")))
	assert.True(t, EffectiveCost(nil, &historical).Equal(d("1.25")))
	assert.True(t, EffectiveCost(nil, nil).IsZero())
}

func TestCompute(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		// qty=10, unitPrice=5.25, productCost=1.00, shippingCost=0.35, no partners
		s := Compute(Input{
			Quantity:         10,
			UnitPrice:        d("5.25"),
			UnitProductCost:  d("1.00"),
			UnitShippingCost: d("0.35"),
		})
		require.True(t, s.Computable)
		assert.True(t, s.OrderValue.Equal(d("52.50")))
		assert.True(t, s.Profit.Equal(d("39.00")))
		assert.True(t, s.ProfitPercent.Sub(d("74.285714")).Abs().LessThan(d("0.001")))
	})

	t.Run("partner splits reduce profit", func(t *testing.T) {
		s := Compute(Input{
			Quantity:       10,
			UnitPrice:      d("5.25"),
			PartnerPerItem: []decimal.Decimal{d("0.50"), d("0.25")},
		})
		require.True(t, s.Computable)
		assert.True(t, s.PartnerTotal.Equal(d("7.50")))
		assert.True(t, s.Profit.Equal(d("45.00")))
	})

	t.Run("refund order suppresses profit", func(t *testing.T) {
		s := Compute(Input{
			Quantity:       2,
			UnitPrice:      d("-3.50"),
			RefundDiscount: true,
		})
		require.True(t, s.Computable)
		assert.True(t, s.ProfitSuppress)
		assert.True(t, s.Profit.IsZero())
		assert.True(t, s.OrderValue.Equal(d("-7.00")))
	})

	t.Run("zero quantity not computable", func(t *testing.T) {
		s := Compute(Input{Quantity: 0, UnitPrice: d("5.25")})
		assert.False(t, s.Computable)
	})
}
