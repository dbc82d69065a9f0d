package pricing

import (
	"testing"

	"github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
)

func TestRecompute(t *testing.T) {
	q := domain.Quotation{
		Items:        []domain.Item{{ID: "a", Quantity: 3, UnitPrice: 10, Total: 999}},
		TaxRate:      10,
		DiscountRate: 5,
		Notes:        "keep me",
	}

	out := Recompute(q)

	assert.Equal(t, 30.0, out.Items[0].Total)
	assert.Equal(t, 30.0, out.Subtotal)
	assert.InDelta(t, 3.0, out.TaxAmount, 1e-9)
	assert.InDelta(t, 1.5, out.DiscountAmount, 1e-9)
	assert.InDelta(t, 31.5, out.Total, 1e-9)
	assert.Equal(t, "keep me", out.Notes)
	assert.Equal(t, 999.0, q.Items[0].Total, "input must not be mutated")
}

func TestSubtotalSumsLineTotals(t *testing.T) {
	items := []domain.Item{
		{Quantity: 2, UnitPrice: 12.5},
		{Quantity: 1, UnitPrice: 100},
		{Quantity: 0, UnitPrice: 40},
	}
	assert.Equal(t, 125.0, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestRatesAreProportional(t *testing.T) {
	const subtotal = 240.0
	for _, rate := range []float64{1, 7.5, 16, 25} {
		assert.InDelta(t, 2*TaxAmount(subtotal, rate), TaxAmount(subtotal, 2*rate), 1e-9)
		assert.InDelta(t, 2*DiscountAmount(subtotal, rate), DiscountAmount(subtotal, 2*rate), 1e-9)
	}
}

func TestNegativeInputsAreAccepted(t *testing.T) {
	assert.Equal(t, -20.0, ItemTotal(-2, 10))
	assert.Equal(t, 90.0, Total(100, -5, 5))
}

func TestRecomputeIsIdempotent(t *testing.T) {
	q := domain.Quotation{
		Items:        []domain.Item{{Quantity: 4, UnitPrice: 2.75}, {Quantity: 1.5, UnitPrice: 3}},
		TaxRate:      8,
		DiscountRate: 2,
	}
	once := Recompute(q)
	assert.Equal(t, once, Recompute(once))
}
