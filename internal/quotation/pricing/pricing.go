// Package pricing derives quotation money fields from items and rates.
// All functions are pure and apply no rounding; formatting rounds to cents.
package pricing

import "github.com/dovepeak/quotemaster/internal/quotation/domain"

func ItemTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

func Subtotal(items []domain.Item) float64 {
	var sum float64
	for _, item := range items {
		sum += ItemTotal(item.Quantity, item.UnitPrice)
	}
	return sum
}

func TaxAmount(subtotal, taxRate float64) float64 {
	return subtotal * taxRate / 100
}

func DiscountAmount(subtotal, discountRate float64) float64 {
	return subtotal * discountRate / 100
}

func Total(subtotal, taxAmount, discountAmount float64) float64 {
	return subtotal + taxAmount - discountAmount
}

// Recompute returns a copy of q with every item total and the four derived
// money fields overwritten. Nothing else changes.
func Recompute(q domain.Quotation) domain.Quotation {
	out := q.Clone()
	for i := range out.Items {
		out.Items[i].Total = ItemTotal(out.Items[i].Quantity, out.Items[i].UnitPrice)
	}
	out.Subtotal = Subtotal(out.Items)
	out.TaxAmount = TaxAmount(out.Subtotal, out.TaxRate)
	out.DiscountAmount = DiscountAmount(out.Subtotal, out.DiscountRate)
	out.Total = Total(out.Subtotal, out.TaxAmount, out.DiscountAmount)
	return out
}
