// Package pricing implements the money math shared by the cart and checkout
// summaries so both surfaces always agree.
package pricing

import "github.com/gmzseverr/bazaarx-client/internal/model"

// Free shipping starts at this subtotal; below it a flat fee applies.
// Must match the backend's shipping logic.
const (
	FreeShippingThreshold = 50.0
	FlatShippingFee       = 10.0
)

// UnitPrice returns the effective price of one unit after the discount percent.
func UnitPrice(p model.Product) float64 {
	if p.Discount > 0 {
		return p.Price - p.Price*p.Discount/100
	}
	return p.Price
}

// LineTotal returns the effective price of a cart line.
func LineTotal(it model.CartItem) float64 {
	q := it.Quantity
	if q < 1 {
		q = 1
	}
	return UnitPrice(it.Product) * float64(q)
}

// Subtotal sums effective line totals over the cart.
func Subtotal(items []model.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += LineTotal(it)
	}
	return sum
}

// Shipping applies the threshold rule: free at or above the threshold.
func Shipping(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Total is subtotal plus shipping.
func Total(items []model.CartItem) float64 {
	s := Subtotal(items)
	return s + Shipping(s)
}
