package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

func item(price, discount float64, qty int) model.CartItem {
	return model.CartItem{Product: model.Product{Price: price, Discount: discount}, Quantity: qty}
}

func TestUnitPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, UnitPrice(model.Product{Price: 100}))
	assert.Equal(t, 80.0, UnitPrice(model.Product{Price: 100, Discount: 20}))
	assert.Equal(t, 100.0, UnitPrice(model.Product{Price: 100, Discount: 0}))
}

func TestLineTotal_ClampsQuantity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 30.0, LineTotal(item(10, 0, 3)))
	assert.Equal(t, 10.0, LineTotal(item(10, 0, 0)), "quantity below 1 counts as 1")
}

func TestShipping_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subtotal float64
		want     float64
	}{
		{"zero", 0, 10},
		{"below threshold", 45, 10},
		{"just below", 49.99, 10},
		{"exactly at threshold", 50.00, 0},
		{"above threshold", 50.01, 0},
		{"well above", 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shipping(tt.subtotal))
		})
	}
}

func TestSubtotalAndTotal(t *testing.T) {
	t.Parallel()

	items := []model.CartItem{
		item(20, 0, 1),
		item(50, 50, 1), // effective 25
	}
	assert.Equal(t, 45.0, Subtotal(items))
	assert.Equal(t, 55.0, Total(items), "45 subtotal picks up the flat fee")

	items = append(items, item(5, 0, 1))
	assert.Equal(t, 50.0, Subtotal(items))
	assert.Equal(t, 50.0, Total(items), "free shipping at exactly the threshold")
}
