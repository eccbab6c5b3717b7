package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shoplite/storefront/internal/domain/cart"
)

func TestCompute_SingleItem(t *testing.T) {
	items := []cart.LineItem{
		{ID: 1, Price: decimal.RequireFromString("199.99"), Quantity: 1},
	}

	totals := Compute(items)

	// Exact, unrounded amounts.
	assert.True(t, decimal.RequireFromString("199.99").Equal(totals.Subtotal), "subtotal: %s", totals.Subtotal)
	assert.True(t, decimal.RequireFromString("5.99").Equal(totals.Shipping), "shipping: %s", totals.Shipping)
	assert.True(t, decimal.RequireFromString("15.9992").Equal(totals.Tax), "tax: %s", totals.Tax)
	assert.True(t, decimal.RequireFromString("221.9792").Equal(totals.Total), "total: %s", totals.Total)
}

func TestCompute_MultipleQuantities(t *testing.T) {
	items := []cart.LineItem{
		{ID: 1, Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{ID: 2, Price: decimal.RequireFromString("5.50"), Quantity: 3},
	}

	totals := Compute(items)

	assert.True(t, decimal.RequireFromString("36.50").Equal(totals.Subtotal))
	assert.True(t, decimal.RequireFromString("2.92").Equal(totals.Tax))
	assert.True(t, decimal.RequireFromString("45.41").Equal(totals.Total))
}

func TestCompute_EmptyCartStillChargesShipping(t *testing.T) {
	totals := Compute(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, decimal.RequireFromString("5.99").Equal(totals.Shipping))
	assert.True(t, decimal.RequireFromString("5.99").Equal(totals.Total))
}

func TestCompute_Pure(t *testing.T) {
	items := []cart.LineItem{
		{ID: 1, Name: "Yoga Mat Pro", Price: decimal.RequireFromString("49.99"), Quantity: 2},
	}
	before := make([]cart.LineItem, len(items))
	copy(before, items)

	first := Compute(items)
	second := Compute(items)

	assert.Equal(t, before, items, "input must not be mutated")
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
}
