// Package pricing computes derived cart totals.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shoplite/storefront/internal/domain/cart"
)

var (
	// shippingFee is the flat shipping fee applied to every order,
	// regardless of cart size. Callers must guard against computing totals
	// for an empty cart if a 5.99 total is undesired.
	shippingFee = decimal.RequireFromString("5.99")
	// taxRate is applied to the subtotal.
	taxRate = decimal.RequireFromString("0.08")
)

// Totals holds the derived amounts for a set of line items. No rounding is
// applied; presentation layers round to 2 decimal places for display only.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute derives totals from the line items. It is pure: it never mutates
// its input and identical inputs yield identical outputs.
func Compute(items []cart.LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tax := subtotal.Mul(taxRate)

	return Totals{
		Subtotal: subtotal,
		Shipping: shippingFee,
		Tax:      tax,
		Total:    subtotal.Add(shippingFee).Add(tax),
	}
}
