// Package checkout builds immutable orders from the cart and buyer-supplied
// form fields, and manages the single last-order state slot.
package checkout

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shoplite/storefront/internal/domain/cart"
)

// Sentinel errors.
var (
	// ErrNoOrder is returned when no order has been placed yet; callers
	// redirect to a safe default view.
	ErrNoOrder = errors.New("no order placed")
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError indicates a missing required checkout field. Submission is
// aborted and nothing is persisted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// PaymentMethod enumerates the supported payment selections.
type PaymentMethod string

const (
	PaymentCredit    PaymentMethod = "credit"
	PaymentPayPal    PaymentMethod = "paypal"
	PaymentGooglePay PaymentMethod = "google-pay"
)

// Valid reports whether the method is one of the recognized values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCredit, PaymentPayPal, PaymentGooglePay:
		return true
	}
	return false
}

// Label returns the display name for the method, falling back to the raw
// value for unrecognized methods.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCredit:
		return "Credit Card"
	case PaymentPayPal:
		return "PayPal"
	case PaymentGooglePay:
		return "Google Pay"
	}
	return string(m)
}

// Form holds the buyer-supplied checkout fields.
type Form struct {
	Email   string
	Name    string
	Address string
	City    string
	Zip     string
	Payment PaymentMethod
}

// validate checks required fields in form order. The payment field is chosen
// through a required selection control, so it is checked for validity but not
// for presence.
func (f Form) validate() error {
	required := []struct {
		field, value string
	}{
		{"email", f.Email},
		{"name", f.Name},
		{"address", f.Address},
		{"city", f.City},
		{"zip", f.Zip},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field}
		}
	}
	if f.Payment != "" && !f.Payment.Valid() {
		return &ValidationError{Field: "payment"}
	}
	return nil
}

// Order is an immutable record of a completed checkout. Items is a deep
// snapshot of the cart at submit time; later cart mutations cannot alter it.
type Order struct {
	OrderID string
	Date    time.Time

	Email   string
	Name    string
	Address string
	City    string
	Zip     string
	Payment PaymentMethod

	Items []cart.LineItem

	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}
