// Package catalog defines the fixed, read-only product catalog.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Products are
// immutable; the catalog has no mutation operations.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	// Image is an opaque display token (the seed uses emoji), not a URL.
	Image string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
}
