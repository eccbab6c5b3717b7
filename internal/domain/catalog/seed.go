package catalog

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

//go:embed products.json
var seedJSON []byte

type productJSON struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository implements Repository over a fixed in-memory product set.
type MemoryRepository struct {
	products []Product
	byID     map[int]*Product
}

// NewMemoryRepository creates a repository over the given products,
// preserving their order for List.
func NewMemoryRepository(products []Product) *MemoryRepository {
	byID := make(map[int]*Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &MemoryRepository{products: products, byID: byID}
}

// NewBuiltinRepository creates a repository seeded with the embedded catalog.
func NewBuiltinRepository() (*MemoryRepository, error) {
	var rows []productJSON
	if err := json.Unmarshal(seedJSON, &rows); err != nil {
		return nil, errors.Wrap(err, "parse embedded catalog")
	}

	products := make([]Product, len(rows))
	for i, row := range rows {
		products[i] = Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Category:    row.Category,
			Image:       row.Image,
		}
	}
	return NewMemoryRepository(products), nil
}

// List returns all products in catalog order.
func (r *MemoryRepository) List(_ context.Context) ([]Product, error) {
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID returns a single product by its identifier, or ErrNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int) (*Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}
