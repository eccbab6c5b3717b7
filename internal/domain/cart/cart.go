// Package cart implements the shopping cart state machine: an ordered
// sequence of line items mirrored to durable storage on every mutation.
package cart

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shoplite/storefront/internal/analytics"
	"github.com/shoplite/storefront/internal/domain/catalog"
	"github.com/shoplite/storefront/internal/storage"
)

// LineItem is one product/quantity pairing in the cart. Name and price are
// snapshotted from the catalog at add time, not live-linked.
type LineItem struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    string
}

// Store owns the live cart sequence. Every mutation persists the full cart
// under the cart state key before updating the in-memory view, so storage and
// memory can never diverge. Operations are synchronous and serialized.
//
// Invariants: at most one line item per product id; insertion order is
// preserved; a quantity below 1 removes the line instead of being stored.
type Store struct {
	storage storage.Store
	catalog catalog.Repository
	emitter *analytics.Emitter

	mu    sync.Mutex
	items []LineItem
}

// NewStore creates an empty cart Store. Call Load to pick up state persisted
// by an earlier session.
func NewStore(st storage.Store, cat catalog.Repository, em *analytics.Emitter) *Store {
	return &Store{
		storage: st,
		catalog: cat,
		emitter: em,
	}
}

// Load replaces the in-memory cart with the persisted one. An absent state
// key yields an empty cart.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.storage.Read(ctx, storage.KeyCart)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.mu.Lock()
			s.items = nil
			s.mu.Unlock()
			return nil
		}
		return errors.Wrap(err, "read cart")
	}

	items, err := DecodeItems(data)
	if err != nil {
		return errors.Wrap(err, "decode cart")
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// AddItem adds quantity units of the product to the cart, merging into an
// existing line item when one exists. An unknown product id or non-positive
// quantity is a silent no-op. Emits an add_to_cart event valued at this
// call's delta, not the cumulative line quantity.
func (s *Store) AddItem(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return nil
	}

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "lookup product")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyItems()
	merged := false
	for i := range next {
		if next[i].ID == productID {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: quantity,
			Image:    p.Image,
		})
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.emitter.Emit(ctx, analytics.Event{
		Name: analytics.EventAddToCart,
		Payload: analytics.Payload{
			Value: p.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Items: []analytics.Item{{
				ItemID:   strconv.Itoa(p.ID),
				ItemName: p.Name,
				Price:    p.Price,
				Quantity: quantity,
			}},
		},
	})
	return nil
}

// SetQuantity sets the line item's quantity. A value below 1 removes the line
// instead. A missing line item is a silent no-op.
//
// The update event reports the magnitude of the change: quantity and value
// are always non-negative, and only the event name carries the direction.
func (s *Store) SetQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}

	old := s.items[idx].Quantity
	next := s.copyItems()
	next[idx].Quantity = quantity

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	item := next[idx]
	delta := quantity - old
	name := analytics.EventAddToCart
	if delta < 0 {
		name = analytics.EventRemoveFromCart
		delta = -delta
	}

	s.emitter.Emit(ctx, analytics.Event{
		Name: name,
		Payload: analytics.Payload{
			Value: item.Price.Mul(decimal.NewFromInt(int64(delta))),
			Items: []analytics.Item{{
				ItemID:   strconv.Itoa(item.ID),
				ItemName: item.Name,
				Price:    item.Price,
				Quantity: delta,
			}},
		},
	})
	return nil
}

// RemoveItem removes the product's line item. A missing line item is a silent
// no-op. Emits a remove_from_cart event valued at the removed line.
func (s *Store) RemoveItem(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}

	removed := s.items[idx]
	next := s.copyItems()
	next = append(next[:idx], next[idx+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.emitter.Emit(ctx, analytics.Event{
		Name: analytics.EventRemoveFromCart,
		Payload: analytics.Payload{
			Value: removed.Price.Mul(decimal.NewFromInt(int64(removed.Quantity))),
			Items: []analytics.Item{{
				ItemID:   strconv.Itoa(removed.ID),
				ItemName: removed.Name,
				Price:    removed.Price,
				Quantity: removed.Quantity,
			}},
		},
	})
	return nil
}

// Clear empties the cart. It emits no event; the purchase event is the
// checkout service's responsibility.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, nil)
}

// Items returns a snapshot copy of the cart in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyItems()
}

// ItemCount returns the sum of quantities across all line items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// commit persists next and, only on success, makes it the in-memory cart.
// Callers must hold s.mu.
func (s *Store) commit(ctx context.Context, next []LineItem) error {
	if err := s.storage.Write(ctx, storage.KeyCart, EncodeItems(next)); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	s.items = next
	return nil
}

// indexOf returns the position of the product's line item, or -1.
// Callers must hold s.mu.
func (s *Store) indexOf(productID int) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

// copyItems returns a copy of the current items. Callers must hold s.mu.
func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}
