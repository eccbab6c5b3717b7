package checkout

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/shoplite/storefront/internal/analytics"
	"github.com/shoplite/storefront/internal/domain/cart"
	"github.com/shoplite/storefront/internal/domain/pricing"
	"github.com/shoplite/storefront/internal/storage"
)

// Service builds orders from the cart. The clock and the order id generator
// are injected so tests can pin them.
type Service struct {
	cart    *cart.Store
	storage storage.Store
	emitter *analytics.Emitter
	now     func() time.Time
	newID   func() string
}

// NewService creates a checkout Service. Order ids are generated as
// "<orderPrefix>-<uuid>".
func NewService(cartStore *cart.Store, st storage.Store, em *analytics.Emitter, orderPrefix string) *Service {
	return &Service{
		cart:    cartStore,
		storage: st,
		emitter: em,
		now:     time.Now,
		newID: func() string {
			return orderPrefix + "-" + uuid.NewString()
		},
	}
}

// BeginCheckout computes totals for the current cart and emits a
// begin_checkout event valued at the grand total. Returns ErrEmptyCart when
// there is nothing to check out.
func (s *Service) BeginCheckout(ctx context.Context) (pricing.Totals, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return pricing.Totals{}, ErrEmptyCart
	}

	totals := pricing.Compute(items)

	s.emitter.Emit(ctx, analytics.Event{
		Name: analytics.EventBeginCheckout,
		Payload: analytics.Payload{
			Value: totals.Total,
			Items: toAnalyticsItems(items),
		},
	})
	return totals, nil
}

// SubmitOrder validates the form, snapshots the cart into an immutable order,
// persists it as the single last-order slot (overwriting any previous order),
// emits a purchase event, and clears the cart. On validation or persistence
// failure neither the order slot nor the cart is touched.
func (s *Service) SubmitOrder(ctx context.Context, form Form) (*Order, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals := pricing.Compute(items)

	o := &Order{
		OrderID:  s.newID(),
		Date:     s.now(),
		Email:    form.Email,
		Name:     form.Name,
		Address:  form.Address,
		City:     form.City,
		Zip:      form.Zip,
		Payment:  form.Payment,
		Items:    items,
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Tax:      totals.Tax,
		Total:    totals.Total,
	}

	if err := s.storage.Write(ctx, storage.KeyLastOrder, EncodeOrder(o)); err != nil {
		return nil, errors.Wrap(err, "persist order")
	}

	s.emitter.Emit(ctx, analytics.Event{
		Name: analytics.EventPurchase,
		Payload: analytics.Payload{
			TransactionID: o.OrderID,
			Value:         o.Total,
			Tax:           o.Tax,
			Shipping:      o.Shipping,
			Items:         toAnalyticsItems(o.Items),
		},
	})

	if err := s.cart.Clear(ctx); err != nil {
		return nil, errors.Wrap(err, "clear cart")
	}
	return o, nil
}

// LastOrder loads the most recently placed order. Returns ErrNoOrder when the
// slot is empty.
func (s *Service) LastOrder(ctx context.Context) (*Order, error) {
	data, err := s.storage.Read(ctx, storage.KeyLastOrder)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoOrder
		}
		return nil, errors.Wrap(err, "read last order")
	}

	o, err := DecodeOrder(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode last order")
	}
	return o, nil
}

func toAnalyticsItems(items []cart.LineItem) []analytics.Item {
	out := make([]analytics.Item, len(items))
	for i, item := range items {
		out[i] = analytics.Item{
			ItemID:   strconv.Itoa(item.ID),
			ItemName: item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return out
}
