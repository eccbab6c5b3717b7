// Package app wires the storefront components together and drives the demo
// purchase funnel.
package app

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/shoplite/storefront/internal/analytics"
	"github.com/shoplite/storefront/internal/domain/cart"
	"github.com/shoplite/storefront/internal/domain/catalog"
	"github.com/shoplite/storefront/internal/domain/checkout"
	"github.com/shoplite/storefront/internal/storage"
	"github.com/shoplite/storefront/internal/storage/bolt"
)

// Storefront bundles the wired components of one shopping session.
type Storefront struct {
	lg       *zap.Logger
	catalog  catalog.Repository
	cart     *cart.Store
	checkout *checkout.Service
	emitter  *analytics.Emitter

	// ga4 is nil when the GA4 sink is disabled.
	ga4 *analytics.GA4Sink
}

// New creates all dependencies over the given state store and reloads any
// cart persisted by an earlier session. It is the single wiring point for
// the application.
func New(ctx context.Context, cfg *Config, lg *zap.Logger, meter metric.Meter, st storage.Store) (*Storefront, error) {
	cat, err := catalog.NewBuiltinRepository()
	if err != nil {
		return nil, errors.Wrap(err, "build catalog")
	}

	var (
		sinks []analytics.Sink
		ga4   *analytics.GA4Sink
	)
	if cfg.Analytics.GA4 {
		ga4 = analytics.NewGA4Sink(lg.Named("ga4"))
		sinks = append(sinks, ga4)
	}
	if cfg.Analytics.MetaPixel {
		sinks = append(sinks, analytics.NewMetaPixelSink(lg.Named("pixel")))
	}
	if cfg.Analytics.AdsConversion {
		sinks = append(sinks, analytics.NewAdsConversionSink(lg.Named("ads")))
	}

	emitter, err := analytics.NewEmitter(lg, meter, cfg.Currency, sinks...)
	if err != nil {
		return nil, errors.Wrap(err, "create emitter")
	}

	cartStore := cart.NewStore(st, cat, emitter)
	if err := cartStore.Load(ctx); err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	return &Storefront{
		lg:       lg,
		catalog:  cat,
		cart:     cartStore,
		checkout: checkout.NewService(cartStore, st, emitter, cfg.OrderPrefix),
		emitter:  emitter,
		ga4:      ga4,
	}, nil
}

// ViewProduct looks up a product and emits a view_item event, the way opening
// a product detail page does. Returns catalog.ErrNotFound for unknown ids;
// callers fall back to the catalog view.
func (s *Storefront) ViewProduct(ctx context.Context, id int) (*catalog.Product, error) {
	p, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, analytics.Event{
		Name: analytics.EventViewItem,
		Payload: analytics.Payload{
			Value: p.Price,
			Items: []analytics.Item{{
				ItemID:   strconv.Itoa(p.ID),
				ItemName: p.Name,
				Price:    p.Price,
				Quantity: 1,
			}},
		},
	})
	return p, nil
}

// Demo walks the full purchase funnel once: browse, view, add to cart, adjust
// quantity, begin checkout, submit the order, and reload the confirmation.
func (s *Storefront) Demo(ctx context.Context) error {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	s.lg.Info("Catalog loaded", zap.Int("products", len(products)))

	viewed, err := s.ViewProduct(ctx, products[0].ID)
	if err != nil {
		return errors.Wrap(err, "view product")
	}
	s.lg.Info("Viewing product",
		zap.String("name", viewed.Name),
		zap.String("price", viewed.Price.StringFixed(2)),
	)

	if err := s.cart.AddItem(ctx, viewed.ID, 1); err != nil {
		return errors.Wrap(err, "add to cart")
	}
	if err := s.cart.AddItem(ctx, products[len(products)-1].ID, 2); err != nil {
		return errors.Wrap(err, "add to cart")
	}
	if err := s.cart.SetQuantity(ctx, viewed.ID, 2); err != nil {
		return errors.Wrap(err, "update quantity")
	}
	s.lg.Info("Cart updated", zap.Int("item_count", s.cart.ItemCount()))

	totals, err := s.checkout.BeginCheckout(ctx)
	if err != nil {
		return errors.Wrap(err, "begin checkout")
	}
	s.lg.Info("Checkout started",
		zap.String("subtotal", totals.Subtotal.StringFixed(2)),
		zap.String("shipping", totals.Shipping.StringFixed(2)),
		zap.String("tax", totals.Tax.StringFixed(2)),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	order, err := s.checkout.SubmitOrder(ctx, checkout.Form{
		Email:   "shopper@example.com",
		Name:    "Demo Shopper",
		Address: "1 Demo Street",
		City:    "Springfield",
		Zip:     "12345",
		Payment: checkout.PaymentCredit,
	})
	if err != nil {
		return errors.Wrap(err, "submit order")
	}
	s.lg.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.String("payment", order.Payment.Label()),
		zap.String("total", order.Total.StringFixed(2)),
	)

	last, err := s.checkout.LastOrder(ctx)
	if err != nil {
		return errors.Wrap(err, "load confirmation")
	}
	s.lg.Info("Confirmation",
		zap.String("order_id", last.OrderID),
		zap.Time("date", last.Date),
		zap.Int("items", len(last.Items)),
		zap.Int("cart_item_count", s.cart.ItemCount()),
	)

	if s.ga4 != nil {
		s.lg.Info("Data layer", zap.Int("events", len(s.ga4.DataLayer())))
	}
	return nil
}

// Run opens the state database, wires the storefront, and walks the demo
// funnel. It is the entrypoint body for the storefront command.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("state_path", cfg.StatePath))

	st, err := bolt.Open(cfg.StatePath)
	if err != nil {
		return errors.Wrap(err, "open state store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			lg.Error("Close state store", zap.Error(err))
		}
	}()

	sf, err := New(ctx, cfg, lg, m.MeterProvider().Meter("storefront"), st)
	if err != nil {
		return err
	}
	return sf.Demo(ctx)
}
