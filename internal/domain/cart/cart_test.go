package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/shoplite/storefront/internal/analytics"
	"github.com/shoplite/storefront/internal/domain/catalog"
	"github.com/shoplite/storefront/internal/storage"
)

// --- Mock implementations ---

type failingStore struct {
	inner    storage.Store
	writeErr error
}

func (s *failingStore) Read(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Read(ctx, key)
}

func (s *failingStore) Write(ctx context.Context, key string, data []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.inner.Write(ctx, key, data)
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// --- Helpers ---

func newTestCatalog() *catalog.MemoryRepository {
	return catalog.NewMemoryRepository([]catalog.Product{
		{ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("199.99"), Category: "Electronics", Image: "🎧"},
		{ID: 2, Name: "Smart Fitness Watch", Price: decimal.RequireFromString("299.99"), Category: "Electronics", Image: "⌚"},
		{ID: 3, Name: "Organic Coffee Set", Price: decimal.RequireFromString("34.99"), Category: "Food & Beverage", Image: "☕"},
	})
}

func newTestEmitter(t *testing.T, sinks ...analytics.Sink) *analytics.Emitter {
	t.Helper()
	em, err := analytics.NewEmitter(zap.NewNop(), noop.NewMeterProvider().Meter("test"), "USD", sinks...)
	require.NoError(t, err)
	return em
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore, *analytics.CaptureSink) {
	t.Helper()
	st := storage.NewMemoryStore()
	capture := analytics.NewCaptureSink(nil)
	s := NewStore(st, newTestCatalog(), newTestEmitter(t, capture))
	return s, st, capture
}

// --- Tests ---

func TestAddItem_Accumulates(t *testing.T) {
	s, _, capture := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 1, 1))
	require.NoError(t, s.AddItem(ctx, 1, 2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Wireless Headphones", items[0].Name)

	// Each call reports its own delta, not the cumulative quantity.
	events := capture.Events()
	require.Len(t, events, 2)
	assert.Equal(t, analytics.EventAddToCart, events[0].Name)
	assert.True(t, decimal.RequireFromString("199.99").Equal(events[0].Payload.Value))
	assert.Equal(t, 1, events[0].Payload.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("399.98").Equal(events[1].Payload.Value))
	assert.Equal(t, 2, events[1].Payload.Items[0].Quantity)
	assert.Equal(t, "USD", events[0].Payload.Currency)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	s, st, capture := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 999, 1))

	assert.Empty(t, s.Items())
	assert.Empty(t, capture.Events())

	_, err := st.Read(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddItem_NonPositiveQuantity(t *testing.T) {
	s, _, capture := newTestStore(t)

	require.NoError(t, s.AddItem(context.Background(), 1, 0))

	assert.Empty(t, s.Items())
	assert.Empty(t, capture.Events())
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 2, 1))
	require.NoError(t, s.AddItem(ctx, 1, 1))
	require.NoError(t, s.AddItem(ctx, 2, 1))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, 1, items[1].ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestSetQuantity_Increase(t *testing.T) {
	s, _, capture := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 3, 1))
	require.NoError(t, s.SetQuantity(ctx, 3, 4))

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 4, s.Items()[0].Quantity)

	events := capture.Events()
	require.Len(t, events, 2)
	assert.Equal(t, analytics.EventAddToCart, events[1].Name)
	assert.Equal(t, 3, events[1].Payload.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("104.97").Equal(events[1].Payload.Value))
}

func TestSetQuantity_DecreaseReportsMagnitude(t *testing.T) {
	s, _, capture := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 3, 5))
	require.NoError(t, s.SetQuantity(ctx, 3, 2))

	assert.Equal(t, 2, s.Items()[0].Quantity)

	// Direction is carried by the event name only; value stays non-negative.
	events := capture.Events()
	require.Len(t, events, 2)
	assert.Equal(t, analytics.EventRemoveFromCart, events[1].Name)
	assert.Equal(t, 3, events[1].Payload.Items[0].Quantity)
	assert.True(t, events[1].Payload.Value.IsPositive())
	assert.True(t, decimal.RequireFromString("104.97").Equal(events[1].Payload.Value))
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 1, 2))
	require.NoError(t, s.SetQuantity(ctx, 1, 0))

	assert.Empty(t, s.Items())
}

func TestSetQuantity_ZeroAndRemoveEquivalent(t *testing.T) {
	ctx := context.Background()

	a, _, _ := newTestStore(t)
	require.NoError(t, a.AddItem(ctx, 1, 2))
	require.NoError(t, a.SetQuantity(ctx, 1, 0))

	b, _, _ := newTestStore(t)
	require.NoError(t, b.AddItem(ctx, 1, 2))
	require.NoError(t, b.RemoveItem(ctx, 1))

	assert.Equal(t, a.Items(), b.Items())
	assert.Equal(t, 0, a.ItemCount())
	assert.Equal(t, 0, b.ItemCount())
}

func TestSetQuantity_MissingLine(t *testing.T) {
	s, _, capture := newTestStore(t)

	require.NoError(t, s.SetQuantity(context.Background(), 1, 5))

	assert.Empty(t, s.Items())
	assert.Empty(t, capture.Events())
}

func TestRemoveItem(t *testing.T) {
	s, _, capture := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 1, 2))
	require.NoError(t, s.AddItem(ctx, 2, 1))
	require.NoError(t, s.RemoveItem(ctx, 1))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)

	events := capture.Events()
	require.Len(t, events, 3)
	assert.Equal(t, analytics.EventRemoveFromCart, events[2].Name)
	// Valued at price × quantity at time of removal.
	assert.True(t, decimal.RequireFromString("399.98").Equal(events[2].Payload.Value))
	assert.Equal(t, 2, events[2].Payload.Items[0].Quantity)
}

func TestRemoveItem_Missing(t *testing.T) {
	s, _, capture := newTestStore(t)

	require.NoError(t, s.RemoveItem(context.Background(), 42))

	assert.Empty(t, capture.Events())
}

func TestClear(t *testing.T) {
	s, st, capture := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 1, 1))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())

	// Clear persists the empty cart but emits no event of its own.
	data, err := st.Read(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
	assert.Len(t, capture.Events(), 1)
}

func TestItemCount(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 1, 2))
	require.NoError(t, s.AddItem(ctx, 2, 3))

	assert.Equal(t, 5, s.ItemCount())
}

func TestLoad_RoundTrip(t *testing.T) {
	st := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewStore(st, newTestCatalog(), newTestEmitter(t))
	require.NoError(t, first.AddItem(ctx, 2, 1))
	require.NoError(t, first.AddItem(ctx, 1, 3))

	second := NewStore(st, newTestCatalog(), newTestEmitter(t))
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, 4, second.ItemCount())
}

func TestLoad_EmptyWhenAbsent(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Load(context.Background()))

	assert.Empty(t, s.Items())
}

func TestMutation_StorageFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemoryStore()
	fs := &failingStore{inner: inner}
	capture := analytics.NewCaptureSink(nil)
	s := NewStore(fs, newTestCatalog(), newTestEmitter(t, capture))

	require.NoError(t, s.AddItem(ctx, 1, 2))

	fs.writeErr = errors.New("disk full")
	require.Error(t, s.AddItem(ctx, 2, 1))
	require.Error(t, s.SetQuantity(ctx, 1, 5))

	// In-memory state still matches the last successful persist.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)

	data, err := inner.Read(ctx, storage.KeyCart)
	require.NoError(t, err)
	decoded, err := DecodeItems(data)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)

	// Failed mutations emit nothing.
	assert.Len(t, capture.Events(), 1)
}

func TestItems_ReturnsCopy(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, 1, 1))

	snapshot := s.Items()
	snapshot[0].Quantity = 99

	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestEncodeItems_Shape(t *testing.T) {
	data := EncodeItems([]LineItem{{
		ID:       1,
		Name:     "Wireless Headphones",
		Price:    decimal.RequireFromString("199.99"),
		Quantity: 2,
		Image:    "🎧",
	}})

	assert.JSONEq(t,
		`[{"id":1,"name":"Wireless Headphones","price":199.99,"quantity":2,"image":"🎧"}]`,
		string(data),
	)
}

func TestDecodeItems_RoundTrip(t *testing.T) {
	items := []LineItem{
		{ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("199.99"), Quantity: 2, Image: "🎧"},
		{ID: 3, Name: "Organic Coffee Set", Price: decimal.RequireFromString("34.99"), Quantity: 1, Image: "☕"},
	}

	decoded, err := DecodeItems(EncodeItems(items))
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}
