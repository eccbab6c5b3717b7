package analytics

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var (
	_ Sink = (*GA4Sink)(nil)
	_ Sink = (*MetaPixelSink)(nil)
	_ Sink = (*AdsConversionSink)(nil)
	_ Sink = (*CaptureSink)(nil)
)

// GA4Sink is the generic structured-event sink. It logs each event and pushes
// it onto an in-process data layer, the way a tag manager consumes
// window.dataLayer pushes.
type GA4Sink struct {
	lg *zap.Logger

	mu        sync.Mutex
	dataLayer []Event
}

// NewGA4Sink creates a GA4Sink logging through lg.
func NewGA4Sink(lg *zap.Logger) *GA4Sink {
	return &GA4Sink{lg: lg}
}

func (s *GA4Sink) Name() string { return "ga4" }

func (s *GA4Sink) Send(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("event", ev.Name),
		zap.String("currency", ev.Payload.Currency),
		zap.String("value", ev.Payload.Value.String()),
		zap.Int("items", len(ev.Payload.Items)),
	}
	if ev.Payload.TransactionID != "" {
		fields = append(fields,
			zap.String("transaction_id", ev.Payload.TransactionID),
			zap.String("tax", ev.Payload.Tax.String()),
			zap.String("shipping", ev.Payload.Shipping.String()),
		)
	}
	s.lg.Info("gtag event", fields...)

	s.mu.Lock()
	s.dataLayer = append(s.dataLayer, ev)
	s.mu.Unlock()
	return nil
}

// DataLayer returns a copy of all events pushed so far, in order.
func (s *GA4Sink) DataLayer() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.dataLayer))
	copy(out, s.dataLayer)
	return out
}

// pixelEvents maps GA4 event names to their Meta pixel counterparts. Events
// without a mapping (remove_from_cart) are not reported to the pixel.
var pixelEvents = map[string]string{
	EventViewItem:      "ViewContent",
	EventAddToCart:     "AddToCart",
	EventBeginCheckout: "InitiateCheckout",
	EventPurchase:      "Purchase",
}

// MetaPixelSink is the pixel-style conversion sink. It translates GA4 event
// names and payload fields into the pixel vocabulary.
type MetaPixelSink struct {
	lg *zap.Logger
}

// NewMetaPixelSink creates a MetaPixelSink logging through lg.
func NewMetaPixelSink(lg *zap.Logger) *MetaPixelSink {
	return &MetaPixelSink{lg: lg}
}

func (s *MetaPixelSink) Name() string { return "meta_pixel" }

func (s *MetaPixelSink) Send(_ context.Context, ev Event) error {
	name, ok := pixelEvents[ev.Name]
	if !ok {
		return nil
	}

	contentIDs := make([]string, len(ev.Payload.Items))
	for i, it := range ev.Payload.Items {
		contentIDs[i] = it.ItemID
	}

	s.lg.Info("fbq track",
		zap.String("event", name),
		zap.String("value", ev.Payload.Value.String()),
		zap.String("currency", ev.Payload.Currency),
		zap.Strings("content_ids", contentIDs),
		zap.String("content_type", "product"),
		zap.Int("num_items", ev.Payload.NumItems()),
	)
	return nil
}

// AdsConversionSink reports only purchase conversions.
type AdsConversionSink struct {
	lg *zap.Logger
}

// NewAdsConversionSink creates an AdsConversionSink logging through lg.
func NewAdsConversionSink(lg *zap.Logger) *AdsConversionSink {
	return &AdsConversionSink{lg: lg}
}

func (s *AdsConversionSink) Name() string { return "ads" }

func (s *AdsConversionSink) Send(_ context.Context, ev Event) error {
	if ev.Name != EventPurchase {
		return nil
	}

	s.lg.Info("Ads conversion tracked",
		zap.String("transaction_id", ev.Payload.TransactionID),
		zap.String("value", ev.Payload.Value.String()),
		zap.String("currency", ev.Payload.Currency),
	)
	return nil
}

// CaptureSink records every event it receives, for inspection in tests.
type CaptureSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewCaptureSink creates an empty CaptureSink. When failWith is non-nil,
// every Send returns it after recording the event.
func NewCaptureSink(failWith error) *CaptureSink {
	return &CaptureSink{err: failWith}
}

func (s *CaptureSink) Name() string { return "capture" }

func (s *CaptureSink) Send(_ context.Context, ev Event) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return s.err
}

// Events returns a copy of all recorded events, in order.
func (s *CaptureSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
