package analytics

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Sink is an external analytics endpoint. Sinks are best-effort: a Send
// failure is logged by the Emitter and never surfaced to callers.
type Sink interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Emitter forwards events to a registered list of sinks. An empty list is
// valid and makes every Emit a no-op. The Emitter itself holds no state and
// exposes no failure mode to callers.
type Emitter struct {
	lg       *zap.Logger
	currency string
	sinks    []Sink
	emitted  metric.Int64Counter
}

// NewEmitter creates an Emitter that stamps the given currency on every
// payload and delivers to the given sinks in registration order.
func NewEmitter(lg *zap.Logger, meter metric.Meter, currency string, sinks ...Sink) (*Emitter, error) {
	emitted, err := meter.Int64Counter("storefront.analytics.events",
		metric.WithDescription("Analytics events delivered per sink"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create events counter")
	}

	return &Emitter{
		lg:       lg,
		currency: currency,
		sinks:    sinks,
		emitted:  emitted,
	}, nil
}

// Emit delivers the event to every registered sink. Sink errors are swallowed.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if ev.Payload.Currency == "" {
		ev.Payload.Currency = e.currency
	}

	for _, sink := range e.sinks {
		if err := sink.Send(ctx, ev); err != nil {
			e.lg.Debug("Analytics sink failed",
				zap.String("sink", sink.Name()),
				zap.String("event", ev.Name),
				zap.Error(err),
			)
			continue
		}
		e.emitted.Add(ctx, 1, metric.WithAttributes(
			attribute.String("sink", sink.Name()),
			attribute.String("event", ev.Name),
		))
	}
}
