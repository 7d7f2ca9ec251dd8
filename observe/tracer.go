package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/fsmx"
)

const instrumentation = "github.com/comalice/fsmx"

// Tracer records machine notifications as events on the span carried by the
// dispatch context. Without a recording span it does nothing.
type Tracer struct{}

var _ fsmx.Observer = Tracer{}

// NewTracer returns a Tracer.
func NewTracer() Tracer { return Tracer{} }

func (Tracer) Started(ctx context.Context, m *fsmx.Machine, s fsmx.StateID) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("fsmx.start", trace.WithAttributes(
		attribute.String("fsmx.machine", m.Name()),
		attribute.String("fsmx.state", m.StateName(s)),
	))
}

func (Tracer) Dispatched(ctx context.Context, m *fsmx.Machine, e fsmx.Event, o fsmx.Outcome) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("fsmx.dispatch", trace.WithAttributes(
		attribute.String("fsmx.machine", m.Name()),
		attribute.String("fsmx.event", m.EventName(e.Kind())),
		attribute.String("fsmx.outcome", o.String()),
	))
}

func (Tracer) Transitioned(ctx context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("fsmx.transition", trace.WithAttributes(
		attribute.String("fsmx.machine", m.Name()),
		attribute.String("fsmx.from", m.StateName(from)),
		attribute.String("fsmx.to", m.StateName(to)),
	))
}

func (Tracer) GuardRejected(ctx context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("fsmx.guard_rejected", trace.WithAttributes(
		attribute.String("fsmx.machine", m.Name()),
		attribute.String("fsmx.from", m.StateName(from)),
		attribute.String("fsmx.to", m.StateName(to)),
	))
}

// TracedDispatcher wraps a Machine or List so that every Dispatch runs in
// its own span. Tracer events raised during the dispatch attach to it.
type TracedDispatcher struct {
	next   fsmx.Dispatcher
	name   string
	tracer trace.Tracer
}

var _ fsmx.Dispatcher = (*TracedDispatcher)(nil)

// NewTracedDispatcher wraps next. A nil tracer uses the global provider.
func NewTracedDispatcher(next fsmx.Dispatcher, name string, tracer trace.Tracer) *TracedDispatcher {
	if tracer == nil {
		tracer = otel.Tracer(instrumentation)
	}
	return &TracedDispatcher{next: next, name: name, tracer: tracer}
}

// Dispatch starts a span named "<name>.dispatch" and forwards e.
func (d *TracedDispatcher) Dispatch(ctx context.Context, e fsmx.Event) error {
	ctx, span := d.tracer.Start(ctx, d.name+".dispatch", trace.WithAttributes(
		attribute.Int("fsmx.event_kind", int(e.Kind())),
	))
	defer span.End()

	err := d.next.Dispatch(ctx, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
