package fsmx

import (
	"context"
	"fmt"
)

// EventKind is the small integer that selects a reaction. Consumers declare
// their kinds as a dense enumeration starting at zero:
//
//	const (
//		KindToggle fsmx.EventKind = iota
//		KindReset
//	)
type EventKind int

// Event is an immutable occurrence handed to a machine. Concrete events are
// small value structs carrying their payload as fields; Kind must not depend
// on field values so that the zero value reports the same kind.
//
// The core never keeps an Event past the Dispatch call it was passed to.
type Event interface {
	Kind() EventKind
}

// Dispatcher is anything that accepts events: a Machine or a List.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event) error
}

// BoundEvent is an event tied to the Dispatcher it is meant for, so code
// that raises it does not need to know where it goes.
type BoundEvent[E Event] struct {
	Event E
	To    Dispatcher
}

// Bind ties e to d.
func Bind[E Event](d Dispatcher, e E) BoundEvent[E] {
	return BoundEvent[E]{Event: e, To: d}
}

// Dispatch sends the bound event to its Dispatcher.
func (b BoundEvent[E]) Dispatch(ctx context.Context) error {
	if b.To == nil {
		return fmt.Errorf("bound event %T: %w", b.Event, ErrNilMachine)
	}
	return b.To.Dispatch(ctx, b.Event)
}

// kindOf reports the kind and a printable name of event type E.
func kindOf[E Event]() (EventKind, string) {
	var zero E
	return zero.Kind(), fmt.Sprintf("%T", zero)
}
