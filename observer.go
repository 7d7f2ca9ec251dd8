package fsmx

import "context"

// Outcome classifies a dispatch that reached a machine's dispatch table.
// Elided events never produce an Outcome.
type Outcome int

const (
	// Handled: a reaction ran and returned nil.
	Handled Outcome = iota
	// Ignored: the machine reacts to the kind, but not in its current state.
	Ignored
	// Failed: a reaction ran and returned an error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Handled:
		return "handled"
	case Ignored:
		return "ignored"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer receives notifications from a Machine. Callbacks run
// synchronously on the dispatching goroutine and must not call back into the
// machine. Transitioned fires once the entry hook of the new state has
// returned, so observers never see a half-finished transition.
type Observer interface {
	Started(ctx context.Context, m *Machine, s StateID)
	Dispatched(ctx context.Context, m *Machine, e Event, o Outcome)
	Transitioned(ctx context.Context, m *Machine, from, to StateID)
	GuardRejected(ctx context.Context, m *Machine, from, to StateID)
}

// Option configures a Machine at Build time.
type Option func(*Machine)

// WithObserver attaches o to the machine. Passing several observers
// requires wrapping them, e.g. with observe.Multi.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.obs = o
	}
}
