package observe

import (
	"context"

	"github.com/comalice/fsmx"
)

type multi []fsmx.Observer

// Multi returns an Observer that notifies each of obs in order. Nil entries
// are dropped.
func Multi(obs ...fsmx.Observer) fsmx.Observer {
	out := make(multi, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (ms multi) Started(ctx context.Context, m *fsmx.Machine, s fsmx.StateID) {
	for _, o := range ms {
		o.Started(ctx, m, s)
	}
}

func (ms multi) Dispatched(ctx context.Context, m *fsmx.Machine, e fsmx.Event, out fsmx.Outcome) {
	for _, o := range ms {
		o.Dispatched(ctx, m, e, out)
	}
}

func (ms multi) Transitioned(ctx context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	for _, o := range ms {
		o.Transitioned(ctx, m, from, to)
	}
}

func (ms multi) GuardRejected(ctx context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	for _, o := range ms {
		o.GuardRejected(ctx, m, from, to)
	}
}
