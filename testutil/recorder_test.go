package testutil

import (
	"context"
	"testing"

	"github.com/comalice/fsmx"
)

type ping struct{}

func (ping) Kind() fsmx.EventKind { return 0 }

type quiet struct{ fsmx.NopHooks }

func TestRecorderTrace(t *testing.T) {
	r := NewRecorder()
	r.Record("a")
	r.Record("b %d", 2)
	r.Record("a")

	if r.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", r.Len())
	}
	if got := r.Count("a"); got != 2 {
		t.Errorf("expected a recorded twice, got %d", got)
	}
	calls := r.Calls()
	if calls[1] != "b 2" {
		t.Errorf("expected formatted entry, got %q", calls[1])
	}
	calls[0] = "mutated"
	if r.Calls()[0] != "a" {
		t.Error("Calls must return a copy")
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("expected empty trace after Clear, got %d", r.Len())
	}
}

func TestRecorderObservesMachine(t *testing.T) {
	const (
		idle fsmx.StateID = iota
		busy
	)
	r := NewRecorder()

	b := fsmx.NewMachineBuilder("worker")
	fsmx.On(b.State(idle, "idle", func() fsmx.State { return &quiet{} }).Initial(),
		func(ctx context.Context, m *fsmx.Machine, _ *quiet, _ ping) error {
			return m.Transit(ctx, busy)
		})
	b.State(busy, "busy", func() fsmx.State { return &quiet{} })
	m, err := b.Build(fsmx.WithObserver(r))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Dispatch(ctx, ping{}); err != nil {
		t.Fatal(err)
	}
	if err := m.Dispatch(ctx, ping{}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"worker: started idle",
		"worker: idle -> busy",
		"worker: testutil.ping handled",
		"worker: testutil.ping ignored",
	}
	got := r.Calls()
	if len(got) != len(want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
