package fsmx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/testutil"
)

func TestResetListDiscardsAccumulatedFields(t *testing.T) {
	rec := testutil.NewRecorder()
	a := newSwitch(t, rec)
	b := newSwitch(t, rec)
	mustStart(t, a)
	mustStart(t, b)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := a.Dispatch(ctx, toggle{}); err != nil {
			t.Fatal(err)
		}
	}
	if s, _ := fsmx.Instance[*traced](a, on); s.entries != 2 {
		t.Fatalf("expected on entered twice, got %d", s.entries)
	}

	rl, err := fsmx.NewResetList(fsmx.Ref{Machine: a, State: on}, fsmx.Ref{Machine: b, State: off})
	if err != nil {
		t.Fatal(err)
	}
	if err := rl.Reset(); err != nil {
		t.Fatal(err)
	}

	if s, _ := fsmx.Instance[*traced](a, on); s.entries != 0 {
		t.Errorf("expected fresh on instance, got %d entries", s.entries)
	}
	if s, _ := fsmx.Instance[*traced](a, off); s.entries != 3 {
		t.Errorf("unlisted state must keep its fields, got %d entries", s.entries)
	}
	if s, _ := fsmx.Instance[*traced](b, off); s.entries != 0 {
		t.Errorf("expected fresh off instance in b, got %d entries", s.entries)
	}
	if !a.IsInState(off) {
		t.Error("ResetList must not change the current state")
	}
	if len(rl.Refs()) != 2 {
		t.Errorf("expected 2 refs, got %d", len(rl.Refs()))
	}
}

func TestNewResetListRejectsBadRefs(t *testing.T) {
	m := newSwitch(t, testutil.NewRecorder())

	if _, err := fsmx.NewResetList(fsmx.Ref{State: off}); !errors.Is(err, fsmx.ErrNilMachine) {
		t.Errorf("expected ErrNilMachine, got %v", err)
	}
	if _, err := fsmx.NewResetList(fsmx.Ref{Machine: m, State: broken}); !errors.Is(err, fsmx.ErrUnknownState) {
		t.Errorf("expected ErrUnknownState, got %v", err)
	}
}

func TestRecreateOnReset(t *testing.T) {
	rec := testutil.NewRecorder()
	b := fsmx.NewMachineBuilder("fresh").RecreateOnReset()
	fsmx.On(b.State(off, "off", tracedState("off", rec)).Initial(),
		func(ctx context.Context, m *fsmx.Machine, _ *traced, _ toggle) error {
			return m.Transit(ctx, on)
		})
	fsmx.On(b.State(on, "on", tracedState("on", rec)),
		func(ctx context.Context, m *fsmx.Machine, _ *traced, _ toggle) error {
			return m.Transit(ctx, off)
		})
	m := b.MustBuild()
	mustStart(t, m)

	ctx := context.Background()
	if err := m.Dispatch(ctx, toggle{}); err != nil {
		t.Fatal(err)
	}
	old := m.CurrentState()
	mustStart(t, m)

	if m.Is(old) {
		t.Error("RecreateOnReset should replace the instances")
	}
	if s, _ := fsmx.Instance[*traced](m, on); s.entries != 0 {
		t.Errorf("expected fresh on, got %d entries", s.entries)
	}
	if s, _ := fsmx.Instance[*traced](m, off); s.entries != 1 {
		t.Errorf("expected fresh off entered once by Start, got %d entries", s.entries)
	}
}
