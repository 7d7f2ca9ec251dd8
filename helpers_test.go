package fsmx_test

import (
	"context"
	"testing"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/testutil"
)

const (
	kindToggle fsmx.EventKind = iota
	kindPing
	kindUnrelated
)

type toggle struct{}

func (toggle) Kind() fsmx.EventKind { return kindToggle }

type ping struct{ N int }

func (ping) Kind() fsmx.EventKind { return kindPing }

type unrelated struct{}

func (unrelated) Kind() fsmx.EventKind { return kindUnrelated }

const (
	off fsmx.StateID = iota
	on
	broken
)

// traced records every hook call and counts its entries.
type traced struct {
	name    string
	rec     *testutil.Recorder
	entries int
}

func (s *traced) Entry(context.Context) {
	s.entries++
	s.rec.Record("entry %s", s.name)
}

func (s *traced) Exit(context.Context) {
	s.rec.Record("exit %s", s.name)
}

func tracedState(name string, rec *testutil.Recorder) func() fsmx.State {
	return func() fsmx.State { return &traced{name: name, rec: rec} }
}

// newSwitch builds the two-state switch: off <-> on on toggle.
func newSwitch(t testing.TB, rec *testutil.Recorder, opts ...fsmx.Option) *fsmx.Machine {
	t.Helper()
	b := fsmx.NewMachineBuilder("switch")
	fsmx.On(b.State(off, "off", tracedState("off", rec)).Initial(),
		func(ctx context.Context, m *fsmx.Machine, _ *traced, _ toggle) error {
			return m.Transit(ctx, on)
		})
	fsmx.On(b.State(on, "on", tracedState("on", rec)),
		func(ctx context.Context, m *fsmx.Machine, _ *traced, _ toggle) error {
			return m.Transit(ctx, off)
		})
	m, err := b.Build(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func mustStart(t testing.TB, d interface{ Start(context.Context) error }) {
	t.Helper()
	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
}
