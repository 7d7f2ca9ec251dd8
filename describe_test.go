package fsmx_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/testutil"
)

func TestDescribe(t *testing.T) {
	rec := testutil.NewRecorder()
	b := fsmx.NewMachineBuilder("door")
	fsmx.Default(b, func(context.Context, *fsmx.Machine, ping) error { return nil })
	fsmx.On(b.State(off, "closed", tracedState("closed", rec)).Initial().Targets(on),
		func(ctx context.Context, m *fsmx.Machine, _ *traced, _ toggle) error {
			return m.Transit(ctx, on)
		})
	b.State(on, "open", func() fsmx.State { return &receiving{} })
	m := b.MustBuild()

	got := m.Describe()
	want := fsmx.Description{
		Name:     "door",
		Flavor:   "unconstrained",
		Initial:  "closed",
		Events:   []string{"fsmx_test.toggle", "fsmx_test.ping"},
		Defaults: []string{"fsmx_test.ping"},
		States: []fsmx.StateDescription{
			{
				ID:      0,
				Name:    "closed",
				Type:    "*fsmx_test.traced",
				Hooks:   []string{"entry", "exit"},
				Reacts:  []string{"fsmx_test.toggle"},
				Targets: []string{"open"},
			},
			{
				ID:    1,
				Name:  "open",
				Type:  "*fsmx_test.receiving",
				Hooks: []string{"entry", "entry(payload)", "exit"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}

	mustStart(t, m)
	if d := m.Describe(); !d.Started || d.Current != "closed" {
		t.Errorf("expected started in closed, got %+v", d)
	}
}
