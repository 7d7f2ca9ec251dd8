// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

const (
	KindTick fsmx.EventKind = iota
	KindNoise
)

// Tick advances a ring machine to its next state.
type Tick struct{}

func (Tick) Kind() fsmx.EventKind { return KindTick }

// Noise is declared by no generated machine.
type Noise struct{}

func (Noise) Kind() fsmx.EventKind { return KindNoise }

// Events pre-converted to the interface so benchmarks measure dispatch only.
var (
	TickEvent  fsmx.Event = Tick{}
	NoiseEvent fsmx.Event = Noise{}
)

// Slot is the state type of generated machines. It counts its hooks.
type Slot struct {
	Entries, Exits int
}

func (s *Slot) Entry(context.Context) { s.Entries++ }
func (s *Slot) Exit(context.Context)  { s.Exits++ }

// GenRing creates a started machine with n states cycling on Tick.
func GenRing(n int) *fsmx.Machine {
	if n < 1 {
		n = 1
	}
	b := fsmx.NewMachineBuilder(fmt.Sprintf("ring_%d", n))
	for i := 0; i < n; i++ {
		next := fsmx.StateID((i + 1) % n)
		sb := b.State(fsmx.StateID(i), fmt.Sprintf("s%d", i), func() fsmx.State { return &Slot{} }).Targets(next)
		if i == 0 {
			sb.Initial()
		}
		fsmx.On(sb, func(ctx context.Context, m *fsmx.Machine, _ *Slot, _ Tick) error {
			return m.Transit(ctx, next)
		})
	}
	m := b.MustBuild()
	if err := m.Start(context.Background()); err != nil {
		panic(err)
	}
	return m
}

// GenList creates a started list of members rings with n states each.
func GenList(members, n int) *fsmx.List {
	ms := make([]*fsmx.Machine, members)
	for i := range ms {
		ms[i] = GenRing(n)
	}
	l, err := fsmx.NewList(ms...)
	if err != nil {
		panic(err)
	}
	return l
}

// GenResetList covers every state of m.
func GenResetList(m *fsmx.Machine) *fsmx.ResetList {
	refs := make([]fsmx.Ref, 0, len(m.States()))
	for _, id := range m.States() {
		refs = append(refs, fsmx.Ref{Machine: m, State: id})
	}
	l, err := fsmx.NewResetList(refs...)
	if err != nil {
		panic(err)
	}
	return l
}

// GenDescriptionYAML generates YAML bytes describing a ring of n states
// after one Tick.
func GenDescriptionYAML(n int) []byte {
	m := GenRing(n)
	if err := m.Dispatch(context.Background(), TickEvent); err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(m.Describe())
	if err != nil {
		panic(err)
	}
	return data
}
