package fsmx

import (
	"context"
	"fmt"
)

// List fans calls out to independent machines in declaration order. The
// side effects of member i always complete before member i+1 is called.
//
// A plain List lets an event through even when no member reacts to it. A
// strict List (NewStrictList) reports ErrNoAcceptor instead.
type List struct {
	members []*Machine
	strict  bool
}

// NewList declares a List over ms.
func NewList(ms ...*Machine) (*List, error) {
	return newList(false, ms)
}

// NewStrictList declares a List over ms that fails dispatches no member
// reacts to.
func NewStrictList(ms ...*Machine) (*List, error) {
	return newList(true, ms)
}

func newList(strict bool, ms []*Machine) (*List, error) {
	seen := make(map[*Machine]bool, len(ms))
	for i, m := range ms {
		if m == nil {
			return nil, fmt.Errorf("list member %d: %w", i, ErrNilMachine)
		}
		if seen[m] {
			return nil, fmt.Errorf("list member %d (%q): %w", i, m.name, ErrDuplicateMachine)
		}
		seen[m] = true
	}
	return &List{
		members: append([]*Machine(nil), ms...),
		strict:  strict,
	}, nil
}

// Members returns the machines in dispatch order.
func (l *List) Members() []*Machine {
	return append([]*Machine(nil), l.members...)
}

// Len returns the number of members.
func (l *List) Len() int { return len(l.members) }

// Strict reports whether the list rejects events no member reacts to.
func (l *List) Strict() bool { return l.strict }

// Reset resets every member in order.
func (l *List) Reset() error {
	for i, m := range l.members {
		if err := m.Reset(); err != nil {
			return fmt.Errorf("list member %d: %w", i, err)
		}
	}
	return nil
}

// Start resets every member, then enters each member's initial state, both
// in order. All members have a current state before the first entry hook
// runs, so entry hooks may dispatch into the list.
func (l *List) Start(ctx context.Context) error {
	if err := l.Reset(); err != nil {
		return err
	}
	for i, m := range l.members {
		if err := m.enterInitial(ctx); err != nil {
			return fmt.Errorf("list member %d: %w", i, err)
		}
	}
	return nil
}

// Dispatch hands e to every member in order. The first member error stops
// the fan-out and is returned.
func (l *List) Dispatch(ctx context.Context, e Event) error {
	accepted := false
	for i, m := range l.members {
		ok, err := m.dispatch(ctx, e)
		if err != nil {
			return fmt.Errorf("list member %d: %w", i, err)
		}
		accepted = accepted || ok
	}
	if l.strict && !accepted {
		return fmt.Errorf("event %T (kind %d): %w", e, e.Kind(), ErrNoAcceptor)
	}
	return nil
}

// Ref names one state of one machine.
type Ref struct {
	Machine *Machine
	State   StateID
}

// ResetList recreates a fixed set of state instances together.
type ResetList struct {
	refs []Ref
}

// NewResetList declares a ResetList over refs.
func NewResetList(refs ...Ref) (*ResetList, error) {
	for i, r := range refs {
		if r.Machine == nil {
			return nil, fmt.Errorf("reset entry %d: %w", i, ErrNilMachine)
		}
		if !r.Machine.valid(r.State) {
			return nil, fmt.Errorf("reset entry %d: machine %q, state %d: %w", i, r.Machine.name, r.State, ErrUnknownState)
		}
	}
	return &ResetList{refs: append([]Ref(nil), refs...)}, nil
}

// Refs returns the entries in reset order.
func (l *ResetList) Refs() []Ref {
	return append([]Ref(nil), l.refs...)
}

// Reset replaces every listed instance with a fresh one from its factory,
// discarding accumulated fields. Which state is current does not change;
// follow with Start to re-enter a known state.
func (l *ResetList) Reset() error {
	for i, r := range l.refs {
		if err := r.Machine.ResetStates(r.State); err != nil {
			return fmt.Errorf("reset entry %d: %w", i, err)
		}
	}
	return nil
}
