package fsmx

import (
	"context"
	"fmt"
)

// Machine owns exactly one current state out of a closed set fixed at Build.
// A Machine is not safe for concurrent use; callers sequence all calls.
type Machine struct {
	name      string
	flavor    Flavor
	slots     []slot
	handles   []bool // indexed by EventKind
	kindNames []string
	initial   StateID
	current   StateID
	recreate  bool
	enforce   bool // flavor checks
	obs       Observer

	ready     bool // current is meaningful
	inTransit bool
	reacting  bool
}

//
// Public API
//

// Name returns the machine's name.
func (m *Machine) Name() string { return m.name }

// Flavor returns the machine's side-effect discipline.
func (m *Machine) Flavor() Flavor { return m.flavor }

// Started reports whether Start or Reset has set a current state.
func (m *Machine) Started() bool { return m.ready }

// Initial returns the registered initial state.
func (m *Machine) Initial() StateID { return m.initial }

// Current returns the current state. Before Start it returns the initial
// state.
func (m *Machine) Current() StateID { return m.current }

// CurrentState returns the singleton instance of the current state.
func (m *Machine) CurrentState() State { return m.slots[m.current].inst }

// IsInState reports whether id is the current state.
func (m *Machine) IsInState(id StateID) bool {
	return m.ready && m.current == id
}

// Is reports whether s is the current state's instance. Identity, not field
// contents, decides: an instance replaced by a reset is no longer current.
func (m *Machine) Is(s State) bool {
	return m.ready && m.slots[m.current].inst == s
}

// Handles reports whether any state of the machine reacts to kind. Events
// of other kinds are elided by Dispatch.
func (m *Machine) Handles(kind EventKind) bool {
	return kind >= 0 && int(kind) < len(m.handles) && m.handles[kind]
}

// StateName returns the declared name of id, or "" if id is not a state of
// the machine.
func (m *Machine) StateName(id StateID) string {
	if !m.valid(id) {
		return ""
	}
	return m.slots[id].name
}

// EventName returns the Go type name of the event registered for kind, or
// "" if the machine never reacts to kind.
func (m *Machine) EventName(kind EventKind) string {
	if !m.Handles(kind) {
		return ""
	}
	return m.kindNames[kind]
}

// States returns the machine's state IDs in ascending order.
func (m *Machine) States() []StateID {
	ids := make([]StateID, 0, len(m.slots))
	for i := range m.slots {
		if m.slots[i].defined {
			ids = append(ids, StateID(i))
		}
	}
	return ids
}

// Instance returns the singleton of state id as S.
func Instance[S any](m *Machine, id StateID) (S, bool) {
	var zero S
	if !m.valid(id) {
		return zero, false
	}
	s, ok := m.slots[id].inst.(S)
	return s, ok
}

// Start resets the machine to its initial state and runs that state's
// Initial hook, or its Entry hook when it has no Initial hook.
func (m *Machine) Start(ctx context.Context) error {
	if err := m.Reset(); err != nil {
		return err
	}
	return m.enterInitial(ctx)
}

// Reset makes the initial state current without running any hook. A
// machine built with RecreateOnReset also recreates all of its states.
func (m *Machine) Reset() error {
	if m.inTransit {
		return m.reentrant()
	}
	if m.recreate {
		for i := range m.slots {
			if m.slots[i].defined {
				m.slots[i].recreate()
			}
		}
	}
	m.current = m.initial
	m.ready = true
	return nil
}

// ResetStates replaces the instances of ids with freshly constructed ones.
// The current state does not change.
func (m *Machine) ResetStates(ids ...StateID) error {
	if m.inTransit {
		return m.reentrant()
	}
	for _, id := range ids {
		if !m.valid(id) {
			return fmt.Errorf("machine %q, state %d: %w", m.name, id, ErrUnknownState)
		}
	}
	for _, id := range ids {
		m.slots[id].recreate()
	}
	return nil
}

// Dispatch routes e to the current state's reaction. Events of a kind the
// machine never reacts to are elided without effect; events the machine
// reacts to, but not in its current state, are ignored.
func (m *Machine) Dispatch(ctx context.Context, e Event) error {
	_, err := m.dispatch(ctx, e)
	return err
}

// Transit moves the machine to state to: exit hook of the current state,
// then entry hook of to.
func (m *Machine) Transit(ctx context.Context, to StateID) error {
	return m.TransitIf(ctx, to, nil, nil)
}

// TransitWith is Transit with action run between the exit and entry hooks.
func (m *Machine) TransitWith(ctx context.Context, to StateID, action Action) error {
	return m.TransitIf(ctx, to, action, nil)
}

// TransitIf is TransitWith that does nothing at all when guard returns
// false. A nil action or guard is skipped.
func (m *Machine) TransitIf(ctx context.Context, to StateID, action Action, guard Guard) error {
	if err := m.checkTransit(to, action); err != nil {
		return err
	}
	from := m.current
	m.inTransit = true
	defer m.endTransit()

	// The guard runs under the flag too: it may not move this machine.
	if guard != nil && !guard() {
		m.inTransit = false
		if m.obs != nil {
			m.obs.GuardRejected(ctx, m, from, to)
		}
		return nil
	}

	payload, hasPayload := m.slots[from].exit(ctx)
	if action != nil {
		// The reentrancy flag stays set: the action may not dispatch
		// into this machine.
		action()
	}
	m.current = to
	m.slots[to].enter(ctx, payload, hasPayload)

	m.inTransit = false
	if m.obs != nil {
		m.obs.Transitioned(ctx, m, from, to)
	}
	return nil
}

// Enter makes to the current state and runs its entry hook without exiting
// the previous state.
func (m *Machine) Enter(ctx context.Context, to StateID) error {
	if m.inTransit {
		return m.reentrant()
	}
	if !m.valid(to) {
		return fmt.Errorf("machine %q, state %d: %w", m.name, to, ErrUnknownState)
	}
	m.current = to
	m.ready = true
	m.inTransit = true
	defer m.endTransit()
	m.slots[to].enter(ctx, nil, false)
	return nil
}

//
// Helper Functions (internal API)
//

// dispatch reports whether e reached a reaction.
func (m *Machine) dispatch(ctx context.Context, e Event) (bool, error) {
	k := e.Kind()
	if k < 0 || int(k) >= len(m.handles) || !m.handles[k] {
		return false, nil
	}
	if !m.ready {
		return false, fmt.Errorf("machine %q: %w", m.name, ErrNotStarted)
	}
	if m.inTransit || m.reacting {
		return false, m.reentrant()
	}

	s := &m.slots[m.current]
	r := s.reactions[k]
	if r == nil {
		if m.obs != nil {
			m.obs.Dispatched(ctx, m, e, Ignored)
		}
		return false, nil
	}

	err := m.react(ctx, r, s.inst, e)

	if m.obs != nil {
		o := Handled
		if err != nil {
			o = Failed
		}
		m.obs.Dispatched(ctx, m, e, o)
	}
	return true, err
}

// enterInitial runs the initial state's Initial or Entry hook.
func (m *Machine) enterInitial(ctx context.Context) error {
	if m.inTransit {
		return m.reentrant()
	}
	m.inTransit = true
	defer m.endTransit()

	s := &m.slots[m.current]
	switch {
	case s.initializer != nil:
		s.initializer.Initial(ctx)
	case s.enterer != nil:
		s.enterer.Entry(ctx)
	}

	m.inTransit = false
	if m.obs != nil {
		m.obs.Started(ctx, m, m.current)
	}
	return nil
}

func (m *Machine) checkTransit(to StateID, action Action) error {
	if !m.ready {
		return fmt.Errorf("machine %q: %w", m.name, ErrNotStarted)
	}
	if m.inTransit {
		return m.reentrant()
	}
	if !m.valid(to) {
		return fmt.Errorf("machine %q, state %d: %w", m.name, to, ErrUnknownState)
	}
	if t := m.slots[m.current].targets; t != nil && !t[to] {
		return fmt.Errorf("machine %q, %s -> %s: %w", m.name, m.slots[m.current].name, m.slots[to].name, ErrUndeclaredTransition)
	}
	if action != nil && m.enforce && m.flavor == Moore {
		return fmt.Errorf("machine %q: transition action in a moore machine: %w", m.name, ErrFlavorViolation)
	}
	return nil
}

func (m *Machine) react(ctx context.Context, r Reaction, s State, e Event) error {
	m.reacting = true
	defer func() { m.reacting = false }()
	return r(ctx, m, s, e)
}

func (m *Machine) endTransit() {
	m.inTransit = false
}

func (m *Machine) reentrant() error {
	return fmt.Errorf("machine %q: %w", m.name, ErrReentrant)
}

func (m *Machine) valid(id StateID) bool {
	return id >= 0 && int(id) < len(m.slots) && m.slots[id].defined
}

// exit runs the state's exit hook and returns the payload it produced.
func (s *slot) exit(ctx context.Context) (any, bool) {
	switch {
	case s.payloadExiter != nil:
		return s.payloadExiter.ExitWith(ctx), true
	case s.exiter != nil:
		s.exiter.Exit(ctx)
	}
	return nil, false
}

// enter runs the state's entry hook. Build guarantees a payload only reaches
// states with EntryWith; Entry is the fallback for undeclared graphs.
func (s *slot) enter(ctx context.Context, payload any, hasPayload bool) {
	switch {
	case hasPayload && s.payloadEnterer != nil:
		s.payloadEnterer.EntryWith(ctx, payload)
	case s.enterer != nil:
		s.enterer.Entry(ctx)
	}
}
