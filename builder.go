package fsmx

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// MachineBuilder collects a machine definition. Nothing is checked until
// Build, which either returns a ready Machine or every definition error it
// found.
type MachineBuilder struct {
	name     string
	flavor   Flavor
	initial  StateID
	hasInit  bool
	recreate bool
	enforce  bool

	states    []*stateDef
	byID      map[StateID]*stateDef
	defaults  map[EventKind]reactionDef
	kindNames map[EventKind]string
	errs      []error
}

// StateBuilder provides fluent methods for configuring one state.
type StateBuilder struct {
	b   *MachineBuilder
	def *stateDef
}

type stateDef struct {
	id         StateID
	name       string
	factory    func() State
	reactions  map[EventKind]reactionDef
	targets    []StateID
	hasTargets bool
}

type reactionDef struct {
	fn     Reaction
	event  string
	sealed bool
	check  func(State) bool
}

// NewMachineBuilder starts the definition of a machine called name.
func NewMachineBuilder(name string) *MachineBuilder {
	return &MachineBuilder{
		name:      name,
		byID:      make(map[StateID]*stateDef),
		defaults:  make(map[EventKind]reactionDef),
		kindNames: make(map[EventKind]string),
	}
}

// State declares state id. factory constructs the state's singleton value at
// Build and again on every reset of that state.
func (b *MachineBuilder) State(id StateID, name string, factory func() State) *StateBuilder {
	def := &stateDef{
		id:        id,
		name:      name,
		factory:   factory,
		reactions: make(map[EventKind]reactionDef),
	}
	switch {
	case id < 0:
		b.errs = append(b.errs, fmt.Errorf("state %q (%d): %w", name, id, ErrInvalidState))
		return &StateBuilder{b: b, def: def}
	case b.byID[id] != nil:
		b.errs = append(b.errs, fmt.Errorf("state %q (%d) already declared as %q: %w", name, id, b.byID[id].name, ErrDuplicateState))
		return &StateBuilder{b: b, def: def}
	}
	b.byID[id] = def
	b.states = append(b.states, def)
	return &StateBuilder{b: b, def: def}
}

// Initial registers the state the machine starts in.
func (b *MachineBuilder) Initial(id StateID) *MachineBuilder {
	b.initial = id
	b.hasInit = true
	return b
}

// Flavor sets the machine's side-effect discipline.
func (b *MachineBuilder) Flavor(f Flavor) *MachineBuilder {
	b.flavor = f
	return b
}

// EnforceFlavor turns the flavor's discipline into checks: a Moore machine
// rejects transition actions with ErrFlavorViolation, and Build rejects
// Mealy states that implement a lifecycle hook.
func (b *MachineBuilder) EnforceFlavor() *MachineBuilder {
	b.enforce = true
	return b
}

// RecreateOnReset makes Machine.Reset recreate every state of the machine
// before returning to the initial state.
func (b *MachineBuilder) RecreateOnReset() *MachineBuilder {
	b.recreate = true
	return b
}

// Initial marks this state as the machine's initial state.
func (sb *StateBuilder) Initial() *StateBuilder {
	sb.b.Initial(sb.def.id)
	return sb
}

// Targets declares the states this state may transit to. Without it any
// state of the machine is a valid target.
func (sb *StateBuilder) Targets(ids ...StateID) *StateBuilder {
	sb.def.targets = append(sb.def.targets, ids...)
	sb.def.hasTargets = true
	return sb
}

// On registers fn as the reaction of the state behind sb to events of type
// E. S must be the dynamic type returned by the state's factory.
func On[S any, E Event](sb *StateBuilder, fn func(ctx context.Context, m *Machine, s S, e E) error) *StateBuilder {
	kind, name := kindOf[E]()
	if !sb.b.claimKind(kind, name) {
		return sb
	}
	if _, dup := sb.def.reactions[kind]; dup {
		sb.b.errs = append(sb.b.errs, fmt.Errorf("state %q, event %s: %w", sb.def.name, name, ErrDuplicateReaction))
		return sb
	}
	sb.def.reactions[kind] = reactionDef{
		event: name,
		check: func(s State) bool {
			_, ok := s.(S)
			return ok
		},
		fn: func(ctx context.Context, m *Machine, s State, e Event) error {
			ts, ok := s.(S)
			if !ok {
				return fmt.Errorf("state %T: %w", s, ErrStateType)
			}
			te, ok := e.(E)
			if !ok {
				return fmt.Errorf("kind %d carried by %T, want %s: %w", e.Kind(), e, name, ErrEventType)
			}
			return fn(ctx, m, ts, te)
		},
	}
	return sb
}

// Default registers a machine-wide reaction to events of type E. It applies
// in every state that does not register its own reaction to E.
func Default[E Event](b *MachineBuilder, fn func(ctx context.Context, m *Machine, e E) error) *MachineBuilder {
	return machineReaction(b, fn, false)
}

// Sealed registers a machine-wide reaction to events of type E that states
// may not override; a state reacting to E is a definition error.
func Sealed[E Event](b *MachineBuilder, fn func(ctx context.Context, m *Machine, e E) error) *MachineBuilder {
	return machineReaction(b, fn, true)
}

func machineReaction[E Event](b *MachineBuilder, fn func(ctx context.Context, m *Machine, e E) error, sealed bool) *MachineBuilder {
	kind, name := kindOf[E]()
	if !b.claimKind(kind, name) {
		return b
	}
	if _, dup := b.defaults[kind]; dup {
		b.errs = append(b.errs, fmt.Errorf("event %s: %w", name, ErrDuplicateReaction))
		return b
	}
	b.defaults[kind] = reactionDef{
		event:  name,
		sealed: sealed,
		fn: func(ctx context.Context, m *Machine, _ State, e Event) error {
			te, ok := e.(E)
			if !ok {
				return fmt.Errorf("kind %d carried by %T, want %s: %w", e.Kind(), e, name, ErrEventType)
			}
			return fn(ctx, m, te)
		},
	}
	return b
}

// claimKind records the event type that owns kind. Two event types sharing a
// kind would make the dispatch table ambiguous.
func (b *MachineBuilder) claimKind(kind EventKind, name string) bool {
	if kind < 0 {
		b.errs = append(b.errs, fmt.Errorf("event %s kind %d: %w", name, kind, ErrInvalidKind))
		return false
	}
	if owner, ok := b.kindNames[kind]; ok && owner != name {
		b.errs = append(b.errs, fmt.Errorf("kind %d claimed by %s and %s: %w", kind, owner, name, ErrInvalidKind))
		return false
	}
	b.kindNames[kind] = name
	return true
}

// Build validates the definition and constructs the Machine with all state
// instances created.
func (b *MachineBuilder) Build(opts ...Option) (*Machine, error) {
	errs := append([]error(nil), b.errs...)
	if len(b.states) == 0 {
		errs = append(errs, ErrNoStates)
	}
	if !b.hasInit {
		errs = append(errs, ErrNoInitialState)
	} else if b.byID[b.initial] == nil {
		errs = append(errs, fmt.Errorf("initial state %d: %w", b.initial, ErrUnknownState))
	}
	if len(errs) > 0 {
		return nil, b.wrap(errs)
	}

	nStates, nKinds := 0, 0
	for _, def := range b.states {
		if int(def.id) >= nStates {
			nStates = int(def.id) + 1
		}
		for k := range def.reactions {
			if int(k) >= nKinds {
				nKinds = int(k) + 1
			}
		}
	}
	for k := range b.defaults {
		if int(k) >= nKinds {
			nKinds = int(k) + 1
		}
	}

	m := &Machine{
		name:      b.name,
		flavor:    b.flavor,
		initial:   b.initial,
		current:   b.initial,
		recreate:  b.recreate,
		enforce:   b.enforce,
		slots:     make([]slot, nStates),
		handles:   make([]bool, nKinds),
		kindNames: make([]string, nKinds),
	}
	for k, name := range b.kindNames {
		m.kindNames[k] = name
	}

	for _, def := range b.states {
		s := &m.slots[def.id]
		s.defined = true
		s.id = def.id
		s.name = def.name
		s.factory = def.factory
		if def.factory == nil {
			errs = append(errs, fmt.Errorf("state %q: %w", def.name, ErrNilFactory))
			continue
		}
		s.recreate()
		if s.inst == nil {
			errs = append(errs, fmt.Errorf("state %q: %w", def.name, ErrNilState))
			continue
		}

		s.reactions = make([]Reaction, nKinds)
		s.own = make([]bool, nKinds)
		for k, r := range def.reactions {
			if d, ok := b.defaults[k]; ok && d.sealed {
				errs = append(errs, fmt.Errorf("state %q, event %s: %w", def.name, r.event, ErrSealedReaction))
				continue
			}
			if !r.check(s.inst) {
				errs = append(errs, fmt.Errorf("state %q is %T, event %s: %w", def.name, s.inst, r.event, ErrStateType))
				continue
			}
			s.reactions[k] = r.fn
			s.own[k] = true
		}
		for k, d := range b.defaults {
			if s.reactions[k] == nil {
				s.reactions[k] = d.fn
			}
		}
		for k, r := range s.reactions {
			if r != nil {
				m.handles[k] = true
			}
		}

		if def.hasTargets {
			s.targets = make([]bool, nStates)
			for _, t := range def.targets {
				if t < 0 || int(t) >= nStates || b.byID[t] == nil {
					errs = append(errs, fmt.Errorf("state %q, target %d: %w", def.name, t, ErrUnknownState))
					continue
				}
				s.targets[t] = true
			}
		}

		if b.enforce && b.flavor == Mealy && s.hasHooks() {
			errs = append(errs, fmt.Errorf("state %q defines %v in a mealy machine: %w", def.name, s.hookNames(), ErrFlavorViolation))
		}
	}
	if len(errs) > 0 {
		return nil, b.wrap(errs)
	}

	if is := &m.slots[m.initial]; b.flavor != Mealy && is.enterer == nil && is.initializer == nil {
		errs = append(errs, fmt.Errorf("state %q: %w", is.name, ErrInitialHook))
	}
	errs = append(errs, m.checkPayloads()...)
	if len(errs) > 0 {
		return nil, b.wrap(errs)
	}

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// MustBuild is like Build but panics on a definition error. It suits
// package-level machine declarations.
func (b *MachineBuilder) MustBuild(opts ...Option) *Machine {
	m, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (b *MachineBuilder) wrap(errs []error) error {
	return fmt.Errorf("machine %q: %w", b.name, errors.Join(errs...))
}

// checkPayloads verifies that every state a payload-producing state can
// reach accepts the payload.
func (m *Machine) checkPayloads() []error {
	var errs []error
	for i := range m.slots {
		src := &m.slots[i]
		if !src.defined || src.payloadExiter == nil {
			continue
		}
		for j := range m.slots {
			dst := &m.slots[j]
			if !dst.defined || (src.targets != nil && !src.targets[j]) {
				continue
			}
			if dst.payloadEnterer == nil {
				errs = append(errs, fmt.Errorf("%q -> %q: %w", src.name, dst.name, ErrPayloadEntry))
			}
		}
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}
