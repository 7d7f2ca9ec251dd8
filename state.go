package fsmx

import "context"

// StateID identifies a state within one machine. IDs are indexes into the
// machine's state table; declare them as a dense enumeration starting at
// zero.
type StateID int

// State is the singleton value behind one (machine, state) pair. It is
// normally a pointer to a struct so that fields such as visit counters
// persist across transitions. A state opts in to lifecycle hooks by
// implementing any of Enterer, Exiter, Initializer, PayloadExiter and
// PayloadEnterer.
type State any

// Enterer is implemented by states with an entry hook.
type Enterer interface {
	Entry(ctx context.Context)
}

// Exiter is implemented by states with an exit hook.
type Exiter interface {
	Exit(ctx context.Context)
}

// Initializer is implemented by states that need one-time setup when the
// machine starts in them. When present it runs instead of Entry on Start.
type Initializer interface {
	Initial(ctx context.Context)
}

// PayloadExiter is an exit hook that hands a value to the next state's
// EntryWith. It takes precedence over Exit.
type PayloadExiter interface {
	ExitWith(ctx context.Context) any
}

// PayloadEnterer receives the value produced by the previous state's
// ExitWith. It runs instead of Entry when a payload was produced.
type PayloadEnterer interface {
	EntryWith(ctx context.Context, payload any)
}

// NopHooks provides empty Entry and Exit hooks. Embed it in a machine's
// state types to give them the base behaviour of "no side effects on entry
// or exit" while still satisfying the initial-state hook check.
type NopHooks struct{}

func (NopHooks) Entry(context.Context) {}
func (NopHooks) Exit(context.Context)  {}

// Reaction is the untyped form of a state's reaction to an event. On and
// Default build these from typed functions.
type Reaction func(ctx context.Context, m *Machine, s State, e Event) error

// Action runs between the exit and entry hooks of a transition.
type Action func()

// Guard decides whether a transition happens at all.
type Guard func() bool

// slot is one entry of the state registry. Hook interfaces are resolved when
// the instance is (re)created so a transition never type-asserts.
type slot struct {
	defined bool
	id      StateID
	name    string
	factory func() State
	inst    State

	enterer        Enterer
	exiter         Exiter
	initializer    Initializer
	payloadExiter  PayloadExiter
	payloadEnterer PayloadEnterer

	// reactions is indexed by EventKind; state reactions with machine
	// defaults filled in for the kinds the state leaves alone.
	reactions []Reaction
	own       []bool
	targets   []bool // nil: any state may be targeted
}

func (s *slot) bind(inst State) {
	s.inst = inst
	s.enterer, _ = inst.(Enterer)
	s.exiter, _ = inst.(Exiter)
	s.initializer, _ = inst.(Initializer)
	s.payloadExiter, _ = inst.(PayloadExiter)
	s.payloadEnterer, _ = inst.(PayloadEnterer)
}

func (s *slot) recreate() {
	s.bind(s.factory())
}

func (s *slot) hasHooks() bool {
	return s.enterer != nil || s.exiter != nil || s.initializer != nil ||
		s.payloadExiter != nil || s.payloadEnterer != nil
}

func (s *slot) hookNames() []string {
	var names []string
	if s.initializer != nil {
		names = append(names, "initial")
	}
	if s.enterer != nil {
		names = append(names, "entry")
	}
	if s.payloadEnterer != nil {
		names = append(names, "entry(payload)")
	}
	if s.exiter != nil {
		names = append(names, "exit")
	}
	if s.payloadExiter != nil {
		names = append(names, "exit(payload)")
	}
	return names
}
