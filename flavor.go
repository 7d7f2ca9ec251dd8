package fsmx

// Flavor names where a machine's side effects live. It is a label over the
// same engine: Moore machines put their outputs in entry and exit hooks and
// their reactions only pick the next state; Mealy machines put their
// outputs in reactions and transition actions, and their hooks are no-ops.
//
// The only behavior a flavor changes by default is that a Mealy machine's
// initial state needs no hook. MachineBuilder.EnforceFlavor turns the
// discipline into checks.
type Flavor int

const (
	Unconstrained Flavor = iota
	Moore
	Mealy
)

func (f Flavor) String() string {
	switch f {
	case Moore:
		return "moore"
	case Mealy:
		return "mealy"
	default:
		return "unconstrained"
	}
}
