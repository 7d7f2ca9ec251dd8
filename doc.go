// Package fsmx is a finite-state-machine runtime for control software
// such as elevator controllers and switch logic.
//
// A machine is a closed set of mutually exclusive states declared once with
// a MachineBuilder. Each state is a singleton value created by a factory;
// fields on it (counters, cached readings) survive transitions until a reset
// recreates the instance. Build resolves every reaction into a table indexed
// by state and event kind, so dispatch is a bounds check and a slice lookup.
//
// # Example Usage
//
//	const (
//		Off fsmx.StateID = iota
//		On
//	)
//
//	type Toggle struct{}
//
//	func (Toggle) Kind() fsmx.EventKind { return 0 }
//
//	b := fsmx.NewMachineBuilder("switch")
//	fsmx.On(b.State(Off, "off", newOff).Initial(),
//		func(ctx context.Context, m *fsmx.Machine, s *off, e Toggle) error {
//			return m.Transit(ctx, On)
//		})
//	fsmx.On(b.State(On, "on", newOn),
//		func(ctx context.Context, m *fsmx.Machine, s *on, e Toggle) error {
//			return m.Transit(ctx, Off)
//		})
//	m, err := b.Build()
//	...
//	m.Start(ctx)
//	m.Dispatch(ctx, Toggle{})
//
// # Transitions
//
// Transit, TransitWith and TransitIf run the protocol
//
//  1. guard (TransitIf only); false stops here with no effect
//  2. exit hook of the current state (ExitWith may produce a payload)
//  3. transition action
//  4. current := target
//  5. entry hook of the target (EntryWith receives the payload)
//
// A guard or an action must not dispatch into its own machine. The machine keeps a
// transition-in-progress flag and such a call returns ErrReentrant instead
// of corrupting the current state.
//
// # Elision
//
// Dispatching an event of a kind no state of the machine reacts to is a
// no-op: no error, no observer callback, no allocation. This lets a List
// carry machines that only care about part of the events in circulation.
// An event the machine reacts to in some other state is "ignored" and is
// reported to observers as such.
//
// # Lists
//
// List fans reset, start and dispatch out to several machines in
// declaration order. ResetList recreates a named set of state instances,
// discarding their accumulated fields.
//
// # Flavors
//
// Moore machines keep side effects in entry and exit hooks; Mealy machines
// keep them in reactions and transition actions. A flavor is a label unless
// the builder calls EnforceFlavor. See Flavor.
//
// The package uses only the Go standard library; logging, metrics and
// tracing are provided by observe.
package fsmx
