package fsmx

import "errors"

// Definition errors. Build, NewList and NewResetList return these (possibly
// joined) and do not produce a value; callers treat them as fatal.
var (
	ErrNoStates          = errors.New("no states defined")
	ErrNoInitialState    = errors.New("no initial state registered")
	ErrDuplicateState    = errors.New("duplicate state ID")
	ErrInvalidState      = errors.New("invalid state ID")
	ErrNilFactory        = errors.New("nil state factory")
	ErrNilState          = errors.New("state factory returned nil")
	ErrInitialHook       = errors.New("initial state defines neither Entry nor Initial hook")
	ErrPayloadEntry      = errors.New("payload transition target lacks EntryWith hook")
	ErrDuplicateReaction = errors.New("duplicate reaction")
	ErrSealedReaction    = errors.New("reaction overrides a sealed machine reaction")
	ErrStateType         = errors.New("reaction bound to wrong state type")
	ErrInvalidKind       = errors.New("invalid event kind")
	ErrNilMachine        = errors.New("nil machine")
	ErrDuplicateMachine  = errors.New("machine listed twice")
)

// Runtime errors.
var (
	ErrNotStarted           = errors.New("machine not started")
	ErrReentrant            = errors.New("reentrant call during transition")
	ErrUnknownState         = errors.New("unknown state")
	ErrUndeclaredTransition = errors.New("transition target not declared")
	ErrEventType            = errors.New("event type does not match its kind")
	ErrFlavorViolation      = errors.New("flavor violation")
	ErrNoAcceptor           = errors.New("no acceptor for event")
)
