// Package testutil provides helpers shared by the tests of fsmx and its
// consumers.
package testutil

import (
	"context"
	"fmt"

	"github.com/comalice/fsmx"
)

// Recorder collects an ordered trace of hook calls and machine
// notifications. It implements fsmx.Observer so the same trace can hold
// both what states did and what the engine reported.
type Recorder struct {
	calls []string
}

var _ fsmx.Observer = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a formatted entry to the trace.
func (r *Recorder) Record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the trace.
func (r *Recorder) Calls() []string {
	return append([]string(nil), r.calls...)
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int { return len(r.calls) }

// Count returns how often entry was recorded.
func (r *Recorder) Count(entry string) int {
	n := 0
	for _, c := range r.calls {
		if c == entry {
			n++
		}
	}
	return n
}

// Clear empties the trace.
func (r *Recorder) Clear() {
	r.calls = r.calls[:0]
}

func (r *Recorder) Started(_ context.Context, m *fsmx.Machine, s fsmx.StateID) {
	r.Record("%s: started %s", m.Name(), m.StateName(s))
}

func (r *Recorder) Dispatched(_ context.Context, m *fsmx.Machine, e fsmx.Event, o fsmx.Outcome) {
	r.Record("%s: %T %s", m.Name(), e, o)
}

func (r *Recorder) Transitioned(_ context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	r.Record("%s: %s -> %s", m.Name(), m.StateName(from), m.StateName(to))
}

func (r *Recorder) GuardRejected(_ context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	r.Record("%s: guard rejected %s -> %s", m.Name(), m.StateName(from), m.StateName(to))
}
