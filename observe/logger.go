package observe

import (
	"context"
	"log/slog"

	"github.com/comalice/fsmx"
)

// Logger writes machine notifications as structured slog records.
// Transitions and starts are logged at info, dispatch outcomes at debug
// (warn for failed reactions).
type Logger struct {
	log *slog.Logger
}

var _ fsmx.Observer = (*Logger)(nil)

// NewLogger returns a Logger writing to l, or to slog.Default() if l is nil.
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{log: l}
}

func (l *Logger) Started(ctx context.Context, m *fsmx.Machine, s fsmx.StateID) {
	l.log.InfoContext(ctx, "machine started",
		slog.String("machine", m.Name()),
		slog.String("state", m.StateName(s)),
	)
}

func (l *Logger) Dispatched(ctx context.Context, m *fsmx.Machine, e fsmx.Event, o fsmx.Outcome) {
	level := slog.LevelDebug
	if o == fsmx.Failed {
		level = slog.LevelWarn
	}
	if !l.log.Enabled(ctx, level) {
		return
	}
	l.log.LogAttrs(ctx, level, "event dispatched",
		slog.String("machine", m.Name()),
		slog.String("event", m.EventName(e.Kind())),
		slog.String("state", m.StateName(m.Current())),
		slog.String("outcome", o.String()),
	)
}

func (l *Logger) Transitioned(ctx context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	l.log.InfoContext(ctx, "transition",
		slog.String("machine", m.Name()),
		slog.String("from", m.StateName(from)),
		slog.String("to", m.StateName(to)),
	)
}

func (l *Logger) GuardRejected(ctx context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	l.log.DebugContext(ctx, "guard rejected transition",
		slog.String("machine", m.Name()),
		slog.String("from", m.StateName(from)),
		slog.String("to", m.StateName(to)),
	)
}
