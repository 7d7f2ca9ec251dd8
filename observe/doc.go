// Package observe adapts fsmx machine notifications to logging, metrics and
// tracing backends.
//
// Each adapter implements fsmx.Observer; Multi combines several of them so a
// machine can carry all three:
//
//	metrics := observe.NewMetrics("fsmx")
//	m, err := b.Build(fsmx.WithObserver(observe.Multi(
//		observe.NewLogger(log),
//		metrics,
//		observe.NewTracer(),
//	)))
//
// Observers run on the dispatching goroutine, inside Dispatch, so they
// should not block.
package observe
