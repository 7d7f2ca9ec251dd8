package observe

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comalice/fsmx"
)

// Metrics counts machine activity in its own Prometheus registry.
type Metrics struct {
	dispatches  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	starts      *prometheus.CounterVec
	registry    *prometheus.Registry
}

var _ fsmx.Observer = (*Metrics)(nil)

// NewMetrics creates the counters under namespace ("fsmx" if empty) and
// registers them with a fresh registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fsmx"
	}
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Events that reached a machine's dispatch table, by outcome.",
		}, []string{"machine", "event", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Completed state transitions.",
		}, []string{"machine", "from", "to"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Transitions suppressed by a guard.",
		}, []string{"machine", "from", "to"}),
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "starts_total",
			Help:      "Machine starts.",
		}, []string{"machine"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.dispatches, m.transitions, m.rejections, m.starts)
	return m
}

// Registry exposes the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Started(_ context.Context, mc *fsmx.Machine, _ fsmx.StateID) {
	m.starts.WithLabelValues(mc.Name()).Inc()
}

func (m *Metrics) Dispatched(_ context.Context, mc *fsmx.Machine, e fsmx.Event, o fsmx.Outcome) {
	m.dispatches.WithLabelValues(mc.Name(), mc.EventName(e.Kind()), o.String()).Inc()
}

func (m *Metrics) Transitioned(_ context.Context, mc *fsmx.Machine, from, to fsmx.StateID) {
	m.transitions.WithLabelValues(mc.Name(), mc.StateName(from), mc.StateName(to)).Inc()
}

func (m *Metrics) GuardRejected(_ context.Context, mc *fsmx.Machine, from, to fsmx.StateID) {
	m.rejections.WithLabelValues(mc.Name(), mc.StateName(from), mc.StateName(to)).Inc()
}

// Dispatches returns the dispatch counter, for tests and custom exporters.
func (m *Metrics) Dispatches() *prometheus.CounterVec { return m.dispatches }

// Transitions returns the transition counter.
func (m *Metrics) Transitions() *prometheus.CounterVec { return m.transitions }

// GuardRejections returns the guard rejection counter.
func (m *Metrics) GuardRejections() *prometheus.CounterVec { return m.rejections }

// Starts returns the start counter.
func (m *Metrics) Starts() *prometheus.CounterVec { return m.starts }
