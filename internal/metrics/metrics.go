// Package metrics exposes Prometheus counters for stamping, the offline
// queue and exports.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles timesheet metrics. A nil *Metrics records nothing.
type Metrics struct {
	StampsTotal        *prometheus.CounterVec
	StampFailuresTotal *prometheus.CounterVec
	QueueDepth         prometheus.Gauge
	QueueReplaysTotal  *prometheus.CounterVec
	ExportsTotal       *prometheus.CounterVec
}

// New constructs metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StampsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timesheet_stamps_total",
				Help: "Total applied stamps by outcome",
			},
			[]string{"outcome"},
		),
		StampFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timesheet_stamp_failures_total",
				Help: "Total failed stamps by error kind",
			},
			[]string{"kind"},
		),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "timesheet_queue_depth",
			Help: "Stamps waiting in the offline queue",
		}),
		QueueReplaysTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timesheet_queue_replays_total",
				Help: "Queued stamps handled during replay by result",
			},
			[]string{"result"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timesheet_exports_total",
				Help: "Total rendered exports by format",
			},
			[]string{"format"},
		),
	}
	reg.MustRegister(
		m.StampsTotal,
		m.StampFailuresTotal,
		m.QueueDepth,
		m.QueueReplaysTotal,
		m.ExportsTotal,
	)
	return m
}

// ObserveStamp counts an applied or queued stamp.
func (m *Metrics) ObserveStamp(outcome string) {
	if m == nil {
		return
	}
	m.StampsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStampFailure counts a stamp that was neither applied nor queued.
func (m *Metrics) ObserveStampFailure(kind string) {
	if m == nil {
		return
	}
	m.StampFailuresTotal.WithLabelValues(kind).Inc()
}

// SetQueueDepth records the current queue length.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// ObserveReplay counts the outcome of one replay pass.
func (m *Metrics) ObserveReplay(replayed, dropped int, failed bool) {
	if m == nil {
		return
	}
	m.QueueReplaysTotal.WithLabelValues("replayed").Add(float64(replayed))
	m.QueueReplaysTotal.WithLabelValues("dropped").Add(float64(dropped))
	if failed {
		m.QueueReplaysTotal.WithLabelValues("failed").Inc()
	}
}

// ObserveExport counts a rendered export.
func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.WithLabelValues(format).Inc()
}
