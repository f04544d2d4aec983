package metrics

import "github.com/prometheus/client_golang/prometheus"

// SyncLatencyMetric is the fully-qualified name of the sync latency
// histogram; the dashboard snapshots it from the gatherer.
const SyncLatencyMetric = "kiosk_sync_duration_seconds"

// KioskMetrics exposes counters/histograms for sync and status-change flows.
type KioskMetrics struct {
	ingestTotal       *prometheus.CounterVec
	statusChangeTotal *prometheus.CounterVec
	syncLatency       prometheus.Histogram
}

func NewKioskMetrics(reg prometheus.Registerer) *KioskMetrics {
	m := &KioskMetrics{
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "sync",
			Name:      "ingest_total",
			Help:      "Ingestion outcomes for upstream appointment records",
		}, []string{"result"}),
		statusChangeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiosk",
			Subsystem: "appointments",
			Name:      "status_change_total",
			Help:      "Staff-initiated status change outcomes",
		}, []string{"status", "result"}),
		syncLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kiosk",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Latency of full day-schedule sync runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.ingestTotal, m.statusChangeTotal, m.syncLatency)
	return m
}

// ObserveIngest records one ingestion outcome: created, noop or failed.
func (m *KioskMetrics) ObserveIngest(result string) {
	if m == nil {
		return
	}
	m.ingestTotal.WithLabelValues(result).Inc()
}

// ObserveStatusChange records one status-change outcome: ok, rejected or failed.
func (m *KioskMetrics) ObserveStatusChange(status, result string) {
	if m == nil {
		return
	}
	m.statusChangeTotal.WithLabelValues(status, result).Inc()
}

// ObserveSyncDuration records the wall time of one sync run.
func (m *KioskMetrics) ObserveSyncDuration(seconds float64) {
	if m == nil {
		return
	}
	m.syncLatency.Observe(seconds)
}
