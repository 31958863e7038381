// Package metrics provides Prometheus metrics for the rowscore stream.
//
// A scorer process is short lived and has no listener, so metrics are kept in
// a private registry and exported once at exit through the node_exporter
// textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stream error kinds used as the "kind" label.
const (
	KindTruncated = "truncated"
	KindRead      = "read"
	KindWrite     = "write"
	KindCanceled  = "canceled"
)

// Manager owns every collector of one scorer process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Row throughput
	rowsTotal     *prometheus.CounterVec
	rowsTruncated *prometheus.CounterVec
	rowsDropped   *prometheus.CounterVec
	rowDuration   *prometheus.HistogramVec

	// Stream I/O
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
	streamErrors *prometheus.CounterVec

	// Run summary
	lastRunRows      *prometheus.GaugeVec
	lastRunTimestamp prometheus.Gauge
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rowscore",
		subsystem:        "stream",
		histogramBuckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2},
		constLabels:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_total",
		Help:        "Total number of rows scored and written",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.rowsTruncated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_truncated_total",
		Help:        "Rows whose trailing fields ended mid-record",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_dropped_total",
		Help:        "Truncated rows that produced no output",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.rowDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "row_duration_seconds",
		Help:        "Time spent decoding, scoring and flushing one row",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.bytesRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "bytes_read_total",
		Help:        "Bytes consumed from the input stream",
		ConstLabels: m.constLabels,
	})

	m.bytesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "bytes_written_total",
		Help:        "Bytes written to the output stream",
		ConstLabels: m.constLabels,
	})

	m.streamErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Stream failures by mode and kind",
		ConstLabels: m.constLabels,
	}, []string{"mode", "kind"})

	m.lastRunRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_rows",
		Help:        "Rows scored by the most recent run",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the most recent run finished",
		ConstLabels: m.constLabels,
	})
}

// RecordRow records one scored row and its end-to-end duration.
func (m *Manager) RecordRow(mode string, d time.Duration) {
	m.rowsTotal.WithLabelValues(mode).Inc()
	m.rowDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RecordTruncated increments the truncated row counter.
func (m *Manager) RecordTruncated(mode string) {
	m.rowsTruncated.WithLabelValues(mode).Inc()
}

// RecordDropped increments the dropped row counter.
func (m *Manager) RecordDropped(mode string) {
	m.rowsDropped.WithLabelValues(mode).Inc()
}

// RecordError records a stream failure.
func (m *Manager) RecordError(mode, kind string) {
	m.streamErrors.WithLabelValues(mode, kind).Inc()
}

// AddBytesRead adds n to the bytes read counter.
func (m *Manager) AddBytesRead(n int64) {
	if n > 0 {
		m.bytesRead.Add(float64(n))
	}
}

// AddBytesWritten adds n to the bytes written counter.
func (m *Manager) AddBytesWritten(n int64) {
	if n > 0 {
		m.bytesWritten.Add(float64(n))
	}
}

// RecordRun stores the summary of a finished run.
func (m *Manager) RecordRun(mode string, rows uint64, finished time.Time) {
	m.lastRunRows.WithLabelValues(mode).Set(float64(rows))
	m.lastRunTimestamp.Set(float64(finished.Unix()))
}

// Registry returns the registry the collectors live in.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every collected metric to path in the Prometheus text
// format. The write is atomic (temp file + rename).
func (m *Manager) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
