package server

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Brownie44l1/minihttp/internal/response"
)

const metricsNamespace = "minihttp"

// Metrics holds server runtime metrics. Prometheus collectors are exported
// through the registerer passed to NewMetrics; the atomic counters back
// Snapshot.
type Metrics struct {
	RequestsTotal     atomic.Int64
	ActiveConnections atomic.Int64
	ParseErrorsTotal  atomic.Int64
	Errors4xx         atomic.Int64
	Errors5xx         atomic.Int64
	TotalLatencyNs    atomic.Int64

	requests    *prometheus.CounterVec
	parseErrors *prometheus.CounterVec
	active      prometheus.Gauge
	duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Responses sent, by status code.",
		}, []string{"code"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "parse_errors_total",
			Help:      "Request lines rejected by the parser, by error kind.",
		}, []string{"kind"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_connections",
			Help:      "Connections currently being served.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Time from accept to response sent.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.parseErrors, m.active, m.duration)
	}

	return m
}

// RecordRequest records a completed request
func (m *Metrics) RecordRequest(code response.StatusCode, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	if code.IsClientError() {
		m.Errors4xx.Add(1)
	} else if code.IsServerError() {
		m.Errors5xx.Add(1)
	}

	m.requests.WithLabelValues(code.String()).Inc()
	m.duration.Observe(duration.Seconds())
}

func (m *Metrics) RecordParseError(kind string) {
	m.ParseErrorsTotal.Add(1)
	m.parseErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ConnOpened() {
	m.ActiveConnections.Add(1)
	m.active.Inc()
}

func (m *Metrics) ConnClosed() {
	m.ActiveConnections.Add(-1)
	m.active.Dec()
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}

	avgNs := m.TotalLatencyNs.Load() / totalReqs
	return time.Duration(avgNs)
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	RequestsTotal     int64         `json:"requests_total"`
	ActiveConnections int64         `json:"active_connections"`
	ParseErrorsTotal  int64         `json:"parse_errors_total"`
	Errors4xx         int64         `json:"errors_4xx"`
	Errors5xx         int64         `json:"errors_5xx"`
	AverageLatency    time.Duration `json:"average_latency_ns"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:     m.RequestsTotal.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		ParseErrorsTotal:  m.ParseErrorsTotal.Load(),
		Errors4xx:         m.Errors4xx.Load(),
		Errors5xx:         m.Errors5xx.Load(),
		AverageLatency:    m.AverageLatency(),
	}
}
