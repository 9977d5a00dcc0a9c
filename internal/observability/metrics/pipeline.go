package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics tracks triage outcomes across api and worker processes.
type PipelineMetrics struct {
	registry *prometheus.Registry

	classificationsTotal *prometheus.CounterVec
	oracleDuration       *prometheus.HistogramVec
	degradedTotal        *prometheus.CounterVec
	reclassifyTotal      *prometheus.CounterVec
	reclassifyInFlight   prometheus.Gauge
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	classificationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Total completed classifications by resulting category.",
		},
		[]string{"service", "result"},
	)
	oracleDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "oracle",
			Name:      "request_duration_seconds",
			Help:      "Oracle round-trip duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	degradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "pipeline",
			Name:      "degraded_total",
			Help:      "Total submissions persisted without a usable oracle result.",
		},
		[]string{"service"},
	)
	reclassifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "worker",
			Name:      "reclassify_total",
			Help:      "Total reclassification attempts by status.",
		},
		[]string{"service", "status"},
	)
	reclassifyInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "triage",
			Subsystem: "worker",
			Name:      "reclassify_in_flight",
			Help:      "Number of in-flight reclassification tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(classificationsTotal, oracleDuration, degradedTotal, reclassifyTotal, reclassifyInFlight)

	return &PipelineMetrics{
		registry:             registry,
		classificationsTotal: classificationsTotal,
		oracleDuration:       oracleDuration,
		degradedTotal:        degradedTotal,
		reclassifyTotal:      reclassifyTotal,
		reclassifyInFlight:   reclassifyInFlight,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) ObserveOracleCall(service string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.oracleDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) RecordClassification(service, result string) {
	m.classificationsTotal.WithLabelValues(service, result).Inc()
}

func (m *PipelineMetrics) RecordDegraded(service string) {
	m.degradedTotal.WithLabelValues(service).Inc()
}

func (m *PipelineMetrics) StartReclassify() {
	m.reclassifyInFlight.Inc()
}

func (m *PipelineMetrics) FinishReclassify(service string, err error) {
	m.reclassifyInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.reclassifyTotal.WithLabelValues(service, status).Inc()
}
