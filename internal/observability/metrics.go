package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/cannon-backend/internal/platform/envutil"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// Metrics holds the process collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	stageLatency *prometheus.HistogramVec
	stageResults *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	pipelineRuns *prometheus.CounterVec

	upstreamLatency *prometheus.HistogramVec
	llmRequests     *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool { return envutil.Bool("METRICS_ENABLED", false) }

func Current() *Metrics { return instance }

// Init registers collectors once per process. Returns nil when METRICS_ENABLED is off.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds an unshared set of collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cannon_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cannon_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cannon_api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cannon_pipeline_stage_duration_seconds",
			Help:    "Analysis pipeline stage latency.",
			Buckets: []float64{0.01, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage", "status"}),
		stageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cannon_pipeline_stage_total",
			Help: "Analysis pipeline stage outcomes (ok, soft_fail, retry).",
		}, []string{"stage", "status"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cannon_pipeline_fallback_total",
			Help: "Pipeline runs that returned the fallback analysis.",
		}, []string{"reason"}),
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cannon_pipeline_runs_total",
			Help: "Pipeline runs by input kind and strategy.",
		}, []string{"kind", "strategy"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cannon_upstream_request_duration_seconds",
			Help:    "Latency of calls to external services.",
			Buckets: []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"service", "endpoint", "status"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cannon_llm_requests_total",
			Help: "LLM requests by model and status.",
		}, []string{"model", "status"}),
	}
	reg.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.stageLatency, m.stageResults, m.fallbacks, m.pipelineRuns,
		m.upstreamLatency, m.llmRequests,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method, route, status = orUnknown(method), orUnknown(route), orUnknown(status)
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveStage(stage, status string, dur time.Duration) {
	if m == nil {
		return
	}
	stage, status = orUnknown(stage), orUnknown(status)
	m.stageResults.WithLabelValues(stage, status).Inc()
	if dur > 0 {
		m.stageLatency.WithLabelValues(stage, status).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(orUnknown(reason)).Inc()
}

func (m *Metrics) IncPipelineRun(kind, strategy string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(orUnknown(kind), orUnknown(strategy)).Inc()
}

func (m *Metrics) ObserveUpstream(service, endpoint, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(orUnknown(service), orUnknown(endpoint), orUnknown(status)).Observe(dur.Seconds())
}

func (m *Metrics) ObserveLLMRequest(model, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(orUnknown(model), orUnknown(status)).Inc()
	m.ObserveUpstream("llm", "/v1/responses", status, dur)
}
