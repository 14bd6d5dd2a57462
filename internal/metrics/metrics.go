// ABOUTME: Prometheus metrics for model calls, subtopic fan-out and the HTTP API
// ABOUTME: Methods are nil-safe so components can run without a registry
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harper/cdt-coder/internal/models"
)

// Metrics provides observability for the coding pipeline.
type Metrics struct {
	// Model call latencies by provider and result
	LLMLatency *prometheus.HistogramVec

	// Subtopic handler outcomes by topic and status
	SubtopicOutcomes *prometheus.CounterVec

	// Per-handler latencies by topic
	SubtopicLatency *prometheus.HistogramVec

	// Activated subtopics per topic activation
	ActivatedSubtopics *prometheus.HistogramVec

	// Full topic activation latency
	ActivationLatency *prometheus.HistogramVec

	// HTTP request latency by route and status
	HTTPLatency *prometheus.HistogramVec
}

// New registers every metric with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		LLMLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdtcoder_llm_call_duration_seconds",
			Help:    "Duration of model calls by provider and result",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider", "result"}), // result: "ok", "error"

		SubtopicOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cdtcoder_subtopic_outcomes_total",
			Help: "Subtopic handler outcomes by topic and status",
		}, []string{"topic", "status"}),

		SubtopicLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdtcoder_subtopic_duration_seconds",
			Help:    "Duration of individual subtopic handlers",
			Buckets: []float64{0.01, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"topic"}),

		ActivatedSubtopics: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdtcoder_activated_subtopics",
			Help:    "Number of subtopics activated per topic activation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}, []string{"topic"}),

		ActivationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdtcoder_topic_activation_duration_seconds",
			Help:    "Duration of a full topic activation including the fan-out",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"topic"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdtcoder_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveLLMCall records one model call.
func (m *Metrics) ObserveLLMCall(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.LLMLatency.WithLabelValues(provider, result).Observe(elapsed.Seconds())
}

// ObserveSubtopic records one handler outcome.
func (m *Metrics) ObserveSubtopic(topic, _ string, status models.OutcomeStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SubtopicOutcomes.WithLabelValues(topic, string(status)).Inc()
	m.SubtopicLatency.WithLabelValues(topic).Observe(elapsed.Seconds())
}

// ObserveActivation records one topic activation.
func (m *Metrics) ObserveActivation(topic string, activated int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ActivatedSubtopics.WithLabelValues(topic).Observe(float64(activated))
	m.ActivationLatency.WithLabelValues(topic).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPLatency.WithLabelValues(route, status).Observe(elapsed.Seconds())
}
