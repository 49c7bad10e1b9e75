package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook dispatcher metrics
	WebhookTurnsTotal      *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Query pipeline metrics
	QueryTurnsTotal       *prometheus.CounterVec
	IntentClassifications *prometheus.CounterVec

	// Collaborator metrics (scraper, dialog engine, booking API, LLM)
	CollaboratorCallsTotal   *prometheus.CounterVec
	CollaboratorDurationSecs *prometheus.HistogramVec

	// Session store metrics
	SessionStoreSize    prometheus.Gauge
	SessionEvictedTotal prometheus.Counter

	// Sub-flow context metrics
	ContextDirectivesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		WebhookTurnsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusbot_webhook_turns_total",
				Help: "Total number of webhook turns by intent and status",
			},
			[]string{"intent", "status"}, // status: success, degraded, invalid
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campusbot_webhook_duration_seconds",
				Help:    "Webhook turn duration in seconds by intent",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"intent"},
		),

		QueryTurnsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusbot_query_turns_total",
				Help: "Total number of /query turns by resolution path",
			},
			[]string{"path"}, // path: retrieval, dialog, open_context
		),

		IntentClassifications: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusbot_intent_classifications_total",
				Help: "Total number of intent classifications by outcome",
			},
			[]string{"outcome"}, // outcome: matched, below_threshold, unavailable
		),

		CollaboratorCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusbot_collaborator_calls_total",
				Help: "Total number of external collaborator calls by target and status",
			},
			[]string{"target", "status"}, // target: scraper, database, booking, dialog, llm
		),

		CollaboratorDurationSecs: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campusbot_collaborator_duration_seconds",
				Help:    "External collaborator call duration in seconds by target",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"target"},
		),

		SessionStoreSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "campusbot_session_store_size",
				Help: "Current number of sessions held in the context store",
			},
		),

		SessionEvictedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "campusbot_sessions_evicted_total",
				Help: "Total number of sessions evicted by the TTL sweeper",
			},
		),

		ContextDirectivesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campusbot_context_directives_total",
				Help: "Total number of output context directives by context name and action",
			},
			[]string{"context", "action"}, // action: open, close
		),
	}

	return m
}

// RecordWebhookTurn records a webhook dispatcher turn
func (m *Metrics) RecordWebhookTurn(intent, status string, duration float64) {
	m.WebhookTurnsTotal.WithLabelValues(intent, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(intent).Observe(duration)
}

// RecordQueryTurn records a /query turn by resolution path
func (m *Metrics) RecordQueryTurn(path string) {
	m.QueryTurnsTotal.WithLabelValues(path).Inc()
}

// RecordClassification records an intent classification outcome
func (m *Metrics) RecordClassification(outcome string) {
	m.IntentClassifications.WithLabelValues(outcome).Inc()
}

// RecordCollaboratorCall records an external collaborator call
func (m *Metrics) RecordCollaboratorCall(target, status string, duration float64) {
	m.CollaboratorCallsTotal.WithLabelValues(target, status).Inc()
	m.CollaboratorDurationSecs.WithLabelValues(target).Observe(duration)
}

// RecordContextDirective records an output context directive
func (m *Metrics) RecordContextDirective(context, action string) {
	m.ContextDirectivesTotal.WithLabelValues(context, action).Inc()
}

// SetSessionStoreSize updates the session store size gauge
func (m *Metrics) SetSessionStoreSize(n int) {
	m.SessionStoreSize.Set(float64(n))
}

// RecordSessionEvictions adds to the eviction counter
func (m *Metrics) RecordSessionEvictions(n int) {
	m.SessionEvictedTotal.Add(float64(n))
}
