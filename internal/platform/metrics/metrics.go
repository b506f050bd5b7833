package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Deletions           *prometheus.CounterVec
	CascadeStepFailures *prometheus.CounterVec
	AuthzDenied         *prometheus.CounterVec
	IdentityRetryLayer  *prometheus.CounterVec
	AgentVerifications  *prometheus.CounterVec
	OrphanCleanups      prometheus.Counter
	CounterReleases     prometheus.Counter
	DeletionDuration    prometheus.Histogram
	EndpointLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Deletions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doorway_account_deletions_total",
			Help: "Total number of account deletion runs, labeled by outcome",
		}, []string{"status"}),
		CascadeStepFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doorway_cascade_step_failures_total",
			Help: "Total number of failed cascade steps, labeled by resource",
		}, []string{"resource"}),
		AuthzDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doorway_authorization_denied_total",
			Help: "Total number of denied gated operations, labeled by reason",
		}, []string{"reason"}),
		IdentityRetryLayer: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doorway_identity_delete_layer_total",
			Help: "Identity deletions resolved per retry layer",
		}, []string{"layer"}),
		AgentVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doorway_agent_verifications_total",
			Help: "Total number of agent badge toggles, labeled by action",
		}, []string{"action"}),
		OrphanCleanups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doorway_orphan_cleanups_total",
			Help: "Total number of identity-only orphan cleanups",
		}),
		CounterReleases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doorway_promo_counter_releases_total",
			Help: "Total number of promo counter decrements on account removal",
		}),
		DeletionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "doorway_account_deletion_duration_seconds",
			Help:    "Duration of full deletion cascades in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doorway_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementDeletion records a deletion run outcome.
func (m *Metrics) IncrementDeletion(status string) {
	m.Deletions.WithLabelValues(status).Inc()
}

// IncrementCascadeFailure records a failed cascade step for a resource.
func (m *Metrics) IncrementCascadeFailure(resource string) {
	m.CascadeStepFailures.WithLabelValues(resource).Inc()
}

// IncrementAuthzDenied records a denied gated operation.
func (m *Metrics) IncrementAuthzDenied(reason string) {
	m.AuthzDenied.WithLabelValues(reason).Inc()
}

// IncrementIdentityLayer records which retry layer resolved an identity deletion.
func (m *Metrics) IncrementIdentityLayer(layer string) {
	m.IdentityRetryLayer.WithLabelValues(layer).Inc()
}

// IncrementVerification records an agent badge toggle.
func (m *Metrics) IncrementVerification(action string) {
	m.AgentVerifications.WithLabelValues(action).Inc()
}

// ObserveDeletionDuration records the duration of a deletion run.
func (m *Metrics) ObserveDeletionDuration(seconds float64) {
	m.DeletionDuration.Observe(seconds)
}

// ObserveEndpointLatency records the latency for a given endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
