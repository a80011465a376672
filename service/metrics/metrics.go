package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Provider RPC metrics
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec

	// Donation lifecycle metrics
	donationsSubmittedTotal *prometheus.CounterVec
	donationConfirmWait     *prometheus.HistogramVec

	// Read/refresh metrics
	feedRefreshesTotal *prometheus.CounterVec
	profileReadsTotal  *prometheus.CounterVec

	// Event publishing metrics
	eventsPublishedTotal *prometheus.CounterVec
	eventPublishDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_rpc_calls_total",
				Help: "Total number of wallet provider RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_rpc_call_duration_seconds",
				Help:    "Duration of wallet provider RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method", "endpoint"},
		),

		donationsSubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_submitted_total",
				Help: "Total number of donation submissions by terminal outcome",
			},
			[]string{"outcome"},
		),
		donationConfirmWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "donation_confirm_wait_seconds",
				Help:    "Time from submission acknowledgement to observed receipt",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"outcome"},
		),

		feedRefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_refreshes_total",
				Help: "Total number of donation feed refreshes",
			},
			[]string{"status"},
		),
		profileReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_reads_total",
				Help: "Total number of account profile resolutions",
			},
			[]string{"status"},
		),

		eventsPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donation_events_published_total",
				Help: "Total number of donation events published to NATS",
			},
			[]string{"subject", "status"},
		),
		eventPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "donation_event_publish_duration_seconds",
				Help:    "Duration of NATS publish operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"subject"},
		),
	}
}

// RecordRPCCall records a provider RPC call with duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, duration float64) {
	m.rpcCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.rpcCallDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordDonationSubmitted records a terminal submission outcome
// (confirmed, reverted, rejected, timeout, error).
func (m *Metrics) RecordDonationSubmitted(outcome string) {
	m.donationsSubmittedTotal.WithLabelValues(outcome).Inc()
}

// RecordConfirmWait records how long a submission waited for its receipt.
func (m *Metrics) RecordConfirmWait(outcome string, duration float64) {
	m.donationConfirmWait.WithLabelValues(outcome).Observe(duration)
}

// RecordFeedRefresh records a feed refresh attempt.
func (m *Metrics) RecordFeedRefresh(err error) {
	m.feedRefreshesTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordProfileRead records a profile resolution attempt.
func (m *Metrics) RecordProfileRead(err error) {
	m.profileReadsTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordEventPublish records a NATS publish operation.
func (m *Metrics) RecordEventPublish(subject, status string, duration float64) {
	m.eventsPublishedTotal.WithLabelValues(subject, status).Inc()
	m.eventPublishDuration.WithLabelValues(subject).Observe(duration)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
