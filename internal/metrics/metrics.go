// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

/*
Package metrics registers the Prometheus collectors exported at /metrics.

Collectors are package-level and registered on the default registry through
promauto. Record* helpers keep label handling in one place:

	metrics.RecordAPIRequest(r.Method, route, "200", time.Since(start))
	metrics.RecordDBQuery("find", "events", d, err)
	metrics.RecordAuthzDecision(metrics.AuthzAllowed)
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"operation", "collection"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"limiter"},
	)

	// Authorization and sessions
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions by result",
		},
		[]string{"result"},
	)

	SessionRehydrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_rehydrations_total",
			Help: "Session principal rehydrations by outcome",
		},
		[]string{"outcome"},
	)

	// Registrations
	RegistrationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_created_total",
			Help: "Registrations accepted by registrant kind",
		},
		[]string{"kind"},
	)

	RegistrationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_rejected_total",
			Help: "Registrations refused by reason",
		},
		[]string{"reason"},
	)

	// Email
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Outbound emails by result",
		},
		[]string{"result"}, // sent, failed, dropped
	)

	EmailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "email_queue_depth",
			Help: "Messages waiting in the email dispatch queue",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Uploads
	PresignRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_presign_requests_total",
			Help: "Presigned upload URL requests by result",
		},
		[]string{"result"},
	)
)

// Authorization decision labels.
const (
	AuthzAllowed         = "allowed"
	AuthzPublic          = "public"
	AuthzUnauthenticated = "unauthenticated"
	AuthzDenied          = "denied"
)

// RecordDBQuery records one document store operation.
func RecordDBQuery(operation, collection string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, collection).Inc()
	}
}

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the named limiter.
func RecordRateLimitHit(limiter string) {
	APIRateLimitHits.WithLabelValues(limiter).Inc()
}

// RecordAuthzDecision counts an authorization outcome.
func RecordAuthzDecision(result string) {
	AuthzDecisions.WithLabelValues(result).Inc()
}

// RecordSessionRehydration counts a session lookup outcome such as
// "ok", "anonymous", "no_user" or "error".
func RecordSessionRehydration(outcome string) {
	SessionRehydrations.WithLabelValues(outcome).Inc()
}

// RecordRegistration counts an accepted registration.
func RecordRegistration(kind string) {
	RegistrationsCreated.WithLabelValues(kind).Inc()
}

// RecordRegistrationRejected counts a refused registration.
func RecordRegistrationRejected(reason string) {
	RegistrationsRejected.WithLabelValues(reason).Inc()
}

// RecordEmail counts an email outcome.
func RecordEmail(result string) {
	EmailsSent.WithLabelValues(result).Inc()
}

// SetEmailQueueDepth reports the current dispatch backlog.
func SetEmailQueueDepth(n int) {
	EmailQueueDepth.Set(float64(n))
}

// RecordCircuitBreakerTransition records a breaker state change. States are
// gobreaker state names: closed, half-open, open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordPresign counts a presign request outcome.
func RecordPresign(result string) {
	PresignRequests.WithLabelValues(result).Inc()
}
