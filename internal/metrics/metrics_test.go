// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordDBQuery(t *testing.T) {
	before := counterValue(t, DBQueryErrors.WithLabelValues("find", "events"))

	RecordDBQuery("find", "events", 5*time.Millisecond, nil)
	RecordDBQuery("find", "events", 5*time.Millisecond, errors.New("connection refused"))

	if got := counterValue(t, DBQueryErrors.WithLabelValues("find", "events")) - before; got != 1 {
		t.Errorf("error counter delta = %v, want 1", got)
	}
}

func TestRecordAuthzDecision(t *testing.T) {
	before := testutil.ToFloat64(AuthzDecisions.WithLabelValues(AuthzDenied))
	RecordAuthzDecision(AuthzDenied)
	RecordAuthzDecision(AuthzDenied)
	if got := testutil.ToFloat64(AuthzDecisions.WithLabelValues(AuthzDenied)) - before; got != 2 {
		t.Errorf("denied delta = %v, want 2", got)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	RecordCircuitBreakerTransition("smtp", "closed", "open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("smtp")); got != 2 {
		t.Errorf("state gauge = %v, want 2 (open)", got)
	}
	RecordCircuitBreakerTransition("smtp", "open", "half-open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("smtp")); got != 1 {
		t.Errorf("state gauge = %v, want 1 (half-open)", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint: %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
