// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/volunteerhub/internal/database"
)

func TestCORS(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		origin string
		allow  bool
	}{
		{"http://localhost:3000", true},
		{"https://localhost:8080", true},
		{"http://localhost:30000", false},
		{"http://evil.example.org", false},
		{"http://localhost:3000.evil.org", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/events", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tt.allow && got != tt.origin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.allow && got != "" {
				t.Errorf("Allow-Origin = %q, want none", got)
			}
			if tt.allow && rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("credentials should be allowed")
			}
		})
	}
}

func TestNewChiMiddleware_InvalidOrigin(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSOrigin = "("
	if _, err := NewChiMiddleware(cfg); err == nil {
		t.Error("expected error for invalid origin pattern")
	}
}

func TestNewChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	sec := testSecurityConfig()
	sec.RateLimitReqs = 7
	sec.LoginLimitReqs = 2
	cfg := NewChiMiddlewareConfig(sec)
	if cfg.RateLimitRequests != 7 || cfg.LoginLimitRequests != 2 || !cfg.RateLimitDisabled {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.LoginLimitWindow <= 0 {
		t.Error("login window should keep its default")
	}
}

func TestRateLimitLogin(t *testing.T) {
	t.Parallel()

	sec := testSecurityConfig()
	sec.RateLimitDisabled = false
	sec.LoginLimitReqs = 2
	s := newTestServerWith(t, database.NewMemoryStore(), sec, nil)

	body := LoginRequest{Email: "nobody@example.org", Password: "whatever-it-is"}
	for i := 0; i < 2; i++ {
		expectStatus(t, s.do(t, http.MethodPost, "/auth/login", body), http.StatusUnauthorized)
	}
	expectError(t, s.do(t, http.MethodPost, "/auth/login", body), http.StatusTooManyRequests, ErrCodeTooManyRequests, "")

	// Other routes keep their own budget.
	expectStatus(t, s.do(t, http.MethodGet, "/events", nil), http.StatusOK)
}
