// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/metrics"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORSOrigin is a regular expression matched against the whole Origin
	// header. Empty disables cross-origin access.
	CORSOrigin           string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// LoginLimitRequests applies per client IP to POST /auth/login.
	LoginLimitRequests int
	LoginLimitWindow   time.Duration
}

// DefaultChiMiddlewareConfig returns the development defaults.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSOrigin:           `https?://localhost:\d{1,4}`,
		CORSAllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		CORSAllowCredentials: true,
		CORSMaxAge:           86400,

		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		LoginLimitRequests: 5,
		LoginLimitWindow:   5 * time.Minute,
	}
}

// NewChiMiddlewareConfig derives middleware settings from the security
// section.
func NewChiMiddlewareConfig(cfg config.SecurityConfig) *ChiMiddlewareConfig {
	c := DefaultChiMiddlewareConfig()
	c.CORSOrigin = cfg.CORSOrigin
	if cfg.RateLimitReqs > 0 {
		c.RateLimitRequests = cfg.RateLimitReqs
	}
	if cfg.RateLimitWindow > 0 {
		c.RateLimitWindow = cfg.RateLimitWindow
	}
	if cfg.LoginLimitReqs > 0 {
		c.LoginLimitRequests = cfg.LoginLimitReqs
	}
	c.RateLimitDisabled = cfg.RateLimitDisabled
	return c
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a middleware factory. The CORS origin pattern
// must compile.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) (*ChiMiddleware, error) {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	allowOrigin := func(*http.Request, string) bool { return false }
	if cfg.CORSOrigin != "" {
		re, err := regexp.Compile(`^(?:` + cfg.CORSOrigin + `)$`)
		if err != nil {
			return nil, fmt.Errorf("compile cors origin pattern: %w", err)
		}
		allowOrigin = func(_ *http.Request, origin string) bool {
			return re.MatchString(origin)
		}
	}

	corsHandler := cors.Handler(cors.Options{
		AllowOriginFunc:  allowOrigin,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	})

	return &ChiMiddleware{config: cfg, cors: corsHandler}, nil
}

// CORS returns the CORS middleware. It must run before routing so that
// preflight requests are answered.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

func passthrough(next http.Handler) http.Handler { return next }

// limitHandler answers rejected requests with the JSON envelope.
func limitHandler(limiter string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordRateLimitHit(limiter)
		WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many requests, please try again later")
	}
}

// RateLimit is the per-IP limit applied to every API route.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitHandler("api")),
	)
}

// RateLimitLogin is the strict per-IP limit for login attempts.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(
		m.config.LoginLimitRequests,
		m.config.LoginLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitHandler("login")),
	)
}

// APISecurityHeaders sets the response headers every API response carries.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
