// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package authz

import (
	"net/http"

	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/metrics"
)

// Denial messages written on 401.
const (
	MsgAuthenticationRequired = "authentication required"
	MsgPermissionDenied       = "permission denied"
)

// DeniedFunc writes a rejection response.
type DeniedFunc func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware gates routes on the request principal.
type Middleware struct {
	onDenied DeniedFunc
}

// NewMiddleware creates an authorization middleware. A nil onDenied writes
// a plain-text response.
func NewMiddleware(onDenied DeniedFunc) *Middleware {
	if onDenied == nil {
		onDenied = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{onDenied: onDenied}
}

// Require allows a request when:
//
//   - token is PublicToken (anyone)
//   - token is "" and a principal is present
//   - the principal holds token
//
// Allowed authenticated requests get the principal's filters attached to
// their context.
func (m *Middleware) Require(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p := PrincipalFromContext(ctx)

			switch {
			case token == PublicToken && p == nil:
				m.record(r, token, metrics.AuthzPublic)
				next.ServeHTTP(w, r)
				return
			case p == nil:
				m.record(r, token, metrics.AuthzUnauthenticated)
				m.onDenied(w, r, http.StatusUnauthorized, MsgAuthenticationRequired)
				return
			case token != "" && token != PublicToken && !p.HasPermission(token):
				m.record(r, token, metrics.AuthzDenied)
				m.onDenied(w, r, http.StatusUnauthorized, MsgPermissionDenied)
				return
			}

			m.record(r, token, metrics.AuthzAllowed)
			next.ServeHTTP(w, r.WithContext(WithFilters(ctx, p.HashFilters)))
		})
	}
}

func (m *Middleware) record(r *http.Request, token, result string) {
	metrics.RecordAuthzDecision(result)
	logging.Ctx(r.Context()).Debug().
		Str("token", token).
		Str("result", result).
		Str("path", r.URL.Path).
		Msg("Authorization decision")
}
