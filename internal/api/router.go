// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/middleware"
)

// route is one entry of the HTTP surface.
type route struct {
	method  string
	pattern string
	access  authz.Access
	handle  func(*Handler, http.ResponseWriter, *http.Request)
	// strict applies the login rate limit on top of the API limit.
	strict bool
}

const (
	none   = authz.AccessNone
	public = authz.AccessPublic
	authed = authz.AccessAuthenticated
	perm   = authz.AccessPermission
)

var routeTable = []route{
	{method: http.MethodGet, pattern: "/ping", access: none, handle: (*Handler).Ping},

	{method: http.MethodPost, pattern: "/auth/login", access: public, handle: (*Handler).Login, strict: true},
	{method: http.MethodPost, pattern: "/auth/logout", access: authed, handle: (*Handler).Logout},
	{method: http.MethodPost, pattern: "/auth/register", access: public, handle: (*Handler).Register},
	{method: http.MethodGet, pattern: "/auth/session", access: authed, handle: (*Handler).Session},

	{method: http.MethodGet, pattern: "/users", access: perm, handle: (*Handler).ListUsers},
	{method: http.MethodPost, pattern: "/users", access: perm, handle: (*Handler).CreateUser},
	{method: http.MethodGet, pattern: "/users/me", access: perm, handle: (*Handler).GetMe},
	{method: http.MethodGet, pattern: "/users/{id}", access: perm, handle: (*Handler).GetUser},
	{method: http.MethodPatch, pattern: "/users/{id}", access: perm, handle: (*Handler).UpdateUser},
	{method: http.MethodDelete, pattern: "/users/{id}", access: perm, handle: (*Handler).DeleteUser},

	{method: http.MethodGet, pattern: "/roles", access: perm, handle: (*Handler).ListRoles},
	{method: http.MethodPost, pattern: "/roles", access: perm, handle: (*Handler).CreateRole},
	{method: http.MethodGet, pattern: "/roles/{id}", access: perm, handle: (*Handler).GetRole},
	{method: http.MethodPatch, pattern: "/roles/{id}", access: perm, handle: (*Handler).UpdateRole},
	{method: http.MethodDelete, pattern: "/roles/{id}", access: perm, handle: (*Handler).DeleteRole},

	{method: http.MethodGet, pattern: "/filters", access: perm, handle: (*Handler).ListFilters},
	{method: http.MethodPost, pattern: "/filters", access: perm, handle: (*Handler).CreateFilter},
	{method: http.MethodGet, pattern: "/filters/{id}", access: perm, handle: (*Handler).GetFilter},
	{method: http.MethodPatch, pattern: "/filters/{id}", access: perm, handle: (*Handler).UpdateFilter},
	{method: http.MethodDelete, pattern: "/filters/{id}", access: perm, handle: (*Handler).DeleteFilter},

	{method: http.MethodGet, pattern: "/permissions", access: perm, handle: (*Handler).ListPermissions},
	{method: http.MethodGet, pattern: "/permissions/{id}", access: perm, handle: (*Handler).GetPermission},
	{method: http.MethodDelete, pattern: "/permissions/{id}", access: perm, handle: (*Handler).DeletePermission},

	{method: http.MethodGet, pattern: "/events", access: public, handle: (*Handler).ListEvents},
	{method: http.MethodPost, pattern: "/events", access: perm, handle: (*Handler).CreateEvent},
	{method: http.MethodGet, pattern: "/events/{id}", access: public, handle: (*Handler).GetEvent},
	{method: http.MethodPatch, pattern: "/events/{id}", access: perm, handle: (*Handler).UpdateEvent},
	{method: http.MethodDelete, pattern: "/events/{id}", access: perm, handle: (*Handler).DeleteEvent},
	{method: http.MethodGet, pattern: "/events/{eventId}/register", access: perm, handle: (*Handler).ListRegistrations},
	{method: http.MethodPost, pattern: "/events/{eventId}/register", access: public, handle: (*Handler).CreateRegistration},
	{method: http.MethodPatch, pattern: "/events/{eventId}/register/{registrationId}", access: perm, handle: (*Handler).UpdateRegistration},
	{method: http.MethodDelete, pattern: "/events/{eventId}/register/{registrationId}", access: perm, handle: (*Handler).DeleteRegistration},

	{method: http.MethodGet, pattern: "/registrations", access: public, handle: (*Handler).RegistrationCounts},

	{method: http.MethodGet, pattern: "/pages", access: public, handle: (*Handler).ListPages},
	{method: http.MethodPost, pattern: "/pages", access: perm, handle: (*Handler).CreatePage},
	{method: http.MethodGet, pattern: "/pages/{id}", access: public, handle: (*Handler).GetPage},
	{method: http.MethodPatch, pattern: "/pages/{id}", access: perm, handle: (*Handler).UpdatePage},
	{method: http.MethodDelete, pattern: "/pages/{id}", access: perm, handle: (*Handler).DeletePage},

	{method: http.MethodGet, pattern: "/uploads", access: perm, handle: (*Handler).ListUploads},
	{method: http.MethodPost, pattern: "/uploads", access: perm, handle: (*Handler).CreateUpload},
	{method: http.MethodPost, pattern: "/uploads/presign", access: perm, handle: (*Handler).PresignUpload},
	{method: http.MethodGet, pattern: "/uploads/{id}", access: perm, handle: (*Handler).GetUpload},
	{method: http.MethodPatch, pattern: "/uploads/{id}", access: perm, handle: (*Handler).UpdateUpload},
	{method: http.MethodDelete, pattern: "/uploads/{id}", access: perm, handle: (*Handler).DeleteUpload},
}

// Endpoints returns the HTTP surface for the permission catalog.
func Endpoints() []authz.Endpoint {
	out := make([]authz.Endpoint, len(routeTable))
	for i, rt := range routeTable {
		out[i] = authz.Endpoint{Method: rt.method, Pattern: rt.pattern, Access: rt.access}
	}
	return out
}

// Router builds the chi router for a Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authz         *authz.Middleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authz: authz.NewMiddleware(func(w http.ResponseWriter, r *http.Request, status int, message string) {
			WriteError(w, r, status, ErrCodeUnauthorized, message)
		}),
	}
}

func (router *Router) bind(rt route) http.HandlerFunc {
	h := router.handler
	return func(w http.ResponseWriter, r *http.Request) {
		rt.handle(h, w, r)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		if sessions := router.handler.Sessions(); sessions != nil {
			r.Use(sessions.Authenticate)
		}

		for _, rt := range routeTable {
			if rt.access == authz.AccessNone {
				continue
			}
			chain := []func(http.Handler) http.Handler{}
			if rt.strict {
				chain = append(chain, router.chiMiddleware.RateLimitLogin())
			}
			chain = append(chain, router.authz.Require(authz.Endpoint{
				Method: rt.method, Pattern: rt.pattern, Access: rt.access,
			}.Token()))
			r.With(chain...).Method(rt.method, rt.pattern, router.bind(rt))
		}
	})

	for _, rt := range routeTable {
		if rt.access == authz.AccessNone {
			r.Method(rt.method, rt.pattern, router.bind(rt))
		}
	}

	return r
}
