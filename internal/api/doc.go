// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

/*
Package api provides the HTTP surface of VolunteerHub.

Routes are declared once in a table (router.go). The same table builds the
chi router and feeds authz.CollectPermissions, so every guarded route has a
permission token derived from its method and pattern, for example
"GET /users/me" becomes "users.me.get".

Request flow:

	RequestID -> RealIP -> Recoverer -> AccessLog -> PrometheusMetrics
	  -> CORS -> rate limit -> session Authenticate -> authz Require(token)
	  -> handler

Handlers scope every storage query with authz.ScopedQuery so the caller's
role filters are merged into the criteria before the query reaches the
database. Responses use the envelope in response.go; failures are mapped to
status codes in a single place (errors.go).

Dependencies are held by Handler and passed in explicitly from cmd/server or
from tests. Nothing is registered globally.
*/
package api
