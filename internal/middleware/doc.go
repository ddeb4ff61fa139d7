// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

/*
Package middleware provides HTTP infrastructure middleware shared by every
route: request ID propagation, Prometheus instrumentation and access logging.

The router installs them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests with the matched chi route pattern
(for example "/events/{id}") rather than the raw path, so identifiers never
become label values. Requests that match no route are recorded as
"unmatched".

See Also:

  - internal/auth: session middleware
  - internal/authz: permission middleware
  - internal/metrics: metric definitions
*/
package middleware
