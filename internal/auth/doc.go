// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package auth provides cookie sessions and principal rehydration.
//
// A login creates a Session holding only the user id. The browser receives
// an HS256-signed cookie carrying the session id. On each request
// SessionMiddleware.Authenticate verifies the cookie, loads the session,
// and asks the Serializer to rebuild the authz.Principal from the current
// user, role, permission and filter documents.
//
// Session backends:
//
//   - memory: single process, lost on restart
//   - badger: durable on local disk (dgraph-io/badger/v4)
//   - redis:  shared between instances (redis/go-redis/v9)
//
// Failures are not fatal to the request. An unverifiable cookie, unknown
// session or expired session leaves the request anonymous; a session whose
// user has been deleted is destroyed.
package auth
