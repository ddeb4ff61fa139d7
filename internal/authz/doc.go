// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package authz implements role, permission and filter based authorization.
//
// # Model
//
// Every guarded route is described by an Endpoint. Routes whose access is
// AccessPermission contribute one permission token, derived from the route
// itself:
//
//	GET    /users/me                 -> users.me.get
//	PATCH  /events/{id}              -> events.id.patch
//
// A role references a set of permissions and a set of filters. A filter is a
// predicate fragment bound to a collection. When a principal is built, its
// role is flattened into two lookup tables:
//
//	HashPermissions  token -> token            (O(1) membership)
//	HashFilters      collection -> predicate   (merged in role order)
//
// # Request Flow
//
//	Request -> auth.Authenticate -> Middleware.Require(token) -> Handler
//	                |                        |                     |
//	        rehydrate Principal       allow / deny (401)     ScopedQuery
//
// Allowed requests carry the principal's HashFilters in their context, so
// handlers scope every query with ScopedQuery and never look at roles
// directly.
//
// The core of this package is pure: CollectPermissions, NewPrincipal and
// BuildQuery touch no storage. SyncCatalog and GrantAll persist catalog
// state and are called at boot and from volunteerctl.
package authz
