// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package authz

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/models"
)

// ExpandedRole is a role with its permission and filter references resolved.
type ExpandedRole struct {
	ID          primitive.ObjectID  `json:"_id"`
	Name        string              `json:"name"`
	Permissions []models.Permission `json:"permissions"`
	Filters     []models.Filter     `json:"filters"`
}

// Principal is the authenticated caller as seen by authorization.
type Principal struct {
	User            *models.User      `json:"user"`
	Role            *ExpandedRole     `json:"role,omitempty"`
	HashPermissions map[string]string `json:"hashPermissions"`
	HashFilters     map[string]bson.M `json:"hashFilters"`
}

// NewPrincipal derives the lookup tables for user and role. role may be nil.
// Filters are folded in role order; within one collection later filters
// overwrite earlier keys.
func NewPrincipal(user *models.User, role *ExpandedRole) *Principal {
	p := &Principal{
		User:            user.Sanitized(),
		Role:            role,
		HashPermissions: make(map[string]string),
		HashFilters:     make(map[string]bson.M),
	}
	if role == nil {
		return p
	}
	for _, perm := range role.Permissions {
		p.HashPermissions[perm.Name] = perm.Name
	}
	for _, f := range role.Filters {
		coll := f.TargetCollection()
		merged, ok := p.HashFilters[coll]
		if !ok {
			merged = bson.M{}
			p.HashFilters[coll] = merged
		}
		for k, v := range f.Predicate {
			merged[k] = v
		}
	}
	return p
}

// HasPermission reports whether token is in the principal's permission set.
func (p *Principal) HasPermission(token string) bool {
	if p == nil {
		return false
	}
	_, ok := p.HashPermissions[token]
	return ok
}

type contextKey int

const (
	principalKey contextKey = iota
	filtersKey
)

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the request principal, or nil for anonymous
// requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// WithFilters attaches per-collection query filters to ctx.
func WithFilters(ctx context.Context, filters map[string]bson.M) context.Context {
	return context.WithValue(ctx, filtersKey, filters)
}

// FiltersFromContext returns the filters attached by Middleware, or nil.
func FiltersFromContext(ctx context.Context) map[string]bson.M {
	f, _ := ctx.Value(filtersKey).(map[string]bson.M)
	return f
}
