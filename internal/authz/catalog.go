// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package authz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/models"
)

// PublicToken marks a route open to anonymous callers.
const PublicToken = "public"

// Access is the protection level of a route.
type Access int

const (
	// AccessNone routes bypass authorization entirely (health, metrics).
	AccessNone Access = iota
	// AccessPublic routes accept anonymous callers.
	AccessPublic
	// AccessAuthenticated routes require any logged-in principal.
	AccessAuthenticated
	// AccessPermission routes require the route's derived permission token.
	AccessPermission
)

// String implements fmt.Stringer.
func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessPermission:
		return "permission"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// Endpoint is one method and path pattern of the HTTP surface.
type Endpoint struct {
	Method  string
	Pattern string
	Access  Access
}

// Token returns the value passed to Middleware.Require for e.
func (e Endpoint) Token() string {
	switch e.Access {
	case AccessPublic:
		return PublicToken
	case AccessPermission:
		return PermissionName(e.Method, e.Pattern)
	default:
		return ""
	}
}

// PermissionName derives the permission token for a route: path segments
// with {param} braces removed, joined by dots, followed by the lowercased
// method.
func PermissionName(method, pattern string) string {
	parts := pathSegments(pattern)
	parts = append(parts, strings.ToLower(method))
	return strings.Join(parts, ".")
}

// PermissionGroup is the first path segment of pattern.
func PermissionGroup(pattern string) string {
	parts := pathSegments(pattern)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func pathSegments(pattern string) []string {
	var parts []string
	for _, seg := range strings.Split(pattern, "/") {
		seg = strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}

// CollectPermissions returns the deduplicated, name-sorted permission list
// for every AccessPermission endpoint.
func CollectPermissions(endpoints []Endpoint) []models.Permission {
	seen := make(map[string]struct{}, len(endpoints))
	perms := make([]models.Permission, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Access != AccessPermission {
			continue
		}
		name := PermissionName(e.Method, e.Pattern)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		perms = append(perms, models.Permission{Name: name, Group: PermissionGroup(e.Pattern)})
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })
	return perms
}

// SyncCatalog upserts the permission catalog by name and returns the number
// of newly created permissions. Permissions no longer derived from a route
// are left in place.
func SyncCatalog(ctx context.Context, store database.Store, endpoints []Endpoint) (int, error) {
	coll := store.Collection(database.Permissions)
	now := time.Now().UTC()
	created := 0
	for _, p := range CollectPermissions(endpoints) {
		p.CreatedAt, p.UpdatedAt = now, now
		inserted, err := coll.UpsertOne(ctx, bson.M{"name": p.Name}, p)
		if err != nil {
			return created, fmt.Errorf("sync permission %s: %w", p.Name, err)
		}
		if inserted {
			created++
		}
	}
	if created > 0 {
		logging.Info().Int("created", created).Msg("Permission catalog synced")
	}
	return created, nil
}

// GrantAll makes roleName hold every cataloged permission, creating the
// role when it does not exist. The name is uppercased.
func GrantAll(ctx context.Context, store database.Store, roleName string) (*models.Role, error) {
	roleName = strings.ToUpper(strings.TrimSpace(roleName))
	if roleName == "" {
		return nil, errors.New("role name is required")
	}

	var perms []models.Permission
	if err := store.Collection(database.Permissions).Find(ctx, nil, nil, &perms); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	ids := make([]primitive.ObjectID, len(perms))
	for i, p := range perms {
		ids[i] = p.ID
	}

	roles := store.Collection(database.Roles)
	now := time.Now().UTC()
	var role models.Role
	err := roles.FindOne(ctx, bson.M{"name": roleName}, &role)
	switch {
	case errors.Is(err, database.ErrNotFound):
		role = models.Role{
			Name:        roleName,
			Permissions: ids,
			Filters:     []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		id, err := roles.InsertOne(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("create role %s: %w", roleName, err)
		}
		role.ID = id
	case err != nil:
		return nil, fmt.Errorf("find role %s: %w", roleName, err)
	default:
		if err := roles.UpdateOne(ctx, database.ByID(role.ID), bson.M{"permissions": ids, "updatedAt": now}); err != nil {
			return nil, fmt.Errorf("update role %s: %w", roleName, err)
		}
		role.Permissions = ids
		role.UpdatedAt = now
	}
	return &role, nil
}
