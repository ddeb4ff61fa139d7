// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/models"
)

var (
	roles       = resource[models.Role]{collection: database.Roles, sortable: []string{"name", "createdAt"}}
	filters     = resource[models.Filter]{collection: database.Filters, sortable: []string{"name", "collection", "createdAt"}}
	permissions = resource[models.Permission]{collection: database.Permissions, sortable: []string{"name", "group"}}
)

func orEmpty(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}

// ListRoles lists roles.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	base := bson.M{}
	if name := r.URL.Query().Get("name"); name != "" {
		base["name"] = strings.ToUpper(name)
	}
	roles.list(h, w, r, base)
}

// CreateRole creates a role. Role names are stored uppercased.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var in RoleInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	now := time.Now().UTC()
	roles.create(h, w, r, models.Role{
		Name:        strings.ToUpper(strings.TrimSpace(in.Name)),
		Permissions: orEmpty(in.Permissions),
		Filters:     orEmpty(in.Filters),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// GetRole returns one role.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	roles.get(h, w, r)
}

// UpdateRole applies a partial role update.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var p RolePatch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	set := bson.M{}
	if p.Name != nil {
		set["name"] = strings.ToUpper(strings.TrimSpace(*p.Name))
	}
	if p.Permissions != nil {
		set["permissions"] = p.Permissions
	}
	if p.Filters != nil {
		set["filters"] = p.Filters
	}
	roles.update(h, w, r, set)
}

// DeleteRole deletes one role. Users keep the dangling reference and
// rehydrate without permissions.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	roles.delete(h, w, r)
}

// ListFilters lists filters.
func (h *Handler) ListFilters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := bson.M{}
	searchParam(base, q, "name")
	searchParam(base, q, "collection")
	filters.list(h, w, r, base)
}

// CreateFilter creates a filter.
func (h *Handler) CreateFilter(w http.ResponseWriter, r *http.Request) {
	var in FilterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	now := time.Now().UTC()
	filters.create(h, w, r, models.Filter{
		Name:       strings.TrimSpace(in.Name),
		Collection: strings.TrimSpace(in.Collection),
		Predicate:  in.Filter,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// GetFilter returns one filter.
func (h *Handler) GetFilter(w http.ResponseWriter, r *http.Request) {
	filters.get(h, w, r)
}

// UpdateFilter applies a partial filter update.
func (h *Handler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	var p FilterPatch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	set := bson.M{}
	setIf(set, "name", p.Name)
	setIf(set, "collection", p.Collection)
	if p.Filter != nil {
		set["filter"] = p.Filter
	}
	filters.update(h, w, r, set)
}

// DeleteFilter deletes one filter. Roles referencing it skip it on
// rehydration.
func (h *Handler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	filters.delete(h, w, r)
}

// ListPermissions lists the permission catalog.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	base := bson.M{}
	searchParam(base, r.URL.Query(), "group")
	permissions.list(h, w, r, base)
}

// GetPermission returns one permission.
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	permissions.get(h, w, r)
}

// DeletePermission removes a permission, typically a stale one left by
// a route that no longer exists.
func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	permissions.delete(h, w, r)
}
