// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/volunteerhub/internal/models"
)

func TestRoles(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.loginAs(t, "roles.get", "roles.post", "roles.id.patch", "roles.id.delete", "permissions.get")

	rec := s.do(t, http.MethodGet, "/permissions?group=events", nil, admin...)
	expectStatus(t, rec, http.StatusOK)
	perms := decodeData[[]models.Permission](t, rec)
	if len(perms) == 0 {
		t.Fatal("no event permissions in catalog")
	}
	for _, p := range perms {
		if p.Group != "events" {
			t.Errorf("permission %s has group %s", p.Name, p.Group)
		}
	}

	rec = s.do(t, http.MethodPost, "/roles", map[string]any{"name": " coordinator ", "permissions": []string{perms[0].ID.Hex()}}, admin...)
	expectStatus(t, rec, http.StatusCreated)
	role := decodeData[models.Role](t, rec)
	if role.Name != "COORDINATOR" || len(role.Permissions) != 1 || role.Filters == nil {
		t.Errorf("role = %+v", role)
	}

	expectError(t, s.do(t, http.MethodPost, "/roles", map[string]any{"name": "Coordinator"}, admin...), http.StatusBadRequest, ErrCodeBadRequest, "")

	rec = s.do(t, http.MethodGet, "/roles?name=coordinator", nil, admin...)
	if list := decodeData[[]models.Role](t, rec); len(list) != 1 || list[0].ID != role.ID {
		t.Errorf("role search = %+v", list)
	}

	rec = s.do(t, http.MethodPatch, "/roles/"+role.ID.Hex(), map[string]any{"name": "lead"}, admin...)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeData[models.Role](t, rec); got.Name != "LEAD" {
		t.Errorf("renamed role = %q", got.Name)
	}

	expectStatus(t, s.do(t, http.MethodDelete, "/roles/"+role.ID.Hex(), nil, admin...), http.StatusNoContent)
	expectError(t, s.do(t, http.MethodDelete, "/roles/"+role.ID.Hex(), nil, admin...), http.StatusNotFound, ErrCodeNotFound, "")
}

func TestFilters(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.loginAs(t, "filters.get", "filters.post")

	rec := s.do(t, http.MethodPost, "/filters", map[string]any{
		"name":       "hands-on-only",
		"collection": "events",
		"filter":     map[string]any{"category": models.CategoryHandsOn},
	}, admin...)
	expectStatus(t, rec, http.StatusCreated)
	filter := decodeData[models.Filter](t, rec)
	if filter.TargetCollection() != "events" || filter.Predicate["category"] != models.CategoryHandsOn {
		t.Errorf("filter = %+v", filter)
	}

	expectError(t, s.do(t, http.MethodPost, "/filters", map[string]any{"name": "empty"}, admin...), http.StatusBadRequest, ErrCodeValidationFailed, "")

	rec = s.do(t, http.MethodGet, "/filters?collection=events", nil, admin...)
	if list := decodeData[[]models.Filter](t, rec); len(list) != 1 {
		t.Errorf("filters = %+v", list)
	}
}
