// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/users"
)

var userSortFields = []string{"firstName", "lastName", "email", "createdAt"}

func scopedUserByID(r *http.Request) (bson.M, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return authz.ScopedQuery(r.Context(), database.ByID(id), database.Users), nil
}

// ListUsers lists users visible to the caller.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := bson.M{}
	searchParam(base, q, "firstName")
	searchParam(base, q, "lastName")
	if email := q.Get("email"); email != "" {
		base["email"] = users.NormalizeEmail(email)
	}

	opts := database.ListOptions(q, h.pagination, userSortFields...)
	list, err := h.users.List(r.Context(), authz.ScopedQuery(r.Context(), base, database.Users), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	listResponse(w, r, list, opts.Limit, opts.Skip)
}

// CreateUser creates a user. Without a role the default role is assigned.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in users.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(user)
}

// GetMe returns the calling user.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	p := authz.PrincipalFromContext(r.Context())
	if p == nil || p.User == nil {
		NewResponseWriter(w, r).Unauthorized(authz.MsgAuthenticationRequired)
		return
	}
	user, err := h.users.Get(r.Context(), authz.ScopedQuery(r.Context(), database.ByID(p.User.ID), database.Users))
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, user)
}

// GetUser returns one user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedUserByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	user, err := h.users.Get(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, user)
}

// UpdateUser applies a partial update. A new password is re-hashed.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedUserByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var p users.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	user, err := h.users.Update(r.Context(), filter, p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, user)
}

// DeleteUser deletes one user.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedUserByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), filter); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
