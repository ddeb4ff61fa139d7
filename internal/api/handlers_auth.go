// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/users"
)

// Login authenticates by email and password and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := h.sessions.Login(w, r, user); err != nil {
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID.Hex()).Msg("User logged in")
	WriteSuccess(w, r, user)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// Register creates an account with the default role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in users.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(user)
}

// Session returns the current principal.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, authz.PrincipalFromContext(r.Context()))
}
