// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"context"
	"time"

	"github.com/tomtom215/volunteerhub/internal/auth"
	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/events"
	"github.com/tomtom215/volunteerhub/internal/uploads"
	"github.com/tomtom215/volunteerhub/internal/users"
)

// Presigner issues presigned upload URLs. *uploads.Presigner implements it.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*uploads.Presigned, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store         database.Store
	users         *users.Service
	events        *events.Service
	registrations *events.RegistrationService
	presigner     Presigner
	sessions      *auth.SessionMiddleware
	pagination    database.Pagination
	startTime     time.Time
}

// Deps are the collaborators NewHandler wires together. Presigner may be
// nil when file storage is not configured.
type Deps struct {
	Config        *config.Config
	Store         database.Store
	Users         *users.Service
	Events        *events.Service
	Registrations *events.RegistrationService
	Presigner     Presigner
	Sessions      *auth.SessionMiddleware
}

// NewHandler creates a Handler from d.
func NewHandler(d Deps) *Handler {
	pagination := database.Pagination{DefaultLimit: 20, MaxLimit: 100}
	if d.Config != nil {
		if d.Config.API.DefaultPageSize > 0 {
			pagination.DefaultLimit = int64(d.Config.API.DefaultPageSize)
		}
		if d.Config.API.MaxPageSize > 0 {
			pagination.MaxLimit = int64(d.Config.API.MaxPageSize)
		}
	}
	return &Handler{
		store:         d.Store,
		users:         d.Users,
		events:        d.Events,
		registrations: d.Registrations,
		presigner:     d.Presigner,
		sessions:      d.Sessions,
		pagination:    pagination,
		startTime:     time.Now(),
	}
}

// Sessions returns the session middleware used by the router.
func (h *Handler) Sessions() *auth.SessionMiddleware {
	return h.sessions
}
