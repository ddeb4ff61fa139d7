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
	"github.com/tomtom215/volunteerhub/internal/events"
	"github.com/tomtom215/volunteerhub/internal/models"
)

var eventSortFields = []string{"name", "category", "startTime", "endTime"}

var registrationSortFields = []string{"createdAt", "volunteerCategory", "checkedIn"}

func scopedEventByID(r *http.Request) (bson.M, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return authz.ScopedQuery(r.Context(), database.ByID(id), database.Events), nil
}

// ListEvents searches events by name, category and time window. Results
// carry the capacity projection.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := bson.M{}
	searchParam(base, q, "name")
	searchParam(base, q, "category")
	searchParam(base, q, "slug")
	if err := timeParam(base, q, "startTime", "$gte"); err != nil {
		respondError(w, r, err)
		return
	}
	if err := timeParam(base, q, "endTime", "$lte"); err != nil {
		respondError(w, r, err)
		return
	}

	opts := database.ListOptions(q, h.pagination, eventSortFields...)
	list, err := h.events.List(r.Context(), authz.ScopedQuery(r.Context(), base, database.Events), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	listResponse(w, r, list, opts.Limit, opts.Skip)
}

// CreateEvent creates an event and assigns its slug.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in events.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	event, err := h.events.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(event)
}

// GetEvent returns one event with capacity projected.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedEventByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	event, err := h.events.Get(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, event)
}

// UpdateEvent applies a partial update. A slug in the body is ignored.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedEventByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var p events.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	event, err := h.events.Update(r.Context(), filter, p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, event)
}

// DeleteEvent deletes one event.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedEventByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.events.Delete(r.Context(), filter); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// ListRegistrations lists the registrations for one event.
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	base := bson.M{"event": eventID}
	searchParam(base, q, "volunteerCategory")
	searchParam(base, q, "kind")

	opts := database.ListOptions(q, h.pagination, registrationSortFields...)
	list, err := h.registrations.List(r.Context(), authz.ScopedQuery(r.Context(), base, database.Registrations), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	listResponse(w, r, list, opts.Limit, opts.Skip)
}

// CreateRegistration registers the caller, or a guest when anonymous, for
// an event and queues the confirmation email.
func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	eventFilter := authz.ScopedQuery(r.Context(), database.ByID(eventID), database.Events)
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	req, err := events.ParseRegistrationRequest(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var user *models.User
	if p := authz.PrincipalFromContext(r.Context()); p != nil {
		user = p.User
	}
	reg, err := h.registrations.Register(r.Context(), eventFilter, user, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(reg)
}

func scopedRegistration(r *http.Request) (bson.M, error) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		return nil, err
	}
	regID, err := pathID(r, "registrationId")
	if err != nil {
		return nil, err
	}
	return authz.ScopedQuery(r.Context(), bson.M{"_id": regID, "event": eventID}, database.Registrations), nil
}

// UpdateRegistration applies a partial registration update.
func (h *Handler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedRegistration(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var p events.RegistrationPatch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	reg, err := h.registrations.Update(r.Context(), filter, p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, reg)
}

// DeleteRegistration deletes one registration.
func (h *Handler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedRegistration(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.registrations.Delete(r.Context(), filter); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// RegistrationCounts reports the number of registrations per event.
func (h *Handler) RegistrationCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.registrations.CountByEvent(r.Context(), authz.ScopedQuery(r.Context(), bson.M{}, database.Registrations))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if counts == nil {
		counts = []models.EventRegistrationCount{}
	}
	WriteSuccess(w, r, counts)
}
