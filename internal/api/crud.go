// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/database"
)

// resource implements the scoped CRUD operations shared by the plain
// document collections (roles, filters, permissions, pages, uploads).
type resource[T any] struct {
	collection string
	sortable   []string
}

func (res resource[T]) coll(h *Handler) database.Collection {
	return h.store.Collection(res.collection)
}

// scopedByID returns the id lookup for the {id} URL parameter merged with
// the caller's filters.
func (res resource[T]) scopedByID(r *http.Request) (bson.M, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return authz.ScopedQuery(r.Context(), database.ByID(id), res.collection), nil
}

func (res resource[T]) list(h *Handler, w http.ResponseWriter, r *http.Request, base bson.M) {
	opts := database.ListOptions(r.URL.Query(), h.pagination, res.sortable...)
	filter := authz.ScopedQuery(r.Context(), base, res.collection)

	var items []T
	if err := res.coll(h).Find(r.Context(), filter, opts, &items); err != nil {
		respondError(w, r, err)
		return
	}
	listResponse(w, r, items, opts.Limit, opts.Skip)
}

func (res resource[T]) get(h *Handler, w http.ResponseWriter, r *http.Request) {
	filter, err := res.scopedByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var item T
	if err := res.coll(h).FindOne(r.Context(), filter, &item); err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, item)
}

// create inserts doc and responds with the stored document.
func (res resource[T]) create(h *Handler, w http.ResponseWriter, r *http.Request, doc any) {
	id, err := res.coll(h).InsertOne(r.Context(), doc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var item T
	if err := res.coll(h).FindOne(r.Context(), database.ByID(id), &item); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(item)
}

// update applies set to the scoped document and responds with the result.
func (res resource[T]) update(h *Handler, w http.ResponseWriter, r *http.Request, set bson.M) {
	filter, err := res.scopedByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	set["updatedAt"] = time.Now().UTC()
	if err := res.coll(h).UpdateOne(r.Context(), filter, set); err != nil {
		respondError(w, r, err)
		return
	}
	res.get(h, w, r)
}

func (res resource[T]) delete(h *Handler, w http.ResponseWriter, r *http.Request) {
	filter, err := res.scopedByID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := res.coll(h).DeleteOne(r.Context(), filter); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
