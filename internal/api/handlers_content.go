// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/uploads"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

// uploadKeyPrefix is where generated upload keys are placed.
const uploadKeyPrefix = "uploads"

var (
	pages       = resource[models.Page]{collection: database.Pages, sortable: []string{"name", "url", "createdAt"}}
	uploadFiles = resource[models.Upload]{collection: database.Uploads, sortable: []string{"name", "createdAt"}}
)

// ListPages searches pages by name and by a regular expression on url.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := bson.M{}
	searchParam(base, q, "name")
	if pattern := q.Get("url"); pattern != "" {
		if _, err := regexp.Compile(pattern); err != nil {
			respondError(w, r, validation.NewFieldError("url", "regexp", "url must be a valid regular expression"))
			return
		}
		base["url"] = bson.M{"$regex": pattern}
	}
	pages.list(h, w, r, base)
}

// CreatePage creates a dynamic page. The url must be unique.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	now := time.Now().UTC()
	pages.create(h, w, r, models.Page{
		Name:       strings.TrimSpace(in.Name),
		URL:        strings.TrimSpace(in.URL),
		Experience: in.Experience,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// GetPage returns one page.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	pages.get(h, w, r)
}

// UpdatePage applies a partial page update.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var p PagePatch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	set := bson.M{}
	setIf(set, "name", p.Name)
	setIf(set, "url", p.URL)
	setIf(set, "experience", p.Experience)
	pages.update(h, w, r, set)
}

// DeletePage deletes one page.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	pages.delete(h, w, r)
}

// ListUploads lists uploads, optionally by name.
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	base := bson.M{}
	searchParam(base, r.URL.Query(), "name")
	uploadFiles.list(h, w, r, base)
}

// CreateUpload records an uploaded file. New uploads are not live unless
// the body says so.
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	var in UploadInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	now := time.Now().UTC()
	uploadFiles.create(h, w, r, models.Upload{
		Name:      strings.TrimSpace(in.Name),
		URL:       in.URL,
		IsLive:    in.IsLive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// GetUpload returns one upload.
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	uploadFiles.get(h, w, r)
}

// UpdateUpload applies a partial upload update.
func (h *Handler) UpdateUpload(w http.ResponseWriter, r *http.Request) {
	var p UploadPatch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, err)
		return
	}
	set := bson.M{}
	setIf(set, "name", p.Name)
	setIf(set, "url", p.URL)
	setIf(set, "isLive", p.IsLive)
	uploadFiles.update(h, w, r, set)
}

// DeleteUpload deletes one upload record. The stored object is kept.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	uploadFiles.delete(h, w, r)
}

// PresignUpload returns a presigned PUT URL for a key and content type.
func (h *Handler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	if h.presigner == nil {
		respondError(w, r, uploads.ErrDisabled)
		return
	}
	var req PresignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	key := req.Key
	if key == "" {
		if req.Filename == "" {
			respondError(w, r, validation.NewFieldError("key", "required_without", "key or filename is required"))
			return
		}
		key = uploads.NewObjectKey(uploadKeyPrefix, req.Filename)
	}

	presigned, err := h.presigner.PresignPut(r.Context(), key, req.ContentType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, presigned)
}
