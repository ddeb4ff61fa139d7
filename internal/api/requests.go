// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PresignRequest is the body of POST /uploads/presign. When Key is empty a
// unique key is generated from Filename.
type PresignRequest struct {
	Key         string `json:"key,omitempty" validate:"omitempty,max=512"`
	Filename    string `json:"filename,omitempty" validate:"omitempty,max=255"`
	ContentType string `json:"contentType" validate:"required"`
}

// UploadInput is the body of upload create and update requests.
type UploadInput struct {
	Name   string `json:"name" validate:"required,max=255"`
	URL    string `json:"url,omitempty" validate:"omitempty,url"`
	IsLive bool   `json:"isLive"`
}

// UploadPatch is a partial upload update.
type UploadPatch struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	URL    *string `json:"url,omitempty" validate:"omitempty,url"`
	IsLive *bool   `json:"isLive,omitempty"`
}

// PageInput is the body of a dynamic page create request.
type PageInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	URL        string `json:"url" validate:"required,max=512"`
	Experience string `json:"experience"`
}

// PagePatch is a partial dynamic page update.
type PagePatch struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	URL        *string `json:"url,omitempty" validate:"omitempty,min=1,max=512"`
	Experience *string `json:"experience,omitempty"`
}

// RoleInput is the body of role create requests.
type RoleInput struct {
	Name        string               `json:"name" validate:"required,max=64"`
	Permissions []primitive.ObjectID `json:"permissions"`
	Filters     []primitive.ObjectID `json:"filters"`
}

// RolePatch is a partial role update.
type RolePatch struct {
	Name        *string              `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	Permissions []primitive.ObjectID `json:"permissions,omitempty"`
	Filters     []primitive.ObjectID `json:"filters,omitempty"`
}

// FilterInput is the body of filter create requests.
type FilterInput struct {
	Name       string `json:"name" validate:"required,max=128"`
	Collection string `json:"collection,omitempty" validate:"omitempty,max=64"`
	Filter     bson.M `json:"filter" validate:"required"`
}

// FilterPatch is a partial filter update.
type FilterPatch struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Collection *string `json:"collection,omitempty" validate:"omitempty,max=64"`
	Filter     bson.M  `json:"filter,omitempty"`
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, validation.NewFieldError("body", "max", "Request body is too large")
		}
		return nil, validation.NewFieldError("body", "read", "Request body could not be read")
	}
	return body, nil
}

// decodeJSON decodes the request body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return validation.NewFieldError("body", "required", "Request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return validation.NewFieldError("body", "json", "Request body must be valid JSON")
	}
	return validation.Check(v)
}

// pathID parses the URL parameter name as an ObjectID.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	return database.ParseID(chi.URLParam(r, name))
}

// searchParam copies the query parameter key into filter when it is set.
func searchParam(filter bson.M, q url.Values, key string) {
	if v := q.Get(key); v != "" {
		filter[key] = v
	}
}

// timeParam adds a range condition on key when the query parameter holds
// an RFC 3339 timestamp.
func timeParam(filter bson.M, q url.Values, key, op string) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return validation.NewFieldError(key, "datetime", key+" must be an RFC 3339 timestamp")
	}
	filter[key] = bson.M{op: t.UTC()}
	return nil
}

// setIf adds name to set when the pointer is non-nil.
func setIf[T any](set bson.M, name string, v *T) {
	if v != nil {
		set[name] = *v
	}
}
