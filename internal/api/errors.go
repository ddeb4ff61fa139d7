// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/events"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/uploads"
	"github.com/tomtom215/volunteerhub/internal/users"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

// genericFailure is the message for anything not attributable to the caller.
const genericFailure = "Internal server error"

// errorResponse is the classified form of a handler error.
type errorResponse struct {
	Status  int
	Code    string
	Message string
	Details any
}

// errorStatus maps a service or storage error to its HTTP response.
// Unrecognized errors are internal failures.
func errorStatus(err error) errorResponse {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		return errorResponse{http.StatusBadRequest, ErrCodeValidationFailed, apiErr.Message, apiErr.Details}
	case errors.Is(err, events.ErrEventFull):
		return errorResponse{http.StatusBadRequest, ErrCodeEventFull, events.ErrEventFull.Error(), nil}
	case errors.Is(err, events.ErrCategoryFull):
		return errorResponse{http.StatusBadRequest, ErrCodeEventFull, events.ErrCategoryFull.Error(), nil}
	case errors.Is(err, database.ErrNotFound):
		return errorResponse{http.StatusNotFound, ErrCodeNotFound, "Not found", nil}
	case errors.Is(err, database.ErrInvalidID):
		return errorResponse{http.StatusBadRequest, ErrCodeBadRequest, "Invalid identifier", nil}
	case errors.Is(err, database.ErrDuplicateKey):
		return errorResponse{http.StatusBadRequest, ErrCodeBadRequest, "A record with that value already exists", nil}
	case errors.Is(err, uploads.ErrUnsupportedType):
		return errorResponse{http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil}
	case errors.Is(err, uploads.ErrEmptyKey):
		return errorResponse{http.StatusBadRequest, ErrCodeBadRequest, uploads.ErrEmptyKey.Error(), nil}
	case errors.Is(err, uploads.ErrDisabled):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, uploads.ErrDisabled.Error(), nil}
	case errors.Is(err, users.ErrInvalidCredentials):
		return errorResponse{http.StatusUnauthorized, ErrCodeUnauthorized, users.ErrInvalidCredentials.Error(), nil}
	case errors.Is(err, users.ErrRoleNotFound):
		return errorResponse{http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil}
	case errors.Is(err, events.ErrSlugExhausted):
		return errorResponse{http.StatusConflict, ErrCodeConflict, events.ErrSlugExhausted.Error(), nil}
	default:
		return errorResponse{http.StatusInternalServerError, ErrCodeInternalError, genericFailure, nil}
	}
}

// respondError writes the response for err. Internal failures are logged
// with the request context and never leak their message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorStatus(err)
	if resp.Status >= http.StatusInternalServerError {
		logging.CtxErr(r.Context(), err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	} else {
		logging.Ctx(r.Context()).Debug().Err(err).Int("status", resp.Status).Msg("Request rejected")
	}
	NewResponseWriter(w, r).ErrorWithDetails(resp.Status, resp.Code, resp.Message, resp.Details)
}
