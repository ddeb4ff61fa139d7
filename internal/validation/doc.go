// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use. Errors report the json
// name of the failing field, so messages match the request body the client
// sent.
//
// # Custom Tags
//
//   - objectid: 24-character hex MongoDB identifier
//   - event_category: one of models.EventCategories
//   - slug_safe: lowercase words joined by single dashes
//
// # Usage
//
//	type createRoleRequest struct {
//	    Name        string   `json:"name" validate:"required,max=64"`
//	    Permissions []string `json:"permissions" validate:"dive,objectid"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
