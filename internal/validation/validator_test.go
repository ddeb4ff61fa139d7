// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package validation

import (
	"errors"
	"strings"
	"testing"
)

type testRequest struct {
	Name     string   `json:"name" validate:"required,max=10"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Category string   `json:"category" validate:"omitempty,event_category"`
	Slug     string   `json:"slug" validate:"omitempty,slug_safe"`
	Role     string   `json:"role" validate:"omitempty,objectid"`
	Filters  []string `json:"filters" validate:"dive,objectid"`
	Capacity int      `json:"capacity" validate:"gte=0"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	req := testRequest{
		Name:     "Fall Feast",
		Email:    "clark@dailyplanet.com",
		Category: "Civic Engagement",
		Slug:     "fall-feast-2026",
		Role:     "5f1b7c8e9d3a2b1c0d9e8f7a",
		Filters:  []string{"5f1b7c8e9d3a2b1c0d9e8f7b"},
	}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() unexpected error: %v", err)
	}
	if err := Check(&req); err != nil {
		t.Errorf("Check() unexpected error: %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     testRequest
		wantField string
		wantTag   string
	}{
		{"missing name", testRequest{}, "name", "required"},
		{"name too long", testRequest{Name: "a very long name"}, "name", "max"},
		{"bad email", testRequest{Name: "x", Email: "nope"}, "email", "email"},
		{"unknown category", testRequest{Name: "x", Category: "Party"}, "category", "event_category"},
		{"bad slug", testRequest{Name: "x", Slug: "Fall Feast"}, "slug", "slug_safe"},
		{"double dash slug", testRequest{Name: "x", Slug: "fall--feast"}, "slug", "slug_safe"},
		{"bad object id", testRequest{Name: "x", Role: "123"}, "role", "objectid"},
		{"bad object id in slice", testRequest{Name: "x", Filters: []string{"zz"}}, "filters[0]", "objectid"},
		{"negative capacity", testRequest{Name: "x", Capacity: -1}, "capacity", "gte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}
			found := false
			for _, e := range verr.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s/%s, got %v", tt.wantField, tt.wantTag, verr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&testRequest{}).ToAPIError()
	if single.Code != CodeValidationFailed {
		t.Errorf("Code = %q, want %q", single.Code, CodeValidationFailed)
	}
	if single.Message != "name is required" {
		t.Errorf("Message = %q", single.Message)
	}
	if single.Details["field"] != "name" {
		t.Errorf("Details = %v", single.Details)
	}

	multi := ValidateStruct(&testRequest{Email: "nope", Capacity: -1}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 3 {
		t.Fatalf("Details[fields] = %v", multi.Details["fields"])
	}
	if !strings.Contains(multi.Message, "email must be a valid email address") {
		t.Errorf("Message = %q", multi.Message)
	}
}

func TestNewFieldError(t *testing.T) {
	t.Parallel()

	err := Check(struct{}{})
	if err != nil {
		t.Fatalf("Check(empty) = %v", err)
	}

	var verr *RequestValidationError
	wrapped := error(NewFieldError("shirtSize", "enum", "shirtSize must be one of: S, M, L"))
	if !errors.As(wrapped, &verr) {
		t.Fatal("NewFieldError should be a *RequestValidationError")
	}
	if got := verr.ToAPIError().Message; got != "shirtSize must be one of: S, M, L" {
		t.Errorf("Message = %q", got)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	if Merge(nil, nil) != nil {
		t.Error("Merge of nils should be nil")
	}
	merged := Merge(NewFieldError("a", "required", "a is required"), nil, NewFieldError("b", "number", "b must be a number"))
	if merged == nil || len(merged.Errors()) != 2 {
		t.Fatalf("Merge() = %v", merged)
	}
	if merged.Error() != "a is required; b must be a number" {
		t.Errorf("Error() = %q", merged.Error())
	}
}
