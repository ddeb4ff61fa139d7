// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package events

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

var fixedNow = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

func newTestService(store database.Store) *Service {
	s := NewService(store)
	s.now = func() time.Time { return fixedNow }
	return s
}

func intPtr(n int) *int { return &n }

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"Back to School", "back-to-school-2026"},
		{"  Back   to School!! ", "back-to-school-2026"},
		{"Café & Cocktails", "caf-cocktails-2026"},
		{"snake_case_name", "snake_case_name-2026"},
		{"---", "2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Slugify(tt.name, 2026); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestRandomSuffix(t *testing.T) {
	t.Parallel()

	s, err := randomSuffix(slugSuffixLen)
	if err != nil {
		t.Fatalf("randomSuffix: %v", err)
	}
	if !regexp.MustCompile(`^[a-z]{6}$`).MatchString(s) {
		t.Errorf("randomSuffix() = %q, want 6 lowercase letters", s)
	}
}

func TestCreate_SlugCollisionAndImmutability(t *testing.T) {
	t.Parallel()
	svc := newTestService(database.NewMemoryStore())
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{Name: "Back to School"})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	second, err := svc.Create(ctx, Input{Name: "Back to School"})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	if first.Slug != "back-to-school-2026" {
		t.Errorf("first slug = %q", first.Slug)
	}
	if second.Slug == first.Slug || !regexp.MustCompile(`^back-to-school-2026-[a-z]{6}$`).MatchString(second.Slug) {
		t.Errorf("second slug = %q, want suffixed variant of %q", second.Slug, first.Slug)
	}

	renamed := "Back to School Extravaganza"
	updated, err := svc.Update(ctx, database.ByID(first.ID), Patch{Name: &renamed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != renamed || updated.Slug != first.Slug {
		t.Errorf("after rename: name=%q slug=%q, want slug %q", updated.Name, updated.Slug, first.Slug)
	}
}

func TestCreate_ExplicitSlugKept(t *testing.T) {
	t.Parallel()
	svc := newTestService(database.NewMemoryStore())

	ev, err := svc.Create(context.Background(), Input{Name: "Gala", Slug: "annual-gala"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ev.Slug != "annual-gala" {
		t.Errorf("Slug = %q, want annual-gala", ev.Slug)
	}
	if _, err := svc.Create(context.Background(), Input{Name: "Gala", Slug: "Not A Slug"}); err == nil {
		t.Error("invalid explicit slug should fail validation")
	}
}

func TestCreate_SlugExhausted(t *testing.T) {
	t.Parallel()
	svc := newTestService(database.NewMemoryStore())
	svc.suffix = func() (string, error) { return "aaaaaa", nil }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, Input{Name: "Gala"}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, Input{Name: "Gala"}); !errors.Is(err, ErrSlugExhausted) {
		t.Errorf("Create() = %v, want ErrSlugExhausted", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	svc := newTestService(database.NewMemoryStore())

	tests := []struct {
		name string
		in   Input
	}{
		{"missing name", Input{}},
		{"bad category", Input{Name: "x", Category: "Party"}},
		{"negative max", Input{Name: "x", MaxRegistrations: intPtr(-1)}},
		{"enum without values", Input{Name: "x", CustomFields: map[string]models.CustomFieldDefinition{"size": {Type: "enum"}}}},
		{"unknown field type", Input{Name: "x", CustomFields: map[string]models.CustomFieldDefinition{"size": {Type: "color"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Create(context.Background(), tt.in)
			var ve *validation.RequestValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Create() = %v, want validation error", err)
			}
		})
	}
}

func TestProject(t *testing.T) {
	t.Parallel()

	event := models.Event{
		Name:             "Cleanup",
		MaxRegistrations: intPtr(10),
		VolunteerCategories: map[string]models.VolunteerCategory{
			"Setup":     {Capacity: 2},
			"Teardown":  {Capacity: 3},
			"Unlimited": {},
		},
	}

	tests := []struct {
		name     string
		tally    Tally
		wantFull bool
		wantCats []string
	}{
		{"empty", Tally{}, false, []string{"Setup", "Teardown", "Unlimited"}},
		{"category full", Tally{Total: 2, ByCategory: map[string]int64{"Setup": 2}}, false, []string{"Teardown", "Unlimited"}},
		{"event full", Tally{Total: 10}, true, []string{"Setup", "Teardown", "Unlimited"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Project(event, tt.tally)
			if got.IsFull != tt.wantFull {
				t.Errorf("IsFull = %v, want %v", got.IsFull, tt.wantFull)
			}
			if len(got.VolunteerCategories) != len(tt.wantCats) {
				t.Fatalf("categories = %v, want %v", got.VolunteerCategories, tt.wantCats)
			}
			for _, c := range tt.wantCats {
				if _, ok := got.VolunteerCategories[c]; !ok {
					t.Errorf("category %q missing", c)
				}
			}
		})
	}

	if len(event.VolunteerCategories) != 3 {
		t.Error("Project must not modify its input")
	}
}

func TestTallyRegistrations(t *testing.T) {
	t.Parallel()

	got := TallyRegistrations([]models.Registration{
		{VolunteerCategory: "Setup"}, {VolunteerCategory: "Setup"}, {VolunteerCategory: "Teardown"}, {},
	})
	if got.Total != 4 || got.ByCategory["Setup"] != 2 || got.ByCategory["Teardown"] != 1 {
		t.Errorf("TallyRegistrations() = %+v", got)
	}
}

func TestParseVolunteerCategory(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Setup - Morning":  "Setup",
		"Setup":            "Setup",
		"  Setup  ":        "Setup",
		"Setup - A - B":    "Setup",
		"":                 "",
		"Check-in - Night": "Check-in",
	}
	for in, want := range tests {
		if got := ParseVolunteerCategory(in); got != want {
			t.Errorf("ParseVolunteerCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestService_GetProjectsCapacity(t *testing.T) {
	t.Parallel()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	ev, err := svc.Create(ctx, Input{
		Name:                "Cleanup",
		MaxRegistrations:    intPtr(3),
		VolunteerCategories: map[string]models.VolunteerCategory{"Setup": {Capacity: 1}, "Teardown": {Capacity: 5}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, cat := range []string{"Setup", "Teardown"} {
		if _, err := store.Collection(database.Registrations).InsertOne(ctx, models.Registration{Event: ev.ID, Kind: models.KindGuest, VolunteerCategory: cat}); err != nil {
			t.Fatalf("insert registration: %v", err)
		}
	}

	tally, err := svc.Tally(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Total != 2 || tally.ByCategory["Setup"] != 1 {
		t.Errorf("Tally() = %+v", tally)
	}

	got, err := svc.Get(ctx, database.ByID(ev.ID))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsFull {
		t.Error("event should not be full")
	}
	if _, ok := got.VolunteerCategories["Setup"]; ok {
		t.Error("full Setup category should be dropped")
	}

	list, err := svc.List(ctx, bson.M{}, nil)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}
	if _, ok := list[0].VolunteerCategories["Setup"]; ok {
		t.Error("List should project capacity")
	}
}

func TestService_UpdateDeleteNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestService(database.NewMemoryStore())
	ctx := context.Background()
	missing := database.ByID(primitive.NewObjectID())

	if _, err := svc.Get(ctx, missing); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Get = %v", err)
	}
	name := "x"
	if _, err := svc.Update(ctx, missing, Patch{Name: &name}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Update = %v", err)
	}
	if err := svc.Delete(ctx, missing); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Delete = %v", err)
	}
}

func TestValidateCustomFields(t *testing.T) {
	t.Parallel()

	defs := map[string]models.CustomFieldDefinition{
		"shirtSize": {Type: models.FieldEnum, Enum: []string{"S", "M", "L"}, Required: true},
		"age":       {Type: models.FieldNumber},
		"driver":    {Type: models.FieldBoolean},
		"arrival":   {Type: models.FieldDate},
		"notes":     {Type: models.FieldString},
	}

	tests := []struct {
		name      string
		defs      map[string]models.CustomFieldDefinition
		values    map[string]string
		wantField string
	}{
		{name: "valid", defs: defs, values: map[string]string{"shirtSize": "M", "age": "32", "driver": "true", "arrival": "2026-09-01", "notes": "hi"}},
		{name: "rfc3339 date", defs: defs, values: map[string]string{"shirtSize": "S", "arrival": "2026-09-01T08:00:00Z"}},
		{name: "missing required", defs: defs, values: map[string]string{}, wantField: "shirtSize"},
		{name: "bad enum", defs: defs, values: map[string]string{"shirtSize": "XXL"}, wantField: "shirtSize"},
		{name: "bad number", defs: defs, values: map[string]string{"shirtSize": "S", "age": "old"}, wantField: "age"},
		{name: "bad boolean", defs: defs, values: map[string]string{"shirtSize": "S", "driver": "maybe"}, wantField: "driver"},
		{name: "bad date", defs: defs, values: map[string]string{"shirtSize": "S", "arrival": "tomorrow"}, wantField: "arrival"},
		{name: "undeclared key", defs: defs, values: map[string]string{"shirtSize": "S", "pet": "dog"}, wantField: "pet"},
		{name: "free text without definitions", values: map[string]string{"anything": "goes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCustomFields(tt.defs, tt.values)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateCustomFields() = %v", err)
				}
				return
			}
			var ve *validation.RequestValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateCustomFields() = %v, want validation error", err)
			}
			if got := ve.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("field = %q, want %q (%v)", got, tt.wantField, err)
			}
		})
	}
}

func TestParseRegistrationRequest(t *testing.T) {
	t.Parallel()

	body := `{
		"firstName": "Lois", "lastName": "Lane", "email": "lois@dailyplanet.com",
		"volunteerCategory": "Setup - Morning", "hasAgreedToTerms": true,
		"shirtSize": "M", "age": 32, "driver": false, "nickname": null,
		"event": "ignored"
	}`
	req, err := ParseRegistrationRequest([]byte(body))
	if err != nil {
		t.Fatalf("ParseRegistrationRequest: %v", err)
	}
	if req.FirstName != "Lois" || !req.HasAgreedToTerms || req.VolunteerCategory != "Setup - Morning" {
		t.Errorf("fixed fields = %+v", req)
	}
	want := map[string]string{"shirtSize": "M", "age": "32", "driver": "false"}
	if len(req.CustomFields) != len(want) {
		t.Fatalf("CustomFields = %v, want %v", req.CustomFields, want)
	}
	for k, v := range want {
		if req.CustomFields[k] != v {
			t.Errorf("CustomFields[%q] = %q, want %q", k, req.CustomFields[k], v)
		}
	}

	for _, bad := range []string{`[1,2]`, `not json`, `{"email": "nope"}`} {
		_, err := ParseRegistrationRequest([]byte(bad))
		var ve *validation.RequestValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ParseRegistrationRequest(%s) = %v, want validation error", bad, err)
		}
	}
}
