// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegistrationValidate(t *testing.T) {
	t.Parallel()

	event := primitive.NewObjectID()
	guest := &GuestRegistrant{FirstName: "Clark", LastName: "Kent", Email: "clark@dailyplanet.com"}
	user := &UserRegistrant{ID: primitive.NewObjectID()}

	tests := []struct {
		name    string
		reg     Registration
		wantErr bool
	}{
		{name: "guest", reg: Registration{Kind: KindGuest, Event: event, Guest: guest}},
		{name: "user", reg: Registration{Kind: KindUser, Event: event, User: user}},
		{name: "guest missing payload", reg: Registration{Kind: KindGuest, Event: event}, wantErr: true},
		{name: "both payloads", reg: Registration{Kind: KindUser, Event: event, User: user, Guest: guest}, wantErr: true},
		{name: "kind mismatch", reg: Registration{Kind: KindUser, Event: event, Guest: guest}, wantErr: true},
		{name: "guest missing email", reg: Registration{Kind: KindGuest, Event: event, Guest: &GuestRegistrant{FirstName: "a", LastName: "b"}}, wantErr: true},
		{name: "unknown kind", reg: Registration{Kind: "robot", Event: event}, wantErr: true},
		{name: "missing event", reg: Registration{Kind: KindGuest, Guest: guest}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.reg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRegistrant) {
					t.Errorf("Validate() = %v, want ErrInvalidRegistrant", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	t.Parallel()

	u := User{ID: primitive.NewObjectID(), Email: "a@b.co", Password: "$2a$10$hash"}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(out), "hash") || strings.Contains(string(out), "password") {
		t.Errorf("password leaked into JSON: %s", out)
	}
	if s := u.Sanitized(); s.Password != "" || u.Password == "" {
		t.Error("Sanitized should blank the copy only")
	}
}

func TestFilterTargetCollection(t *testing.T) {
	t.Parallel()

	if got := (&Filter{Name: "events"}).TargetCollection(); got != "events" {
		t.Errorf("TargetCollection() = %q, want events", got)
	}
	if got := (&Filter{Name: "approved-only", Collection: "events"}).TargetCollection(); got != "events" {
		t.Errorf("TargetCollection() = %q, want events", got)
	}
}

func TestIsEventCategory(t *testing.T) {
	t.Parallel()

	if !IsEventCategory("Civic Engagement") {
		t.Error("Civic Engagement should be valid")
	}
	if IsEventCategory("hands-on") {
		t.Error("categories are case sensitive")
	}
}
