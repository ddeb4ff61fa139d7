// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registrant kinds.
const (
	KindUser  = "user"
	KindGuest = "guest"
)

// ErrInvalidRegistrant is returned when a Registration's variant payload
// does not match its Kind.
var ErrInvalidRegistrant = errors.New("invalid registrant")

// UserRegistrant links a registration to an account.
type UserRegistrant struct {
	ID primitive.ObjectID `bson:"id" json:"id"`
}

// GuestRegistrant identifies an anonymous sign-up.
type GuestRegistrant struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
}

// Registration is a sign-up for an Event. Exactly one of User or Guest is
// set, selected by Kind.
type Registration struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Kind              string             `bson:"kind" json:"kind"`
	Event             primitive.ObjectID `bson:"event" json:"event"`
	User              *UserRegistrant    `bson:"user,omitempty" json:"user,omitempty"`
	Guest             *GuestRegistrant   `bson:"guest,omitempty" json:"guest,omitempty"`
	Phone             string             `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth       *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	HasAgreedToTerms  bool               `bson:"hasAgreedToTerms" json:"hasAgreedToTerms"`
	CheckedIn         bool               `bson:"checkedIn" json:"checkedIn"`
	EContactName      string             `bson:"eContactName,omitempty" json:"eContactName,omitempty"`
	EContactPhone     string             `bson:"eContactPhone,omitempty" json:"eContactPhone,omitempty"`
	VolunteerCategory string             `bson:"volunteerCategory,omitempty" json:"volunteerCategory,omitempty"`
	CustomFields      map[string]string  `bson:"customFields,omitempty" json:"customFields,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Validate checks the tagged union invariant.
func (r *Registration) Validate() error {
	switch r.Kind {
	case KindUser:
		if r.User == nil || r.Guest != nil {
			return fmt.Errorf("%w: kind %q requires only a user payload", ErrInvalidRegistrant, r.Kind)
		}
		if r.User.ID.IsZero() {
			return fmt.Errorf("%w: user id is required", ErrInvalidRegistrant)
		}
	case KindGuest:
		if r.Guest == nil || r.User != nil {
			return fmt.Errorf("%w: kind %q requires only a guest payload", ErrInvalidRegistrant, r.Kind)
		}
		if r.Guest.FirstName == "" || r.Guest.LastName == "" || r.Guest.Email == "" {
			return fmt.Errorf("%w: guest first name, last name and email are required", ErrInvalidRegistrant)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRegistrant, r.Kind)
	}
	if r.Event.IsZero() {
		return fmt.Errorf("%w: event is required", ErrInvalidRegistrant)
	}
	return nil
}

// EventRegistrationCount is one row of the count-per-event report.
type EventRegistrationCount struct {
	Event            primitive.ObjectID `bson:"_id" json:"_id"`
	NumRegistrations int64              `bson:"numRegistrations" json:"numRegistrations"`
}
