// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account. Password holds the bcrypt hash and is never written
// to JSON.
type User struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	FirstName string              `bson:"firstName" json:"firstName"`
	LastName  string              `bson:"lastName" json:"lastName"`
	Email     string              `bson:"email" json:"email"`
	Password  string              `bson:"password,omitempty" json:"-"`
	Role      *primitive.ObjectID `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt time.Time           `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Sanitized returns a copy with the credential removed.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Password = ""
	return &c
}
