// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission is a dotted access token such as "users.me.get".
// Permissions are derived from the route table and never edited by hand.
type Permission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Group     string             `bson:"group" json:"group"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Role references the permissions it grants and the filters that scope
// its queries. Names are stored uppercased.
type Role struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name" validate:"required,max=64"`
	Permissions []primitive.ObjectID `bson:"permissions" json:"permissions"`
	Filters     []primitive.ObjectID `bson:"filters" json:"filters"`
	CreatedAt   time.Time            `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Filter is a predicate fragment merged into every query a holder of the
// filter makes against Collection.
type Filter struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"name" json:"name" validate:"required,max=128"`
	Collection string             `bson:"collection,omitempty" json:"collection,omitempty"`
	Predicate  bson.M             `bson:"filter" json:"filter" validate:"required"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// TargetCollection returns Collection, falling back to Name.
func (f *Filter) TargetCollection() string {
	if f.Collection != "" {
		return f.Collection
	}
	return f.Name
}
