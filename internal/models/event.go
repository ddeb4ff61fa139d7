// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event categories accepted by the API.
const (
	CategoryHandsOn         = "Hands-On"
	CategoryCivicEngagement = "Civic Engagement"
	CategoryFundraiser      = "Fundraiser"
	CategoryEducation       = "Education"
	CategorySocial          = "Social"
	CategoryOther           = "Other"
)

// EventCategories lists every valid Event.Category.
var EventCategories = []string{
	CategoryHandsOn,
	CategoryCivicEngagement,
	CategoryFundraiser,
	CategoryEducation,
	CategorySocial,
	CategoryOther,
}

// IsEventCategory reports whether s is a valid category.
func IsEventCategory(s string) bool {
	for _, c := range EventCategories {
		if c == s {
			return true
		}
	}
	return false
}

// Custom field value types.
const (
	FieldString  = "string"
	FieldNumber  = "number"
	FieldBoolean = "boolean"
	FieldDate    = "date"
	FieldEnum    = "enum"
)

// CustomFieldDefinition describes an extra registration question.
type CustomFieldDefinition struct {
	Type     string   `bson:"type" json:"type" validate:"oneof=string number boolean date enum"`
	Enum     []string `bson:"enum,omitempty" json:"enum,omitempty" validate:"required_if=Type enum"`
	Required bool     `bson:"required" json:"required"`
}

// VolunteerCategory is a role volunteers sign up for within an event.
// A Capacity of zero means unlimited.
type VolunteerCategory struct {
	Capacity int    `bson:"capacity" json:"capacity" validate:"gte=0"`
	Shift    string `bson:"shift,omitempty" json:"shift,omitempty"`
}

// GeoPoint is a GeoJSON point, coordinates ordered [lng, lat].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point.
func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Event is a volunteer event. Slug is assigned once at creation.
// IsFull is computed at read time and never stored.
type Event struct {
	ID                  primitive.ObjectID               `bson:"_id,omitempty" json:"_id"`
	Name                string                           `bson:"name" json:"name"`
	Slug                string                           `bson:"slug,omitempty" json:"slug,omitempty"`
	Description         string                           `bson:"description,omitempty" json:"description,omitempty"`
	Category            string                           `bson:"category,omitempty" json:"category,omitempty"`
	Address             string                           `bson:"address,omitempty" json:"address,omitempty"`
	Location            *GeoPoint                        `bson:"location,omitempty" json:"location,omitempty"`
	StartTime           *time.Time                       `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime             *time.Time                       `bson:"endTime,omitempty" json:"endTime,omitempty"`
	MaxRegistrations    *int                             `bson:"maxRegistrations,omitempty" json:"maxRegistrations,omitempty"`
	CustomFields        map[string]CustomFieldDefinition `bson:"customFields,omitempty" json:"customFields,omitempty"`
	VolunteerCategories map[string]VolunteerCategory     `bson:"volunteerCategories,omitempty" json:"volunteerCategories,omitempty"`
	IsFull              bool                             `bson:"-" json:"isFull"`
	CreatedAt           time.Time                        `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt           time.Time                        `bson:"updatedAt,omitempty" json:"updatedAt"`
}
