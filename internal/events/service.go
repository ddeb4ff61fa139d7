// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

// ErrSlugExhausted is returned when every slug candidate collided.
var ErrSlugExhausted = errors.New("could not generate a unique event slug")

// Input is the body of an event create request.
type Input struct {
	Name                string                                  `json:"name" validate:"required,max=200"`
	Slug                string                                  `json:"slug,omitempty" validate:"omitempty,slug_safe,max=200"`
	Description         string                                  `json:"description,omitempty"`
	Category            string                                  `json:"category,omitempty" validate:"omitempty,event_category"`
	Address             string                                  `json:"address,omitempty"`
	Location            *models.GeoPoint                        `json:"location,omitempty"`
	StartTime           *time.Time                              `json:"startTime,omitempty"`
	EndTime             *time.Time                              `json:"endTime,omitempty"`
	MaxRegistrations    *int                                    `json:"maxRegistrations,omitempty" validate:"omitempty,gte=0"`
	CustomFields        map[string]models.CustomFieldDefinition `json:"customFields,omitempty" validate:"omitempty,dive"`
	VolunteerCategories map[string]models.VolunteerCategory     `json:"volunteerCategories,omitempty" validate:"omitempty,dive"`
}

// Patch is a partial event update. The slug cannot be patched.
type Patch struct {
	Name                *string                                 `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description         *string                                 `json:"description,omitempty"`
	Category            *string                                 `json:"category,omitempty" validate:"omitempty,event_category"`
	Address             *string                                 `json:"address,omitempty"`
	Location            *models.GeoPoint                        `json:"location,omitempty"`
	StartTime           *time.Time                              `json:"startTime,omitempty"`
	EndTime             *time.Time                              `json:"endTime,omitempty"`
	MaxRegistrations    *int                                    `json:"maxRegistrations,omitempty" validate:"omitempty,gte=0"`
	CustomFields        map[string]models.CustomFieldDefinition `json:"customFields,omitempty" validate:"omitempty,dive"`
	VolunteerCategories map[string]models.VolunteerCategory     `json:"volunteerCategories,omitempty" validate:"omitempty,dive"`
}

// Service manages events and projects their capacity on read.
type Service struct {
	store  database.Store
	now    func() time.Time
	suffix func() (string, error)
}

// NewService creates a Service backed by store.
func NewService(store database.Store) *Service {
	return &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		suffix: func() (string, error) { return randomSuffix(slugSuffixLen) },
	}
}

func (s *Service) events() database.Collection {
	return s.store.Collection(database.Events)
}

// Create stores a new event. When no slug is supplied one is generated
// from the name and the current year, with a random suffix on collision.
func (s *Service) Create(ctx context.Context, in Input) (*models.Event, error) {
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	now := s.now()
	event := models.Event{
		Name:                in.Name,
		Slug:                in.Slug,
		Description:         in.Description,
		Category:            in.Category,
		Address:             in.Address,
		Location:            in.Location,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		MaxRegistrations:    in.MaxRegistrations,
		CustomFields:        in.CustomFields,
		VolunteerCategories: in.VolunteerCategories,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if event.Slug != "" {
		id, err := s.events().InsertOne(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("insert event: %w", err)
		}
		event.ID = id
		return &event, nil
	}

	base := Slugify(event.Name, now.Year())
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		event.Slug = base
		if attempt > 0 {
			suffix, err := s.suffix()
			if err != nil {
				return nil, err
			}
			event.Slug = base + "-" + suffix
		}

		id, err := s.events().InsertOne(ctx, event)
		if err == nil {
			event.ID = id
			return &event, nil
		}
		if !errors.Is(err, database.ErrDuplicateKey) {
			return nil, fmt.Errorf("insert event: %w", err)
		}
		logging.Ctx(ctx).Debug().Str("slug", event.Slug).Int("attempt", attempt+1).Msg("Event slug collision")
	}
	return nil, fmt.Errorf("%w: %s", ErrSlugExhausted, base)
}

// Get returns the first event matching filter with capacity projected.
func (s *Service) Get(ctx context.Context, filter bson.M) (*models.Event, error) {
	var event models.Event
	if err := s.events().FindOne(ctx, filter, &event); err != nil {
		return nil, err
	}
	projected, err := s.project(ctx, event)
	if err != nil {
		return nil, err
	}
	return &projected, nil
}

// Raw returns the first event matching filter without projection.
func (s *Service) Raw(ctx context.Context, filter bson.M) (*models.Event, error) {
	var event models.Event
	if err := s.events().FindOne(ctx, filter, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns matching events with capacity projected.
func (s *Service) List(ctx context.Context, filter bson.M, opts *database.FindOptions) ([]models.Event, error) {
	var found []models.Event
	if err := s.events().Find(ctx, filter, opts, &found); err != nil {
		return nil, err
	}
	for i := range found {
		projected, err := s.project(ctx, found[i])
		if err != nil {
			return nil, err
		}
		found[i] = projected
	}
	return found, nil
}

// Update applies p to the first event matching filter. The slug is never
// changed, even when the name is.
func (s *Service) Update(ctx context.Context, filter bson.M, p Patch) (*models.Event, error) {
	if err := validation.Check(p); err != nil {
		return nil, err
	}
	current, err := s.Raw(ctx, filter)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": s.now()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Location != nil {
		set["location"] = p.Location
	}
	if p.StartTime != nil {
		set["startTime"] = *p.StartTime
	}
	if p.EndTime != nil {
		set["endTime"] = *p.EndTime
	}
	if p.MaxRegistrations != nil {
		set["maxRegistrations"] = *p.MaxRegistrations
	}
	if p.CustomFields != nil {
		set["customFields"] = p.CustomFields
	}
	if p.VolunteerCategories != nil {
		set["volunteerCategories"] = p.VolunteerCategories
	}

	byID := database.ByID(current.ID)
	if err := s.events().UpdateOne(ctx, byID, set); err != nil {
		return nil, err
	}
	return s.Get(ctx, byID)
}

// Delete removes the first event matching filter.
func (s *Service) Delete(ctx context.Context, filter bson.M) error {
	current, err := s.Raw(ctx, filter)
	if err != nil {
		return err
	}
	return s.events().DeleteOne(ctx, database.ByID(current.ID))
}

// Tally counts the registrations held by an event using a grouped count.
func (s *Service) Tally(ctx context.Context, eventID primitive.ObjectID) (Tally, error) {
	groups, err := s.store.Collection(database.Registrations).
		GroupCount(ctx, bson.M{"event": eventID}, "volunteerCategory")
	if err != nil {
		return Tally{}, fmt.Errorf("tally registrations: %w", err)
	}
	t := Tally{ByCategory: make(map[string]int64, len(groups))}
	for _, g := range groups {
		t.Total += g.Count
		if name, ok := g.Key.(string); ok && name != "" {
			t.ByCategory[name] += g.Count
		}
	}
	return t, nil
}

func (s *Service) project(ctx context.Context, event models.Event) (models.Event, error) {
	if !needsTally(&event) {
		return event, nil
	}
	t, err := s.Tally(ctx, event.ID)
	if err != nil {
		return models.Event{}, err
	}
	return Project(event, t), nil
}
