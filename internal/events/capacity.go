// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package events

import (
	"maps"
	"strings"

	"github.com/tomtom215/volunteerhub/internal/models"
)

// Tally is the number of registrations held by one event.
type Tally struct {
	Total      int64
	ByCategory map[string]int64
}

// TallyRegistrations counts already fetched registrations.
func TallyRegistrations(regs []models.Registration) Tally {
	t := Tally{ByCategory: make(map[string]int64)}
	for i := range regs {
		t.Total++
		if c := regs[i].VolunteerCategory; c != "" {
			t.ByCategory[c]++
		}
	}
	return t
}

// Project returns a copy of event with read-time capacity applied. A full
// event is marked IsFull. Otherwise volunteer categories that reached
// their capacity are dropped. The input event is not modified.
func Project(event models.Event, tally Tally) models.Event {
	out := event
	if event.MaxRegistrations != nil && *event.MaxRegistrations > 0 &&
		tally.Total >= int64(*event.MaxRegistrations) {
		out.IsFull = true
		return out
	}
	if len(event.VolunteerCategories) == 0 {
		return out
	}

	out.VolunteerCategories = maps.Clone(event.VolunteerCategories)
	for name, cat := range event.VolunteerCategories {
		if cat.Capacity > 0 && tally.ByCategory[name] >= int64(cat.Capacity) {
			delete(out.VolunteerCategories, name)
		}
	}
	return out
}

// ParseVolunteerCategory returns the category part of a submitted value,
// dropping an optional " - <shift>" suffix.
//
//	ParseVolunteerCategory("Setup - Morning") == "Setup"
func ParseVolunteerCategory(value string) string {
	name, _, _ := strings.Cut(value, " - ")
	return strings.TrimSpace(name)
}

// needsTally reports whether projecting event depends on its registrations.
func needsTally(event *models.Event) bool {
	if event.MaxRegistrations != nil && *event.MaxRegistrations > 0 {
		return true
	}
	for _, cat := range event.VolunteerCategories {
		if cat.Capacity > 0 {
			return true
		}
	}
	return false
}
