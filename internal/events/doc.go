// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package events manages events and their registrations.
//
// Slugs are generated once at creation from the name and the current year
// and never change afterwards. Capacity is not stored: Project derives
// IsFull and the open volunteer categories from a Tally of registrations
// every time an event is read. RegistrationService.Register re-checks
// both limits before inserting and queues a confirmation email.
package events
