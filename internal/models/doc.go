// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

/*
Package models defines the persisted documents of VolunteerHub.

Every type carries both bson tags (MongoDB layout) and json tags (HTTP
layout). Identifiers are primitive.ObjectID and serialize as 24-character
hex strings in JSON.

Documents:

  - Permission: one fine-grained token per guarded route and verb
  - Role: named set of permission and filter references
  - Filter: reusable query fragment scoped to a collection
  - User: account with a bcrypt credential and an optional role
  - Event: volunteer event with capacity and custom field definitions
  - Registration: tagged union of a user or guest sign-up for an Event
  - Page: dynamic page content addressed by URL
  - Upload: reference to a stored file
*/
package models
