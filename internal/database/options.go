// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package database

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Pagination bounds list requests.
type Pagination struct {
	DefaultLimit int64
	MaxLimit     int64
}

// ListOptions reads limit, offset, sort and order from query parameters.
//
//   - limit defaults to p.DefaultLimit and is capped at p.MaxLimit
//   - offset skips that many documents
//   - sort is honored only when listed in sortable
//   - order is "asc" (default) or "desc"
//
// Malformed numbers fall back to their defaults.
func ListOptions(q url.Values, p Pagination, sortable ...string) *FindOptions {
	opts := &FindOptions{Limit: p.DefaultLimit}

	if v, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && v > 0 {
		opts.Limit = v
	}
	if p.MaxLimit > 0 && opts.Limit > p.MaxLimit {
		opts.Limit = p.MaxLimit
	}
	if v, err := strconv.ParseInt(q.Get("offset"), 10, 64); err == nil && v > 0 {
		opts.Skip = v
	}

	if field := q.Get("sort"); field != "" && slices.Contains(sortable, field) {
		opts.Sort = []SortField{{
			Field: field,
			Desc:  strings.EqualFold(q.Get("order"), "desc"),
		}}
	}
	return opts
}
