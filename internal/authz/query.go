// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package authz

import (
	"context"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildQuery returns a new query holding base without nil values, with
// filters[collection] merged on top. Filter keys win on conflict. Neither
// input is modified.
func BuildQuery(base bson.M, filters map[string]bson.M, collection string) bson.M {
	scope := filters[collection]
	out := make(bson.M, len(base)+len(scope))
	for k, v := range base {
		if isNil(v) {
			continue
		}
		out[k] = v
	}
	for k, v := range scope {
		out[k] = v
	}
	return out
}

// ScopedQuery is BuildQuery with the filters attached to ctx.
func ScopedQuery(ctx context.Context, base bson.M, collection string) bson.M {
	return BuildQuery(base, FiltersFromContext(ctx), collection)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
