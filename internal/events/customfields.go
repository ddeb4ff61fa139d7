// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package events

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

// ValidateCustomFields checks submitted values against an event's field
// definitions. Required fields must be present, values must parse as their
// declared type and enum values must be listed. When the event declares
// any definitions, undeclared keys are rejected.
func ValidateCustomFields(defs map[string]models.CustomFieldDefinition, values map[string]string) error {
	var errs []*validation.RequestValidationError

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		value, ok := values[name]
		if !ok || value == "" {
			if def.Required {
				errs = append(errs, validation.NewFieldError(name, "required", name+" is required"))
			}
			continue
		}
		if msg := checkFieldType(name, def, value); msg != "" {
			errs = append(errs, validation.NewFieldError(name, def.Type, msg))
		}
	}

	if len(defs) > 0 {
		extra := make([]string, 0)
		for key := range values {
			if _, ok := defs[key]; !ok {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			errs = append(errs, validation.NewFieldError(key, "unknown", key+" is not a field of this event"))
		}
	}

	if merged := validation.Merge(errs...); merged != nil {
		return merged
	}
	return nil
}

func checkFieldType(name string, def models.CustomFieldDefinition, value string) string {
	switch def.Type {
	case models.FieldNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return name + " must be a number"
		}
	case models.FieldBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return name + " must be true or false"
		}
	case models.FieldDate:
		if _, err := parseDate(value); err != nil {
			return name + " must be a date"
		}
	case models.FieldEnum:
		if !slices.Contains(def.Enum, value) {
			return fmt.Sprintf("%s must be one of: %s", name, strings.Join(def.Enum, ", "))
		}
	}
	return ""
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
