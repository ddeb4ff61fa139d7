// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package events

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

const (
	slugSuffixLen   = 6
	maxSlugAttempts = 5
	suffixAlphabet  = "abcdefghijklmnopqrstuvwxyz"
)

var nonWordRun = regexp.MustCompile(`[^a-z0-9_]+`)

// Slugify lowercases name, collapses every run of non-word characters into
// a single dash, trims dashes and appends the year.
//
//	Slugify("Back to School!", 2026) == "back-to-school-2026"
func Slugify(name string, year int) string {
	s := nonWordRun.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s-%d", s, year)
}

// randomSuffix returns n random lowercase letters.
func randomSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf), nil
}
