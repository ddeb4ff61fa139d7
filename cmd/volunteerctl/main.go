// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Command volunteerctl runs administrative tasks against the VolunteerHub
// database. It reads the same configuration as the server.
//
//	volunteerctl seed
//	volunteerctl set-role ada@example.org coordinator
package main

import (
	"os"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
)

func main() {
	root := newRootCommand(deps{load: config.Load, open: database.Open})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
