// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

/*
Package supervisor runs the long-lived parts of VolunteerHub under suture v4.

	volunteerhub
	├── storage-layer
	│   └── session-cleanup (memory session store only)
	├── background-layer
	│   └── mail-dispatcher
	└── api-layer
	    └── http-server

Services that return an error are restarted with backoff. Canceling the
context passed to Serve stops every layer, bounded by
TreeConfig.ShutdownTimeout. Supervisor events are logged through
sutureslog into the application's zerolog output.

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor stopped")
	}
*/
package supervisor
