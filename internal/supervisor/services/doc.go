// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

/*
Package services adapts the long-running parts of VolunteerHub to the
suture.Service interface.

	HTTPServerService     *http.Server (api layer)
	MailService           mail.Dispatcher queue worker (background layer)
	SessionCleanupService periodic expired-session sweep (storage layer)

Each wrapper returns ctx.Err() on a requested shutdown and a wrapped error
on failure, which suture treats as a crash and restarts with backoff. The
wrappers depend on small interfaces so they can be tested without a
network listener, an SMTP server or a session backend.
*/
package services
