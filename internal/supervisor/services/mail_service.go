// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package services

import (
	"context"
)

// MailWorker is satisfied by *mail.Dispatcher.
type MailWorker interface {
	// RunWithContext delivers queued messages until ctx is canceled.
	RunWithContext(ctx context.Context) error
}

// MailService runs the confirmation email queue worker. Messages still
// queued when the service stops are dropped.
type MailService struct {
	worker MailWorker
	name   string
}

// NewMailService wraps worker.
func NewMailService(worker MailWorker) *MailService {
	return &MailService{
		worker: worker,
		name:   "mail-dispatcher",
	}
}

// Serve implements suture.Service.
func (m *MailService) Serve(ctx context.Context) error {
	return m.worker.RunWithContext(ctx)
}

func (m *MailService) String() string {
	return m.name
}
