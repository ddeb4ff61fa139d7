// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package services

import (
	"context"
	"time"

	"github.com/tomtom215/volunteerhub/internal/logging"
)

// DefaultCleanupInterval is how often expired sessions are swept.
const DefaultCleanupInterval = 15 * time.Minute

// SessionCleaner is the sweep method of auth.SessionStore.
type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// SessionCleanupService periodically removes expired sessions from stores
// without native expiry (the in-memory store). Sweep errors are logged and
// retried on the next tick rather than restarting the service.
type SessionCleanupService struct {
	cleaner  SessionCleaner
	interval time.Duration
	name     string
}

// NewSessionCleanupService sweeps cleaner every interval. A non-positive
// interval uses DefaultCleanupInterval.
func NewSessionCleanupService(cleaner SessionCleaner, interval time.Duration) *SessionCleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &SessionCleanupService{
		cleaner:  cleaner,
		interval: interval,
		name:     "session-cleanup",
	}
}

// Serve implements suture.Service.
func (s *SessionCleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionCleanupService) sweep(ctx context.Context) {
	removed, err := s.cleaner.CleanupExpired(ctx)
	if err != nil {
		logging.CtxErr(ctx, err).Msg("Session cleanup failed")
		return
	}
	if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("Expired sessions removed")
	}
}

func (s *SessionCleanupService) String() string {
	return s.name
}
