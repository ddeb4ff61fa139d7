// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/volunteerhub/internal/logging"
)

// LogSender writes messages to the log instead of sending them.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a LogSender using the "mail" component logger.
func NewLogSender() *LogSender {
	return &LogSender{logger: logging.WithComponent("mail")}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.logger.Info().
		Str("to", msg.To).
		Str("from", msg.From).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("Email not sent (log driver)")
	return nil
}
