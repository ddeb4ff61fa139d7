// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package mail sends transactional email.
//
// Messages are handed to a Dispatcher, which queues them without blocking
// the caller and delivers them from a supervised goroutine through a
// Sender. Two senders exist:
//
//   - SMTPSender: net/smtp behind a sony/gobreaker circuit breaker
//   - LogSender: writes the message to the log, for development
//
// The "none" driver yields no sender at all. Callers treat a nil
// *Dispatcher as "email disabled".
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/volunteerhub/internal/config"
)

var (
	// ErrQueueFull is returned by Enqueue when the dispatch queue is at capacity.
	ErrQueueFull = errors.New("email queue is full")

	// ErrNoRecipient is returned when a message has no To address.
	ErrNoRecipient = errors.New("email has no recipient")
)

// Message is one outbound email.
type Message struct {
	To      string
	From    string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns the Sender selected by cfg.Driver. It returns nil, nil
// for the "none" driver.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "log", "":
		return NewLogSender(), nil
	case "smtp":
		return NewSMTPSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email driver %q", cfg.Driver)
	}
}

// withDefaults fills From and ReplyTo from cfg when the message leaves them empty.
func withDefaults(msg Message, cfg config.EmailConfig) Message {
	if msg.From == "" {
		msg.From = cfg.From
	}
	if msg.ReplyTo == "" {
		msg.ReplyTo = cfg.ReplyTo
	}
	return msg
}
