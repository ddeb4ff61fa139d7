// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package mail

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/metrics"
)

// Email outcome labels.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Dispatcher queues messages and sends them one at a time, throttled to
// the configured rate. Enqueue never blocks.
type Dispatcher struct {
	sender  Sender
	cfg     config.EmailConfig
	queue   chan Message
	limiter *rate.Limiter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewDispatcher creates a Dispatcher delivering through sender.
func NewDispatcher(sender Sender, cfg config.EmailConfig) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 100
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		cfg:     cfg,
		queue:   make(chan Message, size),
		limiter: rate.NewLimiter(limit, 1),
		timeout: timeout,
		logger:  logging.WithComponent("mail-dispatcher"),
	}
}

// Enqueue adds msg to the queue. Configured From and ReplyTo addresses
// fill empty fields. It returns ErrQueueFull instead of waiting.
func (d *Dispatcher) Enqueue(msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	select {
	case d.queue <- withDefaults(msg, d.cfg):
		metrics.SetEmailQueueDepth(len(d.queue))
		return nil
	default:
		metrics.RecordEmail(ResultDropped)
		return ErrQueueFull
	}
}

// Pending reports the number of queued messages.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// RunWithContext delivers queued messages until ctx is canceled.
func (d *Dispatcher) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if n := len(d.queue); n > 0 {
				d.logger.Warn().Int("pending", n).Msg("Dispatcher stopping with undelivered email")
			}
			return ctx.Err()
		case msg := <-d.queue:
			metrics.SetEmailQueueDepth(len(d.queue))
			if err := d.limiter.Wait(ctx); err != nil {
				return ctx.Err()
			}
			d.deliver(ctx, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg); err != nil {
		metrics.RecordEmail(ResultFailed)
		ev := d.logger.Error().Err(err)
		if errors.Is(err, context.DeadlineExceeded) {
			ev = ev.Dur("timeout", d.timeout)
		}
		ev.Str("to", msg.To).Str("subject", msg.Subject).Msg("Failed to send email")
		return
	}
	metrics.RecordEmail(ResultSent)
	d.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
}
