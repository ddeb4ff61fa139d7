// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package main is the entry point for the VolunteerHub API server.
//
// VolunteerHub serves a JSON API for publishing volunteer events, taking
// registrations from users and guests, and managing the accounts, roles and
// per-collection filters that decide what each caller may read and change.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Storage: MongoDB (or the in-memory store), unique indexes
//  3. Permission catalog: one permission per protected route, upserted by
//     name, and the superadmin role granted all of them
//  4. Sessions: memory, BadgerDB or Redis store behind a signed cookie
//  5. Email: confirmation queue worker (log, SMTP or none)
//  6. Uploads: presigned PUT URLs when object storage is configured
//  7. Supervisor tree: session cleanup, mail dispatcher, HTTP server
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor context. The HTTP server stops
// accepting connections and drains in-flight requests before the store is
// closed.
//
// # Example Usage
//
//	export DATABASE_DRIVER=memory
//	export SESSION_SECRET=$(openssl rand -base64 32)
//	./volunteerhub
//
// Production with MongoDB and Redis sessions:
//
//	export NODE_ENV=production
//	export MONGODB_HOST=mongo:27017 MONGODB_DATABASE=volunteerhub
//	export SESSION_STORE=redis REDIS_URL=redis://redis:6379/0
//	export EMAIL_DRIVER=smtp SMTP_HOST=smtp.example.org SMTP_PORT=587
//	./volunteerhub
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Driver).
		Str("session_store", cfg.Security.SessionStore).
		Msg("Starting VolunteerHub")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer a.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree")
	if err := a.tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := a.tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	logging.Info().Msg("Application stopped gracefully")
}
