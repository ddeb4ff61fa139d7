// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/volunteerhub/internal/api"
	"github.com/tomtom215/volunteerhub/internal/auth"
	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/events"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/mail"
	"github.com/tomtom215/volunteerhub/internal/supervisor"
	"github.com/tomtom215/volunteerhub/internal/supervisor/services"
	"github.com/tomtom215/volunteerhub/internal/uploads"
	"github.com/tomtom215/volunteerhub/internal/users"
)

const closeTimeout = 5 * time.Second

// app holds the wired server.
type app struct {
	store    database.Store
	sessions *auth.SessionStoreFactory
	handler  http.Handler
	tree     *supervisor.SupervisorTree
}

// bootstrap prepares storage for serving: indexes, the permission catalog
// and a superadmin role holding every permission.
func bootstrap(ctx context.Context, store database.Store, superadmin string) error {
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	created, err := authz.SyncCatalog(ctx, store, api.Endpoints())
	if err != nil {
		return fmt.Errorf("sync permission catalog: %w", err)
	}
	role, err := authz.GrantAll(ctx, store, superadmin)
	if err != nil {
		return fmt.Errorf("grant superadmin: %w", err)
	}
	logging.Info().
		Int("new_permissions", created).
		Str("role", role.Name).
		Int("role_permissions", len(role.Permissions)).
		Msg("Authorization bootstrapped")
	return nil
}

//nolint:gocyclo // sequential wiring
func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.store, err = database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := bootstrap(ctx, a.store, cfg.Security.SuperadminRole); err != nil {
		return nil, err
	}

	a.sessions, err = auth.NewSessionStoreFactory(ctx, cfg.Security)
	if err != nil {
		return nil, err
	}
	sessionStore := a.sessions.CreateStore()
	signer, err := auth.NewCookieSigner(cfg.Security.SessionSecret)
	if err != nil {
		return nil, err
	}
	sessions := auth.NewSessionMiddleware(
		sessionStore,
		signer,
		auth.NewSerializer(a.store),
		auth.NewSessionMiddlewareConfig(cfg.Security),
		func(w http.ResponseWriter, r *http.Request, _ error) {
			api.WriteError(w, r, http.StatusInternalServerError, api.ErrCodeInternalError, "Internal server error")
		},
	)

	sender, err := mail.NewSender(cfg.Email)
	if err != nil {
		return nil, err
	}
	var (
		mailer     events.Mailer
		dispatcher *mail.Dispatcher
	)
	if sender != nil {
		dispatcher = mail.NewDispatcher(sender, cfg.Email)
		mailer = dispatcher
	} else {
		logging.Info().Msg("Email disabled, registration confirmations will not be sent")
	}

	var presigner api.Presigner
	p, err := uploads.NewPresigner(ctx, cfg.Storage)
	switch {
	case errors.Is(err, uploads.ErrDisabled):
		logging.Info().Msg("Object storage not configured, presigned uploads disabled")
	case err != nil:
		return nil, err
	default:
		presigner = p
	}

	handler := api.NewHandler(api.Deps{
		Config:        cfg,
		Store:         a.store,
		Users:         users.NewService(a.store, cfg.Security),
		Events:        events.NewService(a.store),
		Registrations: events.NewRegistrationService(a.store, mailer, mail.RegistrationData{Organization: cfg.Email.Organization, ReplyTo: cfg.Email.ReplyTo}),
		Presigner:     presigner,
		Sessions:      sessions,
	})
	chiMW, err := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security))
	if err != nil {
		return nil, err
	}
	a.handler = api.NewRouter(handler, chiMW).SetupChi()

	a.tree, err = supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, err
	}
	if a.sessions.NeedsCleanup() {
		a.tree.AddStorageService(services.NewSessionCleanupService(sessionStore, services.DefaultCleanupInterval))
	}
	if dispatcher != nil {
		a.tree.AddBackgroundService(services.NewMailService(dispatcher))
	}
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.handler,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	a.tree.AddAPIService(services.NewHTTPServerService(server, services.DefaultShutdownTimeout))
	return a, nil
}

// Close releases the session backend and the store.
func (a *app) Close() {
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.store.Close(ctx); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}
}
