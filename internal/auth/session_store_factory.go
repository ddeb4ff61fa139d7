// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/logging"
)

// SessionStoreType defines the type of session storage backend.
type SessionStoreType string

const (
	// SessionStoreMemory uses in-memory storage (default, not persistent).
	SessionStoreMemory SessionStoreType = "memory"

	// SessionStoreBadger uses BadgerDB for persistent session storage.
	SessionStoreBadger SessionStoreType = "badger"

	// SessionStoreRedis shares sessions between instances through Redis.
	SessionStoreRedis SessionStoreType = "redis"
)

// SessionStoreFactory opens the backend selected by configuration and owns
// its connection.
type SessionStoreFactory struct {
	storeType SessionStoreType
	db        *badger.DB
	redis     *redis.Client
}

// NewSessionStoreFactory opens the configured backend. Memory needs no
// connection.
func NewSessionStoreFactory(ctx context.Context, cfg config.SecurityConfig) (*SessionStoreFactory, error) {
	storeType := SessionStoreType(cfg.SessionStore)
	if storeType == "" {
		storeType = SessionStoreMemory
	}
	factory := &SessionStoreFactory{storeType: storeType}

	switch storeType {
	case SessionStoreMemory:
	case SessionStoreBadger:
		opts := badger.DefaultOptions(cfg.SessionStorePath)
		opts.Logger = nil // Suppress BadgerDB logs

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for sessions: %w", err)
		}
		factory.db = db
	case SessionStoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		factory.redis = client
	default:
		return nil, fmt.Errorf("unknown session store %q", storeType)
	}

	logging.Info().Str("store", string(storeType)).Msg("Session store ready")
	return factory, nil
}

// Type returns the backend type.
func (f *SessionStoreFactory) Type() SessionStoreType {
	return f.storeType
}

// CreateStore creates a SessionStore based on the factory's configuration.
func (f *SessionStoreFactory) CreateStore() SessionStore {
	switch {
	case f.db != nil:
		return NewBadgerSessionStore(f.db)
	case f.redis != nil:
		return NewRedisSessionStore(f.redis)
	default:
		return NewMemorySessionStore()
	}
}

// NeedsCleanup reports whether expired sessions must be swept by a
// background service.
func (f *SessionStoreFactory) NeedsCleanup() bool {
	return f.storeType != SessionStoreRedis
}

// Close releases the underlying connection, if any.
func (f *SessionStoreFactory) Close() error {
	var errs []error
	if f.db != nil {
		errs = append(errs, f.db.Close())
	}
	if f.redis != nil {
		errs = append(errs, f.redis.Close())
	}
	return errors.Join(errs...)
}
