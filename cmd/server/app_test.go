// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/volunteerhub/internal/api"
	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0, Timeout: 5 * time.Second},
		API:      config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Database: config.DatabaseConfig{Driver: "memory"},
		Security: config.SecurityConfig{
			SessionSecret:  "test-secret-at-least-32-bytes-long!!",
			SessionTimeout: time.Hour,
			SessionStore:   "memory",
			CookieName:     "volunteerhub.sid",
			RateLimitReqs:  100,
			BcryptCost:     4,
			DefaultRole:    "USER",
			SuperadminRole: "superadmin",
		},
		Email:   config.EmailConfig{Driver: "log", QueueSize: 10},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func TestNewApp(t *testing.T) {
	t.Parallel()

	a, err := newApp(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /ping = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/uploads/presign", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous presign = %d, want 401", rec.Code)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*config.Config){
		"database driver": func(c *config.Config) { c.Database.Driver = "sqlite" },
		"session store":   func(c *config.Config) { c.Security.SessionStore = "etcd" },
		"session secret":  func(c *config.Config) { c.Security.SessionSecret = "" },
		"email driver":    func(c *config.Config) { c.Email.Driver = "carrier-pigeon" },
		"cors pattern":    func(c *config.Config) { c.Security.CORSOrigin = "(" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			mutate(cfg)
			if _, err := newApp(context.Background(), cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := database.NewMemoryStore()

	for i := 0; i < 2; i++ {
		if err := bootstrap(ctx, store, "superadmin"); err != nil {
			t.Fatalf("bootstrap #%d: %v", i+1, err)
		}
	}

	want := len(authz.CollectPermissions(api.Endpoints()))
	if n, err := store.Collection(database.Permissions).Count(ctx, bson.M{}); err != nil || n != int64(want) {
		t.Errorf("permissions = %d, %v; want %d", n, err, want)
	}

	var roles []models.Role
	if err := store.Collection(database.Roles).Find(ctx, bson.M{}, nil, &roles); err != nil {
		t.Fatalf("Find roles: %v", err)
	}
	if len(roles) != 1 || roles[0].Name != "SUPERADMIN" || len(roles[0].Permissions) != want {
		t.Errorf("roles = %+v", roles)
	}
}
