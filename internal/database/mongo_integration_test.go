// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

//go:build integration

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/testinfra"
)

func TestMongoStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	store, err := OpenMongo(ctx, config.DatabaseConfig{
		Protocol:       "mongodb",
		Host:           container.Host,
		Name:           "volunteerhub_test",
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer store.Close(ctx) //nolint:errcheck

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	pages := store.Collection(Pages)
	now := time.Now().UTC()
	id, err := pages.InsertOne(ctx, models.Page{Name: "About", URL: "/about", CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if _, err := pages.InsertOne(ctx, models.Page{Name: "Copy", URL: "/about"}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate url = %v, want ErrDuplicateKey", err)
	}

	if err := pages.UpdateOne(ctx, ByID(id), bson.M{"name": "About us"}); err != nil {
		t.Fatalf("UpdateOne: %v", err)
	}
	var page models.Page
	if err := pages.FindOne(ctx, ByID(id), &page); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if page.Name != "About us" {
		t.Errorf("Name = %q", page.Name)
	}

	var list []models.Page
	if err := pages.Find(ctx, bson.M{"url": bson.M{"$regex": "^/ab"}}, &FindOptions{Limit: 10}, &list); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Find = %d pages, want 1", len(list))
	}

	if err := pages.DeleteOne(ctx, ByID(id)); err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if err := pages.FindOne(ctx, ByID(id), &page); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindOne after delete = %v, want ErrNotFound", err)
	}
}
