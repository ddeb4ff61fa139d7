// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package testinfra starts MongoDB and Redis containers for integration
// tests with testcontainers-go. Everything except this file is built only
// with the integration tag:
//
//	go test -tags integration ./...
//
// Tests call SkipIfNoDocker first so they are skipped rather than failed
// on machines without a Docker daemon.
//
//	func TestMongoStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    store, err := database.OpenMongo(ctx, config.DatabaseConfig{
//	        Protocol: "mongodb", Host: mongo.Host, Name: "volunteerhub_test",
//	    })
//	    // ...
//	}
//
// The first run downloads the images; later runs use the local cache.
package testinfra
