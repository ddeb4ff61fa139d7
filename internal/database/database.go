// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package database is the document storage layer.
//
// Store and Collection describe the small set of operations the services
// need. Two implementations exist: MongoStore (go.mongodb.org/mongo-driver)
// for deployments and MemoryStore for development and tests. Both accept
// the same bson.M predicate subset and report the same sentinel errors.
package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/config"
)

// Collection names.
const (
	Events        = "events"
	Registrations = "registrations"
	Users         = "users"
	Roles         = "roles"
	Filters       = "filters"
	Permissions   = "permissions"
	Pages         = "pages"
	Uploads       = "uploads"
)

var (
	// ErrNotFound is returned when a single-document operation matches nothing.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidID is returned when an identifier is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid identifier")
)

// SortField orders results by one field.
type SortField struct {
	Field string
	Desc  bool
}

// FindOptions controls pagination and ordering of Find.
type FindOptions struct {
	Sort  []SortField
	Skip  int64
	Limit int64
}

// GroupCount is one bucket of a GroupCount result. Key is the grouped
// field's value, nil when the field is missing.
type GroupCount struct {
	Key   any   `bson:"_id"`
	Count int64 `bson:"count"`
}

// Collection is a named set of documents.
type Collection interface {
	Name() string

	// Find decodes every match into results, a pointer to a slice.
	Find(ctx context.Context, filter bson.M, opts *FindOptions, results any) error

	// FindOne decodes the first match into result or returns ErrNotFound.
	FindOne(ctx context.Context, filter bson.M, result any) error

	// InsertOne stores doc and returns its _id.
	InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error)

	// UpdateOne applies set as a $set to the first match or returns ErrNotFound.
	UpdateOne(ctx context.Context, filter bson.M, set bson.M) error

	// UpsertOne inserts doc only when nothing matches filter. It reports
	// whether an insert happened. Existing documents are left untouched.
	UpsertOne(ctx context.Context, filter bson.M, doc any) (bool, error)

	// DeleteOne removes the first match or returns ErrNotFound.
	DeleteOne(ctx context.Context, filter bson.M) error

	Count(ctx context.Context, filter bson.M) (int64, error)

	// GroupCount counts matches grouped by the value of field.
	GroupCount(ctx context.Context, filter bson.M, field string) ([]GroupCount, error)
}

// Store is a database holding named collections.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}

// IndexSpec describes a single-field index.
type IndexSpec struct {
	Collection string
	Field      string
	Unique     bool
}

// Indexes is the index set every Store maintains.
var Indexes = []IndexSpec{
	{Collection: Events, Field: "slug", Unique: true},
	{Collection: Users, Field: "email", Unique: true},
	{Collection: Roles, Field: "name", Unique: true},
	{Collection: Filters, Field: "name", Unique: true},
	{Collection: Permissions, Field: "name", Unique: true},
	{Collection: Pages, Field: "url", Unique: true},
	{Collection: Registrations, Field: "event"},
}

// Open returns the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "mongo", "":
		return OpenMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// ParseID converts a hex string into an ObjectID.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// ByID is the filter selecting a single document by _id.
func ByID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}
