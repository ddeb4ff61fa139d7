// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/metrics"
)

// MongoStore is a Store backed by a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to cfg.URI() and verifies the connection.
func OpenMongo(ctx context.Context, cfg config.DatabaseConfig) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			logging.Warn().Err(dErr).Msg("Failed to disconnect after ping failure")
		}
		return nil, fmt.Errorf("failed to ping mongodb at %s: %w", cfg.Host, err)
	}

	logging.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to MongoDB")
	return NewMongoStore(client, cfg.Name), nil
}

// NewMongoStore wraps an existing client.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName)}
}

// Collection implements Store.
func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

// Ping implements Store.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates every entry of Indexes. Existing identical
// indexes are left alone by the server.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, idx := range Indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.Field, Value: 1}},
			Options: options.Index().SetUnique(idx.Unique),
		}
		if _, err := s.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s.%s: %w", idx.Collection, idx.Field, err)
		}
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Name() string { return c.coll.Name() }

func (c *mongoCollection) observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordDBQuery(op, c.coll.Name(), time.Since(start), err)
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, opts *FindOptions, results any) (err error) {
	start := time.Now()
	defer func() { c.observe("find", start, err) }()

	findOpts := options.Find()
	if opts != nil {
		if len(opts.Sort) > 0 {
			sortDoc := make(bson.D, 0, len(opts.Sort))
			for _, f := range opts.Sort {
				dir := 1
				if f.Desc {
					dir = -1
				}
				sortDoc = append(sortDoc, bson.E{Key: f.Field, Value: dir})
			}
			findOpts.SetSort(sortDoc)
		}
		if opts.Skip > 0 {
			findOpts.SetSkip(opts.Skip)
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := c.coll.Find(ctx, nonNil(filter), findOpts)
	if err != nil {
		return fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, result any) (err error) {
	start := time.Now()
	defer func() { c.observe("find_one", start, err) }()

	err = c.coll.FindOne(ctx, nonNil(filter)).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) (id primitive.ObjectID, err error) {
	start := time.Now()
	defer func() { c.observe("insert", start, err) }()

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, wrapWriteError(c.coll.Name(), err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected _id type %T", c.coll.Name(), res.InsertedID)
	}
	return id, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (err error) {
	start := time.Now()
	defer func() { c.observe("update", start, err) }()

	res, err := c.coll.UpdateOne(ctx, nonNil(filter), bson.M{"$set": set})
	if err != nil {
		return wrapWriteError(c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) UpsertOne(ctx context.Context, filter bson.M, doc any) (inserted bool, err error) {
	start := time.Now()
	defer func() { c.observe("upsert", start, err) }()

	res, err := c.coll.UpdateOne(ctx, nonNil(filter), bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return false, wrapWriteError(c.coll.Name(), err)
	}
	return res.UpsertedCount > 0, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (err error) {
	start := time.Now()
	defer func() { c.observe("delete", start, err) }()

	res, err := c.coll.DeleteOne(ctx, nonNil(filter))
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) Count(ctx context.Context, filter bson.M) (n int64, err error) {
	start := time.Now()
	defer func() { c.observe("count", start, err) }()

	n, err = c.coll.CountDocuments(ctx, nonNil(filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func (c *mongoCollection) GroupCount(ctx context.Context, filter bson.M, field string) (groups []GroupCount, err error) {
	start := time.Now()
	defer func() { c.observe("aggregate", start, err) }()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: nonNil(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode aggregate %s: %w", c.coll.Name(), err)
	}
	return groups, nil
}

func wrapWriteError(collection string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s: %v", ErrDuplicateKey, collection, err)
	}
	return fmt.Errorf("write %s: %w", collection, err)
}

func nonNil(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}
