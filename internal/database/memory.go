// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/256dpi/lungo/bsonkit"
	"github.com/256dpi/lungo/mongokit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store. Documents are kept in their BSON
// round-tripped form and queries are evaluated with lungo's MongoDB
// compatible matcher, so filters behave as they do against a server.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemoryStore returns an empty store with Indexes applied.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Collection implements Store.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{name: name}
		for _, idx := range Indexes {
			if idx.Collection == name && idx.Unique {
				c.unique = append(c.unique, idx.Field)
			}
		}
		s.collections[name] = c
	}
	return c
}

// Ping implements Store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// EnsureIndexes implements Store. Unique fields are enforced from creation.
func (s *MemoryStore) EnsureIndexes(context.Context) error {
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}

type memoryCollection struct {
	name   string
	unique []string

	mu   sync.RWMutex
	docs bsonkit.List
}

func (c *memoryCollection) Name() string { return c.name }

func (c *memoryCollection) Find(ctx context.Context, filter bson.M, opts *FindOptions, results any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query, err := toQuery(filter)
	if err != nil {
		return err
	}
	c.mu.RLock()
	matched, err := c.matching(query)
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	if opts != nil {
		if len(opts.Sort) > 0 {
			sortDocs(matched, opts.Sort)
		}
		matched = paginate(matched, opts.Skip, opts.Limit)
	}
	return decodeMany(matched, results)
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M, result any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query, err := toQuery(filter)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, err := c.first(query)
	if err != nil {
		return err
	}
	return decodeOne(c.docs[i], result)
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	d, err := toDocument(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	v, _ := field(d, "_id")
	id, ok := v.(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		setField(d, "_id", id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(d, -1); err != nil {
		return primitive.NilObjectID, err
	}
	c.docs = append(c.docs, d)
	return id, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query, err := toQuery(filter)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.first(query)
	if err != nil {
		return err
	}

	updated := cloneDoc(c.docs[i])
	for path, v := range set {
		if path == "_id" {
			continue
		}
		setField(updated, path, v)
	}
	normalized, err := toDocument(*updated)
	if err != nil {
		return err
	}
	if err := c.checkUnique(normalized, i); err != nil {
		return err
	}
	c.docs[i] = normalized
	return nil
}

func (c *memoryCollection) UpsertOne(ctx context.Context, filter bson.M, doc any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	query, err := toQuery(filter)
	if err != nil {
		return false, err
	}
	c.mu.RLock()
	_, err = c.first(query)
	c.mu.RUnlock()
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if _, err := c.InsertOne(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query, err := toQuery(filter)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.first(query)
	if err != nil {
		return err
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return nil
}

func (c *memoryCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	query, err := toQuery(filter)
	if err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	matched, err := c.matching(query)
	return int64(len(matched)), err
}

func (c *memoryCollection) GroupCount(ctx context.Context, filter bson.M, path string) ([]GroupCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, err := toQuery(filter)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	matched, err := c.matching(query)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	var groups []GroupCount
	for _, doc := range matched {
		key, _ := field(doc, path)
		found := false
		for i := range groups {
			if bsonkit.Compare(groups[i].Key, key) == 0 {
				groups[i].Count++
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, GroupCount{Key: key, Count: 1})
		}
	}
	return groups, nil
}

// matching returns every matching document. Stored documents are replaced,
// never mutated, so callers may read them after unlocking. Caller holds c.mu.
func (c *memoryCollection) matching(query bsonkit.Doc) (bsonkit.List, error) {
	var out bsonkit.List
	for _, doc := range c.docs {
		ok, err := mongokit.Match(doc, query)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", c.name, err)
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// first returns the index of the first match. Caller holds c.mu.
func (c *memoryCollection) first(query bsonkit.Doc) (int, error) {
	for i, doc := range c.docs {
		ok, err := mongokit.Match(doc, query)
		if err != nil {
			return -1, fmt.Errorf("match %s: %w", c.name, err)
		}
		if ok {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// checkUnique rejects doc if a unique field collides with another
// document. skip is the index being replaced, or -1. Caller holds c.mu.
func (c *memoryCollection) checkUnique(doc bsonkit.Doc, skip int) error {
	for _, path := range c.unique {
		v, ok := field(doc, path)
		if !ok || v == nil {
			continue
		}
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if ov, ok := field(other, path); ok && bsonkit.Compare(ov, v) == 0 {
				return fmt.Errorf("%w: %s.%s %v", ErrDuplicateKey, c.name, path, v)
			}
		}
	}
	return nil
}

// toDocument round-trips v through BSON into the primitive form the
// matcher expects: nested documents become bson.D and arrays bson.A.
func toDocument(v any) (bsonkit.Doc, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &d, nil
}

// toQuery converts a filter. A nil filter matches everything.
func toQuery(filter bson.M) (bsonkit.Doc, error) {
	if filter == nil {
		return &bson.D{}, nil
	}
	q, err := toDocument(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return q, nil
}

func decodeOne(doc bsonkit.Doc, result any) error {
	raw, err := bson.Marshal(*doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return bson.Unmarshal(raw, result)
}

func decodeMany(docs bsonkit.List, results any) error {
	items := make(bson.A, len(docs))
	for i, d := range docs {
		items[i] = *d
	}
	raw, err := bson.Marshal(bson.D{{Key: "items", Value: items}})
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	return bson.Raw(raw).Lookup("items").Unmarshal(results)
}

// field returns the value at a dotted path.
func field(doc bsonkit.Doc, path string) (any, bool) {
	cur := *doc
	parts := strings.Split(path, ".")
	for i, key := range parts {
		v, ok := get(cur, key)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if cur, ok = v.(bson.D); !ok {
			return nil, false
		}
	}
	return nil, false
}

func get(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// setField sets the value at a dotted path, creating intermediate
// documents as needed.
func setField(doc bsonkit.Doc, path string, v any) {
	key, rest, nested := strings.Cut(path, ".")
	for i, e := range *doc {
		if e.Key != key {
			continue
		}
		if !nested {
			(*doc)[i].Value = v
			return
		}
		sub, ok := e.Value.(bson.D)
		if !ok {
			sub = bson.D{}
		}
		setField(&sub, rest, v)
		(*doc)[i].Value = sub
		return
	}
	if !nested {
		*doc = append(*doc, bson.E{Key: key, Value: v})
		return
	}
	sub := bson.D{}
	setField(&sub, rest, v)
	*doc = append(*doc, bson.E{Key: key, Value: sub})
}

// cloneDoc copies doc deeply enough for setField to leave the original intact.
func cloneDoc(doc bsonkit.Doc) bsonkit.Doc {
	out := make(bson.D, len(*doc))
	for i, e := range *doc {
		if sub, ok := e.Value.(bson.D); ok {
			e.Value = *cloneDoc(&sub)
		}
		out[i] = e
	}
	return &out
}

func sortDocs(docs bsonkit.List, fields []SortField) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range fields {
			a, aok := field(docs[i], f.Field)
			b, bok := field(docs[j], f.Field)
			var c int
			switch {
			case !aok && !bok:
				c = 0
			case !aok:
				c = -1
			case !bok:
				c = 1
			default:
				c = bsonkit.Compare(a, b)
			}
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func paginate(docs bsonkit.List, skip, limit int64) bsonkit.List {
	if skip > 0 {
		if skip >= int64(len(docs)) {
			return nil
		}
		docs = docs[skip:]
	}
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}
