// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/models"
)

// ErrNoUserFound is returned when a session references a user that does not
// exist.
var ErrNoUserFound = errors.New("No user found") //nolint:staticcheck // message is part of the API contract

// Serializer converts principals to and from the identifier kept in a
// session. Nothing is cached; every Deserialize reads the current role.
type Serializer struct {
	store database.Store
}

// NewSerializer creates a Serializer over store.
func NewSerializer(store database.Store) *Serializer {
	return &Serializer{store: store}
}

// Serialize returns the session identifier for user.
func (s *Serializer) Serialize(user *models.User) string {
	return user.ID.Hex()
}

// Deserialize loads the user for id and expands its role into a Principal.
func (s *Serializer) Deserialize(ctx context.Context, id string) (*authz.Principal, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoUserFound
	}

	var user models.User
	err = s.store.Collection(database.Users).FindOne(ctx, database.ByID(userID), &user)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoUserFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}

	if user.Role == nil {
		return authz.NewPrincipal(&user, nil), nil
	}

	role, err := s.expandRole(ctx, *user.Role)
	if err != nil {
		return nil, err
	}
	return authz.NewPrincipal(&user, role), nil
}

func (s *Serializer) expandRole(ctx context.Context, roleID primitive.ObjectID) (*authz.ExpandedRole, error) {
	var role models.Role
	err := s.store.Collection(database.Roles).FindOne(ctx, database.ByID(roleID), &role)
	if errors.Is(err, database.ErrNotFound) {
		logging.Ctx(ctx).Warn().Str("role_id", roleID.Hex()).Msg("User references a missing role")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load role %s: %w", roleID.Hex(), err)
	}

	var perms []models.Permission
	if err := s.findByIDs(ctx, database.Permissions, role.Permissions, &perms); err != nil {
		return nil, err
	}
	var filters []models.Filter
	if err := s.findByIDs(ctx, database.Filters, role.Filters, &filters); err != nil {
		return nil, err
	}

	return &authz.ExpandedRole{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: inRoleOrder(ctx, "permission", role.Permissions, perms, func(p models.Permission) primitive.ObjectID { return p.ID }),
		Filters:     inRoleOrder(ctx, "filter", role.Filters, filters, func(f models.Filter) primitive.ObjectID { return f.ID }),
	}, nil
}

func (s *Serializer) findByIDs(ctx context.Context, collection string, ids []primitive.ObjectID, results any) error {
	if len(ids) == 0 {
		return nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if err := s.store.Collection(collection).Find(ctx, filter, nil, results); err != nil {
		return fmt.Errorf("load %s: %w", collection, err)
	}
	return nil
}

// inRoleOrder arranges docs in the order of ids. References with no
// matching document are skipped and logged.
func inRoleOrder[T any](ctx context.Context, kind string, ids []primitive.ObjectID, docs []T, idOf func(T) primitive.ObjectID) []T {
	byID := make(map[primitive.ObjectID]T, len(docs))
	for _, d := range docs {
		byID[idOf(d)] = d
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			logging.Ctx(ctx).Warn().Str(kind+"_id", id.Hex()).Msgf("Role references a missing %s", kind)
			continue
		}
		out = append(out, d)
	}
	return out
}
