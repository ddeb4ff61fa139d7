// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

var (
	// ErrInvalidCredentials is returned by Authenticate for an unknown email,
	// a wrong password or an account without a password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRoleNotFound is returned by SetRole when no role has the given name.
	ErrRoleNotFound = errors.New("role not found")
)

// Input is the writable part of a user. Password is plaintext and is hashed
// before storage.
type Input struct {
	FirstName string              `json:"firstName" validate:"required,max=100"`
	LastName  string              `json:"lastName" validate:"required,max=100"`
	Email     string              `json:"email" validate:"required,email,max=254"`
	Password  string              `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role      *primitive.ObjectID `json:"role,omitempty"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	FirstName *string             `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string             `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     *string             `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password  *string             `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role      *primitive.ObjectID `json:"role,omitempty"`
}

// Service manages user accounts.
type Service struct {
	store       database.Store
	cost        int
	defaultRole string
}

// NewService creates a Service using the bcrypt cost and default role from cfg.
func NewService(store database.Store, cfg config.SecurityConfig) *Service {
	return &Service{
		store:       store,
		cost:        cfg.BcryptCost,
		defaultRole: strings.ToUpper(cfg.DefaultRole),
	}
}

func (s *Service) users() database.Collection {
	return s.store.Collection(database.Users)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalize trims names and normalizes the email before validation.
func (in *Input) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
}

func (p *Patch) normalize() {
	p.FirstName = mapPtr(p.FirstName, strings.TrimSpace)
	p.LastName = mapPtr(p.LastName, strings.TrimSpace)
	p.Email = mapPtr(p.Email, NormalizeEmail)
}

func mapPtr(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	out := fn(*v)
	return &out
}

// Create stores a new user. A user created without a role is given the
// default role when it exists.
func (s *Service) Create(ctx context.Context, in Input) (*models.User, error) {
	in.normalize()
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password, s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}
	if user.Role == nil {
		roleID, err := s.defaultRoleID(ctx)
		if err != nil {
			return nil, err
		}
		user.Role = roleID
	}

	id, err := s.users().InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return user.Sanitized(), nil
}

// Register creates a self-service account. The caller cannot choose a role
// and must supply a password.
func (s *Service) Register(ctx context.Context, in Input) (*models.User, error) {
	if in.Password == "" {
		return nil, validation.NewFieldError("password", "required", "password is required")
	}
	in.Role = nil
	return s.Create(ctx, in)
}

func (s *Service) defaultRoleID(ctx context.Context) (*primitive.ObjectID, error) {
	if s.defaultRole == "" {
		return nil, nil
	}
	var role models.Role
	err := s.store.Collection(database.Roles).FindOne(ctx, bson.M{"name": s.defaultRole}, &role)
	if errors.Is(err, database.ErrNotFound) {
		logging.Ctx(ctx).Warn().Str("role", s.defaultRole).Msg("Default role missing, user created without a role")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load default role: %w", err)
	}
	return &role.ID, nil
}

// Get returns the first user matching filter with the password blanked.
func (s *Service) Get(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users().FindOne(ctx, filter, &user); err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// List returns matching users with passwords blanked.
func (s *Service) List(ctx context.Context, filter bson.M, opts *database.FindOptions) ([]models.User, error) {
	var found []models.User
	if err := s.users().Find(ctx, filter, opts, &found); err != nil {
		return nil, err
	}
	for i := range found {
		found[i].Password = ""
	}
	return found, nil
}

// Update applies p to the first user matching filter. A password in the
// patch is re-hashed and an email is lowercased.
func (s *Service) Update(ctx context.Context, filter bson.M, p Patch) (*models.User, error) {
	p.normalize()
	if err := validation.Check(p); err != nil {
		return nil, err
	}

	var current models.User
	if err := s.users().FindOne(ctx, filter, &current); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.FirstName != nil {
		set["firstName"] = *p.FirstName
	}
	if p.LastName != nil {
		set["lastName"] = *p.LastName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.Password != nil {
		hash, err := HashPassword(*p.Password, s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		set["password"] = hash
	}

	byID := database.ByID(current.ID)
	if err := s.users().UpdateOne(ctx, byID, set); err != nil {
		return nil, err
	}
	return s.Get(ctx, byID)
}

// Delete removes the first user matching filter.
func (s *Service) Delete(ctx context.Context, filter bson.M) error {
	var current models.User
	if err := s.users().FindOne(ctx, filter, &current); err != nil {
		return err
	}
	return s.users().DeleteOne(ctx, database.ByID(current.ID))
}

// Authenticate checks an email and password pair and returns the user with
// the password blanked.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": NormalizeEmail(email)}, &user)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user.Sanitized(), nil
}

// SetRole assigns the role named roleName (case insensitive) to the user
// with the given email.
func (s *Service) SetRole(ctx context.Context, email, roleName string) (*models.User, error) {
	name := strings.ToUpper(strings.TrimSpace(roleName))
	var role models.Role
	err := s.store.Collection(database.Roles).FindOne(ctx, bson.M{"name": name}, &role)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%s not found: %w", roleName, ErrRoleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load role: %w", err)
	}

	filter := bson.M{"email": NormalizeEmail(email)}
	if err := s.users().UpdateOne(ctx, filter, bson.M{"role": role.ID, "updatedAt": time.Now().UTC()}); err != nil {
		return nil, fmt.Errorf("update user %s: %w", email, err)
	}
	return s.Get(ctx, filter)
}
