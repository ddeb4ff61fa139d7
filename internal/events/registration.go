// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package events

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/mail"
	"github.com/tomtom215/volunteerhub/internal/metrics"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/validation"
)

var (
	// ErrEventFull is returned when an event reached maxRegistrations.
	ErrEventFull = errors.New("Event is full") //nolint:staticcheck // surfaced verbatim to clients

	// ErrCategoryFull is returned when the chosen volunteer category is at capacity.
	ErrCategoryFull = errors.New("Volunteer category is full") //nolint:staticcheck // surfaced verbatim to clients
)

// registrationFields are the body keys that map to Registration fields.
// Every other key is collected as a custom field.
var registrationFields = []string{
	"_id", "kind", "event", "user", "guest",
	"firstName", "lastName", "email",
	"phone", "dateOfBirth", "hasAgreedToTerms", "checkedIn",
	"eContactName", "eContactPhone", "volunteerCategory",
	"customFields", "createdAt", "updatedAt",
}

// RegistrationRequest is a decoded registration body.
type RegistrationRequest struct {
	FirstName         string     `json:"firstName" validate:"omitempty,max=100"`
	LastName          string     `json:"lastName" validate:"omitempty,max=100"`
	Email             string     `json:"email" validate:"omitempty,email"`
	Phone             string     `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth       *time.Time `json:"dateOfBirth"`
	HasAgreedToTerms  bool       `json:"hasAgreedToTerms"`
	EContactName      string     `json:"eContactName" validate:"omitempty,max=200"`
	EContactPhone     string     `json:"eContactPhone" validate:"omitempty,max=32"`
	VolunteerCategory string     `json:"volunteerCategory"`

	CustomFields map[string]string `json:"-"`
}

// ParseRegistrationRequest decodes body. Keys that are not registration
// fields become custom fields, with non-string values rendered as JSON
// text. Null values are dropped.
func ParseRegistrationRequest(body []byte) (*RegistrationRequest, error) {
	var req RegistrationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, validation.NewFieldError("body", "json", "request body must be a JSON object: "+err.Error())
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, validation.NewFieldError("body", "json", "request body must be a JSON object")
	}

	req.CustomFields = make(map[string]string)
	for key, value := range raw {
		if slices.Contains(registrationFields, key) || string(value) == "null" {
			continue
		}
		req.CustomFields[key] = renderValue(value)
	}
	if err := validation.Check(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func renderValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// RegistrationPatch is a partial registration update.
type RegistrationPatch struct {
	Phone             *string           `json:"phone,omitempty" validate:"omitempty,max=32"`
	DateOfBirth       *time.Time        `json:"dateOfBirth,omitempty"`
	HasAgreedToTerms  *bool             `json:"hasAgreedToTerms,omitempty"`
	CheckedIn         *bool             `json:"checkedIn,omitempty"`
	EContactName      *string           `json:"eContactName,omitempty" validate:"omitempty,max=200"`
	EContactPhone     *string           `json:"eContactPhone,omitempty" validate:"omitempty,max=32"`
	VolunteerCategory *string           `json:"volunteerCategory,omitempty"`
	CustomFields      map[string]string `json:"customFields,omitempty"`
}

// Mailer queues outbound email without blocking.
type Mailer interface {
	Enqueue(msg mail.Message) error
}

// RegistrationService records event registrations.
type RegistrationService struct {
	store  database.Store
	mailer Mailer
	mail   mail.RegistrationData
	now    func() time.Time
}

// NewRegistrationService creates a RegistrationService. A nil mailer
// disables confirmation email. tmpl carries the organization and reply-to
// details used in confirmation messages.
func NewRegistrationService(store database.Store, mailer Mailer, tmpl mail.RegistrationData) *RegistrationService {
	return &RegistrationService{
		store:  store,
		mailer: mailer,
		mail:   tmpl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *RegistrationService) registrations() database.Collection {
	return s.store.Collection(database.Registrations)
}

// Register records a registration for the first event matching
// eventFilter. A non-nil user produces a user registration, otherwise the
// guest fields of req are used. Event and category capacity are checked
// before the insert. A confirmation email is queued on success.
func (s *RegistrationService) Register(ctx context.Context, eventFilter bson.M, user *models.User, req *RegistrationRequest) (*models.Registration, error) {
	var event models.Event
	if err := s.store.Collection(database.Events).FindOne(ctx, eventFilter, &event); err != nil {
		return nil, err
	}

	category := ParseVolunteerCategory(req.VolunteerCategory)
	if err := checkCategory(&event, category); err != nil {
		return nil, err
	}
	if err := ValidateCustomFields(event.CustomFields, req.CustomFields); err != nil {
		return nil, err
	}

	if err := s.checkEventCapacity(ctx, &event); err != nil {
		return nil, err
	}
	if err := s.checkCategoryCapacity(ctx, &event, category); err != nil {
		return nil, err
	}

	now := s.now()
	reg := models.Registration{
		Event:             event.ID,
		Phone:             req.Phone,
		DateOfBirth:       req.DateOfBirth,
		HasAgreedToTerms:  req.HasAgreedToTerms,
		EContactName:      req.EContactName,
		EContactPhone:     req.EContactPhone,
		VolunteerCategory: category,
		CustomFields:      req.CustomFields,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if user != nil {
		reg.Kind = models.KindUser
		reg.User = &models.UserRegistrant{ID: user.ID}
	} else {
		reg.Kind = models.KindGuest
		reg.Guest = &models.GuestRegistrant{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	}
	if err := reg.Validate(); err != nil {
		return nil, validation.NewFieldError(reg.Kind, "registrant", err.Error())
	}

	id, err := s.registrations().InsertOne(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	reg.ID = id
	metrics.RecordRegistration(reg.Kind)

	s.confirm(ctx, &event, &reg, user)
	return &reg, nil
}

// checkCategory rejects a category the event does not define. Events
// without category definitions accept any value.
func checkCategory(event *models.Event, category string) error {
	if len(event.VolunteerCategories) == 0 {
		return nil
	}
	if _, ok := event.VolunteerCategories[category]; !ok {
		return validation.NewFieldError("volunteerCategory", "oneof", "volunteerCategory must be one of the event's volunteer categories")
	}
	return nil
}

func (s *RegistrationService) checkEventCapacity(ctx context.Context, event *models.Event) error {
	if event.MaxRegistrations == nil || *event.MaxRegistrations <= 0 {
		return nil
	}
	n, err := s.registrations().Count(ctx, bson.M{"event": event.ID})
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if n >= int64(*event.MaxRegistrations) {
		metrics.RecordRegistrationRejected("event_full")
		return ErrEventFull
	}
	return nil
}

func (s *RegistrationService) checkCategoryCapacity(ctx context.Context, event *models.Event, category string) error {
	cat, ok := event.VolunteerCategories[category]
	if !ok || cat.Capacity <= 0 {
		return nil
	}
	n, err := s.registrations().Count(ctx, bson.M{"event": event.ID, "volunteerCategory": category})
	if err != nil {
		return fmt.Errorf("count category registrations: %w", err)
	}
	if n >= int64(cat.Capacity) {
		metrics.RecordRegistrationRejected("category_full")
		return ErrCategoryFull
	}
	return nil
}

// confirm queues the confirmation email. Failures are logged only.
func (s *RegistrationService) confirm(ctx context.Context, event *models.Event, reg *models.Registration, user *models.User) {
	if s.mailer == nil {
		return
	}
	var to, name string
	switch {
	case user != nil:
		to, name = user.Email, user.FirstName
	case reg.Guest != nil:
		to, name = reg.Guest.Email, reg.Guest.FirstName
	}

	data := s.mail
	data.EventName = event.Name
	data.Name = name
	msg, err := mail.RegistrationConfirmation(to, data)
	if err == nil {
		err = s.mailer.Enqueue(msg)
	}
	if err != nil {
		logging.CtxErr(ctx, err).Str("registration_id", reg.ID.Hex()).Msg("Registration confirmation not queued")
	}
}

// List returns registrations matching filter.
func (s *RegistrationService) List(ctx context.Context, filter bson.M, opts *database.FindOptions) ([]models.Registration, error) {
	var found []models.Registration
	if err := s.registrations().Find(ctx, filter, opts, &found); err != nil {
		return nil, err
	}
	return found, nil
}

// Update applies p to the first registration matching filter.
func (s *RegistrationService) Update(ctx context.Context, filter bson.M, p RegistrationPatch) (*models.Registration, error) {
	if err := validation.Check(p); err != nil {
		return nil, err
	}
	var current models.Registration
	if err := s.registrations().FindOne(ctx, filter, &current); err != nil {
		return nil, err
	}
	if p.VolunteerCategory != nil || p.CustomFields != nil {
		if err := s.checkPatch(ctx, &current, p); err != nil {
			return nil, err
		}
	}

	set := bson.M{"updatedAt": s.now()}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.DateOfBirth != nil {
		set["dateOfBirth"] = *p.DateOfBirth
	}
	if p.HasAgreedToTerms != nil {
		set["hasAgreedToTerms"] = *p.HasAgreedToTerms
	}
	if p.CheckedIn != nil {
		set["checkedIn"] = *p.CheckedIn
	}
	if p.EContactName != nil {
		set["eContactName"] = *p.EContactName
	}
	if p.EContactPhone != nil {
		set["eContactPhone"] = *p.EContactPhone
	}
	if p.VolunteerCategory != nil {
		set["volunteerCategory"] = ParseVolunteerCategory(*p.VolunteerCategory)
	}
	if p.CustomFields != nil {
		set["customFields"] = p.CustomFields
	}

	byID := database.ByID(current.ID)
	if err := s.registrations().UpdateOne(ctx, byID, set); err != nil {
		return nil, err
	}
	var updated models.Registration
	if err := s.registrations().FindOne(ctx, byID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// checkPatch applies the owning event's category and custom field rules to
// a patch. Moving into a different category re-checks its capacity.
func (s *RegistrationService) checkPatch(ctx context.Context, current *models.Registration, p RegistrationPatch) error {
	var event models.Event
	if err := s.store.Collection(database.Events).FindOne(ctx, database.ByID(current.Event), &event); err != nil {
		return fmt.Errorf("load event %s: %w", current.Event.Hex(), err)
	}
	if p.VolunteerCategory != nil {
		category := ParseVolunteerCategory(*p.VolunteerCategory)
		if err := checkCategory(&event, category); err != nil {
			return err
		}
		if category != current.VolunteerCategory {
			if err := s.checkCategoryCapacity(ctx, &event, category); err != nil {
				return err
			}
		}
	}
	if p.CustomFields != nil {
		return ValidateCustomFields(event.CustomFields, p.CustomFields)
	}
	return nil
}

// Delete removes the first registration matching filter.
func (s *RegistrationService) Delete(ctx context.Context, filter bson.M) error {
	var current models.Registration
	if err := s.registrations().FindOne(ctx, filter, &current); err != nil {
		return err
	}
	return s.registrations().DeleteOne(ctx, database.ByID(current.ID))
}

// CountByEvent reports the number of registrations per event among those
// matching filter.
func (s *RegistrationService) CountByEvent(ctx context.Context, filter bson.M) ([]models.EventRegistrationCount, error) {
	groups, err := s.registrations().GroupCount(ctx, filter, "event")
	if err != nil {
		return nil, fmt.Errorf("group registrations: %w", err)
	}
	out := make([]models.EventRegistrationCount, 0, len(groups))
	for _, g := range groups {
		id, ok := g.Key.(primitive.ObjectID)
		if !ok {
			continue
		}
		out = append(out, models.EventRegistrationCount{Event: id, NumRegistrations: g.Count})
	}
	return out, nil
}
