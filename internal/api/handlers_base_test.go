// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/volunteerhub/internal/auth"
	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/events"
	"github.com/tomtom215/volunteerhub/internal/mail"
	"github.com/tomtom215/volunteerhub/internal/models"
	"github.com/tomtom215/volunteerhub/internal/users"
)

const testPassword = "correct horse battery"

type testServer struct {
	store   database.Store
	users   *users.Service
	handler http.Handler
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		SessionSecret:     "test-secret-at-least-32-bytes-long!!",
		SessionTimeout:    time.Hour,
		CookieName:        "volunteerhub.sid",
		CORSOrigin:        `https?://localhost:\d{1,4}`,
		RateLimitDisabled: true,
		BcryptCost:        bcrypt.MinCost,
		DefaultRole:       "USER",
		SuperadminRole:    "SUPERADMIN",
	}
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, database.NewMemoryStore(), testSecurityConfig(), nil)
}

func newTestServerWith(t *testing.T, store database.Store, sec config.SecurityConfig, presigner Presigner) *testServer {
	t.Helper()
	ctx := context.Background()

	if _, err := authz.SyncCatalog(ctx, store, Endpoints()); err != nil {
		t.Fatalf("SyncCatalog: %v", err)
	}

	signer, err := auth.NewCookieSigner(sec.SessionSecret)
	if err != nil {
		t.Fatalf("NewCookieSigner: %v", err)
	}
	sessions := auth.NewSessionMiddleware(
		auth.NewMemorySessionStore(),
		signer,
		auth.NewSerializer(store),
		auth.NewSessionMiddlewareConfig(sec),
		nil,
	)

	userSvc := users.NewService(store, sec)
	h := NewHandler(Deps{
		Config:        &config.Config{API: config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100}},
		Store:         store,
		Users:         userSvc,
		Events:        events.NewService(store),
		Registrations: events.NewRegistrationService(store, nil, mail.RegistrationData{Organization: "VolunteerHub"}),
		Presigner:     presigner,
		Sessions:      sessions,
	})

	chiMW, err := NewChiMiddleware(NewChiMiddlewareConfig(sec))
	if err != nil {
		t.Fatalf("NewChiMiddleware: %v", err)
	}
	return &testServer{store: store, users: userSvc, handler: NewRouter(h, chiMW).SetupChi()}
}

// do sends a request with an optional JSON body and cookies.
func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// createRole inserts a role holding the named permissions and filters.
func (s *testServer) createRole(t *testing.T, name string, filterIDs []primitive.ObjectID, permNames ...string) *models.Role {
	t.Helper()
	ctx := context.Background()
	ids := make([]primitive.ObjectID, 0, len(permNames))
	for _, n := range permNames {
		var p models.Permission
		if err := s.store.Collection(database.Permissions).FindOne(ctx, bson.M{"name": n}, &p); err != nil {
			t.Fatalf("permission %s: %v", n, err)
		}
		ids = append(ids, p.ID)
	}
	if filterIDs == nil {
		filterIDs = []primitive.ObjectID{}
	}
	role := models.Role{Name: name, Permissions: ids, Filters: filterIDs}
	id, err := s.store.Collection(database.Roles).InsertOne(ctx, role)
	if err != nil {
		t.Fatalf("insert role: %v", err)
	}
	role.ID = id
	return &role
}

// loginWith creates a user holding role and returns the session cookies.
func (s *testServer) loginWith(t *testing.T, email string, role *models.Role) []*http.Cookie {
	t.Helper()
	in := users.Input{FirstName: "Test", LastName: "User", Email: email, Password: testPassword}
	if role != nil {
		in.Role = &role.ID
	}
	if _, err := s.users.Create(context.Background(), in); err != nil {
		t.Fatalf("create user: %v", err)
	}
	rec := s.do(t, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login returned no cookie")
	}
	return cookies
}

// loginAs logs in a user whose role holds exactly permNames.
func (s *testServer) loginAs(t *testing.T, permNames ...string) []*http.Cookie {
	t.Helper()
	role := s.createRole(t, "ROLE_"+primitive.NewObjectID().Hex(), nil, permNames...)
	return s.loginWith(t, primitive.NewObjectID().Hex()+"@example.org", role)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code, message string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
	if message != "" && env.Error.Message != message {
		t.Errorf("error message = %q, want %q", env.Error.Message, message)
	}
}
