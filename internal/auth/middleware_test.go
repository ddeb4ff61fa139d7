// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/models"
)

type middlewareFixture struct {
	db         database.Store
	sessions   *MemorySessionStore
	middleware *SessionMiddleware
	user       *models.User
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	db := database.NewMemoryStore()
	user := seedPrincipal(t, db)
	signer, err := NewCookieSigner(testSecret)
	if err != nil {
		t.Fatalf("NewCookieSigner: %v", err)
	}
	sessions := NewMemorySessionStore()
	cfg := &SessionMiddlewareConfig{CookieName: "volunteerhub.sid", SessionTTL: time.Hour, SlidingSession: true, CookiePath: "/"}
	return &middlewareFixture{
		db:         db,
		sessions:   sessions,
		middleware: NewSessionMiddleware(sessions, signer, NewSerializer(db), cfg, nil),
		user:       user,
	}
}

// login performs a Login and returns the cookie it set.
func (f *middlewareFixture) login(t *testing.T, req *http.Request) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := f.middleware.Login(rec, req, f.user); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Login set %d cookies, want 1", len(cookies))
	}
	return cookies[0]
}

func principalProbe(got **authz.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = authz.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidSession(t *testing.T) {
	t.Parallel()
	f := newMiddlewareFixture(t)
	cookie := f.login(t, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookie)
	var got *authz.Principal
	rec := httptest.NewRecorder()
	f.middleware.Authenticate(principalProbe(&got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got == nil || got.User.ID != f.user.ID {
		t.Fatalf("principal = %+v", got)
	}
	if !got.HasPermission("users.me.get") {
		t.Error("principal should hold users.me.get")
	}
}

func TestAuthenticate_Anonymous(t *testing.T) {
	t.Parallel()
	f := newMiddlewareFixture(t)

	other, _ := NewCookieSigner("some-other-secret-that-is-long-enough")
	forged, _ := other.Sign("sid", time.Now().Add(time.Hour))
	unknown, _ := f.middleware.signer.Sign("no-such-session", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage cookie", &http.Cookie{Name: "volunteerhub.sid", Value: "garbage"}},
		{"forged cookie", &http.Cookie{Name: "volunteerhub.sid", Value: forged}},
		{"unknown session", &http.Cookie{Name: "volunteerhub.sid", Value: unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			got := &authz.Principal{}
			rec := httptest.NewRecorder()
			f.middleware.Authenticate(principalProbe(&got)).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if got != nil {
				t.Errorf("expected anonymous request, got %+v", got)
			}
		})
	}
}

func TestAuthenticate_DeletedUserDestroysSession(t *testing.T) {
	t.Parallel()
	f := newMiddlewareFixture(t)
	cookie := f.login(t, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	if err := f.db.Collection(database.Users).DeleteOne(context.Background(), database.ByID(f.user.ID)); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookie)
	got := &authz.Principal{}
	rec := httptest.NewRecorder()
	f.middleware.Authenticate(principalProbe(&got)).ServeHTTP(rec, req)

	if got != nil {
		t.Error("request should be anonymous after user deletion")
	}
	if n, _ := f.sessions.DeleteByUserID(context.Background(), f.user.ID.Hex()); n != 0 {
		t.Errorf("orphaned session still stored (%d)", n)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("cookie should be cleared, got %v", cleared)
	}
}

type brokenSerializer struct{}

func (brokenSerializer) Serialize(u *models.User) string { return u.ID.Hex() }
func (brokenSerializer) Deserialize(context.Context, string) (*authz.Principal, error) {
	return nil, errors.New("load user: connection refused")
}

func TestAuthenticate_StorageErrorIs500(t *testing.T) {
	t.Parallel()
	signer, _ := NewCookieSigner(testSecret)
	sessions := NewMemorySessionStore()
	cfg := &SessionMiddlewareConfig{CookieName: "sid", SessionTTL: time.Hour, CookiePath: "/"}
	m := NewSessionMiddleware(sessions, signer, brokenSerializer{}, cfg, nil)

	user := &models.User{ID: primitive.NewObjectID()}
	rec := httptest.NewRecorder()
	if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), user); err != nil {
		t.Fatalf("Login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLogin_ReplacesPreviousSession(t *testing.T) {
	t.Parallel()
	f := newMiddlewareFixture(t)
	first := f.login(t, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.AddCookie(first)
	second := f.login(t, req)
	if first.Value == second.Value {
		t.Fatal("login should issue a new session")
	}

	n, err := f.sessions.DeleteByUserID(context.Background(), f.user.ID.Hex())
	if err != nil || n != 1 {
		t.Errorf("sessions for user = %d, %v; want exactly 1", n, err)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()
	f := newMiddlewareFixture(t)
	cookie := f.login(t, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := f.middleware.Logout(w, r); err != nil {
			t.Errorf("Logout: %v", err)
		}
	})).ServeHTTP(rec, req)

	// The old cookie no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookie)
	got := &authz.Principal{}
	f.middleware.Authenticate(principalProbe(&got)).ServeHTTP(httptest.NewRecorder(), req)
	if got != nil {
		t.Error("session should be destroyed by logout")
	}
}
