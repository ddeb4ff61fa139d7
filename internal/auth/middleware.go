// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/logging"
	"github.com/tomtom215/volunteerhub/internal/metrics"
	"github.com/tomtom215/volunteerhub/internal/models"
)

// PrincipalSerializer maps users to session identifiers and back.
type PrincipalSerializer interface {
	Serialize(user *models.User) string
	Deserialize(ctx context.Context, id string) (*authz.Principal, error)
}

// SessionMiddlewareConfig holds configuration for the session middleware.
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// SessionTTL is the session time-to-live.
	SessionTTL time.Duration

	// SlidingSession enables session expiry extension on each request.
	SlidingSession bool

	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// NewSessionMiddlewareConfig derives the middleware settings from the
// security section.
func NewSessionMiddlewareConfig(cfg config.SecurityConfig) *SessionMiddlewareConfig {
	return &SessionMiddlewareConfig{
		CookieName:     cfg.CookieName,
		SessionTTL:     cfg.SessionTimeout,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// ErrorFunc writes the response for a failure that is not the caller's fault.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// SessionMiddleware restores the principal of the session cookie.
type SessionMiddleware struct {
	store      SessionStore
	signer     *CookieSigner
	serializer PrincipalSerializer
	config     *SessionMiddlewareConfig
	onError    ErrorFunc
}

// NewSessionMiddleware creates a new session middleware. onError may be nil.
func NewSessionMiddleware(store SessionStore, signer *CookieSigner, serializer PrincipalSerializer, cfg *SessionMiddlewareConfig, onError ErrorFunc) *SessionMiddleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
	return &SessionMiddleware{
		store:      store,
		signer:     signer,
		serializer: serializer,
		config:     cfg,
		onError:    onError,
	}
}

type sessionContextKey struct{}

// SessionFromContext returns the session restored by Authenticate, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}

// Authenticate attaches the principal of a valid session to the request
// context. Missing, invalid or expired sessions continue anonymously. A
// session whose user is gone is destroyed.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session := m.lookupSession(r)
		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.serializer.Deserialize(ctx, session.UserID)
		switch {
		case errors.Is(err, ErrNoUserFound):
			metrics.RecordSessionRehydration("no_user")
			logging.Ctx(ctx).Info().Str("user_id", session.UserID).Msg("Session user no longer exists, destroying session")
			if delErr := m.store.Delete(ctx, session.ID); delErr != nil {
				logging.CtxErr(ctx, delErr).Msg("Failed to delete orphaned session")
			}
			m.ClearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			metrics.RecordSessionRehydration("error")
			logging.CtxErr(ctx, err).Msg("Failed to rehydrate session")
			m.onError(w, r, err)
			return
		}

		if m.config.SlidingSession {
			newExpiry := time.Now().Add(m.config.SessionTTL)
			if touchErr := m.store.Touch(ctx, session.ID, newExpiry); touchErr != nil {
				logging.CtxErr(ctx, touchErr).Msg("Failed to touch session")
			}
		}

		metrics.RecordSessionRehydration("ok")
		ctx = context.WithValue(ctx, sessionContextKey{}, session)
		ctx = authz.WithPrincipal(ctx, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// lookupSession returns the live session named by the request cookie.
func (m *SessionMiddleware) lookupSession(r *http.Request) *Session {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sessionID, err := m.signer.Verify(cookie.Value)
	if err != nil {
		metrics.RecordSessionRehydration("anonymous")
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Ignoring invalid session cookie")
		return nil
	}

	session, err := m.store.Get(r.Context(), sessionID)
	if err != nil {
		metrics.RecordSessionRehydration("anonymous")
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
			logging.CtxErr(r.Context(), err).Msg("Session lookup error")
		}
		return nil
	}
	return session
}

// Login starts a new session for user and sets the cookie. Any session
// already attached to r is deleted first to prevent session fixation.
func (m *SessionMiddleware) Login(w http.ResponseWriter, r *http.Request, user *models.User) (*Session, error) {
	ctx := r.Context()
	if old := m.lookupSession(r); old != nil {
		if err := m.store.Delete(ctx, old.ID); err != nil {
			logging.CtxErr(ctx, err).Msg("Failed to delete previous session")
		}
	}

	session, err := NewSession(m.serializer.Serialize(user), m.config.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := m.SetSessionCookie(w, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout destroys the request's session and clears the cookie.
func (m *SessionMiddleware) Logout(w http.ResponseWriter, r *http.Request) error {
	session := SessionFromContext(r.Context())
	if session == nil {
		session = m.lookupSession(r)
	}
	if session != nil {
		if err := m.store.Delete(r.Context(), session.ID); err != nil {
			return err
		}
	}
	m.ClearSessionCookie(w)
	return nil
}

// SetSessionCookie sets the signed session cookie on the response.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, session *Session) error {
	value, err := m.signer.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
	return nil
}

// ClearSessionCookie clears the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     m.config.CookiePath,
		MaxAge:   -1,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}
