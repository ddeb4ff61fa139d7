// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package config

import (
	"fmt"
	"regexp"
	"strings"
)

// minProductionSecretLen is the shortest SESSION_SECRET accepted in production.
const minProductionSecretLen = 32

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production", "test":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production or test, got %q", c.Server.Environment)
	}
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must not be smaller than API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "memory":
		return nil
	case "mongo":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be mongo or memory, got %q", c.Database.Driver)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("MONGODB_HOST is required when DATABASE_DRIVER=mongo")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("MONGODB_DATABASE is required when DATABASE_DRIVER=mongo")
	}
	if c.Database.Protocol != "mongodb" && c.Database.Protocol != "mongodb+srv" {
		return fmt.Errorf("MONGODB_PROTOCOL must be mongodb or mongodb+srv, got %q", c.Database.Protocol)
	}
	if (c.Database.Username == "") != (c.Database.Password == "") {
		return fmt.Errorf("MONGODB_USER and MONGODB_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security

	if s.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.IsProduction() {
		if len(s.SessionSecret) < minProductionSecretLen {
			return fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minProductionSecretLen)
		}
		if !s.CookieSecure {
			return fmt.Errorf("COOKIE_SECURE must be true in production")
		}
	}
	if s.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}

	switch s.SessionStore {
	case "memory":
	case "badger":
		if s.SessionStorePath == "" {
			return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
		}
	case "redis":
		if s.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be memory, badger or redis, got %q", s.SessionStore)
	}

	if s.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME must not be empty")
	}
	if _, err := regexp.Compile(s.CORSOrigin); err != nil {
		return fmt.Errorf("CORS_ORIGIN is not a valid regular expression: %w", err)
	}
	if !s.RateLimitDisabled && (s.RateLimitReqs < 1 || s.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQS and RATE_LIMIT_WINDOW must be positive")
	}
	if s.BcryptCost < 4 || s.BcryptCost > 31 {
		return fmt.Errorf("SALT_ROUNDS must be between 4 and 31, got %d", s.BcryptCost)
	}
	if s.DefaultRole == "" || s.SuperadminRole == "" {
		return fmt.Errorf("DEFAULT_ROLE and SUPERADMIN_ROLE must not be empty")
	}
	if strings.EqualFold(s.DefaultRole, s.SuperadminRole) {
		return fmt.Errorf("DEFAULT_ROLE must differ from SUPERADMIN_ROLE")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.PresignExpiry < 0 {
		return fmt.Errorf("S3_PRESIGN_EXPIRY must not be negative")
	}
	if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}

func (c *Config) validateEmail() error {
	e := c.Email
	switch e.Driver {
	case "none", "log":
	case "smtp":
		if e.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_DRIVER=smtp")
		}
		if e.Port < 1 || e.Port > 65535 {
			return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", e.Port)
		}
	default:
		return fmt.Errorf("EMAIL_DRIVER must be log, smtp or none, got %q", e.Driver)
	}
	if e.Driver != "none" && e.From == "" {
		return fmt.Errorf("EMAIL_FROM is required when email is enabled")
	}
	if e.QueueSize < 1 {
		return fmt.Errorf("EMAIL_QUEUE_SIZE must be at least 1")
	}
	if e.RatePerSecond <= 0 {
		return fmt.Errorf("EMAIL_RATE_PER_SECOND must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
