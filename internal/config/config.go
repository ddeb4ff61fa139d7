// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

// Package config loads VolunteerHub configuration.
//
// Loading order (koanf v2), later layers win:
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/volunteerhub/config.yaml)
//  3. Environment variables mapped through envMappings
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Storage  StorageConfig  `koanf:"storage"`
	Email    EmailConfig    `koanf:"email"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, production
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds list endpoint limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	Driver         string        `koanf:"driver"` // mongo, memory
	Protocol       string        `koanf:"protocol"`
	Host           string        `koanf:"host"`
	Username       string        `koanf:"username"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"`
	Options        string        `koanf:"options"` // raw query string appended to the URI
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// URI builds the MongoDB connection string. Credentials are included only
// when both username and password are set.
func (d DatabaseConfig) URI() string {
	u := url.URL{
		Scheme:   d.Protocol,
		Host:     d.Host,
		Path:     "/",
		RawQuery: d.Options,
	}
	if d.Username != "" && d.Password != "" {
		u.User = url.UserPassword(d.Username, d.Password)
	}
	return u.String()
}

// SecurityConfig holds sessions, CORS, rate limiting and role defaults.
type SecurityConfig struct {
	SessionSecret     string        `koanf:"session_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	SessionStore      string        `koanf:"session_store"` // memory, badger, redis
	SessionStorePath  string        `koanf:"session_store_path"`
	RedisURL          string        `koanf:"redis_url"`
	CookieName        string        `koanf:"cookie_name"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	CORSOrigin        string        `koanf:"cors_origin"` // regular expression
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	LoginLimitReqs    int           `koanf:"login_limit_reqs"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	DefaultRole       string        `koanf:"default_role"`
	SuperadminRole    string        `koanf:"superadmin_role"`
}

// StorageConfig configures the S3-compatible bucket used for uploads.
type StorageConfig struct {
	Bucket          string        `koanf:"bucket"`
	AccountID       string        `koanf:"account_id"`
	Endpoint        string        `koanf:"endpoint"`
	Region          string        `koanf:"region"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	PublicBaseURL   string        `koanf:"public_base_url"`
	PresignExpiry   time.Duration `koanf:"presign_expiry"`
}

// ResolvedEndpoint returns Endpoint, or the Cloudflare R2 endpoint for
// AccountID when no override is set.
func (s StorageConfig) ResolvedEndpoint() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	if s.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID)
	}
	return ""
}

// Enabled reports whether presigning can work with these settings.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != "" && s.ResolvedEndpoint() != ""
}

// EmailConfig configures outbound mail.
type EmailConfig struct {
	Driver        string        `koanf:"driver"` // log, smtp, none
	Host          string        `koanf:"host"`
	Port          int           `koanf:"port"`
	Username      string        `koanf:"username"`
	Password      string        `koanf:"password"`
	From          string        `koanf:"from"`
	ReplyTo       string        `koanf:"reply_to"`
	Organization  string        `koanf:"organization"` // shown in message bodies
	QueueSize     int           `koanf:"queue_size"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	SendTimeout   time.Duration `koanf:"send_timeout"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load is an alias for LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
