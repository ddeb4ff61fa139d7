// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/volunteerhub/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Database: DatabaseConfig{
			Driver:         "mongo",
			Protocol:       "mongodb",
			Host:           "mongo",
			Name:           "index",
			ConnectTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			SessionTimeout:   7 * 24 * time.Hour,
			SessionStore:     "memory",
			SessionStorePath: "/data/sessions",
			RedisURL:         "redis://redis:6379",
			CookieName:       "volunteerhub.sid",
			CORSOrigin:       `https?://localhost:\d{1,4}`,
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			LoginLimitReqs:   10,
			BcryptCost:       10,
			DefaultRole:      "USER",
			SuperadminRole:   "SUPERADMIN",
		},
		Storage: StorageConfig{
			Bucket:        "volunteerhub-static",
			Region:        "auto",
			PresignExpiry: time.Hour,
		},
		Email: EmailConfig{
			Driver:        "log",
			Port:          587,
			From:          "VolunteerHub <no-reply@volunteerhub.local>",
			Organization:  "VolunteerHub",
			QueueSize:     100,
			RatePerSecond: 5,
			SendTimeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf layers defaults, an optional YAML file and environment
// variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := normalizeDurations(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// millisecondPaths accept a bare integer as milliseconds, matching the
// COOKIE_MAX_AGE convention of existing deployments.
var millisecondPaths = []string{
	"security.session_timeout",
}

func normalizeDurations(k *koanf.Koanf) error {
	for _, path := range millisecondPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		if _, err := time.ParseDuration(s); err == nil {
			continue
		}
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", path, s)
		}
		if err := k.Set(path, time.Duration(ms)*time.Millisecond); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Server
	"port":         "server.port",
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",
	"node_env":     "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Database
	"database_driver":         "database.driver",
	"mongodb_protocol":        "database.protocol",
	"mongodb_host":            "database.host",
	"mongodb_user":            "database.username",
	"mongodb_password":        "database.password",
	"mongodb_database":        "database.name",
	"mongodb_options":         "database.options",
	"mongodb_connect_timeout": "database.connect_timeout",

	// Security
	"session_secret":     "security.session_secret",
	"cookie_max_age":     "security.session_timeout",
	"session_timeout":    "security.session_timeout",
	"session_store":      "security.session_store",
	"session_store_path": "security.session_store_path",
	"redis_url":          "security.redis_url",
	"cookie_name":        "security.cookie_name",
	"cookie_secure":      "security.cookie_secure",
	"cors_origin":        "security.cors_origin",
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"login_limit_reqs":   "security.login_limit_reqs",
	"salt_rounds":        "security.bcrypt_cost",
	"default_role":       "security.default_role",
	"superadmin_role":    "security.superadmin_role",

	// Storage (Cloudflare R2 or any S3-compatible endpoint)
	"s3_bucket":             "storage.bucket",
	"cloudflare_account_id": "storage.account_id",
	"s3_endpoint":           "storage.endpoint",
	"s3_region":             "storage.region",
	"s3_access_key_id":      "storage.access_key_id",
	"s3_secret_access_key":  "storage.secret_access_key",
	"s3_public_base_url":    "storage.public_base_url",
	"s3_presign_expiry":     "storage.presign_expiry",

	// Email
	"email_driver":          "email.driver",
	"smtp_host":             "email.host",
	"smtp_port":             "email.port",
	"smtp_username":         "email.username",
	"smtp_password":         "email.password",
	"email_from":            "email.from",
	"email_reply_to":        "email.reply_to",
	"email_organization":    "email.organization",
	"email_queue_size":      "email.queue_size",
	"email_rate_per_second": "email.rate_per_second",
	"email_send_timeout":    "email.send_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables are skipped so unrelated environment does not leak in.
//
//   - MONGODB_HOST -> database.host
//   - SALT_ROUNDS -> security.bcrypt_cost
//   - CLOUDFLARE_ACCOUNT_ID -> storage.account_id
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
