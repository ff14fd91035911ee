// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs access tokens. Required.
	JWTSecret string

	// TokenTTL is the lifetime of issued access tokens. Defaults to 1h.
	TokenTTL time.Duration

	// StrictTransitions enforces the trip status transition graph
	// (submitted → approved|rejected, approved → completed) when true.
	// Defaults to false: any status may be set by manager/admin, matching
	// the behaviour the secretariat currently relies on. Flip with care —
	// strict mode rejects completion of never-approved trips.
	StrictTransitions bool

	// RequireElevatedRoleForListAll gates the list-all endpoints to
	// manager/admin. Defaults to true.
	RequireElevatedRoleForListAll bool

	// OwnerEditLocked freezes employee-authored trip fields once the trip
	// has been decided. Defaults to false: trips stay editable by their
	// owner regardless of status.
	OwnerEditLocked bool

	// UploadMimeTypes is the allow-list for receipt uploads
	// (e.g. "image/jpeg,image/png,application/pdf").
	// Empty means any MIME type is accepted.
	UploadMimeTypes []string

	// MaxUploadBytes limits the size of a multipart upload request.
	// Defaults to 10 MiB.
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:                          getEnv("PORT", "8080"),
		LogLevel:                      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:                   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StrictTransitions:             getEnvBool("STRICT_TRANSITIONS", false),
		RequireElevatedRoleForListAll: getEnvBool("REQUIRE_ELEVATED_LIST_ALL", true),
		OwnerEditLocked:               getEnvBool("OWNER_EDIT_LOCKED", false),
		UploadMimeTypes:               splitCSV(os.Getenv("UPLOAD_MIME_TYPES")),
		MaxUploadBytes:                getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvBool parses the environment variable as a bool, falling back on
// absence or parse failure.
func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvInt64 parses the environment variable as an int64, falling back on
// absence or parse failure.
func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
