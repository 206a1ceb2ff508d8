// Package config provides centralized configuration management for the
// application. It loads settings from environment variables with
// sensible defaults and validates everything on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"

	"github.com/tabwash/tabwash/internal/clean"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Logging  LoggingConfig
	Cleaning CleaningConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// RequestTimeout is the middleware timeout per request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// UploadConfig holds file ingestion settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 50MB).
	// The pipeline is an in-memory transform; much larger inputs are a
	// documented caveat, not a supported case.
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// SessionTTL is how long an uploaded file's session is retained (default: 30m)
	SessionTTL time.Duration `env:"UPLOAD_SESSION_TTL" default:"30m"`

	// SweepInterval is how often expired sessions are dropped (default: 5m)
	SweepInterval time.Duration `env:"UPLOAD_SWEEP_INTERVAL" default:"5m"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// CleaningConfig holds the deployment defaults for the cleaning toggles.
// A clean request can still override any of them per run.
type CleaningConfig struct {
	Trim                 bool `env:"CLEAN_TRIM" default:"true"`
	RemoveEmpty          bool `env:"CLEAN_REMOVE_EMPTY" default:"true"`
	FixColumns           bool `env:"CLEAN_FIX_COLUMNS" default:"true"`
	Dedupe               bool `env:"CLEAN_DEDUPE" default:"false"`
	NormalizeHeader      bool `env:"CLEAN_NORMALIZE_HEADER" default:"true"`
	NormalizeLineEndings bool `env:"CLEAN_NORMALIZE_LINE_ENDINGS" default:"true"`
	ConsistentQuotes     bool `env:"CLEAN_CONSISTENT_QUOTES" default:"true"`
	EncodingMarker       bool `env:"CLEAN_ENCODING_MARKER" default:"true"`
}

// Options converts the configured defaults to cleaning options.
func (c CleaningConfig) Options() clean.Options {
	return clean.Options{
		Trim:                 c.Trim,
		RemoveEmpty:          c.RemoveEmpty,
		FixColumns:           c.FixColumns,
		Dedupe:               c.Dedupe,
		NormalizeHeader:      c.NormalizeHeader,
		NormalizeLineEndings: c.NormalizeLineEndings,
		ConsistentQuotes:     c.ConsistentQuotes,
		EncodingMarker:       c.EncodingMarker,
	}
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
