package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFileSize != 52428800 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 52428800)
	}
	if cfg.Upload.SessionTTL != 30*time.Minute {
		t.Errorf("Upload.SessionTTL = %s, want 30m", cfg.Upload.SessionTTL)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_CleaningDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	opts := cfg.Cleaning.Options()
	if !opts.Trim || !opts.RemoveEmpty || !opts.FixColumns {
		t.Errorf("cleaning defaults = %+v, want trim/removeEmpty/fixColumns on", opts)
	}
	if opts.Dedupe {
		t.Errorf("Dedupe default = true, want false")
	}
	if !opts.NormalizeHeader || !opts.NormalizeLineEndings || !opts.ConsistentQuotes || !opts.EncodingMarker {
		t.Errorf("cleaning defaults = %+v, want output toggles on", opts)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLEAN_DEDUPE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if !cfg.Cleaning.Dedupe {
		t.Errorf("Cleaning.Dedupe = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad port", key: "SERVER_PORT", value: "notaport"},
		{name: "port out of range", key: "SERVER_PORT", value: "70000"},
		{name: "bad bool", key: "CLEAN_TRIM", value: "maybe"},
		{name: "bad duration", key: "UPLOAD_SESSION_TTL", value: "30"},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "zero file size", key: "UPLOAD_MAX_FILE_SIZE", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := c.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9000")
	}

	c.Host = ""
	if got := c.Addr(); got != ":9000" {
		t.Errorf("Addr() = %q, want %q", got, ":9000")
	}
}

func TestConfig_String(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := cfg.String()
	if !strings.Contains(s, "Port: 8080") {
		t.Errorf("String() = %q, want it to mention the port", s)
	}
}
