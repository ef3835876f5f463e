package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Metadata.Root = "/srv/packages"
	return cfg
}

func TestValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "missing root",
			mutate:    func(c *Config) { c.Metadata.Root = "" },
			wantField: "metadata.root",
		},
		{
			name:      "missing locale",
			mutate:    func(c *Config) { c.Metadata.Locale = "" },
			wantField: "metadata.locale",
		},
		{
			name:      "missing cache dir",
			mutate:    func(c *Config) { c.Metadata.CacheDir = "" },
			wantField: "metadata.cache_dir",
		},
		{
			name:      "negative workers",
			mutate:    func(c *Config) { c.Metadata.ScanWorkers = -1 },
			wantField: "metadata.scan_workers",
		},
		{
			name:      "zero extends depth",
			mutate:    func(c *Config) { c.Metadata.MaxExtendsDepth = 0 },
			wantField: "metadata.max_extends_depth",
		},
		{
			name: "enabled database without host",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.User = "reader"
				c.Database.Database = "axdb"
			},
			wantField: "database.host",
		},
		{
			name: "enabled database with bad port",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Host = "db"
				c.Database.User = "reader"
				c.Database.Database = "axdb"
				c.Database.Port = 70000
			},
			wantField: "database.port",
		},
		{
			name: "enabled database with bad tls",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Host = "db"
				c.Database.User = "reader"
				c.Database.Database = "axdb"
				c.Database.TLS = "sometimes"
			},
			wantField: "database.tls",
		},
		{
			name:      "missing server addr",
			mutate:    func(c *Config) { c.Server.Addr = "" },
			wantField: "server.addr",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "bad log format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantField: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestDisabledDatabaseIsNotValidated(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Enabled = false
	cfg.Database.Host = ""
	cfg.Database.Port = -1

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected disabled database to be skipped, got: %v", err)
	}
}

func TestValidationErrorsAggregate(t *testing.T) {
	cfg := validConfig()
	cfg.Metadata.Root = ""
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(verrs), verrs)
	}
	if !strings.HasPrefix(err.Error(), "validation failed:") {
		t.Errorf("unexpected message format: %s", err.Error())
	}
}

func TestValidationErrorsEmpty(t *testing.T) {
	var e ValidationErrors
	if e.Error() != "" {
		t.Errorf("expected empty string, got %q", e.Error())
	}
}
