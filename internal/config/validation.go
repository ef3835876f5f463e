package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateMetadata()...)

	if c.Database.Enabled {
		errors = append(errors, c.validateDatabase()...)
	}

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateMetadata() ValidationErrors {
	var errors ValidationErrors

	if c.Metadata.Root == "" {
		errors = append(errors, ValidationError{
			Field:   "metadata.root",
			Message: "root is required",
		})
	}

	if c.Metadata.Locale == "" {
		errors = append(errors, ValidationError{
			Field:   "metadata.locale",
			Message: "locale is required",
		})
	}

	if c.Metadata.CacheDir == "" {
		errors = append(errors, ValidationError{
			Field:   "metadata.cache_dir",
			Message: "cache_dir is required",
		})
	}

	if c.Metadata.ScanWorkers < 0 {
		errors = append(errors, ValidationError{
			Field:   "metadata.scan_workers",
			Message: "scan_workers cannot be negative",
		})
	}

	if c.Metadata.MaxExtendsDepth < 1 {
		errors = append(errors, ValidationError{
			Field:   "metadata.max_extends_depth",
			Message: "max_extends_depth must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors
	db := &c.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateServer() ValidationErrors {
	var errors ValidationErrors

	if c.Server.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Message: "addr is required",
		})
	}

	if c.Server.ReadTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read_timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
