// Package config provides configuration structures and loading for axmeta.
package config

import "path/filepath"

// Config represents the complete application configuration.
type Config struct {
	Metadata MetadataConfig `yaml:"metadata" mapstructure:"metadata"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// MetadataConfig describes where the object tree, the label resources and the
// persisted caches live.
type MetadataConfig struct {
	Root            string `yaml:"root" mapstructure:"root"`             // module/model object tree
	LabelRoot       string `yaml:"label_root" mapstructure:"label_root"` // defaults to Root
	Locale          string `yaml:"locale" mapstructure:"locale"`
	CacheDir        string `yaml:"cache_dir" mapstructure:"cache_dir"`
	ScanWorkers     int    `yaml:"scan_workers" mapstructure:"scan_workers"`
	MaxExtendsDepth int    `yaml:"max_extends_depth" mapstructure:"max_extends_depth"`
}

// DatabaseConfig represents the MySQL connection used for the physical column query.
type DatabaseConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// ServerConfig represents the HTTP surface settings.
type ServerConfig struct {
	Addr               string `yaml:"addr" mapstructure:"addr"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// Cache file names inside MetadataConfig.CacheDir.
const (
	PathCacheFile     = "metadata_path_cache.json"
	LabelCacheFile    = "label_cache.json"
	RelationCacheFile = "relation_cache.json"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Metadata: MetadataConfig{
			Locale:          "zh-Hans",
			CacheDir:        ".axmeta",
			ScanWorkers:     8,
			MaxExtendsDepth: 5,
		},
		Database: DatabaseConfig{
			Enabled:            false,
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LabelRootPath returns the label resource root, falling back to the object tree root.
func (m *MetadataConfig) LabelRootPath() string {
	if m.LabelRoot != "" {
		return m.LabelRoot
	}
	return m.Root
}

// CachePath returns the full path of a cache file inside the cache directory.
func (m *MetadataConfig) CachePath(name string) string {
	return filepath.Join(m.CacheDir, name)
}
