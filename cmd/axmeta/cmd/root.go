package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	rootDir   string
)

var rootCmd = &cobra.Command{
	Use:   "axmeta",
	Short: "Dynamics 365 AOT metadata explorer",
	Long: `A CLI tool that indexes a Dynamics 365 Finance & Operations metadata
tree and answers questions about tables, fields, enums and labels.

Features:
  - Path index of tables, EDTs, enums and their extensions
  - Field labels resolved through extensions, EDT chains and enums
  - Enum values with implicit numbering filled in
  - Global table relation list with constraint details
  - Persistent caches for instant start-up
  - Optional HTTP surface (axmeta serve)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "axmeta.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Metadata overrides
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "",
		"Override metadata root directory (module/model tree)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Root      string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Root:      rootDir,
	}
}
