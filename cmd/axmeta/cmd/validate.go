package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/axmeta/internal/config"
	"github.com/dbsmedya/axmeta/internal/database"
	"github.com/dbsmedya/axmeta/internal/pathindex"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and run preflight checks",
	Long: `Validate checks the configuration file and runs preflight checks
before the metadata tree is scanned.

Checks performed:
  - Configuration syntax and required fields
  - Metadata root and label root exist
  - Cache directory is writable
  - Database connectivity (when enabled)
  - Physical tables named with --table exist (when enabled)

Example:
  axmeta validate --config axmeta.yaml --table CustTable --table SalesLine`,
	RunE: runValidate,
}

var validateTables []string

func init() {
	validateCmd.Flags().StringSliceVar(&validateTables, "table", nil, "Table that must exist in the database (repeatable)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	heading(out, "=== Configuration Validation ===")
	fmt.Fprintf(out, "Config file: %s\n", GetConfigFile())

	if err := cfg.Validate(); err != nil {
		printFail(out, "Configuration invalid")
		return err
	}
	printSuccess(out, "Configuration valid")

	hasErrors := false
	for _, check := range preflightChecks(cfg) {
		if err := check.run(); err != nil {
			printFail(out, "%s: %v", check.name, err)
			hasErrors = true
			continue
		}
		printSuccess(out, "%s", check.name)
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(out, "=== Validation Complete ===")
	return nil
}

type preflightCheck struct {
	name string
	run  func() error
}

func preflightChecks(cfg *config.Config) []preflightCheck {
	checks := []preflightCheck{
		{name: "Metadata root " + cfg.Metadata.Root, run: func() error {
			return checkDir(cfg.Metadata.Root)
		}},
		{name: "Label root " + cfg.Metadata.LabelRootPath(), run: func() error {
			return checkDir(cfg.Metadata.LabelRootPath())
		}},
		{name: "Cache directory " + cfg.Metadata.CacheDir, run: func() error {
			return checkWritable(cfg.Metadata.CacheDir)
		}},
		{name: "Models found", run: func() error {
			models, err := pathindex.ListModels(cfg.Metadata.Root)
			if err != nil {
				return err
			}
			if len(models) == 0 {
				return fmt.Errorf("no <module>/<model> directories under %s", cfg.Metadata.Root)
			}
			return nil
		}},
	}

	if cfg.Database.Enabled {
		checks = append(checks, preflightCheck{name: "Database connection", run: func() error {
			return checkDatabase(&cfg.Database, validateTables)
		}})
	}
	return checks
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".axmeta-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func checkDatabase(cfg *config.DatabaseConfig, tables []string) error {
	ctx := context.Background()
	m := database.NewManager(cfg)
	if err := m.Connect(ctx); err != nil {
		return err
	}
	defer m.Close()
	if err := m.Ping(ctx); err != nil {
		return err
	}

	missing, err := database.NewColumnReader(m.DB).MissingTables(ctx, tables)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("tables not found: %s", strings.Join(missing, ", "))
	}
	return nil
}
