package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dbsmedya/axmeta/internal/config"
	"github.com/dbsmedya/axmeta/internal/database"
	"github.com/dbsmedya/axmeta/internal/labels"
	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/metadata"
	"github.com/dbsmedya/axmeta/internal/pathindex"
	"github.com/dbsmedya/axmeta/internal/relations"
)

// app bundles what every metadata command needs.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	svc       *metadata.Service
	relations *relations.Indexer
	db        *database.Manager
}

// loadConfig reads the config file and applies CLI overrides. A missing
// config file is tolerated when --root is given.
func loadConfig() (*config.Config, error) {
	overrides := GetCLIOverrides()

	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || overrides.Root == "" {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = config.DefaultConfig()
	}

	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat, overrides.Root)
	return cfg, nil
}

// newApp loads and validates the configuration and wires the services. The
// database is connected only when connectDB is set and it is enabled.
func newApp(ctx context.Context, connectDB bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	var columns metadata.ColumnSource
	if connectDB && cfg.Database.Enabled {
		a.db = database.NewManager(&cfg.Database)
		if err := a.db.Connect(ctx); err != nil {
			return nil, err
		}
		columns = database.NewColumnReader(a.db.DB)
	}

	m := &cfg.Metadata
	a.svc = metadata.NewService(metadata.Config{
		Paths:           pathindex.NewBuilder(m.Root, m.CachePath(config.PathCacheFile), m.ScanWorkers, log),
		Labels:          labels.NewLoader(m.LabelRootPath(), m.Locale, m.CachePath(config.LabelCacheFile), m.ScanWorkers, log),
		Columns:         columns,
		MaxExtendsDepth: m.MaxExtendsDepth,
		Logger:          log,
	})
	a.relations = relations.NewIndexer(m.Root, m.CachePath(config.RelationCacheFile), m.ScanWorkers, log)
	return a, nil
}

// load brings the path index and label catalog up, from cache when possible.
// Failures are logged; lookups then run against whatever is loaded.
func (a *app) load(ctx context.Context) {
	if err := a.svc.RefreshAll(ctx, false); err != nil {
		a.log.Warnf("Metadata only partially loaded: %v", err)
	}
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warnf("Closing database: %v", err)
		}
	}
	_ = a.log.Sync()
}
