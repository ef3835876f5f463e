// Package metadata resolves table, extended data type and enum metadata from
// the indexed descriptor tree and turns physical columns into display rows.
package metadata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"

	"github.com/dbsmedya/axmeta/internal/labels"
	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/pathindex"
	"github.com/dbsmedya/axmeta/internal/types"
)

// DefaultMaxExtendsDepth bounds the Extends chain walked for a label,
// counting the starting type.
const DefaultMaxExtendsDepth = 5

// ColumnSource supplies the physical columns of a table.
type ColumnSource interface {
	TableColumns(ctx context.Context, table string) ([]types.Column, error)
}

// Config wires a Service. Paths and Labels may be nil when the index and
// catalog are installed directly with SetIndex and SetCatalog. A nil Columns
// makes ResolveFields fall back to the declared fields.
type Config struct {
	Paths           *pathindex.Builder
	Labels          *labels.Loader
	Columns         ColumnSource
	MaxExtendsDepth int
	Logger          *logger.Logger
}

// Service owns the path index, the label catalog and the per-name memo
// caches. Memoized entries live for the lifetime of the Service; refreshing
// the index does not evict them.
type Service struct {
	paths    *pathindex.Builder
	labels   *labels.Loader
	columns  ColumnSource
	maxDepth int
	logger   *logger.Logger

	index   pathindex.Holder
	catalog atomic.Pointer[labels.Catalog]

	tables    sync.Map // lower-cased table name -> *TableMeta
	edtLabels sync.Map // lower-cased EDT name -> label id
	enums     sync.Map // enum name -> []types.EnumItem
}

// NewService creates a Service from cfg.
func NewService(cfg Config) *Service {
	depth := cfg.MaxExtendsDepth
	if depth <= 0 {
		depth = DefaultMaxExtendsDepth
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewDefault()
	}
	return &Service{
		paths:    cfg.Paths,
		labels:   cfg.Labels,
		columns:  cfg.Columns,
		maxDepth: depth,
		logger:   log.WithComponent("metadata"),
	}
}

// Index returns the current path index.
func (s *Service) Index() *pathindex.Index {
	return s.index.Load()
}

// SetIndex replaces the path index.
func (s *Service) SetIndex(idx *pathindex.Index) {
	s.index.Store(idx)
}

// Catalog returns the current label catalog; never nil.
func (s *Service) Catalog() *labels.Catalog {
	if c := s.catalog.Load(); c != nil {
		return c
	}
	return labels.NewCatalog(nil)
}

// SetCatalog replaces the label catalog.
func (s *Service) SetCatalog(c *labels.Catalog) {
	s.catalog.Store(c)
}

// RefreshAll loads or rebuilds the path index and the label catalog in
// parallel. A part that fails is logged and keeps its previous state; the
// failures are also returned joined.
func (s *Service) RefreshAll(ctx context.Context, force bool) error {
	var pathErr, labelErr error
	var wg conc.WaitGroup

	if s.paths != nil {
		wg.Go(func() {
			idx, err := s.paths.Build(ctx, force)
			if err != nil {
				s.logger.Errorf("Path index refresh failed, keeping previous index: %v", err)
				pathErr = err
				return
			}
			s.SetIndex(idx)
		})
	}

	if s.labels != nil {
		wg.Go(func() {
			cat, err := s.labels.Load(ctx, force)
			if err != nil {
				s.logger.Errorf("Label refresh failed, keeping previous catalog: %v", err)
				labelErr = err
				return
			}
			s.SetCatalog(cat)
		})
	}

	wg.Wait()
	return errors.Join(pathErr, labelErr)
}
