// Package relations builds the global list of table relation edges and
// answers constraint-level questions about a single relation.
package relations

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/axmeta/internal/cachefile"
	"github.com/dbsmedya/axmeta/internal/descriptor"
	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/pathindex"
	"github.com/dbsmedya/axmeta/internal/types"
)

// descriptorModel holds package descriptors rather than objects.
const descriptorModel = "Descriptor"

// Indexer scans table and table extension descriptors for relation edges.
type Indexer struct {
	root      string
	cachePath string
	workers   int
	logger    *logger.Logger

	mu     sync.RWMutex
	edges  []types.RelationEdge
	loaded bool
}

// NewIndexer creates an Indexer. workers bounds the directories processed at
// once and defaults to 8.
func NewIndexer(root, cachePath string, workers int, log *logger.Logger) *Indexer {
	if workers <= 0 {
		workers = 8
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Indexer{
		root:      root,
		cachePath: cachePath,
		workers:   workers,
		logger:    log.WithComponent("relations"),
	}
}

// target is a directory of descriptors and whether it holds extensions.
type target struct {
	dir       string
	extension bool
}

// BuildAll returns the relation edges. Unless forced, edges already in memory
// or in a non-empty cache file are reused. A rebuild replaces the in-memory
// list and the cache file.
func (x *Indexer) BuildAll(ctx context.Context, force bool) ([]types.RelationEdge, error) {
	if !force {
		if edges, ok := x.current(); ok {
			return edges, nil
		}
		edges, err := x.loadCache()
		if err == nil {
			x.set(edges)
			return cloneEdges(edges), nil
		}
		if !errors.Is(err, cachefile.ErrNotFound) {
			x.logger.Warnf("Relation cache unusable, rebuilding: %v", err)
		}
	}

	start := time.Now()
	edges, err := x.Scan(ctx)
	if err != nil {
		return nil, err
	}
	x.set(edges)

	if err := cachefile.Save(x.cachePath, edges); err != nil {
		x.logger.Warnf("Failed to persist relation cache: %v", err)
	}
	x.logger.WithFields(map[string]interface{}{
		"edges":   len(edges),
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("Relation list built")
	return cloneEdges(edges), nil
}

// Edges returns the loaded edges, reading the cache file on first use.
// Nothing is scanned; an absent cache yields no edges.
func (x *Indexer) Edges() []types.RelationEdge {
	if edges, ok := x.current(); ok {
		return edges
	}
	edges, err := x.loadCache()
	if err != nil {
		if !errors.Is(err, cachefile.ErrNotFound) {
			x.logger.Warnf("Cannot read relation cache: %v", err)
		}
		return nil
	}
	x.set(edges)
	return cloneEdges(edges)
}

// Scan walks every AxTable and AxTableExtension directory under root and
// streams each descriptor for edges. Unreadable files are skipped.
func (x *Indexer) Scan(ctx context.Context) ([]types.RelationEdge, error) {
	targets, err := x.targets()
	if err != nil {
		return nil, fmt.Errorf("collecting relation targets: %w", err)
	}

	results := make([][]types.RelationEdge, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)

	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = x.scanTarget(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var edges []types.RelationEdge
	for _, r := range results {
		edges = append(edges, r...)
	}
	return edges, nil
}

func (x *Indexer) targets() ([]target, error) {
	models, err := pathindex.ListModels(x.root)
	if err != nil {
		return nil, err
	}

	var targets []target
	for _, model := range models {
		if strings.EqualFold(filepath.Base(model), descriptorModel) {
			continue
		}
		targets = append(targets,
			target{dir: filepath.Join(model, pathindex.TableDir)},
			target{dir: filepath.Join(model, pathindex.TableExtensionDir), extension: true},
		)
	}
	return targets, nil
}

func (x *Indexer) scanTarget(t target) []types.RelationEdge {
	files, err := pathindex.ListXML(t.dir)
	if err != nil {
		x.logger.Debugf("Skipping %s: %v", t.dir, err)
		return nil
	}

	var edges []types.RelationEdge
	for _, file := range files {
		table := pathindex.BaseName(file)
		if t.extension {
			table = pathindex.ExtensionBaseName(file)
		}
		found, err := descriptor.ScanRelationEdges(file, table)
		if err != nil {
			x.logger.Debugf("Skipping relations of %s: %v", file, err)
			continue
		}
		edges = append(edges, found...)
	}
	return edges
}

func (x *Indexer) loadCache() ([]types.RelationEdge, error) {
	var edges []types.RelationEdge
	if err := cachefile.Load(x.cachePath, &edges); err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, cachefile.ErrEmpty
	}
	return edges, nil
}

func (x *Indexer) current() ([]types.RelationEdge, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if !x.loaded || len(x.edges) == 0 {
		return nil, false
	}
	return cloneEdges(x.edges), true
}

func (x *Indexer) set(edges []types.RelationEdge) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.edges = edges
	x.loaded = true
}

func cloneEdges(edges []types.RelationEdge) []types.RelationEdge {
	if edges == nil {
		return nil
	}
	out := make([]types.RelationEdge, len(edges))
	copy(out, edges)
	return out
}
