package pathindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dbsmedya/axmeta/internal/cachefile"
	"github.com/dbsmedya/axmeta/internal/logger"
)

// Builder walks root/<module>/<model> and produces an Index.
type Builder struct {
	root      string
	cachePath string
	workers   int
	logger    *logger.Logger
}

// NewBuilder creates a Builder. workers bounds the number of modules scanned
// at once and defaults to 8.
func NewBuilder(root, cachePath string, workers int, log *logger.Logger) *Builder {
	if workers <= 0 {
		workers = 8
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Builder{
		root:      root,
		cachePath: cachePath,
		workers:   workers,
		logger:    log.WithComponent("pathindex"),
	}
}

// Build returns the persisted Index when one is available and force is false.
// Otherwise it scans the tree and persists the result. A failed scan returns
// an error and persists nothing. A scan where only some modules failed
// returns the merged Index of the others without persisting it.
func (b *Builder) Build(ctx context.Context, force bool) (*Index, error) {
	if !force {
		idx, err := b.LoadCache()
		if err == nil {
			b.logger.Debugf("Loaded path index from %s", b.cachePath)
			return idx, nil
		}
		if !errors.Is(err, cachefile.ErrNotFound) {
			b.logger.Warnf("Path index cache unusable, rebuilding: %v", err)
		}
	}

	start := time.Now()
	idx, err := b.Scan(ctx)
	switch {
	case errors.Is(err, ErrPartialScan):
		b.logger.Warnf("Path index is incomplete and will not be persisted: %v", err)
	case err != nil:
		return nil, fmt.Errorf("building path index: %w", err)
	default:
		if err := cachefile.Save(b.cachePath, idx); err != nil {
			b.logger.Warnf("Failed to persist path index: %v", err)
		}
	}

	b.logger.Infof("Path index built in %s: %d tables, %d table extensions, %d EDTs, %d enums, %d enum extensions",
		time.Since(start).Round(time.Millisecond), len(idx.Tables), len(idx.TableExtensions),
		len(idx.ExtendedTypes), len(idx.Enums), len(idx.EnumExtensions))
	return idx, nil
}

// LoadCache reads the persisted Index. An Index without any entries is
// reported as cachefile.ErrEmpty.
func (b *Builder) LoadCache() (*Index, error) {
	idx := &Index{}
	if err := cachefile.Load(b.cachePath, idx); err != nil {
		return nil, err
	}
	idx.ensureMaps()
	if idx.Empty() {
		return nil, cachefile.ErrEmpty
	}
	return idx, nil
}

// objectKind identifies which mapping an entry belongs to.
type objectKind int

const (
	kindTable objectKind = iota
	kindTableExtension
	kindEdt
	kindEnum
	kindEnumExtension
)

// scanOrder is the per-model subdirectory order.
var scanOrder = []struct {
	dir  string
	kind objectKind
}{
	{TableDir, kindTable},
	{TableExtensionDir, kindTableExtension},
	{EdtDir, kindEdt},
	{EnumDir, kindEnum},
	{EnumExtensionDir, kindEnumExtension},
}

type entry struct {
	kind objectKind
	name string
	path string
}

type moduleScan struct {
	module  string
	entries []entry
}

// ErrPartialScan marks a scan in which some modules failed. The result
// returned with it holds every module that was scanned successfully.
var ErrPartialScan = errors.New("some modules could not be scanned")

// Scan walks the object tree. Modules are scanned in parallel, models within
// a module sequentially. Failed modules are logged and reported through
// ErrPartialScan alongside the Index of the others; an unreadable root fails
// the whole scan.
func (b *Builder) Scan(ctx context.Context) (*Index, error) {
	modules, err := listDirs(b.root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", b.root, err)
	}

	p := pool.NewWithResults[*moduleScan]().
		WithMaxGoroutines(b.workers).
		WithContext(ctx).
		WithCollectErrored()

	for _, module := range modules {
		p.Go(func(ctx context.Context) (*moduleScan, error) {
			return scanModule(ctx, module)
		})
	}

	results, scanErr := p.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if scanErr != nil {
		b.logger.Warnf("Some modules could not be scanned: %v", scanErr)
		scanErr = fmt.Errorf("%w: %w", ErrPartialScan, scanErr)
	}

	scans := make([]*moduleScan, 0, len(results))
	for _, r := range results {
		if r != nil {
			scans = append(scans, r)
		}
	}

	// Merge in module name order so first-writer-wins is stable across runs.
	sort.Slice(scans, func(i, j int) bool { return scans[i].module < scans[j].module })

	idx := New()
	for _, scan := range scans {
		for _, e := range scan.entries {
			switch e.kind {
			case kindTable:
				addFirst(idx.Tables, e.name, e.path)
			case kindEdt:
				addFirst(idx.ExtendedTypes, e.name, e.path)
			case kindEnum:
				addFirst(idx.Enums, e.name, e.path)
			case kindTableExtension:
				addExtension(idx.TableExtensions, e.name, e.path)
			case kindEnumExtension:
				addExtension(idx.EnumExtensions, e.name, e.path)
			}
		}
	}
	idx.UpdatedAt = time.Now()
	return idx, scanErr
}

func scanModule(ctx context.Context, moduleDir string) (*moduleScan, error) {
	models, err := listDirs(moduleDir)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", filepath.Base(moduleDir), err)
	}

	scan := &moduleScan{module: filepath.Base(moduleDir)}
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, sub := range scanOrder {
			files, err := ListXML(filepath.Join(model, sub.dir))
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", filepath.Base(model), err)
			}
			for _, file := range files {
				name := BaseName(file)
				if sub.kind == kindTableExtension || sub.kind == kindEnumExtension {
					name = ExtensionBaseName(file)
				}
				scan.entries = append(scan.entries, entry{kind: sub.kind, name: name, path: file})
			}
		}
	}
	return scan, nil
}

// listDirs returns the full paths of the subdirectories of dir, sorted by
// name. Symbolic links are included so that linked packages are scanned; a
// link that does not lead to a directory fails when it is read.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Type()&fs.ModeSymlink != 0 {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	return dirs, nil
}

// ListXML returns the .xml files directly inside dir, sorted by name.
// A missing directory yields no files and no error.
func ListXML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// ListModels returns every model directory under root/<module>/.
func ListModels(root string) ([]string, error) {
	modules, err := listDirs(root)
	if err != nil {
		return nil, err
	}
	var models []string
	for _, module := range modules {
		dirs, err := listDirs(module)
		if err != nil {
			continue
		}
		models = append(models, dirs...)
	}
	return models, nil
}

// BaseName returns the file name without directory and extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ExtensionBaseName returns the object an extension file belongs to: the
// part of the base name before the first dot ("CustTable.Extension_X.xml"
// belongs to "CustTable").
func ExtensionBaseName(path string) string {
	name := BaseName(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
