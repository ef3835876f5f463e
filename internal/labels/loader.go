package labels

import (
	"bufio"
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

// resourceSubdir is the label resource location inside a model directory,
// followed by the locale.
var resourceSubdir = []string{"AxLabelFile", "LabelResources"}

const (
	labelFileSuffix = ".label.txt"
	bom             = "\ufeff"
)

// Loader builds a Catalog from the label resource tree.
type Loader struct {
	root      string
	locale    string
	cachePath string
	workers   int
	logger    *logger.Logger
}

// NewLoader creates a Loader for root/<module>/<model>/AxLabelFile/LabelResources/<locale>.
func NewLoader(root, locale, cachePath string, workers int, log *logger.Logger) *Loader {
	if workers <= 0 {
		workers = 8
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Loader{
		root:      root,
		locale:    locale,
		cachePath: cachePath,
		workers:   workers,
		logger:    log.WithComponent("labels"),
	}
}

// Load returns the persisted catalog unless force is set or the cache is
// absent, corrupt or empty; in that case it rescans and persists. A catalog
// missing some modules is returned but not persisted.
func (l *Loader) Load(ctx context.Context, force bool) (*Catalog, error) {
	if !force {
		entries := map[string]string{}
		err := cachefile.Load(l.cachePath, &entries)
		if err == nil && len(entries) > 0 {
			l.logger.Debugf("Loaded %d labels from %s", len(entries), l.cachePath)
			return NewCatalog(entries), nil
		}
		if err != nil && !errors.Is(err, cachefile.ErrNotFound) {
			l.logger.Warnf("Label cache unusable, rebuilding: %v", err)
		}
	}

	start := time.Now()
	entries, err := l.Scan(ctx)
	switch {
	case errors.Is(err, ErrPartialScan):
		l.logger.Warnf("Label catalog is incomplete and will not be persisted: %v", err)
	case err != nil:
		return nil, fmt.Errorf("loading labels: %w", err)
	default:
		if err := cachefile.Save(l.cachePath, entries); err != nil {
			l.logger.Warnf("Failed to persist label cache: %v", err)
		}
	}

	l.logger.Infof("Label catalog built in %s: %d keys", time.Since(start).Round(time.Millisecond), len(entries))
	return NewCatalog(entries), nil
}

type moduleLabels struct {
	module  string
	entries [][2]string
}

// ErrPartialScan marks a scan in which some label modules failed. The
// entries returned with it hold every module that was read successfully.
var ErrPartialScan = errors.New("some label modules could not be scanned")

// Scan reads every label file. Modules are read in parallel; the results are
// merged in module name order so that later files overwrite earlier ones
// deterministically. Failed modules are reported through ErrPartialScan.
func (l *Loader) Scan(ctx context.Context) (map[string]string, error) {
	modules, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("reading label root %s: %w", l.root, err)
	}

	p := pool.NewWithResults[*moduleLabels]().
		WithMaxGoroutines(l.workers).
		WithContext(ctx).
		WithCollectErrored()

	for _, m := range modules {
		if !m.IsDir() && m.Type()&fs.ModeSymlink == 0 {
			continue
		}
		moduleDir := filepath.Join(l.root, m.Name())
		p.Go(func(ctx context.Context) (*moduleLabels, error) {
			return l.scanModule(ctx, moduleDir)
		})
	}

	collected, scanErr := p.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if scanErr != nil {
		l.logger.Warnf("Some label modules could not be scanned: %v", scanErr)
		scanErr = fmt.Errorf("%w: %w", ErrPartialScan, scanErr)
	}

	results := make([]*moduleLabels, 0, len(collected))
	for _, r := range collected {
		if r != nil {
			results = append(results, r)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].module < results[j].module })

	entries := make(map[string]string)
	for _, r := range results {
		for _, kv := range r.entries {
			entries[strings.ToLower(kv[0])] = kv[1]
		}
	}
	return entries, scanErr
}

func (l *Loader) scanModule(ctx context.Context, moduleDir string) (*moduleLabels, error) {
	models, err := os.ReadDir(moduleDir)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", filepath.Base(moduleDir), err)
	}

	result := &moduleLabels{module: filepath.Base(moduleDir)}
	log := l.logger.WithModule(result.module)
	for _, model := range models {
		if !model.IsDir() && model.Type()&fs.ModeSymlink == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parts := append([]string{moduleDir, model.Name()}, resourceSubdir...)
		dir := filepath.Join(append(parts, l.locale)...)
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), labelFileSuffix) {
				continue
			}
			path := filepath.Join(dir, f.Name())
			pairs, err := ParseFile(path)
			if err != nil {
				log.Debugf("Label file %s read up to an error, keeping %d keys: %v", path, len(pairs), err)
			}
			result.entries = append(result.entries, pairs...)
		}
	}
	return result, nil
}

// ParseFile reads one label file and returns its key/text pairs in file order.
// Each identifier yields two keys: "@<fileId>:<id>" and "@<id>", where fileId
// is the file name up to its first dot. When reading stops on an error, the
// pairs parsed before it are returned together with the error.
func ParseFile(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fileID := filepath.Base(path)
	if i := strings.IndexByte(fileID, '.'); i >= 0 {
		fileID = fileID[:i]
	}

	var pairs [][2]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		id, text, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		pairs = append(pairs,
			[2]string{"@" + fileID + ":" + id, text},
			[2]string{"@" + id, text},
		)
	}
	if err := scanner.Err(); err != nil {
		return pairs, fmt.Errorf("reading %s: %w", path, err)
	}
	return pairs, nil
}

// ParseLine splits "identifier=text". Blank lines, comment lines (starting
// with ';' once trimmed) and lines without an identifier are rejected.
func ParseLine(line string) (id, text string, ok bool) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(line, bom))
	if trimmed == "" || strings.HasPrefix(trimmed, ";") {
		return "", "", false
	}

	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return "", "", false
	}

	id = strings.TrimLeft(strings.TrimSpace(strings.TrimPrefix(line[:eq], bom)), "@")
	if id == "" {
		return "", "", false
	}
	return id, strings.TrimSpace(line[eq+1:]), true
}
