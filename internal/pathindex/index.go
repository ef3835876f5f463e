// Package pathindex maps object names to descriptor file paths across the
// module/model object tree.
package pathindex

import (
	"strings"
	"sync/atomic"
	"time"
)

// Object kind directories inside a model directory.
const (
	TableDir          = "AxTable"
	TableExtensionDir = "AxTableExtension"
	EdtDir            = "AxEdt"
	EnumDir           = "AxEnum"
	EnumExtensionDir  = "AxEnumExtension"
)

// Index holds name -> path mappings. Keys are lower-cased object names.
type Index struct {
	Tables          map[string]string   `json:"table_paths"`
	ExtendedTypes   map[string]string   `json:"edt_paths"`
	Enums           map[string]string   `json:"enum_paths"`
	TableExtensions map[string][]string `json:"table_extensions"`
	EnumExtensions  map[string][]string `json:"enum_extensions"`
	UpdatedAt       time.Time           `json:"last_update_time"`
}

// New returns an empty Index.
func New() *Index {
	idx := &Index{}
	idx.ensureMaps()
	return idx
}

func (idx *Index) ensureMaps() {
	if idx.Tables == nil {
		idx.Tables = make(map[string]string)
	}
	if idx.ExtendedTypes == nil {
		idx.ExtendedTypes = make(map[string]string)
	}
	if idx.Enums == nil {
		idx.Enums = make(map[string]string)
	}
	if idx.TableExtensions == nil {
		idx.TableExtensions = make(map[string][]string)
	}
	if idx.EnumExtensions == nil {
		idx.EnumExtensions = make(map[string][]string)
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Table returns the descriptor path of a table.
func (idx *Index) Table(name string) (string, bool) {
	p, ok := idx.Tables[key(name)]
	return p, ok
}

// ExtendedType returns the descriptor path of an extended data type.
func (idx *Index) ExtendedType(name string) (string, bool) {
	p, ok := idx.ExtendedTypes[key(name)]
	return p, ok
}

// Enum returns the descriptor path of an enum.
func (idx *Index) Enum(name string) (string, bool) {
	p, ok := idx.Enums[key(name)]
	return p, ok
}

// TableExtensionPaths returns the extension descriptors of a table in index order.
func (idx *Index) TableExtensionPaths(name string) []string {
	return idx.TableExtensions[key(name)]
}

// EnumExtensionPaths returns the extension descriptors of an enum in index order.
func (idx *Index) EnumExtensionPaths(name string) []string {
	return idx.EnumExtensions[key(name)]
}

// Empty reports whether the index holds no objects at all.
func (idx *Index) Empty() bool {
	return len(idx.Tables) == 0 && len(idx.ExtendedTypes) == 0 && len(idx.Enums) == 0 &&
		len(idx.TableExtensions) == 0 && len(idx.EnumExtensions) == 0
}

// addFirst keeps the first path registered for a name.
func addFirst(m map[string]string, name, path string) {
	k := key(name)
	if _, exists := m[k]; !exists {
		m[k] = path
	}
}

func addExtension(m map[string][]string, name, path string) {
	k := key(name)
	for _, existing := range m[k] {
		if existing == path {
			return
		}
	}
	m[k] = append(m[k], path)
}

// Holder publishes the current Index to concurrent readers. A refresh
// replaces the whole Index; readers never see a partially merged one.
type Holder struct {
	current atomic.Pointer[Index]
}

// Load returns the current Index, or an empty one before the first Store.
func (h *Holder) Load() *Index {
	if idx := h.current.Load(); idx != nil {
		return idx
	}
	return New()
}

// Store replaces the current Index.
func (h *Holder) Store(idx *Index) {
	h.current.Store(idx)
}
