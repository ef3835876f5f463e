package metadata

import (
	"os"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/axmeta/internal/descriptor"
)

// TableMeta is the merged field metadata of a table and its extensions.
// All maps are keyed by lower-cased field name.
type TableMeta struct {
	Labels        map[string]string // raw label id
	ExtendedTypes map[string]string // extended data type name
	Enums         map[string]string // enum type name
	Relations     map[string]string // related table name

	// declared keeps the declared field name per key in declaration order.
	declared *orderedmap.OrderedMap[string, string]
}

func newTableMeta() *TableMeta {
	return &TableMeta{
		Labels:        make(map[string]string),
		ExtendedTypes: make(map[string]string),
		Enums:         make(map[string]string),
		Relations:     make(map[string]string),
		declared:      orderedmap.NewOrderedMap[string, string](),
	}
}

// setField records a field, replacing anything recorded earlier for it.
func (m *TableMeta) setField(f descriptor.Field) {
	k := strings.ToLower(f.Name)
	m.Labels[k] = f.Label
	m.ExtendedTypes[k] = f.ExtendedDataType
	m.Enums[k] = f.EnumType
	m.declared.Set(k, f.Name)
}

// addRelation records field -> table unless the field already has one.
func (m *TableMeta) addRelation(field, table string) {
	k := strings.ToLower(field)
	if _, exists := m.Relations[k]; !exists {
		m.Relations[k] = table
	}
}

// Has reports whether any descriptor declared the field.
func (m *TableMeta) Has(field string) bool {
	_, ok := m.declared.Get(strings.ToLower(field))
	return ok
}

// DeclaredName returns the field name as declared, or field when unknown.
func (m *TableMeta) DeclaredName(field string) string {
	if name, ok := m.declared.Get(strings.ToLower(field)); ok {
		return name
	}
	return field
}

// FieldNames returns the declared field names in declaration order.
func (m *TableMeta) FieldNames() []string {
	names := make([]string, 0, m.declared.Len())
	for el := m.declared.Front(); el != nil; el = el.Next() {
		names = append(names, el.Value)
	}
	return names
}

// Label returns the raw label id of a field.
func (m *TableMeta) Label(field string) string {
	return m.Labels[strings.ToLower(field)]
}

// ExtendedType returns the extended data type of a field.
func (m *TableMeta) ExtendedType(field string) string {
	return m.ExtendedTypes[strings.ToLower(field)]
}

// Enum returns the enum type of a field.
func (m *TableMeta) Enum(field string) string {
	return m.Enums[strings.ToLower(field)]
}

// RelatedTable returns the table a field relates to.
func (m *TableMeta) RelatedTable(field string) string {
	return m.Relations[strings.ToLower(field)]
}

// Table returns the merged metadata of a table, memoized per name. Unknown
// tables yield an empty TableMeta.
func (s *Service) Table(name string) *TableMeta {
	k := strings.ToLower(name)
	if cached, ok := s.tables.Load(k); ok {
		return cached.(*TableMeta)
	}

	meta := s.loadTable(name)
	actual, _ := s.tables.LoadOrStore(k, meta)
	return actual.(*TableMeta)
}

// TablePaths returns the base descriptor (if indexed) followed by the
// extension descriptors in index order.
func (s *Service) TablePaths(name string) []string {
	idx := s.Index()
	var paths []string
	if p, ok := idx.Table(name); ok {
		paths = append(paths, p)
	}
	return append(paths, idx.TableExtensionPaths(name)...)
}

// loadTable layers the base descriptor and its extensions. Field entries of
// later descriptors replace earlier ones; the first relation seen for a field
// is kept.
func (s *Service) loadTable(name string) *TableMeta {
	meta := newTableMeta()
	log := s.logger.WithTable(name)

	for _, path := range s.TablePaths(name) {
		if _, err := os.Stat(path); err != nil {
			log.Debugf("Descriptor %s not readable: %v", path, err)
			continue
		}
		tbl, err := descriptor.ParseTable(path)
		if err != nil {
			log.Warnf("Skipping malformed descriptor: %v", err)
			continue
		}

		for _, f := range tbl.Fields {
			if f.Name == "" {
				continue
			}
			meta.setField(f)
		}

		for _, rel := range tbl.Relations {
			if rel.RelatedTable == "" {
				continue
			}
			for _, c := range rel.Constraints {
				if c.Field != "" {
					meta.addRelation(c.Field, rel.RelatedTable)
				}
			}
		}
	}
	return meta
}
