// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import "strconv"

// Column is one physical column as reported by the relational store.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Length   int64  `json:"length"`
}

// RelationEdge is a field-level link from one table to another.
type RelationEdge struct {
	FromTable string `json:"from_table"`
	FromField string `json:"from_field"`
	ToTable   string `json:"to_table"`
	ToField   string `json:"to_field"`
}

// EnumItem is one value of an enumeration. Value is kept as text because
// descriptors may omit it until values are assigned.
type EnumItem struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// NumericValue parses Value, treating anything unparseable as zero.
func (e EnumItem) NumericValue() int {
	v, err := strconv.Atoi(e.Value)
	if err != nil {
		return 0
	}
	return v
}

// EnumMarker is appended to FieldRow.FieldName for enum-backed fields.
const EnumMarker = "  [Enum]"

// FieldRow is one resolved field of a table, ready for display.
type FieldRow struct {
	FieldName    string `json:"field_name"`
	Label        string `json:"label"`
	DataType     string `json:"data_type"`
	Length       int64  `json:"length"`
	RelatedTable string `json:"related_table"`
	EnumType     string `json:"enum_type"`
}

// IsForeignKey reports whether the field points at another table.
func (r FieldRow) IsForeignKey() bool {
	return r.RelatedTable != ""
}
