package metadata

import (
	"context"
	"fmt"

	"github.com/dbsmedya/axmeta/internal/types"
)

// ResolveFields turns the physical columns of a table into display rows.
// Without a column source the declared fields are used in declaration order.
func (s *Service) ResolveFields(ctx context.Context, table string) ([]types.FieldRow, error) {
	meta := s.Table(table)

	columns, err := s.tableColumns(ctx, table, meta)
	if err != nil {
		return nil, err
	}

	catalog := s.Catalog()
	rows := make([]types.FieldRow, 0, len(columns))
	for _, col := range columns {
		enumType := meta.Enum(col.Name)

		name := meta.DeclaredName(col.Name)
		if enumType != "" {
			name += types.EnumMarker
		}

		rows = append(rows, types.FieldRow{
			FieldName:    name,
			Label:        catalog.Text(s.fieldLabelID(meta, col.Name)),
			DataType:     col.DataType,
			Length:       col.Length,
			RelatedTable: meta.RelatedTable(col.Name),
			EnumType:     enumType,
		})
	}
	return rows, nil
}

func (s *Service) tableColumns(ctx context.Context, table string, meta *TableMeta) ([]types.Column, error) {
	if s.columns == nil {
		names := meta.FieldNames()
		columns := make([]types.Column, 0, len(names))
		for _, name := range names {
			columns = append(columns, types.Column{Name: name})
		}
		return columns, nil
	}

	columns, err := s.columns.TableColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return columns, nil
}

// fieldLabelID picks the field's own label, falling back to its extended
// data type (when one is named) or else its enum.
func (s *Service) fieldLabelID(meta *TableMeta, field string) string {
	if id := meta.Label(field); id != "" || !meta.Has(field) {
		return id
	}

	if edt := meta.ExtendedType(field); edt != "" {
		id, _ := s.ExtendedTypeLabel(edt)
		return id
	}
	if enum := meta.Enum(field); enum != "" {
		return s.EnumLabel(enum)
	}
	return ""
}
