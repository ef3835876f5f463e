package relations

import (
	"fmt"
	"os"
	"strings"

	"github.com/dbsmedya/axmeta/internal/descriptor"
	"github.com/dbsmedya/axmeta/internal/pathindex"
)

// FixedSource is the source column shown for related-fixed constraints.
const FixedSource = "(fixed)"

const (
	fieldConstraint        = "AxTableRelationConstraintField"
	relatedFixedConstraint = "AxTableRelationConstraintRelatedFixed"
)

// ConstraintDetail is one line of a relation: which source field maps to
// which target expression.
type ConstraintDetail struct {
	SourceField string `json:"source_field"`
	TargetField string `json:"target_field"`
	Type        string `json:"type"`
}

// Details lists the constraints of the first relation of mainTable that
// points at relatedTable and constrains field. Only the base descriptor of
// mainTable is read. A table missing from the index yields no details.
func Details(idx *pathindex.Index, mainTable, relatedTable, field string) ([]ConstraintDetail, error) {
	path, ok := idx.Table(mainTable)
	if !ok {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	tbl, err := descriptor.ParseTable(path)
	if err != nil {
		return nil, fmt.Errorf("reading relations of %s: %w", mainTable, err)
	}

	for _, rel := range tbl.Relations {
		if !strings.EqualFold(rel.RelatedTable, relatedTable) || !constrains(rel, field) {
			continue
		}

		var details []ConstraintDetail
		for _, c := range rel.Constraints {
			switch {
			case strings.Contains(c.Type, relatedFixedConstraint):
				details = append(details, ConstraintDetail{
					SourceField: FixedSource,
					TargetField: fmt.Sprintf("%s == %s", c.RelatedField, c.FixedValue()),
					Type:        relatedFixedConstraint,
				})
			case strings.Contains(c.Type, fieldConstraint):
				details = append(details, ConstraintDetail{
					SourceField: c.Field,
					TargetField: c.RelatedField,
					Type:        fieldConstraint,
				})
			}
		}
		return details, nil
	}
	return nil, nil
}

func constrains(rel descriptor.Relation, field string) bool {
	for _, c := range rel.Constraints {
		if strings.EqualFold(c.Field, field) {
			return true
		}
	}
	return false
}
