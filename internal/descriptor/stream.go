package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dbsmedya/axmeta/internal/types"
)

// ScanRelationEdges streams a table descriptor without building a tree. It
// remembers the most recent RelatedTable value and emits one edge per
// AxTableRelationConstraint seen after it, owned by table.
func ScanRelationEdges(path, table string) ([]types.RelationEdge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	edges, err := streamRelationEdges(f, table)
	if err != nil {
		return nil, fmt.Errorf("streaming %s: %w", path, err)
	}
	return edges, nil
}

func streamRelationEdges(r io.Reader, table string) ([]types.RelationEdge, error) {
	var edges []types.RelationEdge
	relatedTable := ""

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return edges, nil
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "RelatedTable":
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return nil, err
			}
			relatedTable = text
		case "AxTableRelationConstraint":
			field, relatedField, err := readConstraint(dec)
			if err != nil {
				return nil, err
			}
			if relatedTable != "" {
				edges = append(edges, types.RelationEdge{
					FromTable: table,
					FromField: field,
					ToTable:   relatedTable,
					ToField:   relatedField,
				})
			}
		}
	}
}

// readConstraint consumes a constraint subtree and returns the last Field and
// RelatedField values found in it.
func readConstraint(dec *xml.Decoder) (field, relatedField string, err error) {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Field":
				if err := dec.DecodeElement(&field, &t); err != nil {
					return "", "", err
				}
			case "RelatedField":
				if err := dec.DecodeElement(&relatedField, &t); err != nil {
					return "", "", err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return field, relatedField, nil
}
