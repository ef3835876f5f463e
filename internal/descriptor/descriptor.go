// Package descriptor reads the XML object descriptors of the metadata tree:
// tables and table extensions, extended data types and enums.
//
// Elements are matched by local name only; descriptors mix the metadata
// namespace on the root with xmlns="" on nested items.
package descriptor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Field is one AxTableField element.
type Field struct {
	Name             string `xml:"Name"`
	Label            string `xml:"Label"`
	ExtendedDataType string `xml:"ExtendedDataType"`
	EnumType         string `xml:"EnumType"`
}

// Constraint is one AxTableRelationConstraint element.
type Constraint struct {
	Type         string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	Name         string `xml:"Name"`
	Field        string `xml:"Field"`
	RelatedField string `xml:"RelatedField"`
	Value        string `xml:"Value"`
	ValueStr     string `xml:"ValueStr"`
}

// FixedValue returns ValueStr, falling back to Value.
func (c Constraint) FixedValue() string {
	if c.ValueStr != "" {
		return c.ValueStr
	}
	return c.Value
}

// Relation is one AxTableRelation element.
type Relation struct {
	Name         string       `xml:"Name"`
	RelatedTable string       `xml:"RelatedTable"`
	Constraints  []Constraint `xml:"Constraints>AxTableRelationConstraint"`
}

// Table holds the fields and relations found anywhere in a table or table
// extension descriptor, in document order.
type Table struct {
	Fields    []Field
	Relations []Relation
}

// ParseTable reads a table or table extension descriptor.
func ParseTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &Table{}
	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "AxTableField":
			var field Field
			if err := dec.DecodeElement(&field, &start); err != nil {
				return nil, fmt.Errorf("parsing field in %s: %w", path, err)
			}
			t.Fields = append(t.Fields, field)
		case "AxTableRelation":
			var rel Relation
			if err := dec.DecodeElement(&rel, &start); err != nil {
				return nil, fmt.Errorf("parsing relation in %s: %w", path, err)
			}
			t.Relations = append(t.Relations, rel)
		}
	}
	return t, nil
}

// ExtendedType is the part of an AxEdt descriptor used for label resolution.
type ExtendedType struct {
	Label   string `xml:"Label"`
	Extends string `xml:"Extends"`
}

// ParseExtendedType reads an extended data type descriptor.
func ParseExtendedType(path string) (*ExtendedType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var edt ExtendedType
	if err := xml.Unmarshal(data, &edt); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	edt.Label = strings.TrimSpace(edt.Label)
	edt.Extends = strings.TrimSpace(edt.Extends)
	return &edt, nil
}

// EnumValue is an AxEnumValue, AxEnumItem or AxEnumExtensionItem element.
type EnumValue struct {
	Name  string `xml:"Name"`
	Label string `xml:"Label"`
	Value string `xml:"Value"`
}

// Enum is an enum or enum extension descriptor.
type Enum struct {
	Label  string
	Values []EnumValue
}

var enumItemElements = map[string]bool{
	"AxEnumValue":         true,
	"AxEnumExtensionItem": true,
	"AxEnumItem":          true,
}

// ParseEnum reads an enum or enum extension descriptor. Label is the root
// element's own label; Values are all item elements in document order.
func ParseEnum(path string) (*Enum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root struct {
		Label string `xml:"Label"`
	}
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	e := &Enum{Label: strings.TrimSpace(root.Label)}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || !enumItemElements[start.Name.Local] {
			continue
		}
		var v EnumValue
		if err := dec.DecodeElement(&v, &start); err != nil {
			return nil, fmt.Errorf("parsing enum item in %s: %w", path, err)
		}
		e.Values = append(e.Values, v)
	}
	return e, nil
}
