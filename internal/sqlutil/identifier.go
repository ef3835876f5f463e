// Package sqlutil validates and quotes table names before they reach SQL.
package sqlutil

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength is the longest table name MySQL accepts.
const MaxIdentifierLength = 64

// validIdentifierRegex allows the characters AOT object names are made of.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// backtick inside it.
// Example: "CustTable" -> "`CustTable`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// IsValidIdentifier reports whether name is non-empty, at most
// MaxIdentifierLength long and made only of letters, digits and underscores.
func IsValidIdentifier(name string) bool {
	return len(name) <= MaxIdentifierLength && validIdentifierRegex.MatchString(name)
}

// ValidateIdentifier returns an InvalidIdentifierError for names that fail
// IsValidIdentifier.
func ValidateIdentifier(name string) error {
	if !IsValidIdentifier(name) {
		return &InvalidIdentifierError{Name: name}
	}
	return nil
}

// QuoteIdentifierSafe validates name and then quotes it.
func QuoteIdentifierSafe(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return QuoteIdentifier(name), nil
}

// InvalidIdentifierError is returned when a table name cannot be used in a query.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must be 1-64 letters, digits or underscores)"
}
