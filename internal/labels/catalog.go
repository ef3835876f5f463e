// Package labels loads localized label text from *.label.txt resources and
// resolves label identifiers to display text.
package labels

import "strings"

// Catalog maps label identifiers to text. Lookups are case-insensitive.
type Catalog struct {
	entries map[string]string
}

// NewCatalog builds a Catalog from a key -> text map.
func NewCatalog(entries map[string]string) *Catalog {
	c := &Catalog{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		c.entries[strings.ToLower(k)] = v
	}
	return c
}

// Len returns the number of keys in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Lookup returns the text stored under key.
func (c *Catalog) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	text, ok := c.entries[strings.ToLower(key)]
	return text, ok
}

// Entries returns a copy of the catalog contents.
func (c *Catalog) Entries() map[string]string {
	out := make(map[string]string, c.Len())
	if c == nil {
		return out
	}
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Text resolves id to display text. An empty id yields "". A miss falls back
// to the "@"-prefixed form and finally to id itself.
func (c *Catalog) Text(id string) string {
	if c == nil {
		return GetText(id, nil)
	}
	return GetText(id, c.entries)
}

// GetText resolves id against a map whose keys are already lower-cased, as
// stored in the label cache. It follows the same fallbacks as Catalog.Text.
func GetText(id string, entries map[string]string) string {
	if id == "" {
		return ""
	}
	if text, ok := entries[strings.ToLower(id)]; ok {
		return text
	}
	if !strings.HasPrefix(id, "@") {
		if text, ok := entries["@"+strings.ToLower(id)]; ok {
			return text
		}
	}
	return id
}
