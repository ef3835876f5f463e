// Package cachefile persists derived indexes as JSON files so that a process
// can skip walking the object tree on start-up.
package cachefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when the cache file does not exist.
var ErrNotFound = errors.New("cache file not found")

// ErrEmpty is returned by Load when the file decodes to a null document.
var ErrEmpty = errors.New("cache file is empty")

// Load decodes the JSON cache file at path into v.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("reading cache %s: %w", path, err)
	}

	if len(data) == 0 || string(data) == "null" {
		return ErrEmpty
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding cache %s: %w", path, err)
	}
	return nil
}

// Save writes v to path as JSON. The data goes to a temporary file in the
// same directory first and is renamed into place, so readers never see a
// half-written cache.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing cache %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing cache %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing cache %s: %w", path, err)
	}
	return nil
}
