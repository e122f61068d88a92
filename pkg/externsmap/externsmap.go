// Package externsmap loads the externs-map file spec.md §6 describes: a
// JSON object mapping extern type names (as they appear in JavaScript) to
// TypeScript type names. Loading and lookup are standalone from the
// type-annotation pass so a missing file is a no-op, not an error
// (spec.md §7: "Missing externs mapping. Not an error.").
//
// Grounded on the teacher's pkg/catalog/catalog.go, which loads a
// caller-supplied JSON file the same way (os.ReadFile + json.Unmarshal).
package externsmap

import (
	"encoding/json"
	"fmt"
	"os"
)

// Map is an extern-type-name -> TypeScript-type-name lookup table.
type Map map[string]string

// Load reads the JSON externs-map file at path. An empty path, or a path
// that doesn't exist, yields an empty Map rather than an error — per
// spec.md §6: "Absent file ⇒ empty map."
func Load(path string) (Map, error) {
	if path == "" {
		return Map{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Map{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read externs map %q: %w", path, err)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse externs map %q: %w", path, err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// Merge layers override on top of base, returning a new Map with override's
// entries taking precedence. Used to combine the bundled default externs
// (catalogs.DefaultExterns) with a caller-supplied file.
func Merge(base, override Map) Map {
	out := make(Map, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Resolve looks up name in the map, returning the original name unchanged
// if absent (spec.md §7: never an error, never guessed).
func (m Map) Resolve(name string) string {
	if ts, ok := m[name]; ok {
		return ts
	}
	return name
}
