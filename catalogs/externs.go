// Package catalogs provides the bundled default externs map, embedded at
// build time — a fallback for callers who don't supply their own
// --externsMap file.
//
// Adapted from the teacher's package of the same name, which embedded a
// prebuilt shadcn/ui component catalog; here the embedded seed is an
// externs-map JSON document instead.
package catalogs

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/gmoothart/clutzgo/pkg/externsmap"
)

//go:embed externs/default.json
var defaultExternsJSON []byte

// DefaultExterns returns the bundled default externs map covering common
// Closure/browser extern names.
func DefaultExterns() (externsmap.Map, error) {
	var m externsmap.Map
	if err := json.Unmarshal(defaultExternsJSON, &m); err != nil {
		return nil, fmt.Errorf("failed to parse bundled default externs: %w", err)
	}
	return m, nil
}
