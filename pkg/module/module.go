// Package module defines the read-only external contracts spec.md §2 rows 3
// and 4 call "Module Metadata" and treats as consumed, not computed, by the
// type-annotation pass: per-file module records and the symbol index built
// from them. A concrete collector that produces these lives in
// pkg/modulemeta; pkg/annotate depends only on the interfaces here.
package module

// Kind distinguishes the two module forms spec.md's GLOSSARY defines.
type Kind int

const (
	// KindUnknown means the file's module form could not be determined.
	KindUnknown Kind = iota

	// KindLegacyNamespace is a file whose exports are addressed by a
	// dotted namespace string (goog.module/goog.provide style), imported
	// via a scheme-prefixed specifier ("goog:<namespace>").
	KindLegacyNamespace

	// KindECMAScript is a file whose exports are addressed by relative
	// path, imported via standard `import { ... } from './...'` syntax.
	KindECMAScript
)

func (k Kind) String() string {
	switch k {
	case KindLegacyNamespace:
		return "legacy-namespace"
	case KindECMAScript:
		return "ecmascript-module"
	default:
		return "unknown"
	}
}

// Record is the per-file module metadata spec.md §3 describes: module kind,
// the namespaces it makes available and their local symbol names, and its
// canonical path.
type Record struct {
	Kind Kind

	// Path is the file's canonical path, used to compute relative imports
	// for KindECMAScript records.
	Path string

	// Namespaces maps a dotted namespace string to the local symbol name
	// that namespace resolves to within this module — e.g. for a file with
	// the lines `goog.module('ns.T');` and `exports = T;`, Namespaces["ns.T"]
	// == "T".
	Namespaces map[string]string
}

// LocalSymbol looks up the local symbol name bound to namespace within
// this record, if any.
func (r Record) LocalSymbol(namespace string) (string, bool) {
	if r.Namespaces == nil {
		return "", false
	}
	s, ok := r.Namespaces[namespace]
	return s, ok
}

// SymbolIndex is the read-only, compilation-wide map from namespace string
// to the Record of the module that provides it (spec.md §3's "Symbol
// Index").
type SymbolIndex interface {
	// Lookup returns the Record providing namespace, and whether one
	// exists. When more than one file could provide the same namespace
	// the first one registered wins — deterministic by construction
	// order, per spec.md §5.
	Lookup(namespace string) (Record, bool)

	// Namespaces returns every namespace string registered in the
	// index. pkg/annotate needs this set to compute
	// pathutil.LongestDottedPrefix (spec.md §4.1 step 1: "union of keys
	// in the file's Type Rewrite Table and the global Symbol Index").
	Namespaces() []string
}

// MapIndex is the simplest possible SymbolIndex: a plain map, useful in
// tests and for callers who already have the whole index materialized.
type MapIndex map[string]Record

func (m MapIndex) Lookup(namespace string) (Record, bool) {
	r, ok := m[namespace]
	return r, ok
}

func (m MapIndex) Namespaces() []string {
	out := make([]string, 0, len(m))
	for ns := range m {
		out = append(out, ns)
	}
	return out
}
