// Package modulemeta is the concrete collector that produces the
// module.Record/module.SymbolIndex values pkg/annotate treats as read-only
// input (spec.md §2 rows 3-4, §3). It scans a file's source text for the
// handful of top-level forms that establish a module's kind and the
// namespaces it provides: `goog.module(...)`/`goog.provide(...)` calls for
// legacy-namespace modules, `import`/`export` statements for ECMAScript
// ones.
//
// This is a line-oriented scanner, not a tree-sitter walk: namespace
// declarations are call-expression statements pkg/lowering deliberately
// leaves as KindRaw text (they carry no type information the annotation
// pass needs structurally), so recovering them from source text directly
// is simpler and avoids growing pkg/lowering's grammar coverage for a
// concern that is really about file layout, not code shape. The scanning
// style — trim, strip a known prefix/suffix, move on — follows
// pkg/docparser's stripDelimiters/splitLines.
package modulemeta

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gmoothart/clutzgo/pkg/module"
)

// cacheEntry pairs a Record with the content hash it was built from, so a
// cache hit can be invalidated the moment a file's text changes.
type cacheEntry struct {
	hash   string
	record module.Record
}

// Collector builds module.Record values from source text, caching results
// per file path the way the teacher's pkg/indexer.SymbolIndexer caches
// derived FileSymbols.
type Collector struct {
	cache  *lru.Cache[string, cacheEntry]
	logger *slog.Logger
}

// DefaultCacheSize matches the teacher's indexer default.
const DefaultCacheSize = 1000

// NewCollector returns a Collector whose cache holds up to size entries.
// A size <= 0 falls back to DefaultCacheSize.
func NewCollector(size int, logger *slog.Logger) (*Collector, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("modulemeta: creating cache: %w", err)
	}
	return &Collector{cache: cache, logger: logger}, nil
}

// Collect returns the module.Record for path, reusing a cached result if
// source's content hash matches what produced it.
func (c *Collector) Collect(path string, source []byte) module.Record {
	hash := contentHash(source)

	if entry, ok := c.cache.Get(path); ok && entry.hash == hash {
		return entry.record
	}

	record := scan(path, source)
	c.cache.Add(path, cacheEntry{hash: hash, record: record})
	c.logger.Debug("modulemeta: collected record", "path", path, "kind", record.Kind.String(), "namespaces", len(record.Namespaces))
	return record
}

func contentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// scan walks source line by line, recognizing the statement shapes that
// establish module kind and namespace bindings. It deliberately tolerates
// anything else in the file — this is metadata extraction, not a parser.
func scan(path string, source []byte) module.Record {
	record := module.Record{Path: path, Namespaces: map[string]string{}}

	var pendingNamespace string
	for _, rawLine := range strings.Split(string(source), "\n") {
		line := strings.TrimSpace(rawLine)

		switch {
		case strings.HasPrefix(line, "goog.module("):
			record.Kind = module.KindLegacyNamespace
			pendingNamespace = extractQuotedArg(line)

		case strings.HasPrefix(line, "goog.provide("):
			record.Kind = module.KindLegacyNamespace
			if ns := extractQuotedArg(line); ns != "" {
				record.Namespaces[ns] = lastDottedComponent(ns)
			}

		case strings.HasPrefix(line, "exports") && pendingNamespace != "":
			if sym := exportedSymbol(line); sym != "" {
				record.Namespaces[pendingNamespace] = sym
			}

		case strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export "):
			if record.Kind == module.KindUnknown {
				record.Kind = module.KindECMAScript
			}
		}
	}

	if record.Kind == module.KindUnknown {
		record.Kind = module.KindECMAScript
	}
	return record
}

// extractQuotedArg pulls the first '...' or "..." substring out of a
// goog.module(...)/goog.provide(...) call line.
func extractQuotedArg(line string) string {
	for _, quote := range []byte{'\'', '"'} {
		start := strings.IndexByte(line, quote)
		if start == -1 {
			continue
		}
		end := strings.IndexByte(line[start+1:], quote)
		if end == -1 {
			continue
		}
		return line[start+1 : start+1+end]
	}
	return ""
}

// exportedSymbol recognizes `exports = Name;` and `exports = Name.Sub;`
// (the only shapes goog.module's default export takes), returning the
// bound local identifier.
func exportedSymbol(line string) string {
	line = strings.TrimPrefix(line, "exports")
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "=") {
		return ""
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "="))
	line = strings.TrimSuffix(line, ";")
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return lastDottedComponent(line)
}

func lastDottedComponent(s string) string {
	if i := strings.LastIndexByte(s, '.'); i != -1 {
		return s[i+1:]
	}
	return s
}

// Index is a module.SymbolIndex built from a fixed set of Records,
// resolving duplicate namespace registrations by first-registered-wins
// (spec.md §5's deterministic construction order).
type Index struct {
	records map[string]module.Record
	order   []string
}

// NewIndex builds an Index from records, in construction order.
func NewIndex(records []module.Record) *Index {
	idx := &Index{records: make(map[string]module.Record)}
	for _, r := range records {
		for ns := range r.Namespaces {
			if _, exists := idx.records[ns]; exists {
				continue
			}
			idx.records[ns] = r
			idx.order = append(idx.order, ns)
		}
	}
	return idx
}

func (idx *Index) Lookup(namespace string) (module.Record, bool) {
	r, ok := idx.records[namespace]
	return r, ok
}

func (idx *Index) Namespaces() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

var _ module.SymbolIndex = (*Index)(nil)
