// Package driver is the pipeline entry point, spec.md §4.4/§6: it parses
// every input with pkg/lowering, runs the module-metadata collector, then
// the Type-Annotation Pass, then the Style-Fix Pass, then prints each
// input with the Typed Code Generator. Externs files are parsed (so their
// declared namespaces enter the symbol index) but never emitted.
//
// Per-file isolation follows spec.md §7: one file's pass failure is
// recorded against its name and does not abort the batch, the same shape
// as the teacher's indexer.ScanStats.Errors []FileError.
package driver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gmoothart/clutzgo/pkg/annotate"
	"github.com/gmoothart/clutzgo/pkg/ast"
	"github.com/gmoothart/clutzgo/pkg/codegen"
	"github.com/gmoothart/clutzgo/pkg/externsmap"
	"github.com/gmoothart/clutzgo/pkg/lowering"
	"github.com/gmoothart/clutzgo/pkg/module"
	"github.com/gmoothart/clutzgo/pkg/modulemeta"
	"github.com/gmoothart/clutzgo/pkg/parser"
	"github.com/gmoothart/clutzgo/pkg/pathutil"
	"github.com/gmoothart/clutzgo/pkg/stylefix"
)

// Source pairs a canonical file name with its text, per spec.md §6's
// "ordered sequence of (name, text)".
type Source struct {
	Name string
	Text string
}

// Driver owns the long-lived resources a compilation needs: the
// tree-sitter parser pool and the module-metadata collector's cache.
// Construct one per process, or one per compilation if sources change
// wholesale between calls.
type Driver struct {
	manager   *parser.ParserManager
	collector *modulemeta.Collector
	externs   externsmap.Map
	logger    *slog.Logger
}

// New builds a Driver. logger may be nil (defaults to slog.Default()).
// externs is the externs map loaded from the caller-supplied path, or an
// empty map if none was given (spec.md §6).
func New(externs externsmap.Map, logger *slog.Logger) (*Driver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	collector, err := modulemeta.NewCollector(0, logger)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	return &Driver{
		manager:   parser.NewParserManager(logger),
		collector: collector,
		externs:   externs,
		logger:    logger,
	}, nil
}

// Close releases the underlying parser pool.
func (d *Driver) Close() error {
	return d.manager.Close()
}

// Transpile is spec.md §6's single programmatic entry point:
// `transpile(filesToEmit, sources, externs) -> mapping basename->text`.
// filesToEmit names (by Source.Name) which of sources should actually be
// emitted; sources not in filesToEmit are parsed and indexed (their
// namespaces become resolvable) but never printed — this is how externs
// files (spec.md §7, P7) are handled, and also lets a caller batch-compile
// a dependency closure while only wanting output for part of it.
//
// Returns the emitted-text map keyed by basename without extension, and a
// map of per-file errors for inputs that failed a pass (spec.md §7).
func (d *Driver) Transpile(filesToEmit map[string]bool, sources []Source) (map[string]string, map[string]error) {
	lowered := make(map[string]*ast.Node, len(sources))
	comments := make(map[string]*ast.CommentRegistry, len(sources))
	records := make([]module.Record, 0, len(sources))
	errs := make(map[string]error)

	for _, src := range sources {
		root, reg, err := lowering.LowerFile(d.manager, []byte(src.Text), src.Name)
		if err != nil {
			errs[src.Name] = err
			d.logger.Warn("lowering failed", "file", src.Name, "error", err)
			continue
		}
		lowered[src.Name] = root
		comments[src.Name] = reg
		records = append(records, d.collector.Collect(src.Name, []byte(src.Text)))
	}

	index := modulemeta.NewIndex(records)
	recordsByPath := make(map[string]module.Record, len(records))
	for _, r := range records {
		recordsByPath[r.Path] = r
	}

	out := make(map[string]string)
	for _, src := range sources {
		root, ok := lowered[src.Name]
		if !ok {
			continue // already recorded as a lowering failure
		}

		self := recordsByPath[src.Name]
		reg := comments[src.Name]

		if _, err := annotate.AnnotateFile(root, self, index, d.externs, reg); err != nil {
			errs[src.Name] = err
			d.logger.Warn("annotation pass failed", "file", src.Name, "error", err)
			continue
		}
		if err := stylefix.Apply(root, reg); err != nil {
			errs[src.Name] = err
			d.logger.Warn("style-fix pass failed", "file", src.Name, "error", err)
			continue
		}

		if filesToEmit != nil && !filesToEmit[src.Name] {
			continue // externs-only file (spec.md §7, P7): indexed, never emitted
		}

		text := codegen.Print(root, reg)
		out[basenameWithoutExt(src.Name)] = text
	}

	return out, errs
}

func basenameWithoutExt(name string) string {
	base := filepath.Base(name)
	return pathutil.StripExtension(base)
}

// filesToEmitSet builds the filesToEmit membership map Transpile wants
// from a plain name list — convenience for callers (notably cmd/clutz-go)
// that only have "the files the user actually asked to convert."
func filesToEmitSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// FilesToEmitSet is the exported form of filesToEmitSet.
func FilesToEmitSet(names []string) map[string]bool {
	return filesToEmitSet(names)
}

// isExternsSource reports whether name looks like a declarations file by
// convention (".d.ts") — used only as a default by ConvertTree; callers
// with an explicit --externs list should prefer that.
func isExternsSource(name string) bool {
	return strings.HasSuffix(name, ".d.ts")
}
