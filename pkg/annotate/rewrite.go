package annotate

import (
	"github.com/gmoothart/clutzgo/pkg/ast"
	"github.com/gmoothart/clutzgo/pkg/externsmap"
	"github.com/gmoothart/clutzgo/pkg/module"
	"github.com/gmoothart/clutzgo/pkg/pathutil"
)

// FileRewriter is the per-file Type Rewrite Table plus Pending Imports
// queue described in spec.md §2 rows 5-6 and §4.1 step 1. One is created
// per source file being annotated; it implements Rewriter so convert.go
// can call through it without knowing about imports at all.
//
// Invariant I1 (spec.md §9): every queued import has exactly one key in
// the rewrite table — Rewrite adds the table entry and queues the import in
// the same step. A namespace the file provides itself gets a table entry
// but no import.
type FileRewriter struct {
	self    module.Record
	index   module.SymbolIndex
	externs externsmap.Map

	table   map[string]string // namespace -> local symbol
	imports map[string]*ast.Node
	order   []string // namespaces, first-seen order
}

// NewFileRewriter builds a FileRewriter for one file being annotated.
// self is that file's own module.Record, used to recognize (and skip
// importing) a namespace the file provides itself.
func NewFileRewriter(self module.Record, index module.SymbolIndex, externs externsmap.Map) *FileRewriter {
	return &FileRewriter{
		self:    self,
		index:   index,
		externs: externs,
		table:   make(map[string]string),
		imports: make(map[string]*ast.Node),
	}
}

// Rewrite resolves a dotted type name against the union of the rewrite
// table and the global symbol index (spec.md §4.1 step 1's longest
// dotted-prefix match), queuing an import the first time a given
// namespace is referenced. Names matching no known namespace fall back to
// the externs map, and failing that are returned unchanged.
func (fr *FileRewriter) Rewrite(name string) string {
	candidates := make(map[string]bool, len(fr.table)+len(fr.index.Namespaces()))
	for ns := range fr.table {
		candidates[ns] = true
	}
	for _, ns := range fr.index.Namespaces() {
		candidates[ns] = true
	}

	prefix, ok := pathutil.LongestDottedPrefix(name, candidates)
	if !ok {
		return fr.externs.Resolve(name)
	}

	local, bound := fr.table[prefix]
	if !bound {
		rec, found := fr.index.Lookup(prefix)
		if !found {
			return fr.externs.Resolve(name)
		}
		local = fr.bindingFor(rec, prefix)
		fr.table[prefix] = local
		if rec.Path != fr.self.Path {
			fr.queueImport(rec, prefix, local)
		}
	}

	return pathutil.SubstitutePrefix(name, prefix, local)
}

// bindingFor picks the local symbol name a namespace is imported as: the
// module's own recorded local symbol if it declared one, else the
// namespace's last dotted component.
func (fr *FileRewriter) bindingFor(rec module.Record, namespace string) string {
	if sym, ok := rec.LocalSymbol(namespace); ok && sym != "" {
		return sym
	}
	return lastDottedComponent(namespace)
}

func lastDottedComponent(name string) string {
	last := name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			last = name[i+1:]
			break
		}
	}
	return last
}

// queueImport synthesizes the IMPORT node for namespace, bound locally as
// local, per spec.md §6: a "goog:<namespace>" specifier for a
// legacy-namespace provider, a relative path specifier for an ECMAScript
// one.
func (fr *FileRewriter) queueImport(rec module.Record, namespace, local string) {
	spec := ast.NewLeaf(ast.KindImportSpec, local)
	specs := ast.NewParent(ast.KindImportSpecs, spec)

	imp := ast.NewParent(ast.KindImport, specs)
	switch rec.Kind {
	case module.KindLegacyNamespace:
		imp.Payload = "goog:" + namespace
	default:
		imp.Payload = pathutil.RelativeImport(fr.self.Path, rec.Path)
	}

	fr.imports[namespace] = imp
	fr.order = append(fr.order, namespace)
}

// PendingImports returns the queued import nodes in first-referenced
// order, ready for injectImports (run by AnnotateFile) to splice in before the first existing
// import (or at the top of the file) per spec.md §4.1's import-placement
// rule.
func (fr *FileRewriter) PendingImports() []*ast.Node {
	out := make([]*ast.Node, 0, len(fr.order))
	for _, ns := range fr.order {
		out = append(out, fr.imports[ns])
	}
	return out
}

// RewriteTable exposes the namespace -> local-symbol bindings accumulated
// so far, mainly for tests asserting invariant I1.
func (fr *FileRewriter) RewriteTable() map[string]string {
	return fr.table
}
