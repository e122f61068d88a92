package annotate

import (
	"fmt"

	"github.com/gmoothart/clutzgo/pkg/ast"
	"github.com/gmoothart/clutzgo/pkg/externsmap"
	"github.com/gmoothart/clutzgo/pkg/module"
)

// AnnotateFile runs the Type-Annotation Pass (spec.md §4.1) over one
// file's AST in place: it converts every doc-comment type expression it
// finds into a DeclaredType, applies the access-modifier sub-pass, and
// splices the file's synthesized imports in (see injectImports). The returned
// FileRewriter carries the finished Type Rewrite Table, mostly useful to
// callers wanting to inspect or assert on it.
func AnnotateFile(root *ast.Node, self module.Record, index module.SymbolIndex, externs externsmap.Map, comments *ast.CommentRegistry) (*FileRewriter, error) {
	rw := NewFileRewriter(self, index, externs)
	if err := annotateNode(root, rw, comments); err != nil {
		return nil, fmt.Errorf("annotating %s: %w", self.Path, err)
	}
	injectImports(root, rw)
	return rw, nil
}

func annotateNode(n *ast.Node, rw *FileRewriter, comments *ast.CommentRegistry) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case ast.KindFunction:
		if err := annotateFunction(n, rw, comments); err != nil {
			return err
		}
	case ast.KindMemberVariableDef, ast.KindVar, ast.KindLet, ast.KindConst, ast.KindCast:
		if err := annotateDeclOrCast(n, rw); err != nil {
			return err
		}
	}

	applyAccessModifier(n)

	for _, c := range n.SnapshotChildren() {
		if err := annotateNode(c, rw, comments); err != nil {
			return err
		}
	}
	return nil
}

// annotateFunction handles the return-type rule and the parameter-list
// rule of spec.md §4.1: the function's own DeclaredType comes from
// @return, and each declared @param is matched to its NAME node by name,
// with REST substitution for a `...T` marker and an optional flag for a
// `T=` marker.
func annotateFunction(n *ast.Node, rw *FileRewriter, comments *ast.CommentRegistry) error {
	if n.Doc != nil && n.Doc.Return != nil {
		conv, err := ConvertType(n.Doc.Return, true, rw)
		if err != nil {
			return err
		}
		n.DeclaredType = conv
	}

	if n.Doc == nil || len(n.Doc.ParamOrder) == 0 {
		return nil
	}

	paramList := findChild(n, ast.KindParamList)
	if paramList == nil {
		return nil
	}

	for _, name := range n.Doc.ParamOrder {
		raw := n.Doc.Params[name]
		paramNode := findParamByName(paramList, name)
		if paramNode == nil {
			continue
		}

		converted, isRest, isOpt, err := convertParamType(raw, rw)
		if err != nil {
			return err
		}

		if isRest && paramNode.Kind != ast.KindRest {
			idx := paramList.IndexOfChild(paramNode)
			rest := ast.NewLeaf(ast.KindRest, paramNode.Payload)
			rest.DeclaredType = converted
			comments.Move(paramNode, rest)
			paramList.ReplaceChild(idx, rest)
			continue
		}

		paramNode.DeclaredType = converted
		if isOpt {
			paramNode.SetProp(ast.PropOptES6Typed, true)
		}
	}

	return nil
}

// convertParamType converts a raw (pre-conversion) @param type expression,
// peeling off the ELLIPSIS/EQUALS param-position markers first since
// those change the parameter's *shape* (rest, optional), not just its
// type — spec.md §4.1's ELLIPSIS/EQUALS rows.
func convertParamType(raw *ast.Node, rw Rewriter) (converted *ast.Node, isRest, isOpt bool, err error) {
	if raw == nil {
		return nil, false, false, nil
	}

	switch raw.Kind {
	case ast.KindEllipsis:
		inner, err := ConvertType(raw.Children[0], false, rw)
		if err != nil {
			return nil, false, false, err
		}
		if inner == nil {
			inner = ast.NewNode(ast.KindAnyType)
		}
		return ast.NewParent(ast.KindArrayType, inner), true, false, nil

	case ast.KindEquals:
		inner, err := ConvertType(raw.Children[0], false, rw)
		if err != nil {
			return nil, false, false, err
		}
		return inner, false, true, nil

	default:
		conv, err := ConvertType(raw, false, rw)
		return conv, false, false, err
	}
}

// annotateDeclOrCast handles the remaining node-kind rules of spec.md
// §4.1: a class member variable definition, a var/let/const declaration
// (the declared type attaches to the declared NAME/GETPROP, not the
// VAR/LET/CONST keyword node itself), and an inline CAST.
func annotateDeclOrCast(n *ast.Node, rw *FileRewriter) error {
	if n.Doc == nil || n.Doc.Type == nil {
		if n.Kind == ast.KindMemberVariableDef && n.DeclaredType == nil {
			// spec.md §4.1: "Class member variable. If doc provides a type,
			// attach it; otherwise attach any."
			n.DeclaredType = ast.NewNode(ast.KindAnyType)
		}
		return nil
	}

	conv, err := ConvertType(n.Doc.Type, false, rw)
	if err != nil {
		return err
	}

	target := n
	switch n.Kind {
	case ast.KindVar, ast.KindLet, ast.KindConst:
		if len(n.Children) > 0 && (n.Children[0].Kind == ast.KindName || n.Children[0].Kind == ast.KindGetProp) {
			target = n.Children[0]
		}
	}
	target.DeclaredType = conv
	return nil
}

// applyAccessModifier is the access-modifier sub-pass of spec.md §4.1: a
// @private/@protected doc comment becomes an ACCESS_MODIFIER property, and
// (per spec.md P6, resolved unconditionally — see SPEC_FULL.md's Open
// Question Decisions) a @const-marked var/let binding retokens to CONST
// regardless of its initializer's shape.
func applyAccessModifier(n *ast.Node) {
	if n.Doc == nil {
		return
	}

	switch n.Doc.Visibility {
	case ast.VisibilityPrivate:
		n.SetProp(ast.PropAccessModifier, "private")
	case ast.VisibilityProtected:
		n.SetProp(ast.PropAccessModifier, "protected")
	}

	if n.Doc.Const && (n.Kind == ast.KindVar || n.Kind == ast.KindLet) {
		n.Kind = ast.KindConst
	}
}

func findChild(n *ast.Node, kind ast.Kind) *ast.Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

func findParamByName(paramList *ast.Node, name string) *ast.Node {
	for _, c := range paramList.Children {
		if c.Payload == name {
			return c
		}
	}
	return nil
}

// injectImports splices a file's synthesized imports in before the first
// existing import, or at the top of the file if it has none (spec.md
// §4.1's import-placement rule). An existing import is either an IMPORT
// node or a KindRaw leaf holding an `import` statement's source text, which
// is how pkg/lowering keeps import statements. The module body is either the root
// itself, or root's MODULE_BODY child for a SCRIPT root.
func injectImports(root *ast.Node, rw *FileRewriter) {
	imports := rw.PendingImports()
	if len(imports) == 0 {
		return
	}

	body := root
	if root.Kind == ast.KindScript {
		if b := findChild(root, ast.KindModuleBody); b != nil {
			body = b
		}
	}

	at := 0
	for i, c := range body.Children {
		p := c.Payload
		if c.Kind == ast.KindImport || (c.Kind == ast.KindRaw && len(p) > 6 && p[:6] == "import" && (p[6] == ' ' || p[6] == '{')) {
			at = i
			break
		}
	}
	merged := make([]*ast.Node, 0, len(body.Children)+len(imports))
	merged = append(merged, body.Children[:at]...)
	merged = append(merged, imports...)
	body.Children = append(merged, body.Children[at:]...)
}
