// Package lowering turns a tree-sitter concrete syntax tree into the
// pkg/ast.Node tree the rest of the pipeline operates on — the "backing
// JavaScript toolchain" spec.md §4.4 treats as an external collaborator.
//
// It is deliberately not a full JavaScript/TypeScript grammar: every
// construct spec.md's passes actually need to see structurally (variable
// declarations, function and class declarations, doc comments) is lowered
// into its own Node shape; everything else is kept as a KindRaw leaf
// carrying its verbatim source text, so round-tripping a file never loses
// text even when this package doesn't understand a construct.
//
// Grounded on the teacher's pkg/scanner/detection_ast.go and
// pkg/extractor/extractor.go/metadata.go, which are the only places in the
// teacher that walk a *ts.Node tree by hand rather than through a compiled
// query. It follows the same split the teacher does: Child/ChildCount
// (detection_ast.go) where an anonymous token itself matters (a var/let/
// const keyword), NamedChild/NamedChildCount (extractor/metadata.go's
// parameter walk) everywhere a list of named productions — declarators,
// class members, parameters — is being enumerated and punctuation tokens
// would otherwise show up as spurious entries.
package lowering

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gmoothart/clutzgo/pkg/ast"
	"github.com/gmoothart/clutzgo/pkg/docparser"
	"github.com/gmoothart/clutzgo/pkg/parser"
)

// LowerFile parses source with manager and lowers it into a SCRIPT-rooted
// Node tree plus the comment registry populated with every doc comment
// attached along the way. path is used only to detect the grammar
// (language + TSX-ness).
func LowerFile(manager *parser.ParserManager, source []byte, path string) (*ast.Node, *ast.CommentRegistry, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LanguageUnknown {
		return nil, nil, fmt.Errorf("lowering %s: unrecognized source language", path)
	}

	tree, err := manager.Parse(source, lang, parser.IsTSXFile(path))
	if err != nil {
		return nil, nil, fmt.Errorf("lowering %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil, fmt.Errorf("lowering %s: empty parse tree", path)
	}

	comments := ast.NewCommentRegistry()
	body := ast.NewNode(ast.KindModuleBody)
	script := ast.NewParent(ast.KindScript, body)

	l := &lowerer{source: source, path: path, comments: comments}

	var pendingComment string
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "comment" {
			pendingComment = child.Utf8Text(source)
			continue
		}

		node := l.lowerStatement(child)
		if node != nil {
			if pendingComment != "" {
				if doc, _, err := docparser.ParseDocComment(pendingComment); err == nil {
					attachDeclDoc(node, doc)
				}
				comments.Set(node, pendingComment)
			}
			node.SourceFile = path
			body.AddChild(node)
		}
		pendingComment = ""
	}

	return script, comments, nil
}

type lowerer struct {
	source   []byte
	path     string
	comments *ast.CommentRegistry
}

// lowerStatement lowers one top-level (or class-body) statement. Unknown
// constructs fall back to a verbatim KindRaw leaf.
func (l *lowerer) lowerStatement(n *ts.Node) *ast.Node {
	switch n.Kind() {
	case "variable_declaration", "lexical_declaration":
		return l.lowerDeclaration(n)
	case "function_declaration":
		return l.lowerFunction(n)
	case "class_declaration":
		return l.lowerClass(n)
	default:
		return l.rawNode(n)
	}
}

func (l *lowerer) rawNode(n *ts.Node) *ast.Node {
	return ast.NewLeaf(ast.KindRaw, n.Utf8Text(l.source))
}

// lowerDeclaration lowers a var/let/const statement. A single-declarator
// statement is modeled structurally (spec.md's scenarios are all
// single-binding); a statement with several declarators is kept whole as
// a KindRaw leaf, so none of its declarators' text is lost.
func (l *lowerer) lowerDeclaration(n *ts.Node) *ast.Node {
	keyword := ""
	if n.ChildCount() > 0 {
		keyword = n.Child(0).Utf8Text(l.source)
	}

	var kind ast.Kind
	switch keyword {
	case "const":
		kind = ast.KindConst
	case "let":
		kind = ast.KindLet
	default:
		kind = ast.KindVar
	}

	var declarators []*ts.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "variable_declarator" {
			declarators = append(declarators, child)
		}
	}
	if len(declarators) == 1 {
		return l.lowerDeclarator(kind, declarators[0])
	}

	return l.rawNode(n)
}

func (l *lowerer) lowerDeclarator(kind ast.Kind, n *ts.Node) *ast.Node {
	nameField := n.ChildByFieldName("name")
	if nameField == nil {
		return l.rawNode(n)
	}

	name := ast.NewLeaf(ast.KindName, nameField.Utf8Text(l.source))

	if value := n.ChildByFieldName("value"); value != nil {
		init := l.lowerExpression(value)
		if init != nil {
			name.AddChild(init)
		}
	}

	return ast.NewParent(kind, name)
}

// lowerExpression lowers an initializer expression only as far as
// distinguishing a class/function literal (which drives pkg/stylefix's
// lift rule) from everything else, which becomes a raw leaf.
func (l *lowerer) lowerExpression(n *ts.Node) *ast.Node {
	switch n.Kind() {
	case "class", "class_declaration":
		return l.lowerClassLiteral(n)
	case "function_expression", "function", "arrow_function", "generator_function":
		return l.lowerFunctionLiteral(n)
	default:
		return l.rawNode(n)
	}
}

func (l *lowerer) lowerFunction(n *ts.Node) *ast.Node {
	fn := l.lowerFunctionLiteral(n)
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Payload = name.Utf8Text(l.source)
	}
	return fn
}

// lowerFunctionLiteral builds a FUNCTION node with a PARAM_LIST first
// child and, when the literal has a block body, a trailing KindRaw child
// carrying that body's verbatim text (braces included). Statement-level
// detail inside a function body is out of this package's bounded grammar
// coverage (see the package doc comment) — pkg/jsgen reprints that raw
// text unchanged, so behavior is preserved even though it isn't modeled
// structurally.
func (l *lowerer) lowerFunctionLiteral(n *ts.Node) *ast.Node {
	paramList := ast.NewNode(ast.KindParamList)

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			if name := l.paramName(p); name != "" {
				paramList.AddChild(ast.NewLeaf(ast.KindName, name))
			}
		}
	}

	fn := ast.NewParent(ast.KindFunction, paramList)
	if bodyNode := n.ChildByFieldName("body"); bodyNode != nil {
		fn.AddChild(ast.NewLeaf(ast.KindRaw, bodyNode.Utf8Text(l.source)))
	}
	return fn
}

// paramName extracts a parameter's bound identifier from a parameter-list
// child node, handling the plain, rest (`...x`), and default-value
// (`x = y`) shapes tree-sitter-javascript produces. Punctuation tokens
// (commas, parens) yield "".
func (l *lowerer) paramName(p *ts.Node) string {
	switch p.Kind() {
	case "identifier":
		return p.Utf8Text(l.source)
	case "rest_pattern":
		for i := uint(0); i < p.NamedChildCount(); i++ {
			if c := p.NamedChild(i); c.Kind() == "identifier" {
				return c.Utf8Text(l.source)
			}
		}
	case "assignment_pattern":
		if left := p.ChildByFieldName("left"); left != nil {
			return l.paramName(left)
		}
	}
	return ""
}

func (l *lowerer) lowerClass(n *ts.Node) *ast.Node {
	class := l.lowerClassLiteral(n)
	if name := n.ChildByFieldName("name"); name != nil {
		class.Payload = name.Utf8Text(l.source)
	}
	return class
}

func (l *lowerer) lowerClassLiteral(n *ts.Node) *ast.Node {
	class := ast.NewNode(ast.KindClass)

	body := n.ChildByFieldName("body")
	if body == nil {
		return class
	}

	var pendingComment string
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil {
			continue
		}
		if member.Kind() == "comment" {
			pendingComment = member.Utf8Text(l.source)
			continue
		}

		node := l.lowerClassMember(member)
		if node != nil {
			if pendingComment != "" {
				if doc, _, err := docparser.ParseDocComment(pendingComment); err == nil {
					attachDeclDoc(node, doc)
				}
				l.comments.Set(node, pendingComment)
			}
			class.AddChild(node)
		}
		pendingComment = ""
	}

	return class
}

func (l *lowerer) lowerClassMember(n *ts.Node) *ast.Node {
	switch n.Kind() {
	case "public_field_definition", "field_definition":
		return l.lowerField(n)
	case "method_definition":
		return l.lowerMethod(n)
	default:
		return l.rawNode(n)
	}
}

func (l *lowerer) lowerField(n *ts.Node) *ast.Node {
	nameField := n.ChildByFieldName("property")
	if nameField == nil {
		nameField = n.ChildByFieldName("name")
	}
	if nameField == nil {
		return l.rawNode(n)
	}

	member := ast.NewLeaf(ast.KindMemberVariableDef, nameField.Utf8Text(l.source))
	if value := n.ChildByFieldName("value"); value != nil {
		if init := l.lowerExpression(value); init != nil {
			member.AddChild(init)
		}
	}
	return member
}

func (l *lowerer) lowerMethod(n *ts.Node) *ast.Node {
	fn := l.lowerFunctionLiteral(n)
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Payload = name.Utf8Text(l.source)
	}
	return fn
}

// attachDeclDoc sets node.Doc to doc and, per spec.md §4.1's "read doc info
// from that node or the nearest enclosing declaration", also attaches it to
// a class/function literal bound as node's initializer. annotateFunction
// (pkg/annotate) only ever reads Doc off the FUNCTION node itself, so a
// `const f = function(x) {...}` binding's leading comment has to reach the
// FUNCTION literal nested two levels below the CONST node it was lowered
// onto, or its @param/@return go unseen.
func attachDeclDoc(node *ast.Node, doc *ast.DocInfo) {
	node.Doc = doc
	if init := literalInitializer(node); init != nil {
		init.Doc = doc
	}
}

// literalInitializer returns the class/function literal bound as node's
// initializer, if any: node.Children[0].Children[0] for a VAR/LET/CONST
// declaration (past the NAME leaf's own grandchild slot), or
// node.Children[0] for a MEMBER_VARIABLE_DEF (which holds its initializer
// directly, with no NAME wrapper).
func literalInitializer(node *ast.Node) *ast.Node {
	var init *ast.Node
	switch node.Kind {
	case ast.KindVar, ast.KindLet, ast.KindConst:
		if len(node.Children) == 0 || len(node.Children[0].Children) == 0 {
			return nil
		}
		init = node.Children[0].Children[0]
	case ast.KindMemberVariableDef:
		if len(node.Children) == 0 {
			return nil
		}
		init = node.Children[0]
	default:
		return nil
	}

	if init.Kind == ast.KindFunction || init.Kind == ast.KindClass {
		return init
	}
	return nil
}
