// Package ast defines the tagged-variant AST node that the type-annotation,
// style-fix, and code-generation passes operate on.
//
// Node is deliberately grammar-agnostic: it is not tied to any particular
// JavaScript parser's concrete syntax tree. A lowering layer (pkg/lowering)
// is responsible for producing a Node tree from real source text; everything
// downstream of that boundary only ever sees Node.
package ast

// Kind tags the syntactic or type-grammar role of a Node.
type Kind int

const (
	// KindUnknown is the zero value; no Node should carry it once built.
	KindUnknown Kind = iota

	// Declaration-kind tokens. VAR/LET/CONST tag a variable statement; the
	// binding kind itself (spec.md §4.2's var->let retoken) lives here.
	KindVar
	KindLet
	KindConst
	KindFunction
	KindClass

	// Expression/reference tokens.
	KindName
	KindGetProp
	KindNew
	KindThis
	KindNull

	// Structural tokens.
	KindMemberVariableDef
	KindCast
	KindImport
	KindImportSpecs
	KindImportSpec
	KindParamList
	KindRest
	KindScript
	KindModuleBody
	KindBlock
	KindEmpty

	// KindRaw is an escape hatch for a statement pkg/lowering didn't model
	// structurally: Payload holds its verbatim source text, and every pass
	// downstream simply leaves it untouched.
	KindRaw

	// Type-expression grammar tokens (spec.md §3), as parsed out of doc
	// comments before conversion.
	KindColon
	KindPipe
	KindBang
	KindQMark
	KindStar
	KindVoid
	KindString // payload holds the quoted name/primitive spelling
	KindLC     // record type literal: { field: T, ... }
	KindEllipsis
	KindEquals

	// Synthetic / typed-declaration tokens produced by conversion
	// (spec.md §3's "Typed-Declaration AST Node" sub-grammar).
	KindUnionType
	KindUndefinedType
	KindAnyType
	KindVoidType
	KindBooleanType
	KindNumberType
	KindStringType
	KindNullType
	KindNamedType
	KindArrayType
	KindRecordType
	KindFunctionType
)

var kindNames = map[Kind]string{
	KindUnknown:           "UNKNOWN",
	KindVar:                "VAR",
	KindLet:                "LET",
	KindConst:              "CONST",
	KindFunction:           "FUNCTION",
	KindClass:              "CLASS",
	KindName:               "NAME",
	KindGetProp:            "GETPROP",
	KindNew:                "NEW",
	KindThis:               "THIS",
	KindNull:               "NULL",
	KindMemberVariableDef:  "MEMBER_VARIABLE_DEF",
	KindCast:               "CAST",
	KindImport:             "IMPORT",
	KindImportSpecs:        "IMPORT_SPECS",
	KindImportSpec:         "IMPORT_SPEC",
	KindParamList:          "PARAM_LIST",
	KindRest:               "REST",
	KindScript:             "SCRIPT",
	KindModuleBody:         "MODULE_BODY",
	KindBlock:              "BLOCK",
	KindEmpty:              "EMPTY",
	KindRaw:                "RAW",
	KindColon:              "COLON",
	KindPipe:               "PIPE",
	KindBang:               "BANG",
	KindQMark:              "QMARK",
	KindStar:               "STAR",
	KindVoid:               "VOID",
	KindString:             "STRING",
	KindLC:                 "LC",
	KindEllipsis:           "ELLIPSIS",
	KindEquals:             "EQUALS",
	KindUnionType:          "UNION_TYPE",
	KindUndefinedType:      "UNDEFINED_TYPE",
	KindAnyType:            "ANY_TYPE",
	KindVoidType:           "VOID_TYPE",
	KindBooleanType:        "BOOLEAN_TYPE",
	KindNumberType:         "NUMBER_TYPE",
	KindStringType:         "STRING_TYPE",
	KindNullType:           "NULL_TYPE",
	KindNamedType:          "NAMED_TYPE",
	KindArrayType:          "ARRAY_TYPE",
	KindRecordType:         "RECORD_TYPE",
	KindFunctionType:       "FUNCTION_TYPE",
}

// String renders the token tag the way error messages and tests expect it.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "INVALID_KIND"
}

// Node is a polymorphic AST node. It plays the role of both the JavaScript
// AST node and the type-expression tree described in spec.md §3 — the two
// grammars share this type because the type-annotation pass builds one out
// of the other in place.
type Node struct {
	Kind     Kind
	Children []*Node

	// Payload carries the node's leaf text: an identifier, a STRING
	// literal's value, or similar.
	Payload string

	// SourceFile is the canonical name of the file this node belongs to.
	// Only meaningful on nodes reachable from a SCRIPT root.
	SourceFile string

	// Doc is the best available documentation info for this node, if any
	// was attached by the lowering layer from a leading comment.
	Doc *DocInfo

	// DeclaredType holds a Typed-Declaration Node (see Kind doc above)
	// once the type-annotation pass has converted Doc's type expression.
	DeclaredType *Node

	// Props is a bag of boolean/opaque node properties, e.g.
	// OptES6Typed, AccessModifier.
	Props map[string]any
}

// Well-known property keys stored in Node.Props.
const (
	PropOptES6Typed    = "OPT_ES6_TYPED"
	PropAccessModifier = "ACCESS_MODIFIER" // value: "private" | "protected"
)

// NewNode constructs a Node of the given kind with no children.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind}
}

// NewLeaf constructs a leaf Node carrying a payload string (e.g. an
// identifier or a quoted primitive name).
func NewLeaf(kind Kind, payload string) *Node {
	return &Node{Kind: kind, Payload: payload}
}

// NewParent constructs a Node of the given kind with the given children,
// in order.
func NewParent(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: append([]*Node(nil), children...)}
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// ReplaceChild swaps the child at index i for replacement, returning the
// node that was there before. Used by passes that rewrite a node in place
// of its parent's slot (spec.md §9's "replace in parent").
func (n *Node) ReplaceChild(i int, replacement *Node) *Node {
	old := n.Children[i]
	n.Children[i] = replacement
	return old
}

// IndexOfChild returns the index of child within n's children, or -1.
func (n *Node) IndexOfChild(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetProp sets a property on the node's bag, allocating it if necessary.
func (n *Node) SetProp(key string, value any) {
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[key] = value
}

// BoolProp reports a boolean property, defaulting to false if unset or of
// the wrong type.
func (n *Node) BoolProp(key string) bool {
	v, ok := n.Props[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// StringProp reports a string property, defaulting to "" if unset.
func (n *Node) StringProp(key string) string {
	v, ok := n.Props[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SnapshotChildren returns a shallow copy of n's children slice. Passes that
// detach/replace children while recursing must snapshot first — mutating a
// slice while ranging over it is unsafe (spec.md §9).
func (n *Node) SnapshotChildren() []*Node {
	return append([]*Node(nil), n.Children...)
}
