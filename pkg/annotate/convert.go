// Package annotate implements the Type-Annotation Pass, spec.md §4.1: it
// walks the AST, converts doc-comment type expressions into the
// typed-declaration sub-grammar, and rewrites cross-file type references
// into module-local names backed by synthesized imports.
package annotate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

// ErrUnsupportedType is returned (wrapped) when the type converter
// encounters a token outside its grammar table — spec.md §7's
// "Unsupported type construct" error kind.
var ErrUnsupportedType = fmt.Errorf("unsupported type construct")

// Rewriter resolves a dotted type name to its module-local spelling,
// queuing an import as a side effect when necessary. It is the seam
// between type conversion (this file) and the cross-file bookkeeping in
// rewrite.go — convert() never touches the Type Rewrite Table or Pending
// Imports directly.
type Rewriter interface {
	Rewrite(name string) string
}

// ConvertType implements spec.md §4.1's type-expression conversion table.
// isReturnType distinguishes the VOID/"void"/"undefined" emission rule
// (spec.md P5). A nil input (no doc-comment type) or an EMPTY root both
// yield a nil *ast.Node, meaning "no annotation".
func ConvertType(n *ast.Node, isReturnType bool, rw Rewriter) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case ast.KindEmpty:
		return nil, nil

	case ast.KindStar:
		return ast.NewNode(ast.KindAnyType), nil

	case ast.KindVoid:
		return voidOrUndefined(isReturnType), nil

	case ast.KindBang:
		// Non-null is TypeScript's default: drop the marker.
		return ConvertType(n.Children[0], isReturnType, rw)

	case ast.KindQMark:
		if len(n.Children) == 0 {
			// Bare "?" → any.
			return ast.NewNode(ast.KindAnyType), nil
		}
		inner, err := ConvertType(n.Children[0], isReturnType, rw)
		if err != nil {
			return nil, err
		}
		return buildUnion([]*ast.Node{ast.NewNode(ast.KindNullType), inner}), nil

	case ast.KindString:
		return convertNamed(n, isReturnType, rw)

	case ast.KindLC:
		return convertRecord(n, rw)

	case ast.KindPipe:
		return convertUnion(n, isReturnType, rw)

	case ast.KindEllipsis:
		inner, err := ConvertType(n.Children[0], false, rw)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			inner = ast.NewNode(ast.KindAnyType)
		}
		return ast.NewParent(ast.KindArrayType, inner), nil

	case ast.KindEquals:
		// Optional-ness is carried on the param, not the type.
		return ConvertType(n.Children[0], isReturnType, rw)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, n.Kind)
	}
}

func voidOrUndefined(isReturnType bool) *ast.Node {
	if isReturnType {
		return ast.NewNode(ast.KindVoidType)
	}
	return ast.NewNode(ast.KindUndefinedType)
}

func convertNamed(n *ast.Node, isReturnType bool, rw Rewriter) (*ast.Node, error) {
	name := n.Payload

	switch name {
	case "boolean":
		return ast.NewNode(ast.KindBooleanType), nil
	case "number":
		return ast.NewNode(ast.KindNumberType), nil
	case "string":
		return ast.NewNode(ast.KindStringType), nil
	case "null":
		return ast.NewNode(ast.KindNullType), nil
	case "undefined", "void":
		return voidOrUndefined(isReturnType), nil
	case "function":
		return convertFunction(n, rw)
	}

	// Named / parameterized type.
	var typeArgs []*ast.Node
	if len(n.Children) == 1 && n.Children[0].Kind == ast.KindBlock {
		typeArgs = n.Children[0].Children
	}

	rewritten := name
	if rw != nil {
		rewritten = rw.Rewrite(name)
	}

	if name == "Array" {
		if len(typeArgs) == 0 {
			return ast.NewParent(ast.KindArrayType, ast.NewNode(ast.KindAnyType)), nil
		}
		elem, err := ConvertType(typeArgs[0], false, rw)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			elem = ast.NewNode(ast.KindAnyType)
		}
		return ast.NewParent(ast.KindArrayType, elem), nil
	}

	named := ast.NewLeaf(ast.KindNamedType, rewritten)
	if len(typeArgs) == 0 {
		return named, nil
	}

	result := ast.NewParent(ast.KindNamedType, named)
	result.Payload = rewritten
	for _, arg := range typeArgs {
		converted, err := ConvertType(arg, false, rw)
		if converted == nil || err != nil {
			if err != nil {
				return nil, err
			}
			continue // drop nulls, per spec.md §4.1's table
		}
		result.AddChild(converted)
	}
	return result, nil
}

func convertRecord(n *ast.Node, rw Rewriter) (*ast.Node, error) {
	record := ast.NewNode(ast.KindRecordType)
	for _, field := range n.Children {
		key := strings.Trim(field.Children[0].Payload, `"'`)
		valueExpr := field.Children[1]

		var converted *ast.Node
		if valueExpr.Kind != ast.KindEmpty {
			v, err := ConvertType(valueExpr, false, rw)
			if err != nil {
				return nil, err
			}
			converted = v
		}

		entry := ast.NewLeaf(ast.KindColon, key)
		if converted != nil {
			entry.AddChild(converted)
		}
		record.AddChild(entry)
	}
	return record, nil
}

// convertFunction builds a FUNCTION_TYPE node with the return-type
// annotation as its FIRST child and per-parameter annotations following,
// in order — the convention spec.md §4.2's lift step relies on ("first
// child of the function-type node becomes the function's return-type
// annotation; subsequent children become per-parameter annotations").
func convertFunction(n *ast.Node, rw Rewriter) (*ast.Node, error) {
	fn := ast.NewNode(ast.KindFunctionType)

	if len(n.Children) == 0 {
		fn.AddChild(ast.NewNode(ast.KindAnyType)) // return type, defaulted
		return fn, nil
	}

	params := n.Children[:len(n.Children)-1]
	returnExpr := n.Children[len(n.Children)-1]

	ret, err := ConvertType(returnExpr, true, rw)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		ret = ast.NewNode(ast.KindAnyType)
	}
	fn.AddChild(ret)

	paramIndex := 1
	for _, p := range params {
		switch p.Kind {
		case ast.KindEllipsis:
			inner, err := ConvertType(p.Children[0], false, rw)
			if err != nil {
				return nil, err
			}
			if inner == nil {
				inner = ast.NewNode(ast.KindAnyType)
			}
			rest := ast.NewParent(ast.KindRest, ast.NewParent(ast.KindArrayType, inner))
			rest.Payload = fmt.Sprintf("p%d", paramIndex)
			fn.AddChild(rest)

		case ast.KindEquals:
			inner, err := ConvertType(p.Children[0], false, rw)
			if err != nil {
				return nil, err
			}
			if inner == nil {
				inner = ast.NewNode(ast.KindAnyType)
			}
			opt := ast.NewParent(ast.KindName, inner)
			opt.Payload = fmt.Sprintf("p%d", paramIndex)
			opt.SetProp(ast.PropOptES6Typed, true)
			fn.AddChild(opt)

		default:
			conv, err := ConvertType(p, false, rw)
			if err != nil {
				return nil, err
			}
			if conv == nil {
				conv = ast.NewNode(ast.KindAnyType)
			}
			plain := ast.NewParent(ast.KindName, conv)
			plain.Payload = fmt.Sprintf("p%d", paramIndex)
			fn.AddChild(plain)
		}
		paramIndex++
	}

	return fn, nil
}

func convertUnion(n *ast.Node, isReturnType bool, rw Rewriter) (*ast.Node, error) {
	members := make([]*ast.Node, 0, len(n.Children))
	for _, c := range n.Children {
		converted, err := ConvertType(c, isReturnType, rw)
		if err != nil {
			return nil, err
		}
		if converted != nil {
			members = append(members, converted)
		}
	}
	return buildUnion(members), nil
}

// buildUnion flattens nested unions, deduplicates structurally-identical
// members, keeps exactly one null (at its first-seen position — spec.md
// §9's open question, resolved as first-occurrence order), and collapses
// to a bare type when 0 or 1 distinct members remain (spec.md §4.1's PIPE
// row: "0 → null, 1 → inner, else union").
func buildUnion(members []*ast.Node) *ast.Node {
	flat := make([]*ast.Node, 0, len(members))
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.Kind == ast.KindUnionType {
			flat = append(flat, m.Children...)
		} else {
			flat = append(flat, m)
		}
	}

	seen := make(map[string]bool)
	deduped := make([]*ast.Node, 0, len(flat))
	for _, m := range flat {
		key := canonicalKey(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, m)
	}

	switch len(deduped) {
	case 0:
		return ast.NewNode(ast.KindNullType)
	case 1:
		return deduped[0]
	default:
		return ast.NewParent(ast.KindUnionType, deduped...)
	}
}

// canonicalKey serializes a converted type node into a string unique up to
// structural equality, used only to dedupe union members.
func canonicalKey(n *ast.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeKey(&b, n)
	return b.String()
}

func writeKey(b *strings.Builder, n *ast.Node) {
	b.WriteString(n.Kind.String())
	if n.Payload != "" {
		b.WriteByte(':')
		b.WriteString(n.Payload)
	}
	if len(n.Children) > 0 {
		b.WriteByte('(')
		keys := make([]string, len(n.Children))
		for i, c := range n.Children {
			var cb strings.Builder
			writeKey(&cb, c)
			keys[i] = cb.String()
		}
		if n.Kind == ast.KindRecordType {
			sort.Strings(keys)
		}
		b.WriteString(strings.Join(keys, ","))
		b.WriteByte(')')
	}
}
