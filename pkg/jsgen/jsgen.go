// Package jsgen is the base JavaScript emitter spec.md §4.3 says
// pkg/codegen extends: it prints a pkg/ast.Node tree back to source text,
// understanding the typed-declaration nodes pkg/annotate/pkg/stylefix
// attach via Node.DeclaredType, Node.Props[ast.PropAccessModifier], and
// Node.Props[ast.PropOptES6Typed].
//
// No teacher file in this codebase ever emits source text — the teacher
// only parses — so this package is new code, written in the teacher's
// idiom: a small Emitter around a strings.Builder, one emit method per
// node kind, dispatched with a switch the same shape as
// pkg/parser.Language's.
package jsgen

import (
	"fmt"
	"strings"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

// Emitter prints a Node tree to JavaScript/TypeScript source text.
//
// Hook is called once per node, before Emitter's own base emission of that
// node; it is how pkg/codegen layers the Typed Code Generator's
// pre-hook/override/post-hook behavior on top without this package
// knowing anything about casts or comments. A Hook returning handled=true
// suppresses this package's base emission entirely for that node.
type Hook func(e *Emitter, n *ast.Node) (handled bool)

// PostHook runs after a node's base emission.
type PostHook func(e *Emitter, n *ast.Node)

// Emitter accumulates emitted text in a strings.Builder, following the
// teacher's preference for stdlib string building over a templating
// library anywhere lines are assembled programmatically.
type Emitter struct {
	b        strings.Builder
	Pre      Hook
	Post     PostHook
	indent   int
}

// NewEmitter returns an Emitter with no hooks installed.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// String returns everything emitted so far.
func (e *Emitter) String() string {
	return e.b.String()
}

// WriteRaw appends s directly to the emitted text, bypassing node
// dispatch and hooks entirely. pkg/codegen uses this for the literal
// fragments (comment text, cast syntax) its hooks contribute that aren't
// themselves Node values.
func (e *Emitter) WriteRaw(s string) {
	e.write(s)
}

func (e *Emitter) write(s string) {
	e.b.WriteString(s)
}

func (e *Emitter) writeIndent() {
	e.b.WriteString(strings.Repeat("  ", e.indent))
}

// Emit prints n and, recursively, everything it needs to represent it. It
// is exported so pkg/codegen's hooks can recurse back into base emission
// (e.g. the CAST pre-hook emits its inner expression via Emit).
func (e *Emitter) Emit(n *ast.Node) {
	if n == nil {
		return
	}
	if e.Pre != nil && e.Pre(e, n) {
		if e.Post != nil {
			e.Post(e, n)
		}
		return
	}

	switch n.Kind {
	case ast.KindScript, ast.KindModuleBody:
		e.emitBody(n)
	case ast.KindImport:
		e.emitImport(n)
	case ast.KindVar, ast.KindLet, ast.KindConst:
		e.emitDecl(n)
	case ast.KindFunction:
		e.emitFunction(n)
	case ast.KindClass:
		e.emitClass(n)
	case ast.KindMemberVariableDef:
		e.emitMemberVariableDef(n)
	case ast.KindName:
		e.emitName(n)
	case ast.KindRaw:
		e.write(n.Payload)
	case ast.KindNew:
		e.emitNew(n)
	default:
		e.emitType(n)
	}

	if e.Post != nil {
		e.Post(e, n)
	}
}

func (e *Emitter) emitBody(n *ast.Node) {
	for i, c := range n.Children {
		if i > 0 {
			e.write("\n")
		}
		e.writeIndent()
		e.Emit(c)
	}
}

func (e *Emitter) emitImport(n *ast.Node) {
	e.write("import {")
	if len(n.Children) > 0 {
		e.emitImportSpecs(n.Children[0])
	}
	e.write("} from '")
	e.write(n.Payload)
	e.write("';")
}

func (e *Emitter) emitImportSpecs(specs *ast.Node) {
	for i, spec := range specs.Children {
		if i > 0 {
			e.write(", ")
		}
		e.write(spec.Payload)
	}
}

// emitDecl prints `var|let|const <name>(: <type>)? (= <init>)?;`. The
// NAME child may itself carry children — its own initializer expression
// — which (per pkg/lowering/pkg/stylefix) is the grandchild shape.
func (e *Emitter) emitDecl(n *ast.Node) {
	e.write(keywordFor(n.Kind))
	e.write(" ")

	name := n.Children[0]
	e.write(name.Payload)
	e.emitOptionalTypeAnnotation(name)

	if len(name.Children) > 0 {
		e.write(" = ")
		e.Emit(name.Children[0])
	}
	e.write(";")
}

func keywordFor(k ast.Kind) string {
	switch k {
	case ast.KindConst:
		return "const"
	case ast.KindLet:
		return "let"
	default:
		return "var"
	}
}

func (e *Emitter) emitName(n *ast.Node) {
	e.write(n.Payload)
	e.emitOptionalTypeAnnotation(n)
	if len(n.Children) > 0 {
		e.write(" = ")
		e.Emit(n.Children[0])
	}
}

// emitOptionalTypeAnnotation prints the `?: <type>`/`: <type>` suffix a
// NAME carries once typed, per spec.md §6's optional-parameter convention.
func (e *Emitter) emitOptionalTypeAnnotation(n *ast.Node) {
	if n.DeclaredType == nil {
		return
	}
	if n.BoolProp(ast.PropOptES6Typed) {
		e.write("?")
	}
	e.write(": ")
	e.emitType(n.DeclaredType)
}

func (e *Emitter) emitFunction(n *ast.Node) {
	if vis := n.StringProp(ast.PropAccessModifier); vis != "" {
		e.write(vis)
		e.write(" ")
	}
	e.write("function ")
	e.write(n.Payload)
	e.write("(")
	if len(n.Children) > 0 {
		e.emitParamList(n.Children[0])
	}
	e.write(")")
	if n.DeclaredType != nil {
		e.write(": ")
		e.emitType(n.DeclaredType)
	}
	e.write(" ")
	if body := functionBody(n); body != nil {
		e.Emit(body)
	} else {
		e.write("{}")
	}
}

func functionBody(fn *ast.Node) *ast.Node {
	if len(fn.Children) < 2 {
		return nil
	}
	return fn.Children[1]
}

func (e *Emitter) emitParamList(paramList *ast.Node) {
	for i, p := range paramList.Children {
		if i > 0 {
			e.write(", ")
		}
		if p.Kind == ast.KindRest {
			e.write("...")
			e.write(p.Payload)
			if p.DeclaredType != nil {
				e.write(": ")
				e.emitType(p.DeclaredType)
			}
			continue
		}
		e.write(p.Payload)
		e.emitOptionalTypeAnnotation(p)
	}
}

func (e *Emitter) emitClass(n *ast.Node) {
	e.write("class ")
	e.write(n.Payload)
	e.write(" {")
	e.indent++
	for _, member := range n.Children {
		e.write("\n")
		e.writeIndent()
		e.Emit(member)
	}
	e.indent--
	if len(n.Children) > 0 {
		e.write("\n")
		e.writeIndent()
	}
	e.write("}")
}

// emitMemberVariableDef prints `<vis>? <name>: <type>`. Its optional
// `= <init>;` suffix (including the trailing semicolon) is appended by
// pkg/codegen's post-hook (spec.md §4.3) — the base emitter here only
// terminates the declaration itself when there is no initializer to
// follow, so a field with one never gets a `;` spliced in before its
// `= <init>`.
func (e *Emitter) emitMemberVariableDef(n *ast.Node) {
	if vis := n.StringProp(ast.PropAccessModifier); vis != "" {
		e.write(vis)
		e.write(" ")
	}
	e.write(n.Payload)
	e.emitOptionalTypeAnnotation(n)
	if len(n.Children) == 0 {
		e.write(";")
	}
}

// emitNew prints `new <ctor>` with no parens — pkg/codegen's NEW post-hook
// appends `()` per spec.md §4.3.
func (e *Emitter) emitNew(n *ast.Node) {
	e.write("new ")
	if len(n.Children) > 0 {
		e.Emit(n.Children[0])
	}
}

// emitType prints a Typed-Declaration Node (spec.md §3) as a TypeScript
// type expression.
func (e *Emitter) emitType(n *ast.Node) {
	switch n.Kind {
	case ast.KindAnyType:
		e.write("any")
	case ast.KindVoidType:
		e.write("void")
	case ast.KindUndefinedType:
		e.write("undefined")
	case ast.KindBooleanType:
		e.write("boolean")
	case ast.KindNumberType:
		e.write("number")
	case ast.KindStringType:
		e.write("string")
	case ast.KindNullType:
		e.write("null")
	case ast.KindNamedType:
		e.emitNamedType(n)
	case ast.KindArrayType:
		e.emitArrayType(n)
	case ast.KindRecordType:
		e.emitRecordType(n)
	case ast.KindUnionType:
		e.emitUnionType(n)
	case ast.KindFunctionType:
		e.emitFunctionType(n)
	default:
		e.write(fmt.Sprintf("/* unsupported type %s */", n.Kind))
	}
}

func (e *Emitter) emitNamedType(n *ast.Node) {
	e.write(n.Payload)
	if len(n.Children) > 1 {
		e.write("<")
		for i, arg := range n.Children[1:] {
			if i > 0 {
				e.write(", ")
			}
			e.emitType(arg)
		}
		e.write(">")
	}
}

func (e *Emitter) emitArrayType(n *ast.Node) {
	elem := n.Children[0]
	if elem.Kind == ast.KindUnionType || elem.Kind == ast.KindFunctionType {
		e.write("(")
		e.emitType(elem)
		e.write(")[]")
		return
	}
	e.emitType(elem)
	e.write("[]")
}

func (e *Emitter) emitRecordType(n *ast.Node) {
	e.write("{")
	for i, field := range n.Children {
		if i > 0 {
			e.write(", ")
		}
		e.write(field.Payload)
		if len(field.Children) > 0 {
			e.write(": ")
			e.emitType(field.Children[0])
		}
	}
	e.write("}")
}

func (e *Emitter) emitUnionType(n *ast.Node) {
	for i, member := range n.Children {
		if i > 0 {
			e.write("|")
		}
		e.emitType(member)
	}
}

// emitFunctionType prints a function-type annotation: return type first
// child, params following, per the FUNCTION_TYPE node convention
// pkg/annotate.ConvertType and pkg/stylefix.spliceFunctionType share.
func (e *Emitter) emitFunctionType(n *ast.Node) {
	e.write("(")
	for i, p := range n.Children[1:] {
		if i > 0 {
			e.write(", ")
		}
		if p.Kind == ast.KindRest {
			e.write("...")
			e.write(p.Payload)
			if len(p.Children) > 0 {
				e.write(": ")
				e.emitType(p.Children[0])
			}
			continue
		}
		e.write(p.Payload)
		if len(p.Children) > 0 {
			e.write(": ")
			e.emitType(p.Children[0])
		}
	}
	e.write(") => ")
	e.emitType(n.Children[0])
}
