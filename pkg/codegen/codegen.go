// Package codegen is the Typed Code Generator, spec.md §4.3: it extends
// pkg/jsgen with the three things a plain JavaScript emitter cannot know
// about — attached comments, Closure-style inline casts, and the
// console-unfriendly bits of TypeScript emission (the synthetic
// UNDEFINED_TYPE token, a dropped class-field initializer, the
// constructor-call parens a JS emitter is free to omit but TypeScript
// style keeps).
//
// Grounded in shape on how pkg/validator/analyzer.go (in the teacher)
// re-derives a summary by walking a tree and consulting side data per
// node — the same shape this package uses to consult the comment
// registry per node instead of re-parsing comments from source.
package codegen

import (
	"github.com/gmoothart/clutzgo/pkg/ast"
	"github.com/gmoothart/clutzgo/pkg/jsgen"
)

// Print renders root (a SCRIPT or MODULE_BODY node) to source text,
// applying the Typed Code Generator's pre/override/post hooks over
// pkg/jsgen's base emission.
func Print(root *ast.Node, comments *ast.CommentRegistry) string {
	e := jsgen.NewEmitter()
	g := &generator{emitter: e, comments: comments}
	e.Pre = g.pre
	e.Post = g.post
	e.Emit(root)
	return e.String()
}

type generator struct {
	emitter  *jsgen.Emitter
	comments *ast.CommentRegistry
}

// pre implements spec.md §4.3's pre-hook and override steps. Returning
// true short-circuits pkg/jsgen's base emission for n entirely.
func (g *generator) pre(e *jsgen.Emitter, n *ast.Node) bool {
	if text, ok := g.comments.Get(n); ok {
		e.WriteRaw(text)
		e.WriteRaw("\n")
	}

	if n.Kind == ast.KindCast {
		g.emitCast(e, n)
		return true
	}

	if n.Kind == ast.KindUndefinedType {
		e.WriteRaw("undefined")
		return true
	}

	return false
}

// post implements spec.md §4.3's post-hook step.
func (g *generator) post(e *jsgen.Emitter, n *ast.Node) {
	switch n.Kind {
	case ast.KindMemberVariableDef:
		if len(n.Children) > 0 {
			e.WriteRaw(" = ")
			e.Emit(n.Children[0])
			e.WriteRaw(";")
		}
	case ast.KindNew:
		if len(n.Children) == 1 {
			e.WriteRaw("()")
		}
	}
}

// emitCast prints `(<expr> as <type>)`: spec.md §4.3's pre-hook
// short-circuit for CAST nodes, recursing back into the base emitter for
// the inner expression and declared type so either can itself be
// (recursively) a cast or a typed reference.
func (g *generator) emitCast(e *jsgen.Emitter, n *ast.Node) {
	e.WriteRaw("(")
	if len(n.Children) > 0 {
		e.Emit(n.Children[0])
	}
	e.WriteRaw(" as ")
	if n.DeclaredType != nil {
		e.Emit(n.DeclaredType)
	}
	e.WriteRaw(")")
}
