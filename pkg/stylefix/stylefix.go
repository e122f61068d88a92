// Package stylefix implements the Style-Fix Pass, spec.md §4.2: a
// top-down walk (each declaration is rewritten before its children are
// visited) that retokens `var` to `let`, lifts a class or function
// literal bound to a declaration into a direct declaration, and splices a
// lifted function's declared function-type annotation back onto its
// parameters and return position.
//
// Grounded in traversal shape on the teacher's pkg/scanner/merge.go, which
// rewrites a tree in place by snapshotting a node's children before
// replacing any of them mid-walk.
package stylefix

import (
	"fmt"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

// ErrArityMismatch is returned by spliceFunctionType when a const function
// binding's declared function type has a different parameter count than
// the literal. liftFunction treats it as "skip the lift" (spec.md §7's
// "Inconsistent parameter arity" policy), so Apply never returns it.
var ErrArityMismatch = fmt.Errorf("declared function type arity does not match function literal")

// Apply runs the pass over root in place.
func Apply(root *ast.Node, comments *ast.CommentRegistry) error {
	return fixChildren(root, comments)
}

func fixChildren(n *ast.Node, comments *ast.CommentRegistry) error {
	children := n.SnapshotChildren()
	for i, c := range children {
		fixed, err := fixDecl(c, comments)
		if err != nil {
			return err
		}
		if fixed != c {
			n.ReplaceChild(i, fixed)
		}
		if err := fixChildren(fixed, comments); err != nil {
			return err
		}
	}
	return nil
}

// fixDecl examines one declaration node and returns either it unchanged,
// or its replacement (the lifted class/function) if the lift rule fires.
//
// Declaration shape: VAR/LET/CONST has exactly one child, a NAME, whose
// own (optional) child is the initializer expression — this is the
// "grandchild" spec.md §8 Scenario 1's footnote refers to.
func fixDecl(n *ast.Node, comments *ast.CommentRegistry) (*ast.Node, error) {
	if n.Kind != ast.KindVar && n.Kind != ast.KindLet && n.Kind != ast.KindConst {
		return n, nil
	}
	if len(n.Children) != 1 || n.Children[0].Kind != ast.KindName {
		return n, nil
	}

	name := n.Children[0]
	if len(name.Children) == 0 {
		return n, nil // no initializer: nothing to retoken or lift
	}
	init := name.Children[0]

	// var -> let retoken, fused with lift eligibility per spec.md §8
	// Scenario 1's footnote: only when the initializer is itself a class
	// or function literal. A plain-initializer var is left as VAR.
	if n.Kind == ast.KindVar && (init.Kind == ast.KindClass || init.Kind == ast.KindFunction) {
		n.Kind = ast.KindLet
	}

	switch init.Kind {
	case ast.KindClass:
		// let/const x = class {...} lifts unconditionally.
		if n.Kind == ast.KindLet || n.Kind == ast.KindConst {
			return liftClass(n, name, init, comments), nil
		}

	case ast.KindFunction:
		// Functions bound under var/let are not lifted — policy (spec.md
		// §4.2's last sentence).
		if n.Kind == ast.KindConst {
			return liftFunction(n, name, init, comments)
		}
	}

	return n, nil
}

func liftClass(decl, name, class *ast.Node, comments *ast.CommentRegistry) *ast.Node {
	class.Payload = name.Payload
	comments.Move(decl, class)
	return class
}

// liftFunction lifts a const-bound function literal, splicing its
// declared function-type annotation (if any) onto the function first.
// Per spec.md §4.2(b): lift when the binding is untyped, or when its
// declared type is a function type whose parameter arity matches the
// literal's. A typed mismatch skips the lift and leaves the code
// unchanged (spec.md §7's "Inconsistent parameter arity" policy).
func liftFunction(decl, name, fn *ast.Node, comments *ast.CommentRegistry) (*ast.Node, error) {
	declared := name.DeclaredType

	if declared != nil {
		if declared.Kind != ast.KindFunctionType {
			return decl, nil
		}
		if err := spliceFunctionType(fn, declared); err != nil {
			if err == ErrArityMismatch {
				return decl, nil
			}
			return nil, err
		}
	}

	name.DeclaredType = nil // don't emit the binding's own type twice
	fn.Payload = name.Payload
	comments.Move(decl, fn)
	return fn, nil
}

// spliceFunctionType attaches ft's return-type (its first child) to fn as
// fn's own DeclaredType, and each subsequent child as the per-parameter
// annotation of fn's matching PARAM_LIST entry, in order. A REST
// parameter-type child is renamed to the underlying parameter's
// identifier and defaulted to any[] if it has no inner element type.
func spliceFunctionType(fn, ft *ast.Node) error {
	if len(ft.Children) == 0 {
		return ErrArityMismatch
	}
	returnType := ft.Children[0]
	paramTypes := ft.Children[1:]

	paramList := findParamList(fn)
	var params []*ast.Node
	if paramList != nil {
		params = paramList.Children
	}
	if len(paramTypes) != len(params) {
		return ErrArityMismatch
	}

	fn.DeclaredType = returnType

	for i, pt := range paramTypes {
		param := params[i]
		switch pt.Kind {
		case ast.KindRest:
			// The function-type's REST child carries only a placeholder
			// identifier; param already carries the real one (spec.md
			// §4.2: "rename its inner identifier to the original
			// parameter's name") — so param.Payload is left untouched,
			// only its Kind and declared type change.
			param.Kind = ast.KindRest
			if len(pt.Children) > 0 {
				param.DeclaredType = pt.Children[0]
			} else {
				param.DeclaredType = ast.NewParent(ast.KindArrayType, ast.NewNode(ast.KindAnyType))
			}
		default:
			if len(pt.Children) > 0 {
				param.DeclaredType = pt.Children[0]
			}
			if pt.BoolProp(ast.PropOptES6Typed) {
				param.SetProp(ast.PropOptES6Typed, true)
			}
		}
	}
	return nil
}

func findParamList(fn *ast.Node) *ast.Node {
	for _, c := range fn.Children {
		if c.Kind == ast.KindParamList {
			return c
		}
	}
	return nil
}
