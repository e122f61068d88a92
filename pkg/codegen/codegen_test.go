package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

func TestPrintAttachesLeadingComment(t *testing.T) {
	num := ast.NewLeaf(ast.KindRaw, "4")
	name := ast.NewParent(ast.KindName, num)
	name.Payload = "x"
	decl := ast.NewParent(ast.KindVar, name)
	body := ast.NewParent(ast.KindModuleBody, decl)

	comments := ast.NewCommentRegistry()
	comments.Set(decl, "/** @type {number} */")

	out := Print(body, comments)
	assert.Equal(t, "/** @type {number} */\nvar x = 4;", out)
}

func TestPrintCastExpression(t *testing.T) {
	inner := ast.NewLeaf(ast.KindRaw, "x")
	cast := ast.NewParent(ast.KindCast, inner)
	cast.DeclaredType = ast.NewNode(ast.KindNumberType)

	out := Print(cast, ast.NewCommentRegistry())
	assert.Equal(t, "(x as number)", out)
}

func TestPrintUndefinedTypeOverride(t *testing.T) {
	out := Print(ast.NewNode(ast.KindUndefinedType), ast.NewCommentRegistry())
	assert.Equal(t, "undefined", out)
}

func TestPrintMemberVariableDefAppendsInitializer(t *testing.T) {
	init := ast.NewLeaf(ast.KindRaw, "0")
	field := ast.NewParent(ast.KindMemberVariableDef, init)
	field.Payload = "count"
	field.DeclaredType = ast.NewNode(ast.KindNumberType)

	out := Print(field, ast.NewCommentRegistry())
	assert.Equal(t, "count: number = 0;", out)
}

func TestPrintNewAppendsParens(t *testing.T) {
	ctor := ast.NewLeaf(ast.KindRaw, "Widget")
	n := ast.NewParent(ast.KindNew, ctor)

	out := Print(n, ast.NewCommentRegistry())
	assert.Equal(t, "new Widget()", out)
}

func TestPrintNestedCastInsideDeclaration(t *testing.T) {
	inner := ast.NewLeaf(ast.KindRaw, "value")
	cast := ast.NewParent(ast.KindCast, inner)
	cast.DeclaredType = ast.NewNode(ast.KindStringType)

	name := ast.NewParent(ast.KindName, cast)
	name.Payload = "x"
	decl := ast.NewParent(ast.KindConst, name)

	out := Print(decl, ast.NewCommentRegistry())
	assert.Equal(t, "const x = (value as string);", out)
}
