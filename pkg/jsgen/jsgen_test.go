package jsgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

func TestEmitUntypedVarDeclaration(t *testing.T) {
	num := ast.NewLeaf(ast.KindRaw, "4")
	name := ast.NewParent(ast.KindName, num)
	name.Payload = "x"
	decl := ast.NewParent(ast.KindVar, name)

	e := NewEmitter()
	e.Emit(decl)
	assert.Equal(t, "var x = 4;", e.String())
}

func TestEmitTypedConstDeclaration(t *testing.T) {
	num := ast.NewLeaf(ast.KindRaw, "4")
	name := ast.NewParent(ast.KindName, num)
	name.Payload = "x"
	name.DeclaredType = ast.NewNode(ast.KindNumberType)
	decl := ast.NewParent(ast.KindConst, name)

	e := NewEmitter()
	e.Emit(decl)
	assert.Equal(t, "const x: number = 4;", e.String())
}

func TestEmitFunctionWithRestParam(t *testing.T) {
	px := ast.NewLeaf(ast.KindName, "x")
	px.DeclaredType = ast.NewNode(ast.KindNumberType)

	prest := ast.NewLeaf(ast.KindRest, "rest")
	prest.DeclaredType = ast.NewParent(ast.KindArrayType, ast.NewNode(ast.KindStringType))

	paramList := ast.NewParent(ast.KindParamList, px, prest)
	body := ast.NewLeaf(ast.KindRaw, "{\n  return x;\n}")
	fn := ast.NewParent(ast.KindFunction, paramList, body)
	fn.Payload = "f"
	fn.DeclaredType = ast.NewNode(ast.KindNumberType)

	e := NewEmitter()
	e.Emit(fn)
	assert.Equal(t, "function f(x: number, ...rest: string[]): number {\n  return x;\n}", e.String())
}

func TestEmitOptionalParam(t *testing.T) {
	p := ast.NewLeaf(ast.KindName, "x")
	p.DeclaredType = ast.NewNode(ast.KindStringType)
	p.SetProp(ast.PropOptES6Typed, true)
	paramList := ast.NewParent(ast.KindParamList, p)
	fn := ast.NewParent(ast.KindFunction, paramList)
	fn.Payload = "f"

	e := NewEmitter()
	e.Emit(fn)
	assert.Equal(t, "function f(x?: string) {}", e.String())
}

func TestEmitClassWithFieldAndMethod(t *testing.T) {
	field := ast.NewLeaf(ast.KindMemberVariableDef, "count")
	field.DeclaredType = ast.NewNode(ast.KindNumberType)

	methodParams := ast.NewNode(ast.KindParamList)
	method := ast.NewParent(ast.KindFunction, methodParams)
	method.Payload = "render"

	class := ast.NewParent(ast.KindClass, field, method)
	class.Payload = "Widget"

	e := NewEmitter()
	e.Emit(class)
	assert.Equal(t, "class Widget {\n  count: number;\n  function render() {}\n}", e.String())
}

func TestEmitImport(t *testing.T) {
	spec := ast.NewLeaf(ast.KindImportSpec, "Widget")
	specs := ast.NewParent(ast.KindImportSpecs, spec)
	imp := ast.NewParent(ast.KindImport, specs)
	imp.Payload = "./widget"

	e := NewEmitter()
	e.Emit(imp)
	assert.Equal(t, "import {Widget} from './widget';", e.String())
}

func TestEmitUnionType(t *testing.T) {
	union := ast.NewParent(ast.KindUnionType, ast.NewNode(ast.KindStringType), ast.NewNode(ast.KindNumberType), ast.NewNode(ast.KindNullType))
	e := NewEmitter()
	e.emitType(union)
	assert.Equal(t, "string|number|null", e.String())
}

func TestEmitRecordType(t *testing.T) {
	field := ast.NewLeaf(ast.KindColon, "a")
	field.AddChild(ast.NewNode(ast.KindStringType))
	untyped := ast.NewLeaf(ast.KindColon, "b")
	record := ast.NewParent(ast.KindRecordType, field, untyped)

	e := NewEmitter()
	e.emitType(record)
	assert.Equal(t, "{a: string, b}", e.String())
}

func TestEmitNamedTypeWithArgs(t *testing.T) {
	named := ast.NewParent(ast.KindNamedType, ast.NewLeaf(ast.KindNamedType, "Map"), ast.NewNode(ast.KindStringType), ast.NewNode(ast.KindNumberType))
	named.Payload = "Map"

	e := NewEmitter()
	e.emitType(named)
	assert.Equal(t, "Map<string, number>", e.String())
}
