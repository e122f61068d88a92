package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmoothart/clutzgo/pkg/ast"
	"github.com/gmoothart/clutzgo/pkg/docparser"
)

func parseAndConvert(t *testing.T, src string, isReturnType bool, rw Rewriter) *ast.Node {
	t.Helper()
	raw, err := docparser.ParseTypeExpression(src)
	require.NoError(t, err)
	conv, err := ConvertType(raw, isReturnType, rw)
	require.NoError(t, err)
	return conv
}

func TestConvertPrimitives(t *testing.T) {
	assert.Equal(t, ast.KindBooleanType, parseAndConvert(t, "boolean", false, nil).Kind)
	assert.Equal(t, ast.KindNumberType, parseAndConvert(t, "number", false, nil).Kind)
	assert.Equal(t, ast.KindStringType, parseAndConvert(t, "string", false, nil).Kind)
	assert.Equal(t, ast.KindAnyType, parseAndConvert(t, "*", false, nil).Kind)
}

func TestConvertVoidByPosition(t *testing.T) {
	assert.Equal(t, ast.KindVoidType, parseAndConvert(t, "void", true, nil).Kind)
	assert.Equal(t, ast.KindUndefinedType, parseAndConvert(t, "void", false, nil).Kind)
	assert.Equal(t, ast.KindVoidType, parseAndConvert(t, "undefined", true, nil).Kind)
}

func TestConvertBangUnwraps(t *testing.T) {
	n := parseAndConvert(t, "!Foo", false, nil)
	assert.Equal(t, ast.KindNamedType, n.Kind)
	assert.Equal(t, "Foo", n.Payload)
}

func TestConvertBareQMarkIsAny(t *testing.T) {
	assert.Equal(t, ast.KindAnyType, parseAndConvert(t, "?", false, nil).Kind)
}

func TestConvertNullableUnion(t *testing.T) {
	n := parseAndConvert(t, "?string", false, nil)
	require.Equal(t, ast.KindUnionType, n.Kind)
	require.Len(t, n.Children, 2)
	assert.Equal(t, ast.KindNullType, n.Children[0].Kind)
	assert.Equal(t, ast.KindStringType, n.Children[1].Kind)
}

func TestConvertArray(t *testing.T) {
	n := parseAndConvert(t, "Array<string>", false, nil)
	require.Equal(t, ast.KindArrayType, n.Kind)
	require.Len(t, n.Children, 1)
	assert.Equal(t, ast.KindStringType, n.Children[0].Kind)
}

func TestConvertBareArrayDefaultsToAny(t *testing.T) {
	n := parseAndConvert(t, "Array", false, nil)
	require.Equal(t, ast.KindArrayType, n.Kind)
	assert.Equal(t, ast.KindAnyType, n.Children[0].Kind)
}

func TestConvertParameterizedNamedType(t *testing.T) {
	n := parseAndConvert(t, "Map<string, number>", false, nil)
	require.Equal(t, ast.KindNamedType, n.Kind)
	assert.Equal(t, "Map", n.Payload)
	require.Len(t, n.Children, 3) // the base NamedType leaf + 2 args
	assert.Equal(t, ast.KindStringType, n.Children[1].Kind)
	assert.Equal(t, ast.KindNumberType, n.Children[2].Kind)
}

func TestConvertRecord(t *testing.T) {
	n := parseAndConvert(t, `{a: string, d}`, false, nil)
	require.Equal(t, ast.KindRecordType, n.Kind)
	require.Len(t, n.Children, 2)
	assert.Equal(t, "a", n.Children[0].Payload)
	require.Len(t, n.Children[0].Children, 1)
	assert.Equal(t, ast.KindStringType, n.Children[0].Children[0].Kind)

	assert.Equal(t, "d", n.Children[1].Payload)
	assert.Empty(t, n.Children[1].Children)
}

func TestConvertFunctionType(t *testing.T) {
	// The return-type annotation is the function-type node's FIRST child,
	// params follow in order — the convention spec.md §4.2's lift step
	// relies on when splicing a function type back onto a lifted function.
	n := parseAndConvert(t, "function(number, string=): boolean", false, nil)
	require.Equal(t, ast.KindFunctionType, n.Kind)
	require.Len(t, n.Children, 3)

	ret := n.Children[0]
	assert.Equal(t, ast.KindBooleanType, ret.Kind)

	p1 := n.Children[1]
	assert.Equal(t, "p1", p1.Payload)
	assert.Equal(t, ast.KindNumberType, p1.Children[0].Kind)

	p2 := n.Children[2]
	assert.True(t, p2.BoolProp(ast.PropOptES6Typed))
	assert.Equal(t, ast.KindStringType, p2.Children[0].Kind)
}

func TestConvertFunctionTypeWithRest(t *testing.T) {
	n := parseAndConvert(t, "function(...string): number", false, nil)
	require.Len(t, n.Children, 2)
	assert.Equal(t, ast.KindNumberType, n.Children[0].Kind) // return type first

	rest := n.Children[1]
	assert.Equal(t, ast.KindRest, rest.Kind)
	require.Equal(t, ast.KindArrayType, rest.Children[0].Kind)
	assert.Equal(t, ast.KindStringType, rest.Children[0].Children[0].Kind)
}

func TestConvertFunctionDropsNewAndThis(t *testing.T) {
	n := parseAndConvert(t, "function(new: Foo, this: Bar, number): void", false, nil)
	require.Len(t, n.Children, 2) // return type + the number param
	assert.Equal(t, ast.KindVoidType, n.Children[0].Kind)
	assert.Equal(t, ast.KindNumberType, n.Children[1].Children[0].Kind)
}

func TestConvertUnionDedupesAndKeepsNullAtFirstOccurrence(t *testing.T) {
	n := parseAndConvert(t, "(string|number|string|null)", false, nil)
	require.Equal(t, ast.KindUnionType, n.Kind)
	require.Len(t, n.Children, 3)
	assert.Equal(t, ast.KindStringType, n.Children[0].Kind)
	assert.Equal(t, ast.KindNumberType, n.Children[1].Kind)
	assert.Equal(t, ast.KindNullType, n.Children[2].Kind)
}

func TestConvertUnionOfOneCollapses(t *testing.T) {
	n := parseAndConvert(t, "(string|string)", false, nil)
	assert.Equal(t, ast.KindStringType, n.Kind)
}

func TestConvertEllipsisYieldsArray(t *testing.T) {
	raw, err := docparser.ParseTypeExpression("...number")
	require.NoError(t, err)
	conv, err := ConvertType(raw, false, nil)
	require.NoError(t, err)
	require.Equal(t, ast.KindArrayType, conv.Kind)
	assert.Equal(t, ast.KindNumberType, conv.Children[0].Kind)
}

func TestConvertEmptyYieldsNil(t *testing.T) {
	raw, err := docparser.ParseTypeExpression("")
	require.NoError(t, err)
	conv, err := ConvertType(raw, false, nil)
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestConvertNilNodeYieldsNil(t *testing.T) {
	conv, err := ConvertType(nil, false, nil)
	require.NoError(t, err)
	assert.Nil(t, conv)
}

// stubRewriter prefixes "R_" to whatever name it's given, just to prove
// ConvertType actually threads named-type references through a Rewriter.
type stubRewriter struct{}

func (stubRewriter) Rewrite(name string) string { return "R_" + name }

func TestConvertNamedTypeGoesThroughRewriter(t *testing.T) {
	n := parseAndConvert(t, "ns.sub.Widget", false, stubRewriter{})
	assert.Equal(t, "R_ns.sub.Widget", n.Payload)
}
