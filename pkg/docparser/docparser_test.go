package docparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

func TestParseTypeExpressionPrimitives(t *testing.T) {
	n, err := ParseTypeExpression("number")
	require.NoError(t, err)
	assert.Equal(t, ast.KindString, n.Kind)
	assert.Equal(t, "number", n.Payload)
}

func TestParseTypeExpressionNullable(t *testing.T) {
	n, err := ParseTypeExpression("?string")
	require.NoError(t, err)
	require.Equal(t, ast.KindQMark, n.Kind)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "string", n.Children[0].Payload)
}

func TestParseTypeExpressionBang(t *testing.T) {
	n, err := ParseTypeExpression("!Foo")
	require.NoError(t, err)
	require.Equal(t, ast.KindBang, n.Kind)
	assert.Equal(t, "Foo", n.Children[0].Payload)
}

func TestParseTypeExpressionUnion(t *testing.T) {
	n, err := ParseTypeExpression("(string|number|string)")
	require.NoError(t, err)
	require.Equal(t, ast.KindPipe, n.Kind)
	require.Len(t, n.Children, 3)
}

func TestParseTypeExpressionArray(t *testing.T) {
	n, err := ParseTypeExpression("Array<string>")
	require.NoError(t, err)
	assert.Equal(t, "Array", n.Payload)
	require.Len(t, n.Children, 1)
	require.Equal(t, ast.KindBlock, n.Children[0].Kind)
	assert.Equal(t, "string", n.Children[0].Children[0].Payload)
}

func TestParseTypeExpressionRecord(t *testing.T) {
	n, err := ParseTypeExpression(`{a: string, 'b-c': number, d}`)
	require.NoError(t, err)
	require.Equal(t, ast.KindLC, n.Kind)
	require.Len(t, n.Children, 3)

	assert.Equal(t, "a", n.Children[0].Children[0].Payload)
	assert.Equal(t, "string", n.Children[0].Children[1].Payload)

	assert.Equal(t, "b-c", n.Children[1].Children[0].Payload)

	assert.Equal(t, "d", n.Children[2].Children[0].Payload)
	assert.Equal(t, ast.KindEmpty, n.Children[2].Children[1].Kind)
}

func TestParseTypeExpressionFunction(t *testing.T) {
	n, err := ParseTypeExpression("function(number, ...string): boolean")
	require.NoError(t, err)
	assert.Equal(t, "function", n.Payload)
	require.Len(t, n.Children, 3)
	assert.Equal(t, "number", n.Children[0].Payload)
	assert.Equal(t, ast.KindEllipsis, n.Children[1].Kind)
	assert.Equal(t, "boolean", n.Children[2].Payload)
}

func TestParseTypeExpressionEmpty(t *testing.T) {
	n, err := ParseTypeExpression("")
	require.NoError(t, err)
	assert.Equal(t, ast.KindEmpty, n.Kind)
}

func TestParseDocCommentTypeAndConst(t *testing.T) {
	doc, externs, err := ParseDocComment("/** @const {string} */")
	require.NoError(t, err)
	assert.False(t, externs)
	require.NotNil(t, doc.Type)
	assert.Equal(t, "string", doc.Type.Payload)
	assert.True(t, doc.Const)
}

func TestParseDocCommentParamsAndReturn(t *testing.T) {
	text := `/**
	 * @param {number} x
	 * @param {...string} rest
	 * @return {number}
	 */`
	doc, _, err := ParseDocComment(text)
	require.NoError(t, err)
	require.NotNil(t, doc.ParamType("x"))
	assert.Equal(t, "number", doc.ParamType("x").Payload)

	restType := doc.ParamType("rest")
	require.NotNil(t, restType)
	assert.Equal(t, ast.KindEllipsis, restType.Kind)

	require.NotNil(t, doc.Return)
	assert.Equal(t, "number", doc.Return.Payload)
}

func TestParseDocCommentVisibility(t *testing.T) {
	doc, _, err := ParseDocComment("/** @private */")
	require.NoError(t, err)
	assert.Equal(t, ast.VisibilityPrivate, doc.Visibility)
}

func TestParseDocCommentExterns(t *testing.T) {
	_, externs, err := ParseDocComment("/** @externs */")
	require.NoError(t, err)
	assert.True(t, externs)
	assert.True(t, IsExternsComment("/** @externs */"))
}
