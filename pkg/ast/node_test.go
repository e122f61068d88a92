package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "VAR", KindVar.String())
	assert.Equal(t, "UNION_TYPE", KindUnionType.String())
	assert.Equal(t, "INVALID_KIND", Kind(9999).String())
}

func TestReplaceChild(t *testing.T) {
	a := NewLeaf(KindName, "a")
	b := NewLeaf(KindName, "b")
	parent := NewParent(KindParamList, a)

	old := parent.ReplaceChild(0, b)
	require.Same(t, a, old)
	assert.Same(t, b, parent.Children[0])
	assert.Equal(t, 0, parent.IndexOfChild(b))
	assert.Equal(t, -1, parent.IndexOfChild(a))
}

func TestSnapshotChildrenIsIndependent(t *testing.T) {
	parent := NewParent(KindBlock, NewLeaf(KindName, "x"), NewLeaf(KindName, "y"))
	snap := parent.SnapshotChildren()

	parent.Children = append(parent.Children, NewLeaf(KindName, "z"))

	assert.Len(t, snap, 2)
	assert.Len(t, parent.Children, 3)
}

func TestPropsBoolAndString(t *testing.T) {
	n := NewNode(KindName)
	assert.False(t, n.BoolProp(PropOptES6Typed))

	n.SetProp(PropOptES6Typed, true)
	assert.True(t, n.BoolProp(PropOptES6Typed))

	n.SetProp(PropAccessModifier, "private")
	assert.Equal(t, "private", n.StringProp(PropAccessModifier))
	assert.Equal(t, "", n.StringProp("missing"))
}

func TestDocInfoParamOrderPreserved(t *testing.T) {
	doc := &DocInfo{}
	doc.SetParamType("b", NewLeaf(KindString, "string"))
	doc.SetParamType("a", NewLeaf(KindString, "number"))
	doc.SetParamType("b", NewLeaf(KindString, "string")) // re-set, shouldn't duplicate order

	assert.Equal(t, []string{"b", "a"}, doc.ParamOrder)
	assert.NotNil(t, doc.ParamType("a"))
	assert.Nil(t, doc.ParamType("missing"))
}

func TestCommentRegistryMove(t *testing.T) {
	reg := NewCommentRegistry()
	orig := NewLeaf(KindName, "x")
	reg.Set(orig, "/** @type {number} */")

	replacement := NewLeaf(KindRest, "x")
	reg.Move(orig, replacement)

	_, stillThere := reg.Get(orig)
	assert.False(t, stillThere)

	text, ok := reg.Get(replacement)
	require.True(t, ok)
	assert.Equal(t, "/** @type {number} */", text)
}
