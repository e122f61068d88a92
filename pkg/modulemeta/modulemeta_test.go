package modulemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmoothart/clutzgo/pkg/module"
)

func TestCollectLegacyNamespaceModule(t *testing.T) {
	c, err := NewCollector(0, nil)
	require.NoError(t, err)

	src := []byte("goog.module('ns.Widget');\n\nclass Widget {}\nexports = Widget;\n")
	record := c.Collect("src/widget.js", src)

	assert.Equal(t, module.KindLegacyNamespace, record.Kind)
	assert.Equal(t, "Widget", record.Namespaces["ns.Widget"])
}

func TestCollectLegacyProvideModule(t *testing.T) {
	c, err := NewCollector(0, nil)
	require.NoError(t, err)

	src := []byte("goog.provide('ns.Util');\n\nns.Util = {};\n")
	record := c.Collect("src/util.js", src)

	assert.Equal(t, module.KindLegacyNamespace, record.Kind)
	assert.Equal(t, "Util", record.Namespaces["ns.Util"])
}

func TestCollectECMAScriptModule(t *testing.T) {
	c, err := NewCollector(0, nil)
	require.NoError(t, err)

	src := []byte("import {Thing} from './thing';\n\nexport class Widget {}\n")
	record := c.Collect("src/widget.ts", src)

	assert.Equal(t, module.KindECMAScript, record.Kind)
	assert.Empty(t, record.Namespaces)
}

func TestCollectPlainFileDefaultsToECMAScript(t *testing.T) {
	c, err := NewCollector(0, nil)
	require.NoError(t, err)

	record := c.Collect("src/plain.ts", []byte("const x = 1;\n"))
	assert.Equal(t, module.KindECMAScript, record.Kind)
}

func TestCollectCachesByContentHash(t *testing.T) {
	c, err := NewCollector(0, nil)
	require.NoError(t, err)

	src := []byte("goog.module('ns.A');\nexports = A;\n")
	first := c.Collect("src/a.js", src)
	second := c.Collect("src/a.js", src)
	assert.Equal(t, first, second)

	changed := []byte("goog.module('ns.B');\nexports = B;\n")
	third := c.Collect("src/a.js", changed)
	assert.Equal(t, "B", third.Namespaces["ns.B"])
	assert.NotContains(t, third.Namespaces, "ns.A")
}

func TestIndexFirstRegisteredWins(t *testing.T) {
	first := module.Record{Path: "a.js", Namespaces: map[string]string{"ns.X": "First"}}
	second := module.Record{Path: "b.js", Namespaces: map[string]string{"ns.X": "Second"}}

	idx := NewIndex([]module.Record{first, second})
	rec, ok := idx.Lookup("ns.X")
	require.True(t, ok)
	assert.Equal(t, "a.js", rec.Path)
	assert.Equal(t, []string{"ns.X"}, idx.Namespaces())
}

func TestIndexUnknownNamespace(t *testing.T) {
	idx := NewIndex(nil)
	_, ok := idx.Lookup("ns.Missing")
	assert.False(t, ok)
}
