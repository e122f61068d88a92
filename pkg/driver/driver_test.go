package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmoothart/clutzgo/pkg/externsmap"
)

func TestTranspileSingleFile(t *testing.T) {
	d, err := New(externsmap.Map{}, nil)
	require.NoError(t, err)
	defer d.Close()

	sources := []Source{
		{Name: "a.js", Text: "/**\n * @type {number}\n */\nvar x = 1;\n"},
	}

	out, errs := d.Transpile(FilesToEmitSet([]string{"a.js"}), sources)
	require.Empty(t, errs)
	require.Contains(t, out, "a")
	assert.Contains(t, out["a"], "x: number")
}

func TestTranspileExternsFileIsIndexedNotEmitted(t *testing.T) {
	d, err := New(externsmap.Map{}, nil)
	require.NoError(t, err)
	defer d.Close()

	sources := []Source{
		{Name: "externs.js", Text: "goog.provide('ns.Widget');\n"},
		{Name: "a.js", Text: "var w = 1;\n"},
	}

	out, errs := d.Transpile(FilesToEmitSet([]string{"a.js"}), sources)
	require.Empty(t, errs)
	assert.NotContains(t, out, "externs")
	assert.Contains(t, out, "a")
}

func TestTranspileCrossFileNamespaceRewrite(t *testing.T) {
	d, err := New(externsmap.Map{}, nil)
	require.NoError(t, err)
	defer d.Close()

	sources := []Source{
		{Name: "widget.js", Text: "goog.module('ns.Widget');\nclass Widget {}\nexports = Widget;\n"},
		{Name: "a.js", Text: "/**\n * @type {ns.Widget}\n */\nvar w = 1;\n"},
	}

	out, errs := d.Transpile(FilesToEmitSet([]string{"widget.js", "a.js"}), sources)
	require.Empty(t, errs)
	require.Contains(t, out, "a")
	assert.Contains(t, out["a"], "import {Widget} from 'goog:ns.Widget';")
	assert.Contains(t, out["a"], "w: Widget")
}

func TestTranspileLiftsDocOntoFunctionLiteralBinding(t *testing.T) {
	d, err := New(externsmap.Map{}, nil)
	require.NoError(t, err)
	defer d.Close()

	sources := []Source{
		{Name: "a.js", Text: "/**\n * @param {number} x\n * @param {...string} rest\n * @return {number}\n */\n" +
			"const f = function(x, ...rest) { return x; };\n"},
	}

	out, errs := d.Transpile(FilesToEmitSet([]string{"a.js"}), sources)
	require.Empty(t, errs)
	require.Contains(t, out, "a")
	assert.Contains(t, out["a"], "function f(x: number, ...rest: string[]): number {")
}

func TestTranspileRecordsPerFileLoweringError(t *testing.T) {
	d, err := New(externsmap.Map{}, nil)
	require.NoError(t, err)
	defer d.Close()

	sources := []Source{
		{Name: "bad.unknown-ext", Text: "var x = 1;\n"},
		{Name: "a.js", Text: "var y = 1;\n"},
	}

	out, errs := d.Transpile(FilesToEmitSet([]string{"bad.unknown-ext", "a.js"}), sources)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "bad.unknown-ext")
	assert.Contains(t, out, "a")
}
