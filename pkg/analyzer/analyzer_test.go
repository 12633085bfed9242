package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/modgraph/pkg/parser"
	"github.com/gnana997/modgraph/pkg/util"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	logger := util.NewLogger(util.DefaultLoggerConfig())
	parsers := parser.NewManager(logger)
	t.Cleanup(func() { _ = parsers.Close() })
	return New(parsers, logger)
}

func analyze(t *testing.T, filename, source string) *Response {
	t.Helper()
	resp, err := newAnalyzer(t).AnalyzeSource([]byte(source), filename)
	require.NoError(t, err)
	return resp
}

func TestAnalyzeSource_ImportsAndExports(t *testing.T) {
	resp := analyze(t, "app.ts", `
import foo from "./foo";
import { a, b } from "bar";
export const bar = 1;
export default foo;
`)
	assert.Equal(t, []string{"./foo", "bar"}, resp.Imports)
	assert.Equal(t, []string{"bar", "default"}, resp.Exports)
}

func TestAnalyzeSource_ExportAllAndNamespace(t *testing.T) {
	resp := analyze(t, "index.ts", `
export * from "./utils";
export * as helpers from "./helpers";
`)
	assert.Contains(t, resp.Exports, "*from:./utils")
	assert.Contains(t, resp.Exports, "*as:helpers")
	// Re-export sources do not count as imports.
	assert.Empty(t, resp.Imports)
}

func TestAnalyzeSource_NamedExportClause(t *testing.T) {
	resp := analyze(t, "mod.ts", `
const x = 1;
const y = 2;
export { x, y as renamed };
`)
	assert.Contains(t, resp.Exports, "x")
	assert.Contains(t, resp.Exports, "renamed")
	assert.NotContains(t, resp.Exports, "y")
}

func TestAnalyzeSource_DefaultReexport(t *testing.T) {
	resp := analyze(t, "reexport.ts", `export { default } from "./impl";`)
	assert.Equal(t, []string{"default"}, resp.Exports)
	// Re-export sources do not count as imports.
	assert.Empty(t, resp.Imports)
}

func TestAnalyzeSource_StringLiteralExportName(t *testing.T) {
	resp := analyze(t, "stringname.ts", `
const x = 1;
export { x as "arbitrary name" };
`)
	assert.Contains(t, resp.Exports, "arbitrary name")
	assert.NotContains(t, resp.Exports, "x")
}

func TestAnalyzeSource_DefaultInterface(t *testing.T) {
	resp := analyze(t, "iface.ts", `export default interface Options { verbose: boolean; }`)
	assert.Equal(t, []string{"default"}, resp.Exports)
}

func TestAnalyzeSource_Declarations(t *testing.T) {
	resp := analyze(t, "decls.ts", `
export class Widget {}
export function render() {}
export async function load() {}
export const one = 1, two = 2;
export let three = 3;
`)
	assert.Equal(t, []string{"Widget", "load", "one", "render", "three", "two"}, resp.Exports)
}

func TestAnalyzeSource_DestructuredExports(t *testing.T) {
	resp := analyze(t, "destructure.ts", `
export const { a, b: renamed, c = 5, ...rest } = obj;
export const [first, , second] = arr;
`)
	assert.Contains(t, resp.Exports, "a")
	assert.Contains(t, resp.Exports, "c")
	assert.Contains(t, resp.Exports, "first")
	assert.Contains(t, resp.Exports, "second")
	// Key-value properties record the key, not the bound name.
	assert.Contains(t, resp.Exports, "b")
	assert.NotContains(t, resp.Exports, "renamed")
	assert.NotContains(t, resp.Exports, "rest")
}

func TestAnalyzeSource_DefaultAnonymous(t *testing.T) {
	resp := analyze(t, "anon.ts", `export default function () {}`)
	assert.Equal(t, []string{"default"}, resp.Exports)
}

func TestAnalyzeSource_DefaultNamedFunction(t *testing.T) {
	resp := analyze(t, "named.ts", `export default function main() {}`)
	assert.Equal(t, []string{"main"}, resp.Exports)
}

func TestAnalyzeSource_TSX(t *testing.T) {
	resp := analyze(t, "component.tsx", `
import React from "react";

export function App() {
	return <div>hello</div>;
}
`)
	assert.Equal(t, []string{"react"}, resp.Imports)
	assert.Equal(t, []string{"App"}, resp.Exports)
}

func TestAnalyzeSource_PlainJavaScript(t *testing.T) {
	resp := analyze(t, "script.js", `
import dep from "dep";
export const value = dep;
`)
	assert.Equal(t, []string{"dep"}, resp.Imports)
	assert.Equal(t, []string{"value"}, resp.Exports)
}

func TestAnalyzeSource_ParseError(t *testing.T) {
	_, err := newAnalyzer(t).AnalyzeSource([]byte(`import from from from`), "broken.ts")
	assert.Error(t, err)
}

func TestAnalyze_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.ts")
	require.NoError(t, os.WriteFile(path, []byte(`export const loaded = true;`), 0o644))

	resp, err := newAnalyzer(t).Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"loaded"}, resp.Exports)
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := newAnalyzer(t).Analyze(filepath.Join(t.TempDir(), "absent.ts"))
	assert.Error(t, err)
}
