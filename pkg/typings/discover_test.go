package typings

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/modgraph/pkg/util"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newDiscoverer() *Discoverer {
	return New(util.NewLogger(util.DefaultLoggerConfig()))
}

func TestDiscover_TypesField(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "left-pad")
	writeFile(t, root, filepath.Join(pkg, "package.json"), `{"types": "main.d.ts"}`)
	decl := writeFile(t, root, filepath.Join(pkg, "main.d.ts"), "export declare function pad(s: string): string;")

	resp := newDiscoverer().Discover("left-pad", root)
	assert.Equal(t, "left-pad", resp.PackageName)
	assert.Equal(t, []string{decl}, resp.Files)
	assert.Equal(t, filepath.Join(root, pkg, "package.json"), resp.PackageJSON)
}

func TestDiscover_ExportsTypesCondition(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "modern")
	writeFile(t, root, filepath.Join(pkg, "package.json"),
		`{"exports": {"types": "./dist/types.d.ts", "import": "./dist/index.mjs"}}`)
	decl := writeFile(t, root, filepath.Join(pkg, "dist", "types.d.ts"), "")

	resp := newDiscoverer().Discover("modern", root)
	assert.Contains(t, resp.Files, decl)
}

func TestDiscover_FallbackPaths(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "legacy")
	writeFile(t, root, filepath.Join(pkg, "package.json"), `{"main": "index.js"}`)
	distIndex := writeFile(t, root, filepath.Join(pkg, "dist", "index.d.ts"), "")
	libIndex := writeFile(t, root, filepath.Join(pkg, "lib", "index.d.ts"), "")

	resp := newDiscoverer().Discover("legacy", root)
	assert.Contains(t, resp.Files, distIndex)
	assert.Contains(t, resp.Files, libIndex)
}

func TestDiscover_TypesShadowPackage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, filepath.Join("node_modules", "lodash", "package.json"), `{"main": "index.js"}`)
	shadow := filepath.Join("node_modules", "@types", "lodash")
	writeFile(t, root, filepath.Join(shadow, "package.json"), `{"types": "index.d.ts"}`)
	index := writeFile(t, root, filepath.Join(shadow, "index.d.ts"), "")
	extra := writeFile(t, root, filepath.Join(shadow, "common.d.ts"), "")

	resp := newDiscoverer().Discover("lodash", root)
	assert.Contains(t, resp.Files, index)
	assert.Contains(t, resp.Files, extra)
	// Manifest attribution stays with the real package when it exists.
	assert.Equal(t, filepath.Join(root, "node_modules", "lodash", "package.json"), resp.PackageJSON)
}

func TestDiscover_ScopedShadowPackageName(t *testing.T) {
	root := t.TempDir()
	shadow := filepath.Join("node_modules", "@types", "babel__core")
	index := writeFile(t, root, filepath.Join(shadow, "index.d.ts"), "")

	resp := newDiscoverer().Discover("@babel/core", root)
	assert.Equal(t, []string{index}, resp.Files)
	assert.Equal(t, filepath.Join(root, shadow, "package.json"), resp.PackageJSON)
}

func TestDiscover_MissingPackage(t *testing.T) {
	resp := newDiscoverer().Discover("nonexistent", t.TempDir())
	assert.Equal(t, "nonexistent", resp.PackageName)
	assert.NotNil(t, resp.Files)
	assert.Empty(t, resp.Files)
	assert.Empty(t, resp.PackageJSON)
}

func TestDiscover_SortedAndDeduped(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "dup")
	// types points at index.d.ts, which the fallback probe also finds.
	writeFile(t, root, filepath.Join(pkg, "package.json"), `{"types": "index.d.ts"}`)
	index := writeFile(t, root, filepath.Join(pkg, "index.d.ts"), "")
	zz := writeFile(t, root, filepath.Join(pkg, "zz.d.ts"), "")
	aa := writeFile(t, root, filepath.Join(pkg, "aa.d.ts"), "")

	resp := newDiscoverer().Discover("dup", root)
	assert.Equal(t, []string{aa, index, zz}, resp.Files)
}

func TestDiscover_FileCap(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "huge")
	writeFile(t, root, filepath.Join(pkg, "package.json"), `{"types": "index.d.ts"}`)
	writeFile(t, root, filepath.Join(pkg, "index.d.ts"), "")
	for i := 0; i < 80; i++ {
		writeFile(t, root, filepath.Join(pkg, fmt.Sprintf("gen%03d.d.ts", i)), "")
	}

	resp := newDiscoverer().Discover("huge", root)
	assert.LessOrEqual(t, len(resp.Files), maxFilesPerPackage)
}

func TestDiscover_DepthBound(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "deep")
	writeFile(t, root, filepath.Join(pkg, "package.json"), `{"types": "index.d.ts"}`)
	writeFile(t, root, filepath.Join(pkg, "index.d.ts"), "")
	level2 := writeFile(t, root, filepath.Join(pkg, "a", "b", "two.d.ts"), "")
	tooDeep := writeFile(t, root, filepath.Join(pkg, "a", "b", "c", "three.d.ts"), "")

	resp := newDiscoverer().Discover("deep", root)
	assert.Contains(t, resp.Files, level2)
	assert.NotContains(t, resp.Files, tooDeep)
}

func TestDiscover_SkipsNodeModulesAndDotDirs(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join("node_modules", "nested")
	writeFile(t, root, filepath.Join(pkg, "package.json"), `{"types": "index.d.ts"}`)
	writeFile(t, root, filepath.Join(pkg, "index.d.ts"), "")
	inner := writeFile(t, root, filepath.Join(pkg, "node_modules", "dep", "index.d.ts"), "")
	hidden := writeFile(t, root, filepath.Join(pkg, ".cache", "stale.d.ts"), "")

	resp := newDiscoverer().Discover("nested", root)
	assert.NotContains(t, resp.Files, inner)
	assert.NotContains(t, resp.Files, hidden)
}
