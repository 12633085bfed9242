package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file (and its parents) under root.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// project builds a minimal project tree with one installed package and
// returns (projectRoot, importerPath).
func project(t *testing.T, pkgName, manifest string, pkgFiles map[string]string) (string, string) {
	t.Helper()
	root := t.TempDir()
	pkgDir := filepath.Join("node_modules", pkgName)
	if manifest != "" {
		writeFile(t, root, filepath.Join(pkgDir, "package.json"), manifest)
	}
	for rel, content := range pkgFiles {
		writeFile(t, root, filepath.Join(pkgDir, rel), content)
	}
	importer := writeFile(t, root, "src/app.ts", "")
	return root, importer
}

func TestResolve_EmptySpecifier(t *testing.T) {
	r := New(nil)
	for _, spec := range []string{"", "   ", "\t"} {
		_, err := r.Resolve(Request{Specifier: spec, Importer: "/tmp/a.ts"}, DefaultOptions())
		assert.ErrorIs(t, err, ErrEmptySpecifier, "specifier %q", spec)
	}
}

func TestResolve_MissingImporter(t *testing.T) {
	r := New(nil)
	_, err := r.Resolve(Request{Specifier: "react", Importer: ""}, DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingImporter)
}

func TestResolve_RelativeSpecifier(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/utils.ts", "export const x = 1\n")
	importer := writeFile(t, root, "src/app.ts", "")

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "./utils", Importer: importer}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src/utils.ts"), resp.ResolvedPath)
	assert.Equal(t, FormatESM, resp.Format)
	assert.Empty(t, resp.Warnings)
}

func TestResolve_RelativeIndexFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/lib/index.js", "")
	importer := writeFile(t, root, "src/app.ts", "")

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "./lib", Importer: importer}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src/lib/index.js"), resp.ResolvedPath)
}

func TestResolve_ExtensionPriorityOrder(t *testing.T) {
	root := t.TempDir()
	// Both exist; the first extension in the option order must win.
	writeFile(t, root, "src/mod.ts", "")
	writeFile(t, root, "src/mod.js", "")
	importer := writeFile(t, root, "src/app.ts", "")

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "./mod", Importer: importer}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src/mod.ts"), resp.ResolvedPath)

	opts := DefaultOptions()
	opts.Extensions = []string{".js", ".ts"}
	resp, err = r.Resolve(Request{Specifier: "./mod", Importer: importer}, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src/mod.js"), resp.ResolvedPath)
}

func TestResolve_BackslashNormalization(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/sub/mod.ts", "")
	importer := writeFile(t, root, "src/app.ts", "")

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: `./sub\mod`, Importer: importer}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src/sub/mod.ts"), resp.ResolvedPath)
}

func TestResolve_ExportsConditions(t *testing.T) {
	manifest := `{
		"name": "dual",
		"exports": {
			"import": "./dist/index.mjs",
			"require": "./dist/index.cjs",
			"default": "./dist/fallback.js"
		}
	}`
	files := map[string]string{
		"dist/index.mjs":   "",
		"dist/index.cjs":   "",
		"dist/fallback.js": "",
	}

	root, importer := project(t, "dual", manifest, files)
	r := New(nil)

	// Default options pick the import condition.
	resp, err := r.Resolve(Request{Specifier: "dual", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/dual/dist/index.mjs"), resp.ResolvedPath)
	assert.Equal(t, "./dist/index.mjs", resp.MatchedExport)
	assert.Equal(t, FormatESM, resp.Format)
	assert.Equal(t, filepath.Join(root, "node_modules/dual/package.json"), resp.PackageJSON)

	// PreferCJS prepends "require" and wins.
	opts := DefaultOptions()
	opts.PreferCJS = true
	resp, err = r.Resolve(Request{Specifier: "dual", Importer: importer, ProjectRoot: root}, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/dual/dist/index.cjs"), resp.ResolvedPath)
	assert.Equal(t, FormatCommonJS, resp.Format)
}

func TestResolve_ExportsDefaultFallback(t *testing.T) {
	manifest := `{"exports": {"browser": "./browser.js", "default": "./main.js"}}`
	root, importer := project(t, "pkg", manifest, map[string]string{
		"browser.js": "",
		"main.js":    "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "pkg", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/pkg/main.js"), resp.ResolvedPath)
}

func TestResolve_RootSubpathSkipsDotKey(t *testing.T) {
	// The bare package specifier resolves conditions against the whole
	// exports value. A "." key is a subpath entry, not a condition, so
	// this shape yields no exports match and resolution falls back to
	// the main field.
	manifest := `{"exports": {".": {"import": "./dist/index.mjs"}}, "main": "index.js"}`
	root, importer := project(t, "dotted", manifest, map[string]string{
		"dist/index.mjs": "",
		"index.js":       "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "dotted", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, resp.MatchedExport)
	assert.Equal(t, filepath.Join(root, "node_modules/dotted/index.js"), resp.ResolvedPath)
}

func TestResolve_ExportsSubpath(t *testing.T) {
	manifest := `{"exports": {".": "./index.js", "./utils": "./src/utils.js"}}`
	root, importer := project(t, "pkg", manifest, map[string]string{
		"index.js":     "",
		"src/utils.js": "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "pkg/utils", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/pkg/src/utils.js"), resp.ResolvedPath)
	assert.Equal(t, "./src/utils.js", resp.MatchedExport)
}

func TestResolve_ExportsWildcard(t *testing.T) {
	manifest := `{"exports": {"./feature/*": "./src/feature/*.js"}}`
	root, importer := project(t, "pkg", manifest, map[string]string{
		"src/feature/x.js": "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "pkg/feature/x", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "./src/feature/x.js", resp.MatchedExport)
	assert.Equal(t, filepath.Join(root, "node_modules/pkg/src/feature/x.js"), resp.ResolvedPath)
}

func TestResolve_ScopedPackage(t *testing.T) {
	manifest := `{"main": "lib/entry.js"}`
	root, importer := project(t, "@scope/pkg", manifest, map[string]string{
		"lib/entry.js": "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "@scope/pkg", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/@scope/pkg/lib/entry.js"), resp.ResolvedPath)
}

func TestResolve_MainFieldOrder(t *testing.T) {
	// types wins over module wins over main.
	manifest := `{"types": "index.d.ts", "module": "index.mjs", "main": "index.js"}`
	root, importer := project(t, "typed", manifest, map[string]string{
		"index.d.ts": "",
		"index.mjs":  "",
		"index.js":   "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "typed", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/typed/index.d.ts"), resp.ResolvedPath)
	assert.Equal(t, FormatTypeDefinition, resp.Format)
}

func TestResolve_NoManifestIndexFallback(t *testing.T) {
	root, importer := project(t, "bare", "", map[string]string{
		"index.js": "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "bare", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/bare/index.js"), resp.ResolvedPath)
}

func TestResolve_BrokenManifestFallsBack(t *testing.T) {
	root, importer := project(t, "broken", "{not json", map[string]string{
		"index.js": "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "broken", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "node_modules/broken/index.js"), resp.ResolvedPath)
}

func TestResolve_MissingPackageWarns(t *testing.T) {
	root := t.TempDir()
	importer := writeFile(t, root, "src/app.ts", "")

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "ghost", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, resp.ResolvedPath)
	assert.Equal(t, FormatUnknown, resp.Format)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "Package 'ghost' not found")
}

func TestResolve_ExportsMatchWithMissingTarget(t *testing.T) {
	// A matched export whose target file is missing does not fall back
	// to main; the match is recorded but nothing resolves.
	manifest := `{"exports": "./missing.js", "main": "index.js"}`
	root, importer := project(t, "pkg", manifest, map[string]string{
		"index.js": "",
	})

	r := New(nil)
	resp, err := r.Resolve(Request{Specifier: "pkg", Importer: importer, ProjectRoot: root}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "./missing.js", resp.MatchedExport)
	assert.Empty(t, resp.ResolvedPath)
	assert.Equal(t, FormatUnknown, resp.Format)
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want ModuleFormat
	}{
		{"/a/b.d.ts", FormatTypeDefinition},
		{"/a/b.d.mts", FormatTypeDefinition},
		{"/a/b.d.cts", FormatTypeDefinition},
		{"/a/b.cjs", FormatCommonJS},
		{"/a/b.cts", FormatCommonJS},
		{"/a/b.mjs", FormatESM},
		{"/a/b.mts", FormatESM},
		{"/a/b.ts", FormatESM},
		{"/a/b.tsx", FormatESM},
		{"/a/b.js", FormatESM},
		{"/a/b.jsx", FormatESM},
		{"/a/b.json", FormatUnknown},
		{"/a/b", FormatUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectFormat(tc.path), tc.path)
	}
}
