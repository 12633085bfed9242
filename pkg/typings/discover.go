// Package typings locates TypeScript declaration files for installed
// packages. Discovery merges several independent sources (the exports
// map's types condition, top-level types/typings fields, conventional
// fallback paths, and @types shadow packages), then expands each hit
// with a bounded scan for sibling declaration files.
package typings

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/modgraph/pkg/resolver"
)

const (
	// maxDepth bounds sibling discovery to two directory levels below a
	// discovered file's directory.
	maxDepth = 2

	// maxFilesPerPackage caps accumulated declaration files for one
	// package. The cap substitutes for cancellation on pathological
	// directory trees.
	maxFilesPerPackage = 50
)

// fallbackPaths are conventional declaration entry points probed when a
// manifest points nowhere useful. Each is tested independently; every hit
// contributes to the final list.
var fallbackPaths = []string{
	"index.d.ts",
	"index.d.mts",
	"dist/index.d.ts",
	"lib/index.d.ts",
	"types/index.d.ts",
	"build/index.d.ts",
}

// Response lists the declaration files discovered for one package.
type Response struct {
	// PackageName echoes the requested package.
	PackageName string `json:"packageName"`

	// Files is sorted lexicographically and duplicate-free.
	Files []string `json:"files"`

	// PackageJSON is the manifest path of the package the files came
	// from (the @types shadow package when only it was found).
	PackageJSON string `json:"packageJson,omitempty"`
}

// Discoverer finds declaration files. Stateless between calls.
type Discoverer struct {
	logger *slog.Logger
}

// New creates a Discoverer. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{logger: logger}
}

// Discover locates .d.ts files for packageName under projectRoot's
// node_modules. It never fails: a package with no discoverable typings
// yields an empty file list.
//
// Sources are additive, checked in a fixed order:
//  1. the exports map's types-prioritized root entry,
//  2. the manifest's top-level types/typings field,
//  3. conventional fallback paths (index.d.ts, dist/index.d.ts, ...),
//  4. the @types/* shadow package.
//
// Each discovered file triggers a bounded sibling scan of its directory.
// The final list is sorted and deduplicated.
func (d *Discoverer) Discover(packageName, projectRoot string) *Response {
	var files []string
	var pkgJSONPath string
	visited := make(map[string]struct{})

	if pkgDir := resolver.LocatePackageDir(projectRoot, projectRoot, packageName); pkgDir != "" {
		pkgJSONPath = filepath.Join(pkgDir, "package.json")

		if manifest, err := resolver.ReadManifest(pkgDir); err == nil {
			if exports := manifest.Get("exports"); exports != nil {
				if typesPath := resolver.ResolveExportsTypes(exports, ".", pkgDir); typesPath != "" {
					files = d.addWithSiblings(files, typesPath, visited)
				}
			}
			if types, ok := manifest.GetString("types", "typings"); ok {
				files = d.addWithSiblings(files, filepath.Join(pkgDir, types), visited)
			}
		}

		for _, candidate := range fallbackPaths {
			files = d.addWithSiblings(files, filepath.Join(pkgDir, candidate), visited)
		}
	}

	typesPkg := "@types/" + strings.ReplaceAll(strings.TrimPrefix(packageName, "@"), "/", "__")
	if typesDir := resolver.LocatePackageDir(projectRoot, projectRoot, typesPkg); typesDir != "" {
		typesIndex := filepath.Join(typesDir, "index.d.ts")
		if isFile(typesIndex) {
			files = append(files, typesIndex)
			if pkgJSONPath == "" {
				pkgJSONPath = filepath.Join(typesDir, "package.json")
			}
			files = d.discoverInDir(typesDir, files, visited, 0)
		}
	}

	sort.Strings(files)
	files = dedupe(files)
	if files == nil {
		files = []string{}
	}

	return &Response{
		PackageName: packageName,
		Files:       files,
		PackageJSON: pkgJSONPath,
	}
}

// addWithSiblings records path when it is an existing file, then scans its
// containing directory for related declaration files.
func (d *Discoverer) addWithSiblings(files []string, path string, visited map[string]struct{}) []string {
	if !isFile(path) {
		return files
	}
	files = append(files, path)
	return d.discoverInDir(filepath.Dir(path), files, visited, 0)
}

// discoverInDir recursively collects declaration files under dir. Explicit
// depth and file-count bounds keep the traversal stack-safe and finite; the
// visited set guards against symlink cycles. node_modules and dot-prefixed
// subdirectories are skipped. The scan stops immediately once the file cap
// is hit, even mid-directory.
func (d *Discoverer) discoverInDir(dir string, files []string, visited map[string]struct{}, depth int) []string {
	if depth > maxDepth || len(files) >= maxFilesPerPackage {
		return files
	}
	if _, seen := visited[dir]; seen {
		return files
	}
	visited[dir] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return files
	}
	for _, entry := range entries {
		if len(files) >= maxFilesPerPackage {
			return files
		}
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if depth < maxDepth && entry.Name() != "node_modules" && !strings.HasPrefix(entry.Name(), ".") {
				files = d.discoverInDir(path, files, visited, depth+1)
			}
			continue
		}
		if resolver.IsDeclarationFile(entry.Name()) {
			files = append(files, path)
		}
	}
	return files
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	var prev string
	for i, f := range sorted {
		if i == 0 || f != prev {
			out = append(out, f)
		}
		prev = f
	}
	return out
}
