// Package resolver reproduces Node.js/TypeScript module resolution:
// relative and absolute specifiers, upward node_modules package lookup,
// the exports map with conditions and subpath patterns, legacy
// main/module/types fields, and extension/index fallback.
//
// Every call is a pure function of its inputs and the current filesystem
// state. The package holds no caches and no shared mutable state, so calls
// are safe from any goroutine without coordination; callers wanting
// memoization wrap these functions externally.
package resolver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Resolver resolves module specifiers. The zero value is not usable; use
// New.
type Resolver struct {
	logger *slog.Logger
}

// New creates a Resolver. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve resolves one specifier from one importing file.
//
// It fails only on caller-contract violations (ErrEmptySpecifier,
// ErrMissingImporter). Every other unresolvable condition (package absent
// from node_modules, no exports match, nothing found after extension
// probing) yields an empty ResolvedPath plus a warning: resolution failure
// is an expected outcome, not an exceptional one.
func (r *Resolver) Resolve(req Request, opts Options) (*Response, error) {
	conditions := opts.Conditions
	if opts.PreferCJS && !contains(conditions, "require") {
		conditions = append([]string{"require"}, conditions...)
	}
	if strings.TrimSpace(req.Specifier) == "" {
		return nil, ErrEmptySpecifier
	}
	importerDir := filepath.Dir(req.Importer)
	if importerDir == req.Importer || req.Importer == "" {
		return nil, ErrMissingImporter
	}

	resp := &Response{Format: FormatUnknown, Warnings: []string{}}

	specifier := strings.ReplaceAll(req.Specifier, "\\", "/")
	var resolved string
	if isRelative(specifier) || strings.HasPrefix(specifier, "/") {
		resolved = resolvePathLike(importerDir, specifier, opts.Extensions)
	} else {
		resolved = r.resolveBare(specifier, importerDir, req.ProjectRoot, conditions, opts.Extensions, resp)
	}

	if resolved != "" {
		resp.ResolvedPath = resolved
		resp.Format = DetectFormat(resolved)
	}
	return resp, nil
}

// resolveBare handles bare package specifiers: package lookup, exports map
// evaluation, then the main-field fallback. Findings are recorded on resp.
func (r *Resolver) resolveBare(specifier, importerDir, projectRoot string, conditions, extensions []string, resp *Response) string {
	pkgName, subpath := splitPackageSpecifier(specifier)
	pkgDir := LocatePackageDir(importerDir, projectRoot, pkgName)
	if pkgDir == "" {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("Package '%s' not found from %q", pkgName, importerDir))
		return ""
	}
	resp.PackageJSON = filepath.Join(pkgDir, "package.json")

	manifest, err := ReadManifest(pkgDir)
	if err != nil {
		// Proceed as if no manifest: fallback paths resolve many
		// packages without one.
		r.logger.Debug("manifest unreadable", "package", pkgName, "error", err)
		manifest = nil
	}

	if exports := manifest.Get("exports"); exports != nil {
		if target := ResolveExports(exports, subpath, conditions); target != "" {
			resp.MatchedExport = target
			return resolvePathLike(pkgDir, target, extensions)
		}
	}
	return ResolvePkgMain(pkgDir, manifest, extensions)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
