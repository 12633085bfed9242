package resolver

import (
	"os"
	"path/filepath"
	"strings"
)

// isRelative reports whether a specifier is explicitly relative.
func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// splitPackageSpecifier splits a bare specifier into package name and
// subpath. A leading @scope/ stays part of the package name. The subpath is
// "." when the specifier names only the package, otherwise "./<rest>".
//
//	"react"          → ("react", ".")
//	"pkg/utils"      → ("pkg", "./utils")
//	"@scope/pkg/sub" → ("@scope/pkg", "./sub")
func splitPackageSpecifier(spec string) (pkg, subpath string) {
	if stripped, ok := strings.CutPrefix(spec, "@"); ok {
		if scope, rest, found := strings.Cut(stripped, "/"); found {
			if name, after, found := strings.Cut(rest, "/"); found {
				return "@" + scope + "/" + name, "./" + after
			}
			return "@" + scope + "/" + rest, "."
		}
	}
	if name, after, found := strings.Cut(spec, "/"); found {
		return name, "./" + after
	}
	return spec, "."
}

// resolvePathLike resolves a relative or absolute specifier against base,
// applying extension and index probing.
func resolvePathLike(base, specifier string, extensions []string) string {
	var target string
	if strings.HasPrefix(specifier, "/") {
		target = specifier
	} else {
		target = filepath.Join(base, specifier)
	}
	return resolveWithExtensions(target, extensions)
}

// resolveWithExtensions probes target as a file, then target+ext for each
// extension in order, then target/index+ext when target is a directory.
// It only ever returns the path of an existing regular file. Extension
// order is significant: the first hit wins.
func resolveWithExtensions(target string, extensions []string) string {
	if isFile(target) {
		return target
	}
	for _, ext := range extensions {
		if candidate := target + ext; isFile(candidate) {
			return candidate
		}
	}
	if isDir(target) {
		for _, ext := range extensions {
			if candidate := filepath.Join(target, "index"+ext); isFile(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
