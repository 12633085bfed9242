package resolver

import (
	"path/filepath"
	"strings"
)

// ResolveExports evaluates a package's exports field against a subpath and
// an ordered condition list, returning the raw target string selected from
// the map (wildcard already substituted, before any directory join).
// Returns "" when no entry matches.
//
// Subpath "." resolves against the whole exports value. A non-root subpath
// is first looked up as the exact key "./<subpath>"; failing that, keys
// containing a single "*" are tried as prefix/suffix patterns, and the
// first syntactically matching key in source order wins; there is no
// scoring between candidate patterns.
func ResolveExports(exports *Value, subpath string, conditions []string) string {
	if subpath == "." {
		return selectExportTarget(exports, conditions)
	}
	if exports == nil || exports.Kind != KindObject {
		return ""
	}
	key := "./" + strings.TrimPrefix(subpath, "./")
	if value := exports.Get(key); value != nil {
		return selectExportTarget(value, conditions)
	}
	for _, pattern := range exports.Keys() {
		star := strings.Index(pattern, "*")
		if star < 0 {
			continue
		}
		prefix, suffix := pattern[:star], pattern[star+1:]
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, suffix) {
			continue
		}
		matched := key[len(prefix) : len(key)-len(suffix)]
		if mapped := selectExportTarget(exports.Get(pattern), conditions); mapped != "" {
			return strings.ReplaceAll(mapped, "*", matched)
		}
	}
	return ""
}

// selectExportTarget recurses over an exports value. Strings are returned
// as-is; arrays are tried left to right, first branch that resolves wins;
// condition maps are tried in the caller-supplied condition order with a
// final fallback to a literal "default" key.
func selectExportTarget(value *Value, conditions []string) string {
	if value == nil {
		return ""
	}
	switch value.Kind {
	case KindString:
		return value.str
	case KindArray:
		for _, entry := range value.Items() {
			if target := selectExportTarget(entry, conditions); target != "" {
				return target
			}
		}
		return ""
	case KindObject:
		for _, condition := range conditions {
			if val := value.Get(condition); val != nil {
				if target := selectExportTarget(val, conditions); target != "" {
					return target
				}
			}
		}
		if def := value.Get("default"); def != nil {
			return selectExportTarget(def, conditions)
		}
		return ""
	default:
		return ""
	}
}

// typesConditions is the condition preference order used when resolving
// exports for type declarations rather than runtime entry points.
var typesConditions = []string{"types", "typings", "default"}

// ResolveExportsTypes is the types-prioritized variant of ResolveExports
// used by typings discovery. It resolves the given subpath (falling back to
// the root "." entry) and joins the target onto pkgDir. Returns "" when
// nothing matches.
func ResolveExportsTypes(exports *Value, subpath, pkgDir string) string {
	var target string
	if subpath == "." {
		target = selectExportTargetTypes(exports)
	} else if exports != nil && exports.Kind == KindObject {
		key := "./" + strings.TrimPrefix(subpath, "./")
		if value := exports.Get(key); value != nil {
			target = selectExportTargetTypes(value)
		} else if value := exports.Get("."); value != nil {
			target = selectExportTargetTypes(value)
		}
	}
	if target == "" {
		return ""
	}
	return filepath.Join(pkgDir, strings.TrimPrefix(target, "./"))
}

// selectExportTargetTypes mirrors selectExportTarget with two differences:
// an explicit "types" key is honored even when its string value does not
// look like a declaration file, and plain string values are only accepted
// when they end in .d.ts/.d.mts/.d.cts. The suffix filter avoids mistaking
// a JS entry point for a typings file when no "types" condition narrows it.
func selectExportTargetTypes(value *Value) string {
	if value == nil {
		return ""
	}
	switch value.Kind {
	case KindString:
		if IsDeclarationFile(value.str) {
			return value.str
		}
		return ""
	case KindArray:
		for _, entry := range value.Items() {
			if target := selectExportTargetTypes(entry); target != "" {
				return target
			}
		}
		return ""
	case KindObject:
		if val := value.Get("types"); val != nil {
			if target := selectExportTargetTypes(val); target != "" {
				return target
			}
			if s, ok := val.Str(); ok {
				return s
			}
		}
		for _, condition := range typesConditions {
			if val := value.Get(condition); val != nil {
				if target := selectExportTargetTypes(val); target != "" {
					return target
				}
			}
		}
		if def := value.Get("default"); def != nil {
			return selectExportTargetTypes(def)
		}
		return ""
	default:
		return ""
	}
}

// IsDeclarationFile reports whether path names a TypeScript declaration
// file (.d.ts, .d.mts or .d.cts).
func IsDeclarationFile(path string) bool {
	return strings.HasSuffix(path, ".d.ts") ||
		strings.HasSuffix(path, ".d.mts") ||
		strings.HasSuffix(path, ".d.cts")
}
