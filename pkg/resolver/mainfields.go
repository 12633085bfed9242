package resolver

import "path/filepath"

// ResolvePkgMain is the fallback entry-point resolution used when no
// exports entry matched. Field order: types/typings, then module, main,
// browser (each probed with the caller's extension policy), and finally
// the package directory itself as an index target, which covers packages
// with no manifest or no usable field.
func ResolvePkgMain(pkgDir string, manifest *Value, extensions []string) string {
	if manifest != nil {
		if types, ok := manifest.GetString("types", "typings"); ok {
			if resolved := resolveWithExtensions(filepath.Join(pkgDir, types), extensions); resolved != "" {
				return resolved
			}
		}
		for _, key := range []string{"module", "main", "browser"} {
			entry, ok := manifest.Get(key).Str()
			if !ok {
				continue
			}
			if resolved := resolveWithExtensions(filepath.Join(pkgDir, entry), extensions); resolved != "" {
				return resolved
			}
		}
	}
	return resolveWithExtensions(pkgDir, extensions)
}
