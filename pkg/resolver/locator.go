package resolver

import (
	"os"
	"path/filepath"
)

// LocatePackageDir walks ancestor directories from start looking for
// <dir>/node_modules/<pkg>, reproducing Node's upward search. The walk
// stops after testing projectRoot (when given) or at the filesystem root.
// Returns "" when the package is absent from every ancestor.
func LocatePackageDir(start, projectRoot, pkg string) string {
	current := start
	for {
		candidate := filepath.Join(current, "node_modules", pkg)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if projectRoot != "" && current == projectRoot {
			return ""
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
