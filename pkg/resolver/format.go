package resolver

import (
	"path/filepath"
	"strings"
)

// DetectFormat classifies a resolved path by suffix. Declaration files win
// over everything else; otherwise the extension decides.
//
// Plain .ts/.js files are reported as ESM even when the owning package is
// CommonJS-only (no "type" field inspection, no syntax sniffing). Consumers
// depend on this behavior, so it stays.
func DetectFormat(path string) ModuleFormat {
	if IsDeclarationFile(path) {
		return FormatTypeDefinition
	}
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "cjs", "cts":
		return FormatCommonJS
	case "mjs", "mts", "ts", "tsx", "js", "jsx":
		return FormatESM
	default:
		return FormatUnknown
	}
}
