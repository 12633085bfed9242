package resolver

import "errors"

// Contract violations that fail a Resolve call outright. Every other
// unresolvable condition degrades to a nil ResolvedPath plus a warning so
// that one missing module never aborts a caller's batch operation.
var (
	// ErrEmptySpecifier is returned when the specifier is empty or whitespace-only.
	ErrEmptySpecifier = errors.New("specifier is empty")

	// ErrMissingImporter is returned when the importer path has no parent directory.
	ErrMissingImporter = errors.New("importer path missing")
)

// ModuleFormat classifies a resolved file by its extension.
//
// The format is always recomputed from the resolved path's suffix, never
// stored independently.
type ModuleFormat string

const (
	FormatESM            ModuleFormat = "esm"
	FormatCommonJS       ModuleFormat = "commonjs"
	FormatTypeDefinition ModuleFormat = "type-definition"
	FormatUnknown        ModuleFormat = "unknown"
)

// Options controls condition and extension handling for one Resolve call.
// Options are immutable per call; Resolve never mutates the caller's slices.
type Options struct {
	// Conditions is the ordered list of export conditions to try
	// (e.g. ["import", "default"]). Order is significant: first match wins.
	Conditions []string `json:"conditions"`

	// Extensions is the ordered list of file extensions for probing
	// (e.g. [".ts", ".tsx", ".js"]). Order is the extension-priority policy.
	Extensions []string `json:"extensions"`

	// PreferCJS prepends "require" to Conditions when not already present.
	PreferCJS bool `json:"preferCjs"`
}

// DefaultOptions returns the resolver defaults: ESM-first conditions and
// the TypeScript-first extension order.
func DefaultOptions() Options {
	return Options{
		Conditions: []string{"import", "default"},
		Extensions: []string{".ts", ".tsx", ".js", ".mjs", ".cjs"},
		PreferCJS:  false,
	}
}

// Request identifies what to resolve and from where.
type Request struct {
	// Specifier is the import string, e.g. "react" or "./utils".
	Specifier string `json:"specifier"`

	// Importer is the file containing the import. It must have a parent
	// directory; resolution happens relative to that directory.
	Importer string `json:"importer"`

	// ProjectRoot, when set, is a hard ceiling for the upward
	// node_modules search.
	ProjectRoot string `json:"projectRoot,omitempty"`
}

// Response is the outcome of one Resolve call.
type Response struct {
	// ResolvedPath is the absolute path of the resolved file, or empty
	// when nothing resolved.
	ResolvedPath string `json:"resolvedPath,omitempty"`

	// Format is derived from ResolvedPath's extension (FormatUnknown when
	// nothing resolved).
	Format ModuleFormat `json:"format"`

	// MatchedExport is the raw target string selected from the exports
	// map, before it is joined onto the package directory.
	MatchedExport string `json:"matchedExport,omitempty"`

	// PackageJSON is the path of the owning package's manifest, when a
	// package directory was located.
	PackageJSON string `json:"packageJson,omitempty"`

	// Warnings collects human-readable notes about degraded outcomes,
	// such as a package missing from every ancestor node_modules.
	Warnings []string `json:"warnings"`
}
