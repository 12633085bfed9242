// Package analyzer parses one JS/TS source file into a lightweight
// import/export dependency summary. The grammar is chosen from the file
// extension; only top-level module items are inspected.
package analyzer

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/gnana997/modgraph/pkg/parser"
)

// Response is one file's dependency summary.
type Response struct {
	// Imports holds the literal source string of every import
	// declaration. Re-exported modules are not included.
	Imports []string `json:"imports"`

	// Exports holds exported name tokens: declared identifiers,
	// "default", "*from:<source>" for export-all directives and
	// "*as:<name>" for namespace re-exports.
	Exports []string `json:"exports"`

	// Transformed is the verbatim input source. No rewriting occurs;
	// the field is reserved for forward compatibility and must not be
	// relied on as a transformation result.
	Transformed string `json:"transformed"`
}

// Analyzer extracts module graphs from source files.
//
// Stateless apart from the shared parser manager, so safe for concurrent
// use.
type Analyzer struct {
	parsers *parser.Manager
	logger  *slog.Logger
}

// New creates an Analyzer on top of a parser Manager. A nil logger falls
// back to slog.Default().
func New(parsers *parser.Manager, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{parsers: parsers, logger: logger}
}

// Analyze reads and analyzes the file at filePath.
//
// It fails only when the file cannot be read or does not parse as a
// module; callers are expected to skip and report the offending file.
func (a *Analyzer) Analyze(filePath string) (*Response, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return a.AnalyzeSource(source, filePath)
}

// AnalyzeSource analyzes in-memory source, using filePath only for grammar
// selection and diagnostics.
func (a *Analyzer) AnalyzeSource(source []byte, filePath string) (*Response, error) {
	tree, err := a.parsers.ParseFile(source, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parse error in %s", filePath)
	}

	imports := make(map[string]struct{})
	exports := make(map[string]struct{})
	collectModuleItems(root, source, imports, exports)

	return &Response{
		Imports:     sortedKeys(imports),
		Exports:     sortedKeys(exports),
		Transformed: string(source),
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
