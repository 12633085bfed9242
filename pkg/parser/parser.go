// Package parser manages tree-sitter parsers for the JavaScript and
// TypeScript grammars, with per-grammar pooling for concurrent use.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/modgraph/pkg/util"
)

// poolKey identifies a parser pool (grammar + TSX variant).
type poolKey struct {
	lang  Language
	isTSX bool
}

// Manager hands out tree-sitter parse trees for JS/TS source.
//
// Pools are created lazily per grammar and sized from the CPU count.
// Callers own returned Tree instances and must call tree.Close(); the
// Manager itself must be closed via Close() when done.
//
// Safe for concurrent use from multiple goroutines.
type Manager struct {
	pools  map[poolKey]*parserPool
	mutex  sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a parser Manager. A nil logger falls back to
// slog.Default(). The returned Manager must be closed via Close().
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Parse parses source under the given grammar. isTSX selects the TSX
// grammar variant and is only meaningful for TypeScript.
//
// The returned Tree MUST be closed by the caller. A tree with syntax
// errors is still returned (partial trees are useful), but the error
// state is the caller's to inspect via RootNode().HasError().
func (m *Manager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	pool, err := m.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}
	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}
	return tree, nil
}

// ParseFile parses source choosing the grammar from filePath's extension.
// The returned Tree MUST be closed by the caller.
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	return m.Parse(source, DetectLanguage(filePath), IsTSXFile(filePath))
}

// Close releases every parser pool. The Manager is unusable afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for key, pool := range m.pools {
		pool.close()
		m.logger.Debug("closed parser pool",
			"language", key.lang.String(),
			"isTSX", key.isTSX)
	}
	m.pools = make(map[poolKey]*parserPool)
	return nil
}

// getOrCreatePool returns the pool for a grammar, creating it on first use.
// Double-checked locking keeps the fast path on a read lock.
func (m *Manager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	m.mutex.RLock()
	pool, exists := m.pools[key]
	m.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if pool, exists = m.pools[key]; exists {
		return pool, nil
	}

	langPtr := languagePointer(lang, isTSX)
	pool = newParserPool(lang, langPtr, isTSX, util.GetOptimalPoolSize(), m.logger)
	m.pools[key] = pool

	m.logger.Debug("created new parser pool",
		"language", lang.String(),
		"isTSX", isTSX,
		"maxSize", util.GetOptimalPoolSize())
	return pool, nil
}

// languagePointer returns the raw grammar pointer for a language.
func languagePointer(lang Language, isTSX bool) unsafe.Pointer {
	if lang == LanguageTypeScript {
		if isTSX {
			return ts_typescript.LanguageTSX()
		}
		return ts_typescript.LanguageTypescript()
	}
	return ts_javascript.Language()
}
