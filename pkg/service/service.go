// Package service wraps the resolution engine with the conveniences
// callers actually invoke it through: option merging, memoization, and
// batch operations. The engine packages (resolver, typings, analyzer) stay
// pure; everything stateful lives here.
package service

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/modgraph/pkg/analyzer"
	"github.com/gnana997/modgraph/pkg/parser"
	"github.com/gnana997/modgraph/pkg/resolver"
	"github.com/gnana997/modgraph/pkg/typings"
	"github.com/gnana997/modgraph/pkg/util"
)

const (
	resolveCacheSize = 2048
	typingsCacheSize = 512
)

// Service bundles the engine components behind one handle.
//
// Resolutions and typings discoveries are memoized in LRU caches keyed by
// their full inputs; the caches never change a response, they only skip
// recomputation, and InvalidateCaches (or the invalidation watcher)
// restores cold-path behavior after node_modules changes.
type Service struct {
	resolver   *resolver.Resolver
	discoverer *typings.Discoverer
	analyzer   *analyzer.Analyzer
	parsers    *parser.Manager
	files      *util.FileCache
	logger     *slog.Logger

	resolveCache *lru.Cache[string, *resolver.Response]
	typingsCache *lru.Cache[string, *typings.Response]
}

// New creates a Service with all engine components wired. A nil logger
// falls back to slog.Default(). Close must be called when done.
func New(logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	resolveCache, err := lru.New[string, *resolver.Response](resolveCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolve cache: %w", err)
	}
	typingsCache, err := lru.New[string, *typings.Response](typingsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create typings cache: %w", err)
	}

	parsers := parser.NewManager(logger)
	return &Service{
		resolver:     resolver.New(logger),
		discoverer:   typings.New(logger),
		analyzer:     analyzer.New(parsers, logger),
		parsers:      parsers,
		files:        util.NewFileCache(&util.FileCacheConfig{MaxFiles: 4096, Logger: logger}),
		logger:       logger,
		resolveCache: resolveCache,
		typingsCache: typingsCache,
	}, nil
}

// Close releases parser pools and mapped files.
func (s *Service) Close() error {
	err := s.files.Close()
	if cerr := s.parsers.Close(); err == nil {
		err = cerr
	}
	return err
}

// BuildOptions applies non-empty overrides onto the resolver defaults.
// Empty slices keep the defaults; preferCJS is taken as given.
func BuildOptions(conditions, extensions []string, preferCJS bool) resolver.Options {
	opts := resolver.DefaultOptions()
	if len(conditions) > 0 {
		opts.Conditions = conditions
	}
	if len(extensions) > 0 {
		opts.Extensions = extensions
	}
	opts.PreferCJS = preferCJS
	return opts
}

// Resolve resolves one specifier, memoized on the full request and
// options.
func (s *Service) Resolve(req resolver.Request, opts resolver.Options) (*resolver.Response, error) {
	key := resolveKey(req, opts)
	if resp, ok := s.resolveCache.Get(key); ok {
		return resp, nil
	}
	resp, err := s.resolver.Resolve(req, opts)
	if err != nil {
		return nil, err
	}
	s.resolveCache.Add(key, resp)
	return resp, nil
}

// DiscoverTypings finds declaration files for one package, memoized on
// (package, project root).
func (s *Service) DiscoverTypings(packageName, projectRoot string) *typings.Response {
	key := packageName + "\x00" + projectRoot
	if resp, ok := s.typingsCache.Get(key); ok {
		return resp
	}
	resp := s.discoverer.Discover(packageName, projectRoot)
	s.typingsCache.Add(key, resp)
	return resp
}

// Analyze parses one file into its import/export summary. Not memoized:
// source files change far more often than node_modules content.
func (s *Service) Analyze(filePath string) (*analyzer.Response, error) {
	return s.analyzer.Analyze(filePath)
}

// InvalidateCaches flushes the resolve and typings caches.
func (s *Service) InvalidateCaches() {
	s.resolveCache.Purge()
	s.typingsCache.Purge()
	s.logger.Debug("memo caches flushed")
}

// resolveKey builds the memo key (specifier | importer | options hash).
func resolveKey(req resolver.Request, opts resolver.Options) string {
	var b strings.Builder
	b.WriteString(req.Specifier)
	b.WriteByte(0)
	b.WriteString(req.Importer)
	b.WriteByte(0)
	b.WriteString(req.ProjectRoot)
	b.WriteByte(0)
	b.WriteString(strings.Join(opts.Conditions, ","))
	b.WriteByte(0)
	b.WriteString(strings.Join(opts.Extensions, ","))
	b.WriteByte(0)
	b.WriteString(strconv.FormatBool(opts.PreferCJS))
	return b.String()
}
