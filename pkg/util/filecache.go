// FileCache provides memory-mapped file access for batch reads.
//
// Typings discovery hands consumers long lists of declaration files that
// are read once and shipped over the command boundary; mmap keeps those
// reads cheap (only accessed pages are faulted in) and the cache avoids
// re-opening files requested by several batches. When mmap fails the cache
// falls back to os.ReadFile so a read never fails just because mapping did.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
)

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles is the maximum number of files kept mapped. 0 means
	// unlimited. When the limit is reached Read still works but stops
	// caching new files.
	MaxFiles int

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig covers typical type-loading workloads: a project
// rarely pulls more than a few thousand declaration files per session.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{MaxFiles: 4096}
}

// FileCache reads files through a lazily-populated mmap cache.
//
// Thread-safe: reads take a shared lock, loads an exclusive one.
// Close must be called to unmap files and release descriptors.
type FileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu       sync.RWMutex
	mapped   map[string]*mappedFile
	fallback map[string][]byte

	hits   atomic.Int64
	misses atomic.Int64
}

type mappedFile struct {
	data mmap.MMap
	file *os.File
}

// NewFileCache creates a FileCache. A nil config uses defaults.
func NewFileCache(config *FileCacheConfig) *FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		config:   config,
		logger:   logger,
		mapped:   make(map[string]*mappedFile),
		fallback: make(map[string][]byte),
	}
}

// Read returns the file's contents, mapping it on first access.
//
// The returned slice aliases the mapped region for cached files; callers
// must not hold it past Close(). Copy before retaining.
func (fc *FileCache) Read(path string) ([]byte, error) {
	fc.mu.RLock()
	if mf, ok := fc.mapped[path]; ok {
		fc.mu.RUnlock()
		fc.recordHit()
		return mf.data, nil
	}
	if data, ok := fc.fallback[path]; ok {
		fc.mu.RUnlock()
		fc.recordHit()
		return data, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if mf, ok := fc.mapped[path]; ok {
		fc.recordHit()
		return mf.data, nil
	}
	if data, ok := fc.fallback[path]; ok {
		fc.recordHit()
		return data, nil
	}
	fc.recordMiss()

	if fc.config.MaxFiles > 0 && len(fc.mapped)+len(fc.fallback) >= fc.config.MaxFiles {
		// Over budget: serve the read without caching.
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.Size() == 0 {
		f.Close()
		fc.fallback[path] = []byte{}
		return []byte{}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		fc.logger.Warn("mmap failed, falling back to ReadFile", "path", path, "error", err)
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, rerr
		}
		fc.fallback[path] = raw
		return raw, nil
	}

	fc.mapped[path] = &mappedFile{data: data, file: f}
	return data, nil
}

// Size returns the number of cached files.
func (fc *FileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.mapped) + len(fc.fallback)
}

// Close unmaps every file and releases descriptors. Errors are aggregated;
// the cache is empty afterwards and may be reused.
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var firstErr error
	for path, mf := range fc.mapped {
		if err := mf.data.Unmap(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to unmap %q: %w", path, err)
		}
		if err := mf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	fc.mapped = make(map[string]*mappedFile)
	fc.fallback = make(map[string][]byte)
	return firstErr
}

func (fc *FileCache) recordHit()  { fc.hits.Add(1) }
func (fc *FileCache) recordMiss() { fc.misses.Add(1) }

// Stats returns cumulative hit/miss counts.
func (fc *FileCache) Stats() (hits, misses int64) {
	return fc.hits.Load(), fc.misses.Load()
}
