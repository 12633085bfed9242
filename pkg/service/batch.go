package service

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/modgraph/pkg/typings"
	"github.com/gnana997/modgraph/pkg/util"
)

// Batch operations are throughput conveniences over the single-item APIs.
// They add no semantics: each item behaves exactly as its single-item
// call, and per-item failures are skipped rather than failing the batch.

// BatchDiscoverTypings discovers typings for many packages against one
// project root. Work runs on a bounded worker pool; results keep the input
// order of the package names.
func (s *Service) BatchDiscoverTypings(packageNames []string, projectRoot string) []*typings.Response {
	results := make([]*typings.Response, len(packageNames))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := util.GetOptimalPoolSize()
	if workers > len(packageNames) {
		workers = len(packageNames)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.DiscoverTypings(packageNames[i], projectRoot)
			}
		}()
	}
	for i := range packageNames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// CountTypeFiles returns the total number of declaration files that would
// be loaded for the given packages. Useful for progress indication before
// a batch read.
func (s *Service) CountTypeFiles(packageNames []string, projectRoot string) int {
	total := 0
	for _, resp := range s.BatchDiscoverTypings(packageNames, projectRoot) {
		total += len(resp.Files)
	}
	return total
}

// BatchReadFiles reads many files in parallel and returns path → content
// for the ones that could be read. Unreadable files are silently skipped.
// Reads go through the mmap-backed file cache; contents are copied out, so
// the returned strings outlive the cache.
func (s *Service) BatchReadFiles(paths []string) map[string]string {
	type readResult struct {
		path    string
		content string
		ok      bool
	}

	results := make([]readResult, len(paths))
	var wg sync.WaitGroup
	sem := make(chan struct{}, util.GetOptimalPoolSize())
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			data, err := s.files.Read(path)
			if err != nil {
				s.logger.Debug("batch read skipped file", "path", path, "error", err)
				return
			}
			results[i] = readResult{path: path, content: string(data), ok: true}
		}(i, path)
	}
	wg.Wait()

	out := make(map[string]string, len(paths))
	for _, r := range results {
		if r.ok {
			out[r.path] = r.content
		}
	}
	return out
}

// MatchFiles walks root and returns the files matching any include pattern
// and no exclude pattern (doublestar globs against root-relative
// forward-slash paths). With no include patterns every file matches.
func (s *Service) MatchFiles(root string, include, exclude []string) ([]string, error) {
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		if len(include) > 0 {
			matched := false
			for _, pattern := range include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
