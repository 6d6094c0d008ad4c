package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

type ScanOptions struct {
	SkipHidden bool
	Recursive  bool
}

type DirStats struct {
	Scanned uint32 // entries visited
	Matched uint32 // PDFs found
	Failed  uint32 // entries that could not be read
}

// ScanDirectory walks root and returns the PDFs under it in lexical order.
// Unreadable entries are counted and skipped; only a bad root is an error.
func ScanDirectory(root string, opts ScanOptions) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var paths []string
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		if path == root {
			return nil
		}
		stats.Scanned++
		if opts.SkipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsPDF(path) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, nil
}
