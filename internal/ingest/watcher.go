package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, walk roots and emit existing PDFs first
	Debounce    time.Duration // coalesce rapid create/write/rename bursts
	SkipHidden  bool
}

// StartWatcher emits the paths of PDFs that appear or change under the roots. Both
// channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("ingest.watch.no_roots")
		return nil, nil, errors.New("no roots provided")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("ingest.watch.create_failed", "error", err)
		return nil, nil, err
	}

	var existing []string
	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if cfg.SkipHidden && path != root && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && IsPDF(path) {
				existing = append(existing, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			logger.Error("ingest.watch.add_root_failed", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}
	logger.Info("ingest.watch.start", "roots", cfg.Roots, "existing", len(existing), "debounce", cfg.Debounce.String())

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("ingest.watch.close_error", "error", err)
			}
		}()

		emit := func(p string) bool {
			select {
			case evCh <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range existing {
			if !emit(p) {
				return
			}
		}

		// pending is owned by this goroutine; the timer only signals through its channel.
		pending := map[string]struct{}{}
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		flush := func() bool {
			for p := range pending {
				delete(pending, p)
				// a rename reports the old name, which may be gone by now
				if _, err := os.Stat(p); err != nil {
					continue
				}
				if !emit(p) {
					return false
				}
			}
			return true
		}
		schedule := func() bool {
			if cfg.Debounce > 0 {
				timer.Reset(cfg.Debounce)
				return true
			}
			return flush()
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				if !flush() {
					return
				}
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) {
					if found, isDir := watchNewDir(w, e.Name, cfg.SkipHidden, logger); isDir {
						if len(found) == 0 {
							continue
						}
						for _, p := range found {
							pending[p] = struct{}{}
						}
						if !schedule() {
							return
						}
						continue
					}
				}
				if cfg.SkipHidden && IsHidden(e.Name) {
					continue
				}
				if !IsPDF(e.Name) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Rename)) {
					continue
				}
				pending[e.Name] = struct{}{}
				if !schedule() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("ingest.watch.error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

// watchNewDir watches a directory that appeared under a root, along with everything
// below it, and returns the PDFs it already holds. A directory moved in arrives full.
// isDir is false when path is not a directory.
func watchNewDir(w *fsnotify.Watcher, dir string, skipHidden bool, logger *slog.Logger) (found []string, isDir bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	if skipHidden && IsHidden(dir) {
		return nil, true
	}
	// watch before listing so files written meanwhile show up as events or in the walk
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("ingest.watch.walk_error", "path", path, "error", walkErr)
			return nil
		}
		if skipHidden && path != dir && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				logger.Warn("ingest.watch.add_dir_failed", "path", path, "error", err)
			}
			return nil
		}
		if IsPDF(path) {
			found = append(found, path)
		}
		return nil
	})
	logger.Info("ingest.watch.dir_added", "path", dir, "existing", len(found))
	return found, true
}
