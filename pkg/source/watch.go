package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before reporting changes.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// SkipDirs lists directory base names that are not watched.
	SkipDirs []string
	// Patterns are doublestar globs; only changes to matching files are reported.
	// Empty reports every change.
	Patterns []string
	// Debounce is the quiet period before onChange fires. Zero uses DefaultDebounce.
	Debounce time.Duration
}

// Watch reports batches of changed workspace files until ctx is cancelled.
// Paths passed to onChange are relative, slash separated and sorted.
// Directories created while watching are added to the watch set.
func Watch(ctx context.Context, root string, opts WatchOptions, onChange func(paths []string)) error {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: cannot watch %s", ErrWorkspaceUnavailable, root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	skipSet := buildSkipSet(opts.SkipDirs)
	if err := addTree(watcher, root, skipSet); err != nil {
		return err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !skipSet[filepath.Base(ev.Name)] {
						_ = addTree(watcher, ev.Name, skipSet)
					}
					continue
				}
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if len(opts.Patterns) > 0 && !matchesAny(opts.Patterns, rel) {
				continue
			}
			pending[rel] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", root, err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			onChange(paths)
		}
	}
}

func addTree(watcher *fsnotify.Watcher, dir string, skipSet map[string]bool) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && skipSet[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
