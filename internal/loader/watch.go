package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to the DDL files named by a set of paths.
//
// A file path is watched through its parent directory, so editors that
// save by renaming a temp file over the original are still seen. A
// directory path is watched recursively and its changes are filtered by
// the include patterns.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	include  []string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher starts watching paths. Close must be called to release it.
func NewWatcher(paths []string, opts Options, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		include:  include,
		debounce: debounce,
		logger:   opts.logger(),
	}

	for _, path := range paths {
		if err := w.add(path); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		w.files[abs] = true
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	}

	w.dirs = append(w.dirs, abs)
	return w.addTree(abs)
}

// addTree adds a directory and its non-hidden subdirectories.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether a change to name affects the watched documents.
func (w *Watcher) relevant(name string) bool {
	if w.files[name] {
		return true
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !w.underDir(name) {
		return false
	}
	ok, _ := Match(w.include, base)
	return ok
}

// Run calls onChange once per burst of relevant changes, after the burst
// has been quiet for the debounce interval. It returns when ctx is done.
// onChange runs on the Run goroutine, so bursts never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed []string
		seen    = make(map[string]bool)
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.underDir(event.Name) {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}

			w.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if !seen[event.Name] {
				seen[event.Name] = true
				changed = append(changed, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			batch := changed
			changed = nil
			clear(seen)
			onChange(ctx, batch)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) underDir(name string) bool {
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, name)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
