package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/partgrid/internal/ctxlog"
)

// DefaultDebounce is how long Watch waits for more events before it
// regenerates.
const DefaultDebounce = 200 * time.Millisecond

// Watch regenerates the plan whenever a description or source file under
// the description's root changes, until ctx is done. A failed regeneration
// is logged and does not stop the watch.
func (a *App) Watch(ctx context.Context, debounce time.Duration) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	root, err := watchRoot(a.config.Path)
	if err != nil {
		return err
	}
	if err := addTree(ctx, w, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	logger.Info("Watching for changes.", "root", root)

	a.regenerate(ctx)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !ignored(ev.Name) {
					if err := addTree(ctx, w, ev.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "path", ev.Name, "error", err)
					}
				}
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("File event.", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)

		case <-pending:
			pending = nil
			a.regenerate(ctx)
		}
	}
}

func (a *App) regenerate(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if err := a.Run(ctx); err != nil {
		logger.Error("Regeneration failed.", "error", err)
		return
	}
	logger.Info("Regenerated.")
}

func watchRoot(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("description path not found: %w", err)
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

// addTree watches dir and its subdirectories.
func addTree(ctx context.Context, w *fsnotify.Watcher, dir string) error {
	logger := ctxlog.FromContext(ctx)
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && ignored(path) {
			return filepath.SkipDir
		}
		logger.Debug("Watching directory.", "path", path)
		return w.Add(path)
	})
}

// ignored skips hidden directories and build directories like _build.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".hcl", ".ml", ".mli":
		return true
	}
	return false
}
