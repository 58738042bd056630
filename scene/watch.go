package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"geoboard/logging"
)

// WatchDebounce is how long Watch waits after the last write before
// reloading.
const WatchDebounce = 100 * time.Millisecond

// Watch reloads the scene at path whenever the file is written and calls fn
// with the result, until ctx is done. Parse errors are passed to fn as
// well, so the caller can keep the previous scene and report the error.
func Watch(ctx context.Context, path string, fn func(*Scene, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scene: create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file, so watch the directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("scene: watch %s: %w", path, err)
	}

	log := logging.Logger()
	debounce := time.NewTimer(WatchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounce.Reset(WatchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("scene watcher error", "path", path, "err", err)
		case <-debounce.C:
			sc, err := Load(path)
			if err != nil {
				log.Warn("scene reload failed", "path", path, "err", err)
			} else {
				log.Info("scene reloaded", "path", path, "title", sc.Title)
			}
			fn(sc, err)
		}
	}
}
