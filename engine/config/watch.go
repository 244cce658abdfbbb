package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the config file whenever it is written or re-created and hands the result to
// onChange. The file's directory is watched rather than the file itself so editors that save by
// renaming keep triggering reloads. Reloads start from Default, so keys removed from the file
// fall back to their defaults. Decode failures are logged and skipped.
//
// Parameters:
//   - ctx: watching stops when the context is done
//   - path: the config file to watch
//   - onChange: called from the watcher goroutine with each successfully decoded config
//
// Returns:
//   - error: error if the watcher cannot be created or the directory cannot be watched
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	if onChange == nil {
		panic("config: Watch requires a non-nil onChange")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg := Default()
				if err := LoadFile(cfg, abs); err != nil {
					logger.Warn("config reload failed", zap.String("path", abs), zap.Error(err))
					continue
				}
				logger.Info("config reloaded", zap.String("path", abs))
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
