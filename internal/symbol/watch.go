package symbol

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay is the quiet period after the last file event before a
// reload runs.
const DefaultReloadDelay = 200 * time.Millisecond

// Watch reloads lib from dir whenever a file with a known extension changes.
// Bursts of events are coalesced into one reload after delay. A failed
// reload is logged and the previous content stays active. Watch blocks
// until ctx is cancelled.
func Watch(ctx context.Context, lib *Library, dir string, loaders map[string]FileLoader, delay time.Duration, logger *zap.Logger) error {
	if loaders == nil {
		loaders = DefaultLoaders()
	}
	if delay <= 0 {
		delay = DefaultReloadDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	timer := time.NewTimer(delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, loaders) {
				continue
			}
			logger.Debug("symbol file changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(delay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("symbol watcher error", zap.Error(err))

		case <-timer.C:
			n, err := lib.LoadDir(dir, loaders)
			if err != nil {
				logger.Warn("symbol library reload failed, keeping previous definitions",
					zap.String("dir", dir), zap.Error(err))
				continue
			}
			logger.Info("symbol library reloaded", zap.String("dir", dir), zap.Int("classes", n))
		}
	}
}

func relevant(ev fsnotify.Event, loaders map[string]FileLoader) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := loaders[strings.ToLower(filepath.Ext(base))]
	return ok
}
