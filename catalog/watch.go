package catalog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"go.ntppool.org/common/logger"
)

const debounceInterval = 100 * time.Millisecond

// Watch reloads the catalog at path whenever the file changes and passes
// each successfully loaded snapshot to update. It blocks until ctx is
// cancelled.
func Watch(ctx context.Context, path string, update func(*Catalog)) error {
	log := logger.FromContext(ctx).With("catalog", path)

	dir, fileName := filepath.Dir(path), filepath.Base(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.InfoContext(ctx, "watching catalog directory for changes", "dir", dir)

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		var debounceC <-chan time.Time
		if debounceTimer != nil {
			debounceC = debounceTimer.C
		}

		select {
		case <-debounceC:
			debounceTimer = nil
			c, err := reload(ctx, path)
			if err != nil {
				log.WarnContext(ctx, "could not reload catalog, keeping previous snapshot", "err", err)
				continue
			}
			log.InfoContext(ctx, "catalog reloaded", "entities", c.Len())
			update(c)

		case event, ok := <-watcher.Events:
			if !ok {
				log.WarnContext(ctx, "file watcher events channel closed")
				return nil
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.DebugContext(ctx, "catalog file changed", "event", event.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(debounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				log.WarnContext(ctx, "file watcher error channel closed")
				return nil
			}
			log.WarnContext(ctx, "file watcher error", "err", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		}
	}
}

// reload retries briefly so an editor that truncates and rewrites the
// file is not reported as a broken catalog.
func reload(ctx context.Context, path string) (*Catalog, error) {
	expback := backoff.NewExponentialBackOff()
	expback.InitialInterval = 50 * time.Millisecond
	expback.MaxInterval = time.Second

	return backoff.Retry(ctx, func() (*Catalog, error) {
		return Load(path)
	},
		backoff.WithBackOff(expback),
		backoff.WithMaxTries(4),
	)
}
