package garment

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// ReloadDelay is how long the watcher waits for file activity to settle before
// rescanning the wardrobe.
const ReloadDelay = 500 * time.Millisecond

// Watch reloads the catalog whenever files under its root change, then calls
// onReload. It blocks until ctx is done.
func (c *Catalog) Watch(ctx context.Context, onReload func()) error {
	if c.root == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(c.root); err != nil {
		return errors.Wrapf(err, "watch %s", c.root)
	}
	for dir := range classDirs {
		path := filepath.Join(c.root, dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return errors.Wrapf(err, "watch %s", path)
			}
		}
	}

	debounced := debounce.New(ReloadDelay)
	reload := func() {
		if err := c.Load(); err != nil {
			c.logger.Warnw("wardrobe reload failed", "error", err)
			return
		}
		if onReload != nil {
			onReload()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New class folders need their own watch.
			if event.Has(fsnotify.Create) {
				if _, isClassDir := classDirs[filepath.Base(event.Name)]; isClassDir {
					if err := watcher.Add(event.Name); err != nil {
						c.logger.Warnw("failed to watch new folder", "path", event.Name, "error", err)
					}
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			debounced(reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warnw("wardrobe watcher error", "error", err)
		}
	}
}
