package server

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// #region reload

const reloadDebounce = 500 * time.Millisecond

// WatchConfig watches the config file and applies it after edits settle.
// Editors often emit bursts of write/rename events for a single save, so
// events are debounced before the reload fires. Blocks until ctx is
// cancelled; returns nil if the path is empty.
func (s *Server) WatchConfig(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic saves replace the inode
	// and a file-level watch dies with the old one.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[SERVER] config watch: %v", err)
		case <-fire:
			if err := s.ReloadConfig(path); err != nil {
				log.Printf("[SERVER] config reload failed, keeping previous: %v", err)
			}
		}
	}
}

// #endregion reload
