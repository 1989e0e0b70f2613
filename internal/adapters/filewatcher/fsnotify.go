// Package filewatcher provides file system monitoring adapters.
// Clean Architecture: Adapter implementing ports.ReindexTrigger.
package filewatcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// CSVWatcher implements ports.ReindexTrigger using fsnotify.
// It watches the directory containing the catalog file (editors and
// spreadsheet exports often replace the file rather than write in place)
// and emits one signal per settled burst of changes to that file.
type CSVWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
}

// NewCSVWatcher creates a watcher for the given catalog file.
func NewCSVWatcher(path string, debounce time.Duration) (*CSVWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &CSVWatcher{
		watcher:  w,
		path:     filepath.Clean(path),
		debounce: debounce,
	}, nil
}

// Watch starts monitoring and emits one signal per settled change of the
// catalog file until ctx is cancelled.
func (w *CSVWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return nil, err
	}

	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)
		var timer *time.Timer
		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				// Restart the debounce window on every hit.
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					pending = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(w.debounce)
				}
			case <-pending:
				timer = nil
				pending = nil
				select {
				case signals <- struct{}{}:
				default: // a signal is already queued
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return signals, nil
}

// Stop stops the watcher.
func (w *CSVWatcher) Stop() error {
	return w.watcher.Close()
}
