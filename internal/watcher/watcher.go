// Package watcher wires the tracker to filesystem notifications for the
// configured folder, so every write to a tracked file produces an edit
// script against its previous version.
package watcher

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/TypeTerrors/go_delta/conf"
	"github.com/TypeTerrors/go_delta/internal/tracker"
	"github.com/TypeTerrors/go_delta/pkg"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

type Watcher struct {
	tracker *tracker.Tracker
}

func NewWatcher(t *tracker.Tracker) *Watcher {
	return &Watcher{tracker: t}
}

// Start begins watching the configured folder and handles events until
// the context is cancelled.
func (w *Watcher) Start(ctx context.Context, wg *sync.WaitGroup) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	log.Infof("Watching directory: %s", conf.AppConfig.WatchFolder)
	err = fsw.Add(conf.AppConfig.WatchFolder)
	if err != nil {
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}

				if event.Op&fsnotify.Create == fsnotify.Create {
					w.handleCreate(event.Name)
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					w.handleWrite(event.Name)
				}
				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					w.handleRemove(event.Name)
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Error("Watcher error:", err)
			case <-ctx.Done():
				fsw.Close()
				return
			}
		}
	}()

	return fsw, nil
}

// Scan periodically walks the folder to pick up anything the event
// stream missed.
func (w *Watcher) Scan(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(conf.AppConfig.RescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Warn("Shutting down folder rescan...")
			return
		case <-ticker.C:
			w.Rescan()
		}
	}
}

// Rescan walks the folder once, tracking new files and diffing known
// ones against their baselines.
func (w *Watcher) Rescan() {
	files, err := pkg.ListFiles(conf.AppConfig.WatchFolder)
	if err != nil {
		log.Errorf("Rescan failed: %v", err)
		return
	}
	for _, path := range files {
		if w.tracker.IsTracked(path) {
			w.handleWrite(path)
		} else {
			w.handleCreate(path)
		}
	}
}

func (w *Watcher) handleCreate(path string) {
	if pkg.IsTemporaryFile(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	if err := w.tracker.Track(path); err != nil {
		log.Errorf("Failed to track %s: %v", path, err)
	}
}

func (w *Watcher) handleWrite(path string) {
	if pkg.IsTemporaryFile(path) {
		return
	}
	_, err := w.tracker.Update(path)
	if errors.Is(err, tracker.ErrNotTracked) {
		w.handleCreate(path)
		return
	}
	if err != nil {
		log.Errorf("Failed to diff %s: %v", path, err)
	}
}

func (w *Watcher) handleRemove(path string) {
	if pkg.IsTemporaryFile(path) {
		return
	}
	if err := w.tracker.Forget(path); err != nil {
		log.Errorf("Failed to forget %s: %v", path, err)
	}
}
