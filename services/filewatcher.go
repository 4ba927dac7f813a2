package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher calls Regenerate after any of the watched files changed.
// Directories are watched instead of the files themselves so that editors
// replacing a file via rename are still noticed.
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	files      map[string]bool
	debounce   time.Duration
	Regenerate func(ctx context.Context) error
}

func NewConfigWatcher(files []string, debounce time.Duration, regenerate func(ctx context.Context) error) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cw := &ConfigWatcher{
		watcher:    watcher,
		files:      make(map[string]bool),
		debounce:   debounce,
		Regenerate: regenerate,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		cw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return cw, nil
}

// Run blocks until ctx is cancelled or the watcher fails.
func (cw *ConfigWatcher) Run(ctx context.Context) error {
	defer func() {
		if err := cw.watcher.Close(); err != nil {
			slog.Error("Error closing config watcher", "error", err)
		}
	}()

	slog.Info("Config-Watcher gestartet", "files", len(cw.files))

	timer := time.NewTimer(cw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Config-Watcher gestoppt")
			return nil

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if cw.relevant(event) {
				slog.Debug("File-System Event empfangen", "event", event.Name, "op", event.Op)
				timer.Reset(cw.debounce)
			}

		case <-timer.C:
			if err := cw.Regenerate(ctx); err != nil {
				// the previous output stays in place
				slog.Error("Neugenerierung fehlgeschlagen", "error", err)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Config-Watcher Fehler", "error", err)
		}
	}
}

func (cw *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return cw.files[abs]
}
