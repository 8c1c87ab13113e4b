package appconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 250 * time.Millisecond

// Watch reloads the config whenever the file changes on disk and calls
// onChange with the new config when it differs. The directory is watched so
// atomic replacements are seen. Watching stops when ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func(models.MonitoredAppConfig)) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target, err := filepath.Abs(s.path)
	if err != nil {
		fsWatcher.Close()
		return err
	}
	if err := fsWatcher.Add(filepath.Dir(target)); err != nil {
		fsWatcher.Close()
		return err
	}
	w := &watcher{store: s, target: target, fsWatcher: fsWatcher, onChange: onChange}
	go w.loop(ctx)
	s.log.Info("Config watcher started", "path", target)
	return nil
}

type watcher struct {
	store     *Store
	target    string
	fsWatcher *fsnotify.Watcher
	onChange  func(models.MonitoredAppConfig)
	mu        sync.Mutex
	timer     *time.Timer
}

func (w *watcher) loop(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		w.fsWatcher.Close()
		w.store.log.Info("Config watcher stopped")
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.store.log.Error("Config watcher error", "err", err)
		}
	}
}

// debounce collapses bursts of events for the file into one reload.
func (w *watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.reload)
}

func (w *watcher) reload() {
	cfg, changed, err := w.store.Reload()
	if err != nil {
		w.store.log.Warn("Config reload failed, keeping current config", "err", err)
		return
	}
	if changed {
		w.store.log.Info("Monitored app config reloaded", "apps", len(cfg.MonitoredApps))
		if w.onChange != nil {
			w.onChange(cfg)
		}
	}
}
