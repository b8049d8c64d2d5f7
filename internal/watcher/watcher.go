// Package watcher re-runs analysis when the snapshot file changes on disk.
package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"critpath/internal/shared/observability"
)

type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	target     string
	debounce   time.Duration
	exclude    []glob.Glob
	onChange   func(path string)
	callbackMu sync.Mutex

	pendingMu sync.Mutex
	pending   bool
	timer     *time.Timer
}

// NewWatcher watches the directory containing path. Editors typically save
// through a rename, so watching the file itself would lose the watch on the
// first write.
func NewWatcher(path string, debounce time.Duration, exclude []string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		target:    filepath.Clean(path),
		debounce:  debounce,
		onChange:  onChange,
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		w.exclude = append(w.exclude, g)
	}

	return w, nil
}

func (w *Watcher) Start() error {
	dir := filepath.Dir(w.target)
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	go w.run()
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			observability.WatcherEventsTotal.Inc()
			w.scheduleChange()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	base := filepath.Base(event.Name)
	for _, g := range w.exclude {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (w *Watcher) scheduleChange() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	fire := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if fire {
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(w.target)
	}
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
