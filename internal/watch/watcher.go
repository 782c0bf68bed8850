// Package watch reloads a palette when its file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wethinkt/go-colorname/internal/applog"
	"github.com/wethinkt/go-colorname/internal/metrics"
	"github.com/wethinkt/go-colorname/internal/palette"
)

// Reloader rebuilds a palette from its source.
type Reloader interface {
	Reload(ctx context.Context) (*palette.Palette, error)
}

// PaletteWatcher watches a single palette file. It watches the parent
// directory rather than the file so that editors which save by
// write-and-rename are still seen.
type PaletteWatcher struct {
	path     string
	reloader Reloader
	debounce time.Duration
	watcher  *fsnotify.Watcher

	// OnReload, if set, is called after every reload attempt.
	OnReload func(p *palette.Palette, err error)

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for path. A zero debounce defaults to 500ms.
func New(path string, reloader Reloader, debounce time.Duration) (*PaletteWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &PaletteWatcher{
		path:     abs,
		reloader: reloader,
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher.
func (w *PaletteWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopTimer()
	applog.Log.Info("Watching palette file", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			applog.Log.Debug("Palette file event", "path", event.Name, "op", event.Op.String())
			w.schedule(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			applog.Log.Warn("Palette watcher error", "error", err)
		}
	}
}

func (w *PaletteWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule (re)starts the debounce timer.
func (w *PaletteWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *PaletteWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *PaletteWatcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer applog.Log.Timed("reload palette")()

	p, err := w.reloader.Reload(ctx)
	if err != nil {
		metrics.ObserveLoadError()
		applog.Log.Error("Palette reload failed, keeping previous palette", "path", w.path, "error", err)
	} else {
		applog.Log.Info("Palette reloaded", "path", w.path, "count", p.Count(), "degraded", len(p.Degraded()))
	}
	if w.OnReload != nil {
		w.OnReload(p, err)
	}
}
