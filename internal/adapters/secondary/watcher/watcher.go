package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const defaultDebounce = 250 * time.Millisecond

// ReloadFunc reloads one artifact.
type ReloadFunc func(ctx context.Context) error

// Watcher triggers a reload when a watched artifact file is written, created or
// replaced. Parent directories are watched so atomic renames are seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	targets  map[string]ReloadFunc
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(targets map[string]ReloadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		targets:  make(map[string]ReloadFunc, len(targets)),
		debounce: defaultDebounce,
		pending:  make(map[string]*time.Timer),
	}

	dirs := make(map[string]bool)
	for path, fn := range targets {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		w.targets[abs] = fn
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run processes events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if fn, ok := w.targets[path]; ok {
				w.schedule(ctx, path, fn)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("artifact watcher error")
		}
	}
}

// schedule coalesces bursts of events for one file into a single reload.
func (w *Watcher) schedule(ctx context.Context, path string, fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		log.WithField("path", path).Info("artifact changed, reloading")
		if err := fn(ctx); err != nil {
			log.WithError(err).WithField("path", path).Warn("artifact reload failed, keeping previous version")
		}
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
