// Package watcher reports settled changes to local dataset files.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/levelboard/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches the parent directories of a set of files so that
// replace-by-rename writes are seen, and calls notify once a burst of
// changes has settled.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	notify   func(ctx context.Context, path string)
	debounce time.Duration
	logger   logger.Logger

	mu    sync.Mutex
	timer *time.Timer
	last  string

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a watcher for files. notify runs on its own goroutine after
// the debounce interval with the last path that changed.
func New(files []string, notify func(ctx context.Context, path string), opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("watcher: no files to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}, len(files)),
		notify:   notify,
		debounce: defaultDebounce,
		logger:   logger.Get().Named("watcher"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watcher: %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watcher: add %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start processes file events until ctx is canceled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.processEvents(ctx)
}

// Close stops the watcher and any pending notification.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "file watch error", logger.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}
	w.logger.Debug(ctx, "dataset file changed", logger.String("path", path), logger.String("op", ev.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.mu.Lock()
		changed := w.last
		w.mu.Unlock()
		w.notify(ctx, changed)
	})
}
