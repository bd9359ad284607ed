// Package watch re-runs a function when input files change.
//
// Changes are debounced: a burst of writes (an editor saving, a checkout)
// triggers one run after the directory has been quiet for the debounce
// period. Runs never overlap.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"skb-datatool/internal/errors"
	"skb-datatool/internal/logger"
)

// DefaultDebounce is used when no debounce period is given.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree for changed input files.
type Watcher struct {
	root     string
	suffixes []string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// New watches root and every directory below it for files ending in one of
// suffixes (".json" when none are given).
func New(root string, debounce time.Duration, suffixes ...string) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if len(suffixes) == 0 {
		suffixes = []string{".json"}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		root:     root,
		suffixes: suffixes,
		watcher:  fw,
		debounce: debounce,
		trigger:  make(chan struct{}, 1),
	}

	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}

		return nil
	})
}

// Relevant reports whether an event on name should trigger a run.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}

	for _, s := range w.suffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}

	return false
}

// Run calls fn once per debounced change until ctx is done. Errors from fn
// are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warnw("watcher error", "error", err)

		case <-w.trigger:
			if err := fn(); err != nil {
				logger.Errorw("run after change failed", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Warnw("cannot watch new directory", "dir", event.Name, "error", err)
			}

			w.schedule()

			return
		}
	}

	if !w.Relevant(event) {
		return
	}

	logger.Debugw("input changed", "file", event.Name, "op", event.Op.String())
	w.schedule()
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
