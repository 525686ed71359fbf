// Package watch re-runs a SQL statement whenever its source file changes.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Runner re-executes the statement read from the watched file.
type Runner func() error

// Editors save in bursts (truncate, write, rename); one save triggers one
// re-run.
const defaultDebounce = 500 * time.Millisecond

// FileWatcher re-runs a statement after each change to its source file.
type FileWatcher struct {
	// OnError reports a failed re-run; the watcher keeps watching.
	OnError func(error)

	path     string
	run      Runner
	fsw      *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
}

// New builds a watcher for the statement file at path. Editors replace
// files rather than rewrite them in place, so the containing directory is
// watched and events are filtered back down to the one file.
func New(path string, run Runner) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &FileWatcher{
		OnError:  func(err error) { fmt.Fprintln(os.Stderr, err) },
		path:     abs,
		run:      run,
		fsw:      fsw,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the statement once, then keeps re-running it as the file
// changes. A failing first run aborts; later failures go to OnError so a
// bad edit doesn't end the session.
func (w *FileWatcher) Start() error {
	if err := w.run(); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop ends watching. An in-flight re-run completes.
func (w *FileWatcher) Stop() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *FileWatcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var pending <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.isStatementChange(ev) {
				timer.Reset(w.debounce)
				pending = timer.C
			}

		case <-pending:
			pending = nil
			if err := w.run(); err != nil {
				w.OnError(err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.OnError(fmt.Errorf("watch %s: %w", w.path, err))

		case <-w.done:
			return
		}
	}
}

// isStatementChange reports whether ev rewrote or replaced the watched
// statement file.
func (w *FileWatcher) isStatementChange(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return false
	}
	p, err := filepath.Abs(ev.Name)
	return err == nil && p == w.path
}
