package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce is how long a write settles before the file is reprocessed.
const debounce = 100 * time.Millisecond

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

type watchState struct {
	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	isWatching bool
	done       chan struct{}
	pending    map[string]*time.Timer
}

// StartWatching watches dirs recursively and reprocesses every source file
// written under them. Each result is passed to report.
func (e *Engine) StartWatching(dirs []string, report func(*Result)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return ErrAlreadyWatching
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			w.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = w
	e.isWatching = true
	e.done = make(chan struct{})
	e.pending = make(map[string]*time.Timer)
	go e.watchLoop(w, e.done, report)
	return nil
}

// StopWatching stops the watcher started by StartWatching.
func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		return ErrNotWatching
	}
	e.isWatching = false
	close(e.done)
	for _, t := range e.pending {
		t.Stop()
	}
	e.pending = nil
	return e.watcher.Close()
}

func (e *Engine) watchLoop(w *fsnotify.Watcher, done <-chan struct{}, report func(*Result)) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event, report)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			e.logger.Error("watcher error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event, report func(*Result)) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !e.HasSourceExtension(event.Name) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isWatching {
		return
	}

	// several writes in a row count as one change
	if t, ok := e.pending[event.Name]; ok {
		t.Reset(debounce)
		return
	}
	name := event.Name
	e.pending[name] = time.AfterFunc(debounce, func() {
		e.mu.Lock()
		if !e.isWatching {
			e.mu.Unlock()
			return
		}
		delete(e.pending, name)
		e.mu.Unlock()

		res, changed, err := e.runChanged(name)
		if err != nil {
			e.logger.Error("error processing file", zap.String("file", name), zap.Error(err))
			return
		}
		if !changed {
			e.logger.Debug("content unchanged", zap.String("file", name))
			return
		}
		e.reportResult(res)
		if report != nil {
			report(res)
		}
	})
}

// runChanged processes filename unless its content is the same as on the
// previous call.
func (e *Engine) runChanged(filename string) (*Result, bool, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, false, fmt.Errorf("error reading file: %w", err)
	}
	if res, ok := e.cache.Get(filename, content); ok {
		return res, false, nil
	}
	res := e.RunSource(filename, content)
	e.cache.Set(filename, content, res)
	return res, true, nil
}

func (e *Engine) reportResult(res *Result) {
	if len(res.Diagnostics) == 0 {
		e.logger.Info("no issues found", zap.String("file", res.Filename))
		return
	}
	e.logger.Info("found issues",
		zap.String("file", res.Filename),
		zap.Int("count", len(res.Diagnostics)),
	)
	for _, d := range res.Diagnostics {
		e.logger.Info("issue",
			zap.String("kind", d.Kind),
			zap.String("message", d.Message),
			zap.Int("line", d.Start.Line),
		)
	}
}
