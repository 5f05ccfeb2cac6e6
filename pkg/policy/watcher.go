package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RuleLoader is the subset of a rule source the watcher needs.
type RuleLoader interface {
	LoadRules() ([]Rule, error)
}

// Watcher hot-reloads an engine's rule set when the rules file changes.
// Reloads are debounced to prevent reload storms from editors that emit
// several write events per save. A reload that fails to compile leaves
// the previous rule set in place.
type Watcher struct {
	engine   *Engine
	loader   RuleLoader
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given rules file path.
func NewWatcher(engine *Engine, loader RuleLoader, path string) *Watcher {
	return &Watcher{
		engine:   engine,
		loader:   loader,
		path:     path,
		debounce: 100 * time.Millisecond,
		logger:   slog.Default().With("component", "policy.watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Watch blocks, reloading the engine on file changes, until the context
// is cancelled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory rather than the file: editors replace files
	// on save, which drops a direct file watch.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("rule watcher started", "path", w.path)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.reload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("rule watcher error", "error", err)
		}
	}
}

// Stop terminates a running Watch and waits for it to return.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}
	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) reload() {
	rules, err := w.loader.LoadRules()
	if err != nil {
		w.logger.Error("rule reload failed, keeping previous set", "error", err, "path", w.path)
		return
	}
	if err := w.engine.LoadRules(rules); err != nil {
		w.logger.Error("rule reload rejected, keeping previous set", "error", err, "path", w.path)
		return
	}
	w.logger.Info("rules reloaded", "path", w.path, "rule_count", len(rules))
}
