// Package watcher reports debounced batches of file changes below a directory.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType is the kind of change seen for a path.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is a single change. Batches hold at most one event per path.
type ChangeEvent struct {
	Type EventType
	Path string
}

// Filter reports whether a path is of interest.
type Filter func(path string) bool

// Handler receives a debounced batch of changes.
type Handler func(events []ChangeEvent) error

// Watcher watches a directory tree and calls its handlers with debounced batches.
type Watcher struct {
	fsw      *fsnotify.Watcher
	delay    time.Duration
	skipDirs []string

	mu       sync.Mutex
	filters  []Filter
	handlers []Handler
	pending  map[string]ChangeEvent
	order    []string
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher that waits for delay of quiet before delivering a batch.
// Directories named in skipDirs are never watched.
func New(delay time.Duration, skipDirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		delay:    delay,
		skipDirs: skipDirs,
		pending:  make(map[string]ChangeEvent),
		done:     make(chan struct{}),
	}, nil
}

// AddFilter adds a filter. Every filter must accept a path for it to be reported.
func (w *Watcher) AddFilter(f Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, f)
}

// AddHandler adds a batch handler.
func (w *Watcher) AddHandler(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// AddRecursive watches root and every directory below it.
func (w *Watcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipped(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) skipped(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(w.skipDirs, name)
}

// Start processes events until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories need their own watch.
	if event.Has(fsnotify.Create) {
		if err := w.watchIfDir(event.Name); err != nil {
			log.Printf("File watcher error: %v", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, f := range w.filters {
		if !f(event.Name) {
			return
		}
	}

	if _, seen := w.pending[event.Name]; !seen {
		w.order = append(w.order, event.Name)
	}
	w.pending[event.Name] = ChangeEvent{Type: eventType(event.Op), Path: event.Name}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *Watcher) watchIfDir(path string) error {
	if w.skipped(filepath.Base(path)) {
		return nil
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != path && w.skipped(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreated
	case op.Has(fsnotify.Remove):
		return EventDeleted
	case op.Has(fsnotify.Rename):
		return EventRenamed
	default:
		return EventModified
	}
}

// flush delivers the pending batch in first-seen order.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.order) == 0 {
		w.mu.Unlock()
		return
	}
	events := make([]ChangeEvent, 0, len(w.order))
	for _, p := range w.order {
		events = append(events, w.pending[p])
	}
	w.pending = make(map[string]ChangeEvent)
	w.order = nil
	handlers := slices.Clone(w.handlers)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	for _, h := range handlers {
		if err := h(events); err != nil {
			log.Printf("File watcher handler error: %v", err)
		}
	}
}

// Close stops the watcher and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsw.Close()
	})
	return err
}
