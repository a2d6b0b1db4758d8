// Package watch reports changes to a single file on disk.
package watch

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of writes into one event
const DefaultDebounce = 250 * time.Millisecond

// EventKind describes what happened to the watched file
type EventKind int

const (
	Changed EventKind = iota
	Removed
)

// String returns the event kind name
func (k EventKind) String() string {
	if k == Removed {
		return "removed"
	}
	return "changed"
}

// Event is emitted after the debounce window closes
type Event struct {
	Path string
	Kind EventKind
}

// Watcher watches one file through its parent directory, so that editors
// replacing the file atomically are still seen
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	events   chan Event
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// File starts watching path
func File(path string) (*Watcher, error) {
	return FileWithDebounce(path, DefaultDebounce)
}

// FileWithDebounce starts watching path with a custom debounce window
func FileWithDebounce(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fs:       fsw,
		events:   make(chan Event, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Events delivers debounced events; it is closed after Close
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		<-w.done
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.events)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending EventKind
	)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				pending = Removed
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				pending = Changed
			default:
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			select {
			case w.events <- Event{Path: w.path, Kind: pending}:
			case <-w.stop:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error for %s: %v", w.path, err)
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
