package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MathJSLab/mathjslab-www/config"
)

// Watcher monitors source folders for changes and triggers rebuilds
type Watcher struct {
	cfg     *config.Config
	watcher *fsnotify.Watcher
	events  chan Event
	rebuild RebuildFunc
}

// RebuildFunc is called after a debounced change to a source file.
type RebuildFunc func(path string) error

// Event represents a file system event
type Event struct {
	Type     EventType
	FilePath string
}

// EventType represents the type of file event
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
)

// watchedExts are the source file extensions that trigger a rebuild.
var watchedExts = map[string]bool{
	".md":   true,
	".html": true,
	".scss": true,
	".sass": true,
	".css":  true,
	".yaml": true,
	".yml":  true,
}

// NewWatcher creates a new file watcher over the configured source dirs
func NewWatcher(cfg *config.Config, rebuild RebuildFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		cfg:     cfg,
		watcher: fsWatcher,
		events:  make(chan Event, 100),
		rebuild: rebuild,
	}, nil
}

// Start begins monitoring all configured folders
func (w *Watcher) Start() error {
	folders := []string{w.cfg.Site.ContentDir}
	if w.cfg.Styles.SourceDir != "" {
		folders = append(folders, w.cfg.Styles.SourceDir)
	}

	for _, folder := range folders {
		if err := w.watcher.Add(folder); err != nil {
			return fmt.Errorf("failed to watch folder %s: %w", folder, err)
		}
		log.Printf("Watching folder: %s", folder)
	}

	// Start event processing goroutine
	go w.processEvents()

	return nil
}

// processEvents handles fsnotify events and converts them to our event type
func (w *Watcher) processEvents() {
	// Debounce timer to avoid processing rapid successive events
	debounce := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only process source files
			if !watchedExts[filepath.Ext(event.Name)] {
				continue
			}

			// Skip temp files
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}

			// Debounce: wait 500ms before processing
			if timer, exists := debounce[event.Name]; exists {
				timer.Stop()
			}

			// Stale timers stay in the map; Stop on a fired timer is a no-op
			debounce[event.Name] = time.AfterFunc(500*time.Millisecond, func() {
				w.handleEvent(event)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single file event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	var eventType EventType

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventCreated
		log.Printf("File created: %s", event.Name)
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventModified
		log.Printf("File modified: %s", event.Name)
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		eventType = EventDeleted
		log.Printf("File deleted: %s", event.Name)
	default:
		return // Ignore other events
	}

	// Non-blocking: the event channel is observational, a full or
	// unwatched channel must not stall rebuilds
	select {
	case w.events <- Event{Type: eventType, FilePath: event.Name}:
	default:
	}

	if w.rebuild == nil {
		return
	}
	if eventType == EventCreated || eventType == EventModified {
		if err := w.rebuild(event.Name); err != nil {
			log.Printf("Rebuild failed: %v", err)
		}
	}
}

// Events returns the event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher. The event channel is left open: a debounce
// timer may still fire after Stop and must not hit a closed channel.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
