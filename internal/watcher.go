package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// InboxWatcher watches an inbox directory and reports image files that
// have appeared and settled, so a drop folder can feed the import
// pipeline continuously.
type InboxWatcher struct {
	watcher *fsnotify.Watcher
	cfg     *Config
	files   chan string
	errors  chan error
	done    chan bool
}

// NewInboxWatcher starts watching dir (and subdirectories created up
// front) for new image files.
func NewInboxWatcher(dir string, cfg *Config) (*InboxWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &InboxWatcher{
		watcher: fsWatcher,
		cfg:     cfg,
		files:   make(chan string, 100),
		errors:  make(chan error, 10),
		done:    make(chan bool, 1),
	}

	if err := w.addRecursive(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	// Process raw events in background
	go w.processEvents()

	return w, nil
}

// addRecursive adds a directory and all its subdirectories to the watcher
func (w *InboxWatcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// processEvents filters raw fsnotify events down to settled image files
func (w *InboxWatcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == 0 {
				continue
			}

			// New subdirectory: start watching it too
			if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
				w.watcher.Add(event.Name)
				continue
			}

			if !w.cfg.RecognizedExt(event.Name) {
				continue
			}

			if !waitSettled(event.Name) {
				continue // disappeared or never stopped growing
			}

			select {
			case w.files <- event.Name:
			default:
				// Channel full, drop - the next run's import catches it
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}

// waitSettled polls the file size until it stops changing, so a file
// still being copied into the inbox isn't hashed half-written.
func waitSettled(path string) bool {
	var lastSize int64 = -1
	for i := 0; i < 20; i++ {
		fi, err := os.Stat(path)
		if err != nil {
			return false
		}
		if fi.Size() == lastSize {
			return true
		}
		lastSize = fi.Size()
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// Files returns the channel of settled image files ready to import
func (w *InboxWatcher) Files() <-chan string {
	return w.files
}

// Errors returns the channel of watcher errors
func (w *InboxWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cleans up resources
func (w *InboxWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
