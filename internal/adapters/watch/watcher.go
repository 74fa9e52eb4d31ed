// Package watch implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a taxonomy
// directory, filters to label and unit definition files, and debounces
// rapid events (editors often trigger multiple writes per save).
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eslabs/cmdata/internal/ports"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":    true,
	".idea":   true,
	".vscode": true,
}

// File suffixes that carry taxonomy content.
var watchSuffixes = []string{".yaml", ".yml", ".txt"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring path recursively.
// onChange is called with the absolute path of each changed taxonomy file.
func (w *Watcher) Watch(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	err = filepath.Walk(absPath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if ignoreDirs[info.Name()] && p != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)
	var dmu sync.Mutex
	const debounceInterval = 50 * time.Millisecond

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				p := event.Name

				// New directories join the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(p); err == nil && info.IsDir() {
						if !ignoreDirs[info.Name()] {
							w.fw.Add(p)
						}
					}
				}

				if !watchedFile(p) {
					continue
				}

				dmu.Lock()
				last, exists := debounce[p]
				now := time.Now()
				if exists && now.Sub(last) < debounceInterval {
					dmu.Unlock()
					continue
				}
				debounce[p] = now
				dmu.Unlock()

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(p)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// nothing actionable on the error stream

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

func watchedFile(path string) bool {
	name := filepath.Base(path)
	// Editor lock and swap files can carry a watched suffix (".#x.yaml").
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "#") {
		return false
	}
	for _, suffix := range watchSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
