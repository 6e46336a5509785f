// Package watch provides a single-file change watcher backing
// `convert --watch` (§11 enrichment).
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 200 * time.Millisecond

// FileWatcher watches one ontology source file and emits a signal each
// time it changes, debouncing the burst of events most editors produce
// per save (write-then-rename, or several writes in quick succession).
type FileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

func NewFileWatcher() (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher: w,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}, nil
}

// Watch starts monitoring path's containing directory (fsnotify watches
// directories, not individual files, since editors replace files on save
// rather than writing them in place) and returns a channel that receives
// a signal after each debounced burst of changes to path specifically.
func (fw *FileWatcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	fw.wg.Add(1)
	go fw.processEvents(ctx, abs)

	return fw.events, nil
}

func (fw *FileWatcher) processEvents(ctx context.Context, target string) {
	defer fw.wg.Done()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-fw.done:
			return
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			pending = true
			timer.Reset(debounceInterval)
		case <-timer.C:
			if pending {
				pending = false
				select {
				case fw.events <- struct{}{}:
				case <-fw.done:
					return
				case <-ctx.Done():
					return
				}
			}
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Stop halts watching and closes the event channel.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	fw.mu.Unlock()

	close(fw.done)
	err := fw.watcher.Close()
	fw.wg.Wait()
	close(fw.events)

	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}
