package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-winscope/internal/data/scanner"
	"github.com/penwyp/go-winscope/internal/util"
)

// FileEvent is a change to one trace file
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher reports changes to trace files under a set of directories
type FileWatcher struct {
	watcher *fsnotify.Watcher
	paths   []string
	events  chan FileEvent
	done    chan struct{}
	once    sync.Once
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		paths:   paths,
		events:  make(chan FileEvent, 100),
		done:    make(chan struct{}),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	// Recursively add directories
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			return fw.watcher.Add(p)
		}

		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addPath(event.Name); err != nil {
						util.LogWarnf("Watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if event.Has(fsnotify.Chmod) || !scanner.IsTraceFile(event.Name) {
				continue
			}
			select {
			case fw.events <- FileEvent{Path: event.Name, Operation: event.Op.String()}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the trace file change channel. It is closed by Close.
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Changes coalesces bursts of events into one signal sent after quiet has
// passed without further events. The channel closes when ctx is done or the
// watcher is closed.
func (fw *FileWatcher) Changes(ctx context.Context, quiet time.Duration) <-chan []FileEvent {
	out := make(chan []FileEvent, 1)
	go func() {
		defer close(out)
		var (
			pending []FileEvent
			timer   *time.Timer
			fire    <-chan time.Time
		)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.events:
				if !ok {
					return
				}
				pending = append(pending, ev)
				if timer == nil {
					timer = time.NewTimer(quiet)
				} else {
					timer.Reset(quiet)
				}
				fire = timer.C
			case <-fire:
				batch := pending
				pending = nil
				fire = nil
				select {
				case out <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Close stops watching. It also releases processEvents when nobody drains
// the events channel.
func (fw *FileWatcher) Close() error {
	fw.once.Do(func() { close(fw.done) })
	return fw.watcher.Close()
}
