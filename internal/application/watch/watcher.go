// Package watch re-runs the report when input files change.
package watch

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-hours-report/internal/data/scanner"
	"github.com/penwyp/go-hours-report/internal/util"
)

// FileEvent is a change to a supported input file.
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher forwards changes to work log files below the watched paths.
// Single files are watched through their directory because spreadsheet
// editors usually replace the file instead of writing it in place.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	events  chan FileEvent
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		files:   make(map[string]bool),
		events:  make(chan FileEvent, 100),
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
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		fw.files[filepath.Clean(path)] = true
		return fw.watcher.Add(filepath.Dir(path))
	}

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

// relevant keeps supported files; when only single files were registered
// in a directory, siblings are ignored.
func (fw *FileWatcher) relevant(name string) bool {
	if !scanner.IsSupported(name) {
		return false
	}
	if len(fw.files) == 0 || fw.files[filepath.Clean(name)] {
		return true
	}
	for file := range fw.files {
		if filepath.Dir(file) == filepath.Dir(name) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if fw.relevant(event.Name) {
				fw.events <- FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
