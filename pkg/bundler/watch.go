package bundler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// skippedDirs are never watched
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// SourceWatcher watches a source tree recursively and signals once per burst
// of changes
type SourceWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	ignored  []string
	debounce time.Duration
	changes  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSourceWatcher starts watching root. Directories in ignored (typically
// the output directory) are skipped so that writing a build does not
// trigger another one.
func NewSourceWatcher(root string, ignored []string, debounce time.Duration) (*SourceWatcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	sw := &SourceWatcher{
		watcher:  w,
		root:     absRoot,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
	for _, dir := range ignored {
		if abs, err := filepath.Abs(dir); err == nil {
			sw.ignored = append(sw.ignored, abs)
		}
	}

	if err := sw.addRecursive(absRoot); err != nil {
		_ = w.Close()
		return nil, err
	}

	log.Debug().Str("dir", absRoot).Msg("Watching for changes")

	sw.wg.Add(1)
	go sw.run()

	return sw, nil
}

// Changes receives a value after each debounced burst of changes
func (sw *SourceWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// Close stops watching
func (sw *SourceWatcher) Close() error {
	var err error
	sw.stopOnce.Do(func() {
		close(sw.stopCh)
		err = sw.watcher.Close()
		sw.wg.Wait()
	})
	return err
}

func (sw *SourceWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && sw.skip(path) {
			return filepath.SkipDir
		}
		if err := sw.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (sw *SourceWatcher) skip(path string) bool {
	if skippedDirs[filepath.Base(path)] {
		return true
	}
	for _, ignored := range sw.ignored {
		if path == ignored || strings.HasPrefix(path, ignored+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (sw *SourceWatcher) run() {
	defer sw.wg.Done()
	defer close(sw.changes)

	timer := time.NewTimer(sw.debounce)
	timer.Stop()

	for {
		select {
		case <-sw.stopCh:
			timer.Stop()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.handleEvent(event) {
				continue
			}
			timer.Reset(sw.debounce)

		case <-timer.C:
			select {
			case sw.changes <- struct{}{}:
			default:
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// handleEvent reports whether the event should trigger a rebuild
func (sw *SourceWatcher) handleEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if sw.skip(event.Name) || sw.skip(filepath.Dir(event.Name)) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := sw.addRecursive(event.Name); err != nil {
				log.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
			}
		}
	}

	log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("File changed")
	return true
}
