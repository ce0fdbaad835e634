// Package watch re-runs generation when files under the source root change.
package watch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/util/paths"
)

// DefaultDebounce is the quiet period before a batch of changes is handled
const DefaultDebounce = 100 * time.Millisecond

// Options configures a FileWatcher
type Options struct {
	// Ignored lists paths whose changes never trigger a run (the output directory).
	// Only paths inside the watched root are honoured.
	Ignored  []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// FileWatcher monitors a directory tree and calls onChange with debounced batches
type FileWatcher struct {
	root      string
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	ignored   []string
	onChange  func([]string) error
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewFileWatcher creates a watcher for root. onChange receives the sorted
// changed paths; batches are delivered one at a time.
func NewFileWatcher(root string, onChange func([]string) error, opts Options) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	fw := &FileWatcher{
		root:      root,
		watcher:   watcher,
		debouncer: NewDebouncer(opts.Debounce),
		onChange:  onChange,
		logger:    opts.Logger,
		stopChan:  make(chan struct{}),
		ignored:   paths.Inside(root, opts.Ignored),
	}

	fw.debouncer.SetCallback(func(files []string) {
		if err := fw.onChange(files); err != nil {
			fw.logger.Warn("error handling file changes", zap.Error(err))
		}
	})

	return fw, nil
}

// Start adds every directory under root and begins watching in the background
func (fw *FileWatcher) Start() error {
	dirs, err := fw.findDirectories(fw.root)
	if err != nil {
		return errors.Wrap(err, "failed to find directories")
	}

	for _, dir := range dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch directory %s", dir)
		}
		fw.logger.Debug("watching directory", zap.String("dir", dir))
	}

	fw.wg.Add(1)
	go fw.watch()

	return nil
}

// Stop stops the file watcher; it is safe to call more than once
func (fw *FileWatcher) Stop() error {
	select {
	case <-fw.stopChan:
		return nil
	default:
		close(fw.stopChan)
	}

	fw.wg.Wait()
	fw.debouncer.Stop()
	return fw.watcher.Close()
}

// watch is the main event loop
func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.Error(err))

		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if fw.shouldIgnore(event.Name) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	// New directories are watched as they appear
	if event.Has(fsnotify.Create) {
		if dirs, err := fw.findDirectories(event.Name); err == nil {
			for _, dir := range dirs {
				if err := fw.watcher.Add(dir); err != nil {
					fw.logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
				}
			}
		}
	}

	fw.logger.Debug("file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
	fw.debouncer.Add(event.Name)
}

// findDirectories returns start and every non-hidden, non-ignored directory below it
func (fw *FileWatcher) findDirectories(start string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != start && fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

// shouldIgnore checks if a path should be ignored
func (fw *FileWatcher) shouldIgnore(path string) bool {
	// Hidden files and directories, including the emitter's staging directory
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}

	return paths.Under(path, fw.ignored)
}

// Debouncer collects file changes and triggers callbacks after a quiet period
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	running  sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a changed file and restarts the quiet period
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush hands the accumulated files to the callback. Callbacks never
// overlap; changes arriving during a callback start the next batch.
func (d *Debouncer) flush() {
	d.running.Lock()
	defer d.running.Unlock()

	d.mutex.Lock()
	if len(d.files) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	sort.Strings(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels any pending batch and waits for a running callback to return
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mutex.Unlock()

	d.running.Lock()
	defer d.running.Unlock()
}
