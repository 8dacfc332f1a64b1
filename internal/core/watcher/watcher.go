package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"glslreflect/internal/shared/observability"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher reports debounced changes to a tracked set of files. It watches the
// parent directories so editors that save via rename are still seen.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	exclude    []glob.Glob
	onChange   func([]string)
	callbackMu sync.Mutex

	trackMu sync.RWMutex
	tracked map[string]bool
	dirs    map[string]bool

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer

	startOnce sync.Once
}

func NewWatcher(debounce time.Duration, exclude []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	compiled := make([]glob.Glob, 0, len(exclude))
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		exclude:   compiled,
		onChange:  onChange,
		tracked:   make(map[string]bool),
		dirs:      make(map[string]bool),
		pending:   make(map[string]time.Time),
	}, nil
}

func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

// Track replaces the tracked file set. Directories no longer needed are
// unwatched. Missing files are fine as long as their directory exists.
func (w *Watcher) Track(paths []string) error {
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if w.isExcluded(abs) {
			continue
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	w.trackMu.Lock()
	defer w.trackMu.Unlock()

	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}
	for dir := range w.dirs {
		if !dirs[dir] {
			if err := w.fsWatcher.Remove(dir); err != nil {
				slog.Debug("failed to unwatch directory", "path", dir, "error", err)
			}
		}
	}

	w.tracked = files
	w.dirs = dirs
	return nil
}

// Tracked returns the tracked files, sorted.
func (w *Watcher) Tracked() []string {
	w.trackMu.RLock()
	defer w.trackMu.RUnlock()
	out := make([]string, 0, len(w.tracked))
	for p := range w.tracked {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Start begins delivering events. Calling it more than once is a no-op.
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if !w.isTracked(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) isTracked(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.trackMu.RLock()
	defer w.trackMu.RUnlock()
	return w.tracked[abs]
}

func (w *Watcher) isExcluded(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
