package monitor

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// DefaultDebounce is how long the watcher waits after the last write to
// a definition file before announcing it. Editors and asset exporters
// tend to save in bursts; one event per burst is enough.
const DefaultDebounce = 500 * time.Millisecond

// WatcherOptions configure a [Watcher].
type WatcherOptions struct {
	// Debounce overrides [DefaultDebounce] when positive.
	Debounce time.Duration

	// Logger receives watch errors and skipped-path traces. Defaults to
	// a silent logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills in defaults for unset fields.
func (o *WatcherOptions) ValidateAndSetDefaults() error {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Watcher is a filesystem-backed [Source]. It watches a definition
// directory recursively and publishes asset events through its embedded
// [Bus]: file creation becomes [AssetAdded], writes become
// [AssetModified] (debounced per path), deletion and rename become
// [AssetRemoved]. Files that are not asset definitions are ignored.
//
// The embedded bus is part of the API: tests and composite sources may
// publish synthetic events directly.
type Watcher struct {
	*Bus

	root     string
	fs       *fsnotify.Watcher
	log      *log.Logger
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]EventClass

	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher over the definition directory at root.
// Every subdirectory present at construction is watched; directories
// created later are picked up as they appear.
func NewWatcher(root string, opts WatcherOptions) (*Watcher, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeWatchFailed, "watch root %q is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWatchFailed, err, "failed to create filesystem watcher")
	}

	w := &Watcher{
		Bus:      NewBus(),
		root:     root,
		fs:       fsw,
		log:      opts.Logger,
		debounce: opts.Debounce,
		timers:   make(map[string]*time.Timer),
		pending:  make(map[string]EventClass),
		done:     make(chan struct{}),
	}
	if err := w.addTree(root, false); err != nil {
		fsw.Close()
		return nil, errors.Wrap(errors.ErrCodeWatchFailed, err, "failed to watch %q", root)
	}
	return w, nil
}

// Start launches the event loop. The loop runs until ctx is cancelled
// or [Watcher.Close] is called, whichever comes first.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close stops the watcher and releases its filesystem handles. Close is
// idempotent; pending debounce timers are discarded without firing.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.timers = make(map[string]*time.Timer)
		w.pending = make(map[string]EventClass)
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		// A new directory may already contain definitions, e.g. when a
		// whole folder is moved into the tree at once.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name, true); err != nil {
				w.log.Warn("failed to watch new directory", "dir", event.Name, "err", err)
			}
			return
		}
	}

	if !strings.HasSuffix(event.Name, registry.FileSuffix) {
		return
	}

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		w.schedule(event.Name, AssetAdded)
	case event.Op&fsnotify.Write == fsnotify.Write:
		w.schedule(event.Name, AssetModified)
	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		w.cancelPending(event.Name)
		w.publishPath(event.Name, AssetRemoved)
	}
}

// schedule arms (or re-arms) the per-path debounce timer. Within one
// burst the first class wins: a create followed by writes is still an
// addition.
func (w *Watcher) schedule(path string, class EventClass) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if first, ok := w.pending[path]; ok {
		class = first
	}
	w.pending[path] = class
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	class, ok := w.pending[path]
	delete(w.pending, path)
	delete(w.timers, path)
	w.mu.Unlock()
	if !ok {
		return
	}

	select {
	case <-w.done:
		return
	default:
	}
	w.publishPath(path, class)
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	delete(w.timers, path)
	delete(w.pending, path)
}

func (w *Watcher) publishPath(path string, class EventClass) {
	assetPath, err := registry.FileToAssetPath(w.root, path)
	if err != nil {
		w.log.Debug("ignoring file outside asset tree", "file", path)
		return
	}
	w.Publish(Event{
		Class: class,
		Handle: registry.Handle{
			Name: strings.TrimSuffix(filepath.Base(path), registry.FileSuffix),
			Path: assetPath,
			Kind: registry.KindBlueprint,
		},
	})
}

// addTree watches dir and everything under it. When announce is set,
// definition files already present are scheduled as additions; the
// initial scan at construction keeps quiet so only changes after start
// become events.
func (w *Watcher) addTree(dir string, announce bool) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.fs.Add(path)
		}
		if announce && strings.HasSuffix(entry.Name(), registry.FileSuffix) {
			w.schedule(path, AssetAdded)
		}
		return nil
	})
}
