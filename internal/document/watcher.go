package document

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/textutil"
)

// ErrWatcherClosed is returned by a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reloads a document when it changes on disk and hands the new
// value to a callback, normally Host.Sync.
type Watcher struct {
	path     string
	onChange func([]block.Object)
	onError  func(error)
	debounce time.Duration

	watcher   *fsnotify.Watcher
	debouncer textutil.Debouncer

	mu      sync.Mutex
	ignored []block.Object // last value written by this process
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the file must stay quiet before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithErrorHandler receives load and watch errors. They are logged either way.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher watches path. The containing directory is watched rather than
// the file, so editors that save by renaming a new file over the old one
// are seen too.
func NewWatcher(path string, onChange func([]block.Object), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFromPath(abs); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		watcher:  fsw,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// IgnoreNext records a value this process is about to write, so the
// resulting file event does not echo it back.
func (w *Watcher) IgnoreNext(objs []block.Object) {
	w.mu.Lock()
	w.ignored = objs
	w.mu.Unlock()
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.debouncer.Stop()
	w.wg.Wait()
	return w.watcher.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			logger.DebugTagf("document", "%s: %s", ev.Op, ev.Name)
			w.debouncer.Debounce(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	ignored := w.ignored
	w.mu.Unlock()
	if closed {
		return
	}

	objs, err := Load(w.path)
	if err != nil {
		w.report(err)
		return
	}
	if ignored != nil && block.EqualObjects(objs, ignored) {
		logger.DebugTagf("document", "skipping own write of %s", w.path)
		return
	}
	if w.onChange != nil {
		w.onChange(objs)
	}
}

func (w *Watcher) report(err error) {
	logger.WarnTagf("document", "watch %s: %v", w.path, err)
	if w.onError != nil {
		w.onError(err)
	}
}
