package notebook

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/noelzubin/vocabnotes/logger"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads a store when its directory changes on disk and tells the
// subscribers once the reload changed something.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	subscribers []func()
	started     bool
	closed      bool
	done        chan struct{}
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fw.Add(store.Root()); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", store.Root())
	}

	w := &Watcher{
		store:    store,
		watcher:  fw,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Subscribe registers fn to run after every reload that changed the store.
func (w *Watcher) Subscribe(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isNotebookFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugw("Notebook file changed",
				"file", event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Notebook watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	changed, err := w.store.Reload()
	if err != nil {
		logger.Errorw("Notebook reload failed", "error", err)
		return
	}
	if !changed {
		return
	}

	w.mu.Lock()
	subscribers := append([]func(){}, w.subscribers...)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	logger.Infow("Notebooks changed on disk", "subscribers", len(subscribers))
	for _, fn := range subscribers {
		fn()
	}
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	return err
}
