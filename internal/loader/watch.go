package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a model file must be quiet before it is read.
const DefaultDebounce = 100 * time.Millisecond

// Ingest reports the outcome of loading one model file while watching.
type Ingest struct {
	Path string
	ID   int
	Err  error
}

// Watcher inserts model files as they appear in the models directory.
// Each path is ingested at most once; rewriting a file does not insert it
// again.
type Watcher struct {
	loader   *Loader
	fsw      *fsnotify.Watcher
	Debounce time.Duration
}

// NewWatcher starts watching the models directory. Events that arrive
// before Run is called are buffered by fsnotify.
func (l *Loader) NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(l.opts.ModelsDir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", l.opts.ModelsDir, err)
	}
	return &Watcher{loader: l, fsw: fsw, Debounce: DefaultDebounce}, nil
}

// Run processes events until ctx is done. notify is called from the
// Run goroutine for every file ingested.
func (w *Watcher) Run(ctx context.Context, notify func(Ingest)) error {
	defer func() { _ = w.fsw.Close() }()

	logger := w.loader.logger
	pending := make(map[string]*time.Timer)
	ready := make(chan string)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || filepath.Ext(ev.Name) != ModelExt {
				continue
			}
			path := filepath.Clean(ev.Name)
			if w.loader.isIngested(path) {
				continue
			}
			if t, ok := pending[path]; ok {
				t.Reset(w.Debounce)
				continue
			}
			pending[path] = time.AfterFunc(w.Debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			if w.loader.isIngested(path) {
				continue
			}
			id, err := w.loader.LoadModelFile(path)
			if err != nil {
				logger.Warn("model rejected", "path", path, "error", err)
			} else {
				logger.Info("model ingested", "path", path, "id", id)
			}
			if notify != nil {
				notify(Ingest{Path: path, ID: id, Err: err})
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
