package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a Catalog whenever its document file changes on disk.
type Watcher struct {
	catalog  *Catalog
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger

	// OnReload, when set, is called after every reload attempt.
	OnReload func(changed bool, err error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher watches the directory containing path. The directory is watched
// rather than the file so that atomic replace-on-save is observed.
func NewWatcher(c *Catalog, path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog: create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		catalog:  c,
		path:     abs,
		debounce: DefaultDebounce,
		watcher:  fw,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SetDebounce overrides the debounce interval. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins processing file system events.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()

	w.logger.Debug("Catalog watcher started", zap.String("path", w.path))
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()

	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			timerCh = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Warn("Catalog watcher error", zap.Error(err))

		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	changed, err := w.catalog.Reload(w.path)
	if err != nil {
		w.logger.Error("Catalog reload failed, keeping previous catalog",
			zap.String("path", w.path), zap.Error(err))
	} else if changed {
		w.logger.Info("Catalog reloaded", zap.String("path", w.path))
	}

	if w.OnReload != nil {
		w.OnReload(changed, err)
	}
}
