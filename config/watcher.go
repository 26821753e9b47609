package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/edaniels/golog"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// A Watcher watches a config file for changes and emits every new valid
// version of it. Invalid intermediate versions are logged and skipped so a
// half-written file never reaches the consumer.
type Watcher struct {
	configCh                chan *Config
	watcher                 *fsnotify.Watcher
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
	logger                  golog.Logger
}

// NewWatcher returns a Watcher for the config at the given file path.
func NewWatcher(ctx context.Context, filePath string, logger golog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory; editors replace files on save and a watch on the
	// file itself is lost after the rename
	if err := fsWatcher.Add(filepath.Dir(filePath)); err != nil {
		return nil, errors.Wrapf(err, "cannot watch directory of %q", filePath)
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		configCh: make(chan *Config),
		watcher:  fsWatcher,
		cancel:   cancel,
		logger:   logger,
	}
	w.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		for {
			select {
			case <-cancelCtx.Done():
				return
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if event.Name != filePath || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := ReadAndEnsure(filePath)
				if err != nil {
					w.logger.Errorw("error reading changed config", "path", filePath, "error", err)
					continue
				}
				select {
				case <-cancelCtx.Done():
					return
				case w.configCh <- cfg:
				}
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				w.logger.Errorw("config watch error", "error", err)
			}
		}
	}, w.activeBackgroundWorkers.Done)
	return w, nil
}

// Config returns the channel of new config versions.
func (w *Watcher) Config() <-chan *Config {
	return w.configCh
}

// Close stops watching and releases the underlying resources.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.activeBackgroundWorkers.Wait()
	return err
}
