package config

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// ErrNoConfigFile is returned by Watch when there is no file to watch.
var ErrNoConfigFile = errors.New("no config file to watch")

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	load     func(path string) (*Config, error)
	log      *zap.Logger
	fs       *fsnotify.Watcher
	updates  chan *Config
}

// Watch starts watching path. Valid reloads are delivered on Updates();
// files that fail to load or validate are logged and skipped. The watcher
// stops and closes its channel when ctx is cancelled.
func Watch(ctx context.Context, path string, log *zap.Logger) (*Watcher, error) {
	return watch(ctx, path, DefaultDebounce, Reload, log)
}

func watch(ctx context.Context, path string, debounce time.Duration, load func(string) (*Config, error), log *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, ErrNoConfigFile
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file via rename.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		load:     load,
		log:      log,
		fs:       fsw,
		updates:  make(chan *Config, 1),
	}
	go w.run(ctx)
	return w, nil
}

// Updates returns the channel of reloaded configs.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.updates)
	defer w.fs.Close()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			fire = time.After(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			cfg, err := w.load(w.path)
			if err != nil {
				w.log.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("config reloaded", zap.String("path", w.path))
			select {
			case w.updates <- cfg:
			case <-ctx.Done():
				return
			}
		}
	}
}
