// FILE: stratacfg/strata/watch.go
package strata

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures automatic refresh on file changes.
type WatchOptions struct {
	// Debounce coalesces a burst of file events into one refresh. Editors
	// and atomic saves produce several events per write.
	Debounce time.Duration

	// Logger receives watcher lifecycle messages and refresh failures; the
	// watcher runs in the background with no caller to return errors to.
	Logger *slog.Logger
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce: DefaultDebounce,
		Logger:   slog.Default(),
	}
}

// watcher holds the state of one running watch loop.
type watcher struct {
	cancel   context.CancelFunc
	done     chan struct{}
	watching atomic.Bool
}

// Watch refreshes the configuration whenever a registered file source's
// backing file changes, until ctx is cancelled. It returns an error only if
// the watcher cannot start; refresh failures afterwards are logged and the
// previous data stays published.
func (c *Config) Watch(ctx context.Context) error {
	return c.WatchWithOptions(ctx, DefaultWatchOptions())
}

// WatchWithOptions is Watch with custom options. The watcher registers the
// files' parent directories rather than the files themselves: atomic saves
// replace inodes, and optional files may not exist yet. Events are filtered
// back to the registered paths.
func (c *Config) WatchWithOptions(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	paths := c.filePaths()
	if len(paths) == 0 {
		return fmt.Errorf("no file sources registered to watch")
	}

	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.watcher != nil && c.watcher.watching.Load() {
		return fmt.Errorf("already watching")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	watched := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &watcher{cancel: cancel, done: make(chan struct{})}
	w.watching.Store(true)
	c.watcher = w

	go c.watchLoop(ctx, w, fsw, watched, opts)
	return nil
}

// StopWatch stops the running watcher, if any, and waits for its loop to
// exit.
func (c *Config) StopWatch() {
	c.watchMu.Lock()
	w := c.watcher
	c.watcher = nil
	c.watchMu.Unlock()

	if w != nil {
		w.cancel()
		<-w.done
	}
}

// IsWatching returns true while the watch loop is running.
func (c *Config) IsWatching() bool {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	return c.watcher != nil && c.watcher.watching.Load()
}

// filePaths lists the backing files of all registered file sources.
func (c *Config) filePaths() []string {
	var paths []string
	for _, e := range c.snap.Load().entries {
		if fs, ok := e.source.(*fileSource); ok {
			paths = append(paths, fs.path)
		}
	}
	return paths
}

func (c *Config) watchLoop(ctx context.Context, w *watcher, fsw *fsnotify.Watcher, watched map[string]struct{}, opts WatchOptions) {
	defer close(w.done)
	defer w.watching.Store(false)
	defer fsw.Close()

	log := opts.Logger
	log.Info("config: watching for changes", "files", len(watched))

	var mu sync.Mutex
	var debounce *time.Timer
	defer func() {
		mu.Lock()
		if debounce != nil {
			debounce.Stop()
		}
		mu.Unlock()
	}()

	refresh := func() {
		published, err := c.Refresh()
		switch {
		case err != nil && !published:
			log.Error("config: refresh failed, keeping previous data", "error", err)
		case err != nil:
			log.Warn("config: refresh partially failed", "generation", c.Snapshot().Generation(), "error", err)
		case published:
			log.Info("config: reloaded", "generation", c.Snapshot().Generation())
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}
			mu.Lock()
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(opts.Debounce, refresh)
			mu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Error("config: watcher error", "error", err)
		}
	}
}
