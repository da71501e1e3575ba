// Package preview serves the generated site locally and rebuilds it when the
// content store changes.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.ormside.net/rke/blogbuilder/internal/logfields"
)

// Options configures a serve session.
type Options struct {
	ContentDir string
	OutputDir  string
	Port       int

	QuietWindow     time.Duration
	MaxDelay        time.Duration
	RebuildInterval time.Duration // 0 disables scheduled rebuilds

	// Rebuild runs one full build. It is called for the initial build and for
	// every coalesced change trigger.
	Rebuild func(context.Context) error

	// MetricsHandler, when non-nil, is mounted at /metrics.
	MetricsHandler http.Handler
}

// buildStatus tracks the current build state for /healthz.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) set(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) snapshot() (err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Serve runs the preview loop until the context is canceled: initial build,
// file watching with debounced rebuilds, optional scheduled rebuilds, and an
// HTTP server over the output directory.
func Serve(ctx context.Context, opts Options) error {
	if opts.Rebuild == nil {
		return errors.New("preview requires a rebuild function")
	}

	status := &buildStatus{}
	status.set(opts.Rebuild(ctx))
	if err, _ := status.snapshot(); err != nil {
		// Serving continues so the author can fix the content and save again.
		slog.Error("initial build failed", logfields.Error(err))
	}

	debouncer, err := NewDebouncer(opts.QuietWindow, opts.MaxDelay)
	if err != nil {
		return err
	}

	watcher, err := newContentWatcher(opts.ContentDir, debouncer)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	var scheduler *Scheduler
	if opts.RebuildInterval > 0 {
		scheduler, err = NewScheduler(opts.RebuildInterval, debouncer.Request)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { _ = scheduler.Stop() }()
	}

	server := newHTTPServer(opts, status)
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("preview server listening", logfields.Port(opts.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	go debouncer.Run(ctx)
	go watcher.run(ctx)

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-serverErr:
			return fmt.Errorf("preview server failed: %w", err)
		case <-debouncer.Triggers():
			slog.Info("content changed, rebuilding")
			buildErr := opts.Rebuild(ctx)
			status.set(buildErr)
			if buildErr != nil {
				slog.Error("rebuild failed", logfields.Error(buildErr))
			}
		}
	}
}

func newHTTPServer(opts Options, status *buildStatus) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		err, hasGoodBuild := status.snapshot()
		resp := map[string]any{"ok": err == nil, "has_good_build": hasGoodBuild}
		code := http.StatusOK
		if err != nil {
			resp["error"] = err.Error()
			code = http.StatusInternalServerError
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})

	if opts.MetricsHandler != nil {
		mux.Handle("/metrics", opts.MetricsHandler)
	}

	mux.Handle("/", http.FileServer(http.Dir(opts.OutputDir)))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// contentWatcher forwards fsnotify events for the content tree to the
// debouncer, adding newly created directories to the watch set.
type contentWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
}

func newContentWatcher(contentDir string, debouncer *Debouncer) (*contentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	walkErr := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != contentDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
	if walkErr != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch content directory: %w", walkErr)
	}

	return &contentWatcher{watcher: w, debouncer: debouncer}, nil
}

func (cw *contentWatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// Best effort: new subdirectories join the watch set.
				_ = cw.watcher.Add(event.Name)
			}
			cw.debouncer.Request()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", logfields.Error(err))
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (cw *contentWatcher) Close() error {
	return cw.watcher.Close()
}
