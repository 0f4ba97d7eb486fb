package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/amio-io/json-validations-lib/pkg/config"
	"github.com/amio-io/json-validations-lib/pkg/console"
	"github.com/amio-io/json-validations-lib/pkg/logging"
	"github.com/amio-io/json-validations-lib/pkg/metrics"
	"github.com/amio-io/json-validations-lib/pkg/schema"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const debounceDelay = 300 * time.Millisecond

// watcher revalidates data files when they or the schemas change
type watcher struct {
	cfg      *config.Config
	files    map[string]bool // absolute paths of watched data files
	out      io.Writer
	observer schema.Observer

	runMu     sync.Mutex // serializes revalidation runs
	stopped   bool       // guarded by runMu
	mu        sync.Mutex
	validator *schema.Validator
}

// WatchFiles validates files once, then again whenever a file or a schema in
// cfg.SchemaDir changes, until ctx is cancelled.
func WatchFiles(ctx context.Context, cfg *config.Config, files []string, out io.Writer, verbose bool) error {
	if cfg.SchemaID == "" {
		return errors.New("no schema id given, use --schema-id or JSONV_SCHEMA_ID")
	}
	if len(files) == 0 {
		return errors.New("no files to watch")
	}

	logger := logging.WithComponent("watch")

	w := &watcher{cfg: cfg, files: make(map[string]bool), out: out}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		w.observer = metrics.NewObserver(reg)
		stopMetrics := serveMetrics(cfg.MetricsAddr, reg)
		defer stopMetrics()
		fmt.Fprintln(out, console.FormatInfoMessage(fmt.Sprintf("Serving metrics on %s/metrics", cfg.MetricsAddr)))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()
	defer w.stop()

	dirs := map[string]bool{}
	schemaDir, err := filepath.Abs(cfg.SchemaDir)
	if err != nil {
		return err
	}
	dirs[schemaDir] = true
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	fmt.Fprintln(out, console.FormatLocationMessage(fmt.Sprintf("Watching %d files and schemas in %s...", len(w.files), cfg.SchemaDir)))

	if err := w.reloadSchemas(); err != nil {
		fmt.Fprintln(out, console.FormatWarningMessage(fmt.Sprintf("Initial schema load failed: %v", err)))
	} else {
		w.validate(ctx, w.sortedFiles())
	}

	var debounceTimer *time.Timer
	var pendingMu sync.Mutex
	pending := make(map[string]struct{})
	schemasChanged := false

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher channel closed")
			}

			isSchema := !w.files[event.Name] && filepath.Dir(event.Name) == schemaDir && isSchemaFile(event.Name)
			if !isSchema && !w.files[event.Name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("detected change")

			pendingMu.Lock()
			if isSchema {
				schemasChanged = true
			} else {
				pending[event.Name] = struct{}{}
			}
			pendingMu.Unlock()

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				pendingMu.Lock()
				reload := schemasChanged
				changed := make([]string, 0, len(pending))
				for file := range pending {
					changed = append(changed, file)
				}
				pending = make(map[string]struct{})
				schemasChanged = false
				pendingMu.Unlock()

				w.handleChanges(ctx, reload, changed)
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			w.stop()
			if verbose {
				fmt.Fprintln(out, console.FormatInfoMessage("Stopping watch mode..."))
			}
			return nil
		}
	}
}

// stop waits for a running revalidation and prevents later ones from writing output
func (w *watcher) stop() {
	w.runMu.Lock()
	w.stopped = true
	w.runMu.Unlock()
}

func (w *watcher) handleChanges(ctx context.Context, reload bool, changed []string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.stopped {
		return
	}

	if reload {
		fmt.Fprintln(w.out, console.FormatProgressMessage("Schemas changed, reloading..."))
		if err := w.reloadSchemas(); err != nil {
			fmt.Fprintln(w.out, console.FormatErrorMessage(err.Error()))
			return
		}
		// every file may be affected by a schema change
		changed = w.sortedFiles()
	}
	sort.Strings(changed)
	w.validate(ctx, changed)
}

func (w *watcher) reloadSchemas() error {
	validator, err := loadValidator(w.cfg, w.observer)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.validator = validator
	w.mu.Unlock()
	return nil
}

func (w *watcher) validate(ctx context.Context, files []string) {
	w.mu.Lock()
	validator := w.validator
	w.mu.Unlock()
	if validator == nil || len(files) == 0 {
		return
	}

	results := validateConcurrently(ctx, validator, files, w.cfg.Concurrency)
	if err := reportResults(results, w.cfg.Output, w.out, true); err != nil && !errors.Is(err, ErrValidationFailed) {
		fmt.Fprintln(w.out, console.FormatErrorMessage(err.Error()))
	}
}

func (w *watcher) sortedFiles() []string {
	files := make([]string, 0, len(w.files))
	for file := range w.files {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

func isSchemaFile(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// serveMetrics exposes reg on addr/metrics and returns a function that stops the server
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	logger := logging.WithComponent("metrics")
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
