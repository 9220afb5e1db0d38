package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/utils"
)

// DefaultDebounce is how long the watcher waits for changes to settle
const DefaultDebounce = 500 * time.Millisecond

// Watcher regenerates spies when Swift sources under the watched roots change
type Watcher struct {
	watcher     *fsnotify.Watcher
	generator   *Generator
	diagnostics *utils.DiagnosticSystem
	exclude     []string
	debounce    time.Duration
	opts        RunOptions

	mu      sync.Mutex
	pending map[string]bool
	runs    int
}

// NewWatcher creates a watcher that regenerates through gen
func NewWatcher(gen *Generator, diagnostics *utils.DiagnosticSystem) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, spyerrors.WrapFileSystemError("watch", ".", spyerrors.WrapPlain(err, "fsnotify"))
	}
	return &Watcher{
		watcher:     fsw,
		generator:   gen,
		diagnostics: diagnostics,
		exclude:     gen.config.Exclude,
		debounce:    DefaultDebounce,
		pending:     make(map[string]bool),
	}, nil
}

// SetDebounce changes the settle period
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Runs returns how many regeneration passes have completed
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Add watches every directory below the given roots
func (w *Watcher) Add(roots []string) error {
	dirFilter := utils.DefaultDirectoryFilter()
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return spyerrors.WrapFileSystemError("walk", path, err)
			}
			if !entry.IsDir() {
				return nil
			}
			if path != root && (!dirFilter(path, entry) || w.isOutputDir(path)) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				return spyerrors.WrapFileSystemError("watch", path, spyerrors.WrapPlain(err, "fsnotify"))
			}
			w.diagnostics.Debug("Watching %s", path)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run processes file system events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.isOutputDir(event.Name) {
						continue
					}
					if err := w.Add([]string{event.Name}); err != nil {
						w.diagnostics.Warn("Cannot watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.diagnostics.Verbose("Change detected: %s (%s)", event.Name, event.Op)
			w.mu.Lock()
			w.pending[event.Name] = true
			w.mu.Unlock()
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("Watcher error: %v", err)

		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// relevant reports whether a changed path can hold @Spyable declarations
func (w *Watcher) relevant(path string) bool {
	if !strings.HasSuffix(path, ".swift") {
		return false
	}
	if utils.MatchesAny(path, w.exclude) || w.isOutputDir(filepath.Dir(path)) {
		return false
	}
	return true
}

func (w *Watcher) isOutputDir(dir string) bool {
	if w.generator.config.Output != "" {
		out, err := filepath.Abs(w.generator.config.Output)
		if err == nil && filepath.Clean(dir) == out {
			return true
		}
	}
	return filepath.Base(dir) == SpiesDir
}

// flush regenerates the pending files that still exist and are hand-written
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()
	sort.Strings(paths)

	reader := w.generator.Reader()
	var sources []string
	for _, path := range paths {
		reader.Invalidate(path)
		if generated, err := utils.IsGenerated(path); err != nil || generated {
			continue
		}
		sources = append(sources, path)
	}

	if len(sources) > 0 {
		if err := w.generator.RunFiles(ctx, sources, w.opts); err != nil {
			w.diagnostics.Error("Regeneration finished with errors")
		} else {
			summary := w.generator.GetSummary()
			w.diagnostics.Success("Regenerated %d spies from %d files", summary.Declarations, len(sources))
		}
	}

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()
}
