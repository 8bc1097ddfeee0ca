// Package warmer walks directory trees to pull their metadata into the
// kernel's dentry and inode caches.
//
// A run resolves each root, then a fixed pool of workers lists directories
// and probes every entry without following symlinks, staying on the device
// of the root each directory descends from.
package warmer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	errs "github.com/joe/dircacher/pkg/errors"
	"github.com/joe/dircacher/pkg/filesystem"
)

// Exported variables.
var (
	ErrCancelled      = errors.New("warm cancelled")
	ErrInvalidPattern = errors.New("invalid exclude pattern")
	ErrNoWorkers      = errors.New("worker count must not be negative")
	ErrNotDirectory   = errors.New("not a directory")
)

// Engine runs cache-warming traversals over a FileSystem.
type Engine struct {
	Workers          int           // Number of concurrent workers (0 = logical CPU count)
	Filter           PathFilter    // Optional exclude filter
	ProbeSymlinks    bool          // Probe a symlink's own inode, never its target
	RecordLimit      int           // Error records retained (negative = all)
	ProgressInterval time.Duration // Log a progress line at this interval (0 = off)
	TimeProvider     TimeProvider  // Time provider (for dependency injection)

	fs         filesystem.FileSystem
	classifier errs.Classifier
	logger     *slog.Logger
	emitter    EventEmitter
	cancelChan chan struct{}
	cancelOnce sync.Once
	current    atomic.Pointer[traversal]
}

// NewEngine creates an engine over fs with CPU-count workers, the default
// record limit, real time and a logger that discards everything.
func NewEngine(fs filesystem.FileSystem) *Engine {
	return &Engine{
		RecordLimit:  DefaultRecordLimit,
		TimeProvider: &RealTimeProvider{},
		fs:           fs,
		classifier:   errs.NewClassifier(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		cancelChan:   make(chan struct{}),
	}
}

// SetEventEmitter sets the event emitter for TUI communication.
// The emitter is optional - if nil, no events will be emitted.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.emitter = emitter
}

// SetLogger sets the logger. A nil logger keeps the current one.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Cancel stops the current run. Queued directories are dropped and syscalls
// in flight are allowed to finish. Safe to call more than once; an engine
// stays cancelled afterwards.
func (e *Engine) Cancel() {
	e.cancelOnce.Do(func() {
		close(e.cancelChan)
	})
}

// Progress returns a snapshot of the current run, or the zero value when idle.
func (e *Engine) Progress() Progress {
	t := e.current.Load()
	if t == nil {
		return Progress{}
	}

	return t.stats.snapshot()
}

// Run performs one full traversal of paths and always returns its summary.
// The error is ErrCancelled if ctx was cancelled or Cancel was called before
// the traversal finished. Invalid roots and failures below a root are in the
// summary, not the error.
func (e *Engine) Run(ctx context.Context, paths []string) (*Summary, error) {
	if e.Workers < 0 {
		return &Summary{ErrorCounts: map[errs.Kind]int{}}, fmt.Errorf("%w: %d", ErrNoWorkers, e.Workers)
	}

	workers := e.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	select {
	case <-e.cancelChan:
		cancel()
	default:
	}

	// The watcher exits with the run; cancelChan itself stays closed.
	go func() {
		select {
		case <-e.cancelChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	t := &traversal{
		fs:            e.fs,
		classifier:    e.classifier,
		filter:        e.Filter,
		probeSymlinks: e.ProbeSymlinks,
		logger:        e.logger,
		emit:          e.emit,
		collector:     NewCollector(e.RecordLimit),
	}

	e.current.Store(t)
	defer e.current.Store(nil)

	start := e.TimeProvider.Now()

	e.emit(WarmStarted{Roots: len(paths), Workers: workers})
	e.logger.Info("warm started",
		slog.Int("roots", len(paths)),
		slog.Int("workers", workers))

	items, accepted := t.enumerateRoots(paths)

	stopProgress := e.startProgressLogging(t)
	completed := t.schedule(ctx, items, workers)

	stopProgress()

	summary := e.buildSummary(t, accepted, workers, e.TimeProvider.Now().Sub(start), !completed)

	e.logger.Info("warm complete",
		slog.Int64("dirs", summary.DirsVisited),
		slog.Int64("files", summary.Files),
		slog.Int64("symlinks", summary.Symlinks),
		slog.Int("errors", summary.TotalErrors()),
		slog.Duration("elapsed", summary.Elapsed),
		slog.Bool("cancelled", summary.Cancelled))

	e.emit(WarmComplete{Summary: summary})

	if summary.Cancelled {
		return summary, ErrCancelled
	}

	return summary, nil
}

// buildSummary reads the final counters once every worker has exited.
func (e *Engine) buildSummary(t *traversal, roots []string, workers int, elapsed time.Duration, cancelled bool) *Summary {
	return &Summary{
		Roots:          roots,
		RootsAccepted:  int(t.stats.rootsAccepted.Load()),
		RootsRejected:  int(t.stats.rootsRejected.Load()),
		RootsFailed:    int(t.stats.rootsFailed.Load()),
		DuplicateRoots: int(t.stats.duplicateRoots.Load()),
		DirsVisited:    t.stats.dirsVisited.Load(),
		Files:          t.stats.files.Load(),
		Symlinks:       t.stats.symlinks.Load(),
		EntriesProbed:  t.stats.entriesProbed.Load(),
		MountsSkipped:  t.stats.mountsSkipped.Load(),
		Excluded:       t.stats.excluded.Load(),
		DuplicateDirs:  t.stats.duplicateDirs.Load(),
		ErrorCounts:    t.collector.Counts(),
		Errors:         t.collector.Records(),
		DroppedErrors:  t.collector.Dropped(),
		Workers:        workers,
		Elapsed:        elapsed,
		Cancelled:      cancelled,
	}
}

// emit sends an event if an emitter is configured.
// Safe to call even when emitter is nil.
func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// startProgressLogging logs and emits a progress snapshot at every tick of
// ProgressInterval until the returned stop function is called.
func (e *Engine) startProgressLogging(t *traversal) func() {
	if e.ProgressInterval <= 0 {
		return func() {}
	}

	ticker := e.TimeProvider.NewTicker(e.ProgressInterval)
	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Go(func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-ticker.C():
				if !ok {
					return
				}

				progress := t.stats.snapshot()
				e.logger.Info("warm progress",
					slog.Int64("dirs", progress.DirsVisited),
					slog.Int64("probed", progress.EntriesProbed),
					slog.Int64("errors", progress.Errors),
					slog.Int64("queued", progress.Queued),
					slog.Int64("in_flight", progress.InFlight))
				e.emit(WarmProgress{Progress: progress})
			}
		}
	})

	return func() {
		close(done)
		wg.Wait()
		ticker.Stop()
	}
}
