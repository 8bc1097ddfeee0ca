package warmer

import (
	"log/slog"
	"sync"

	errs "github.com/joe/dircacher/pkg/errors"
	"github.com/joe/dircacher/pkg/filesystem"
)

// workItem is a directory waiting to be walked. device is the device of the
// root the directory descends from; it is inherited unchanged by every child.
// root marks the item enumerated for a root argument.
type workItem struct {
	path   string
	device uint64
	root   bool
}

// dirID identifies a directory independently of the path it was reached by.
type dirID struct {
	device uint64
	inode  uint64
}

// traversal is the state of one run, shared by its workers and discarded when
// the run ends.
type traversal struct {
	fs            filesystem.FileSystem
	classifier    errs.Classifier
	filter        PathFilter
	probeSymlinks bool
	logger        *slog.Logger
	emit          func(Event)

	collector *Collector
	stats     counters

	// seen holds every directory identity already enqueued.
	seen sync.Map
}

// claim marks a directory as enqueued. Returns false if it already was.
// Directories without an inode number cannot be told apart and are always claimed.
func (t *traversal) claim(info filesystem.Info) bool {
	if info.Inode == 0 {
		return true
	}

	_, loaded := t.seen.LoadOrStore(dirID{device: info.Device, inode: info.Inode}, struct{}{})

	return !loaded
}

// fail records a failure below a root and carries on.
func (t *traversal) fail(op, path string, err error) {
	rec := errs.NewRecord(t.classifier, op, path, err)
	t.collector.Add(rec)
	t.stats.errors.Add(1)

	t.logger.Debug("entry failed",
		slog.String("op", op),
		slog.String("path", path),
		slog.String("kind", string(rec.Kind)),
		slog.Any("error", err))

	t.emit(EntryFailed{Record: rec})
}

// failDir records a failure to open or list item. A root that cannot be read
// leaves the run incomplete.
func (t *traversal) failDir(op string, item workItem, err error) {
	t.fail(op, item.path, err)

	if !item.root {
		return
	}

	t.stats.rootsFailed.Add(1)
	t.logger.Warn("root unreadable",
		slog.String("op", op),
		slog.String("path", item.path),
		slog.Any("error", err))
}
