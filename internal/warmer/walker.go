package warmer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/joe/dircacher/pkg/filesystem"
)

// Filesystem operation names used in error records.
const (
	opList  = "list"
	opLstat = "lstat"
	opOpen  = "open"
	opStat  = "stat"
)

// walk lists one directory and classifies each entry, handing every child
// directory on the same device to push. Failures are recorded and never stop
// the remaining entries. Cancellation is checked between entries.
func (t *traversal) walk(ctx context.Context, item workItem, push func(workItem)) {
	dir, err := t.fs.OpenDir(item.path)
	if err != nil {
		t.failDir(opOpen, item, err)

		return
	}

	defer func() {
		if err := dir.Close(); err != nil {
			t.logger.Debug("close failed", slog.String("path", item.path), slog.Any("error", err))
		}
	}()

	// The path may have been mounted over since its device was probed; the
	// handle is what would be listed. A root's boundary is what it opened as.
	opened, err := dir.Stat()
	if err != nil {
		t.failDir(opStat, item, err)

		return
	}

	switch {
	case item.root:
		item.device = opened.Device
	case opened.Device != item.device:
		t.skipMount(item.path, opened.Device, item.device)

		return
	}

	t.stats.dirsVisited.Add(1)

	for {
		entries, err := dir.ReadEntries()

		// Entries listed before a failure are still warmed.
		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}

			t.visit(dir, item, entry, push)
		}

		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			t.failDir(opList, item, err)

			return
		}
	}
}

// visit applies the boundary rules to one entry of dir.
func (t *traversal) visit(dir filesystem.Dir, item workItem, entry filesystem.DirEntry, push func(workItem)) {
	path := filepath.Join(item.path, entry.Name)

	if t.filter != nil && t.filter.Excludes(path) {
		t.stats.excluded.Add(1)

		return
	}

	if entry.Type == filesystem.TypeSymlink {
		t.skipSymlink(dir, entry.Name, path)

		return
	}

	// Directories need the probe for their device; everything else is probed
	// to warm its inode. An unknown hint is classified by this same probe.
	info, err := dir.Lstat(entry.Name)
	if err != nil {
		t.fail(opLstat, path, err)

		return
	}

	// The probed type wins over the hint: an entry replaced after the listing
	// is handled as what it is now. A mount point is not counted as probed.
	switch info.Type {
	case filesystem.TypeDir:
		t.descend(item, path, info, push)
	case filesystem.TypeSymlink:
		t.stats.entriesProbed.Add(1)
		t.stats.symlinks.Add(1)
	default:
		t.stats.entriesProbed.Add(1)
		t.stats.files.Add(1)
	}
}

// descend enqueues a child directory unless it is on another device or was
// already enqueued through another path.
func (t *traversal) descend(item workItem, path string, info filesystem.Info, push func(workItem)) {
	if info.Device != item.device {
		t.skipMount(path, info.Device, item.device)

		return
	}

	t.stats.entriesProbed.Add(1)

	if !t.claim(info) {
		t.stats.duplicateDirs.Add(1)

		return
	}

	push(workItem{path: path, device: item.device})
}

func (t *traversal) skipMount(path string, device, rootDevice uint64) {
	t.stats.mountsSkipped.Add(1)
	t.logger.Debug("mount boundary skipped",
		slog.String("path", path),
		slog.Uint64("device", device),
		slog.Uint64("root_device", rootDevice))
}

// skipSymlink counts a symlink and, when enabled, probes the link's own inode.
// The target is never touched.
func (t *traversal) skipSymlink(dir filesystem.Dir, name, path string) {
	t.stats.symlinks.Add(1)

	if !t.probeSymlinks {
		return
	}

	if _, err := dir.Lstat(name); err != nil {
		t.fail(opLstat, path, err)

		return
	}

	t.stats.entriesProbed.Add(1)
}
