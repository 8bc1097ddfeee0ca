package warmer

import (
	"fmt"
	"log/slog"

	errs "github.com/joe/dircacher/pkg/errors"
	"github.com/joe/dircacher/pkg/filesystem"
)

// enumerateRoots resolves every root argument and returns one work item per
// distinct valid root. Invalid roots are recorded and skipped; duplicates are
// logged and skipped. Nothing below a root is touched.
func (t *traversal) enumerateRoots(paths []string) ([]workItem, []string) {
	items := make([]workItem, 0, len(paths))
	accepted := make([]string, 0, len(paths))
	byPath := make(map[string]bool, len(paths))

	for _, path := range paths {
		item, info, err := t.resolveRoot(path)
		if err != nil {
			t.reject(path, err)

			continue
		}

		if byPath[item.path] || !t.claim(info) {
			t.stats.duplicateRoots.Add(1)
			t.logger.Info("duplicate root skipped",
				slog.String("path", path),
				slog.String("resolved", item.path))

			continue
		}

		byPath[item.path] = true

		t.stats.rootsAccepted.Add(1)
		t.logger.Debug("root accepted",
			slog.String("path", item.path),
			slog.Uint64("device", item.device))
		t.emit(RootAccepted{Path: item.path, Device: item.device})

		items = append(items, item)
		accepted = append(accepted, item.path)
	}

	return items, accepted
}

// resolveRoot canonicalizes path and probes it for its boundary device.
// A root given as a symlink to a directory resolves to its target.
func (t *traversal) resolveRoot(path string) (workItem, filesystem.Info, error) {
	canonical, err := t.fs.Canonicalize(path)
	if err != nil {
		return workItem{}, filesystem.Info{}, fmt.Errorf("cannot resolve root: %w", err)
	}

	info, err := t.fs.Lstat(canonical)
	if err != nil {
		return workItem{}, filesystem.Info{}, fmt.Errorf("cannot probe root: %w", err)
	}

	if info.Type != filesystem.TypeDir {
		return workItem{}, filesystem.Info{}, fmt.Errorf("%w: %s is %s", ErrNotDirectory, canonical, info.Type)
	}

	return workItem{path: canonical, device: info.Device, root: true}, info, nil
}

func (t *traversal) reject(path string, err error) {
	rec := errs.NewInvalidRoot(path, err)
	t.collector.Add(rec)
	t.stats.rootsRejected.Add(1)
	t.stats.errors.Add(1)

	t.logger.Warn("invalid root",
		slog.String("path", path),
		slog.Any("error", err))

	t.emit(RootRejected{Record: rec})
}
