//go:build !linux

package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// readDirBatchSize bounds how many entries one ReadEntries call returns.
const readDirBatchSize = 512

// osDir lists with os.File.ReadDir, which uses d_type hints where the
// platform provides them, and probes with os.Lstat.
type osDir struct {
	file *os.File
	path string
}

func openDir(path string) (Dir, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err == nil && !fi.IsDir() {
		err = &fs.PathError{Op: "open", Path: path, Err: syscall.ENOTDIR}
	}

	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	return &osDir{file: f, path: path}, nil
}

// Close closes the directory.
func (d *osDir) Close() error {
	err := d.file.Close()
	if err != nil {
		return fmt.Errorf("failed to close directory %s: %w", d.path, err)
	}

	return nil
}

// Lstat probes name relative to the directory without following it.
func (d *osDir) Lstat(name string) (Info, error) {
	fi, err := os.Lstat(filepath.Join(d.path, name))
	if err != nil {
		return Info{}, err //nolint:wrapcheck // *fs.PathError already names the path
	}

	return infoFromFileInfo(fi), nil
}

// Stat probes the open directory handle.
func (d *osDir) Stat() (Info, error) {
	fi, err := d.file.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat directory %s: %w", d.path, err)
	}

	return infoFromFileInfo(fi), nil
}

// ReadEntries returns the next batch of entries.
func (d *osDir) ReadEntries() ([]DirEntry, error) {
	des, err := d.file.ReadDir(readDirBatchSize)

	entries := make([]DirEntry, 0, len(des))
	for _, de := range des {
		entries = append(entries, DirEntry{Name: de.Name(), Type: typeFromDirEntry(de)})
	}

	if errors.Is(err, io.EOF) {
		return entries, io.EOF
	}

	if err != nil {
		return entries, fmt.Errorf("failed to read directory %s: %w", d.path, err)
	}

	return entries, nil
}

func typeFromDirEntry(de fs.DirEntry) EntryType {
	mode := de.Type()

	switch {
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	case mode.IsDir():
		return TypeDir
	case mode&fs.ModeType == 0:
		return TypeRegular
	default:
		return TypeOther
	}
}
