// Package filesystem provides the metadata layer the cache warmer is written
// against, so the walker can run on the real kernel or on an in-memory tree in
// tests.
//
// No operation in this package follows a symbolic link below a root: entries
// are listed with type hints and probed with lstat semantics.
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EntryType classifies a directory entry or a probe result.
type EntryType uint8

const (
	// TypeUnknown means the listing gave no type hint; a probe is required.
	TypeUnknown EntryType = iota
	// TypeRegular is a regular file.
	TypeRegular
	// TypeDir is a directory.
	TypeDir
	// TypeSymlink is a symbolic link.
	TypeSymlink
	// TypeOther is anything else: fifo, socket, device node.
	TypeOther
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	case TypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// DirEntry is one name from a directory listing and its type hint.
type DirEntry struct {
	Name string
	Type EntryType
}

// Info is the result of a non-following metadata probe.
// Device and Inode are zero on platforms that do not expose them.
type Info struct {
	Type   EntryType
	Device uint64
	Inode  uint64
}

// Dir is an open directory.
type Dir interface {
	// ReadEntries returns the next batch of entries, excluding "." and "..".
	// Returns io.EOF once the listing is exhausted. Entries returned before an
	// error remain valid.
	ReadEntries() ([]DirEntry, error)

	// Lstat probes the named entry of this directory without following it.
	Lstat(name string) (Info, error)

	// Stat probes the open directory itself. The result describes what was
	// opened, even if the path has since been replaced or mounted over.
	Stat() (Info, error)

	Close() error
}

// FileSystem is an interface that abstracts the metadata operations of a walk.
type FileSystem interface {
	// OpenDir opens a directory for listing. It must not follow a symlink
	// at the final path component where the platform allows it.
	OpenDir(path string) (Dir, error)

	// Lstat probes a path without following a final symlink.
	Lstat(path string) (Info, error)

	// Canonicalize returns the absolute, symlink-free form of path.
	Canonicalize(path string) (string, error)
}

// RealFileSystem implements FileSystem using the host kernel.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Canonicalize resolves path to an absolute path with every symlink evaluated.
func (fs *RealFileSystem) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return resolved, nil
}

// Lstat returns metadata for path without following a final symlink.
func (fs *RealFileSystem) Lstat(path string) (Info, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return infoFromFileInfo(fi), nil
}

// OpenDir opens a directory for listing.
func (fs *RealFileSystem) OpenDir(path string) (Dir, error) {
	return openDir(path)
}

// typeFromMode maps a file mode to an EntryType.
func typeFromMode(mode fs.FileMode) EntryType {
	switch {
	case mode.IsRegular():
		return TypeRegular
	case mode.IsDir():
		return TypeDir
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	default:
		return TypeOther
	}
}
