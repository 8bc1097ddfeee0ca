//go:build linux

package filesystem

// dir_linux.go lists directories with getdents64 and probes entries with
// fstatat relative to the open directory fd, so a probe never re-resolves the
// parent path and never follows the entry.

import (
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// linux_dirent64 layout (linux/dirent.h):
//
//	struct linux_dirent64 {
//	    ino64_t        d_ino;    // offset 0
//	    off64_t        d_off;    // offset 8
//	    unsigned short d_reclen; // offset 16
//	    unsigned char  d_type;   // offset 18
//	    char           d_name[]; // offset 19
//	};
const (
	direntReclenOffset = 16
	direntTypeOffset   = 18
	direntNameOffset   = 19
	direntMinSize      = direntNameOffset

	// direntBufSize is the getdents64 buffer per open directory.
	direntBufSize = 32 * 1024
)

var errInvalidDirent = errors.New("invalid dirent")

type linuxDir struct {
	fd   int
	path string
	buf  []byte
}

func openDir(path string) (Dir, error) {
	for {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC|unix.O_NOFOLLOW, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: path, Err: err}
		}

		return &linuxDir{fd: fd, path: path, buf: make([]byte, direntBufSize)}, nil
	}
}

// Close closes the directory fd. close(2) is not retried on EINTR.
func (d *linuxDir) Close() error {
	if d.fd < 0 {
		return nil
	}

	err := unix.Close(d.fd)
	d.fd = -1

	if err != nil {
		return &fs.PathError{Op: "close", Path: d.path, Err: err}
	}

	return nil
}

// Lstat probes name with fstatat(AT_SYMLINK_NOFOLLOW) relative to the directory.
func (d *linuxDir) Lstat(name string) (Info, error) {
	var st unix.Stat_t

	for {
		err := unix.Fstatat(d.fd, name, &st, unix.AT_SYMLINK_NOFOLLOW)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return Info{}, &fs.PathError{Op: "lstat", Path: filepath.Join(d.path, name), Err: err}
		}

		break
	}

	return Info{
		Type:   typeFromStatMode(st.Mode),
		Device: uint64(st.Dev), //nolint:unconvert // Dev width differs by arch
		Inode:  st.Ino,
	}, nil
}

// Stat probes the directory fd with fstat.
func (d *linuxDir) Stat() (Info, error) {
	var st unix.Stat_t

	for {
		err := unix.Fstat(d.fd, &st)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return Info{}, &fs.PathError{Op: "fstat", Path: d.path, Err: err}
		}

		break
	}

	return Info{
		Type:   typeFromStatMode(st.Mode),
		Device: uint64(st.Dev), //nolint:unconvert // Dev width differs by arch
		Inode:  st.Ino,
	}, nil
}

// ReadEntries reads one getdents64 buffer and parses it in place.
func (d *linuxDir) ReadEntries() ([]DirEntry, error) {
	for {
		n, err := unix.ReadDirent(d.fd, d.buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return nil, &fs.PathError{Op: "getdents", Path: d.path, Err: err}
		}

		if n <= 0 {
			return nil, io.EOF
		}

		entries, err := parseDirents(d.buf[:n])
		if err != nil {
			return entries, &fs.PathError{Op: "getdents", Path: d.path, Err: err}
		}

		// A buffer holding only "." and ".." is not the end of the listing.
		if len(entries) == 0 {
			continue
		}

		return entries, nil
	}
}

// parseDirents decodes raw linux_dirent64 records. Entries decoded before a
// malformed record are returned along with errInvalidDirent.
func parseDirents(data []byte) ([]DirEntry, error) {
	var entries []DirEntry

	for len(data) > 0 {
		if len(data) < direntMinSize {
			return entries, errInvalidDirent
		}

		reclen := int(binary.NativeEndian.Uint16(data[direntReclenOffset:]))
		if reclen < direntMinSize || reclen > len(data) {
			return entries, errInvalidDirent
		}

		record := data[:reclen]
		data = data[reclen:]

		name := record[direntNameOffset:]
		for i, b := range name {
			if b == 0 {
				name = name[:i]

				break
			}
		}

		if len(name) == 0 || isDotEntry(name) {
			continue
		}

		entries = append(entries, DirEntry{
			Name: string(name),
			Type: typeFromDirentType(record[direntTypeOffset]),
		})
	}

	return entries, nil
}

func isDotEntry(name []byte) bool {
	return (len(name) == 1 && name[0] == '.') ||
		(len(name) == 2 && name[0] == '.' && name[1] == '.')
}

func typeFromDirentType(dt byte) EntryType {
	switch dt {
	case unix.DT_REG:
		return TypeRegular
	case unix.DT_DIR:
		return TypeDir
	case unix.DT_LNK:
		return TypeSymlink
	case unix.DT_UNKNOWN:
		return TypeUnknown
	default:
		return TypeOther
	}
}

func typeFromStatMode(mode uint32) EntryType {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return TypeRegular
	case unix.S_IFDIR:
		return TypeDir
	case unix.S_IFLNK:
		return TypeSymlink
	default:
		return TypeOther
	}
}
