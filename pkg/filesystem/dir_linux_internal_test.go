//go:build linux

//nolint:testpackage // parseDirents is unexported
package filesystem

import (
	"encoding/binary"
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

// dirent encodes one linux_dirent64 record padded to 8 bytes.
func dirent(name string, dt byte) []byte {
	reclen := (direntNameOffset + len(name) + 1 + 7) &^ 7
	rec := make([]byte, reclen)
	binary.NativeEndian.PutUint64(rec[0:], 1)
	binary.NativeEndian.PutUint16(rec[direntReclenOffset:], uint16(reclen)) //nolint:gosec // small test records
	rec[direntTypeOffset] = dt
	copy(rec[direntNameOffset:], name)

	return rec
}

func TestParseDirents(t *testing.T) {
	t.Parallel()

	var buf []byte
	buf = append(buf, dirent(".", unix.DT_DIR)...)
	buf = append(buf, dirent("..", unix.DT_DIR)...)
	buf = append(buf, dirent("file", unix.DT_REG)...)
	buf = append(buf, dirent("sub", unix.DT_DIR)...)
	buf = append(buf, dirent("link", unix.DT_LNK)...)
	buf = append(buf, dirent("fifo", unix.DT_FIFO)...)
	buf = append(buf, dirent("mystery", unix.DT_UNKNOWN)...)

	entries, err := parseDirents(buf)
	if err != nil {
		t.Fatalf("parseDirents failed: %v", err)
	}

	want := []DirEntry{
		{Name: "file", Type: TypeRegular},
		{Name: "sub", Type: TypeDir},
		{Name: "link", Type: TypeSymlink},
		{Name: "fifo", Type: TypeOther},
		{Name: "mystery", Type: TypeUnknown},
	}

	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %v", len(want), entries)
	}

	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("Entry %d: expected %v, got %v", i, want[i], entries[i])
		}
	}
}

func TestParseDirents_TruncatedRecord(t *testing.T) {
	t.Parallel()

	buf := dirent("ok", unix.DT_REG)
	buf = append(buf, dirent("cut", unix.DT_REG)[:10]...)

	entries, err := parseDirents(buf)
	if !errors.Is(err, errInvalidDirent) {
		t.Fatalf("Expected errInvalidDirent, got %v", err)
	}

	if len(entries) != 1 || entries[0].Name != "ok" {
		t.Errorf("Expected the record before the damage, got %v", entries)
	}
}

func TestTypeFromStatMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode uint32
		want EntryType
	}{
		{mode: unix.S_IFREG | 0o644, want: TypeRegular},
		{mode: unix.S_IFDIR | 0o755, want: TypeDir},
		{mode: unix.S_IFLNK | 0o777, want: TypeSymlink},
		{mode: unix.S_IFIFO, want: TypeOther},
		{mode: unix.S_IFSOCK, want: TypeOther},
	}

	for _, tt := range tests {
		if got := typeFromStatMode(tt.mode); got != tt.want {
			t.Errorf("typeFromStatMode(%o) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
