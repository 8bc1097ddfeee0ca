package filesystem_test

import (
	"errors"
	"io"
	"syscall"
	"testing"

	"github.com/joe/dircacher/pkg/filesystem"
)

func readAll(t *testing.T, dir filesystem.Dir) ([]filesystem.DirEntry, error) {
	t.Helper()

	var all []filesystem.DirEntry

	for {
		batch, err := dir.ReadEntries()
		all = append(all, batch...)

		if errors.Is(err, io.EOF) {
			return all, nil
		}

		if err != nil {
			return all, err
		}
	}
}

func TestMockFileSystem_ListingCarriesTypeHints(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/r/file1")
	mock.AddDir("/r/sub")
	mock.AddSymlink("/r/link", "/etc")
	mock.AddSpecial("/r/fifo")

	dir, err := mock.OpenDir("/r")
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}

	defer func() { _ = dir.Close() }()

	entries, err := readAll(t, dir)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}

	want := map[string]filesystem.EntryType{
		"fifo":  filesystem.TypeOther,
		"file1": filesystem.TypeRegular,
		"link":  filesystem.TypeSymlink,
		"sub":   filesystem.TypeDir,
	}

	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d: %v", len(want), len(entries), entries)
	}

	for _, entry := range entries {
		if want[entry.Name] != entry.Type {
			t.Errorf("Entry %s: expected %v, got %v", entry.Name, want[entry.Name], entry.Type)
		}
	}
}

func TestMockFileSystem_MountsHaveTheirOwnDevice(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddDir("/r/a")
	mock.AddMount("/r/b", 7)
	mock.AddFile("/r/b/inner")

	root, _ := mock.Lstat("/r")
	a, _ := mock.Lstat("/r/a")
	b, _ := mock.Lstat("/r/b")
	inner, _ := mock.Lstat("/r/b/inner")

	if root.Device != a.Device {
		t.Errorf("Expected /r/a on root device %d, got %d", root.Device, a.Device)
	}

	if b.Device != 7 || inner.Device != 7 {
		t.Errorf("Expected mount device 7, got %d and %d", b.Device, inner.Device)
	}

	if a.Inode == b.Inode {
		t.Error("Expected distinct inodes")
	}
}

func TestMockFileSystem_OpenDirErrors(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/r/file")
	mock.AddSymlink("/r/link", "/r")
	mock.AddDir("/r/locked")
	mock.FailOpen("/r/locked", syscall.EACCES)

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "missing", path: "/r/none", want: syscall.ENOENT},
		{name: "regular file", path: "/r/file", want: syscall.ENOTDIR},
		{name: "symlink is not followed", path: "/r/link", want: syscall.ELOOP},
		{name: "permission", path: "/r/locked", want: syscall.EACCES},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := mock.OpenDir(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMockFileSystem_FailListAfterKeepsEarlierEntries(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/r/a")
	mock.AddFile("/r/b")
	mock.AddFile("/r/c")
	mock.FailListAfter("/r", 2, syscall.EIO)

	dir, err := mock.OpenDir("/r")
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}

	entries, err := readAll(t, dir)
	if !errors.Is(err, syscall.EIO) {
		t.Fatalf("Expected EIO, got %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 entries before the failure, got %d", len(entries))
	}
}

func TestMockFileSystem_VanishAndHideType(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/r/gone")
	mock.AddDir("/r/plain")
	mock.Vanish("/r/gone")
	mock.HideType("/r/plain")

	dir, err := mock.OpenDir("/r")
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}

	entries, err := readAll(t, dir)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected vanished entry to stay listed, got %v", entries)
	}

	if entries[1].Name != "plain" || entries[1].Type != filesystem.TypeUnknown {
		t.Errorf("Expected hidden type for plain, got %v", entries[1])
	}

	if _, err := dir.Lstat("gone"); !errors.Is(err, syscall.ENOENT) {
		t.Errorf("Expected ENOENT probing a vanished entry, got %v", err)
	}

	info, err := dir.Lstat("plain")
	if err != nil || info.Type != filesystem.TypeDir {
		t.Errorf("Expected probe to reveal a dir, got %v, %v", info, err)
	}
}

func TestMockFileSystem_Canonicalize(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddDir("/data/real")
	mock.AddSymlink("/alias", "/data")
	mock.AddSymlink("/data/rel", "real")
	mock.AddSymlink("/loop1", "/loop2")
	mock.AddSymlink("/loop2", "/loop1")

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "plain", path: "/data/real", want: "/data/real"},
		{name: "relative to root", path: "data/real/", want: "/data/real"},
		{name: "absolute link in the middle", path: "/alias/real", want: "/data/real"},
		{name: "relative link", path: "/data/rel", want: "/data/real"},
		{name: "missing", path: "/nope", wantErr: syscall.ENOENT},
		{name: "loop", path: "/loop1", wantErr: syscall.ELOOP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mock.Canonicalize(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil || got != tt.want {
				t.Errorf("Expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestMockFileSystem_RecordsCalls(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/r/a/f")

	dir, err := mock.OpenDir("/r/a")
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}

	_, _ = dir.Lstat("f")
	_, _ = dir.Lstat("f")

	if got := mock.CountFor(filesystem.OpLstat, "/r/a/f"); got != 2 {
		t.Errorf("Expected 2 lstat calls, got %d", got)
	}

	if got := mock.PathsFor(filesystem.OpOpenDir); len(got) != 1 || got[0] != "/r/a" {
		t.Errorf("Expected one opendir of /r/a, got %v", got)
	}

	if !mock.Touched("/r") {
		t.Error("Expected /r subtree to be touched")
	}

	if mock.Touched("/r/b") {
		t.Error("Expected /r/b to be untouched")
	}
}

func TestMockFileSystem_MountOnOpenChangesHandleDevice(t *testing.T) {
	t.Parallel()

	mock := filesystem.NewMockFileSystem()
	mock.AddDir("/r/a")
	mock.AddDir("/r/b")
	mock.MountOnOpen("/r/b", 5)

	tests := []struct {
		name string
		path string
		want uint64
	}{
		{name: "plain directory keeps its device", path: "/r/a", want: 1},
		{name: "mounted over after the probe", path: "/r/b", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			probed, err := mock.Lstat(tt.path)
			if err != nil {
				t.Fatalf("Lstat failed: %v", err)
			}

			if probed.Device != 1 {
				t.Errorf("Expected lstat device 1, got %d", probed.Device)
			}

			dir, err := mock.OpenDir(tt.path)
			if err != nil {
				t.Fatalf("OpenDir failed: %v", err)
			}

			opened, err := dir.Stat()
			if err != nil {
				t.Fatalf("Stat failed: %v", err)
			}

			if opened.Device != tt.want || opened.Type != filesystem.TypeDir {
				t.Errorf("Expected dir on device %d, got %v on %d", tt.want, opened.Type, opened.Device)
			}

			if mock.CountFor(filesystem.OpDirStat, tt.path) != 1 {
				t.Errorf("Expected one fstat of %s", tt.path)
			}
		})
	}
}
