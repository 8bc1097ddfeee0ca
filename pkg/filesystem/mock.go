package filesystem

import (
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
)

// Mock operation names recorded by MockFileSystem.
const (
	OpCanonicalize = "canonicalize"
	OpLstat        = "lstat"
	OpOpenDir      = "opendir"
	OpDirStat      = "fstat"
)

// maxSymlinkDepth matches the kernel's MAXSYMLINKS.
const maxSymlinkDepth = 40

// Call is one operation recorded by MockFileSystem.
type Call struct {
	Op   string
	Path string
}

// MockFileSystem is an in-memory tree with per-directory devices, symlinks and
// injectable failures. Every operation is recorded so tests can assert exactly
// which paths were listed and probed.
type MockFileSystem struct {
	mu      sync.RWMutex
	nodes   map[string]*mockNode
	calls   []Call
	nextIno uint64
}

// mockNode represents an entry in the mock filesystem.
type mockNode struct {
	typ    EntryType
	dev    uint64
	ino    uint64
	target string

	// hint overrides the type reported by the parent listing.
	hint     *EntryType
	statErr  error
	openErr  error
	listErr  error
	listFrom int // entries returned before listErr; -1 means listErr is not set
	vanished bool

	// openDev, when set, is the device an opened handle reports instead of dev.
	openDev *uint64
}

// mockDir implements Dir for the mock filesystem.
type mockDir struct {
	fs      *MockFileSystem
	path    string
	info    Info
	entries []DirEntry
	listErr error
	failAt  int
	pos     int
}

// NewMockFileSystem creates an in-memory filesystem whose root "/" lives on device 1.
func NewMockFileSystem() *MockFileSystem {
	m := &MockFileSystem{
		nodes: make(map[string]*mockNode),
	}
	m.nodes["/"] = m.newNode(TypeDir, 1)

	return m
}

// Helper methods for testing

// AddDir adds a directory on its parent's device, creating parents as needed.
func (m *MockFileSystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mkdirAllLocked(filepath.Clean(path))
}

// AddMount adds a directory on a different device, as a mount point would appear.
func (m *MockFileSystem) AddMount(path string, dev uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	m.mkdirAllLocked(filepath.Dir(path))
	m.nodes[path] = m.newNode(TypeDir, dev)
}

// AddFile adds a regular file, creating parents as needed.
func (m *MockFileSystem) AddFile(path string) {
	m.addLeaf(path, TypeRegular, "")
}

// AddSpecial adds a non-regular, non-directory entry such as a fifo.
func (m *MockFileSystem) AddSpecial(path string) {
	m.addLeaf(path, TypeOther, "")
}

// AddSymlink adds a symlink pointing at target.
func (m *MockFileSystem) AddSymlink(path, target string) {
	m.addLeaf(path, TypeSymlink, target)
}

// HideType makes the parent listing report TypeUnknown for path, as
// filesystems without d_type support do.
func (m *MockFileSystem) HideType(path string) {
	m.withNode(path, func(n *mockNode) {
		unknown := TypeUnknown
		n.hint = &unknown
	})
}

// FailStat makes probes of path fail with errno.
func (m *MockFileSystem) FailStat(path string, errno syscall.Errno) {
	m.withNode(path, func(n *mockNode) {
		n.statErr = errno
	})
}

// FailOpen makes opening the directory at path fail with errno.
func (m *MockFileSystem) FailOpen(path string, errno syscall.Errno) {
	m.withNode(path, func(n *mockNode) {
		n.openErr = errno
	})
}

// FailListAfter makes the listing of path fail with errno after count entries.
func (m *MockFileSystem) FailListAfter(path string, count int, errno syscall.Errno) {
	m.withNode(path, func(n *mockNode) {
		n.listErr = errno
		n.listFrom = count
	})
}

// MountOnOpen makes a handle opened on path report dev while lstat of the
// path still reports the original device, as when a filesystem is mounted
// over the directory between the probe and the open.
func (m *MockFileSystem) MountOnOpen(path string, dev uint64) {
	m.withNode(path, func(n *mockNode) {
		n.openDev = &dev
	})
}

// Vanish keeps path in its parent's listing but makes every probe report
// ENOENT, as if it was removed between the listing and the probe.
func (m *MockFileSystem) Vanish(path string) {
	m.withNode(path, func(n *mockNode) {
		n.vanished = true
	})
}

// Calls returns every recorded operation in order.
func (m *MockFileSystem) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Call(nil), m.calls...)
}

// PathsFor returns the sorted, de-duplicated paths recorded for op.
func (m *MockFileSystem) PathsFor(op string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	paths := make([]string, 0)

	for _, call := range m.calls {
		if call.Op == op && !seen[call.Path] {
			seen[call.Path] = true
			paths = append(paths, call.Path)
		}
	}

	sort.Strings(paths)

	return paths
}

// CountFor returns how many times op was recorded for path.
func (m *MockFileSystem) CountFor(op, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for _, call := range m.calls {
		if call.Op == op && call.Path == path {
			count++
		}
	}

	return count
}

// Touched reports whether any operation was recorded for path or below it.
func (m *MockFileSystem) Touched(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path = filepath.Clean(path)

	for _, call := range m.calls {
		if call.Op == OpCanonicalize {
			continue
		}

		if call.Path == path || strings.HasPrefix(call.Path, path+"/") {
			return true
		}
	}

	return false
}

// FileSystem implementation

// Canonicalize resolves path against "/" and evaluates symlinks on every component.
func (m *MockFileSystem) Canonicalize(path string) (string, error) {
	m.record(OpCanonicalize, path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !filepath.IsAbs(path) {
		path = filepath.Join("/", path)
	}

	return m.resolveLocked(filepath.Clean(path), 0)
}

// Lstat returns metadata for path without following a final symlink.
func (m *MockFileSystem) Lstat(path string) (Info, error) {
	path = filepath.Clean(path)
	m.record(OpLstat, path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lstatLocked(path)
}

// OpenDir opens the directory at path. A symlink fails with ELOOP like O_NOFOLLOW.
func (m *MockFileSystem) OpenDir(path string) (Dir, error) {
	path = filepath.Clean(path)
	m.record(OpOpenDir, path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[path]

	switch {
	case !ok || node.vanished:
		return nil, &fs.PathError{Op: "open", Path: path, Err: syscall.ENOENT}
	case node.openErr != nil:
		return nil, &fs.PathError{Op: "open", Path: path, Err: node.openErr}
	case node.typ == TypeSymlink:
		return nil, &fs.PathError{Op: "open", Path: path, Err: syscall.ELOOP}
	case node.typ != TypeDir:
		return nil, &fs.PathError{Op: "open", Path: path, Err: syscall.ENOTDIR}
	}

	info := Info{Type: node.typ, Device: node.dev, Inode: node.ino}
	if node.openDev != nil {
		info.Device = *node.openDev
	}

	dir := &mockDir{
		fs:      m,
		path:    path,
		info:    info,
		entries: m.childrenLocked(path),
		listErr: node.listErr,
		failAt:  node.listFrom,
	}

	return dir, nil
}

// Close closes the directory.
func (d *mockDir) Close() error {
	return nil
}

// Lstat probes name relative to the directory.
func (d *mockDir) Lstat(name string) (Info, error) {
	return d.fs.Lstat(filepath.Join(d.path, name))
}

// Stat returns what was opened, as fstat of the handle would.
func (d *mockDir) Stat() (Info, error) {
	d.fs.record(OpDirStat, d.path)

	return d.info, nil
}

// ReadEntries returns every remaining entry, or the entries up to an injected failure.
func (d *mockDir) ReadEntries() ([]DirEntry, error) {
	end := len(d.entries)
	if d.listErr != nil {
		end = min(end, d.failAt)
	}

	if d.pos >= end {
		if d.listErr != nil {
			return nil, &fs.PathError{Op: "getdents", Path: d.path, Err: d.listErr}
		}

		return nil, io.EOF
	}

	batch := d.entries[d.pos:end]
	d.pos = end

	return batch, nil
}

// unexported helpers

func (m *MockFileSystem) newNode(typ EntryType, dev uint64) *mockNode {
	m.nextIno++

	return &mockNode{typ: typ, dev: dev, ino: m.nextIno, listFrom: -1}
}

func (m *MockFileSystem) record(op, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Op: op, Path: path})
}

func (m *MockFileSystem) addLeaf(path string, typ EntryType, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	parent := m.mkdirAllLocked(filepath.Dir(path))

	node := m.newNode(typ, parent.dev)
	node.target = target
	m.nodes[path] = node
}

func (m *MockFileSystem) withNode(path string, fn func(n *mockNode)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if node, ok := m.nodes[filepath.Clean(path)]; ok {
		fn(node)
	}
}

// mkdirAllLocked creates path and its parents on the nearest existing
// ancestor's device and returns the node for path.
func (m *MockFileSystem) mkdirAllLocked(path string) *mockNode {
	if node, ok := m.nodes[path]; ok {
		return node
	}

	parent := m.mkdirAllLocked(filepath.Dir(path))
	node := m.newNode(TypeDir, parent.dev)
	m.nodes[path] = node

	return node
}

func (m *MockFileSystem) lstatLocked(path string) (Info, error) {
	node, ok := m.nodes[path]

	switch {
	case !ok || node.vanished:
		return Info{}, &fs.PathError{Op: "lstat", Path: path, Err: syscall.ENOENT}
	case node.statErr != nil:
		return Info{}, &fs.PathError{Op: "lstat", Path: path, Err: node.statErr}
	}

	return Info{Type: node.typ, Device: node.dev, Inode: node.ino}, nil
}

func (m *MockFileSystem) childrenLocked(dir string) []DirEntry {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}

	entries := make([]DirEntry, 0)

	for path, node := range m.nodes {
		if path == dir || !strings.HasPrefix(path, prefix) {
			continue
		}

		name := path[len(prefix):]
		if strings.Contains(name, "/") {
			continue
		}

		typ := node.typ
		if node.hint != nil {
			typ = *node.hint
		}

		entries = append(entries, DirEntry{Name: name, Type: typ})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries
}

func (m *MockFileSystem) resolveLocked(path string, depth int) (string, error) {
	if depth > maxSymlinkDepth {
		return "", &fs.PathError{Op: "canonicalize", Path: path, Err: syscall.ELOOP}
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	current := "/"

	for i, part := range parts {
		if part == "" {
			continue
		}

		next := filepath.Join(current, part)

		node, ok := m.nodes[next]
		if !ok || node.vanished {
			return "", &fs.PathError{Op: "canonicalize", Path: path, Err: syscall.ENOENT}
		}

		if node.typ == TypeSymlink {
			target := node.target
			if !filepath.IsAbs(target) {
				target = filepath.Join(current, target)
			}

			rest := filepath.Join(append([]string{target}, parts[i+1:]...)...)

			return m.resolveLocked(filepath.Clean(rest), depth+1)
		}

		if node.typ != TypeDir && i < len(parts)-1 {
			return "", &fs.PathError{Op: "canonicalize", Path: path, Err: syscall.ENOTDIR}
		}

		current = next
	}

	return current, nil
}
