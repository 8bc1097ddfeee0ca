//go:build unix

package filesystem

import (
	"io/fs"
	"syscall"
)

// infoFromFileInfo builds an Info from an lstat result, reading the device and
// inode numbers from the platform stat structure.
func infoFromFileInfo(fi fs.FileInfo) Info {
	info := Info{Type: typeFromMode(fi.Mode())}

	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return info
	}

	info.Device = uint64(st.Dev) //nolint:gosec,unconvert // Dev is signed on some platforms
	info.Inode = uint64(st.Ino)  //nolint:unconvert // Ino width differs by platform

	return info
}
