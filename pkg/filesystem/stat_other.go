//go:build !unix

package filesystem

import "io/fs"

// infoFromFileInfo builds an Info from an lstat result. Platforms without
// device numbers report zero, so every directory looks like one device.
func infoFromFileInfo(fi fs.FileInfo) Info {
	return Info{Type: typeFromMode(fi.Mode())}
}
