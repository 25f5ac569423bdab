//go:build linux

package fs

import (
	"os"

	"golang.org/x/sys/unix"
)

// Sync flushes file data to stable storage.
//
// Uses fdatasync: rotation only needs the bytes durable before the rename
// retires the file, not the metadata round trip a full fsync pays for.
func (f *realFile) Sync() error {
	err := unix.Fdatasync(int(f.Fd()))
	if err != nil {
		return &os.PathError{Op: "fdatasync", Path: f.Name(), Err: err}
	}

	return nil
}
