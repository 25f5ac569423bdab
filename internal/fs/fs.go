// Package fs provides the filesystem abstraction the rotation engine writes
// through.
//
// Two implementations are provided:
//   - [Real]: production use, wraps the [os] package
//   - [Faulty]: testing use, injects scripted failures
//
// Keeping rotation behind this seam lets tests exercise every failure point
// of the rotation sequence (sync, rename, reopen) deterministically, without
// depending on a filesystem that actually misbehaves.
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// Satisfied by [os.File]. The rotation engine only ever writes, syncs, and
// closes the active file; it never seeks or reads it back.
type File interface {
	io.WriteCloser

	// Name returns the path the file was opened with. See [os.File.Name].
	Name() string

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to stable storage.
	//
	// [Real] files use fdatasync where the platform provides it and fall
	// back to [os.File.Sync] elsewhere.
	Sync() error
}

// FS defines the filesystem operations used by rotation and configuration.
type FS interface {
	// OpenFile opens a file with the given flags and permissions.
	// See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Create creates or truncates a file for writing. See [os.Create].
	Create(path string) (File, error)

	// Rename moves a file to a new name. See [os.Rename].
	// Atomic on the same filesystem.
	Rename(oldpath, newpath string) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a path exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically via temp file +
	// rename, so a crash cannot leave a partially written file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error
}
