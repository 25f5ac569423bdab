//go:build !linux

package fs

// Sync flushes file contents to stable storage via [os.File.Sync].
func (f *realFile) Sync() error {
	return f.File.Sync()
}
