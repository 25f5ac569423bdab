package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by
// [Faulty]. Returns false if err is nil.
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Op identifies a filesystem operation for fault injection.
type Op string

// Operations [Faulty] can fail.
const (
	OpOpenFile Op = "openfile"
	OpCreate   Op = "create"
	OpRename   Op = "rename"
	OpStat     Op = "stat"
	OpWrite    Op = "write"
	OpSync     Op = "sync"
	OpClose    Op = "close"
)

// Faulty wraps an [FS] and fails scripted operations deterministically.
//
// Unlike random fault injection, every fault is armed explicitly by a test:
// the Nth matching call to a given operation fails with the given error, and
// the fault is consumed. All other calls pass through to the inner FS.
//
// File-level operations (write, sync, close) match against the path the file
// was opened with.
type Faulty struct {
	inner FS

	mu     sync.Mutex
	faults []*fault
}

type fault struct {
	op   Op
	path string // substring match; empty matches any path
	skip int    // matching calls to let through before firing
	err  error
}

// NewFaulty wraps inner with a fault-injection layer.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{inner: inner}
}

// Inject arms a one-shot fault: the next call to op whose path contains
// pathPart fails with err. An empty pathPart matches any path.
func (f *Faulty) Inject(op Op, pathPart string, err error) {
	f.InjectAfter(op, pathPart, 0, err)
}

// InjectAfter arms a one-shot fault that lets skip matching calls succeed
// before firing.
func (f *Faulty) InjectAfter(op Op, pathPart string, skip int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults = append(f.faults, &fault{op: op, path: pathPart, skip: skip, err: err})
}

// check consumes and returns the first armed fault matching (op, path),
// or nil.
func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, ft := range f.faults {
		if ft.op != op || !strings.Contains(path, ft.path) {
			continue
		}

		if ft.skip > 0 {
			ft.skip--

			return nil
		}

		f.faults = append(f.faults[:i], f.faults[i+1:]...)

		return &InjectedError{Err: ft.err}
	}

	return nil
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.check(OpOpenFile, path); err != nil {
		return nil, err
	}

	file, err := f.inner.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, owner: f, path: path}, nil
}

func (f *Faulty) Create(path string) (File, error) {
	if err := f.check(OpCreate, path); err != nil {
		return nil, err
	}

	file, err := f.inner.Create(path)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, owner: f, path: path}, nil
}

func (f *Faulty) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}

	return f.inner.Rename(oldpath, newpath)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	return f.inner.Exists(path)
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Remove(path string) error {
	return f.inner.Remove(path)
}

// faultyFile intercepts write, sync, and close on an open file.
type faultyFile struct {
	File
	owner *Faulty
	path  string
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if err := f.owner.check(OpWrite, f.path); err != nil {
		return 0, err
	}

	return f.File.Write(p)
}

func (f *faultyFile) Sync() error {
	if err := f.owner.check(OpSync, f.path); err != nil {
		return err
	}

	return f.File.Sync()
}

func (f *faultyFile) Close() error {
	if err := f.owner.check(OpClose, f.path); err != nil {
		return err
	}

	return f.File.Close()
}

// Compile-time interface checks.
var (
	_ FS   = (*Faulty)(nil)
	_ File = (*faultyFile)(nil)
)
