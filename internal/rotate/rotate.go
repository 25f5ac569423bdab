// Package rotate implements size-triggered file rotation for a continuously
// written stream.
//
// Unlike rename-based log rotators, the engine never renames a file that can
// still grow: the active file is synced, retired into the numbered backup
// chain, and only then replaced by a freshly created file. A producer
// holding its own descriptor on the path keeps a valid handle throughout.
package rotate

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"frots/internal/fs"
)

const activeFilePerm = 0o644

// Options configures an [Engine].
type Options struct {
	// FS is the filesystem to operate on. Defaults to [fs.NewReal].
	FS fs.FS

	// Path is the active file. Backups live at Path.1 … Path.Depth.
	Path string

	// Limit is the size threshold in bytes that triggers rotation.
	// The active file may transiently exceed it by up to one chunk.
	Limit uint64

	// Depth is the number of numbered backup slots kept in addition to
	// the active file. Minimum 1.
	Depth int

	// Append opens an existing active file for appending instead of
	// truncating it. The byte counter starts at the file's current size.
	Append bool

	// Log receives rotation diagnostics. Defaults to a discard logger.
	Log *log.Logger
}

// Engine owns the active file and its rotation state.
//
// An Engine is single-threaded: [Engine.Run] performs all reads, writes, and
// rotations sequentially on the calling goroutine.
type Engine struct {
	fs       fs.FS
	path     string
	limit    uint64
	depth    int
	appendTo bool
	log      *log.Logger

	file fs.File
	n    uint64 // bytes written since the last rotation
}

// New validates opts and returns an unopened Engine.
func New(opts Options) (*Engine, error) {
	if opts.Path == "" {
		return nil, ErrPathEmpty
	}

	if opts.Limit == 0 {
		return nil, ErrLimitZero
	}

	if opts.Depth < 1 {
		return nil, ErrDepthInvalid
	}

	if opts.FS == nil {
		opts.FS = fs.NewReal()
	}

	if opts.Log == nil {
		opts.Log = log.New(io.Discard)
	}

	return &Engine{
		fs:       opts.FS,
		path:     opts.Path,
		limit:    opts.Limit,
		depth:    opts.Depth,
		appendTo: opts.Append,
		log:      opts.Log,
	}, nil
}

// Run copies in to the active file until end-of-input, rotating whenever the
// byte counter reaches the limit. If tee is non-nil, every chunk is also
// written to it before the file write.
//
// Returns nil on clean end-of-input. Any other outcome wraps [ErrRead],
// [ErrWrite], or [ErrRotation]. No I/O is retried.
func (e *Engine) Run(in io.Reader, tee io.Writer) error {
	if err := e.open(); err != nil {
		return err
	}

	// An appended-to file may already be past the limit before the first
	// byte arrives. Retire it up front so the stream starts on a fresh
	// segment.
	if e.n >= e.limit {
		e.log.Info("rotating oversized file at startup", "size", e.n, "limit", e.limit)

		if err := e.rotate(); err != nil {
			e.closeQuietly()

			return err
		}
	}

	copyErr := e.copy(in, tee)

	closeErr := e.file.Close()
	e.file = nil

	if copyErr != nil {
		return copyErr
	}

	if closeErr != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWrite, e.path, closeErr)
	}

	return nil
}

// open creates the active file, or opens it for appending when configured,
// and primes the byte counter.
func (e *Engine) open() error {
	if !e.appendTo {
		f, err := e.fs.Create(e.path)
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", e.path, err)
		}

		e.file = f
		e.n = 0

		return nil
	}

	f, err := e.fs.OpenFile(e.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, activeFilePerm)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", e.path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("cannot stat %s: %w", e.path, err)
	}

	e.file = f
	e.n = uint64(info.Size())

	return nil
}

func (e *Engine) closeQuietly() {
	if e.file != nil {
		_ = e.file.Close()
		e.file = nil
	}
}
