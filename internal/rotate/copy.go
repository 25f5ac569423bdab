package rotate

import (
	"fmt"
	"io"
)

// copyBufferSize bounds a single read. Correctness does not depend on the
// chunk size; it only bounds how far the active file can overshoot the
// limit.
const copyBufferSize = 32 * 1024

// copy is the streaming loop: read a chunk, tee it, write it to the active
// file, then rotate if the counter reached the limit.
//
// The threshold check runs after a full chunk write, never mid-chunk, so a
// single oversized chunk triggers exactly one rotation and stays in the file
// it was written to.
func (e *Engine) copy(in io.Reader, tee io.Writer) error {
	buf := make([]byte, copyBufferSize)

	for {
		n, readErr := in.Read(buf)

		if n > 0 {
			chunk := buf[:n]

			// The tee is an independent sink: it sees every byte
			// exactly once, regardless of rotation.
			if tee != nil {
				if err := writeFull(tee, chunk, "tee output"); err != nil {
					return err
				}
			}

			if err := writeFull(e.file, chunk, e.path); err != nil {
				return err
			}

			e.n += uint64(n)

			if e.n >= e.limit {
				e.log.Info("rotating", "size", e.n, "limit", e.limit, "depth", e.depth)

				if err := e.rotate(); err != nil {
					return err
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}

			return fmt.Errorf("%w: %w", ErrRead, readErr)
		}
	}
}

// writeFull writes all of chunk to w, mapping short writes and failures to
// [ErrWrite].
func writeFull(w io.Writer, chunk []byte, name string) error {
	n, err := w.Write(chunk)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, name, err)
	}

	if n < len(chunk) {
		return fmt.Errorf("%w: %s: %w", ErrWrite, name, io.ErrShortWrite)
	}

	return nil
}
