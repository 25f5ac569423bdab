package rotate

import "fmt"

// Scheme returns the (from, to) rename pairs a full rotation performs, in
// execution order: the backup chain shift from oldest to newest, then the
// retirement of the active file into slot 1.
func Scheme(base string, depth int) [][2]string {
	pairs := make([][2]string, 0, depth)

	for n := depth - 1; n >= 1; n-- {
		pairs = append(pairs, [2]string{
			fmt.Sprintf("%s.%d", base, n),
			fmt.Sprintf("%s.%d", base, n+1),
		})
	}

	return append(pairs, [2]string{base, base + ".1"})
}

// rotate retires the active file into the backup chain and replaces it with
// a freshly created file.
//
// The sequence is fixed: sync, shift, retire, re-open. Each step must
// complete before the next begins, and any failure aborts the whole
// rotation. The old handle stays open (and valid for the producer writing
// through it) until the new file exists.
func (e *Engine) rotate() error {
	// 1. Make everything written so far durable before the file changes
	// name.
	if err := e.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrRotation, e.path, err)
	}

	// 2. Shift the chain, oldest slot first. Descending order: ascending
	// would overwrite lower slots before they are moved. The rename of
	// slot depth-1 onto slot depth discards the oldest backup.
	for n := e.depth - 1; n >= 1; n-- {
		from := fmt.Sprintf("%s.%d", e.path, n)
		to := fmt.Sprintf("%s.%d", e.path, n+1)

		ok, err := e.fs.Exists(from)
		if err != nil {
			return fmt.Errorf("%w: stat %s: %w", ErrRotation, from, err)
		}

		if !ok {
			// Fewer than n rotations so far. Normal during warm-up.
			continue
		}

		e.log.Info("renaming", "from", from, "to", to)

		if err := e.fs.Rename(from, to); err != nil {
			return fmt.Errorf("%w: rename %s -> %s: %w", ErrRotation, from, to, err)
		}
	}

	// 3. Retire the active file. Its descriptor is untouched; only the
	// name moves.
	retired := e.path + ".1"

	e.log.Info("renaming", "from", e.path, "to", retired)

	if err := e.fs.Rename(e.path, retired); err != nil {
		return fmt.Errorf("%w: rename %s -> %s: %w", ErrRotation, e.path, retired, err)
	}

	// 4. Start a fresh segment. Only after the new file is open is the
	// old handle released.
	f, err := e.fs.Create(e.path)
	if err != nil {
		return fmt.Errorf("%w: reopen %s: %w", ErrRotation, e.path, err)
	}

	old := e.file
	e.file = f
	e.n = 0

	if err := old.Close(); err != nil {
		// The retired file's bytes are already durable from step 1.
		e.log.Warn("closing retired file", "path", retired, "err", err)
	}

	return nil
}
