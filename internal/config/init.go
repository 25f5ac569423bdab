package config

import (
	"fmt"
	"path/filepath"

	"frots/internal/fs"
)

const (
	configPerm = 0o644
	dirPerm    = 0o755
)

// starterConfig is written by Init. JSONC: comments survive hujson parsing.
const starterConfig = `{
    // Default rotation threshold, byte-unit format (512K, 3M, 1G, ...).
    //"size_limit": "1G",

    // Numbered backup files to keep in addition to the active file.
    //"num_rotate": 2,

    // Treat size-limit unit suffixes as bits instead of bytes.
    //"bits": false,

    // Duplicate stdin to stdout, like tee(1).
    //"tee": false,

    // Append to an existing target file instead of truncating it.
    //"append": false,

    // Log rotation diagnostics to stderr.
    //"verbose": false,
}
`

// Init writes a commented starter config file and returns its path.
//
// Writes to explicitPath if non-empty, otherwise to the global location.
// The write is atomic so a crash cannot leave a truncated config. Refuses
// to overwrite an existing file.
func Init(fsys fs.FS, explicitPath string, env map[string]string) (string, error) {
	if fsys == nil {
		fsys = fs.NewReal()
	}

	path := explicitPath
	if path == "" {
		path = globalPath(env)
	}

	if path == "" {
		return "", fmt.Errorf("cannot determine config location: neither $XDG_CONFIG_HOME nor $HOME is set")
	}

	ok, err := fsys.Exists(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	if ok {
		return "", fmt.Errorf("%w: %s", ErrConfigFileExists, path)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}

	if err := fsys.WriteFileAtomic(path, []byte(starterConfig), configPerm); err != nil {
		return "", fmt.Errorf("cannot write config file: %w", err)
	}

	return path, nil
}
