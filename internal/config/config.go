// Package config resolves frots configuration from JSONC config files.
//
// The target file path is deliberately not configurable from a file: it is
// the one thing an invocation can never inherit by accident.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tailscale/hujson"

	"frots/internal/fs"
)

// Config file errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrConfigFileExists   = errors.New("config file already exists")
)

// Config holds the file-configurable options.
type Config struct {
	// SizeLimit is the rotation threshold in byte-unit format ("1G").
	SizeLimit string `json:"size_limit,omitempty"`
	// NumRotate is the number of numbered backup files kept.
	NumRotate int `json:"num_rotate,omitempty"`
	// Bits makes size-limit unit suffixes denote bits instead of bytes.
	Bits bool `json:"bits,omitempty"`
	// Tee duplicates stdin to stdout.
	Tee bool `json:"tee,omitempty"`
	// Append appends to an existing target file instead of truncating.
	Append bool `json:"append,omitempty"`
	// Verbose enables rotation diagnostics on stderr.
	Verbose bool `json:"verbose,omitempty"`

	// Sources tracks which config files were loaded (for diagnostics).
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		NumRotate: 1,
	}
}

// FileName is the project-local config file name.
const FileName = ".frots.json"

// globalPath returns the global config file path.
// Uses $XDG_CONFIG_HOME/frots/config.json if set, otherwise
// ~/.config/frots/config.json. Empty if neither can be determined.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "frots", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "frots", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	FS         fs.FS
	WorkDir    string            // resolved working directory
	ConfigPath string            // -c/--config flag value, optional
	Env        map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config
//  3. Project config (.frots.json in the working directory)
//  4. Explicit config file via -c (if non-empty)
//
// CLI flag overrides are applied by the caller, which knows which flags were
// actually set.
func Load(input LoadInput) (Config, error) {
	if input.FS == nil {
		input.FS = fs.NewReal()
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		loaded, ok, err := loadFile(input.FS, path, false)
		if err != nil {
			return Config{}, err
		}

		if ok {
			cfg = merge(cfg, loaded)
			cfg.Sources.Global = path
		}
	}

	path := input.ConfigPath
	mustExist := path != ""

	if path == "" {
		path = filepath.Join(input.WorkDir, FileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(input.WorkDir, path)
	}

	loaded, ok, err := loadFile(input.FS, path, mustExist)
	if err != nil {
		return Config{}, err
	}

	if ok {
		cfg = merge(cfg, loaded)
		cfg.Sources.Project = path
	}

	return cfg, nil
}

// loadFile loads one config file. Missing optional files return ok=false.
func loadFile(fsys fs.FS, path string, mustExist bool) (Config, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC (comments, trailing commas) to JSON.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

// merge overlays non-zero fields of overlay onto base. A config file cannot
// switch a boolean back off; only more specific layers (CLI flags) can.
func merge(base, overlay Config) Config {
	if overlay.SizeLimit != "" {
		base.SizeLimit = overlay.SizeLimit
	}

	if overlay.NumRotate != 0 {
		base.NumRotate = overlay.NumRotate
	}

	base.Bits = base.Bits || overlay.Bits
	base.Tee = base.Tee || overlay.Tee
	base.Append = base.Append || overlay.Append
	base.Verbose = base.Verbose || overlay.Verbose

	return base
}

// Format renders cfg as indented JSON for print-config.
func Format(cfg Config) (string, error) {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}

	return string(out), nil
}
