// Package cli wires flags, config files, and the rotation engine into the
// frots command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"frots/internal/config"
	"frots/internal/fs"
	"frots/internal/rotate"
	"frots/internal/sizespec"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Validation errors for the flag surface.
var (
	ErrFileRequired = errors.New("file path is required (-f, --file)")
	ErrSizeRequired = errors.New("size limit is required (-s, --size-limit)")
)

// options is the parsed flag set.
type options struct {
	file       string
	sizeLimit  string
	numRotate  int
	bits       bool
	tee        bool
	appendTo   bool
	verbose    bool
	configPath string
	workDir    string

	printConfig bool
	initConfig  bool
	showVersion bool
}

// Run is the main entry point. Returns the process exit code.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, env map[string]string) int {
	opts, flags, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)

			return 0
		}

		fprintln(stderr, "error:", err)
		printUsage(stderr)

		return 1
	}

	if opts.showVersion {
		fprintln(stdout, "frots", version)

		return 0
	}

	// Resolve effective working directory.
	workDir := opts.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(stderr, "error: cannot get working directory:", err)

			return 1
		}
	}

	fsys := fs.NewReal()

	if opts.initConfig {
		target := opts.configPath
		if target != "" && !filepath.IsAbs(target) {
			target = filepath.Join(workDir, target)
		}

		path, initErr := config.Init(fsys, target, env)
		if initErr != nil {
			fprintln(stderr, "error:", initErr)

			return 1
		}

		fprintln(stdout, "wrote", path)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		FS:         fsys,
		WorkDir:    workDir,
		ConfigPath: opts.configPath,
		Env:        env,
	})
	if err != nil {
		fprintln(stderr, "error:", err)

		return 1
	}

	cfg = applyFlagOverrides(cfg, opts, flags)

	if opts.printConfig {
		return printConfig(stdout, stderr, cfg)
	}

	if err := stream(stdin, stdout, stderr, opts, cfg, workDir, fsys); err != nil {
		fprintln(stderr, "error:", err)

		return 1
	}

	return 0
}

// stream runs the copy-and-rotate loop against the resolved configuration.
func stream(stdin io.Reader, stdout, stderr io.Writer, opts options, cfg config.Config, workDir string, fsys fs.FS) error {
	if opts.file == "" {
		return ErrFileRequired
	}

	if cfg.SizeLimit == "" {
		return ErrSizeRequired
	}

	limit, err := sizespec.Parse(cfg.SizeLimit, cfg.Bits)
	if err != nil {
		return err
	}

	path := opts.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	logger := newLogger(stderr, cfg.Verbose)
	logger.Info("rotation scheme", "renames", schemeString(path, cfg.NumRotate))

	engine, err := rotate.New(rotate.Options{
		FS:     fsys,
		Path:   path,
		Limit:  limit,
		Depth:  cfg.NumRotate,
		Append: cfg.Append,
		Log:    logger,
	})
	if err != nil {
		return err
	}

	var tee io.Writer
	if cfg.Tee {
		tee = stdout
	}

	return engine.Run(stdin, tee)
}

func newLogger(stderr io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.InfoLevel
	}

	return log.NewWithOptions(stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}

// schemeString formats the rotation rename pairs for the startup diagnostic.
func schemeString(path string, depth int) string {
	pairs := rotate.Scheme(path, depth)

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s -> %s", p[0], p[1])
	}

	return strings.Join(parts, ", ")
}

// applyFlagOverrides lays explicitly set flags over the file-derived config.
func applyFlagOverrides(cfg config.Config, opts options, flags *flag.FlagSet) config.Config {
	if flags.Changed("size-limit") {
		cfg.SizeLimit = opts.sizeLimit
	}

	if flags.Changed("num-rotate") {
		cfg.NumRotate = opts.numRotate
	}

	if flags.Changed("bits") {
		cfg.Bits = opts.bits
	}

	if flags.Changed("tee") {
		cfg.Tee = opts.tee
	}

	if flags.Changed("append") {
		cfg.Append = opts.appendTo
	}

	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}

	return cfg
}

func parseFlags(args []string) (options, *flag.FlagSet, error) {
	var opts options

	flags := flag.NewFlagSet("frots", flag.ContinueOnError)
	flags.SortFlags = false
	flags.SetOutput(io.Discard)

	flags.StringVarP(&opts.file, "file", "f", "", "file to write to")
	flags.StringVarP(&opts.sizeLimit, "size-limit", "s", "", "size limit before rotation (1KB, 3M, 4G, ...)")
	flags.IntVarP(&opts.numRotate, "num-rotate", "r", 1, "numbered backup files to keep, must be >= 1")
	flags.BoolVar(&opts.bits, "bits", false, "unit suffixes denote bits (1Kb = 128 bytes)")
	flags.BoolVar(&opts.tee, "tee", false, "duplicate stdin to stdout, like tee(1)")
	flags.BoolVarP(&opts.appendTo, "append", "a", false, "append to the file instead of truncating it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log rotation diagnostics to stderr")
	flags.StringVarP(&opts.configPath, "config", "c", "", "use the specified config file")
	flags.StringVarP(&opts.workDir, "cwd", "C", "", "run as if started in this directory")
	flags.BoolVar(&opts.printConfig, "print-config", false, "show the resolved configuration and exit")
	flags.BoolVar(&opts.initConfig, "init-config", false, "write a starter config file and exit")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := flags.Parse(args); err != nil {
		return options{}, nil, err
	}

	if rest := flags.Args(); len(rest) > 0 {
		return options{}, nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	return opts, flags, nil
}

func printConfig(stdout, stderr io.Writer, cfg config.Config) int {
	formatted, err := config.Format(cfg)
	if err != nil {
		fprintln(stderr, "error:", err)

		return 1
	}

	fprintln(stdout, formatted)
	fprintln(stdout, "")
	fprintln(stdout, "# Sources:")

	if cfg.Sources.Global != "" {
		fprintln(stdout, "#   global:", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		fprintln(stdout, "#   project:", cfg.Sources.Project)
	}

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		fprintln(stdout, "#   (using defaults only)")
	}

	return 0
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `frots - file rotation that actually handles stdout

logrotate moves the primary logfile into rotation with rename(), which
confuses programs already writing to it: they keep writing into the rotated
file. frots reads stdin into the target file itself and rotates by retiring
the just-filled file, so the descriptor it writes through is never pulled
out from under it.

Reads standard input into the target file until EOF (exit 0) or an
unrecoverable error (message on stderr, exit 1). When the file reaches the
size limit: sync it to disk, rename file.N to file.N+1 for N from
--num-rotate-1 down to 1, rename the file to file.1, and continue in a
fresh file.

Usage: frots -f <file> -s <limit> [options]

Options:
  -f, --file <path>        File to write to (required)
  -s, --size-limit <size>  Size limit before rotation (1KB, 3M, 4G, ...)
  -r, --num-rotate <n>     Numbered backup files to keep (default 1)
      --bits               Unit suffixes denote bits (1Kb = 128 bytes)
      --tee                Duplicate stdin to stdout, like tee(1)
  -a, --append             Append to the file instead of truncating it
  -v, --verbose            Log rotation diagnostics to stderr
  -c, --config <path>      Use the specified config file
  -C, --cwd <dir>          Run as if started in <dir>
      --print-config       Show the resolved configuration and exit
      --init-config        Write a starter config file and exit
      --version            Print version and exit

Example:
  # Active file plus two 1GB backups, teeing to stdout with diagnostics
  some-prog | frots -f /var/log/prog/a.log -s 1G -r 2 --tee -v`)
}
