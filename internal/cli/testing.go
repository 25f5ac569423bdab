package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI provides a clean interface for running the frots command in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes frots with the given stdin and args and returns stdout,
// stderr, and exit code. Args should not include "frots" or "--cwd" - those
// are added automatically.
func (r *CLI) Run(stdin io.Reader, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	if stdin == nil {
		stdin = strings.NewReader("")
	}

	fullArgs := append([]string{"frots", "--cwd", r.Dir}, args...)
	code := Run(stdin, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes frots and fails the test on a non-zero exit.
// Returns trimmed stdout.
func (r *CLI) MustRun(stdin io.Reader, args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(stdin, args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes frots and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(stdin io.Reader, args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(stdin, args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// ReadFile reads a file relative to the test directory.
func (r *CLI) ReadFile(name string) string {
	r.t.Helper()

	content, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", name, err)
	}

	return string(content)
}

// WriteFile writes a file relative to the test directory.
func (r *CLI) WriteFile(name, content string) {
	r.t.Helper()

	err := os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o644)
	if err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
}

// Exists reports whether a file exists relative to the test directory.
func (r *CLI) Exists(name string) bool {
	r.t.Helper()

	_, err := os.Stat(filepath.Join(r.Dir, name))

	return err == nil
}

// AssertContains fails the test if s does not contain substr.
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}
