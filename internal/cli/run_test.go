package cli_test

import (
	"strings"
	"testing"
	"testing/iotest"

	"frots/internal/cli"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{
			name:       "missing file",
			args:       []string{"-s", "1K"},
			wantStderr: "file path is required",
		},
		{
			name:       "missing size limit",
			args:       []string{"-f", "out.log"},
			wantStderr: "size limit is required",
		},
		{
			name:       "malformed size",
			args:       []string{"-f", "out.log", "-s", "abc"},
			wantStderr: "invalid size",
		},
		{
			name:       "zero size",
			args:       []string{"-f", "out.log", "-s", "0"},
			wantStderr: "invalid size",
		},
		{
			name:       "zero num-rotate",
			args:       []string{"-f", "out.log", "-s", "1K", "-r", "0"},
			wantStderr: "num-rotate must be >= 1",
		},
		{
			name:       "unknown flag",
			args:       []string{"--frobnicate"},
			wantStderr: "unknown flag",
		},
		{
			name:       "stray argument",
			args:       []string{"-f", "out.log", "-s", "1K", "stray"},
			wantStderr: "unexpected argument",
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(nil, tt.args...)
			cli.AssertContains(t, stderr, tt.wantStderr)
		})
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun(nil, "--help")

	cli.AssertContains(t, stdout, "Usage: frots")
	cli.AssertContains(t, stdout, "--num-rotate")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun(nil, "--version")

	cli.AssertContains(t, stdout, "frots")
}

func TestStreamToFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun(strings.NewReader("hello world"), "-f", "out.log", "-s", "1K")

	if got, want := c.ReadFile("out.log"), "hello world"; got != want {
		t.Errorf("out.log=%q, want=%q", got, want)
	}
}

// Limit 10, two backups, 25 bytes end to end. The one-byte reader forces
// chunk boundaries that land exactly on the limit.
func TestStreamRotatesThroughBackups(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	input := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 5)

	c.MustRun(iotest.OneByteReader(strings.NewReader(input)),
		"-f", "out.log", "-s", "10", "-r", "2")

	if got, want := c.ReadFile("out.log"), "ccccc"; got != want {
		t.Errorf("out.log=%q, want=%q", got, want)
	}

	if got, want := c.ReadFile("out.log.1"), "bbbbbbbbbb"; got != want {
		t.Errorf("out.log.1=%q, want=%q", got, want)
	}

	if got, want := c.ReadFile("out.log.2"), "aaaaaaaaaa"; got != want {
		t.Errorf("out.log.2=%q, want=%q", got, want)
	}

	if c.Exists("out.log.3") {
		t.Error("out.log.3 should not exist")
	}
}

func TestTeeDuplicatesStdin(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	input := strings.Repeat("payload ", 10)

	stdout := c.MustRun(iotest.OneByteReader(strings.NewReader(input)),
		"-f", "out.log", "-s", "16", "--tee")

	if got := stdout; got != strings.TrimSpace(input) {
		t.Errorf("tee stdout=%q, want=%q", got, strings.TrimSpace(input))
	}
}

func TestVerboseLogsRotation(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, stderr, code := c.Run(strings.NewReader("0123456789"),
		"-f", "out.log", "-s", "4", "-v")
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stderr, "rotation scheme")
	cli.AssertContains(t, stderr, "rotating")
}

func TestQuietByDefault(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, stderr, code := c.Run(strings.NewReader("0123456789"),
		"-f", "out.log", "-s", "4")
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	if stderr != "" {
		t.Errorf("stderr=%q, want empty", stderr)
	}
}

func TestBitsFlag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	// 1Kb = 128 bytes; 200 input bytes force one rotation at 128.
	input := strings.Repeat("z", 200)

	c.MustRun(iotest.OneByteReader(strings.NewReader(input)),
		"-f", "out.log", "-s", "1Kb", "--bits")

	if got, want := len(c.ReadFile("out.log.1")), 128; got != want {
		t.Errorf("out.log.1 size=%d, want=%d", got, want)
	}

	if got, want := len(c.ReadFile("out.log")), 72; got != want {
		t.Errorf("out.log size=%d, want=%d", got, want)
	}
}

func TestConfigFileProvidesDefaults(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".frots.json", `{
		// Project defaults.
		"size_limit": "6",
		"num_rotate": 2,
	}`)

	c.MustRun(iotest.OneByteReader(strings.NewReader("aaaaaabbbbbbcc")), "-f", "out.log")

	if got, want := c.ReadFile("out.log"), "cc"; got != want {
		t.Errorf("out.log=%q, want=%q", got, want)
	}

	if got, want := c.ReadFile("out.log.1"), "bbbbbb"; got != want {
		t.Errorf("out.log.1=%q, want=%q", got, want)
	}

	if got, want := c.ReadFile("out.log.2"), "aaaaaa"; got != want {
		t.Errorf("out.log.2=%q, want=%q", got, want)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".frots.json", `{"size_limit": "2"}`)

	// The flag wins over the project file.
	c.MustRun(strings.NewReader("abcdef"), "-f", "out.log", "-s", "1K")

	if got, want := c.ReadFile("out.log"), "abcdef"; got != want {
		t.Errorf("out.log=%q, want=%q", got, want)
	}

	if c.Exists("out.log.1") {
		t.Error("out.log.1 should not exist")
	}
}

func TestPrintConfig(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".frots.json", `{"size_limit": "3M", "num_rotate": 4}`)

	stdout := c.MustRun(nil, "--print-config")

	cli.AssertContains(t, stdout, `"size_limit": "3M"`)
	cli.AssertContains(t, stdout, `"num_rotate": 4`)
	cli.AssertContains(t, stdout, "# Sources:")
	cli.AssertContains(t, stdout, ".frots.json")
}

func TestInitConfig(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["XDG_CONFIG_HOME"] = c.Dir

	stdout := c.MustRun(nil, "--init-config")
	cli.AssertContains(t, stdout, "wrote")

	if !c.Exists("frots/config.json") {
		t.Fatal("config file not created")
	}

	stderr := c.MustFail(nil, "--init-config")
	cli.AssertContains(t, stderr, "already exists")
}

func TestAppendFlag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("out.log", "existing ")

	c.MustRun(strings.NewReader("appended"), "-f", "out.log", "-s", "1K", "-a")

	if got, want := c.ReadFile("out.log"), "existing appended"; got != want {
		t.Errorf("out.log=%q, want=%q", got, want)
	}
}
