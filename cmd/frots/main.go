// Package main provides frots, a size-based file rotator for piped streams
// that never renames the file a producer is writing into.
package main

import (
	"os"
	"strings"

	"frots/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env))
}
