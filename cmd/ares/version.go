package main

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// version is stamped by the release pipeline via -ldflags.
var version = "dev"

// timePrecision rounds elapsed durations for human-facing output.
const timePrecision = time.Millisecond

func runVersion(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stderr, "version takes no arguments")
		return 2
	}
	fmt.Fprintln(stdout, version)
	return 0
}
