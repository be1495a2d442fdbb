// Command ares recovers plaintext from strings transformed by unknown,
// possibly chained encodings and classical ciphers.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "list":
			return runList(args[1:], stdout, stderr)
		case "self-update":
			return runSelfUpdate(args[1:], stdout, stderr)
		case "version":
			return runVersion(args[1:], stdout, stderr)
		case "help", "-h", "--help":
			printUsage(stderr)
			return 0
		}
	}
	return runCrack(args, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `ares - automatic decoding of encoded and weakly enciphered text

Usage:
  ares -t TEXT [flags]      crack the given text
  ares -f FILE [flags]      crack the contents of FILE
  ares list [--json]        show registered decoders and checkers
  ares self-update          update the ares binary in place
  ares version              print the version

Run 'ares -h' after a subcommand for its flags.
`)
}
