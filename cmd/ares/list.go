package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/z3rofork/Ares/internal/checker"
	"github.com/z3rofork/Ares/internal/decoder"
)

type catalogueEntry struct {
	Name        string  `json:"name"`
	Priority    float64 `json:"priority"`
	Description string  `json:"description"`
}

type catalogue struct {
	Decoders []catalogueEntry `json:"decoders"`
	Checkers []string         `json:"checkers"`
}

func runList(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonOut := fs.Bool("json", false, "emit the catalogue as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stderr, "list takes no arguments")
		return 2
	}

	registry := decoder.DefaultRegistry()
	suite, err := checker.DefaultSuite("")
	if err != nil {
		fmt.Fprintf(stderr, "build checker suite: %v\n", err)
		return 1
	}

	cat := catalogue{Checkers: suite.Names()}
	for _, d := range registry.All() {
		cat.Decoders = append(cat.Decoders, catalogueEntry{
			Name:        d.Name(),
			Priority:    d.Priority(),
			Description: d.Description(),
		})
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cat); err != nil {
			fmt.Fprintf(stderr, "encode catalogue: %v\n", err)
			return 1
		}
		return 0
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DECODER\tPRIORITY\tDESCRIPTION")
	for _, e := range cat.Decoders {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", e.Name, e.Priority, e.Description)
	}
	tw.Flush()

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "CHECKERS")
	for _, name := range cat.Checkers {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return 0
}
