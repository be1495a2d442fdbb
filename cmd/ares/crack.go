package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/z3rofork/Ares/internal/checker"
	"github.com/z3rofork/Ares/internal/config"
	"github.com/z3rofork/Ares/internal/cracker"
	"github.com/z3rofork/Ares/internal/decoder"
	"github.com/z3rofork/Ares/internal/logging"
	"github.com/z3rofork/Ares/internal/printer"
)

func runCrack(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("ares", flag.ContinueOnError)
	fs.SetOutput(stderr)
	text := fs.String("t", "", "text to crack")
	fs.StringVar(text, "text", "", "text to crack")
	file := fs.String("f", "", "file whose contents should be cracked")
	fs.StringVar(file, "file", "", "file whose contents should be cracked")
	maxDepth := fs.Int("max-depth", cfg.MaxDepth, "maximum decode chain length")
	timeout := fs.Duration("timeout", cfg.Timeout, "wall-clock search budget (0 disables)")
	decodersFlag := fs.String("decoders", strings.Join(cfg.Decoders, ","), "comma-separated decoder subset (empty = all)")
	checkersFlag := fs.String("checkers", strings.Join(cfg.Checkers, ","), "comma-separated checker subset (empty = all)")
	regexFlag := fs.String("regex", cfg.Regex, "additional regex treated as a flag format")
	workers := fs.Int("workers", cfg.Workers, "worker pool size (0 = one per CPU)")
	jsonOut := fs.Bool("json", false, "emit the result as JSON")
	auditLog := fs.String("audit-log", cfg.AuditLog, "append JSONL audit events to this file")
	noColor := fs.Bool("no-color", cfg.NoColor, "disable colorized output")
	verbose := fs.Bool("verbose", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "unexpected positional arguments; use -t or -f")
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	input, code := resolveInput(*text, *file, stderr)
	if code != 0 {
		return code
	}

	p := printer.New(stdout, stderr, *noColor)

	suite, err := checker.DefaultSuite(*regexFlag)
	if err != nil {
		p.Error("invalid configuration", err.Error(),
			"check the --regex pattern compiles as a Go regular expression")
		return 2
	}
	registry := decoder.DefaultRegistry()
	logger.Debug("engine ready",
		"decoders", len(registry.Names()), "checkers", len(suite.Names()))

	searchCfg := cracker.Config{
		MaxDepth: *maxDepth,
		Timeout:  *timeout,
		Decoders: splitList(*decodersFlag),
		Checkers: splitList(*checkersFlag),
		Workers:  *workers,
	}

	var audit *logging.AuditLogger
	if strings.TrimSpace(*auditLog) != "" {
		audit, err = logging.NewAuditLogger(logging.WithFile(*auditLog), logging.WithoutStdout())
		if err != nil {
			fmt.Fprintf(stderr, "open audit log: %v\n", err)
			return 2
		}
		defer audit.Close()
		emit(audit, logger, logging.Event{
			Type:  logging.EventSearchStart,
			Input: logging.Preview(input),
			Detail: map[string]any{
				"max_depth": searchCfg.MaxDepth,
				"timeout":   searchCfg.Timeout.String(),
			},
		})
	}

	res, err := cracker.New(registry, suite).Crack(context.Background(), input, searchCfg)
	if err != nil {
		p.Error("invalid configuration", err.Error())
		return 2
	}

	if audit != nil {
		if res.Status == cracker.StatusSuccess {
			emit(audit, logger, logging.Event{
				Type:    logging.EventCheckerMatch,
				Input:   logging.Preview(res.Plaintext),
				Checker: res.Checker,
				Depth:   len(res.Path),
			})
		}
		emit(audit, logger, logging.Event{
			Type:   logging.EventSearchResult,
			Status: string(res.Status),
			Path:   res.Path,
			Detail: map[string]any{"elapsed": res.Stats.Elapsed.String()},
		})
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "encode result: %v\n", err)
			return 1
		}
		if res.Status == cracker.StatusSuccess {
			return 0
		}
		return 1
	}

	return render(p, res)
}

func resolveInput(text, file string, stderr io.Writer) (string, int) {
	switch {
	case text != "" && file != "":
		fmt.Fprintln(stderr, "-t and -f are mutually exclusive")
		return "", 2
	case text != "":
		return text, 0
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "read input file: %v\n", err)
			return "", 2
		}
		return strings.TrimRight(string(data), "\r\n"), 0
	default:
		fmt.Fprintln(stderr, "no input: pass -t TEXT or -f FILE")
		return "", 2
	}
}

func render(p *printer.Printer, res cracker.Result) int {
	switch res.Status {
	case cracker.StatusSuccess:
		if len(res.Path) == 0 {
			p.Success("input is already plaintext (%s)", res.Reason)
		} else {
			p.Success("recovered plaintext after %d step(s): %s", len(res.Path), strings.Join(res.Path, " -> "))
		}
		p.Info("%s", res.Plaintext)
		p.Detail("checker: %s (%s)", res.Checker, res.Reason)
		p.Detail("checked %d candidates in %s", res.Stats.CandidatesChecked, res.Stats.Elapsed.Round(timePrecision))
		return 0
	case cracker.StatusExhausted:
		switch res.Exhaustion {
		case cracker.ExhaustedTimeout:
			p.Warning("search timed out; try a longer --timeout or fewer decoders")
		case cracker.ExhaustedDepthLimit:
			p.Warning("depth limit reached; try a larger --max-depth")
		default:
			p.Warning("search space exhausted without finding plaintext")
		}
		p.Detail("checked %d candidates across %d level(s)", res.Stats.CandidatesChecked, res.Stats.Depth)
		return 1
	default:
		// Result statuses are a closed set; anything else is a defect.
		panic(fmt.Sprintf("unknown result status %q", res.Status))
	}
}

func emit(audit *logging.AuditLogger, logger *slog.Logger, event logging.Event) {
	if err := audit.Emit(event); err != nil {
		logger.Warn("audit emit failed", "err", err)
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
