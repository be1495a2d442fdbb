package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/z3rofork/Ares/internal/config"
	"github.com/z3rofork/Ares/internal/env"
	"github.com/z3rofork/Ares/internal/logging"
	"github.com/z3rofork/Ares/internal/printer"
	"github.com/z3rofork/Ares/internal/updater"
)

func runSelfUpdate(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "channel" {
		return runSelfUpdateChannel(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("self-update", flag.ContinueOnError)
	fs.SetOutput(stderr)
	channelFlag := fs.String("channel", "", "update channel for this invocation (stable or beta)")
	rollback := fs.Bool("rollback", false, "restore the previous ares binary")
	noColor := fs.Bool("no-color", false, "disable colorized output")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "self-update takes no positional arguments")
		return 2
	}

	p := printer.New(stdout, stderr, *noColor)
	dir, err := updater.StateDir()
	if err != nil {
		fmt.Fprintf(stderr, "resolve updater state dir: %v\n", err)
		return 1
	}
	u := &updater.Updater{Dir: dir, Version: version, Out: stdout}
	if val, ok := env.Lookup("ARES_UPDATER_BASE_URL", ""); ok {
		u.BaseURL = strings.TrimSpace(val)
	}

	if *rollback {
		restored, err := u.Rollback()
		if err != nil {
			fmt.Fprintf(stderr, "rollback failed: %v\n", err)
			return 1
		}
		if restored != "" {
			p.Success("rolled ares back to %s", restored)
		} else {
			p.Success("rolled ares back to the previous binary")
		}
		return 0
	}

	st, err := updater.LoadState(dir)
	if err != nil {
		fmt.Fprintf(stderr, "load updater state: %v\n", err)
		return 1
	}
	channel := st.Channel
	if *channelFlag != "" {
		channel, err = updater.NormalizeChannel(*channelFlag)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
	}

	p.Step("checking the %s channel for updates", channel)
	applied, err := u.Apply(context.Background(), channel)
	if err != nil {
		fmt.Fprintf(stderr, "update failed: %v\n", err)
		return 1
	}
	if applied == "" {
		p.Info("ares %s is already up to date", version)
		return 0
	}
	p.Success("updated ares to %s", applied)
	auditSelfUpdate(version, applied, stderr)
	return 0
}

func runSelfUpdateChannel(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("self-update channel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	dir, err := updater.StateDir()
	if err != nil {
		fmt.Fprintf(stderr, "resolve updater state dir: %v\n", err)
		return 1
	}
	st, err := updater.LoadState(dir)
	if err != nil {
		fmt.Fprintf(stderr, "load updater state: %v\n", err)
		return 1
	}

	switch fs.NArg() {
	case 0:
		fmt.Fprintln(stdout, st.Channel)
		return 0
	case 1:
		channel, err := updater.NormalizeChannel(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
		st.Channel = channel
		if err := updater.SaveState(dir, st); err != nil {
			fmt.Fprintf(stderr, "persist updater state: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "default channel set to %s\n", channel)
		return 0
	default:
		fmt.Fprintln(stderr, "self-update channel accepts at most one argument")
		return 2
	}
}

// auditSelfUpdate records the applied update when an audit log is
// configured. Audit failures never fail the update itself.
func auditSelfUpdate(from, to string, stderr io.Writer) {
	cfg, err := config.Load()
	if err != nil || strings.TrimSpace(cfg.AuditLog) == "" {
		return
	}
	audit, err := logging.NewAuditLogger(logging.WithFile(cfg.AuditLog), logging.WithoutStdout())
	if err != nil {
		fmt.Fprintf(stderr, "open audit log: %v\n", err)
		return
	}
	defer audit.Close()
	event := logging.Event{
		Type:   logging.EventSelfUpdate,
		Detail: map[string]any{"from": from, "to": to},
	}
	if err := audit.Emit(event); err != nil {
		fmt.Fprintf(stderr, "audit emit failed: %v\n", err)
	}
}
