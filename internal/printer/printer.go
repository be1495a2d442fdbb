// Package printer renders user-facing terminal output with consistent
// colors and prefixes. Writers are injected so tests can capture output.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes colorized status messages. The zero value is not usable;
// construct with New.
type Printer struct {
	out io.Writer
	err io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
	dim    *color.Color
}

// New builds a printer. Colors are disabled when noColor is set or the
// NO_COLOR environment variable is present.
func New(out, err io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:    out,
		err:    err,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
		dim:    color.New(color.Faint),
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// Success prints a success message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	p.green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// Warning prints a warning message in yellow.
func (p *Printer) Warning(format string, a ...any) {
	p.yellow.Fprintf(p.err, "⚠ %s\n", fmt.Sprintf(format, a...))
}

// Step prints one step of a multi-step operation in cyan.
func (p *Printer) Step(format string, a ...any) {
	p.cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Detail prints supporting detail dimmed under the preceding message.
func (p *Printer) Detail(format string, a ...any) {
	p.dim.Fprintf(p.out, "  %s\n", fmt.Sprintf(format, a...))
}

// Error prints a titled error with an explanation and optional suggestions
// to the error writer, and returns a plain error carrying the title.
func (p *Printer) Error(title, explanation string, suggestions ...string) error {
	p.red.Fprintf(p.err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.err, "%s\n", explanation)
	}
	if len(suggestions) > 0 {
		fmt.Fprintln(p.err)
		for _, s := range suggestions {
			fmt.Fprintf(p.err, "  - %s\n", s)
		}
	}
	return fmt.Errorf("%s", title)
}
