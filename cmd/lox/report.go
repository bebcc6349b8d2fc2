package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"lox/interpreter-go/pkg/driver"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// reporter writes diagnostics, colouring them only for a terminal.
type reporter struct {
	w     io.Writer
	color bool
}

func newReporter(opts cliOptions) *reporter {
	return &reporter{w: os.Stderr, color: colorEnabled(opts, os.Stderr)}
}

func colorEnabled(opts cliOptions, f *os.File) bool {
	if opts.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// diagnostics prints each diagnostic in jlox form, prefixed with its path
// when withPath is set.
func (r *reporter) diagnostics(diags []driver.Diagnostic, withPath bool) {
	for _, diag := range diags {
		text := driver.FormatDiagnostic(diag)
		if withPath {
			text = driver.DescribeDiagnostic(diag)
		}
		color := ansiRed
		if diag.Severity == driver.SeverityWarning {
			color = ansiYellow
		}
		fmt.Fprintln(r.w, r.paint(color, text))
	}
}

func (r *reporter) errorf(format string, args ...any) {
	fmt.Fprintln(r.w, r.paint(ansiRed, fmt.Sprintf(format, args...)))
}

func (r *reporter) paint(color, text string) string {
	if !r.color {
		return text
	}
	return color + text + ansiReset
}
