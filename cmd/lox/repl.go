package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/lox"
)

const (
	replPrompt       = "> "
	replContinuation = "... "
	replHistoryFile  = ".lox_history"
)

// lineReader yields one line of input per call. io.EOF ends the session.
type lineReader interface {
	ReadLine(prompt string) (string, error)
}

type linerReader struct {
	state *liner.State
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// plainReader serves piped input; prompts are not echoed.
type plainReader struct {
	scanner *bufio.Scanner
}

func (r *plainReader) ReadLine(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func runRepl(args []string, opts cliOptions) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "lox repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return exitUsage
	}
	manifest, err := loadManifestFrom("")
	if err != nil {
		if !errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); starting with defaults\n", err)
		}
		manifest = nil
	}
	session := lox.NewSession(sessionOptions(opts, manifest, "", os.Stdout)...)
	rep := newReporter(opts)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return replLoop(&plainReader{scanner: bufio.NewScanner(os.Stdin)}, session, rep, os.Stdout)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := replHistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(os.Stdout, "%s (type :help for commands)\n", cliToolVersion)
	return replLoop(&linerReader{state: ln}, session, rep, os.Stdout)
}

func replHistoryPath() string {
	if path := strings.TrimSpace(os.Getenv("LOX_HISTORY")); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, replHistoryFile)
}

// replLoop evaluates chunks against one session until :quit or end of
// input. A chunk that is a single expression has its value echoed.
func replLoop(in lineReader, session *lox.Session, rep *reporter, out io.Writer) int {
	for {
		code, ok := readChunk(in)
		if !ok {
			return exitOK
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch trimmed {
			case ":quit", ":q", ":exit":
				return exitOK
			case ":env":
				fmt.Fprintln(out, strings.Join(session.Globals(), " "))
			case ":help":
				fmt.Fprintln(out, ":env   list global names")
				fmt.Fprintln(out, ":quit  leave the REPL")
			default:
				fmt.Fprintf(out, "unknown command %s. Type :help for commands.\n", trimmed)
			}
			continue
		}

		result, value := session.Evaluate(code)
		rep.diagnostics(result.Diagnostics, false)
		if result.OK() && value != nil {
			fmt.Fprintln(out, lox.Stringify(value))
		}
	}
}

// readChunk keeps reading continuation lines while the input so far is only
// missing its end. A bare expression without a trailing semicolon is
// accepted as is.
func readChunk(in lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := replPrompt
		if b.Len() > 0 {
			prompt = replContinuation
		}
		line, err := in.ReadLine(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !lox.Incomplete(src) {
			return src, true
		}
		if _, diags := lox.Parse(src + ";"); len(diags) == 0 {
			return src + ";", true
		}
	}
}
