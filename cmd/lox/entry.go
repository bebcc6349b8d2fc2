package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/lox"
)

func runEntry(args []string, opts cliOptions) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "lox run takes at most one script (received %s)\n", strings.Join(args, " "))
		return exitUsage
	}
	if len(args) == 1 {
		return executeEntry(args[0], manifestForScript(args[0]), opts)
	}

	manifest, err := loadManifestFrom("")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "lox run requires a script or a %s declaring main\n", driver.ManifestFileName)
			return exitUsage
		}
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return exitDataErr
	}
	entry, err := manifest.MainPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
		return exitDataErr
	}
	return executeEntry(entry, manifest, opts)
}

func executeEntry(entry string, manifest *driver.Manifest, opts cliOptions) int {
	source, code := readSource(entry)
	if code != exitOK {
		return code
	}
	result := lox.Run(source, sessionOptions(opts, manifest, entry, os.Stdout)...)
	newReporter(opts).diagnostics(result.Diagnostics, false)
	return result.Status.ExitCode()
}

// sessionOptions builds interpreter options. The --max-call-depth flag wins
// over the manifest's runtime.max_call_depth.
func sessionOptions(opts cliOptions, manifest *driver.Manifest, path string, out io.Writer) []lox.Option {
	options := []lox.Option{lox.WithOutput(out)}
	if path != "" {
		options = append(options, lox.WithPath(path))
	}
	depth := opts.maxCallDepth
	if depth == 0 && manifest != nil {
		depth = manifest.Runtime.MaxCallDepth
	}
	if depth > 0 {
		options = append(options, lox.WithMaxCallDepth(depth))
	}
	return options
}

func readSource(path string) (string, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return "", exitIOErr
	}
	return string(data), exitOK
}

func runCheck(args []string, opts cliOptions) int {
	paths := args
	if len(paths) == 0 {
		manifest, err := loadManifestFrom("")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintf(os.Stderr, "lox check requires scripts or a %s declaring main\n", driver.ManifestFileName)
				return exitUsage
			}
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return exitDataErr
		}
		entry, err := manifest.MainPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return exitDataErr
		}
		paths = []string{entry}
	}

	rep := newReporter(opts)
	exit := exitOK
	for _, path := range paths {
		source, code := readSource(path)
		if code != exitOK {
			exit = max(exit, code)
			continue
		}
		result := lox.Check(source, lox.WithPath(path))
		rep.diagnostics(result.Diagnostics, true)
		exit = max(exit, result.Status.ExitCode())
	}
	if exit == exitOK {
		fmt.Fprintln(os.Stdout, "check: ok")
	}
	return exit
}

func runTokens(args []string, opts cliOptions) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "lox tokens expects exactly one script")
		return exitUsage
	}
	source, code := readSource(args[0])
	if code != exitOK {
		return code
	}
	tokens, diags := lox.Tokens(source, lox.WithPath(args[0]))
	for _, tok := range tokens {
		fmt.Fprintln(os.Stdout, tok.String())
	}
	if len(diags) > 0 {
		newReporter(opts).diagnostics(diags, true)
		return exitDataErr
	}
	return exitOK
}

func runParse(args []string, opts cliOptions) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "lox parse expects exactly one script")
		return exitUsage
	}
	source, code := readSource(args[0])
	if code != exitOK {
		return code
	}
	program, diags := lox.Parse(source, lox.WithPath(args[0]))
	if len(diags) > 0 {
		newReporter(opts).diagnostics(diags, true)
		return exitDataErr
	}
	fmt.Fprint(os.Stdout, ast.PrintProgram(program))
	return exitOK
}
