package main

import (
	"errors"
	"fmt"
	"os"

	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "lox-cli 0.0.0-dev"

// Exit codes follow sysexits(3).
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		return exitUsage
	}
	if len(remaining) == 0 {
		return runDefault(opts)
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return exitOK
	case "run":
		return runEntry(remaining[1:], opts)
	case "repl":
		return runRepl(remaining[1:], opts)
	case "check":
		return runCheck(remaining[1:], opts)
	case "tokens":
		return runTokens(remaining[1:], opts)
	case "parse":
		return runParse(remaining[1:], opts)
	case "test":
		return runTest(remaining[1:], opts)
	case "suites":
		return runSuites(remaining[1:], opts)
	case "watch":
		return runWatch(remaining[1:], opts)
	default:
		if !looksLikePathCandidate(remaining[0]) {
			if _, err := os.Stat(remaining[0]); err != nil {
				fmt.Fprintf(os.Stderr, "unknown command %q\n", remaining[0])
				printUsage()
				return exitUsage
			}
		}
		return runEntry(remaining, opts)
	}
}

// runDefault runs the manifest's main script when there is one and starts
// the REPL otherwise.
func runDefault(opts cliOptions) int {
	manifest, err := loadManifestFrom("")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return runRepl(nil, opts)
		}
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return exitDataErr
	}
	if manifest.Main == "" {
		return runRepl(nil, opts)
	}
	return runEntry(nil, opts)
}
