package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/lox"
)

type testCLIConfig struct {
	list     bool
	failFast bool
	verbose  bool
	targets  []string
}

// suiteRun is one directory (or single script) of expectation tests.
type suiteRun struct {
	name string
	root string
	skip []string
}

type testSummary struct {
	passed  int
	failed  int
	skipped int
}

func parseTestArguments(args []string) (testCLIConfig, error) {
	var cfg testCLIConfig
	for _, arg := range args {
		switch arg {
		case "--list":
			cfg.list = true
		case "--fail-fast":
			cfg.failFast = true
		case "--verbose", "-v":
			cfg.verbose = true
		default:
			if strings.HasPrefix(arg, "-") {
				return cfg, fmt.Errorf("unknown lox test flag %q", arg)
			}
			cfg.targets = append(cfg.targets, arg)
		}
	}
	return cfg, nil
}

func runTest(args []string, opts cliOptions) int {
	cfg, err := parseTestArguments(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	manifest, err := loadManifestFrom("")
	if err != nil {
		if !errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return exitDataErr
		}
		manifest = nil
	}

	suites, err := resolveTestSuites(manifest, cfg.targets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	var scripts []suiteScript
	for _, suite := range suites {
		paths, err := driver.DiscoverScripts(suite.root, suite.skip)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suite %s: %v\n", suite.name, err)
			return exitIOErr
		}
		for _, path := range paths {
			scripts = append(scripts, suiteScript{suite: suite, path: path})
		}
	}

	if len(scripts) == 0 {
		fmt.Fprintln(os.Stdout, "lox test: no scripts found")
		return exitOK
	}
	if cfg.list {
		for _, script := range scripts {
			fmt.Fprintln(os.Stdout, script.label())
		}
		return exitOK
	}

	var summary testSummary
	for _, script := range scripts {
		failures, skipped, err := runScriptTest(script.path, opts, manifest)
		switch {
		case err != nil:
			summary.failed++
			fmt.Fprintf(os.Stdout, "FAIL %s\n    %v\n", script.label(), err)
		case skipped:
			summary.skipped++
			if cfg.verbose {
				fmt.Fprintf(os.Stdout, "SKIP %s\n", script.label())
			}
		case len(failures) > 0:
			summary.failed++
			fmt.Fprintf(os.Stdout, "FAIL %s\n", script.label())
			for _, failure := range failures {
				fmt.Fprintf(os.Stdout, "    %s\n", strings.ReplaceAll(failure, "\n", "\n    "))
			}
		default:
			summary.passed++
			if cfg.verbose {
				fmt.Fprintf(os.Stdout, "PASS %s\n", script.label())
			}
		}
		if cfg.failFast && summary.failed > 0 {
			break
		}
	}

	fmt.Fprintf(os.Stdout, "lox test: %d passed, %d failed, %d skipped\n", summary.passed, summary.failed, summary.skipped)
	if summary.failed > 0 {
		return exitFailure
	}
	return exitOK
}

type suiteScript struct {
	suite suiteRun
	path  string
}

func (s suiteScript) label() string {
	rel, err := filepath.Rel(s.suite.root, s.path)
	if err != nil || rel == "." {
		rel = filepath.Base(s.path)
	}
	return s.suite.name + ":" + filepath.ToSlash(rel)
}

// runScriptTest runs one script on fresh globals and compares the outcome
// with its expectations. Scripts marked nontest are skipped.
func runScriptTest(path string, opts cliOptions, manifest *driver.Manifest) ([]string, bool, error) {
	script, err := driver.LoadScript(path)
	if err != nil {
		return nil, false, err
	}
	if script.Expect.NonTest {
		return nil, true, nil
	}
	var stdout bytes.Buffer
	result := lox.Run(script.Source, sessionOptions(opts, manifest, "", &stdout)...)
	return script.Expect.Check(stdout.String(), result.Diagnostics), false, nil
}

// resolveTestSuites maps targets to suites. A target naming a manifest suite
// selects it; anything else is a path. With no targets every manifest suite
// runs.
func resolveTestSuites(manifest *driver.Manifest, targets []string) ([]suiteRun, error) {
	if len(targets) == 0 {
		if manifest == nil || len(manifest.SuiteOrder) == 0 {
			return nil, fmt.Errorf("lox test requires a suite name, a path, or a %s declaring suites", driver.ManifestFileName)
		}
		targets = manifest.SuiteOrder
	}

	var lock *driver.Lockfile
	var suites []suiteRun
	for _, target := range targets {
		spec, ok := manifest.FindSuite(target)
		if !ok {
			suites = append(suites, suiteRun{name: filepath.Base(filepath.Clean(target)), root: target})
			continue
		}
		if !spec.IsGit() {
			suites = append(suites, suiteRun{name: spec.Name, root: manifest.LocalSuiteRoot(spec), skip: spec.Skip})
			continue
		}
		if lock == nil {
			loaded, err := loadLockfileForManifest(manifest)
			if err != nil {
				return nil, err
			}
			if loaded == nil {
				return nil, fmt.Errorf("suite %q has not been fetched; run `lox suites fetch`", spec.Name)
			}
			lock = loaded
		}
		root, err := fetchedSuiteRoot(manifest, lock, spec)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suiteRun{name: spec.Name, root: root, skip: spec.Skip})
	}
	return suites, nil
}

func fetchedSuiteRoot(manifest *driver.Manifest, lock *driver.Lockfile, spec *driver.SuiteSpec) (string, error) {
	locked, ok := lock.FindSuite(spec.Name)
	if !ok || locked.Revision == "" {
		return "", fmt.Errorf("suite %q is missing from %s; run `lox suites fetch`", spec.Name, driver.LockfileName)
	}
	cacheDir, err := resolveSuiteCache(manifest)
	if err != nil {
		return "", err
	}
	checkout := suiteCheckoutDir(cacheDir, spec.Name, locked.Revision)
	if _, err := os.Stat(checkout); err != nil {
		return "", fmt.Errorf("suite %q checkout %s is missing; run `lox suites fetch`", spec.Name, checkout)
	}
	if spec.Dir == "" {
		return checkout, nil
	}
	return filepath.Join(checkout, filepath.FromSlash(spec.Dir)), nil
}
