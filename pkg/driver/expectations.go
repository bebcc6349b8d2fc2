package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// GoldenSuffix names the file holding a script's exact expected stdout.
const GoldenSuffix = ".out"

var (
	expectOutputPattern       = regexp.MustCompile(`// expect: ?(.*)`)
	expectRuntimeErrorPattern = regexp.MustCompile(`// expect runtime error: (.+)`)
	expectErrorPattern        = regexp.MustCompile(`// (Error.*)`)
	expectErrorLinePattern    = regexp.MustCompile(`// \[(?:(java|c) )?line (\d+)\] (Error.*)`)
	nonTestPattern            = regexp.MustCompile(`// nontest`)
)

// RuntimeExpectation is the single runtime failure a script should end with.
type RuntimeExpectation struct {
	Message string
	Line    int
}

// Expectations is what a script declares about its own behaviour.
type Expectations struct {
	Output       []string
	Golden       string
	HasGolden    bool
	StaticErrors []string
	RuntimeError *RuntimeExpectation
	NonTest      bool
}

// ParseExpectations scans source for expectation comments. Errors tagged
// for another implementation (`[c line N]`) are ignored.
func ParseExpectations(source string) Expectations {
	var exp Expectations
	for idx, line := range strings.Split(source, "\n") {
		lineNo := idx + 1
		if nonTestPattern.MatchString(line) {
			exp.NonTest = true
		}
		if m := expectOutputPattern.FindStringSubmatch(line); m != nil {
			exp.Output = append(exp.Output, strings.TrimRight(m[1], "\r"))
			continue
		}
		if m := expectRuntimeErrorPattern.FindStringSubmatch(line); m != nil {
			exp.RuntimeError = &RuntimeExpectation{Message: strings.TrimRight(m[1], "\r"), Line: lineNo}
			continue
		}
		if m := expectErrorLinePattern.FindStringSubmatch(line); m != nil {
			if m[1] == "c" {
				continue
			}
			n, _ := strconv.Atoi(m[2])
			exp.StaticErrors = append(exp.StaticErrors, fmt.Sprintf("[line %d] %s", n, strings.TrimRight(m[3], "\r")))
			continue
		}
		if m := expectErrorPattern.FindStringSubmatch(line); m != nil {
			exp.StaticErrors = append(exp.StaticErrors, fmt.Sprintf("[line %d] %s", lineNo, strings.TrimRight(m[1], "\r")))
		}
	}
	return exp
}

// ExpectedStatus summarizes the outcome a script expects: "static",
// "runtime" or "ok".
func (e Expectations) ExpectedStatus() string {
	switch {
	case len(e.StaticErrors) > 0:
		return "static"
	case e.RuntimeError != nil:
		return "runtime"
	default:
		return "ok"
	}
}

// Check compares an actual run against the expectations and returns one
// message per mismatch.
func (e Expectations) Check(stdout string, diags []Diagnostic) []string {
	var failures []string

	if e.HasGolden {
		if stdout != e.Golden {
			failures = append(failures, fmt.Sprintf("output mismatch:\n--- expected\n%s--- actual\n%s", e.Golden, stdout))
		}
	} else {
		failures = append(failures, compareOutputLines(e.Output, stdout)...)
	}

	var static []string
	var runtime []Diagnostic
	for _, diag := range diags {
		if diag.Stage.Static() {
			static = append(static, FormatDiagnostic(diag))
		} else {
			runtime = append(runtime, diag)
		}
	}

	failures = append(failures, compareErrorSets(e.StaticErrors, static)...)

	switch {
	case e.RuntimeError != nil && len(runtime) == 0:
		failures = append(failures, fmt.Sprintf("expected runtime error %q but none was raised", e.RuntimeError.Message))
	case e.RuntimeError != nil:
		got := runtime[0]
		if got.Message != e.RuntimeError.Message {
			failures = append(failures, fmt.Sprintf("expected runtime error %q, got %q", e.RuntimeError.Message, got.Message))
		}
		if got.Location.Line != e.RuntimeError.Line {
			failures = append(failures, fmt.Sprintf("expected runtime error on line %d, got line %d", e.RuntimeError.Line, got.Location.Line))
		}
	case len(runtime) > 0:
		failures = append(failures, "unexpected runtime error: "+FormatDiagnostic(runtime[0]))
	}
	return failures
}

func compareOutputLines(expected []string, stdout string) []string {
	actual := strings.Split(stdout, "\n")
	if len(actual) > 0 && actual[len(actual)-1] == "" {
		actual = actual[:len(actual)-1]
	}
	var failures []string
	for i, line := range actual {
		if i >= len(expected) {
			failures = append(failures, fmt.Sprintf("got output %q when none was expected", line))
			continue
		}
		if line != expected[i] {
			failures = append(failures, fmt.Sprintf("expected output %q on output line %d, got %q", expected[i], i+1, line))
		}
	}
	for i := len(actual); i < len(expected); i++ {
		failures = append(failures, fmt.Sprintf("missing expected output %q", expected[i]))
	}
	return failures
}

func compareErrorSets(expected, actual []string) []string {
	want := make(map[string]int, len(expected))
	for _, e := range expected {
		want[e]++
	}
	var failures []string
	for _, a := range actual {
		if want[a] > 0 {
			want[a]--
			continue
		}
		failures = append(failures, "unexpected error: "+a)
	}
	for _, e := range expected {
		if want[e] > 0 {
			want[e]--
			failures = append(failures, "missing expected error: "+e)
		}
	}
	return failures
}

// Script is one runnable expectation test.
type Script struct {
	Path   string
	Source string
	Expect Expectations
}

// LoadScript reads a script and its optional golden output.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	script := &Script{Path: path, Source: string(data), Expect: ParseExpectations(string(data))}
	golden, err := os.ReadFile(path + GoldenSuffix)
	switch {
	case err == nil:
		script.Expect.Golden = string(golden)
		script.Expect.HasGolden = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read golden output %s: %w", path+GoldenSuffix, err)
	}
	return script, nil
}

// DiscoverScripts lists every .lox file under root in lexical order. A skip
// entry excludes the file or directory at that slash-separated path
// relative to root.
func DiscoverScripts(root string, skip []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("suite root %s: %w", root, err)
	}
	if !info.IsDir() {
		if filepath.Ext(root) != ".lox" {
			return nil, fmt.Errorf("suite root %s is not a directory or .lox file", root)
		}
		return []string{root}, nil
	}

	var scripts []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && skipped(filepath.ToSlash(rel), skip) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if rel != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".lox" {
			scripts = append(scripts, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(scripts)
	return scripts, nil
}

func skipped(rel string, skip []string) bool {
	for _, s := range skip {
		s = strings.Trim(filepath.ToSlash(s), "/")
		if s == "" {
			continue
		}
		if rel == s || strings.HasPrefix(rel, s+"/") {
			return true
		}
	}
	return false
}
