package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != exitOK || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("version: code=%d stdout=%q", code, stdout)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	opts, rest, err := parseGlobalFlags([]string{"--no-color", "run", "--max-call-depth", "12", "a.lox", "--", "--no-color"})
	if err != nil {
		t.Fatalf("parseGlobalFlags: %v", err)
	}
	if !opts.noColor || opts.maxCallDepth != 12 {
		t.Fatalf("opts = %#v", opts)
	}
	if got := strings.Join(rest, " "); got != "run a.lox --no-color" {
		t.Fatalf("remaining = %q", got)
	}

	for _, bad := range [][]string{
		{"--max-call-depth"},
		{"--max-call-depth=0"},
		{"--max-call-depth=lots"},
	} {
		if _, _, err := parseGlobalFlags(bad); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello.lox")
	writeFile(t, script, `
fun greet(name) { return "hello " + name; }
print greet("lox");
`)
	code, stdout, stderr := captureCLI(t, []string{"run", script})
	if code != exitOK {
		t.Fatalf("exit code %d (stderr=%q)", code, stderr)
	}
	if stdout != "hello lox\n" {
		t.Fatalf("stdout = %q", stdout)
	}

	// A bare path is shorthand for run.
	code, stdout, _ = captureCLI(t, []string{script})
	if code != exitOK || stdout != "hello lox\n" {
		t.Fatalf("shorthand: code=%d stdout=%q", code, stdout)
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	runtimeErr := filepath.Join(dir, "runtime.lox")
	writeFile(t, runtimeErr, `
print "before";
print nil + 1;
print "after";
`)
	staticErr := filepath.Join(dir, "static.lox")
	writeFile(t, staticErr, "print ;")

	code, stdout, stderr := captureCLI(t, []string{"run", runtimeErr})
	if code != exitSoftware {
		t.Fatalf("runtime error exit = %d", code)
	}
	if stdout != "before\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if stderr != "Operands must be two numbers or two strings.\n[line 2]\n" {
		t.Fatalf("stderr = %q", stderr)
	}

	code, stdout, stderr = captureCLI(t, []string{"run", staticErr})
	if code != exitDataErr || stdout != "" {
		t.Fatalf("static error: code=%d stdout=%q", code, stdout)
	}
	if stderr != "[line 1] Error at ';': Expect expression.\n" {
		t.Fatalf("stderr = %q", stderr)
	}

	if code, _, _ := captureCLI(t, []string{"run", filepath.Join(dir, "missing.lox")}); code != exitIOErr {
		t.Fatalf("missing file exit = %d", code)
	}
	if code, _, _ := captureCLI(t, []string{"run", runtimeErr, staticErr}); code != exitUsage {
		t.Fatalf("extra arguments exit = %d", code)
	}
	if code, _, _ := captureCLI(t, []string{"frobnicate"}); code != exitUsage {
		t.Fatalf("unknown command exit = %d", code)
	}
}

func TestRunMaxCallDepth(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "deep.lox")
	writeFile(t, script, `
fun down(n) { if (n == 0) return 0; return down(n - 1); }
print down(20);
`)
	code, stdout, _ := captureCLI(t, []string{"run", script})
	if code != exitOK || stdout != "0\n" {
		t.Fatalf("default depth: code=%d stdout=%q", code, stdout)
	}

	code, _, stderr := captureCLI(t, []string{"--max-call-depth=8", "run", script})
	if code != exitSoftware || !strings.HasPrefix(stderr, "Stack overflow.") {
		t.Fatalf("limited depth: code=%d stderr=%q", code, stderr)
	}
}

func TestRunUsesManifestMainAndRuntime(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lox.yml"), `
name: app
main: src/main.lox
runtime:
  max_call_depth: 8
`)
	writeFile(t, filepath.Join(dir, "src", "main.lox"), `
fun down(n) { if (n == 0) return "bottom"; return down(n - 1); }
print down(3);
print down(50);
`)
	chdir(t, dir)

	code, stdout, stderr := captureCLI(t, []string{"run"})
	if code != exitSoftware {
		t.Fatalf("exit = %d (stderr=%q)", code, stderr)
	}
	if stdout != "bottom\n" || !strings.HasPrefix(stderr, "Stack overflow.") {
		t.Fatalf("stdout=%q stderr=%q", stdout, stderr)
	}

	code, stdout, _ = captureCLI(t, []string{"--max-call-depth=100", "run"})
	if code != exitOK || stdout != "bottom\nbottom\n" {
		t.Fatalf("flag must override manifest: code=%d stdout=%q", code, stdout)
	}
}

func TestRunWithoutManifestOrScript(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := loadManifestFrom(""); err == nil {
		t.Skip("a lox.yml exists above the temp directory")
	}
	code, _, stderr := captureCLI(t, []string{"run"})
	if code != exitUsage || !strings.Contains(stderr, "requires a script") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.lox")
	bad := filepath.Join(dir, "bad.lox")
	writeFile(t, good, `print "never runs";`)
	writeFile(t, bad, `
fun f() {
  var a = 1;
  var a = 2;
}
return 3;
`)

	code, stdout, stderr := captureCLI(t, []string{"check", good})
	if code != exitOK || stdout != "check: ok\n" || stderr != "" {
		t.Fatalf("good: code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}

	code, stdout, stderr = captureCLI(t, []string{"check", good, bad})
	if code != exitDataErr || stdout != "" {
		t.Fatalf("bad: code=%d stdout=%q", code, stdout)
	}
	want := bad + ": [line 4] Error at 'a': Already a variable with this name in this scope.\n" +
		bad + ": [line 6] Error at 'return': Can't return from top-level code.\n"
	if stderr != want {
		t.Fatalf("stderr =\n%s\nwant\n%s", stderr, want)
	}
}

func TestTokensAndParseCommands(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "expr.lox")
	writeFile(t, script, "print 1 + 2;")

	code, stdout, _ := captureCLI(t, []string{"tokens", script})
	if code != exitOK {
		t.Fatalf("tokens exit = %d", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 6 || lines[0] != "PRINT print null" || lines[5] != "EOF  null" {
		t.Fatalf("tokens output = %q", stdout)
	}

	code, stdout, _ = captureCLI(t, []string{"parse", script})
	if code != exitOK || stdout != "(print (+ 1 2))\n" {
		t.Fatalf("parse: code=%d stdout=%q", code, stdout)
	}

	writeFile(t, script, "print 1 +;")
	code, _, stderr := captureCLI(t, []string{"parse", script})
	if code != exitDataErr || !strings.Contains(stderr, "Expect expression.") {
		t.Fatalf("parse error: code=%d stderr=%q", code, stderr)
	}
}
