package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/lox"
)

// scriptedReader replays fixed lines and records the prompts it was shown.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestReplLoopKeepsStateAndEchoesExpressions(t *testing.T) {
	var out, errOut bytes.Buffer
	session := lox.NewSession(lox.WithOutput(&out))
	in := &scriptedReader{lines: []string{
		"var a = 1;",
		"a + 1",
		"fun f() {",
		"  return a;",
		"}",
		"f();",
		"print \"hi\";",
		":env",
		"print b;",
		":quit",
		"print \"unreachable\";",
	}}

	code := replLoop(in, session, &reporter{w: &errOut}, &out)
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if got, want := out.String(), "2\n1\nhi\na clock f\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	if got := errOut.String(); got != "Undefined variable 'b'.\n[line 1]\n" {
		t.Fatalf("stderr = %q", got)
	}
	wantPrompts := []string{replPrompt, replPrompt, replPrompt, replContinuation, replContinuation, replPrompt, replPrompt, replPrompt, replPrompt, replPrompt}
	if strings.Join(in.prompts, "|") != strings.Join(wantPrompts, "|") {
		t.Fatalf("prompts = %q", in.prompts)
	}
}

func TestReplLoopReportsStaticErrorsAndContinues(t *testing.T) {
	var out, errOut bytes.Buffer
	session := lox.NewSession(lox.WithOutput(&out))
	in := &scriptedReader{lines: []string{
		"print );",
		"var x = 3;",
		"x * x",
		":nope",
	}}
	if code := replLoop(in, session, &reporter{w: &errOut}, &out); code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if got := errOut.String(); got != "[line 1] Error at ')': Expect expression.\n" {
		t.Fatalf("stderr = %q", got)
	}
	if got := out.String(); got != "9\nunknown command :nope. Type :help for commands.\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestReadChunkReturnsPartialInputAtEOF(t *testing.T) {
	in := &scriptedReader{lines: []string{"{", "print 1;"}}
	chunk, ok := readChunk(in)
	if !ok || chunk != "{\nprint 1;" {
		t.Fatalf("chunk=%q ok=%v", chunk, ok)
	}
	if _, ok := readChunk(in); ok {
		t.Fatalf("expected end of input")
	}
}
