package driver

import (
	"fmt"
	"strings"
)

// DiagnosticSeverity captures diagnostic levels.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// DiagnosticStage names the pipeline stage that produced a diagnostic.
type DiagnosticStage string

const (
	StageScan    DiagnosticStage = "scan"
	StageParse   DiagnosticStage = "parse"
	StageResolve DiagnosticStage = "resolve"
	StageRuntime DiagnosticStage = "runtime"
)

// Static reports whether the stage runs before evaluation.
func (s DiagnosticStage) Static() bool {
	return s != StageRuntime
}

// DiagnosticLocation references a source line for diagnostics.
type DiagnosticLocation struct {
	Path string
	Line int
}

// Diagnostic is one reportable problem. Where is the jlox-style token
// context (" at 'x'", " at end" or empty).
type Diagnostic struct {
	Severity DiagnosticSeverity
	Stage    DiagnosticStage
	Message  string
	Where    string
	Location DiagnosticLocation
}

// DiagnosticError wraps a diagnostic for error handling.
type DiagnosticError struct {
	Diagnostic Diagnostic
}

func (e *DiagnosticError) Error() string {
	return FormatDiagnostic(e.Diagnostic)
}

// FormatDiagnostic renders a diagnostic the way jlox reports it:
//
//	[line 3] Error at 'x': Expect ';' after value.
//	Operands must be numbers.
//	[line 7]
func FormatDiagnostic(diag Diagnostic) string {
	if diag.Stage == StageRuntime {
		return fmt.Sprintf("%s\n[line %d]", diag.Message, diag.Location.Line)
	}
	label := "Error"
	if diag.Severity == SeverityWarning {
		label = "Warning"
	}
	return fmt.Sprintf("[line %d] %s%s: %s", diag.Location.Line, label, diag.Where, diag.Message)
}

// DescribeDiagnostic prefixes FormatDiagnostic with the source path when one
// is known. Used when several files are reported together.
func DescribeDiagnostic(diag Diagnostic) string {
	formatted := FormatDiagnostic(diag)
	path := strings.TrimSpace(diag.Location.Path)
	if path == "" {
		return formatted
	}
	return path + ": " + formatted
}

// FormatDiagnostics renders each diagnostic on its own line(s).
func FormatDiagnostics(diags []Diagnostic) string {
	parts := make([]string, len(diags))
	for i, diag := range diags {
		parts[i] = FormatDiagnostic(diag)
	}
	return strings.Join(parts, "\n")
}
