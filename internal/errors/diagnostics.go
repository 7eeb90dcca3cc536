package errors

import (
	goerrors "errors"
	"fmt"
	"strings"

	"roundtrip/internal/ast"
)

// Diagnose converts an error from the taxonomy into a Diagnostic. Errors
// outside the taxonomy return ok=false.
func Diagnose(err error) (d Diagnostic, ok bool) {
	var (
		parseErr       *ParseError
		unsupportedErr *UnsupportedNodeError
		mismatchErr    *MismatchError
		crashErr       *ExecutionCrash
		harnessErr     *HarnessError
	)

	switch {
	case goerrors.As(err, &parseErr):
		return ParseFailure(parseErr), true
	case goerrors.As(err, &unsupportedErr):
		return UnsupportedNode(unsupportedErr), true
	case goerrors.As(err, &mismatchErr):
		return Mismatch(mismatchErr, ast.Position{}), true
	case goerrors.As(err, &crashErr):
		return Crash(crashErr), true
	case goerrors.As(err, &harnessErr):
		return Diagnostic{
			Level:   Error,
			Code:    ErrorHarness,
			Message: harnessErr.Error(),
			Length:  1,
		}, true
	}
	return Diagnostic{}, false
}

func ParseFailure(err *ParseError) Diagnostic {
	return NewDiagnostic(ErrorParse, err.Message, err.Position).
		WithNote("files that do not parse are skipped").
		Build()
}

// Reparse reports regenerated text that no longer parses.
func Reparse(err *ParseError) Diagnostic {
	return NewDiagnostic(ErrorReparse, "regenerated text does not parse: "+err.Message, err.Position).
		WithHelp("this is an unparser bug: the regenerated text must always be valid").
		Build()
}

func UnsupportedNode(err *UnsupportedNodeError) Diagnostic {
	b := NewDiagnostic(ErrorUnsupportedNode, err.Error(), err.Position)
	if strings.Contains(err.Reason, "requires") {
		b = b.WithSuggestion("raise the target version with --target")
	}
	return b.Build()
}

// Mismatch reports a tree difference. Cosmetic differences are warnings.
func Mismatch(err *MismatchError, pos ast.Position) Diagnostic {
	code := ErrorSemanticMismatch
	level := Error
	if err.Kind == Cosmetic {
		code = ErrorCosmeticMismatch
		level = Warning
	}
	d := NewDiagnostic(code, err.Error(), pos).Build()
	d.Level = level
	if err.Path != "" {
		d.Notes = append(d.Notes, "first divergence at "+err.Path)
	}
	return d
}

func Crash(err *ExecutionCrash) Diagnostic {
	code := ErrorExecutionCrash
	if err.TimedOut {
		code = ErrorExecutionTimeout
	}
	b := NewDiagnostic(code, err.Error(), ast.Position{})
	if tail := lastLine(err.Stderr); tail != "" {
		b = b.WithNote("stderr: " + tail)
	}
	return b.Build()
}

// DiagnosticBuilder provides a fluent interface for creating diagnostics
type DiagnosticBuilder struct {
	d Diagnostic
}

func NewDiagnostic(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		d: Diagnostic{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.d.Length = length
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message})
	return b
}

func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos ast.Position, length int) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.d.HelpText = help
	return b
}

func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

// DidYouMean suggests the closest candidate to an unknown name, or returns
// an empty string when nothing is close enough.
func DidYouMean(name string, candidates []string) string {
	similar := findSimilarNames(name, candidates)
	if len(similar) == 0 {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", similar[0])
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
