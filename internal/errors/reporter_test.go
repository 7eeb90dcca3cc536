package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roundtrip/internal/ast"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `def f(x):
    return x +
print(f(1))`

	reporter := NewErrorReporter("test.py", source)

	err := &ParseError{Filename: "test.py", Message: "expected expression, found newline", Position: ast.Position{Line: 2, Column: 15}}
	formatted := reporter.FormatError(ParseFailure(err))

	assert.Contains(t, formatted, "error["+ErrorParse+"]")
	assert.Contains(t, formatted, "expected expression")
	assert.Contains(t, formatted, "test.py:2:15")
	assert.Contains(t, formatted, "return x +")
	assert.Contains(t, formatted, "skipped")
}

func TestDiagnoseTaxonomy(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  string
		level ErrorLevel
	}{
		{"parse", &ParseError{Filename: "a.py", Message: "bad"}, ErrorParse, Error},
		{"unsupported", &UnsupportedNodeError{Kind: ast.NAMED_EXPR, Reason: "requires 3.8"}, ErrorUnsupportedNode, Error},
		{"cosmetic", &MismatchError{Kind: Cosmetic, Detail: "hint"}, ErrorCosmeticMismatch, Warning},
		{"semantic", &MismatchError{Kind: Semantic, Path: "Module.body[0]"}, ErrorSemanticMismatch, Error},
		{"crash", &ExecutionCrash{Reason: "exit status 1"}, ErrorExecutionCrash, Error},
		{"timeout", &ExecutionCrash{Reason: "2s", TimedOut: true}, ErrorExecutionTimeout, Error},
		{"harness", Harness("open corpus", fmt.Errorf("missing")), ErrorHarness, Error},
		{"wrapped", fmt.Errorf("file x: %w", &ParseError{Message: "bad"}), ErrorParse, Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Diagnose(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.level, d.Level)
		})
	}

	_, ok := Diagnose(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestUnsupportedSuggestsTarget(t *testing.T) {
	d := UnsupportedNode(&UnsupportedNodeError{Kind: ast.NAMED_EXPR, Reason: "assignment expressions requires 3.8"})
	require.Len(t, d.Suggestions, 1)
	assert.Contains(t, d.Suggestions[0].Message, "--target")
	assert.Contains(t, d.Message, "NamedExpr")
}

func TestMismatchNotesPath(t *testing.T) {
	d := Mismatch(&MismatchError{Kind: Semantic, Path: "Module.body[2].value", Detail: "op differs"}, ast.Position{Line: 3, Column: 1})
	require.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0], "Module.body[2].value")
}

func TestCrashNotesStderrTail(t *testing.T) {
	d := Crash(&ExecutionCrash{Reason: "exit status 1", Stderr: "Traceback:\n  ...\nZeroDivisionError: division by zero\n"})
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "stderr: ZeroDivisionError: division by zero", d.Notes[0])
}

func TestHarnessError(t *testing.T) {
	inner := fmt.Errorf("no such file")
	err := Harness("discover corpus", inner)

	assert.True(t, IsHarness(err))
	assert.True(t, IsHarness(fmt.Errorf("run: %w", err)))
	assert.False(t, IsHarness(inner))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "discover corpus: no such file", err.Error())
	assert.Equal(t, 2, err.(*HarnessError).ExitCode())
}

func TestWarningFormatting(t *testing.T) {
	source := `x = 0x1F`
	reporter := NewErrorReporter("test.py", source)

	d := Mismatch(&MismatchError{Kind: Cosmetic, Detail: "literal spelling"}, ast.Position{Line: 1, Column: 5})
	formatted := reporter.FormatError(d)

	assert.Contains(t, formatted, "warning["+ErrorCosmeticMismatch+"]")
	assert.Contains(t, formatted, "literal spelling")
}

func TestErrorMarkerCreation(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		column int
		length int
		spaces int
		carets int
	}{
		{"plain", "value = compute(x)", 9, 7, 8, 7},
		{"zero length", "value = compute(x)", 1, 0, 0, 1},
		{"clamped to line end", "x = 1", 5, 10, 4, 1},
		{"after tab", "\treturn x +", 11, 1, 17, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker := createMarker(tt.text, tt.column, tt.length, Error)
			assert.Equal(t, tt.spaces, strings.Count(marker, " "))
			assert.Equal(t, tt.carets, strings.Count(marker, "^"))
		})
	}
}

func TestFormatWithoutPosition(t *testing.T) {
	reporter := NewErrorReporter("loop.py", "while True:\n    pass\n")
	formatted := reporter.FormatError(Crash(&ExecutionCrash{Reason: "10s", TimedOut: true, Stderr: "KeyboardInterrupt\n"}))

	assert.Contains(t, formatted, "error["+ErrorExecutionTimeout+"]")
	assert.Contains(t, formatted, "--> loop.py\n")
	assert.NotContains(t, formatted, "while True")
	assert.Contains(t, formatted, "note: stderr: KeyboardInterrupt")
}

func TestFormatExpandsTabs(t *testing.T) {
	reporter := NewErrorReporter("tabs.py", "if x:\n\ty = (\n")
	formatted := reporter.FormatError(ParseFailure(&ParseError{Message: "unclosed '('", Position: ast.Position{Line: 2, Column: 6}}))

	assert.Contains(t, formatted, "        y = (")
	assert.NotContains(t, formatted, "\t")
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestDidYouMean(t *testing.T) {
	assert.Equal(t, "did you mean 'json'?", DidYouMean("jsno", []string{"text", "json"}))
	assert.Equal(t, "", DidYouMean("yaml", []string{"text", "json"}))
}

func TestErrorLevels(t *testing.T) {
	source := `pass`
	reporter := NewErrorReporter("test.py", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorFormatted := reporter.FormatError(Diagnostic{Level: Error, Message: "test error", Position: pos})
	warningFormatted := reporter.FormatError(Diagnostic{Level: Warning, Message: "test warning", Position: pos})

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestGetErrorDescription(t *testing.T) {
	assert.Contains(t, GetErrorDescription(ErrorReparse), "Regenerated")
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}
