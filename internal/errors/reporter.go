package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"roundtrip/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Diagnostic is a source-located message with optional fixes and notes.
type Diagnostic struct {
	Level       ErrorLevel
	Code        string       // Error code like E0100
	Message     string       // Primary error message
	Position    ast.Position // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string       // Description of the suggestion
	Replacement string       // Suggested replacement text (optional)
	Position    ast.Position // Position to apply the fix (optional)
	Length      int          // Length of text to replace (optional)
}

// tabWidth is the column width a tab expands to in rendered snippets.
const tabWidth = 8

// ErrorReporter renders diagnostics against one source file.
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n"),
	}
}

// FormatError renders a diagnostic. Located diagnostics get the offending
// line with one line of context and a caret marker; diagnostics without a
// position, such as execution crashes, only get the header and notes.
func (er *ErrorReporter) FormatError(d Diagnostic) string {
	var b strings.Builder
	width := lineNumberWidth(d.Position.Line)
	gutter := strings.Repeat(" ", width)
	dim := color.New(color.Faint).SprintFunc()

	er.writeHeader(&b, d)
	if d.Position.Line > 0 {
		fmt.Fprintf(&b, "%s %s %s:%d:%d\n", gutter, dim("-->"), er.filename, d.Position.Line, d.Position.Column)
		er.writeSnippet(&b, d, width)
	} else {
		fmt.Fprintf(&b, "%s %s %s\n", gutter, dim("-->"), er.filename)
	}
	er.writeSuggestions(&b, d, gutter)
	writeTrailer(&b, d, gutter)

	b.WriteString("\n")
	return b.String()
}

// header: error[E0100]: message
func (er *ErrorReporter) writeHeader(b *strings.Builder, d Diagnostic) {
	level := levelColor(d.Level)(string(d.Level))
	if d.Code != "" {
		fmt.Fprintf(b, "%s[%s]: %s\n", level, d.Code, d.Message)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", level, d.Message)
}

func (er *ErrorReporter) writeSnippet(b *strings.Builder, d Diagnostic, width int) {
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	gutter := strings.Repeat(" ", width)
	line := d.Position.Line

	fmt.Fprintf(b, "%s %s\n", gutter, dim("│"))
	if line > 1 && line-2 < len(er.lines) {
		fmt.Fprintf(b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), expandTabs(er.lines[line-2]))
	}
	if line <= len(er.lines) {
		text := er.lines[line-1]
		fmt.Fprintf(b, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), expandTabs(text))
		fmt.Fprintf(b, "%s %s %s\n", gutter, dim("│"), createMarker(text, d.Position.Column, d.Length, d.Level))
	}
	if line < len(er.lines) && er.lines[line] != "" {
		fmt.Fprintf(b, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), expandTabs(er.lines[line]))
	}
}

func (er *ErrorReporter) writeSuggestions(b *strings.Builder, d Diagnostic, gutter string) {
	if len(d.Suggestions) == 0 {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(b, "%s %s\n", gutter, dim("│"))
	for i, s := range d.Suggestions {
		if i == 0 {
			fmt.Fprintf(b, "%s %s %s: %s\n", gutter, cyan("help"), cyan("try"), s.Message)
		} else {
			fmt.Fprintf(b, "%s %s %s\n", gutter, cyan("    "), s.Message)
		}
		if s.Replacement != "" {
			replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", gutter, dim("│")))
			fmt.Fprintf(b, "%s %s %s\n", gutter, cyan("│"), cyan(replacement))
		}
	}
}

func writeTrailer(b *strings.Builder, d Diagnostic, gutter string) {
	dim := color.New(color.Faint).SprintFunc()
	for _, note := range d.Notes {
		fmt.Fprintf(b, "%s %s %s %s\n", gutter, dim("│"), color.BlueString("note:"), note)
	}
	if d.HelpText != "" {
		fmt.Fprintf(b, "%s %s %s %s\n", gutter, dim("│"), color.GreenString("help:"), d.HelpText)
	}
}

// levelColor returns the color function for an error level
func levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker underlines length characters of text starting at the
// 1-based rune column. The marker follows tab expansion of text and stops
// at the end of the line.
func createMarker(text string, column, length int, level ErrorLevel) string {
	column = max(column, 1)
	length = max(length, 1)

	runes := []rune(text)
	start := min(column-1, len(runes))
	pad := displayWidth(string(runes[:start]))
	if rest := len(runes) - start; rest > 0 {
		length = min(length, rest)
	}

	marker := strings.Repeat("^", length)
	if level == Warning {
		return strings.Repeat(" ", pad) + color.New(color.FgYellow, color.Bold).Sprint(marker)
	}
	return strings.Repeat(" ", pad) + color.New(color.FgRed, color.Bold).Sprint(marker)
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func displayWidth(s string) int {
	return utf8.RuneCountInString(expandTabs(s))
}

// lineNumberWidth is the gutter width, at least 3 for alignment
func lineNumberWidth(line int) int {
	return max(len(fmt.Sprint(line)), 3)
}
