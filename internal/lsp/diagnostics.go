package lsp

import (
	goerrors "errors"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"roundtrip/internal/ast"
	"roundtrip/internal/compare"
	"roundtrip/internal/errors"
	"roundtrip/internal/runner"
)

const diagnosticSource = "roundtrip"

// EntryDiagnostics converts one round-trip outcome into editor diagnostics.
// A match yields an empty, non-nil slice so that stale diagnostics clear.
func EntryDiagnostics(e runner.Entry) []protocol.Diagnostic {
	if e.Verdict == compare.Match {
		return []protocol.Diagnostic{}
	}

	d := entryDiagnostic(e)
	message := d.Message
	if len(d.Notes) > 0 {
		message += "\n" + strings.Join(d.Notes, "\n")
	}
	if d.HelpText != "" {
		message += "\nhelp: " + d.HelpText
	}
	for _, s := range d.Suggestions {
		message += "\nhelp: " + s.Message
	}

	line := uint32(max(d.Position.Line-1, 0))
	column := uint32(max(d.Position.Column-1, 0))
	length := uint32(max(d.Length, 1))

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: column},
			End:   protocol.Position{Line: line, Character: column + length},
		},
		Severity: ptrSeverity(severity(e.Verdict)),
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   ptrString(diagnosticSource),
		Message:  message,
	}}
}

func entryDiagnostic(e runner.Entry) errors.Diagnostic {
	var (
		parseErr    *errors.ParseError
		mismatchErr *errors.MismatchError
	)
	switch {
	case e.Verdict == compare.Crash && goerrors.As(e.Err, &parseErr):
		return errors.Reparse(parseErr)
	case goerrors.As(e.Err, &mismatchErr):
		return errors.Mismatch(mismatchErr, e.Position)
	}
	if d, ok := errors.Diagnose(e.Err); ok {
		if d.Position == (ast.Position{}) {
			d.Position = e.Position
		}
		return d
	}
	return errors.NewDiagnostic(errors.ErrorExecutionCrash, e.Detail, e.Position).Build()
}

func severity(v compare.Verdict) protocol.DiagnosticSeverity {
	switch v {
	case compare.CosmeticMismatch, compare.Unsupported:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
