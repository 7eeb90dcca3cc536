package errors

import (
	goerrors "errors"
	"fmt"

	"roundtrip/internal/ast"
)

// ParseError locates the first syntax error in a source file.
type ParseError struct {
	Filename string
	Message  string
	Position ast.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Position.Line, e.Position.Column, e.Message)
}

// UnsupportedNodeError is returned by the unparser for nodes it cannot
// render: a missing required child, an unknown literal type, an f-string
// with no valid quoting, or a construct newer than the target version.
type UnsupportedNodeError struct {
	Kind     ast.Kind
	Position ast.Position
	Reason   string
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Kind, e.Reason)
}

// Unsupported builds an UnsupportedNodeError for n.
func Unsupported(n ast.Node, format string, args ...any) *UnsupportedNodeError {
	err := &UnsupportedNodeError{Reason: fmt.Sprintf(format, args...)}
	if n != nil {
		err.Kind = n.Kind()
		err.Position = n.NodePos()
	}
	return err
}

type MismatchKind int

const (
	Cosmetic MismatchKind = iota
	Semantic
)

func (k MismatchKind) String() string {
	if k == Cosmetic {
		return "cosmetic"
	}
	return "semantic"
}

// MismatchError describes a difference between the original and the
// reparsed tree. Path names the first divergent node.
type MismatchError struct {
	Kind   MismatchKind
	Path   string
	Detail string
}

func (e *MismatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s mismatch: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s mismatch at %s: %s", e.Kind, e.Path, e.Detail)
}

// ExecutionCrash reports a regenerated program that failed to run the way
// the original did.
type ExecutionCrash struct {
	Reason   string
	TimedOut bool
	Stderr   string
}

func (e *ExecutionCrash) Error() string {
	if e.TimedOut {
		return "execution timed out: " + e.Reason
	}
	return "execution crashed: " + e.Reason
}

// HarnessError is a setup failure that stops the whole run.
type HarnessError struct {
	Op  string
	Err error
}

func (e *HarnessError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *HarnessError) Unwrap() error {
	return e.Err
}

// ExitCode is the process status for setup failures.
func (e *HarnessError) ExitCode() int {
	return 2
}

// Harness wraps err as a HarnessError.
func Harness(op string, err error) error {
	return &HarnessError{Op: op, Err: err}
}

// IsHarness reports whether err is, or wraps, a HarnessError.
func IsHarness(err error) bool {
	var he *HarnessError
	return goerrors.As(err, &he)
}
