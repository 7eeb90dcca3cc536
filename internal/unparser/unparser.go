package unparser

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

// DefaultTarget is the language version generated code must parse under
// when Options.Target is unset.
var DefaultTarget = semver.MustParse("3.12")

type Options struct {
	// IndentUnit is the number of spaces per nesting level. Zero means 4.
	IndentUnit int
	// Target gates syntax that older interpreters reject. Nil means
	// DefaultTarget.
	Target *semver.Version
}

func DefaultOptions() Options {
	return Options{IndentUnit: 4, Target: DefaultTarget}
}

// Unparser regenerates source text from a tree. It implements ast.Visitor
// so every node kind has exactly one rendering rule.
//
// An Unparser is not safe for concurrent use; create one per goroutine.
type Unparser struct {
	opts   Options
	indent string

	b     strings.Builder
	depth int

	// level is the precedence the expression being visited must reach to
	// be written without parentheses.
	level  Precedence
	parent ast.Node

	inLambda bool
	fstring  *fstringContext
	// quoteConflict records that rendering failed for lack of a usable
	// quote character rather than an unsupported node.
	quoteConflict bool
}

var _ ast.Visitor = (*Unparser)(nil)

func New(opts Options) *Unparser {
	if opts.IndentUnit <= 0 {
		opts.IndentUnit = 4
	}
	if opts.Target == nil {
		opts.Target = DefaultTarget
	}
	return &Unparser{
		opts:   opts,
		indent: strings.Repeat(" ", opts.IndentUnit),
	}
}

// Unparse renders node with the default options.
func Unparse(node ast.Node) (string, error) {
	return New(DefaultOptions()).Unparse(node)
}

// Unparse renders a module, statement, expression or helper node. Statement
// output ends with a newline; expression output does not.
func (u *Unparser) Unparse(node ast.Node) (string, error) {
	u.b.Reset()
	u.depth = 0
	u.level = PrecTuple
	u.parent = nil
	u.quoteConflict = false

	if node == nil {
		return "", errors.Unsupported(nil, "nil node")
	}

	var err error
	switch n := node.(type) {
	case *ast.Module:
		u.parent = n
		err = u.body(n.Body, true)
	case ast.Stmt:
		err = u.stmt(n)
	case ast.Expr:
		err = u.expr(n, PrecTuple)
	default:
		u.parent = n
		err = n.Accept(u)
	}
	if err != nil {
		return "", err
	}
	if u.depth != 0 {
		return "", fmt.Errorf("unparser: indentation depth %d after rendering", u.depth)
	}
	return u.b.String(), nil
}

func (u *Unparser) write(parts ...string) {
	for _, s := range parts {
		u.b.WriteString(s)
	}
}

// fill starts a new statement line at the current depth.
func (u *Unparser) fill(text string) {
	for i := 0; i < u.depth; i++ {
		u.b.WriteString(u.indent)
	}
	u.b.WriteString(text)
}

func (u *Unparser) endLine() {
	u.b.WriteByte('\n')
}

func (u *Unparser) stmt(s ast.Stmt) error {
	if s == nil {
		return errors.Unsupported(u.parent, "missing statement")
	}
	saved := u.parent
	u.parent = s
	err := s.Accept(u)
	u.parent = saved
	return err
}

func (u *Unparser) expr(e ast.Expr, level Precedence) error {
	if e == nil {
		return errors.Unsupported(u.parent, "missing required expression")
	}
	savedLevel, savedParent := u.level, u.parent
	u.level, u.parent = level, e
	err := e.Accept(u)
	u.level, u.parent = savedLevel, savedParent
	return err
}

// node visits a helper node such as an Arg or Keyword.
func (u *Unparser) node(n ast.Node) error {
	savedParent := u.parent
	u.parent = n
	err := n.Accept(u)
	u.parent = savedParent
	return err
}

// exprList writes elements separated by ", ".
func (u *Unparser) exprList(list []ast.Expr, level Precedence) error {
	for i, e := range list {
		if i > 0 {
			u.write(", ")
		}
		if err := u.expr(e, level); err != nil {
			return err
		}
	}
	return nil
}

// parens wraps fn's output in parentheses when the node's own precedence
// is below what the context requires.
func (u *Unparser) parens(own, need Precedence, fn func() error) error {
	if own < need {
		u.write("(")
		defer u.write(")")
	}
	return fn()
}

// body writes the statements of a block. A leading string expression is
// written as a docstring when docstring is true.
func (u *Unparser) body(stmts []ast.Stmt, docstring bool) error {
	for i, s := range stmts {
		if i == 0 && docstring {
			if text, ok := docstringText(s); ok {
				u.fill(text)
				u.endLine()
				continue
			}
		}
		if err := u.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// block writes ":" and an indented suite. Bodies are never empty.
func (u *Unparser) block(owner ast.Node, stmts []ast.Stmt, docstring bool) error {
	if len(stmts) == 0 {
		return errors.Unsupported(owner, "empty body")
	}
	u.write(":")
	u.endLine()
	u.depth++
	err := u.body(stmts, docstring)
	u.depth--
	return err
}

// sub returns a fresh Unparser sharing options, used to render fragments
// that are post-processed, such as f-string replacement fields.
func (u *Unparser) sub() *Unparser {
	s := New(u.opts)
	s.parent = u.parent
	return s
}
