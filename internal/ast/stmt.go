package ast

type Module struct {
	Pos  Position
	Body []Stmt
}

type FunctionDef struct {
	Pos        Position
	Name       string
	Args       *Arguments
	Body       []Stmt
	Decorators []Expr
	Returns    Expr
	Async      bool
}

type ClassDef struct {
	Pos        Position
	Name       string
	Bases      []Expr
	Keywords   []*Keyword
	Body       []Stmt
	Decorators []Expr
}

type Return struct {
	Pos   Position
	Value Expr
}

type Delete struct {
	Pos     Position
	Targets []Expr
}

// Assign covers chained assignment: a = b = value.
type Assign struct {
	Pos     Position
	Targets []Expr
	Value   Expr
}

type AugAssign struct {
	Pos    Position
	Target Expr
	Op     string // binary operator without the trailing '='
	Value  Expr
}

// AnnAssign is an annotated assignment. Simple is false when the target is a
// parenthesized name, which changes runtime semantics of __annotations__.
type AnnAssign struct {
	Pos        Position
	Target     Expr
	Annotation Expr
	Value      Expr
	Simple     bool
}

type For struct {
	Pos    Position
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
	Async  bool
}

type While struct {
	Pos    Position
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// If has elif chains encoded as a single nested If in Orelse.
type If struct {
	Pos    Position
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type With struct {
	Pos   Position
	Items []*WithItem
	Body  []Stmt
	Async bool
}

type Raise struct {
	Pos   Position
	Exc   Expr
	Cause Expr
}

type Try struct {
	Pos       Position
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

type Assert struct {
	Pos  Position
	Test Expr
	Msg  Expr
}

type Import struct {
	Pos   Position
	Names []*Alias
}

// ImportFrom with Level > 0 is a relative import; Module may then be empty.
type ImportFrom struct {
	Pos    Position
	Module string
	Names  []*Alias
	Level  int
}

type Global struct {
	Pos   Position
	Names []string
}

type Nonlocal struct {
	Pos   Position
	Names []string
}

type ExprStmt struct {
	Pos   Position
	Value Expr
}

type Pass struct {
	Pos Position
}

type Break struct {
	Pos Position
}

type Continue struct {
	Pos Position
}
