package ast

type BoolOp struct {
	Pos    Position
	Op     string // "and" | "or"
	Values []Expr
}

type NamedExpr struct {
	Pos    Position
	Target Expr
	Value  Expr
}

type BinOp struct {
	Pos   Position
	Left  Expr
	Op    string
	Right Expr
}

type UnaryOp struct {
	Pos     Position
	Op      string // "not" | "-" | "+" | "~"
	Operand Expr
}

type Lambda struct {
	Pos  Position
	Args *Arguments
	Body Expr
}

type IfExp struct {
	Pos    Position
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict keeps Keys and Values aligned; a nil key marks a **mapping unpack.
type Dict struct {
	Pos    Position
	Keys   []Expr
	Values []Expr
}

type Set struct {
	Pos  Position
	Elts []Expr
}

type ListComp struct {
	Pos        Position
	Elt        Expr
	Generators []*Comprehension
}

type SetComp struct {
	Pos        Position
	Elt        Expr
	Generators []*Comprehension
}

type DictComp struct {
	Pos        Position
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

type GeneratorExp struct {
	Pos        Position
	Elt        Expr
	Generators []*Comprehension
}

type Await struct {
	Pos   Position
	Value Expr
}

type Yield struct {
	Pos   Position
	Value Expr
}

type YieldFrom struct {
	Pos   Position
	Value Expr
}

// Compare is a comparison chain: Left Ops[0] Comparators[0] Ops[1] ...
type Compare struct {
	Pos         Position
	Left        Expr
	Ops         []string
	Comparators []Expr
}

type Call struct {
	Pos      Position
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// FormattedValue is one replacement field of an f-string. Conversion is 0,
// 'r', 's' or 'a'; FormatSpec is nil or a JoinedStr.
type FormattedValue struct {
	Pos        Position
	Value      Expr
	Conversion rune
	FormatSpec Expr
}

type JoinedStr struct {
	Pos    Position
	Values []Expr
}

// Constant holds a literal value. Hint records how the literal was spelled
// (numeric base prefix or string prefix) and never affects equivalence.
type Constant struct {
	Pos   Position
	Value any
	Hint  string
}

type Attribute struct {
	Pos   Position
	Value Expr
	Attr  string
}

type Subscript struct {
	Pos   Position
	Value Expr
	Slice Expr
}

type Starred struct {
	Pos   Position
	Value Expr
}

type Name struct {
	Pos Position
	Id  string
}

type List struct {
	Pos  Position
	Elts []Expr
}

type Tuple struct {
	Pos  Position
	Elts []Expr
}

type Slice struct {
	Pos   Position
	Lower Expr
	Upper Expr
	Step  Expr
}

// Arguments is a parameter list. Defaults align with the tail of
// PosOnly+Args; KwDefaults align with KwOnly and may hold nil entries.
type Arguments struct {
	Pos        Position
	PosOnly    []*Arg
	Args       []*Arg
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr
	Kwarg      *Arg
	Defaults   []Expr
}

type Arg struct {
	Pos        Position
	Name       string
	Annotation Expr
}

// Keyword is a call or class keyword argument; an empty Arg means **value.
type Keyword struct {
	Pos   Position
	Arg   string
	Value Expr
}

type Alias struct {
	Pos    Position
	Name   string
	AsName string
}

type WithItem struct {
	Pos     Position
	Context Expr
	Vars    Expr
}

type ExceptHandler struct {
	Pos  Position
	Type Expr
	Name string
	Body []Stmt
}

type Comprehension struct {
	Pos    Position
	Target Expr
	Iter   Expr
	Ifs    []Expr
	Async  bool
}
