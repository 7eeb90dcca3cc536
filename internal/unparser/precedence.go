package unparser

// Precedence orders expression kinds from loosest to tightest binding. A
// child is parenthesized when its own precedence is lower than the level
// its position requires.
type Precedence int

const (
	PrecNamedExpr Precedence = iota // :=
	PrecTuple                       // a, b
	PrecYield                       // yield
	PrecTest                        // if-else, lambda
	PrecOr                          // or
	PrecAnd                         // and
	PrecNot                         // not
	PrecCmp                         // < > == in is ...
	PrecBitOr                       // |
	PrecXor                         // ^
	PrecBitAnd                      // &
	PrecShift                       // << >>
	PrecArith                       // + -
	PrecTerm                        // * @ / // %
	PrecFactor                      // unary + - ~
	PrecPower                       // **
	PrecAwait                       // await
	PrecAtom                        // names, literals, calls, subscripts
)

var binOpPrecedence = map[string]Precedence{
	"|":  PrecBitOr,
	"^":  PrecXor,
	"&":  PrecBitAnd,
	"<<": PrecShift, ">>": PrecShift,
	"+": PrecArith, "-": PrecArith,
	"*": PrecTerm, "@": PrecTerm, "/": PrecTerm, "//": PrecTerm, "%": PrecTerm,
	"**": PrecPower,
}

var boolOpPrecedence = map[string]Precedence{
	"or":  PrecOr,
	"and": PrecAnd,
}

var cmpOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"is": true, "is not": true, "in": true, "not in": true,
}

var unaryOps = map[string]Precedence{
	"not": PrecNot,
	"-":   PrecFactor,
	"+":   PrecFactor,
	"~":   PrecFactor,
}

func (p Precedence) next() Precedence {
	if p >= PrecAtom {
		return PrecAtom
	}
	return p + 1
}
