package unparser

import (
	"math/big"

	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

func (u *Unparser) VisitBoolOp(n *ast.BoolOp) error {
	prec, ok := boolOpPrecedence[n.Op]
	if !ok {
		return errors.Unsupported(n, "unknown boolean operator %q", n.Op)
	}
	if len(n.Values) < 2 {
		return errors.Unsupported(n, "boolean operation needs at least two operands")
	}
	return u.parens(prec, u.level, func() error {
		for i, v := range n.Values {
			if i > 0 {
				u.write(" " + n.Op + " ")
			}
			// Nested operations of the same operator keep their grouping.
			if err := u.expr(v, prec.next()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *Unparser) VisitNamedExpr(n *ast.NamedExpr) error {
	if err := u.requires(n, "assignment expressions", v38); err != nil {
		return err
	}
	return u.parens(PrecNamedExpr, u.level, func() error {
		if err := u.expr(n.Target, PrecAtom); err != nil {
			return err
		}
		u.write(" := ")
		return u.expr(n.Value, PrecTest)
	})
}

func (u *Unparser) VisitBinOp(n *ast.BinOp) error {
	prec, ok := binOpPrecedence[n.Op]
	if !ok {
		return errors.Unsupported(n, "unknown operator %q", n.Op)
	}
	if n.Op == "@" {
		if err := u.requires(n, "the @ operator", v35); err != nil {
			return err
		}
	}

	left, right := prec, prec.next()
	if n.Op == "**" {
		// Power is right-associative and binds tighter than a unary
		// operator on its left but not on its right.
		left, right = PrecAwait, PrecFactor
	}
	return u.parens(prec, u.level, func() error {
		if err := u.expr(n.Left, left); err != nil {
			return err
		}
		u.write(" " + n.Op + " ")
		return u.expr(n.Right, right)
	})
}

func (u *Unparser) VisitUnaryOp(n *ast.UnaryOp) error {
	prec, ok := unaryOps[n.Op]
	if !ok {
		return errors.Unsupported(n, "unknown unary operator %q", n.Op)
	}
	return u.parens(prec, u.level, func() error {
		if n.Op == "not" {
			u.write("not ")
		} else {
			u.write(n.Op)
		}
		return u.expr(n.Operand, prec)
	})
}

func (u *Unparser) VisitLambda(n *ast.Lambda) error {
	return u.parens(PrecTest, u.level, func() error {
		u.write("lambda")
		if n.Args != nil && hasParameters(n.Args) {
			u.write(" ")
			saved := u.inLambda
			u.inLambda = true
			err := u.node(n.Args)
			u.inLambda = saved
			if err != nil {
				return err
			}
		}
		u.write(": ")
		return u.expr(n.Body, PrecTest)
	})
}

func (u *Unparser) VisitIfExp(n *ast.IfExp) error {
	return u.parens(PrecTest, u.level, func() error {
		if err := u.expr(n.Body, PrecOr); err != nil {
			return err
		}
		u.write(" if ")
		if err := u.expr(n.Test, PrecOr); err != nil {
			return err
		}
		u.write(" else ")
		return u.expr(n.Orelse, PrecTest)
	})
}

func (u *Unparser) VisitDict(n *ast.Dict) error {
	if len(n.Keys) != len(n.Values) {
		return errors.Unsupported(n, "dict has %d keys and %d values", len(n.Keys), len(n.Values))
	}
	u.write("{")
	for i, k := range n.Keys {
		if i > 0 {
			u.write(", ")
		}
		if k == nil {
			u.write("**")
			if err := u.expr(n.Values[i], PrecBitOr); err != nil {
				return err
			}
			continue
		}
		if err := u.expr(k, PrecTest); err != nil {
			return err
		}
		u.write(": ")
		if err := u.expr(n.Values[i], PrecTest); err != nil {
			return err
		}
	}
	u.write("}")
	return nil
}

func (u *Unparser) VisitSet(n *ast.Set) error {
	if len(n.Elts) == 0 {
		return errors.Unsupported(n, "empty set has no literal spelling")
	}
	u.write("{")
	if err := u.exprList(n.Elts, PrecTest); err != nil {
		return err
	}
	u.write("}")
	return nil
}

func (u *Unparser) VisitList(n *ast.List) error {
	u.write("[")
	if err := u.exprList(n.Elts, PrecTest); err != nil {
		return err
	}
	u.write("]")
	return nil
}

func (u *Unparser) VisitTuple(n *ast.Tuple) error {
	wrap := len(n.Elts) == 0 || u.level > PrecTuple
	if wrap {
		u.write("(")
	}
	if err := u.tupleElements(n.Elts, PrecTest); err != nil {
		return err
	}
	if wrap {
		u.write(")")
	}
	return nil
}

// tupleElements writes elements with the trailing comma a single-element
// tuple needs.
func (u *Unparser) tupleElements(elts []ast.Expr, level Precedence) error {
	if err := u.exprList(elts, level); err != nil {
		return err
	}
	if len(elts) == 1 {
		u.write(",")
	}
	return nil
}

func (u *Unparser) comprehension(open, close string, generators []*ast.Comprehension, elt func() error) error {
	if len(generators) == 0 {
		return errors.Unsupported(u.parent, "comprehension without generators")
	}
	u.write(open)
	if err := elt(); err != nil {
		return err
	}
	for _, g := range generators {
		if g == nil {
			return errors.Unsupported(u.parent, "missing comprehension clause")
		}
		if err := u.node(g); err != nil {
			return err
		}
	}
	u.write(close)
	return nil
}

func (u *Unparser) VisitListComp(n *ast.ListComp) error {
	return u.comprehension("[", "]", n.Generators, func() error {
		return u.expr(n.Elt, PrecTest)
	})
}

func (u *Unparser) VisitSetComp(n *ast.SetComp) error {
	return u.comprehension("{", "}", n.Generators, func() error {
		return u.expr(n.Elt, PrecTest)
	})
}

func (u *Unparser) VisitDictComp(n *ast.DictComp) error {
	return u.comprehension("{", "}", n.Generators, func() error {
		if err := u.expr(n.Key, PrecTest); err != nil {
			return err
		}
		u.write(": ")
		return u.expr(n.Value, PrecTest)
	})
}

func (u *Unparser) VisitGeneratorExp(n *ast.GeneratorExp) error {
	return u.comprehension("(", ")", n.Generators, func() error {
		return u.expr(n.Elt, PrecTest)
	})
}

func (u *Unparser) VisitComprehension(n *ast.Comprehension) error {
	if n.Async {
		if err := u.requires(n, "asynchronous comprehensions", v36); err != nil {
			return err
		}
		u.write(" async for ")
	} else {
		u.write(" for ")
	}
	if err := u.expr(n.Target, PrecTuple); err != nil {
		return err
	}
	u.write(" in ")
	if err := u.expr(n.Iter, PrecOr); err != nil {
		return err
	}
	for _, cond := range n.Ifs {
		u.write(" if ")
		if err := u.expr(cond, PrecOr); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unparser) VisitAwait(n *ast.Await) error {
	if err := u.requires(n, "await expressions", v35); err != nil {
		return err
	}
	return u.parens(PrecAwait, u.level, func() error {
		u.write("await ")
		return u.expr(n.Value, PrecAtom)
	})
}

func (u *Unparser) VisitYield(n *ast.Yield) error {
	return u.parens(PrecYield, u.level, func() error {
		u.write("yield")
		if n.Value == nil {
			return nil
		}
		u.write(" ")
		return u.starExpressions(n.Value)
	})
}

// starExpressions writes a bare tuple position where a yield must still be
// parenthesized, such as a return value or a for-loop iterable.
func (u *Unparser) starExpressions(e ast.Expr) error {
	switch e.(type) {
	case *ast.Yield, *ast.YieldFrom:
		return u.expr(e, PrecTest)
	}
	return u.expr(e, PrecTuple)
}

func (u *Unparser) VisitYieldFrom(n *ast.YieldFrom) error {
	return u.parens(PrecYield, u.level, func() error {
		u.write("yield from ")
		return u.expr(n.Value, PrecTest)
	})
}

func (u *Unparser) VisitCompare(n *ast.Compare) error {
	if len(n.Ops) == 0 || len(n.Ops) != len(n.Comparators) {
		return errors.Unsupported(n, "comparison has %d operators and %d operands", len(n.Ops), len(n.Comparators))
	}
	return u.parens(PrecCmp, u.level, func() error {
		if err := u.expr(n.Left, PrecCmp.next()); err != nil {
			return err
		}
		for i, op := range n.Ops {
			if !cmpOps[op] {
				return errors.Unsupported(n, "unknown comparison operator %q", op)
			}
			u.write(" " + op + " ")
			if err := u.expr(n.Comparators[i], PrecCmp.next()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *Unparser) VisitCall(n *ast.Call) error {
	if err := u.expr(n.Func, PrecAtom); err != nil {
		return err
	}
	u.write("(")
	if err := u.exprList(n.Args, PrecTest); err != nil {
		return err
	}
	for i, kw := range n.Keywords {
		if i > 0 || len(n.Args) > 0 {
			u.write(", ")
		}
		if kw == nil {
			return errors.Unsupported(n, "missing keyword argument")
		}
		if err := u.node(kw); err != nil {
			return err
		}
	}
	u.write(")")
	return nil
}

func (u *Unparser) VisitKeyword(n *ast.Keyword) error {
	if n.Arg == "" {
		u.write("**")
	} else {
		u.write(n.Arg + "=")
	}
	return u.expr(n.Value, PrecTest)
}

func (u *Unparser) VisitAttribute(n *ast.Attribute) error {
	if err := u.expr(n.Value, PrecAtom); err != nil {
		return err
	}
	// 1.real would lex as a float.
	if c, ok := n.Value.(*ast.Constant); ok {
		if _, isInt := c.Value.(*big.Int); isInt {
			u.write(" ")
		}
	}
	u.write("." + n.Attr)
	return nil
}

func (u *Unparser) VisitSubscript(n *ast.Subscript) error {
	if err := u.expr(n.Value, PrecAtom); err != nil {
		return err
	}
	u.write("[")
	if t, ok := n.Slice.(*ast.Tuple); ok && len(t.Elts) > 0 {
		for _, e := range t.Elts {
			if _, starred := e.(*ast.Starred); starred {
				if err := u.requires(n, "starred subscripts", v311); err != nil {
					return err
				}
			}
		}
		if err := u.tupleElements(t.Elts, PrecTest); err != nil {
			return err
		}
	} else {
		if _, starred := n.Slice.(*ast.Starred); starred {
			if err := u.requires(n, "starred subscripts", v311); err != nil {
				return err
			}
		}
		if err := u.expr(n.Slice, PrecTest); err != nil {
			return err
		}
	}
	u.write("]")
	return nil
}

func (u *Unparser) VisitStarred(n *ast.Starred) error {
	u.write("*")
	return u.expr(n.Value, PrecBitOr)
}

func (u *Unparser) VisitName(n *ast.Name) error {
	if n.Id == "" {
		return errors.Unsupported(n, "empty identifier")
	}
	u.write(n.Id)
	return nil
}

func (u *Unparser) VisitSlice(n *ast.Slice) error {
	if n.Lower != nil {
		if err := u.expr(n.Lower, PrecTest); err != nil {
			return err
		}
	}
	u.write(":")
	if n.Upper != nil {
		if err := u.expr(n.Upper, PrecTest); err != nil {
			return err
		}
	}
	if n.Step != nil {
		u.write(":")
		if err := u.expr(n.Step, PrecTest); err != nil {
			return err
		}
	}
	return nil
}

func hasParameters(a *ast.Arguments) bool {
	return len(a.PosOnly) > 0 || len(a.Args) > 0 || a.Vararg != nil || len(a.KwOnly) > 0 || a.Kwarg != nil
}

func (u *Unparser) VisitArguments(n *ast.Arguments) error {
	positional := append(append([]*ast.Arg{}, n.PosOnly...), n.Args...)
	if len(n.Defaults) > len(positional) {
		return errors.Unsupported(n, "%d defaults for %d positional parameters", len(n.Defaults), len(positional))
	}
	if len(n.KwDefaults) != 0 && len(n.KwDefaults) != len(n.KwOnly) {
		return errors.Unsupported(n, "%d defaults for %d keyword-only parameters", len(n.KwDefaults), len(n.KwOnly))
	}
	if len(n.PosOnly) > 0 {
		if err := u.requires(n, "positional-only parameters", v38); err != nil {
			return err
		}
	}

	first := true
	sep := func() {
		if !first {
			u.write(", ")
		}
		first = false
	}

	firstDefault := len(positional) - len(n.Defaults)
	for i, a := range positional {
		sep()
		if err := u.param(n, a); err != nil {
			return err
		}
		if i >= firstDefault {
			if err := u.paramDefault(a, n.Defaults[i-firstDefault]); err != nil {
				return err
			}
		}
		if i == len(n.PosOnly)-1 {
			u.write(", /")
		}
	}

	if n.Vararg != nil || len(n.KwOnly) > 0 {
		sep()
		u.write("*")
		if n.Vararg != nil {
			if err := u.param(n, n.Vararg); err != nil {
				return err
			}
		}
	}
	for i, a := range n.KwOnly {
		sep()
		if err := u.param(n, a); err != nil {
			return err
		}
		if i < len(n.KwDefaults) && n.KwDefaults[i] != nil {
			if err := u.paramDefault(a, n.KwDefaults[i]); err != nil {
				return err
			}
		}
	}

	if n.Kwarg != nil {
		sep()
		u.write("**")
		if err := u.param(n, n.Kwarg); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unparser) param(owner ast.Node, a *ast.Arg) error {
	if a == nil {
		return errors.Unsupported(owner, "missing parameter")
	}
	return u.node(a)
}

// paramDefault writes "=value", spaced when the parameter is annotated.
func (u *Unparser) paramDefault(a *ast.Arg, value ast.Expr) error {
	if a.Annotation != nil {
		u.write(" = ")
	} else {
		u.write("=")
	}
	return u.expr(value, PrecTest)
}

func (u *Unparser) VisitArg(n *ast.Arg) error {
	if n.Name == "" {
		return errors.Unsupported(n, "parameter without a name")
	}
	u.write(n.Name)
	if n.Annotation != nil {
		if u.inLambda {
			return errors.Unsupported(n, "lambda parameters cannot be annotated")
		}
		u.write(": ")
		return u.expr(n.Annotation, PrecTest)
	}
	return nil
}
