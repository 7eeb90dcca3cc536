package unparser

import (
	"strings"

	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

func (u *Unparser) VisitModule(n *ast.Module) error {
	return u.body(n.Body, true)
}

func (u *Unparser) decorators(owner ast.Node, decorators []ast.Expr) error {
	for _, d := range decorators {
		if !isClassicDecorator(d) {
			if err := u.requires(owner, "arbitrary decorator expressions", v39); err != nil {
				return err
			}
		}
		u.fill("@")
		if err := u.expr(d, PrecNamedExpr); err != nil {
			return err
		}
		u.endLine()
	}
	return nil
}

func (u *Unparser) VisitFunctionDef(n *ast.FunctionDef) error {
	if err := u.decorators(n, n.Decorators); err != nil {
		return err
	}
	keyword := "def "
	if n.Async {
		if err := u.requires(n, "async functions", v35); err != nil {
			return err
		}
		keyword = "async def "
	}
	u.fill(keyword + n.Name + "(")
	if n.Args != nil {
		if err := u.node(n.Args); err != nil {
			return err
		}
	}
	u.write(")")
	if n.Returns != nil {
		u.write(" -> ")
		if err := u.expr(n.Returns, PrecTest); err != nil {
			return err
		}
	}
	return u.block(n, n.Body, true)
}

func (u *Unparser) VisitClassDef(n *ast.ClassDef) error {
	if err := u.decorators(n, n.Decorators); err != nil {
		return err
	}
	u.fill("class " + n.Name)
	if len(n.Bases) > 0 || len(n.Keywords) > 0 {
		u.write("(")
		if err := u.exprList(n.Bases, PrecTest); err != nil {
			return err
		}
		for i, kw := range n.Keywords {
			if i > 0 || len(n.Bases) > 0 {
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
	}
	return u.block(n, n.Body, true)
}

func (u *Unparser) VisitReturn(n *ast.Return) error {
	u.fill("return")
	if n.Value != nil {
		u.write(" ")
		if err := u.starExpressions(n.Value); err != nil {
			return err
		}
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitDelete(n *ast.Delete) error {
	if len(n.Targets) == 0 {
		return errors.Unsupported(n, "del without targets")
	}
	u.fill("del ")
	if err := u.exprList(n.Targets, PrecTest); err != nil {
		return err
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitAssign(n *ast.Assign) error {
	if len(n.Targets) == 0 {
		return errors.Unsupported(n, "assignment without targets")
	}
	u.fill("")
	for _, t := range n.Targets {
		if err := u.expr(t, PrecTuple); err != nil {
			return err
		}
		u.write(" = ")
	}
	if err := u.expr(n.Value, PrecTuple); err != nil {
		return err
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitAugAssign(n *ast.AugAssign) error {
	if _, ok := binOpPrecedence[n.Op]; !ok {
		return errors.Unsupported(n, "unknown operator %q", n.Op)
	}
	if n.Op == "@" {
		if err := u.requires(n, "the @= operator", v35); err != nil {
			return err
		}
	}
	u.fill("")
	if err := u.expr(n.Target, PrecTuple); err != nil {
		return err
	}
	u.write(" " + n.Op + "= ")
	if err := u.expr(n.Value, PrecTuple); err != nil {
		return err
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitAnnAssign(n *ast.AnnAssign) error {
	if err := u.requires(n, "variable annotations", v36); err != nil {
		return err
	}
	u.fill("")
	_, isName := n.Target.(*ast.Name)
	wrap := isName && !n.Simple
	if wrap {
		u.write("(")
	}
	if err := u.expr(n.Target, PrecTest); err != nil {
		return err
	}
	if wrap {
		u.write(")")
	}
	u.write(": ")
	if err := u.expr(n.Annotation, PrecTest); err != nil {
		return err
	}
	if n.Value != nil {
		u.write(" = ")
		if err := u.expr(n.Value, PrecTuple); err != nil {
			return err
		}
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitFor(n *ast.For) error {
	keyword := "for "
	if n.Async {
		if err := u.requires(n, "async for", v35); err != nil {
			return err
		}
		keyword = "async for "
	}
	u.fill(keyword)
	if err := u.expr(n.Target, PrecTuple); err != nil {
		return err
	}
	u.write(" in ")
	if err := u.starExpressions(n.Iter); err != nil {
		return err
	}
	if err := u.block(n, n.Body, false); err != nil {
		return err
	}
	return u.orelse(n, n.Orelse)
}

func (u *Unparser) VisitWhile(n *ast.While) error {
	u.fill("while ")
	if err := u.expr(n.Test, PrecNamedExpr); err != nil {
		return err
	}
	if err := u.block(n, n.Body, false); err != nil {
		return err
	}
	return u.orelse(n, n.Orelse)
}

func (u *Unparser) orelse(owner ast.Node, stmts []ast.Stmt) error {
	if len(stmts) == 0 {
		return nil
	}
	u.fill("else")
	return u.block(owner, stmts, false)
}

func (u *Unparser) VisitIf(n *ast.If) error {
	u.fill("if ")
	if err := u.expr(n.Test, PrecNamedExpr); err != nil {
		return err
	}
	if err := u.block(n, n.Body, false); err != nil {
		return err
	}

	// A lone If in the else branch collapses to elif.
	orelse := n.Orelse
	for len(orelse) == 1 {
		elif, ok := orelse[0].(*ast.If)
		if !ok {
			break
		}
		u.fill("elif ")
		if err := u.expr(elif.Test, PrecNamedExpr); err != nil {
			return err
		}
		if err := u.block(elif, elif.Body, false); err != nil {
			return err
		}
		orelse = elif.Orelse
	}
	return u.orelse(n, orelse)
}

func (u *Unparser) VisitWith(n *ast.With) error {
	if len(n.Items) == 0 {
		return errors.Unsupported(n, "with statement without items")
	}
	keyword := "with "
	if n.Async {
		if err := u.requires(n, "async with", v35); err != nil {
			return err
		}
		keyword = "async with "
	}
	u.fill(keyword)
	for i, item := range n.Items {
		if i > 0 {
			u.write(", ")
		}
		if item == nil {
			return errors.Unsupported(n, "missing with item")
		}
		if err := u.node(item); err != nil {
			return err
		}
	}
	return u.block(n, n.Body, false)
}

func (u *Unparser) VisitRaise(n *ast.Raise) error {
	u.fill("raise")
	if n.Exc == nil {
		if n.Cause != nil {
			return errors.Unsupported(n, "raise with a cause but no exception")
		}
		u.endLine()
		return nil
	}
	u.write(" ")
	if err := u.expr(n.Exc, PrecTest); err != nil {
		return err
	}
	if n.Cause != nil {
		u.write(" from ")
		if err := u.expr(n.Cause, PrecTest); err != nil {
			return err
		}
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitTry(n *ast.Try) error {
	if len(n.Handlers) == 0 && len(n.Finalbody) == 0 {
		return errors.Unsupported(n, "try without except or finally")
	}
	if len(n.Handlers) == 0 && len(n.Orelse) > 0 {
		return errors.Unsupported(n, "try with else but no except")
	}
	u.fill("try")
	if err := u.block(n, n.Body, false); err != nil {
		return err
	}
	for _, h := range n.Handlers {
		if h == nil {
			return errors.Unsupported(n, "missing except handler")
		}
		if err := u.node(h); err != nil {
			return err
		}
	}
	if err := u.orelse(n, n.Orelse); err != nil {
		return err
	}
	if len(n.Finalbody) > 0 {
		u.fill("finally")
		return u.block(n, n.Finalbody, false)
	}
	return nil
}

func (u *Unparser) VisitExceptHandler(n *ast.ExceptHandler) error {
	u.fill("except")
	if n.Type != nil {
		u.write(" ")
		if err := u.expr(n.Type, PrecTest); err != nil {
			return err
		}
		if n.Name != "" {
			u.write(" as " + n.Name)
		}
	} else if n.Name != "" {
		return errors.Unsupported(n, "bare except cannot bind a name")
	}
	return u.block(n, n.Body, false)
}

func (u *Unparser) VisitAssert(n *ast.Assert) error {
	u.fill("assert ")
	if err := u.expr(n.Test, PrecTest); err != nil {
		return err
	}
	if n.Msg != nil {
		u.write(", ")
		if err := u.expr(n.Msg, PrecTest); err != nil {
			return err
		}
	}
	u.endLine()
	return nil
}

func (u *Unparser) aliases(owner ast.Node, names []*ast.Alias) error {
	if len(names) == 0 {
		return errors.Unsupported(owner, "import without names")
	}
	for i, a := range names {
		if i > 0 {
			u.write(", ")
		}
		if a == nil {
			return errors.Unsupported(owner, "missing import name")
		}
		if err := u.node(a); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unparser) VisitImport(n *ast.Import) error {
	u.fill("import ")
	if err := u.aliases(n, n.Names); err != nil {
		return err
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitImportFrom(n *ast.ImportFrom) error {
	if n.Module == "" && n.Level == 0 {
		return errors.Unsupported(n, "from-import without a module")
	}
	u.fill("from " + strings.Repeat(".", n.Level) + n.Module + " import ")
	if err := u.aliases(n, n.Names); err != nil {
		return err
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitAlias(n *ast.Alias) error {
	u.write(n.Name)
	if n.AsName != "" {
		u.write(" as " + n.AsName)
	}
	return nil
}

func (u *Unparser) names(owner ast.Node, keyword string, names []string) error {
	if len(names) == 0 {
		return errors.Unsupported(owner, "%s without names", keyword)
	}
	u.fill(keyword + " " + strings.Join(names, ", "))
	u.endLine()
	return nil
}

func (u *Unparser) VisitGlobal(n *ast.Global) error {
	return u.names(n, "global", n.Names)
}

func (u *Unparser) VisitNonlocal(n *ast.Nonlocal) error {
	return u.names(n, "nonlocal", n.Names)
}

func (u *Unparser) VisitExprStmt(n *ast.ExprStmt) error {
	u.fill("")
	if err := u.expr(n.Value, PrecTuple); err != nil {
		return err
	}
	u.endLine()
	return nil
}

func (u *Unparser) VisitPass(*ast.Pass) error {
	u.fill("pass")
	u.endLine()
	return nil
}

func (u *Unparser) VisitBreak(*ast.Break) error {
	u.fill("break")
	u.endLine()
	return nil
}

func (u *Unparser) VisitContinue(*ast.Continue) error {
	u.fill("continue")
	u.endLine()
	return nil
}

func (u *Unparser) VisitWithItem(n *ast.WithItem) error {
	if err := u.expr(n.Context, PrecTest); err != nil {
		return err
	}
	if n.Vars != nil {
		u.write(" as ")
		if err := u.expr(n.Vars, PrecBitOr); err != nil {
			return err
		}
	}
	return nil
}
