package ast

// Field is one named slot of a node: a child node, one element of a child
// list, or a scalar attribute. Empty optional children appear with a nil Node
// so that present-versus-absent is visible to comparisons.
type Field struct {
	Name   string
	Index  int // position within a list field, -1 otherwise
	Node   Node
	Value  any
	Scalar bool
}

// Fields lists the slots of n in declaration order. Positions are never part
// of the result.
func Fields(n Node) []Field {
	if n == nil {
		return nil
	}
	fl := &fieldLister{}
	_ = n.Accept(fl)
	return fl.out
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, f := range Fields(n) {
		if f.Node != nil {
			Walk(f.Node, fn)
		}
	}
}

type fieldLister struct {
	out []Field
}

func (fl *fieldLister) scalar(name string, v any) {
	fl.out = append(fl.out, Field{Name: name, Index: -1, Value: v, Scalar: true})
}

func (fl *fieldLister) child(name string, n Node) {
	fl.out = append(fl.out, Field{Name: name, Index: -1, Node: n})
}

func (fl *fieldLister) expr(name string, e Expr) {
	if e == nil {
		fl.child(name, nil)
		return
	}
	fl.child(name, e)
}

func (fl *fieldLister) exprs(name string, list []Expr) {
	fl.scalar(name+".len", len(list))
	for i, e := range list {
		f := Field{Name: name, Index: i}
		if e != nil {
			f.Node = e
		}
		fl.out = append(fl.out, f)
	}
}

func (fl *fieldLister) stmts(name string, list []Stmt) {
	fl.scalar(name+".len", len(list))
	for i, s := range list {
		fl.out = append(fl.out, Field{Name: name, Index: i, Node: s})
	}
}

func (fl *fieldLister) arg(name string, a *Arg) {
	if a == nil {
		fl.child(name, nil)
		return
	}
	fl.child(name, a)
}

func (fl *fieldLister) args(name string, list []*Arg) {
	fl.scalar(name+".len", len(list))
	for i, a := range list {
		fl.out = append(fl.out, Field{Name: name, Index: i, Node: a})
	}
}

func (fl *fieldLister) keywords(list []*Keyword) {
	fl.scalar("keywords.len", len(list))
	for i, k := range list {
		fl.out = append(fl.out, Field{Name: "keywords", Index: i, Node: k})
	}
}

func (fl *fieldLister) generators(list []*Comprehension) {
	fl.scalar("generators.len", len(list))
	for i, c := range list {
		fl.out = append(fl.out, Field{Name: "generators", Index: i, Node: c})
	}
}

func (fl *fieldLister) aliases(list []*Alias) {
	fl.scalar("names.len", len(list))
	for i, a := range list {
		fl.out = append(fl.out, Field{Name: "names", Index: i, Node: a})
	}
}

func (fl *fieldLister) arguments(a *Arguments) {
	if a == nil {
		fl.child("args", nil)
		return
	}
	fl.child("args", a)
}

func (fl *fieldLister) VisitModule(n *Module) error {
	fl.stmts("body", n.Body)
	return nil
}

func (fl *fieldLister) VisitFunctionDef(n *FunctionDef) error {
	fl.scalar("name", n.Name)
	fl.scalar("async", n.Async)
	fl.arguments(n.Args)
	fl.stmts("body", n.Body)
	fl.exprs("decorator_list", n.Decorators)
	fl.expr("returns", n.Returns)
	return nil
}

func (fl *fieldLister) VisitClassDef(n *ClassDef) error {
	fl.scalar("name", n.Name)
	fl.exprs("bases", n.Bases)
	fl.keywords(n.Keywords)
	fl.stmts("body", n.Body)
	fl.exprs("decorator_list", n.Decorators)
	return nil
}

func (fl *fieldLister) VisitReturn(n *Return) error {
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitDelete(n *Delete) error {
	fl.exprs("targets", n.Targets)
	return nil
}

func (fl *fieldLister) VisitAssign(n *Assign) error {
	fl.exprs("targets", n.Targets)
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitAugAssign(n *AugAssign) error {
	fl.expr("target", n.Target)
	fl.scalar("op", n.Op)
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitAnnAssign(n *AnnAssign) error {
	fl.expr("target", n.Target)
	fl.expr("annotation", n.Annotation)
	fl.expr("value", n.Value)
	fl.scalar("simple", n.Simple)
	return nil
}

func (fl *fieldLister) VisitFor(n *For) error {
	fl.scalar("async", n.Async)
	fl.expr("target", n.Target)
	fl.expr("iter", n.Iter)
	fl.stmts("body", n.Body)
	fl.stmts("orelse", n.Orelse)
	return nil
}

func (fl *fieldLister) VisitWhile(n *While) error {
	fl.expr("test", n.Test)
	fl.stmts("body", n.Body)
	fl.stmts("orelse", n.Orelse)
	return nil
}

func (fl *fieldLister) VisitIf(n *If) error {
	fl.expr("test", n.Test)
	fl.stmts("body", n.Body)
	fl.stmts("orelse", n.Orelse)
	return nil
}

func (fl *fieldLister) VisitWith(n *With) error {
	fl.scalar("async", n.Async)
	fl.scalar("items.len", len(n.Items))
	for i, it := range n.Items {
		fl.out = append(fl.out, Field{Name: "items", Index: i, Node: it})
	}
	fl.stmts("body", n.Body)
	return nil
}

func (fl *fieldLister) VisitRaise(n *Raise) error {
	fl.expr("exc", n.Exc)
	fl.expr("cause", n.Cause)
	return nil
}

func (fl *fieldLister) VisitTry(n *Try) error {
	fl.stmts("body", n.Body)
	fl.scalar("handlers.len", len(n.Handlers))
	for i, h := range n.Handlers {
		fl.out = append(fl.out, Field{Name: "handlers", Index: i, Node: h})
	}
	fl.stmts("orelse", n.Orelse)
	fl.stmts("finalbody", n.Finalbody)
	return nil
}

func (fl *fieldLister) VisitAssert(n *Assert) error {
	fl.expr("test", n.Test)
	fl.expr("msg", n.Msg)
	return nil
}

func (fl *fieldLister) VisitImport(n *Import) error {
	fl.aliases(n.Names)
	return nil
}

func (fl *fieldLister) VisitImportFrom(n *ImportFrom) error {
	fl.scalar("module", n.Module)
	fl.aliases(n.Names)
	fl.scalar("level", n.Level)
	return nil
}

func (fl *fieldLister) VisitGlobal(n *Global) error {
	fl.scalar("names", append([]string(nil), n.Names...))
	return nil
}

func (fl *fieldLister) VisitNonlocal(n *Nonlocal) error {
	fl.scalar("names", append([]string(nil), n.Names...))
	return nil
}

func (fl *fieldLister) VisitExprStmt(n *ExprStmt) error {
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitPass(*Pass) error         { return nil }
func (fl *fieldLister) VisitBreak(*Break) error       { return nil }
func (fl *fieldLister) VisitContinue(*Continue) error { return nil }

func (fl *fieldLister) VisitBoolOp(n *BoolOp) error {
	fl.scalar("op", n.Op)
	fl.exprs("values", n.Values)
	return nil
}

func (fl *fieldLister) VisitNamedExpr(n *NamedExpr) error {
	fl.expr("target", n.Target)
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitBinOp(n *BinOp) error {
	fl.expr("left", n.Left)
	fl.scalar("op", n.Op)
	fl.expr("right", n.Right)
	return nil
}

func (fl *fieldLister) VisitUnaryOp(n *UnaryOp) error {
	fl.scalar("op", n.Op)
	fl.expr("operand", n.Operand)
	return nil
}

func (fl *fieldLister) VisitLambda(n *Lambda) error {
	fl.arguments(n.Args)
	fl.expr("body", n.Body)
	return nil
}

func (fl *fieldLister) VisitIfExp(n *IfExp) error {
	fl.expr("test", n.Test)
	fl.expr("body", n.Body)
	fl.expr("orelse", n.Orelse)
	return nil
}

func (fl *fieldLister) VisitDict(n *Dict) error {
	fl.exprs("keys", n.Keys)
	fl.exprs("values", n.Values)
	return nil
}

func (fl *fieldLister) VisitSet(n *Set) error {
	fl.exprs("elts", n.Elts)
	return nil
}

func (fl *fieldLister) VisitListComp(n *ListComp) error {
	fl.expr("elt", n.Elt)
	fl.generators(n.Generators)
	return nil
}

func (fl *fieldLister) VisitSetComp(n *SetComp) error {
	fl.expr("elt", n.Elt)
	fl.generators(n.Generators)
	return nil
}

func (fl *fieldLister) VisitDictComp(n *DictComp) error {
	fl.expr("key", n.Key)
	fl.expr("value", n.Value)
	fl.generators(n.Generators)
	return nil
}

func (fl *fieldLister) VisitGeneratorExp(n *GeneratorExp) error {
	fl.expr("elt", n.Elt)
	fl.generators(n.Generators)
	return nil
}

func (fl *fieldLister) VisitAwait(n *Await) error {
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitYield(n *Yield) error {
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitYieldFrom(n *YieldFrom) error {
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitCompare(n *Compare) error {
	fl.expr("left", n.Left)
	fl.scalar("ops", append([]string(nil), n.Ops...))
	fl.exprs("comparators", n.Comparators)
	return nil
}

func (fl *fieldLister) VisitCall(n *Call) error {
	fl.expr("func", n.Func)
	fl.exprs("args", n.Args)
	fl.keywords(n.Keywords)
	return nil
}

func (fl *fieldLister) VisitFormattedValue(n *FormattedValue) error {
	fl.expr("value", n.Value)
	fl.scalar("conversion", n.Conversion)
	fl.expr("format_spec", n.FormatSpec)
	return nil
}

func (fl *fieldLister) VisitJoinedStr(n *JoinedStr) error {
	fl.exprs("values", n.Values)
	return nil
}

func (fl *fieldLister) VisitConstant(n *Constant) error {
	fl.scalar("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitAttribute(n *Attribute) error {
	fl.expr("value", n.Value)
	fl.scalar("attr", n.Attr)
	return nil
}

func (fl *fieldLister) VisitSubscript(n *Subscript) error {
	fl.expr("value", n.Value)
	fl.expr("slice", n.Slice)
	return nil
}

func (fl *fieldLister) VisitStarred(n *Starred) error {
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitName(n *Name) error {
	fl.scalar("id", n.Id)
	return nil
}

func (fl *fieldLister) VisitList(n *List) error {
	fl.exprs("elts", n.Elts)
	return nil
}

func (fl *fieldLister) VisitTuple(n *Tuple) error {
	fl.exprs("elts", n.Elts)
	return nil
}

func (fl *fieldLister) VisitSlice(n *Slice) error {
	fl.expr("lower", n.Lower)
	fl.expr("upper", n.Upper)
	fl.expr("step", n.Step)
	return nil
}

func (fl *fieldLister) VisitArguments(n *Arguments) error {
	fl.args("posonlyargs", n.PosOnly)
	fl.args("args", n.Args)
	fl.arg("vararg", n.Vararg)
	fl.args("kwonlyargs", n.KwOnly)
	fl.exprs("kw_defaults", n.KwDefaults)
	fl.arg("kwarg", n.Kwarg)
	fl.exprs("defaults", n.Defaults)
	return nil
}

func (fl *fieldLister) VisitArg(n *Arg) error {
	fl.scalar("arg", n.Name)
	fl.expr("annotation", n.Annotation)
	return nil
}

func (fl *fieldLister) VisitKeyword(n *Keyword) error {
	fl.scalar("arg", n.Arg)
	fl.expr("value", n.Value)
	return nil
}

func (fl *fieldLister) VisitAlias(n *Alias) error {
	fl.scalar("name", n.Name)
	fl.scalar("asname", n.AsName)
	return nil
}

func (fl *fieldLister) VisitWithItem(n *WithItem) error {
	fl.expr("context_expr", n.Context)
	fl.expr("optional_vars", n.Vars)
	return nil
}

func (fl *fieldLister) VisitExceptHandler(n *ExceptHandler) error {
	fl.expr("type", n.Type)
	fl.scalar("name", n.Name)
	fl.stmts("body", n.Body)
	return nil
}

func (fl *fieldLister) VisitComprehension(n *Comprehension) error {
	fl.expr("target", n.Target)
	fl.expr("iter", n.Iter)
	fl.exprs("ifs", n.Ifs)
	fl.scalar("is_async", n.Async)
	return nil
}
