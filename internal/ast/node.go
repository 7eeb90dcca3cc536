package ast

// Node is implemented by every tree node. The set of implementations is
// closed: Accept dispatches to the matching Visitor method.
type Node interface {
	NodePos() Position
	Kind() Kind
	Accept(v Visitor) error
}

type Stmt interface {
	Node
	isStmt()
}

type Expr interface {
	Node
	isExpr()
}

func (m *Module) NodePos() Position      { return m.Pos }
func (*Module) Kind() Kind               { return MODULE }
func (m *Module) Accept(v Visitor) error { return v.VisitModule(m) }

func (fd *FunctionDef) NodePos() Position      { return fd.Pos }
func (*FunctionDef) Kind() Kind                { return FUNCTION_DEF }
func (fd *FunctionDef) Accept(v Visitor) error { return v.VisitFunctionDef(fd) }

func (cd *ClassDef) NodePos() Position      { return cd.Pos }
func (*ClassDef) Kind() Kind                { return CLASS_DEF }
func (cd *ClassDef) Accept(v Visitor) error { return v.VisitClassDef(cd) }

func (r *Return) NodePos() Position      { return r.Pos }
func (*Return) Kind() Kind               { return RETURN }
func (r *Return) Accept(v Visitor) error { return v.VisitReturn(r) }

func (d *Delete) NodePos() Position      { return d.Pos }
func (*Delete) Kind() Kind               { return DELETE }
func (d *Delete) Accept(v Visitor) error { return v.VisitDelete(d) }

func (a *Assign) NodePos() Position      { return a.Pos }
func (*Assign) Kind() Kind               { return ASSIGN }
func (a *Assign) Accept(v Visitor) error { return v.VisitAssign(a) }

func (aa *AugAssign) NodePos() Position      { return aa.Pos }
func (*AugAssign) Kind() Kind                { return AUG_ASSIGN }
func (aa *AugAssign) Accept(v Visitor) error { return v.VisitAugAssign(aa) }

func (aa *AnnAssign) NodePos() Position      { return aa.Pos }
func (*AnnAssign) Kind() Kind                { return ANN_ASSIGN }
func (aa *AnnAssign) Accept(v Visitor) error { return v.VisitAnnAssign(aa) }

func (f *For) NodePos() Position      { return f.Pos }
func (*For) Kind() Kind               { return FOR }
func (f *For) Accept(v Visitor) error { return v.VisitFor(f) }

func (w *While) NodePos() Position      { return w.Pos }
func (*While) Kind() Kind               { return WHILE }
func (w *While) Accept(v Visitor) error { return v.VisitWhile(w) }

func (i *If) NodePos() Position      { return i.Pos }
func (*If) Kind() Kind               { return IF }
func (i *If) Accept(v Visitor) error { return v.VisitIf(i) }

func (w *With) NodePos() Position      { return w.Pos }
func (*With) Kind() Kind               { return WITH }
func (w *With) Accept(v Visitor) error { return v.VisitWith(w) }

func (r *Raise) NodePos() Position      { return r.Pos }
func (*Raise) Kind() Kind               { return RAISE }
func (r *Raise) Accept(v Visitor) error { return v.VisitRaise(r) }

func (t *Try) NodePos() Position      { return t.Pos }
func (*Try) Kind() Kind               { return TRY }
func (t *Try) Accept(v Visitor) error { return v.VisitTry(t) }

func (a *Assert) NodePos() Position      { return a.Pos }
func (*Assert) Kind() Kind               { return ASSERT }
func (a *Assert) Accept(v Visitor) error { return v.VisitAssert(a) }

func (i *Import) NodePos() Position      { return i.Pos }
func (*Import) Kind() Kind               { return IMPORT }
func (i *Import) Accept(v Visitor) error { return v.VisitImport(i) }

func (ifs *ImportFrom) NodePos() Position      { return ifs.Pos }
func (*ImportFrom) Kind() Kind                 { return IMPORT_FROM }
func (ifs *ImportFrom) Accept(v Visitor) error { return v.VisitImportFrom(ifs) }

func (g *Global) NodePos() Position      { return g.Pos }
func (*Global) Kind() Kind               { return GLOBAL }
func (g *Global) Accept(v Visitor) error { return v.VisitGlobal(g) }

func (n *Nonlocal) NodePos() Position      { return n.Pos }
func (*Nonlocal) Kind() Kind               { return NONLOCAL }
func (n *Nonlocal) Accept(v Visitor) error { return v.VisitNonlocal(n) }

func (es *ExprStmt) NodePos() Position      { return es.Pos }
func (*ExprStmt) Kind() Kind                { return EXPR_STMT }
func (es *ExprStmt) Accept(v Visitor) error { return v.VisitExprStmt(es) }

func (p *Pass) NodePos() Position      { return p.Pos }
func (*Pass) Kind() Kind               { return PASS }
func (p *Pass) Accept(v Visitor) error { return v.VisitPass(p) }

func (b *Break) NodePos() Position      { return b.Pos }
func (*Break) Kind() Kind               { return BREAK }
func (b *Break) Accept(v Visitor) error { return v.VisitBreak(b) }

func (c *Continue) NodePos() Position      { return c.Pos }
func (*Continue) Kind() Kind               { return CONTINUE }
func (c *Continue) Accept(v Visitor) error { return v.VisitContinue(c) }

func (bo *BoolOp) NodePos() Position      { return bo.Pos }
func (*BoolOp) Kind() Kind                { return BOOL_OP }
func (bo *BoolOp) Accept(v Visitor) error { return v.VisitBoolOp(bo) }

func (ne *NamedExpr) NodePos() Position      { return ne.Pos }
func (*NamedExpr) Kind() Kind                { return NAMED_EXPR }
func (ne *NamedExpr) Accept(v Visitor) error { return v.VisitNamedExpr(ne) }

func (bo *BinOp) NodePos() Position      { return bo.Pos }
func (*BinOp) Kind() Kind                { return BIN_OP }
func (bo *BinOp) Accept(v Visitor) error { return v.VisitBinOp(bo) }

func (uo *UnaryOp) NodePos() Position      { return uo.Pos }
func (*UnaryOp) Kind() Kind                { return UNARY_OP }
func (uo *UnaryOp) Accept(v Visitor) error { return v.VisitUnaryOp(uo) }

func (l *Lambda) NodePos() Position      { return l.Pos }
func (*Lambda) Kind() Kind               { return LAMBDA }
func (l *Lambda) Accept(v Visitor) error { return v.VisitLambda(l) }

func (ie *IfExp) NodePos() Position      { return ie.Pos }
func (*IfExp) Kind() Kind                { return IF_EXP }
func (ie *IfExp) Accept(v Visitor) error { return v.VisitIfExp(ie) }

func (d *Dict) NodePos() Position      { return d.Pos }
func (*Dict) Kind() Kind               { return DICT }
func (d *Dict) Accept(v Visitor) error { return v.VisitDict(d) }

func (s *Set) NodePos() Position      { return s.Pos }
func (*Set) Kind() Kind               { return SET }
func (s *Set) Accept(v Visitor) error { return v.VisitSet(s) }

func (lc *ListComp) NodePos() Position      { return lc.Pos }
func (*ListComp) Kind() Kind                { return LIST_COMP }
func (lc *ListComp) Accept(v Visitor) error { return v.VisitListComp(lc) }

func (sc *SetComp) NodePos() Position      { return sc.Pos }
func (*SetComp) Kind() Kind                { return SET_COMP }
func (sc *SetComp) Accept(v Visitor) error { return v.VisitSetComp(sc) }

func (dc *DictComp) NodePos() Position      { return dc.Pos }
func (*DictComp) Kind() Kind                { return DICT_COMP }
func (dc *DictComp) Accept(v Visitor) error { return v.VisitDictComp(dc) }

func (ge *GeneratorExp) NodePos() Position      { return ge.Pos }
func (*GeneratorExp) Kind() Kind                { return GENERATOR_EXP }
func (ge *GeneratorExp) Accept(v Visitor) error { return v.VisitGeneratorExp(ge) }

func (a *Await) NodePos() Position      { return a.Pos }
func (*Await) Kind() Kind               { return AWAIT }
func (a *Await) Accept(v Visitor) error { return v.VisitAwait(a) }

func (y *Yield) NodePos() Position      { return y.Pos }
func (*Yield) Kind() Kind               { return YIELD }
func (y *Yield) Accept(v Visitor) error { return v.VisitYield(y) }

func (yf *YieldFrom) NodePos() Position      { return yf.Pos }
func (*YieldFrom) Kind() Kind                { return YIELD_FROM }
func (yf *YieldFrom) Accept(v Visitor) error { return v.VisitYieldFrom(yf) }

func (c *Compare) NodePos() Position      { return c.Pos }
func (*Compare) Kind() Kind               { return COMPARE }
func (c *Compare) Accept(v Visitor) error { return v.VisitCompare(c) }

func (c *Call) NodePos() Position      { return c.Pos }
func (*Call) Kind() Kind               { return CALL }
func (c *Call) Accept(v Visitor) error { return v.VisitCall(c) }

func (fv *FormattedValue) NodePos() Position      { return fv.Pos }
func (*FormattedValue) Kind() Kind                { return FORMATTED_VALUE }
func (fv *FormattedValue) Accept(v Visitor) error { return v.VisitFormattedValue(fv) }

func (js *JoinedStr) NodePos() Position      { return js.Pos }
func (*JoinedStr) Kind() Kind                { return JOINED_STR }
func (js *JoinedStr) Accept(v Visitor) error { return v.VisitJoinedStr(js) }

func (c *Constant) NodePos() Position      { return c.Pos }
func (*Constant) Kind() Kind               { return CONSTANT }
func (c *Constant) Accept(v Visitor) error { return v.VisitConstant(c) }

func (a *Attribute) NodePos() Position      { return a.Pos }
func (*Attribute) Kind() Kind               { return ATTRIBUTE }
func (a *Attribute) Accept(v Visitor) error { return v.VisitAttribute(a) }

func (s *Subscript) NodePos() Position      { return s.Pos }
func (*Subscript) Kind() Kind               { return SUBSCRIPT }
func (s *Subscript) Accept(v Visitor) error { return v.VisitSubscript(s) }

func (s *Starred) NodePos() Position      { return s.Pos }
func (*Starred) Kind() Kind               { return STARRED }
func (s *Starred) Accept(v Visitor) error { return v.VisitStarred(s) }

func (n *Name) NodePos() Position      { return n.Pos }
func (*Name) Kind() Kind               { return NAME }
func (n *Name) Accept(v Visitor) error { return v.VisitName(n) }

func (l *List) NodePos() Position      { return l.Pos }
func (*List) Kind() Kind               { return LIST }
func (l *List) Accept(v Visitor) error { return v.VisitList(l) }

func (t *Tuple) NodePos() Position      { return t.Pos }
func (*Tuple) Kind() Kind               { return TUPLE }
func (t *Tuple) Accept(v Visitor) error { return v.VisitTuple(t) }

func (s *Slice) NodePos() Position      { return s.Pos }
func (*Slice) Kind() Kind               { return SLICE }
func (s *Slice) Accept(v Visitor) error { return v.VisitSlice(s) }

func (a *Arguments) NodePos() Position      { return a.Pos }
func (*Arguments) Kind() Kind               { return ARGUMENTS }
func (a *Arguments) Accept(v Visitor) error { return v.VisitArguments(a) }

func (a *Arg) NodePos() Position      { return a.Pos }
func (*Arg) Kind() Kind               { return ARG }
func (a *Arg) Accept(v Visitor) error { return v.VisitArg(a) }

func (k *Keyword) NodePos() Position      { return k.Pos }
func (*Keyword) Kind() Kind               { return KEYWORD }
func (k *Keyword) Accept(v Visitor) error { return v.VisitKeyword(k) }

func (a *Alias) NodePos() Position      { return a.Pos }
func (*Alias) Kind() Kind               { return ALIAS }
func (a *Alias) Accept(v Visitor) error { return v.VisitAlias(a) }

func (wi *WithItem) NodePos() Position      { return wi.Pos }
func (*WithItem) Kind() Kind                { return WITH_ITEM }
func (wi *WithItem) Accept(v Visitor) error { return v.VisitWithItem(wi) }

func (eh *ExceptHandler) NodePos() Position      { return eh.Pos }
func (*ExceptHandler) Kind() Kind                { return EXCEPT_HANDLER }
func (eh *ExceptHandler) Accept(v Visitor) error { return v.VisitExceptHandler(eh) }

func (c *Comprehension) NodePos() Position      { return c.Pos }
func (*Comprehension) Kind() Kind               { return COMPREHENSION }
func (c *Comprehension) Accept(v Visitor) error { return v.VisitComprehension(c) }

func (*FunctionDef) isStmt() {}
func (*ClassDef) isStmt()    {}
func (*Return) isStmt()      {}
func (*Delete) isStmt()      {}
func (*Assign) isStmt()      {}
func (*AugAssign) isStmt()   {}
func (*AnnAssign) isStmt()   {}
func (*For) isStmt()         {}
func (*While) isStmt()       {}
func (*If) isStmt()          {}
func (*With) isStmt()        {}
func (*Raise) isStmt()       {}
func (*Try) isStmt()         {}
func (*Assert) isStmt()      {}
func (*Import) isStmt()      {}
func (*ImportFrom) isStmt()  {}
func (*Global) isStmt()      {}
func (*Nonlocal) isStmt()    {}
func (*ExprStmt) isStmt()    {}
func (*Pass) isStmt()        {}
func (*Break) isStmt()       {}
func (*Continue) isStmt()    {}

func (*BoolOp) isExpr()         {}
func (*NamedExpr) isExpr()      {}
func (*BinOp) isExpr()          {}
func (*UnaryOp) isExpr()        {}
func (*Lambda) isExpr()         {}
func (*IfExp) isExpr()          {}
func (*Dict) isExpr()           {}
func (*Set) isExpr()            {}
func (*ListComp) isExpr()       {}
func (*SetComp) isExpr()        {}
func (*DictComp) isExpr()       {}
func (*GeneratorExp) isExpr()   {}
func (*Await) isExpr()          {}
func (*Yield) isExpr()          {}
func (*YieldFrom) isExpr()      {}
func (*Compare) isExpr()        {}
func (*Call) isExpr()           {}
func (*FormattedValue) isExpr() {}
func (*JoinedStr) isExpr()      {}
func (*Constant) isExpr()       {}
func (*Attribute) isExpr()      {}
func (*Subscript) isExpr()      {}
func (*Starred) isExpr()        {}
func (*Name) isExpr()           {}
func (*List) isExpr()           {}
func (*Tuple) isExpr()          {}
func (*Slice) isExpr()          {}
