package ast

// Visitor has one method per node kind. Adding a kind without extending every
// Visitor implementation is a compile error.
type Visitor interface {
	VisitModule(n *Module) error
	VisitFunctionDef(n *FunctionDef) error
	VisitClassDef(n *ClassDef) error
	VisitReturn(n *Return) error
	VisitDelete(n *Delete) error
	VisitAssign(n *Assign) error
	VisitAugAssign(n *AugAssign) error
	VisitAnnAssign(n *AnnAssign) error
	VisitFor(n *For) error
	VisitWhile(n *While) error
	VisitIf(n *If) error
	VisitWith(n *With) error
	VisitRaise(n *Raise) error
	VisitTry(n *Try) error
	VisitAssert(n *Assert) error
	VisitImport(n *Import) error
	VisitImportFrom(n *ImportFrom) error
	VisitGlobal(n *Global) error
	VisitNonlocal(n *Nonlocal) error
	VisitExprStmt(n *ExprStmt) error
	VisitPass(n *Pass) error
	VisitBreak(n *Break) error
	VisitContinue(n *Continue) error
	VisitBoolOp(n *BoolOp) error
	VisitNamedExpr(n *NamedExpr) error
	VisitBinOp(n *BinOp) error
	VisitUnaryOp(n *UnaryOp) error
	VisitLambda(n *Lambda) error
	VisitIfExp(n *IfExp) error
	VisitDict(n *Dict) error
	VisitSet(n *Set) error
	VisitListComp(n *ListComp) error
	VisitSetComp(n *SetComp) error
	VisitDictComp(n *DictComp) error
	VisitGeneratorExp(n *GeneratorExp) error
	VisitAwait(n *Await) error
	VisitYield(n *Yield) error
	VisitYieldFrom(n *YieldFrom) error
	VisitCompare(n *Compare) error
	VisitCall(n *Call) error
	VisitFormattedValue(n *FormattedValue) error
	VisitJoinedStr(n *JoinedStr) error
	VisitConstant(n *Constant) error
	VisitAttribute(n *Attribute) error
	VisitSubscript(n *Subscript) error
	VisitStarred(n *Starred) error
	VisitName(n *Name) error
	VisitList(n *List) error
	VisitTuple(n *Tuple) error
	VisitSlice(n *Slice) error
	VisitArguments(n *Arguments) error
	VisitArg(n *Arg) error
	VisitKeyword(n *Keyword) error
	VisitAlias(n *Alias) error
	VisitWithItem(n *WithItem) error
	VisitExceptHandler(n *ExceptHandler) error
	VisitComprehension(n *Comprehension) error
}
