package parser

import (
	"roundtrip/internal/ast"
)

// binaryPrecedence covers the bitwise and arithmetic operators between
// comparisons and unary operators. Higher binds tighter.
var binaryPrecedence = map[string]int{
	"|":  1,
	"^":  2,
	"&":  3,
	"<<": 4, ">>": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "//": 6, "%": 6, "@": 6,
}

// parseTestListStarExpr parses a comma-separated list of expressions or
// starred expressions, producing a Tuple when a comma is present.
func (p *Parser) parseTestListStarExpr() ast.Expr {
	pos := p.peek().Position
	first := p.parseStarOrNamedExpr()
	if !p.checkOp(",") {
		return first
	}

	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.atExpressionEnd() {
			break
		}
		elts = append(elts, p.parseStarOrNamedExpr())
	}
	return &ast.Tuple{Pos: pos, Elts: elts}
}

// parseTargetExpr parses for-loop and comprehension targets, which stop
// before comparisons so that 'in' is left alone.
func (p *Parser) parseTargetExpr() ast.Expr {
	pos := p.peek().Position
	first := p.parseStarOrExpr()
	if !p.checkOp(",") {
		return first
	}

	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.checkKeyword("in") || p.atExpressionEnd() {
			break
		}
		elts = append(elts, p.parseStarOrExpr())
	}
	return &ast.Tuple{Pos: pos, Elts: elts}
}

func (p *Parser) atExpressionEnd() bool {
	if p.check(NEWLINE) || p.isAtEnd() {
		return true
	}
	return p.checkOp(")", "]", "}", "=", ":", ";") || p.checkAugAssign()
}

func (p *Parser) checkAugAssign() bool {
	tok := p.peek()
	if tok.Type != OP {
		return false
	}
	_, ok := augAssignOps[tok.Lexeme]
	return ok
}

func (p *Parser) parseStarOrNamedExpr() ast.Expr {
	if p.checkOp("*") {
		pos := p.advance().Position
		return &ast.Starred{Pos: pos, Value: p.parseBitOr()}
	}
	return p.parseNamedExprTest()
}

func (p *Parser) parseStarOrExpr() ast.Expr {
	if p.checkOp("*") {
		pos := p.advance().Position
		return &ast.Starred{Pos: pos, Value: p.parseBitOr()}
	}
	return p.parseBitOr()
}

func (p *Parser) parseNamedExprTest() ast.Expr {
	if p.check(NAME) && p.checkNext(OP, ":=") {
		name := p.advance()
		p.advance()
		return &ast.NamedExpr{
			Pos:    name.Position,
			Target: &ast.Name{Pos: name.Position, Id: name.Lexeme},
			Value:  p.parseTest(),
		}
	}
	return p.parseTest()
}

// parseTest parses a conditional expression or lambda.
func (p *Parser) parseTest() ast.Expr {
	if p.checkKeyword("lambda") {
		return p.parseLambda()
	}

	pos := p.peek().Position
	body := p.parseOrTest()
	if !p.checkKeyword("if") {
		return body
	}

	// 'if' without 'else' belongs to an enclosing comprehension.
	saved := p.current
	p.advance()
	test := p.parseOrTest()
	if !p.matchKeyword("else") {
		p.current = saved
		return body
	}
	return &ast.IfExp{Pos: pos, Test: test, Body: body, Orelse: p.parseTest()}
}

func (p *Parser) parseOrTest() ast.Expr {
	return p.parseBoolOp("or", p.parseAndTest)
}

func (p *Parser) parseAndTest() ast.Expr {
	return p.parseBoolOp("and", p.parseNotTest)
}

func (p *Parser) parseBoolOp(op string, operand func() ast.Expr) ast.Expr {
	pos := p.peek().Position
	first := operand()
	if !p.checkKeyword(op) {
		return first
	}
	values := []ast.Expr{first}
	for p.matchKeyword(op) {
		values = append(values, operand())
	}
	return &ast.BoolOp{Pos: pos, Op: op, Values: values}
}

func (p *Parser) parseNotTest() ast.Expr {
	if p.checkKeyword("not") {
		pos := p.advance().Position
		return &ast.UnaryOp{Pos: pos, Op: "not", Operand: p.parseNotTest()}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	pos := p.peek().Position
	left := p.parseBitOr()

	var ops []string
	var comparators []ast.Expr
	for {
		op, ok := p.matchComparisonOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseBitOr())
	}
	if len(ops) == 0 {
		return left
	}
	return &ast.Compare{Pos: pos, Left: left, Ops: ops, Comparators: comparators}
}

func (p *Parser) matchComparisonOp() (string, bool) {
	tok := p.peek()
	switch {
	case tok.Type == OP:
		switch tok.Lexeme {
		case "<", ">", "==", ">=", "<=", "!=":
			p.advance()
			return tok.Lexeme, true
		}
	case tok.Type == KEYWORD && tok.Lexeme == "in":
		p.advance()
		return "in", true
	case tok.Type == KEYWORD && tok.Lexeme == "not" && p.checkNext(KEYWORD, "in"):
		p.advance()
		p.advance()
		return "not in", true
	case tok.Type == KEYWORD && tok.Lexeme == "is":
		p.advance()
		if p.matchKeyword("not") {
			return "is not", true
		}
		return "is", true
	}
	return "", false
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.parsePrattExpr(1)
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	expr := p.parseFactor()

	for {
		tok := p.peek()
		if tok.Type != OP {
			break
		}
		prec, ok := binaryPrecedence[tok.Lexeme]
		if !ok || prec < minPrec {
			break
		}

		p.advance()
		right := p.parsePrattExpr(prec + 1)

		expr = &ast.BinOp{
			Pos:   expr.NodePos(),
			Left:  expr,
			Op:    tok.Lexeme,
			Right: right,
		}
	}

	return expr
}

func (p *Parser) parseFactor() ast.Expr {
	if p.checkOp("-", "+", "~") {
		op := p.advance()
		return &ast.UnaryOp{Pos: op.Position, Op: op.Lexeme, Operand: p.parseFactor()}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() ast.Expr {
	pos := p.peek().Position
	var base ast.Expr
	if p.matchKeyword("await") {
		base = &ast.Await{Pos: pos, Value: p.parsePostfixExpr(p.parseAtom())}
	} else {
		base = p.parsePostfixExpr(p.parseAtom())
	}

	if p.matchOp("**") {
		return &ast.BinOp{Pos: pos, Left: base, Op: "**", Right: p.parseFactor()}
	}
	return base
}

func (p *Parser) parsePostfixExpr(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.matchOp("."):
			field := p.consumeName("expected attribute name after '.'")
			expr = &ast.Attribute{Pos: expr.NodePos(), Value: expr, Attr: field.Lexeme}

		case p.matchOp("("):
			args, keywords := p.parseCallArguments()
			p.consumeOp(")", "expected ')' after arguments")
			expr = &ast.Call{Pos: expr.NodePos(), Func: expr, Args: args, Keywords: keywords}

		case p.matchOp("["):
			slice := p.parseSubscriptList()
			p.consumeOp("]", "expected ']' after subscript")
			expr = &ast.Subscript{Pos: expr.NodePos(), Value: expr, Slice: slice}

		default:
			return expr
		}
	}
}

func (p *Parser) parseSubscriptList() ast.Expr {
	pos := p.peek().Position
	first := p.parseSubscript()
	if !p.checkOp(",") {
		return first
	}
	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.checkOp("]") {
			break
		}
		elts = append(elts, p.parseSubscript())
	}
	return &ast.Tuple{Pos: pos, Elts: elts}
}

func (p *Parser) parseSubscript() ast.Expr {
	pos := p.peek().Position
	if p.checkOp("*") {
		return p.parseStarOrExpr()
	}

	var lower ast.Expr
	if !p.checkOp(":") {
		lower = p.parseNamedExprTest()
		if !p.checkOp(":") {
			return lower
		}
	}

	slice := &ast.Slice{Pos: pos, Lower: lower}
	p.consumeOp(":", "expected ':' in slice")
	if !p.checkOp(":", ",", "]") {
		slice.Upper = p.parseTest()
	}
	if p.matchOp(":") && !p.checkOp(",", "]") {
		slice.Step = p.parseTest()
	}
	return slice
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.peek()

	switch tok.Type {
	case NAME:
		p.advance()
		return &ast.Name{Pos: tok.Position, Id: tok.Lexeme}

	case NUMBER:
		p.advance()
		return p.parseNumber(tok)

	case STRING:
		return p.parseStrings()

	case KEYWORD:
		switch tok.Lexeme {
		case "None":
			p.advance()
			return &ast.Constant{Pos: tok.Position, Value: nil}
		case "True", "False":
			p.advance()
			return &ast.Constant{Pos: tok.Position, Value: tok.Lexeme == "True"}
		}

	case OP:
		switch tok.Lexeme {
		case "(":
			return p.parseParenAtom()
		case "[":
			return p.parseListAtom()
		case "{":
			return p.parseBraceAtom()
		case "...":
			p.advance()
			return &ast.Constant{Pos: tok.Position, Value: ast.Ellipsis}
		}
	}

	p.errorAtCurrent("expected expression")
	return nil
}

func (p *Parser) parseParenAtom() ast.Expr {
	l := p.advance()

	if p.matchOp(")") {
		return &ast.Tuple{Pos: l.Position}
	}

	if p.checkKeyword("yield") {
		expr := p.parseYield()
		p.consumeOp(")", "expected ')'")
		return expr
	}

	first := p.parseStarOrNamedExpr()

	if p.checkKeyword("for", "async") {
		gen := &ast.GeneratorExp{Pos: l.Position, Elt: first, Generators: p.parseComprehensions()}
		p.consumeOp(")", "expected ')' after generator expression")
		return gen
	}

	if p.matchOp(",") {
		elts := []ast.Expr{first}
		for !p.checkOp(")") {
			elts = append(elts, p.parseStarOrNamedExpr())
			if !p.matchOp(",") {
				break
			}
		}
		p.consumeOp(")", "expected ')' after tuple elements")
		return &ast.Tuple{Pos: l.Position, Elts: elts}
	}

	p.consumeOp(")", "expected ')'")
	p.parenthesized[first] = true
	return first
}

func (p *Parser) parseListAtom() ast.Expr {
	l := p.advance()
	if p.matchOp("]") {
		return &ast.List{Pos: l.Position}
	}

	first := p.parseStarOrNamedExpr()
	if p.checkKeyword("for", "async") {
		comp := &ast.ListComp{Pos: l.Position, Elt: first, Generators: p.parseComprehensions()}
		p.consumeOp("]", "expected ']' after list comprehension")
		return comp
	}

	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.checkOp("]") {
			break
		}
		elts = append(elts, p.parseStarOrNamedExpr())
	}
	p.consumeOp("]", "expected ']' after list elements")
	return &ast.List{Pos: l.Position, Elts: elts}
}

func (p *Parser) parseBraceAtom() ast.Expr {
	l := p.advance()
	if p.matchOp("}") {
		return &ast.Dict{Pos: l.Position}
	}

	// Dict display starting with a ** unpack.
	if p.matchOp("**") {
		return p.parseDictRest(l.Position, nil, p.parseBitOr())
	}

	first := p.parseStarOrNamedExpr()
	if p.matchOp(":") {
		value := p.parseTest()
		if p.checkKeyword("for", "async") {
			comp := &ast.DictComp{Pos: l.Position, Key: first, Value: value, Generators: p.parseComprehensions()}
			p.consumeOp("}", "expected '}' after dict comprehension")
			return comp
		}
		return p.parseDictRest(l.Position, first, value)
	}

	if p.checkKeyword("for", "async") {
		comp := &ast.SetComp{Pos: l.Position, Elt: first, Generators: p.parseComprehensions()}
		p.consumeOp("}", "expected '}' after set comprehension")
		return comp
	}

	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.checkOp("}") {
			break
		}
		elts = append(elts, p.parseStarOrNamedExpr())
	}
	p.consumeOp("}", "expected '}' after set elements")
	return &ast.Set{Pos: l.Position, Elts: elts}
}

// parseDictRest continues a dict display after its first entry. A nil key
// is a ** unpack.
func (p *Parser) parseDictRest(pos Position, key, value ast.Expr) ast.Expr {
	dict := &ast.Dict{Pos: pos, Keys: []ast.Expr{key}, Values: []ast.Expr{value}}
	for p.matchOp(",") {
		if p.checkOp("}") {
			break
		}
		if p.matchOp("**") {
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.parseBitOr())
			continue
		}
		k := p.parseTest()
		p.consumeOp(":", "expected ':' in dict entry")
		dict.Keys = append(dict.Keys, k)
		dict.Values = append(dict.Values, p.parseTest())
	}
	p.consumeOp("}", "expected '}' after dict entries")
	return dict
}

func (p *Parser) parseComprehensions() []*ast.Comprehension {
	var generators []*ast.Comprehension
	for p.checkKeyword("for", "async") {
		pos := p.peek().Position
		async := p.matchKeyword("async")
		p.consumeKeyword("for", "expected 'for' in comprehension")

		comp := &ast.Comprehension{Pos: pos, Async: async}
		comp.Target = p.parseTargetExpr()
		p.consumeKeyword("in", "expected 'in' in comprehension")
		comp.Iter = p.parseOrTest()
		for p.matchKeyword("if") {
			comp.Ifs = append(comp.Ifs, p.parseOrTest())
		}
		generators = append(generators, comp)
	}
	return generators
}

func (p *Parser) parseYield() ast.Expr {
	pos := p.consumeKeyword("yield", "expected 'yield'").Position
	if p.matchKeyword("from") {
		return &ast.YieldFrom{Pos: pos, Value: p.parseTest()}
	}
	if p.atExpressionEnd() {
		return &ast.Yield{Pos: pos}
	}
	return &ast.Yield{Pos: pos, Value: p.parseTestListStarExpr()}
}
