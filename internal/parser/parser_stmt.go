package parser

import (
	"strings"

	"roundtrip/internal/ast"
)

var augAssignOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "@=": "@", "/=": "/", "%=": "%",
	"&=": "&", "|=": "|", "^=": "^", "<<=": "<<", ">>=": ">>", "**=": "**", "//=": "//",
}

// parseStatement returns one compound statement or every simple statement
// of a ';'-separated line.
func (p *Parser) parseStatement() []ast.Stmt {
	tok := p.peek()
	if tok.Type == OP && tok.Lexeme == "@" {
		return []ast.Stmt{p.parseDecorated()}
	}
	if tok.Type == KEYWORD {
		switch tok.Lexeme {
		case "if":
			return []ast.Stmt{p.parseIf()}
		case "while":
			return []ast.Stmt{p.parseWhile()}
		case "for":
			return []ast.Stmt{p.parseFor(false)}
		case "try":
			return []ast.Stmt{p.parseTry()}
		case "with":
			return []ast.Stmt{p.parseWith(false)}
		case "def":
			return []ast.Stmt{p.parseFunctionDef(nil, false)}
		case "class":
			return []ast.Stmt{p.parseClassDef(nil)}
		case "async":
			return []ast.Stmt{p.parseAsync(nil)}
		}
	}
	return p.parseSimpleStatements()
}

func (p *Parser) parseSimpleStatements() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		stmts = append(stmts, p.parseSmallStatement())
		if !p.matchOp(";") {
			break
		}
		if p.check(NEWLINE) {
			break
		}
	}
	p.consume(NEWLINE, "expected newline after statement")
	return stmts
}

// parseBlock parses the suite after a ':': either an indented block or
// simple statements on the same line.
func (p *Parser) parseBlock() []ast.Stmt {
	p.consumeOp(":", "expected ':'")
	if !p.match(NEWLINE) {
		return p.parseSimpleStatements()
	}

	p.consume(INDENT, "expected an indented block")
	var body []ast.Stmt
	for !p.check(DEDENT) && !p.isAtEnd() {
		if p.match(NEWLINE) {
			continue
		}
		body = append(body, p.parseStatement()...)
	}
	p.consume(DEDENT, "expected dedent after block")
	return body
}

func (p *Parser) parseSmallStatement() ast.Stmt {
	tok := p.peek()
	pos := tok.Position

	if tok.Type == KEYWORD {
		switch tok.Lexeme {
		case "pass":
			p.advance()
			return &ast.Pass{Pos: pos}
		case "break":
			p.advance()
			return &ast.Break{Pos: pos}
		case "continue":
			p.advance()
			return &ast.Continue{Pos: pos}
		case "return":
			p.advance()
			stmt := &ast.Return{Pos: pos}
			if !p.atStatementEnd() {
				stmt.Value = p.parseTestListStarExpr()
			}
			return stmt
		case "raise":
			return p.parseRaise()
		case "global", "nonlocal":
			return p.parseGlobal()
		case "del":
			p.advance()
			return &ast.Delete{Pos: pos, Targets: p.parseTargetList()}
		case "assert":
			p.advance()
			stmt := &ast.Assert{Pos: pos, Test: p.parseTest()}
			if p.matchOp(",") {
				stmt.Msg = p.parseTest()
			}
			return stmt
		case "import":
			return p.parseImport()
		case "from":
			return p.parseImportFrom()
		}
	}

	return p.parseExprStatement()
}

func (p *Parser) atStatementEnd() bool {
	return p.check(NEWLINE) || p.checkOp(";") || p.isAtEnd()
}

func (p *Parser) parseRaise() ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.Raise{Pos: pos}
	if p.atStatementEnd() {
		return stmt
	}
	stmt.Exc = p.parseTest()
	if p.matchKeyword("from") {
		stmt.Cause = p.parseTest()
	}
	return stmt
}

func (p *Parser) parseGlobal() ast.Stmt {
	kw := p.advance()
	var names []string
	for {
		names = append(names, p.consumeName("expected name").Lexeme)
		if !p.matchOp(",") {
			break
		}
	}
	if kw.Lexeme == "global" {
		return &ast.Global{Pos: kw.Position, Names: names}
	}
	return &ast.Nonlocal{Pos: kw.Position, Names: names}
}

// parseTargetList parses the targets of del: expr (',' expr)* [','].
func (p *Parser) parseTargetList() []ast.Expr {
	var targets []ast.Expr
	for {
		targets = append(targets, p.parseStarOrExpr())
		if !p.matchOp(",") || p.atStatementEnd() {
			break
		}
	}
	return targets
}

func (p *Parser) parseDottedName() string {
	var parts []string
	parts = append(parts, p.consumeName("expected module name").Lexeme)
	for p.matchOp(".") {
		parts = append(parts, p.consumeName("expected name after '.'").Lexeme)
	}
	return strings.Join(parts, ".")
}

func (p *Parser) parseImport() ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.Import{Pos: pos}
	for {
		aliasPos := p.peek().Position
		alias := &ast.Alias{Pos: aliasPos, Name: p.parseDottedName()}
		if p.matchKeyword("as") {
			alias.AsName = p.consumeName("expected name after 'as'").Lexeme
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.matchOp(",") {
			break
		}
	}
	return stmt
}

func (p *Parser) parseImportFrom() ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.ImportFrom{Pos: pos}

	for p.checkOp(".", "...") {
		stmt.Level += len(p.advance().Lexeme)
	}
	if !p.checkKeyword("import") {
		stmt.Module = p.parseDottedName()
	}
	p.consumeKeyword("import", "expected 'import'")

	if p.checkOp("*") {
		tok := p.advance()
		stmt.Names = []*ast.Alias{{Pos: tok.Position, Name: "*"}}
		return stmt
	}

	parens := p.matchOp("(")
	for {
		nameTok := p.consumeName("expected name to import")
		alias := &ast.Alias{Pos: nameTok.Position, Name: nameTok.Lexeme}
		if p.matchKeyword("as") {
			alias.AsName = p.consumeName("expected name after 'as'").Lexeme
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.matchOp(",") {
			break
		}
		if parens && p.checkOp(")") {
			break
		}
	}
	if parens {
		p.consumeOp(")", "expected ')' after imported names")
	}
	return stmt
}

func (p *Parser) parseExprStatement() ast.Stmt {
	pos := p.peek().Position

	var first ast.Expr
	if p.checkKeyword("yield") {
		first = p.parseYield()
	} else {
		first = p.parseTestListStarExpr()
	}

	if p.matchOp(":") {
		stmt := &ast.AnnAssign{
			Pos:        pos,
			Target:     first,
			Annotation: p.parseTest(),
			Simple:     isName(first) && !p.parenthesized[first],
		}
		if p.matchOp("=") {
			stmt.Value = p.parseAssignValue()
		}
		return stmt
	}

	if tok := p.peek(); tok.Type == OP {
		if op, ok := augAssignOps[tok.Lexeme]; ok {
			p.advance()
			return &ast.AugAssign{Pos: pos, Target: first, Op: op, Value: p.parseAssignValue()}
		}
	}

	if p.checkOp("=") {
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.matchOp("=") {
			value = p.parseAssignValue()
			if p.checkOp("=") {
				targets = append(targets, value)
			}
		}
		return &ast.Assign{Pos: pos, Targets: targets, Value: value}
	}

	return &ast.ExprStmt{Pos: pos, Value: first}
}

func (p *Parser) parseAssignValue() ast.Expr {
	if p.checkKeyword("yield") {
		return p.parseYield()
	}
	return p.parseTestListStarExpr()
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.If{Pos: pos, Test: p.parseNamedExprTest()}
	stmt.Body = p.parseBlock()

	if p.checkKeyword("elif") {
		stmt.Orelse = []ast.Stmt{p.parseIf()}
	} else if p.matchKeyword("else") {
		stmt.Orelse = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.While{Pos: pos, Test: p.parseNamedExprTest()}
	stmt.Body = p.parseBlock()
	if p.matchKeyword("else") {
		stmt.Orelse = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseFor(async bool) ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.For{Pos: pos, Async: async}
	stmt.Target = p.parseTargetExpr()
	p.consumeKeyword("in", "expected 'in' after for-loop target")
	stmt.Iter = p.parseTestListStarExpr()
	stmt.Body = p.parseBlock()
	if p.matchKeyword("else") {
		stmt.Orelse = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseTry() ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.Try{Pos: pos}
	stmt.Body = p.parseBlock()

	for p.checkKeyword("except") {
		handler := &ast.ExceptHandler{Pos: p.advance().Position}
		if p.checkOp("*") {
			p.errorAtCurrent("except* is not supported")
		}
		if !p.checkOp(":") {
			handler.Type = p.parseTest()
			if p.matchOp(",") {
				// except A, B: is Python 2 syntax
				p.errorAt(p.previous(), "multiple exception types must be parenthesized")
			}
			if p.matchKeyword("as") {
				handler.Name = p.consumeName("expected name after 'as'").Lexeme
			}
		}
		handler.Body = p.parseBlock()
		stmt.Handlers = append(stmt.Handlers, handler)
	}

	if len(stmt.Handlers) > 0 && p.matchKeyword("else") {
		stmt.Orelse = p.parseBlock()
	}
	if p.matchKeyword("finally") {
		stmt.Finalbody = p.parseBlock()
	}
	if len(stmt.Handlers) == 0 && stmt.Finalbody == nil {
		p.errorAtCurrent("expected 'except' or 'finally' block")
	}
	return stmt
}

func (p *Parser) parseWith(async bool) ast.Stmt {
	pos := p.advance().Position
	stmt := &ast.With{Pos: pos, Async: async}

	// Parenthesized items: with (a as b, c as d):
	if p.checkOp("(") {
		var items []*ast.WithItem
		if p.try(func() {
			p.advance()
			for !p.checkOp(")") {
				items = append(items, p.parseWithItem())
				if !p.matchOp(",") {
					break
				}
			}
			p.consumeOp(")", "expected ')'")
			if !p.checkOp(":") {
				p.errorAtCurrent("expected ':'")
			}
		}) {
			stmt.Items = items
			stmt.Body = p.parseBlock()
			return stmt
		}
	}

	for {
		stmt.Items = append(stmt.Items, p.parseWithItem())
		if !p.matchOp(",") {
			break
		}
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseWithItem() *ast.WithItem {
	item := &ast.WithItem{Pos: p.peek().Position, Context: p.parseTest()}
	if p.matchKeyword("as") {
		item.Vars = p.parseStarOrExpr()
	}
	return item
}

func (p *Parser) parseAsync(decorators []ast.Expr) ast.Stmt {
	p.advance()
	switch {
	case p.checkKeyword("def"):
		return p.parseFunctionDef(decorators, true)
	case decorators != nil:
		p.errorAtCurrent("expected 'def' after decorators")
	case p.checkKeyword("for"):
		return p.parseFor(true)
	case p.checkKeyword("with"):
		return p.parseWith(true)
	default:
		p.errorAtCurrent("expected 'def', 'for' or 'with' after 'async'")
	}
	return nil
}

func isName(e ast.Expr) bool {
	_, ok := e.(*ast.Name)
	return ok
}
