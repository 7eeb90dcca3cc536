package parser

import "roundtrip/internal/ast"

func (p *Parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr
	for p.matchOp("@") {
		decorators = append(decorators, p.parseNamedExprTest())
		p.consume(NEWLINE, "expected newline after decorator")
	}

	switch {
	case p.checkKeyword("def"):
		return p.parseFunctionDef(decorators, false)
	case p.checkKeyword("class"):
		return p.parseClassDef(decorators)
	case p.checkKeyword("async"):
		return p.parseAsync(decorators)
	default:
		p.errorAtCurrent("expected 'def' or 'class' after decorators")
		return nil
	}
}

func (p *Parser) parseFunctionDef(decorators []ast.Expr, async bool) ast.Stmt {
	startToken := p.consumeKeyword("def", "expected 'def' keyword")
	name := p.consumeName("expected function name")

	p.consumeOp("(", "expected '(' after function name")
	args := p.parseParameters(")", true)
	p.consumeOp(")", "expected ')' after parameter list")

	var returns ast.Expr
	if p.matchOp("->") {
		returns = p.parseTest()
	}

	return &ast.FunctionDef{
		Pos:        startToken.Position,
		Name:       name.Lexeme,
		Args:       args,
		Body:       p.parseBlock(),
		Decorators: decorators,
		Returns:    returns,
		Async:      async,
	}
}

func (p *Parser) parseClassDef(decorators []ast.Expr) ast.Stmt {
	startToken := p.consumeKeyword("class", "expected 'class' keyword")
	name := p.consumeName("expected class name")

	stmt := &ast.ClassDef{
		Pos:        startToken.Position,
		Name:       name.Lexeme,
		Decorators: decorators,
	}
	if p.matchOp("(") {
		stmt.Bases, stmt.Keywords = p.parseCallArguments()
		p.consumeOp(")", "expected ')' after class bases")
	}
	stmt.Body = p.parseBlock()
	return stmt
}

// parseParameters parses a def or lambda parameter list up to (but not
// including) the closing delimiter. Annotations are only allowed for def.
func (p *Parser) parseParameters(closing string, annotations bool) *ast.Arguments {
	args := &ast.Arguments{Pos: p.peek().Position}
	kwOnly := false
	seenDefault := false

	for !p.checkOp(closing) {
		switch {
		case p.matchOp("/"):
			if kwOnly || len(args.PosOnly) > 0 || len(args.Args) == 0 {
				p.errorAt(p.previous(), "misplaced '/' in parameter list")
			}
			args.PosOnly, args.Args = args.Args, nil

		case p.matchOp("**"):
			args.Kwarg = p.parseParameter(annotations)

		case p.matchOp("*"):
			if kwOnly {
				p.errorAt(p.previous(), "'*' may appear only once in a parameter list")
			}
			kwOnly = true
			if p.check(NAME) {
				args.Vararg = p.parseParameter(annotations)
			}

		default:
			param := p.parseParameter(annotations)
			var def ast.Expr
			if p.matchOp("=") {
				def = p.parseTest()
			}
			if kwOnly {
				args.KwOnly = append(args.KwOnly, param)
				args.KwDefaults = append(args.KwDefaults, def)
				break
			}
			if def != nil {
				args.Defaults = append(args.Defaults, def)
				seenDefault = true
			} else if seenDefault {
				p.errorAt(p.previous(), "parameter without a default follows parameter with a default")
			}
			args.Args = append(args.Args, param)
		}

		if !p.matchOp(",") {
			break
		}
	}
	return args
}

func (p *Parser) parseParameter(annotations bool) *ast.Arg {
	name := p.consumeName("expected parameter name")
	arg := &ast.Arg{Pos: name.Position, Name: name.Lexeme}
	if annotations && p.matchOp(":") {
		arg.Annotation = p.parseTest()
	}
	return arg
}

func (p *Parser) parseLambda() ast.Expr {
	startToken := p.consumeKeyword("lambda", "expected 'lambda'")
	args := p.parseParameters(":", false)
	p.consumeOp(":", "expected ':' after lambda parameters")
	return &ast.Lambda{
		Pos:  startToken.Position,
		Args: args,
		Body: p.parseTest(),
	}
}

// parseCallArguments parses positional and keyword arguments up to the
// closing ')', which is left for the caller.
func (p *Parser) parseCallArguments() ([]ast.Expr, []*ast.Keyword) {
	var args []ast.Expr
	var keywords []*ast.Keyword

	for !p.checkOp(")") {
		pos := p.peek().Position
		switch {
		case p.matchOp("**"):
			keywords = append(keywords, &ast.Keyword{Pos: pos, Value: p.parseTest()})

		case p.matchOp("*"):
			args = append(args, &ast.Starred{Pos: pos, Value: p.parseTest()})

		case p.check(NAME) && p.checkNext(OP, "="):
			name := p.advance()
			p.advance()
			keywords = append(keywords, &ast.Keyword{Pos: pos, Arg: name.Lexeme, Value: p.parseTest()})

		default:
			arg := p.parseNamedExprTest()
			if p.checkKeyword("for", "async") {
				arg = &ast.GeneratorExp{Pos: pos, Elt: arg, Generators: p.parseComprehensions()}
			}
			args = append(args, arg)
		}

		if !p.matchOp(",") {
			break
		}
	}
	return args, keywords
}
