package parser

import (
	"fmt"

	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

type Parser struct {
	filename string
	tokens   []Token
	current  int
	errors   []ParseError

	// parenthesized records expressions that were wrapped in parentheses in
	// the source. AnnAssign needs it to compute Simple.
	parenthesized map[ast.Expr]bool
}

type ParseError = errors.ParseError

// bailout unwinds the parser on the first syntax error.
type bailout struct{}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{
		filename:      filename,
		tokens:        tokens,
		parenthesized: make(map[ast.Expr]bool),
	}
}

// ParseSource parses a whole module. The returned error is a *ParseError
// locating the first scan or syntax error.
func ParseSource(filename string, source string) (*ast.Module, error) {
	scanner := NewScanner(filename, source)
	tokens := scanner.ScanTokens()
	if errs := scanner.Errors(); len(errs) > 0 {
		return nil, &ParseError{Filename: filename, Message: errs[0].Message, Position: errs[0].Position}
	}

	p := NewParser(filename, tokens)
	module := p.ParseModule()
	if len(p.errors) > 0 {
		return nil, &p.errors[0]
	}
	return module, nil
}

// ParseExpression parses a single expression, such as the contents of an
// f-string replacement field.
func ParseExpression(filename string, source string) (ast.Expr, error) {
	scanner := NewScanner(filename, "("+source+")")
	tokens := scanner.ScanTokens()
	if errs := scanner.Errors(); len(errs) > 0 {
		return nil, &ParseError{Filename: filename, Message: errs[0].Message, Position: errs[0].Position}
	}

	p := NewParser(filename, tokens)
	var expr ast.Expr
	p.guard(func() {
		expr = p.parseTestListStarExpr()
		p.consume(NEWLINE, "expected end of expression")
		p.consume(EOF, "expected end of expression")
	})
	if len(p.errors) > 0 {
		return nil, &p.errors[0]
	}
	return expr, nil
}

func (p *Parser) ParseModule() *ast.Module {
	module := &ast.Module{Pos: Position{Line: 1, Column: 1}}
	p.guard(func() {
		for !p.isAtEnd() {
			if p.match(NEWLINE) {
				continue
			}
			module.Body = append(module.Body, p.parseStatement()...)
		}
	})
	return module
}

// guard runs fn and converts a bailout into a recorded error.
func (p *Parser) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
	}()
	fn()
}

// try runs fn speculatively. On a syntax error the token position and error
// list are restored and false is returned.
func (p *Parser) try(fn func()) (ok bool) {
	saved := p.current
	savedErrors := len(p.errors)
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.current = saved
			p.errors = p.errors[:savedErrors]
			ok = false
		}
	}()
	fn()
	return true
}

func (p *Parser) errorAt(tok Token, message string) {
	p.errors = append(p.errors, ParseError{
		Filename: p.filename,
		Message:  message,
		Position: tok.Position,
	})
	panic(bailout{})
}

func (p *Parser) errorAtCurrent(message string) {
	tok := p.peek()
	p.errorAt(tok, fmt.Sprintf("%s, found %s", message, tok.describe()))
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) checkOp(symbols ...string) bool {
	tok := p.peek()
	if tok.Type != OP {
		return false
	}
	for _, s := range symbols {
		if tok.Lexeme == s {
			return true
		}
	}
	return false
}

func (p *Parser) checkKeyword(words ...string) bool {
	tok := p.peek()
	if tok.Type != KEYWORD {
		return false
	}
	for _, w := range words {
		if tok.Lexeme == w {
			return true
		}
	}
	return false
}

func (p *Parser) checkNext(tt TokenType, lexeme string) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	next := p.tokens[p.current+1]
	return next.Type == tt && next.Lexeme == lexeme
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) matchOp(symbols ...string) bool {
	if p.checkOp(symbols...) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(words ...string) bool {
	if p.checkKeyword(words...) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(tt TokenType, message string) Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	return Token{}
}

func (p *Parser) consumeOp(symbol string, message string) Token {
	if p.checkOp(symbol) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	return Token{}
}

func (p *Parser) consumeKeyword(word string, message string) Token {
	if p.checkKeyword(word) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	return Token{}
}

func (p *Parser) consumeName(message string) Token {
	return p.consume(NAME, message)
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}
