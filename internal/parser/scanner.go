package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"roundtrip/grammar"
)

// Scanner turns the raw token stream of grammar.PythonLexer into logical
// lines: comments and blank lines vanish, newlines inside brackets are
// joined, and indentation changes become INDENT/DEDENT tokens.
type Scanner struct {
	filename string
	source   string
	tokens   []Token
	indents  []int
	depth    int
	errors   []ScanError
}

type ScanError struct {
	Message  string
	Position Position // line, column, offset
	Length   int      // optional: how many characters it covers
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

func NewScanner(filename, source string) *Scanner {
	return &Scanner{
		filename: filename,
		source:   source,
		indents:  []int{0},
	}
}

func (s *Scanner) Errors() []ScanError {
	return s.errors
}

func (s *Scanner) ScanTokens() []Token {
	raw, err := grammar.Tokenize(s.filename, s.source)
	if err != nil {
		s.reportLexError(err)
		return []Token{{Type: EOF}}
	}

	atLineStart := true
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		pos := convertPos(tok.Pos)

		switch tok.Type {
		case grammar.EOFToken:
			s.finish(pos)
			return s.tokens

		case grammar.CommentToken, grammar.ContinuationToken:
			continue

		case grammar.WhitespaceToken:
			if !atLineStart || s.depth > 0 {
				continue
			}
			next := raw[i+1].Type
			if next == grammar.NewlineToken || next == grammar.CommentToken || next == grammar.EOFToken {
				continue // blank line
			}
			s.indentTo(indentWidth(tok.Value), pos)
			atLineStart = false

		case grammar.NewlineToken:
			if s.depth > 0 || atLineStart {
				continue
			}
			s.addToken(NEWLINE, "", pos)
			atLineStart = true

		default:
			if atLineStart && s.depth == 0 {
				s.indentTo(0, pos)
			}
			atLineStart = false
			s.addRaw(tok, pos)
		}
	}

	s.finish(Position{})
	return s.tokens
}

func (s *Scanner) addRaw(tok lexer.Token, pos Position) {
	switch tok.Type {
	case grammar.NameToken:
		if KEYWORDS[tok.Value] {
			s.addToken(KEYWORD, tok.Value, pos)
		} else {
			s.addToken(NAME, tok.Value, pos)
		}
	case grammar.NumberToken:
		s.addToken(NUMBER, tok.Value, pos)
	case grammar.StringToken:
		s.addToken(STRING, tok.Value, pos)
	case grammar.OperatorToken:
		switch tok.Value {
		case "(", "[", "{":
			s.depth++
		case ")", "]", "}":
			if s.depth > 0 {
				s.depth--
			}
		}
		s.addToken(OP, tok.Value, pos)
	default:
		s.reportError(fmt.Sprintf("unexpected token %q", tok.Value), pos, len(tok.Value))
	}
}

func (s *Scanner) indentTo(width int, pos Position) {
	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.addToken(INDENT, "", pos)
	case width < top:
		for width < s.indents[len(s.indents)-1] {
			s.indents = s.indents[:len(s.indents)-1]
			s.addToken(DEDENT, "", pos)
		}
		if width != s.indents[len(s.indents)-1] {
			s.reportError("unindent does not match any outer indentation level", pos, 1)
		}
	}
}

func (s *Scanner) finish(pos Position) {
	if len(s.tokens) > 0 && s.tokens[len(s.tokens)-1].Type != NEWLINE {
		s.addToken(NEWLINE, "", pos)
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.addToken(DEDENT, "", pos)
	}
	s.addToken(EOF, "", pos)
}

func (s *Scanner) addToken(tokenType TokenType, lexeme string, pos Position) {
	s.tokens = append(s.tokens, Token{Type: tokenType, Lexeme: lexeme, Position: pos})
}

func (s *Scanner) reportError(message string, pos Position, length int) {
	s.errors = append(s.errors, ScanError{Message: message, Position: pos, Length: length})
}

func (s *Scanner) reportLexError(err error) {
	if pos, message, ok := grammar.LocateError(err); ok {
		s.reportError(message, convertPos(pos), 1)
		return
	}
	s.reportError(err.Error(), Position{Line: 1, Column: 1}, 1)
}

// indentWidth measures leading whitespace with tab stops every 8 columns; a
// form feed resets the count.
func indentWidth(ws string) int {
	width := 0
	for _, c := range ws {
		switch c {
		case '\t':
			width = (width/8 + 1) * 8
		case '\f':
			width = 0
		default:
			width++
		}
	}
	return width
}

func convertPos(p lexer.Position) Position {
	return Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}
