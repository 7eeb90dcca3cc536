package parser

import "roundtrip/internal/ast"

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Layout
	NEWLINE
	INDENT
	DEDENT

	// Identifiers + literals
	NAME
	NUMBER
	STRING
	KEYWORD

	// Operators and delimiters; Lexeme holds the symbol
	OP
)

var tokenTypeNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "end of file",
	NEWLINE: "newline",
	INDENT:  "indent",
	DEDENT:  "dedent",
	NAME:    "name",
	NUMBER:  "number",
	STRING:  "string",
	KEYWORD: "keyword",
	OP:      "operator",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenTypeNames) {
		return "TokenType(?)"
	}
	return tokenTypeNames[t]
}

type Token struct {
	Type     TokenType
	Lexeme   string
	Position Position
}

func (t Token) describe() string {
	switch t.Type {
	case NAME, NUMBER, STRING, KEYWORD, OP:
		return "'" + t.Lexeme + "'"
	default:
		return t.Type.String()
	}
}

type Position = ast.Position
