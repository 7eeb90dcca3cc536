package lsp

import (
	"strings"

	"roundtrip/internal/builtins"
	"roundtrip/internal/parser"
)

// SemanticTokenTypes is the token type legend; indexes into it are sent on
// the wire.
var SemanticTokenTypes = []string{
	"type",
	"function",
	"variable",
	"property",
	"keyword",
	"number",
	"string",
	"decorator",
}

var SemanticTokenModifiers = []string{
	"declaration",
	"defaultLibrary",
}

const (
	modDeclaration = 1 << iota
	modDefaultLibrary
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

// collectSemanticTokens classifies the lexical tokens of source. Names are
// classified from their neighbours: after def or class they are
// declarations, before "(" calls, after "." attributes, after "@"
// decorators. Names of the builtins module carry the defaultLibrary
// modifier. Multi-line strings are skipped.
func collectSemanticTokens(source string) []SemanticToken {
	tokens := parser.NewScanner("", source).ScanTokens()

	var out []SemanticToken
	for i, tok := range tokens {
		var prev, next parser.Token
		if i > 0 {
			prev = tokens[i-1]
		}
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}

		kind, mods := "", 0
		switch tok.Type {
		case parser.KEYWORD:
			kind = "keyword"
		case parser.NUMBER:
			kind = "number"
		case parser.STRING:
			if strings.Contains(tok.Lexeme, "\n") {
				continue
			}
			kind = "string"
		case parser.NAME:
			kind, mods = classifyName(prev, tok, next)
		default:
			continue
		}
		out = append(out, makeToken(tok, kind, mods)...)
	}
	return out
}

func classifyName(prev, name, next parser.Token) (string, int) {
	switch {
	case prev.Type == parser.KEYWORD && prev.Lexeme == "def":
		return "function", modDeclaration
	case prev.Type == parser.KEYWORD && prev.Lexeme == "class":
		return "type", modDeclaration
	case prev.Type == parser.OP && prev.Lexeme == "@":
		return "decorator", 0
	case prev.Type == parser.OP && prev.Lexeme == ".":
		return "property", 0
	case builtins.IsBuiltinType(name.Lexeme):
		return "type", modDefaultLibrary
	case builtins.IsBuiltinFunction(name.Lexeme):
		return "function", modDefaultLibrary
	case next.Type == parser.OP && next.Lexeme == "(":
		return "function", 0
	}
	return "variable", 0
}

func makeToken(tok parser.Token, kind string, mods int) []SemanticToken {
	if tok.Position.Line < 1 || tok.Position.Column < 1 {
		return nil
	}
	index := tokenTypeIndex(kind)
	if index < 0 {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(tok.Position.Line - 1),
		StartChar:      uint32(tok.Position.Column - 1),
		Length:         utf16Len(tok.Lexeme),
		TokenType:      index,
		TokenModifiers: mods,
	}}
}

func tokenTypeIndex(kind string) int {
	for i, t := range SemanticTokenTypes {
		if t == kind {
			return i
		}
	}
	return -1
}
