package grammar

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

const (
	stringPrefix = `(?i:rb|br|fr|rf|[rbuf])?`

	tripleDouble = `"""(?:[^"\\]|\\[\s\S]|"[^"\\]|""[^"\\]|"\\[\s\S]|""\\[\s\S])*"""`
	tripleSingle = `'''(?:[^'\\]|\\[\s\S]|'[^'\\]|''[^'\\]|'\\[\s\S]|''\\[\s\S])*'''`
	shortDouble  = `"(?:[^"\\\n]|\\[\s\S])*"`
	shortSingle  = `'(?:[^'\\\n]|\\[\s\S])*'`

	digits   = `[0-9](?:_?[0-9])*`
	exponent = `(?:[eE][+-]?` + digits + `)`
)

// PythonLexer splits Python source into raw tokens. It knows nothing about
// indentation; the parser derives INDENT/DEDENT from Newline and Whitespace.
var PythonLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},

		// Strings must precede Name so that prefixes like r'' are not names.
		{"String", stringPrefix + `(?:` + tripleDouble + `|` + tripleSingle + `|` + shortDouble + `|` + shortSingle + `)`, nil},

		{"Number", `(?:0[xX](?:_?[0-9a-fA-F])+|0[oO](?:_?[0-7])+|0[bB](?:_?[01])+|(?:(?:` + digits + `)?\.` + digits + `|` + digits + `\.?)` + exponent + `?)[jJ]?`, nil},

		{"Name", `[\p{L}\p{Nl}_][\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}]*`, nil},

		{"Operator", `->|\*\*=|//=|>>=|<<=|\.\.\.|:=|[-+*/%@&|^]=|[<>=!]=|\*\*|//|<<|>>|[-+*/%@&|^~<>()\[\]{},:;.=]`, nil},

		{"Continuation", `\\\r?\n`, nil},
		{"Newline", `\r?\n`, nil},
		{"Whitespace", `[ \t\f]+`, nil},
	},
})

var symbols = PythonLexer.Symbols()

// Token types produced by PythonLexer.
var (
	EOFToken          = lexer.EOF
	CommentToken      = symbols["Comment"]
	StringToken       = symbols["String"]
	NumberToken       = symbols["Number"]
	NameToken         = symbols["Name"]
	OperatorToken     = symbols["Operator"]
	ContinuationToken = symbols["Continuation"]
	NewlineToken      = symbols["Newline"]
	WhitespaceToken   = symbols["Whitespace"]
)

// Tokenize runs PythonLexer over source and returns every token including
// trivia, terminated by an EOF token.
func Tokenize(filename, source string) ([]lexer.Token, error) {
	lex, err := PythonLexer.Lex(filename, strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to start lexer: %w", err)
	}
	return lexer.ConsumeAll(lex)
}
