package grammar

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenValues(t *testing.T, source string, skipTrivia bool) ([]lexer.TokenType, []string) {
	t.Helper()
	tokens, err := Tokenize("test.py", source)
	require.NoError(t, err)

	var types []lexer.TokenType
	var values []string
	for _, tok := range tokens {
		if skipTrivia && (tok.Type == WhitespaceToken || tok.Type == EOFToken) {
			continue
		}
		types = append(types, tok.Type)
		values = append(values, tok.Value)
	}
	return types, values
}

func TestTokenizeStatement(t *testing.T) {
	types, values := tokenValues(t, "x = f(1) # note\n", true)
	assert.Equal(t, []string{"x", "=", "f", "(", "1", ")", "# note", "\n"}, values)
	assert.Equal(t, []lexer.TokenType{
		NameToken, OperatorToken, NameToken, OperatorToken, NumberToken, OperatorToken, CommentToken, NewlineToken,
	}, types)
}

func TestTokenizeNumbers(t *testing.T) {
	for _, src := range []string{"0", "1_000", "0xFF", "0o17", "0b1_0", "1.5", ".5", "5.", "1e10", "1.5E-3", "3j", "1_0.0_1e+1_0J"} {
		t.Run(src, func(t *testing.T) {
			types, values := tokenValues(t, src, true)
			require.Len(t, types, 1)
			assert.Equal(t, NumberToken, types[0])
			assert.Equal(t, src, values[0])
		})
	}
}

func TestTokenizeStrings(t *testing.T) {
	for _, src := range []string{
		`'a'`, `"a"`, `'it\'s'`, `r'\d'`, `Rb"x"`, `f'{x}'`, `rf"{y}"`, `u'z'`,
		`'''a'b''c'''`, `"""multi
line"""`, `''`, `""""""`,
	} {
		t.Run(src, func(t *testing.T) {
			types, values := tokenValues(t, src, true)
			require.Len(t, types, 1)
			assert.Equal(t, StringToken, types[0])
			assert.Equal(t, src, values[0])
		})
	}
}

func TestTokenizePrefixedName(t *testing.T) {
	types, values := tokenValues(t, "rb + fx", true)
	assert.Equal(t, []string{"rb", "+", "fx"}, values)
	assert.Equal(t, NameToken, types[0])
	assert.Equal(t, NameToken, types[2])
}

func TestTokenizeOperators(t *testing.T) {
	_, values := tokenValues(t, "a**=b//=c->d:=e...f<<=g!=h", true)
	assert.Equal(t, []string{"a", "**=", "b", "//=", "c", "->", "d", ":=", "e", "...", "f", "<<=", "g", "!=", "h"}, values)
}

func TestTokenizeContinuation(t *testing.T) {
	types, _ := tokenValues(t, "a \\\n  b", true)
	assert.Equal(t, []lexer.TokenType{NameToken, ContinuationToken, NameToken}, types)
}

func TestTokenizeUnicodeName(t *testing.T) {
	_, values := tokenValues(t, "café = π", true)
	assert.Equal(t, []string{"café", "=", "π"}, values)
}

func TestTokenizeError(t *testing.T) {
	_, err := Tokenize("bad.py", "x = $")
	require.Error(t, err)

	pos, message, ok := LocateError(err)
	require.True(t, ok)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 5, pos.Column)
	assert.NotEmpty(t, message)
}

func TestLocateErrorWithoutPosition(t *testing.T) {
	_, _, ok := LocateError(assert.AnError)
	assert.False(t, ok)
}
