package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roundtrip/internal/unparser"
)

func init() {
	color.NoColor = true
}

func TestStartEchoesRegeneratedLines(t *testing.T) {
	var out bytes.Buffer
	Start(strings.NewReader("x=(1)\nprint( 'hi' )\n"), &out, unparser.DefaultOptions())

	got := out.String()
	assert.Contains(t, got, "x = 1\n")
	assert.Contains(t, got, "print('hi')\n")
	assert.True(t, strings.HasPrefix(got, PROMPT))
}

func TestStartCollectsBlocks(t *testing.T) {
	var out bytes.Buffer
	input := "def f(a):\n  return a+1\n\nf(2)\n"
	Start(strings.NewReader(input), &out, unparser.DefaultOptions())

	got := out.String()
	assert.Contains(t, got, CONTINUATION)
	assert.Contains(t, got, "def f(a):\n    return a + 1\n")
	assert.Contains(t, got, "f(2)\n")
}

func TestStartFlushesBlockAtEOF(t *testing.T) {
	var out bytes.Buffer
	Start(strings.NewReader("while x:\n    x -= 1"), &out, unparser.DefaultOptions())
	assert.Contains(t, out.String(), "while x:\n    x -= 1\n")
}

func TestEvalParseError(t *testing.T) {
	var out bytes.Buffer
	Eval(&out, "def (:\n", unparser.DefaultOptions())

	got := out.String()
	require.NotEmpty(t, got)
	assert.Contains(t, got, "error[E0100]")
	assert.Contains(t, got, "<stdin>:1:")
}

func TestEvalUnsupported(t *testing.T) {
	var out bytes.Buffer
	Eval(&out, "print(n := 1)\n", unparser.Options{Target: semver.MustParse("3.7")})
	assert.Contains(t, out.String(), "E0200")
}
