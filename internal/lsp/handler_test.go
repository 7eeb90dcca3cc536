package lsp_test

import (
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"roundtrip/internal/lsp"
	"roundtrip/internal/runner"
	"roundtrip/internal/unparser"
)

const testURI = "file:///work/example.py"

// recorder captures the notifications a handler sends.
type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (r *recorder) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	require.NotEmpty(t, r.published, "no diagnostics were published")
	return r.published[len(r.published)-1]
}

func open(t *testing.T, h *lsp.Handler, ctx *glsp.Context, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "python", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	result, err := h.Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	res, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, true, res.Capabilities.DocumentFormattingProvider)
	tokens, ok := res.Capabilities.SemanticTokensProvider.(*protocol.SemanticTokensOptions)
	require.True(t, ok)
	assert.Equal(t, lsp.SemanticTokenTypes, tokens.Legend.TokenTypes)
}

func TestDidOpenValidDocumentClearsDiagnostics(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	rec := &recorder{}
	open(t, h, rec.context(), "def f(a, b=1):\n    return a * (b + 2)\n")

	got := rec.last(t)
	assert.Equal(t, testURI, got.URI)
	assert.NotNil(t, got.Diagnostics)
	assert.Empty(t, got.Diagnostics)
}

func TestDidOpenParseError(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	rec := &recorder{}
	open(t, h, rec.context(), "def (:\n")

	got := rec.last(t)
	require.Len(t, got.Diagnostics, 1)
	d := got.Diagnostics[0]
	assert.Equal(t, "E0100", d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "roundtrip", *d.Source)
	assert.Equal(t, uint32(0), d.Range.Start.Line)
	assert.Contains(t, d.Message, "files that do not parse are skipped")
}

func TestDidOpenUnsupportedForTarget(t *testing.T) {
	h := lsp.NewHandler(runner.Options{
		Unparse: unparser.Options{Target: semver.MustParse("3.7")},
	})
	rec := &recorder{}
	open(t, h, rec.context(), "if (n := 10) > 5:\n    pass\n")

	got := rec.last(t)
	require.Len(t, got.Diagnostics, 1)
	d := got.Diagnostics[0]
	assert.Equal(t, "E0200", d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Contains(t, d.Message, "requires 3.8")
	assert.Contains(t, d.Message, "--target")
}

func TestDidChangeRepublishes(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	rec := &recorder{}
	ctx := rec.context()
	open(t, h, ctx, "x = 1\n")
	require.Empty(t, rec.last(t).Diagnostics)

	err := h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "x = (\n"}},
	})
	require.NoError(t, err)
	assert.Len(t, rec.last(t).Diagnostics, 1)

	// An incremental edit replacing "(" with "2" fixes the document again.
	err = h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                3,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 0, Character: 4},
				End:   protocol.Position{Line: 0, Character: 5},
			},
			Text: "2",
		}},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)
	assert.Len(t, rec.published, 3)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	rec := &recorder{}
	ctx := rec.context()
	open(t, h, ctx, "def (:\n")

	err := h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)

	_, err = h.TextDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	assert.Error(t, err)
}

func TestTextDocumentFormatting(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []protocol.TextEdit
	}{
		{
			name: "normalizes spacing and parentheses",
			text: "x=(1)\n",
			want: []protocol.TextEdit{{
				Range: protocol.Range{
					Start: protocol.Position{Line: 0, Character: 0},
					End:   protocol.Position{Line: 1, Character: 0},
				},
				NewText: "x = 1\n",
			}},
		},
		{
			name: "already formatted",
			text: "x = 1\n",
			want: []protocol.TextEdit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := lsp.NewHandler(runner.Options{})
			ctx := (&recorder{}).context()
			open(t, h, ctx, tt.text)

			edits, err := h.TextDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, edits)
		})
	}
}

func TestTextDocumentFormattingParseError(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	ctx := (&recorder{}).context()
	open(t, h, ctx, "def (:\n")

	_, err := h.TextDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot format")
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	ctx := (&recorder{}).context()
	open(t, h, ctx, "@cache\ndef area(r):\n    return math.pi * r ** 2\n\nclass Shape:\n    pass\n")

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 12)

	assertToken(t, &decoded[0], 1, 2, 5, "decorator", nil)
	assertToken(t, &decoded[1], 2, 1, 3, "keyword", nil)
	assertToken(t, &decoded[2], 2, 5, 4, "function", []string{"declaration"})
	assertToken(t, &decoded[3], 2, 10, 1, "variable", nil)
	assertToken(t, &decoded[4], 3, 5, 6, "keyword", nil)
	assertToken(t, &decoded[5], 3, 12, 4, "variable", nil)
	assertToken(t, &decoded[6], 3, 17, 2, "property", nil)
	assertToken(t, &decoded[7], 3, 22, 1, "variable", nil)
	assertToken(t, &decoded[8], 3, 27, 1, "number", nil)
	assertToken(t, &decoded[9], 5, 1, 5, "keyword", nil)
	assertToken(t, &decoded[10], 5, 7, 5, "type", []string{"declaration"})
	assertToken(t, &decoded[11], 6, 5, 4, "keyword", nil)
}

func TestSemanticTokensBuiltins(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	ctx := (&recorder{}).context()
	open(t, h, ctx, "print(len(xs), int, obj.len)\n")

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 6)

	assertToken(t, &decoded[0], 1, 1, 5, "function", []string{"defaultLibrary"})
	assertToken(t, &decoded[1], 1, 7, 3, "function", []string{"defaultLibrary"})
	assertToken(t, &decoded[2], 1, 11, 2, "variable", nil)
	assertToken(t, &decoded[3], 1, 16, 3, "type", []string{"defaultLibrary"})
	assertToken(t, &decoded[4], 1, 21, 3, "variable", nil)
	assertToken(t, &decoded[5], 1, 25, 3, "property", nil)
}

func TestSemanticTokensUnknownDocument(t *testing.T) {
	h := lsp.NewHandler(runner.Options{})
	_, err := h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	assert.Error(t, err)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
