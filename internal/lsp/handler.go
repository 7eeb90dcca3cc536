package lsp

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"roundtrip/internal/parser"
	"roundtrip/internal/runner"
	"roundtrip/internal/unparser"
)

var log = commonlog.GetLogger("roundtrip.lsp")

// Handler serves round-trip diagnostics and whole-document formatting.
// Documents are tracked in memory with full text sync.
type Handler struct {
	mu      sync.RWMutex
	content map[protocol.DocumentUri]string

	runner  *runner.Runner
	unparse unparser.Options
}

// NewHandler creates a handler that checks documents with opts. Execution
// is never enabled from the editor.
func NewHandler(opts runner.Options) *Handler {
	opts.Compare.Executor = nil
	return &Handler{
		content: make(map[protocol.DocumentUri]string),
		runner:  runner.New(opts),
		unparse: opts.Unparse,
	}
}

// Initialize advertises the server's capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			DocumentFormattingProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("opened %s", uri)

	h.store(uri, params.TextDocument.Text)
	return h.publish(ctx, uri)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("changed %s", uri)

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			h.store(uri, c.Text)
		case protocol.TextDocumentContentChangeEvent:
			text, _ := h.document(uri)
			h.store(uri, applyChange(text, c))
		}
	}
	return h.publish(ctx, uri)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("closed %s", uri)

	h.mu.Lock()
	delete(h.content, uri)
	h.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// TextDocumentFormatting replaces the document with its regenerated text.
func (h *Handler) TextDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	text, ok := h.document(uri)
	if !ok {
		return nil, fmt.Errorf("document %s is not open", uri)
	}
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}

	module, err := parser.ParseSource(path, text)
	if err != nil {
		return nil, fmt.Errorf("cannot format %s: %w", path, err)
	}
	formatted, err := unparser.New(h.unparse).Unparse(module)
	if err != nil {
		return nil, fmt.Errorf("cannot format %s: %w", path, err)
	}
	if formatted == text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{Range: wholeDocument(text), NewText: formatted}}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI
	text, ok := h.document(uri)
	if !ok {
		return nil, fmt.Errorf("document %s is not open", uri)
	}

	tokens := collectSemanticTokens(text)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

func (h *Handler) store(uri protocol.DocumentUri, text string) {
	h.mu.Lock()
	h.content[uri] = text
	h.mu.Unlock()
}

func (h *Handler) document(uri protocol.DocumentUri) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.content[uri]
	return text, ok
}

// publish round-trips the document and sends the resulting diagnostics.
func (h *Handler) publish(ctx *glsp.Context, uri protocol.DocumentUri) error {
	text, ok := h.document(uri)
	if !ok {
		return nil
	}
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}

	entry := h.runner.CheckSource(context.Background(), path, text)
	log.Debugf("%s: %s", path, entry.Verdict)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: EntryDiagnostics(entry),
	})
	return nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) → C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
