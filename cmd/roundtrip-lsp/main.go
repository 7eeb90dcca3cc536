// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"roundtrip/internal/config"
	"roundtrip/internal/lsp"
	"roundtrip/internal/runner"
)

const lsName = "roundtrip" // Name identifier for the language server

var (
	version = "0.1.0"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	configPath := flag.String("config", "", "config file path (default ./"+config.DefaultFile+" when present)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.Find(".")
	}
	cfg, err := config.LoadWithEnvOverrides(path)
	if err != nil {
		log.Println("Error loading configuration:", err)
		os.Exit(2)
	}

	// Editors read stdout as the protocol stream, so logs go to the
	// configured file or stderr.
	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(max(cfg.Log.Verbosity, 1), logFile)

	unparse, err := cfg.UnparseOptions()
	if err != nil {
		log.Println("Error loading configuration:", err)
		os.Exit(2)
	}

	h := lsp.NewHandler(runner.Options{
		Unparse: unparse,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentFormatting:         h.TextDocumentFormatting,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Printf("Starting roundtrip LSP server %s...", version)

	err = s.RunStdio()
	if err != nil {
		log.Println("Error starting roundtrip LSP server:", err)
		os.Exit(1)
	}
}
