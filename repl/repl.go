// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	goerrors "errors"
	"fmt"
	"io"
	"strings"

	"roundtrip/internal/errors"
	"roundtrip/internal/parser"
	"roundtrip/internal/unparser"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// Start reads Python from in and echoes the regenerated text to out. A line
// ending in ":" or "\" opens a block that is closed by an empty line.
// Start returns when in is exhausted.
func Start(in io.Reader, out io.Writer, opts unparser.Options) {
	scanner := bufio.NewScanner(in)
	var block []string

	for {
		if len(block) == 0 {
			fmt.Fprint(out, PROMPT)
		} else {
			fmt.Fprint(out, CONTINUATION)
		}
		if !scanner.Scan() {
			if len(block) > 0 {
				Eval(out, strings.Join(block, "\n")+"\n", opts)
			}
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		if len(block) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		if len(block) > 0 && strings.TrimSpace(line) != "" {
			block = append(block, line)
			continue
		}
		if len(block) == 0 && opensBlock(line) {
			block = append(block, line)
			continue
		}

		source := line
		if len(block) > 0 {
			source = strings.Join(block, "\n")
			block = block[:0]
		}
		Eval(out, source+"\n", opts)
	}
}

// Eval round-trips one chunk of source and writes the regenerated text or
// the error that stopped it.
func Eval(out io.Writer, source string, opts unparser.Options) {
	module, err := parser.ParseSource("<stdin>", source)
	if err != nil {
		var parseErr *errors.ParseError
		if goerrors.As(err, &parseErr) {
			reporter := errors.NewErrorReporter("<stdin>", source)
			fmt.Fprint(out, reporter.FormatError(errors.ParseFailure(parseErr)))
			return
		}
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	regenerated, err := unparser.New(opts).Unparse(module)
	if err != nil {
		if d, ok := errors.Diagnose(err); ok {
			fmt.Fprint(out, errors.NewErrorReporter("<stdin>", source).FormatError(d))
			return
		}
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}
	fmt.Fprint(out, regenerated)
}

func opensBlock(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "\\")
}
