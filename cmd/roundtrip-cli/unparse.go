// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"roundtrip/internal/errors"
	"roundtrip/internal/parser"
	"roundtrip/internal/unparser"
)

var unparseFlags struct {
	target string
}

var unparseCmd = &cobra.Command{
	Use:   "unparse <file>",
	Short: "Print the regenerated text of one file",
	Args:  cobra.ExactArgs(1),
	RunE:  unparseFile,
}

func init() {
	rootCmd.AddCommand(unparseCmd)
	unparseCmd.Flags().StringVar(&unparseFlags.target, "target", "", "oldest Python version the output must parse on")
}

func unparseFile(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("target") {
		cfg.Unparse.Target = unparseFlags.target
	}
	opts, err := cfg.UnparseOptions()
	if err != nil {
		return setupError(fmt.Errorf("invalid target %q: %w", cfg.Unparse.Target, err))
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return setupError(fmt.Errorf("failed to read file: %w", err))
	}

	module, err := parser.ParseSource(path, string(source))
	if err != nil {
		return &exitError{code: 1, err: reportError(path, string(source), err)}
	}
	regenerated, err := unparser.New(opts).Unparse(module)
	if err != nil {
		return &exitError{code: 1, err: reportError(path, string(source), err)}
	}

	fmt.Fprint(cmd.OutOrStdout(), regenerated)
	return nil
}

// reportError prints a source-located rendering of err to stderr when it
// has one and returns the error that should still be reported, if any.
func reportError(path, source string, err error) error {
	d, ok := errors.Diagnose(err)
	if !ok {
		return err
	}
	fmt.Fprint(os.Stderr, errors.NewErrorReporter(path, source).FormatError(d))
	return nil
}
