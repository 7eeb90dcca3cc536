// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"roundtrip/internal/config"
	rterrors "roundtrip/internal/errors"
)

var (
	// Global flags
	cfgFile   string
	verbosity int
	noColor   bool

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Round-trip Python source through its syntax tree",
	Long: `roundtrip parses Python source, regenerates text from the tree, reparses
the text and compares both trees. A corpus run classifies every file as a
match, a cosmetic or semantic mismatch, a crash, an unsupported construct
or a parse error.

Settings are read from roundtrip.yaml in the working directory (or --config),
then ROUNDTRIP_* environment variables, then command-line flags.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// exitError carries a process exit status out of a command. A nil err
// exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// setupError marks a failure that prevented the run from starting. It
// exits with the harness status whether or not err is a HarnessError.
func setupError(err error) error {
	var harness *rterrors.HarnessError
	if !errors.As(err, &harness) {
		harness = &rterrors.HarnessError{Op: "setup", Err: err}
	}
	return &exitError{code: harness.ExitCode(), err: err}
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), exit.err)
		}
		return exit.code
	}
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	var harness *rterrors.HarnessError
	if errors.As(err, &harness) {
		return harness.ExitCode()
	}
	// Usage errors from cobra itself.
	return 2
}

// setup loads the configuration and configures logging once for every
// subcommand.
func setup(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}

	path := cfgFile
	if path == "" {
		path = config.Find(".")
	}
	loaded, err := config.LoadWithEnvOverrides(path)
	if err != nil {
		return setupError(err)
	}
	cfg = loaded

	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity+verbosity, logFile)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
