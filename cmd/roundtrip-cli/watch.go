// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"roundtrip/internal/runner"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-run changed files whenever the corpus changes",
	Long: `Run the whole corpus once, then watch it and round-trip every file that
is written, created or renamed. Reports are printed after each batch of
changes settles. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: watchCorpus,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addRunFlags(watchCmd)
}

func watchCorpus(cmd *cobra.Command, args []string) error {
	if err := applyRunFlags(cmd, cfg); err != nil {
		return setupError(err)
	}
	opts, err := runnerOptions(cfg)
	if err != nil {
		return setupError(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := runOnce(ctx, cmd, opts, args[0]); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.Faint).Fprintf(out, "watching %s for changes\n", args[0])
	err = runner.New(opts).Watch(ctx, args[0], func(rep *runner.Report) {
		if err := writeReport(out, cfg, rep); err != nil {
			log.Errorf("cannot write report: %s", err)
		}
		if opts.Metrics != nil {
			if err := opts.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
				log.Errorf("%s", err)
			}
		}
	})
	if err != nil {
		return setupError(err)
	}
	return nil
}
