// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"roundtrip/internal/config"
	"roundtrip/internal/runner"
)

var log = commonlog.GetLogger("roundtrip.cli")

// exitInterrupted is returned when a run is cut short and nothing failed
// among the files that did finish.
const exitInterrupted = 130

var runFlags struct {
	strict      bool
	jobs        int
	timeout     string
	report      string
	output      string
	exec        bool
	metricsFile string
	target      string
	idempotence bool
	interpreter string
}

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Round-trip every Python file under a corpus",
	Long: `Round-trip every Python file under path and report one verdict per file.

Exit status is 0 when every file passes, 1 when any file has a semantic
mismatch or crash (with --strict, also cosmetic mismatches and unsupported
constructs) and 2 when the run could not start.

Examples:
  # Tree comparison only
  roundtrip run ./corpus

  # Execute both versions with a 5 second limit on 8 workers
  roundtrip run ./corpus --exec --timeout 5 --jobs 8

  # Machine-readable report
  roundtrip run ./corpus --report json --output report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpus,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

// addRunFlags registers the flags shared by run and watch.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&runFlags.strict, "strict", false, "also fail on cosmetic mismatches and unsupported constructs")
	f.IntVarP(&runFlags.jobs, "jobs", "j", 0, "number of files processed at once (0 or 1 runs sequentially)")
	f.StringVar(&runFlags.timeout, "timeout", "", "per-execution timeout in seconds or as a duration")
	f.StringVar(&runFlags.report, "report", "", "report format: text or json")
	f.StringVarP(&runFlags.output, "output", "o", "", "write the report to a file instead of stdout")
	f.BoolVar(&runFlags.exec, "exec", false, "execute original and regenerated programs and compare behavior")
	f.StringVar(&runFlags.metricsFile, "metrics-file", "", "write prometheus metrics to a textfile after the run")
	f.StringVar(&runFlags.target, "target", "", "oldest Python version the regenerated text must parse on")
	f.BoolVar(&runFlags.idempotence, "idempotence", false, "require regenerated text to be a fixed point")
	f.StringVar(&runFlags.interpreter, "interpreter", "", "interpreter command line used by --exec")
}

// applyRunFlags overrides cfg with the flags the user actually set.
func applyRunFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	if f.Changed("strict") {
		c.Strict = runFlags.strict
	}
	if f.Changed("jobs") {
		c.Jobs = runFlags.jobs
	}
	if f.Changed("timeout") {
		timeout, err := config.ParseTimeout(runFlags.timeout)
		if err != nil {
			return err
		}
		c.Exec.Timeout = timeout
	}
	if f.Changed("report") {
		c.Report = runFlags.report
	}
	if f.Changed("output") {
		c.Output = runFlags.output
	}
	if f.Changed("exec") {
		c.Exec.Enabled = runFlags.exec
	}
	if f.Changed("metrics-file") {
		c.MetricsFile = runFlags.metricsFile
	}
	if f.Changed("target") {
		c.Unparse.Target = runFlags.target
	}
	if f.Changed("idempotence") {
		c.Idempotence = runFlags.idempotence
	}
	if f.Changed("interpreter") {
		c.Exec.Interpreter = strings.Fields(runFlags.interpreter)
	}
	return config.Validate(c)
}

func runCorpus(cmd *cobra.Command, args []string) error {
	if err := applyRunFlags(cmd, cfg); err != nil {
		return setupError(err)
	}
	opts, err := runnerOptions(cfg)
	if err != nil {
		return setupError(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := runOnce(ctx, cmd, opts, args[0])
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// runOnce runs the corpus, writes the report and metrics, and returns the
// exit status the run earned.
func runOnce(ctx context.Context, cmd *cobra.Command, opts runner.Options, root string) (int, error) {
	rep, err := runner.New(opts).Run(ctx, root)
	if err != nil {
		return 0, setupError(err)
	}

	if err := writeReport(cmd.OutOrStdout(), cfg, rep); err != nil {
		return 0, setupError(err)
	}
	if opts.Metrics != nil {
		if err := opts.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return 0, setupError(err)
		}
		log.Debugf("metrics written to %s", cfg.MetricsFile)
	}

	code := rep.ExitCode(cfg.Strict)
	if code == 0 && rep.Interrupted {
		code = exitInterrupted
	}
	return code, nil
}
