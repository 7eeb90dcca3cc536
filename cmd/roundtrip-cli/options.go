// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"

	"roundtrip/internal/compare"
	"roundtrip/internal/config"
	"roundtrip/internal/metrics"
	"roundtrip/internal/report"
	"roundtrip/internal/runner"
	"roundtrip/internal/sandbox"
)

// runnerOptions translates a validated configuration into runner options.
// The collector is nil unless a metrics file is configured.
func runnerOptions(c *config.Config) (runner.Options, error) {
	unparse, err := c.UnparseOptions()
	if err != nil {
		return runner.Options{}, fmt.Errorf("invalid target %q: %w", c.Unparse.Target, err)
	}

	opts := runner.Options{
		Jobs:     c.Jobs,
		Include:  c.Include,
		Exclude:  c.Exclude,
		Unparse:  unparse,
		Compare:  compare.Options{CheckIdempotence: c.Idempotence},
		Debounce: c.Watch.Debounce,
	}
	if c.Exec.Enabled {
		sb := sandbox.NewSubprocess(c.Exec.Interpreter, c.Exec.Timeout)
		sb.OutputLimit = int(c.Exec.OutputLimit)
		opts.Compare.Executor = sb
	}
	if c.MetricsFile != "" {
		opts.Metrics = metrics.NewCollector()
	}
	return opts, nil
}

// writeReport renders rep to the configured output, or to stdout.
func writeReport(stdout io.Writer, c *config.Config, rep *runner.Report) error {
	format, err := report.ParseFormat(c.Report)
	if err != nil {
		return err
	}

	out := stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("cannot create report: %w", err)
		}
		defer f.Close()
		out = f
	}

	return report.Write(out, rep, report.Options{
		Format:  format,
		Strict:  c.Strict,
		Verbose: verbosity > 0,
	})
}
