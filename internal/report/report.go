package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"roundtrip/internal/compare"
	"roundtrip/internal/runner"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case Text, "":
		return Text, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text or json)", s)
}

type Options struct {
	Format Format
	Strict bool
	// Verbose also lists matching files and prints diffs in text reports.
	Verbose bool
}

// Write renders r to w.
func Write(w io.Writer, r *runner.Report, opts Options) error {
	if opts.Format == JSON {
		return writeJSON(w, r, opts)
	}
	return writeText(w, r, opts)
}

func verdictColor(v compare.Verdict) func(a ...interface{}) string {
	switch v {
	case compare.Match:
		return color.New(color.FgGreen).SprintFunc()
	case compare.CosmeticMismatch, compare.Unsupported:
		return color.New(color.FgYellow).SprintFunc()
	case compare.ParseFailure:
		return color.New(color.Faint).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func writeText(w io.Writer, r *runner.Report, opts Options) error {
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	var b strings.Builder
	for _, e := range r.Entries {
		if e.Verdict == compare.Match && !opts.Verbose {
			continue
		}
		label := fmt.Sprintf("%-17s", strings.ToUpper(e.Verdict.String()))
		fmt.Fprintf(&b, "%s %s", verdictColor(e.Verdict)(label), e.Path)
		if e.Detail != "" {
			fmt.Fprintf(&b, ": %s", e.Detail)
		}
		b.WriteString("\n")
		if e.DivergencePath != "" {
			fmt.Fprintf(&b, "  %s %s\n", dim("at"), e.DivergencePath)
		}
		if opts.Verbose && e.Diff != "" {
			for _, line := range strings.Split(strings.TrimRight(e.Diff, "\n"), "\n") {
				fmt.Fprintf(&b, "  %s\n", dim(line))
			}
		}
	}

	if len(r.Entries) > 0 {
		b.WriteString("\n")
	}
	parts := make([]string, 0, len(compare.Verdicts))
	for _, v := range compare.Verdicts {
		parts = append(parts, fmt.Sprintf("%d %s", r.Tally.Count(v), tallyName(v)))
	}
	fmt.Fprintf(&b, "%s %s (%d files in %s)\n", bold("summary:"), strings.Join(parts, ", "),
		r.Tally.Total(), formatDuration(r.End.Sub(r.Start)))

	if r.Interrupted {
		b.WriteString(color.YellowString("run interrupted: the summary covers only the files finished so far") + "\n")
	}
	if r.ExitCode(opts.Strict) == 0 {
		b.WriteString(color.GreenString("PASS") + "\n")
	} else {
		b.WriteString(color.RedString("FAIL") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// tallyName is the tally key for v.
func tallyName(v compare.Verdict) string {
	switch v {
	case compare.Match:
		return "matched"
	case compare.CosmeticMismatch:
		return "cosmetic"
	}
	return v.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

type jsonReport struct {
	RunID       string        `json:"run_id"`
	Root        string        `json:"root"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Interrupted bool          `json:"interrupted"`
	Strict      bool          `json:"strict"`
	ExitCode    int           `json:"exit_code"`
	Tally       jsonTally     `json:"tally"`
	Files       []jsonFile    `json:"files"`
	Failures    []jsonFailure `json:"failures"`
}

type jsonTally struct {
	Matched          int `json:"matched"`
	Cosmetic         int `json:"cosmetic"`
	SemanticMismatch int `json:"semantic_mismatch"`
	Unsupported      int `json:"unsupported"`
	Crash            int `json:"crash"`
	ParseError       int `json:"parse_error"`
}

type jsonFile struct {
	Path       string          `json:"path"`
	Verdict    compare.Verdict `json:"verdict"`
	DurationMS float64         `json:"duration_ms"`
}

type jsonFailure struct {
	Path           string          `json:"path"`
	Verdict        compare.Verdict `json:"verdict"`
	Detail         string          `json:"detail,omitempty"`
	DivergencePath string          `json:"divergence_path,omitempty"`
	Diff           string          `json:"diff,omitempty"`
	Original       string          `json:"original"`
	Regenerated    string          `json:"regenerated"`
}

func writeJSON(w io.Writer, r *runner.Report, opts Options) error {
	out := jsonReport{
		RunID:       r.RunID,
		Root:        r.Root,
		Start:       r.Start,
		End:         r.End,
		Interrupted: r.Interrupted,
		Strict:      opts.Strict,
		ExitCode:    r.ExitCode(opts.Strict),
		Tally: jsonTally{
			Matched:          r.Tally.Matched,
			Cosmetic:         r.Tally.Cosmetic,
			SemanticMismatch: r.Tally.SemanticMismatch,
			Unsupported:      r.Tally.Unsupported,
			Crash:            r.Tally.Crash,
			ParseError:       r.Tally.ParseError,
		},
		Files:    make([]jsonFile, 0, len(r.Entries)),
		Failures: []jsonFailure{},
	}
	for _, e := range r.Entries {
		out.Files = append(out.Files, jsonFile{
			Path:       e.Path,
			Verdict:    e.Verdict,
			DurationMS: float64(e.Duration.Microseconds()) / 1000,
		})
	}
	for _, e := range r.Failures(opts.Strict) {
		out.Failures = append(out.Failures, jsonFailure{
			Path:           e.Path,
			Verdict:        e.Verdict,
			Detail:         e.Detail,
			DivergencePath: e.DivergencePath,
			Diff:           e.Diff,
			Original:       e.Original,
			Regenerated:    e.Regenerated,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
