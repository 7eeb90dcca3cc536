package runner

import (
	"sort"
	"time"

	"roundtrip/internal/ast"
	"roundtrip/internal/compare"
)

// Entry is one file's outcome.
type Entry struct {
	Path    string
	Verdict compare.Verdict
	Detail  string
	// DivergencePath names the first divergent node on a mismatch.
	DivergencePath string
	// Position locates the divergent node in the original source.
	Position    ast.Position
	Diff        string
	Original    string
	Regenerated string
	Duration    time.Duration
	Err         error
}

// Tally counts entries per verdict.
type Tally struct {
	Matched          int
	Cosmetic         int
	SemanticMismatch int
	Crash            int
	Unsupported      int
	ParseError       int
}

func (t *Tally) Add(v compare.Verdict) {
	switch v {
	case compare.Match:
		t.Matched++
	case compare.CosmeticMismatch:
		t.Cosmetic++
	case compare.SemanticMismatch:
		t.SemanticMismatch++
	case compare.Crash:
		t.Crash++
	case compare.Unsupported:
		t.Unsupported++
	case compare.ParseFailure:
		t.ParseError++
	}
}

func (t Tally) Count(v compare.Verdict) int {
	switch v {
	case compare.Match:
		return t.Matched
	case compare.CosmeticMismatch:
		return t.Cosmetic
	case compare.SemanticMismatch:
		return t.SemanticMismatch
	case compare.Crash:
		return t.Crash
	case compare.Unsupported:
		return t.Unsupported
	case compare.ParseFailure:
		return t.ParseError
	}
	return 0
}

func (t Tally) Total() int {
	return t.Matched + t.Cosmetic + t.SemanticMismatch + t.Crash + t.Unsupported + t.ParseError
}

// Report aggregates a run. Entries are sorted by path.
type Report struct {
	RunID       string
	Root        string
	Start       time.Time
	End         time.Time
	Entries     []Entry
	Tally       Tally
	Interrupted bool
}

func (r *Report) add(e Entry) {
	r.Entries = append(r.Entries, e)
	r.Tally.Add(e.Verdict)
}

func (r *Report) sort() {
	sort.Slice(r.Entries, func(i, j int) bool {
		return r.Entries[i].Path < r.Entries[j].Path
	})
}

// Failures lists the entries that fail the run.
func (r *Report) Failures(strict bool) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Verdict.Failed(strict) {
			out = append(out, e)
		}
	}
	return out
}

// ExitCode is 1 when any entry fails the run, 0 otherwise.
func (r *Report) ExitCode(strict bool) int {
	for _, e := range r.Entries {
		if e.Verdict.Failed(strict) {
			return 1
		}
	}
	return 0
}
