package compare

import (
	"fmt"

	"roundtrip/internal/ast"
)

// Verdict classifies one file's round trip.
type Verdict int

const (
	Match Verdict = iota
	CosmeticMismatch
	SemanticMismatch
	Crash
	// Unsupported and ParseFailure are decided by the runner before a
	// comparison happens; both mean the file was skipped.
	Unsupported
	ParseFailure
)

var verdictNames = [...]string{
	Match:            "match",
	CosmeticMismatch: "cosmetic_mismatch",
	SemanticMismatch: "semantic_mismatch",
	Crash:            "crash",
	Unsupported:      "unsupported",
	ParseFailure:     "parse_error",
}

// Verdicts lists every verdict in report order.
var Verdicts = []Verdict{Match, CosmeticMismatch, SemanticMismatch, Crash, Unsupported, ParseFailure}

func (v Verdict) String() string {
	if v >= 0 && int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(text []byte) error {
	for i, name := range verdictNames {
		if name == string(text) {
			*v = Verdict(i)
			return nil
		}
	}
	return fmt.Errorf("unknown verdict %q", text)
}

// Failed reports whether the verdict fails a run. Strict runs also fail on
// cosmetic differences and unsupported nodes.
func (v Verdict) Failed(strict bool) bool {
	switch v {
	case SemanticMismatch, Crash:
		return true
	case CosmeticMismatch, Unsupported:
		return strict
	}
	return false
}

// Result is the outcome of comparing one file.
type Result struct {
	Verdict     Verdict
	Original    string
	Regenerated string
	// Path names the first node where the trees diverge, for example
	// Module.body[2].value.left.
	Path string
	// Position locates the divergent node in the original source.
	Position ast.Position
	Detail   string
	Diff     string
	// Err is the taxonomy error behind a non-match verdict, if any.
	Err error
}
