package compare

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
	"roundtrip/internal/parser"
	"roundtrip/internal/sandbox"
	"roundtrip/internal/unparser"
)

type Options struct {
	// Executor enables the execution tier. Nil compares trees only.
	Executor sandbox.Executor
	// CheckIdempotence downgrades a match whose regenerated text does not
	// regenerate to itself.
	CheckIdempotence bool
	// Unparse configures the idempotence re-render; it should match the
	// options that produced the regenerated text.
	Unparse unparser.Options
	// Filename labels parse errors in the regenerated text.
	Filename string
}

// Comparator decides whether regenerated text is equivalent to the
// original. It is safe for concurrent use if its Executor is.
type Comparator struct {
	opts Options
}

func New(opts Options) *Comparator {
	if opts.Filename == "" {
		opts.Filename = "<regenerated>"
	}
	return &Comparator{opts: opts}
}

// Compare runs the tiers in order: reparse, structural equality,
// normalized equality, then execution when an executor is configured.
func (c *Comparator) Compare(ctx context.Context, original string, origAST *ast.Module, regenerated string) Result {
	res := Result{Original: original, Regenerated: regenerated}

	regenAST, err := parser.ParseSource(c.opts.Filename, regenerated)
	if err != nil {
		res.Verdict = Crash
		res.Detail = "regenerated text does not parse: " + err.Error()
		res.Err = err
		return res
	}

	d, diverged := FirstDivergence(origAST, regenAST)
	if !diverged {
		res.Verdict = Match
		if c.opts.CheckIdempotence {
			c.checkIdempotence(&res, regenAST)
		}
		return res
	}

	res.Path = d.Path
	res.Detail = d.Detail
	if d.Left != nil {
		res.Position = d.Left.NodePos()
	}
	res.Diff = TreeDiff(d.Left, d.Right)

	_, semantic := NormalizedDivergence(origAST, regenAST)
	if c.opts.Executor != nil {
		return c.execute(ctx, res, !semantic)
	}
	if !semantic {
		return mismatch(res, errors.Cosmetic)
	}
	return mismatch(res, errors.Semantic)
}

func mismatch(res Result, kind errors.MismatchKind) Result {
	res.Verdict = CosmeticMismatch
	if kind == errors.Semantic {
		res.Verdict = SemanticMismatch
	}
	res.Err = &errors.MismatchError{Kind: kind, Path: res.Path, Detail: res.Detail}
	return res
}

// execute runs both texts and compares what they did. When the programs
// cannot be run the tree verdict stands.
func (c *Comparator) execute(ctx context.Context, res Result, cosmetic bool) Result {
	treeVerdict := func(note string) Result {
		res.Detail = joinDetail(res.Detail, note)
		if cosmetic {
			return mismatch(res, errors.Cosmetic)
		}
		return mismatch(res, errors.Semantic)
	}

	before, err := c.opts.Executor.Run(ctx, res.Original)
	if err != nil {
		return treeVerdict("execution unavailable: " + err.Error())
	}
	after, err := c.opts.Executor.Run(ctx, res.Regenerated)
	if err != nil {
		return treeVerdict("execution unavailable: " + err.Error())
	}

	if before.TimedOut || after.TimedOut {
		crash := &errors.ExecutionCrash{Reason: timeoutReason(before, after), TimedOut: true}
		if after.TimedOut {
			crash.Stderr = after.Stderr
		} else {
			crash.Stderr = before.Stderr
		}
		res.Verdict = Crash
		res.Detail = joinDetail(res.Detail, crash.Error())
		res.Err = crash
		return res
	}

	if sameBehavior(before, after) {
		res.Detail = joinDetail(res.Detail, "same observable behavior")
		return mismatch(res, errors.Cosmetic)
	}

	if before.Succeeded() && !after.Succeeded() {
		crash := &errors.ExecutionCrash{
			Reason: fmt.Sprintf("exit status %d", after.ExitCode),
			Stderr: after.Stderr,
		}
		res.Verdict = Crash
		res.Detail = joinDetail(res.Detail, crash.Error())
		res.Err = crash
		return res
	}

	res.Detail = joinDetail(res.Detail, behaviorDifference(before, after))
	if before.Stdout != after.Stdout {
		res.Diff = cmp.Diff(before.Stdout, after.Stdout)
	}
	return mismatch(res, errors.Semantic)
}

// timeoutReason names the side that ran out of time. Any timeout is a
// crash verdict.
func timeoutReason(a, b sandbox.Outcome) string {
	switch {
	case a.TimedOut && b.TimedOut:
		return "original and regenerated"
	case a.TimedOut:
		return "original"
	default:
		return "regenerated"
	}
}

func sameBehavior(a, b sandbox.Outcome) bool {
	return a.ExitCode == b.ExitCode && a.Stdout == b.Stdout && a.ErrorClass == b.ErrorClass
}

func behaviorDifference(a, b sandbox.Outcome) string {
	switch {
	case a.ExitCode != b.ExitCode:
		return fmt.Sprintf("exit status %d vs %d", a.ExitCode, b.ExitCode)
	case a.ErrorClass != b.ErrorClass:
		return fmt.Sprintf("raised %s vs %s", orNone(a.ErrorClass), orNone(b.ErrorClass))
	default:
		return "stdout differs"
	}
}

func (c *Comparator) checkIdempotence(res *Result, regenAST *ast.Module) {
	again, err := unparser.New(c.opts.Unparse).Unparse(regenAST)
	if err != nil {
		res.Verdict = CosmeticMismatch
		res.Detail = "regenerated text cannot be regenerated: " + err.Error()
		res.Err = err
		return
	}
	if again == res.Regenerated {
		return
	}
	res.Detail = "regenerated text is not a fixed point"
	res.Diff = cmp.Diff(res.Regenerated, again)
	*res = mismatch(*res, errors.Cosmetic)
}

func joinDetail(detail, note string) string {
	if detail == "" {
		return note
	}
	return detail + "; " + note
}

func orNone(s string) string {
	if s == "" {
		return "nothing"
	}
	return s
}
