package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
	"roundtrip/internal/parser"
	"roundtrip/internal/sandbox"
	"roundtrip/internal/unparser"
)

// fakeExecutor answers with canned outcomes keyed by source text.
type fakeExecutor struct {
	outcomes map[string]sandbox.Outcome
	err      error
	calls    int
}

func (f *fakeExecutor) Run(_ context.Context, source string) (sandbox.Outcome, error) {
	f.calls++
	if f.err != nil {
		return sandbox.Outcome{}, f.err
	}
	return f.outcomes[source], nil
}

func parse(t *testing.T, source string) *ast.Module {
	t.Helper()
	module, err := parser.ParseSource("test.py", source)
	require.NoError(t, err)
	return module
}

func assignConstant(value any) *ast.Module {
	return &ast.Module{Body: []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{&ast.Name{Id: "x"}}, Value: &ast.Constant{Value: value}},
	}}
}

func TestCompareMatch(t *testing.T) {
	original := "x = 3 * 2\n"
	module := parse(t, original)
	regenerated, err := unparser.Unparse(module)
	require.NoError(t, err)

	res := New(Options{}).Compare(context.Background(), original, module, regenerated)
	assert.Equal(t, Match, res.Verdict)
	assert.Empty(t, res.Path)
	assert.NoError(t, res.Err)
}

func TestCompareCosmeticNegativeConstant(t *testing.T) {
	res := New(Options{}).Compare(context.Background(), "", assignConstant(big.NewInt(-1)), "x = -1\n")

	assert.Equal(t, CosmeticMismatch, res.Verdict)
	assert.Equal(t, "Module.body[0].value", res.Path)
	assert.Equal(t, "Constant vs UnaryOp", res.Detail)
	assert.NotEmpty(t, res.Diff)

	var mismatch *errors.MismatchError
	require.ErrorAs(t, res.Err, &mismatch)
	assert.Equal(t, errors.Cosmetic, mismatch.Kind)
}

func TestCompareCosmeticFString(t *testing.T) {
	joined := &ast.Module{Body: []ast.Stmt{
		&ast.Assign{
			Targets: []ast.Expr{&ast.Name{Id: "x"}},
			Value: &ast.JoinedStr{Values: []ast.Expr{
				&ast.Constant{Value: "a"},
				&ast.Constant{Value: ""},
				&ast.Constant{Value: "b"},
			}},
		},
	}}
	res := New(Options{}).Compare(context.Background(), "", joined, "x = 'ab'\n")
	assert.Equal(t, CosmeticMismatch, res.Verdict)
}

func TestCompareSemanticMismatch(t *testing.T) {
	module := parse(t, "x = a - (b - c)\n")
	res := New(Options{}).Compare(context.Background(), "x = a - (b - c)\n", module, "x = a - b - c\n")

	assert.Equal(t, SemanticMismatch, res.Verdict)
	assert.Equal(t, "Module.body[0].value.left", res.Path)
	assert.Equal(t, "Name vs BinOp", res.Detail)

	var mismatch *errors.MismatchError
	require.ErrorAs(t, res.Err, &mismatch)
	assert.Equal(t, errors.Semantic, mismatch.Kind)
	assert.Equal(t, res.Path, mismatch.Path)
}

func TestCompareRegeneratedDoesNotParse(t *testing.T) {
	module := parse(t, "x = 1\n")
	res := New(Options{}).Compare(context.Background(), "x = 1\n", module, "x = (\n")

	assert.Equal(t, Crash, res.Verdict)
	var parseErr *errors.ParseError
	require.ErrorAs(t, res.Err, &parseErr)
	assert.Contains(t, res.Detail, "does not parse")
}

func TestCompareExecutionTier(t *testing.T) {
	const original = "x = a - (b - c)\n"
	const regenerated = "x = a - b - c\n"

	tests := []struct {
		name    string
		before  sandbox.Outcome
		after   sandbox.Outcome
		verdict Verdict
		detail  string
	}{
		{
			name:    "same behavior",
			before:  sandbox.Outcome{Stdout: "1\n"},
			after:   sandbox.Outcome{Stdout: "1\n"},
			verdict: CosmeticMismatch,
			detail:  "same observable behavior",
		},
		{
			name:    "regenerated crashes",
			before:  sandbox.Outcome{Stdout: "1\n"},
			after:   sandbox.Outcome{ExitCode: 1, ErrorClass: "NameError", Stderr: "NameError: name 'b' is not defined\n"},
			verdict: Crash,
			detail:  "execution crashed",
		},
		{
			name:    "regenerated times out",
			before:  sandbox.Outcome{},
			after:   sandbox.Outcome{TimedOut: true, ExitCode: -1},
			verdict: Crash,
			detail:  "timed out",
		},
		{
			name:    "both time out",
			before:  sandbox.Outcome{TimedOut: true, ExitCode: -1},
			after:   sandbox.Outcome{TimedOut: true, ExitCode: -1},
			verdict: Crash,
			detail:  "timed out: original and regenerated",
		},
		{
			name:    "original raises and regenerated times out",
			before:  sandbox.Outcome{ExitCode: 1, ErrorClass: "ValueError"},
			after:   sandbox.Outcome{TimedOut: true, ExitCode: -1},
			verdict: Crash,
			detail:  "timed out: regenerated",
		},
		{
			name:    "only original times out",
			before:  sandbox.Outcome{TimedOut: true, ExitCode: -1},
			after:   sandbox.Outcome{Stdout: "1\n"},
			verdict: Crash,
			detail:  "timed out: original",
		},
		{
			name:    "different output",
			before:  sandbox.Outcome{Stdout: "1\n"},
			after:   sandbox.Outcome{Stdout: "3\n"},
			verdict: SemanticMismatch,
			detail:  "stdout differs",
		},
		{
			name:    "different error class",
			before:  sandbox.Outcome{ExitCode: 1, ErrorClass: "ValueError"},
			after:   sandbox.Outcome{ExitCode: 1, ErrorClass: "TypeError"},
			verdict: SemanticMismatch,
			detail:  "raised ValueError vs TypeError",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{outcomes: map[string]sandbox.Outcome{
				original:    tt.before,
				regenerated: tt.after,
			}}
			res := New(Options{Executor: exec}).Compare(context.Background(), original, parse(t, original), regenerated)
			assert.Equal(t, tt.verdict, res.Verdict)
			assert.Contains(t, res.Detail, tt.detail)
			assert.Equal(t, 2, exec.calls)
			if tt.before.TimedOut || tt.after.TimedOut {
				var crash *errors.ExecutionCrash
				require.ErrorAs(t, res.Err, &crash)
				assert.True(t, crash.TimedOut)
			}
		})
	}
}

func TestCompareExecutionCrashCarriesStderr(t *testing.T) {
	const original = "x = a - (b - c)\n"
	const regenerated = "x = a - b - c\n"
	exec := &fakeExecutor{outcomes: map[string]sandbox.Outcome{
		original:    {},
		regenerated: {ExitCode: 1, Stderr: "Traceback:\nNameError: b\n"},
	}}

	res := New(Options{Executor: exec}).Compare(context.Background(), original, parse(t, original), regenerated)
	var crash *errors.ExecutionCrash
	require.ErrorAs(t, res.Err, &crash)
	assert.Equal(t, "exit status 1", crash.Reason)
	assert.Contains(t, crash.Stderr, "NameError")
}

func TestCompareExecutionUnavailableKeepsTreeVerdict(t *testing.T) {
	exec := &fakeExecutor{err: fmt.Errorf("interpreter not found")}
	res := New(Options{Executor: exec}).Compare(context.Background(), "", assignConstant(big.NewInt(-1)), "x = -1\n")

	assert.Equal(t, CosmeticMismatch, res.Verdict)
	assert.Contains(t, res.Detail, "execution unavailable")
}

func TestCompareMatchSkipsExecution(t *testing.T) {
	exec := &fakeExecutor{}
	module := parse(t, "x = 1\n")
	res := New(Options{Executor: exec}).Compare(context.Background(), "x = 1\n", module, "x = 1\n")

	assert.Equal(t, Match, res.Verdict)
	assert.Zero(t, exec.calls)
}

func TestCompareIdempotence(t *testing.T) {
	module := parse(t, "x = 1\n")

	res := New(Options{CheckIdempotence: true}).Compare(context.Background(), "x = 1\n", module, "x = (1)\n")
	assert.Equal(t, CosmeticMismatch, res.Verdict)
	assert.Contains(t, res.Detail, "fixed point")
	assert.NotEmpty(t, res.Diff)

	res = New(Options{CheckIdempotence: true}).Compare(context.Background(), "x = 1\n", module, "x = 1\n")
	assert.Equal(t, Match, res.Verdict)

	res = New(Options{}).Compare(context.Background(), "x = 1\n", module, "x = (1)\n")
	assert.Equal(t, Match, res.Verdict)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ast.Node
		want string
	}{
		{"negative int", &ast.UnaryOp{Op: "-", Operand: &ast.Constant{Value: big.NewInt(5)}}, "Constant(value=-5)"},
		{"positive float", &ast.UnaryOp{Op: "+", Operand: &ast.Constant{Value: 2.5}}, "Constant(value=2.5)"},
		{"double negative", &ast.UnaryOp{Op: "-", Operand: &ast.UnaryOp{Op: "-", Operand: &ast.Constant{Value: big.NewInt(1)}}}, "Constant(value=1)"},
		{"not a number", &ast.UnaryOp{Op: "-", Operand: &ast.Constant{Value: true}}, "UnaryOp(op=\"-\", operand=Constant(value=True))"},
		{"not a constant", &ast.UnaryOp{Op: "-", Operand: &ast.Name{Id: "x"}}, "UnaryOp(op=\"-\", operand=Name(id=\"x\"))"},
		{"inversion untouched", &ast.UnaryOp{Op: "~", Operand: &ast.Constant{Value: big.NewInt(1)}}, "UnaryOp(op=\"~\", operand=Constant(value=1))"},
		{"empty f-string", &ast.JoinedStr{}, "Constant(value=\"\")"},
		{
			"merged f-string",
			&ast.JoinedStr{Values: []ast.Expr{
				&ast.Constant{Value: "a"},
				&ast.Constant{Value: "b"},
				&ast.FormattedValue{Value: &ast.Name{Id: "x"}},
				&ast.Constant{Value: ""},
			}},
			"JoinedStr(values=[Constant(value=\"ab\"), FormattedValue(value=Name(id=\"x\"), conversion=-1)])",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Dump(Normalize(tt.in)))
		})
	}
}

func TestNormalizeLeavesInputAlone(t *testing.T) {
	in := &ast.JoinedStr{Values: []ast.Expr{&ast.Constant{Value: "a"}, &ast.Constant{Value: "b"}}}
	_ = Normalize(in)
	assert.Len(t, in.Values, 2)
}

func TestFirstDivergence(t *testing.T) {
	a, err := parser.ParseExpression("a.py", "x < y")
	require.NoError(t, err)
	b, err := parser.ParseExpression("b.py", "x > y")
	require.NoError(t, err)

	d, diverged := FirstDivergence(a, b)
	require.True(t, diverged)
	assert.Equal(t, "Compare.ops", d.Path)
	assert.Equal(t, `ops ["<"] vs [">"]`, d.Detail)

	_, diverged = FirstDivergence(a, a)
	assert.False(t, diverged)

	short, err := parser.ParseExpression("c.py", "f(1)")
	require.NoError(t, err)
	long, err := parser.ParseExpression("d.py", "f(1, 2)")
	require.NoError(t, err)
	d, diverged = FirstDivergence(short, long)
	require.True(t, diverged)
	assert.Equal(t, "Call.args", d.Path)
}

func TestFirstDivergenceIgnoresHintsAndPositions(t *testing.T) {
	hex := &ast.Constant{Pos: ast.Position{Line: 1, Column: 5}, Value: big.NewInt(31), Hint: "hex"}
	dec := &ast.Constant{Pos: ast.Position{Line: 9, Column: 1}, Value: big.NewInt(31)}
	_, diverged := FirstDivergence(hex, dec)
	assert.False(t, diverged)

	_, diverged = FirstDivergence(&ast.Constant{Value: big.NewInt(1)}, &ast.Constant{Value: 1.0})
	assert.True(t, diverged, "int and float are different constants")
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "semantic_mismatch", SemanticMismatch.String())
	assert.Equal(t, "Verdict(42)", Verdict(42).String())

	data, err := json.Marshal(map[string]Verdict{"v": ParseFailure})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"parse_error"}`, string(data))

	var v Verdict
	require.NoError(t, v.UnmarshalText([]byte("crash")))
	assert.Equal(t, Crash, v)
	assert.Error(t, v.UnmarshalText([]byte("bogus")))

	for _, v := range []Verdict{SemanticMismatch, Crash} {
		assert.True(t, v.Failed(false), v.String())
	}
	for _, v := range []Verdict{CosmeticMismatch, Unsupported} {
		assert.False(t, v.Failed(false), v.String())
		assert.True(t, v.Failed(true), v.String())
	}
	for _, v := range []Verdict{Match, ParseFailure} {
		assert.False(t, v.Failed(true), v.String())
	}
}
