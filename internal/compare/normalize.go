package compare

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/go-cmp/cmp"
	"roundtrip/internal/ast"
)

// Normalize rewrites a single node into its canonical spelling without
// touching the original. Children are left alone; the divergence walk
// applies Normalize at every level.
//
//   - unary minus or plus on a numeric constant folds into the constant
//   - adjacent string parts of an f-string merge and empty parts drop
//   - an f-string left with only literal text becomes a plain string
func Normalize(n ast.Node) ast.Node {
	switch x := n.(type) {
	case *ast.UnaryOp:
		return foldSign(x)
	case *ast.JoinedStr:
		return mergeJoined(x)
	}
	return n
}

func foldSign(u *ast.UnaryOp) ast.Node {
	if u.Op != "-" && u.Op != "+" {
		return u
	}
	operand, ok := Normalize(u.Operand).(*ast.Constant)
	if !ok {
		return u
	}
	negate := u.Op == "-"
	var value any
	switch v := operand.Value.(type) {
	case *big.Int:
		value = v
		if negate {
			value = new(big.Int).Neg(v)
		}
	case float64:
		value = v
		if negate {
			value = -v
		}
	case complex128:
		value = v
		if negate {
			value = -v
		}
	default:
		return u
	}
	return &ast.Constant{Pos: u.Pos, Value: value}
}

func mergeJoined(j *ast.JoinedStr) ast.Node {
	var values []ast.Expr
	var text strings.Builder
	pending := false
	flush := func() {
		if pending && text.Len() > 0 {
			values = append(values, &ast.Constant{Value: text.String()})
		}
		text.Reset()
		pending = false
	}

	for _, v := range j.Values {
		if c, ok := v.(*ast.Constant); ok {
			if s, ok := c.Value.(string); ok {
				text.WriteString(s)
				pending = true
				continue
			}
		}
		flush()
		values = append(values, v)
	}
	flush()

	switch {
	case len(values) == 0:
		return &ast.Constant{Pos: j.Pos, Value: ""}
	case len(values) == 1:
		if c, ok := values[0].(*ast.Constant); ok {
			return &ast.Constant{Pos: j.Pos, Value: c.Value}
		}
	}
	return &ast.JoinedStr{Pos: j.Pos, Values: values}
}

// Divergence locates the first difference between two trees.
type Divergence struct {
	Path        string
	Detail      string
	Left, Right ast.Node
}

// FirstDivergence compares two trees structurally, ignoring positions and
// literal spelling hints. ok is false when the trees are equal.
func FirstDivergence(a, b ast.Node) (Divergence, bool) {
	return diverge(rootName(a, b), a, b, nil)
}

// NormalizedDivergence is FirstDivergence after Normalize on both sides.
func NormalizedDivergence(a, b ast.Node) (Divergence, bool) {
	return diverge(rootName(a, b), a, b, Normalize)
}

func rootName(a, b ast.Node) string {
	switch {
	case a != nil:
		return a.Kind().String()
	case b != nil:
		return b.Kind().String()
	}
	return "None"
}

func diverge(path string, a, b ast.Node, canon func(ast.Node) ast.Node) (Divergence, bool) {
	if canon != nil {
		if a != nil {
			a = canon(a)
		}
		if b != nil {
			b = canon(b)
		}
	}

	switch {
	case a == nil && b == nil:
		return Divergence{}, false
	case a == nil || b == nil:
		return Divergence{Path: path, Detail: fmt.Sprintf("%s vs %s", describe(a), describe(b)), Left: a, Right: b}, true
	case a.Kind() != b.Kind():
		return Divergence{Path: path, Detail: fmt.Sprintf("%s vs %s", a.Kind(), b.Kind()), Left: a, Right: b}, true
	}

	fa, fb := ast.Fields(a), ast.Fields(b)
	for i := 0; i < len(fa) && i < len(fb); i++ {
		x, y := fa[i], fb[i]
		childPath := path + "." + strings.TrimSuffix(x.Name, ".len")
		if x.Index >= 0 {
			childPath = fmt.Sprintf("%s[%d]", childPath, x.Index)
		}

		if x.Scalar {
			if !scalarEqual(x.Value, y.Value) {
				detail := fmt.Sprintf("%s %s vs %s", x.Name, ast.FormatValue(x.Value), ast.FormatValue(y.Value))
				return Divergence{Path: childPath, Detail: detail, Left: a, Right: b}, true
			}
			continue
		}
		if d, ok := diverge(childPath, x.Node, y.Node, canon); ok {
			return d, true
		}
	}
	if len(fa) != len(fb) {
		return Divergence{Path: path, Detail: "different number of fields", Left: a, Right: b}, true
	}
	return Divergence{}, false
}

func scalarEqual(x, y any) bool {
	if ast.ConstantKind(x) != "unknown" || ast.ConstantKind(y) != "unknown" {
		return ast.ConstantEqual(x, y)
	}
	return cmp.Equal(x, y)
}

func describe(n ast.Node) string {
	if n == nil {
		return "missing"
	}
	return n.Kind().String()
}

// TreeDiff renders a line diff of two subtrees in Dump form.
func TreeDiff(a, b ast.Node) string {
	return cmp.Diff(dumpLines(a), dumpLines(b))
}

// dumpLines breaks a Dump at top-level list separators so that diffs of
// large bodies stay readable.
func dumpLines(n ast.Node) []string {
	if n == nil {
		return []string{"None"}
	}
	var lines []string
	if m, ok := n.(*ast.Module); ok {
		for _, s := range m.Body {
			lines = append(lines, ast.Dump(s))
		}
		return lines
	}
	return []string{ast.Dump(n)}
}
