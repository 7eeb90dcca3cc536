package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Dump renders n as a deterministic one-line tree, omitting positions,
// literal spelling hints, empty lists and absent optional children.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("None")
		return
	}
	b.WriteString(n.Kind().String())
	b.WriteString("(")

	fields := Fields(n)
	first := true
	sep := func() {
		if !first {
			b.WriteString(", ")
		}
		first = false
	}

	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch {
		case f.Scalar && strings.HasSuffix(f.Name, ".len"):
			continue
		case f.Scalar:
			sep()
			b.WriteString(f.Name + "=" + FormatValue(f.Value))
		case f.Index >= 0:
			sep()
			b.WriteString(f.Name + "=[")
			j := i
			for ; j < len(fields) && fields[j].Name == f.Name && fields[j].Index >= 0; j++ {
				if j > i {
					b.WriteString(", ")
				}
				dump(b, fields[j].Node)
			}
			b.WriteString("]")
			i = j - 1
		case f.Node != nil:
			sep()
			b.WriteString(f.Name + "=")
			dump(b, f.Node)
		}
	}
	b.WriteString(")")
}

// FormatValue renders a scalar attribute or literal value for diagnostics.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case *big.Int:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case complex128:
		return fmt.Sprintf("%gj", imag(x))
	case string:
		return strconv.Quote(x)
	case []byte:
		return "b" + strconv.Quote(string(x))
	case rune:
		if x == 0 {
			return "-1"
		}
		return strconv.QuoteRune(x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case EllipsisType:
		return "Ellipsis"
	default:
		return fmt.Sprint(x)
	}
}
