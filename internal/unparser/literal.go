package unparser

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

func (u *Unparser) VisitConstant(n *ast.Constant) error {
	switch v := n.Value.(type) {
	case nil:
		u.write("None")
	case bool:
		if v {
			u.write("True")
		} else {
			u.write("False")
		}
	case ast.EllipsisType:
		u.write("...")
	case *big.Int:
		if v == nil {
			return errors.Unsupported(n, "nil integer value")
		}
		return u.signed(v.Sign() < 0, func() {
			abs := new(big.Int).Abs(v)
			if n.Hint == "hex" {
				u.write("0x" + abs.Text(16))
				return
			}
			u.write(abs.String())
		})
	case float64:
		if math.IsNaN(v) {
			return errors.Unsupported(n, "NaN has no literal spelling")
		}
		return u.signed(math.Signbit(v), func() {
			u.write(formatFloat(math.Abs(v)))
		})
	case complex128:
		if real(v) != 0 {
			return errors.Unsupported(n, "complex constant with a real part")
		}
		im := imag(v)
		if math.IsNaN(im) {
			return errors.Unsupported(n, "NaN has no literal spelling")
		}
		return u.signed(math.Signbit(im), func() {
			u.write(formatImag(math.Abs(im)))
		})
	case string:
		s, err := u.quote(n, v)
		if err != nil {
			return err
		}
		u.write(s)
	case []byte:
		s, err := u.quoteBytes(n, v)
		if err != nil {
			return err
		}
		u.write(s)
	default:
		return errors.Unsupported(n, "constant of type %T", v)
	}
	return nil
}

// signed writes a numeric literal. Literals carry no sign, so a negative
// value is written as a unary minus and parenthesized like one.
func (u *Unparser) signed(negative bool, digits func()) error {
	if !negative {
		digits()
		return nil
	}
	return u.parens(PrecFactor, u.level, func() error {
		u.write("-")
		digits()
		return nil
	})
}

// formatFloat writes the shortest spelling that reads back as the same
// float. Infinity overflows to the same value.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) {
		return "1e309"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatImag spells an imaginary literal; the j suffix already marks it
// as non-integer so no ".0" is needed.
func formatImag(f float64) string {
	if math.IsInf(f, 0) {
		return "1e309j"
	}
	return strconv.FormatFloat(f, 'g', -1, 64) + "j"
}

var (
	singleQuotes = []string{"'", `"`}
	allQuotes    = []string{"'", `"`, "'''", `"""`}
)

// quote spells a str value. It prefers single quotes, switches to double
// quotes to avoid escaping, and uses triple quotes for multi-line text when
// that needs no escaped delimiters.
func (u *Unparser) quote(n ast.Node, s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", errors.Unsupported(n, "string is not valid UTF-8")
	}
	quotes := u.allowedQuotes(allQuotes)
	if len(quotes) == 0 {
		return "", errors.Unsupported(n, "no quote character left for a nested string")
	}

	if strings.Contains(s, "\n") && u.fstring == nil {
		for _, q := range quotes {
			if len(q) == 3 && tripleSafe(s, q) {
				return q + escapeString(s, q, true) + q, nil
			}
		}
	}
	return pickQuote(s, quotes, func(q string) string {
		return q + escapeString(s, q, false) + q
	}), nil
}

func (u *Unparser) quoteBytes(n ast.Node, b []byte) (string, error) {
	quotes := u.allowedQuotes(singleQuotes)
	if len(quotes) == 0 {
		return "", errors.Unsupported(n, "no quote character left for a nested bytes literal")
	}
	return pickQuote(string(b), quotes, func(q string) string {
		return "b" + q + escapeBytes(b, q[0]) + q
	}), nil
}

// pickQuote returns the first single-line spelling whose delimiter does
// not occur in s, falling back to the first allowed one.
func pickQuote(s string, quotes []string, spell func(q string) string) string {
	for _, q := range quotes {
		if len(q) == 1 && !strings.Contains(s, q) {
			return spell(q)
		}
	}
	for _, q := range quotes {
		if len(q) == 1 {
			return spell(q)
		}
	}
	return spell(quotes[0])
}

// tripleSafe reports whether s can sit between triple quotes q without
// escaping the delimiter.
func tripleSafe(s, q string) bool {
	return !strings.Contains(s, q) && !strings.HasSuffix(s, q[:1])
}

func escapeString(s, q string, multiline bool) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case len(q) == 1 && r == rune(q[0]):
			b.WriteString(`\` + q)
		case r == '\n' && multiline:
			b.WriteByte('\n')
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r) && r != ' ':
			if r <= 0xffff {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeBytes(data []byte, q byte) string {
	var b strings.Builder
	for _, c := range data {
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// docstringText spells a leading string statement as a """ docstring when
// the value survives unescaped.
func docstringText(s ast.Stmt) (string, bool) {
	stmt, ok := s.(*ast.ExprStmt)
	if !ok {
		return "", false
	}
	c, ok := stmt.Value.(*ast.Constant)
	if !ok {
		return "", false
	}
	text, ok := c.Value.(string)
	if !ok || !utf8.ValidString(text) || !tripleSafe(text, `"""`) {
		return "", false
	}
	for _, r := range text {
		if r == '\\' || (r < 0x20 && r != '\n' && r != '\t') || r == 0x7f || (!unicode.IsPrint(r) && !unicode.IsSpace(r)) {
			return "", false
		}
		if r != ' ' && r != '\n' && r != '\t' && unicode.IsSpace(r) {
			return "", false
		}
	}
	return `"""` + text + `"""`, true
}
