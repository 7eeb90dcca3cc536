package unparser

import (
	"strings"

	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

// fstringContext is set while rendering the expression of a replacement
// field. Quote characters used by enclosing f-strings are off limits.
type fstringContext struct {
	forbidden string
}

// allowedQuotes filters candidates down to those that do not close an
// enclosing f-string.
func (u *Unparser) allowedQuotes(candidates []string) []string {
	if u.fstring == nil {
		return candidates
	}
	var out []string
	for _, q := range candidates {
		if !strings.Contains(u.fstring.forbidden, q[:1]) {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		u.quoteConflict = true
	}
	return out
}

func (u *Unparser) VisitJoinedStr(n *ast.JoinedStr) error {
	if err := u.requires(n, "f-strings", v36); err != nil {
		return err
	}
	text, err := u.fstringLiteral(n, n.Values)
	if err != nil {
		return err
	}
	u.write(text)
	return nil
}

// VisitFormattedValue spells a lone replacement field as an f-string
// holding only that field.
func (u *Unparser) VisitFormattedValue(n *ast.FormattedValue) error {
	if err := u.requires(n, "f-strings", v36); err != nil {
		return err
	}
	text, err := u.fstringLiteral(n, []ast.Expr{n})
	if err != nil {
		return err
	}
	u.write(text)
	return nil
}

// fstringLiteral tries each delimiter in turn and keeps the first spelling
// that needs no escaped quotes in its literal text.
func (u *Unparser) fstringLiteral(owner ast.Node, values []ast.Expr) (string, error) {
	var fallback, reason string
	for _, q := range u.allowedQuotes(allQuotes) {
		f := &fstringWriter{u: u, quote: q}
		ok, err := f.values(values, true)
		if err != nil {
			return "", err
		}
		if !ok {
			reason = f.reason
			continue
		}
		text := "f" + q + f.b.String() + q
		if !f.escaped {
			return text, nil
		}
		if fallback == "" {
			fallback = text
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	u.quoteConflict = true
	if reason == "" {
		reason = "nested quotes"
	}
	return "", errors.Unsupported(owner, "no quote style can spell this f-string: %s", reason)
}

// fstringWriter renders the body of one f-string candidate.
type fstringWriter struct {
	u       *Unparser
	quote   string
	b       strings.Builder
	escaped bool
	reason  string
}

func (f *fstringWriter) conflict(reason string) (bool, error) {
	f.reason = reason
	return false, nil
}

// values writes literal text and replacement fields. ok is false when the
// candidate quote cannot spell them.
func (f *fstringWriter) values(values []ast.Expr, outer bool) (ok bool, err error) {
	triple := len(f.quote) == 3
	for i, v := range values {
		switch n := v.(type) {
		case *ast.Constant:
			s, isStr := n.Value.(string)
			if !isStr {
				return false, errors.Unsupported(n, "f-string part must be a str constant, got %s", ast.ConstantKind(n.Value))
			}
			if triple {
				if strings.Contains(s, f.quote) || (outer && i == len(values)-1 && strings.HasSuffix(s, f.quote[:1])) {
					return f.conflict("literal text contains the delimiter")
				}
			} else if strings.Contains(s, f.quote) {
				f.escaped = true
			}
			text := escapeString(s, f.quote, triple)
			text = strings.ReplaceAll(text, "{", "{{")
			text = strings.ReplaceAll(text, "}", "}}")
			f.b.WriteString(text)

		case *ast.FormattedValue:
			if ok, err := f.field(n); !ok || err != nil {
				return ok, err
			}

		default:
			if v == nil {
				return false, errors.Unsupported(f.u.parent, "missing f-string part")
			}
			return false, errors.Unsupported(v, "f-string part must be a constant or replacement field")
		}
	}
	return true, nil
}

func (f *fstringWriter) field(n *ast.FormattedValue) (bool, error) {
	u := f.u
	sub := u.sub()
	forbidden := f.quote[:1]
	if u.fstring != nil {
		forbidden += u.fstring.forbidden
	}
	sub.fstring = &fstringContext{forbidden: forbidden}

	text, err := sub.fragment(n.Value, PrecOr)
	if err != nil {
		if sub.quoteConflict {
			return f.conflict(err.Error())
		}
		return false, err
	}
	if strings.Contains(text, f.quote[:1]) {
		return f.conflict("replacement field contains the delimiter")
	}
	if !u.targetAtLeast(v312) {
		if strings.Contains(text, `\`) {
			return f.conflict("backslash in a replacement field requires 3.12")
		}
		if strings.Contains(text, "#") {
			return false, errors.Unsupported(n, "'#' in a replacement field requires 3.12, target is %s", shortVersion(u.opts.Target))
		}
	}
	if strings.Contains(text, "\n") && len(f.quote) == 1 {
		return f.conflict("replacement field spans lines")
	}

	f.b.WriteString("{")
	if strings.HasPrefix(text, "{") {
		f.b.WriteString(" ")
	}
	f.b.WriteString(text)

	switch n.Conversion {
	case 0:
	case 'r', 's', 'a':
		f.b.WriteString("!" + string(n.Conversion))
	default:
		return false, errors.Unsupported(n, "unknown conversion %q", n.Conversion)
	}

	if n.FormatSpec != nil {
		spec, ok := n.FormatSpec.(*ast.JoinedStr)
		if !ok {
			return false, errors.Unsupported(n, "format spec must be an f-string")
		}
		f.b.WriteString(":")
		if ok, err := f.values(spec.Values, false); !ok || err != nil {
			return ok, err
		}
	}
	f.b.WriteString("}")
	return true, nil
}

// fragment renders a single expression at the given precedence level.
func (u *Unparser) fragment(e ast.Expr, level Precedence) (string, error) {
	u.b.Reset()
	if err := u.expr(e, level); err != nil {
		return "", err
	}
	return u.b.String(), nil
}
