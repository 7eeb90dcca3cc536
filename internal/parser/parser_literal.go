package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"roundtrip/internal/ast"
)

func (p *Parser) parseNumber(tok Token) ast.Expr {
	text := strings.ReplaceAll(tok.Lexeme, "_", "")
	lower := strings.ToLower(text)

	if strings.HasSuffix(lower, "j") {
		f, err := strconv.ParseFloat(lower[:len(lower)-1], 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			p.errorAt(tok, "invalid imaginary literal")
		}
		return &ast.Constant{Pos: tok.Position, Value: complex(0, f)}
	}

	if len(lower) > 1 && lower[0] == '0' {
		base, hint := 0, ""
		switch lower[1] {
		case 'x':
			base, hint = 16, "hex"
		case 'o':
			base, hint = 8, "oct"
		case 'b':
			base, hint = 2, "bin"
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(lower[2:], base)
			if !ok {
				p.errorAt(tok, "invalid "+hint+" literal")
			}
			return &ast.Constant{Pos: tok.Position, Value: n, Hint: hint}
		}
	}

	if strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(lower, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			p.errorAt(tok, "invalid float literal")
		}
		return &ast.Constant{Pos: tok.Position, Value: f}
	}

	if len(lower) > 1 && lower[0] == '0' && strings.Trim(lower, "0") != "" {
		p.errorAt(tok, "leading zeros in decimal integer literals are not permitted")
	}
	n, ok := new(big.Int).SetString(lower, 10)
	if !ok {
		p.errorAt(tok, "invalid decimal literal")
	}
	return &ast.Constant{Pos: tok.Position, Value: n}
}

// stringPart is one piece of a (possibly implicitly concatenated) string
// literal: either literal text or a replacement field.
type stringPart struct {
	text  string
	field *ast.FormattedValue
}

// parseStrings consumes adjacent STRING tokens and joins them. Any f-string
// in the run turns the result into a JoinedStr.
func (p *Parser) parseStrings() ast.Expr {
	first := p.peek()
	hint := strings.ToLower(stringPrefix(first.Lexeme))

	isBytes := strings.Contains(hint, "b")
	var formatted bool
	var raw []byte
	var parts []stringPart

	for p.check(STRING) {
		tok := p.advance()
		prefix := strings.ToLower(stringPrefix(tok.Lexeme))
		if strings.Contains(prefix, "b") != isBytes {
			p.errorAt(tok, "cannot mix bytes and nonbytes literals")
		}
		body := stringBody(tok.Lexeme[len(prefix):])
		rawMode := strings.Contains(prefix, "r")

		switch {
		case isBytes:
			b, err := decodeBytes(body, rawMode)
			if err != nil {
				p.errorAt(tok, err.Error())
			}
			raw = append(raw, b...)

		case strings.Contains(prefix, "f"):
			formatted = true
			fparts, err := p.parseFString(body, rawMode)
			if err != nil {
				p.errorAt(tok, err.Error())
			}
			parts = append(parts, fparts...)

		default:
			s, err := decodeString(body, rawMode)
			if err != nil {
				p.errorAt(tok, err.Error())
			}
			parts = append(parts, stringPart{text: s})
		}
	}

	if isBytes {
		if raw == nil {
			raw = []byte{}
		}
		return &ast.Constant{Pos: first.Position, Value: raw, Hint: hint}
	}
	if !formatted {
		var b strings.Builder
		for _, part := range parts {
			b.WriteString(part.text)
		}
		return &ast.Constant{Pos: first.Position, Value: b.String(), Hint: hint}
	}
	return &ast.JoinedStr{Pos: first.Position, Values: joinParts(first.Position, parts)}
}

// joinParts merges adjacent literal text and drops empty pieces.
func joinParts(pos Position, parts []stringPart) []ast.Expr {
	var values []ast.Expr
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			values = append(values, &ast.Constant{Pos: pos, Value: pending.String()})
			pending.Reset()
		}
	}
	for _, part := range parts {
		if part.field == nil {
			pending.WriteString(part.text)
			continue
		}
		flush()
		values = append(values, part.field)
	}
	flush()
	return values
}

func stringPrefix(lexeme string) string {
	i := strings.IndexAny(lexeme, `'"`)
	if i < 0 {
		return ""
	}
	return lexeme[:i]
}

// stringBody strips the quotes from a literal whose prefix is already gone.
func stringBody(quoted string) string {
	if len(quoted) >= 6 && (strings.HasPrefix(quoted, `"""`) || strings.HasPrefix(quoted, `'''`)) {
		return quoted[3 : len(quoted)-3]
	}
	return quoted[1 : len(quoted)-1]
}

func decodeString(body string, rawMode bool) (string, error) {
	if rawMode || !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		c = body[i]
		switch c {
		case '\n':
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(c)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n, width := octalEscape(body[i:])
			i += width - 1
			b.WriteRune(rune(n))
		case 'x', 'u', 'U':
			size := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if i+size >= len(body) {
				return "", errors.New("truncated \\" + string(c) + " escape")
			}
			n, err := strconv.ParseUint(body[i+1:i+1+size], 16, 32)
			if err != nil {
				return "", errors.New("truncated \\" + string(c) + " escape")
			}
			r := rune(n)
			if r >= 0xD800 && r <= 0xDFFF {
				return "", errors.New("surrogate code points are not supported")
			}
			if !utf8.ValidRune(r) {
				return "", errors.New("illegal Unicode character in escape")
			}
			b.WriteRune(r)
			i += size
		case 'N':
			return "", errors.New(`\N{...} escapes are not supported`)
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func decodeBytes(body string, rawMode bool) ([]byte, error) {
	for i := 0; i < len(body); i++ {
		if body[i] >= 0x80 {
			return nil, errors.New("bytes can only contain ASCII literal characters")
		}
	}
	if rawMode || !strings.Contains(body, `\`) {
		return []byte(body), nil
	}

	var out []byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			out = append(out, c)
			continue
		}
		i++
		c = body[i]
		switch c {
		case '\n':
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			out = append(out, c)
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n, width := octalEscape(body[i:])
			i += width - 1
			out = append(out, byte(n))
		case 'x':
			if i+2 >= len(body) {
				return nil, errors.New(`truncated \x escape`)
			}
			n, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return nil, errors.New(`truncated \x escape`)
			}
			out = append(out, byte(n))
			i += 2
		default:
			out = append(out, '\\', c)
		}
	}
	return out, nil
}

// octalEscape reads up to three octal digits.
func octalEscape(s string) (value int, width int) {
	for width < 3 && width < len(s) && s[width] >= '0' && s[width] <= '7' {
		value = value*8 + int(s[width]-'0')
		width++
	}
	return value, width
}

// parseFString splits an f-string body into literal text and replacement
// fields. Expressions are parsed with ParseExpression.
func (p *Parser) parseFString(body string, rawMode bool) ([]stringPart, error) {
	var parts []stringPart
	var lit strings.Builder

	flush := func() error {
		if lit.Len() == 0 {
			return nil
		}
		s, err := decodeString(lit.String(), rawMode)
		if err != nil {
			return err
		}
		parts = append(parts, stringPart{text: s})
		lit.Reset()
		return nil
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && !rawMode && i+1 < len(body):
			lit.WriteByte(c)
			i++
			lit.WriteByte(body[i])

		case c == '{' && i+1 < len(body) && body[i+1] == '{':
			lit.WriteByte('{')
			i++

		case c == '}' && i+1 < len(body) && body[i+1] == '}':
			lit.WriteByte('}')
			i++

		case c == '}':
			return nil, errors.New("f-string: single '}' is not allowed")

		case c == '{':
			if err := flush(); err != nil {
				return nil, err
			}
			fieldParts, next, err := p.parseReplacementField(body, i+1, rawMode)
			if err != nil {
				return nil, err
			}
			parts = append(parts, fieldParts...)
			i = next

		default:
			lit.WriteByte(c)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return parts, nil
}

// parseReplacementField parses one {expr[=][!c][:spec]} field starting just
// after '{'. It returns the index of the closing '}'. A self-documenting
// field yields its "expr=" text as a leading literal part.
func (p *Parser) parseReplacementField(body string, start int, rawMode bool) ([]stringPart, int, error) {
	end := scanFieldExpression(body, start)
	if end >= len(body) {
		return nil, 0, errors.New("f-string: expecting '}'")
	}
	exprText := body[start:end]
	if strings.TrimSpace(exprText) == "" {
		return nil, 0, errors.New("f-string: empty expression not allowed")
	}

	value, err := ParseExpression(p.filename, exprText)
	if err != nil {
		return nil, 0, errors.New("f-string: invalid expression: " + exprText)
	}

	var parts []stringPart
	field := &ast.FormattedValue{Pos: value.NodePos(), Value: value}
	i := end

	debug := false
	if body[i] == '=' {
		debug = true
		i++
		for i < len(body) && (body[i] == ' ' || body[i] == '\t') {
			i++
		}
		parts = append(parts, stringPart{text: body[start:i]})
	}

	if i < len(body) && body[i] == '!' {
		if i+1 >= len(body) || !strings.ContainsRune("rsa", rune(body[i+1])) {
			return nil, 0, errors.New("f-string: invalid conversion character")
		}
		field.Conversion = rune(body[i+1])
		i += 2
	}

	if i < len(body) && body[i] == ':' {
		specParts, close, err := p.parseFormatSpec(body, i+1, rawMode)
		if err != nil {
			return nil, 0, err
		}
		field.FormatSpec = &ast.JoinedStr{Pos: field.Pos, Values: joinParts(field.Pos, specParts)}
		i = close
	}

	if i >= len(body) || body[i] != '}' {
		return nil, 0, errors.New("f-string: expecting '}'")
	}
	if debug && field.Conversion == 0 && field.FormatSpec == nil {
		field.Conversion = 'r'
	}
	parts = append(parts, stringPart{field: field})
	return parts, i, nil
}

// scanFieldExpression finds where the expression of a replacement field
// stops: a top-level '}', ':', '!' (not '!='), or a '=' that is not part of
// a comparison operator and is followed by a field terminator.
func scanFieldExpression(body string, i int) int {
	depth := 0
	var quote byte
	for ; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		case '!':
			if depth == 0 && (i+1 >= len(body) || body[i+1] != '=') {
				return i
			}
			if i+1 < len(body) && body[i+1] == '=' {
				i++
			}
		case '=':
			if i+1 < len(body) && body[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("<>=!", body[i-1]) >= 0 {
				continue
			}
			if depth == 0 && isDebugEquals(body, i) {
				return i
			}
		}
	}
	return i
}

func isDebugEquals(body string, i int) bool {
	j := i + 1
	for j < len(body) && (body[j] == ' ' || body[j] == '\t') {
		j++
	}
	return j < len(body) && strings.IndexByte("!:}", body[j]) >= 0
}

// parseFormatSpec parses the format spec after ':' up to the field's
// closing '}', whose index it returns. Nested fields are allowed.
func (p *Parser) parseFormatSpec(body string, i int, rawMode bool) ([]stringPart, int, error) {
	var parts []stringPart
	var lit strings.Builder
	flush := func() error {
		if lit.Len() == 0 {
			return nil
		}
		s, err := decodeString(lit.String(), rawMode)
		if err != nil {
			return err
		}
		parts = append(parts, stringPart{text: s})
		lit.Reset()
		return nil
	}

	for ; i < len(body); i++ {
		c := body[i]
		switch c {
		case '{':
			if err := flush(); err != nil {
				return nil, 0, err
			}
			nested, next, err := p.parseReplacementField(body, i+1, rawMode)
			if err != nil {
				return nil, 0, err
			}
			parts = append(parts, nested...)
			i = next
		case '}':
			if err := flush(); err != nil {
				return nil, 0, err
			}
			return parts, i, nil
		default:
			lit.WriteByte(c)
		}
	}
	return nil, 0, errors.New("f-string: expecting '}'")
}
