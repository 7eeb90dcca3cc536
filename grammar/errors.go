package grammar

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LocateError extracts the position and bare message from a lexer error.
// ok is false when err carries no position.
func LocateError(err error) (pos lexer.Position, message string, ok bool) {
	var pe participle.Error
	if !errors.As(err, &pe) {
		return lexer.Position{}, "", false
	}
	return pe.Position(), pe.Message(), true
}
