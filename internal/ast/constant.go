package ast

import (
	"bytes"
	"math"
	"math/big"
)

// EllipsisType is the value of the `...` literal.
type EllipsisType struct{}

var Ellipsis = EllipsisType{}

// ConstantKind names the literal sub-kind of a Constant value.
func ConstantKind(v any) string {
	switch v.(type) {
	case nil:
		return "None"
	case bool:
		return "bool"
	case *big.Int:
		return "int"
	case float64:
		return "float"
	case complex128:
		return "complex"
	case string:
		return "str"
	case []byte:
		return "bytes"
	case EllipsisType:
		return "Ellipsis"
	default:
		return "unknown"
	}
}

// ConstantEqual compares two literal values by type and value. NaN equals NaN
// so a regenerated float('nan')-style literal does not read as a divergence.
func ConstantEqual(a, b any) bool {
	if ConstantKind(a) != ConstantKind(b) {
		return false
	}
	switch av := a.(type) {
	case nil:
		return true
	case bool:
		return av == b.(bool)
	case *big.Int:
		return av.Cmp(b.(*big.Int)) == 0
	case float64:
		return floatEqual(av, b.(float64))
	case complex128:
		bv := b.(complex128)
		return floatEqual(real(av), real(bv)) && floatEqual(imag(av), imag(bv))
	case string:
		return av == b.(string)
	case []byte:
		return bytes.Equal(av, b.([]byte))
	case EllipsisType:
		return true
	}
	return false
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
