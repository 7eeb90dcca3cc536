package unparser

import (
	"github.com/Masterminds/semver/v3"
	"roundtrip/internal/ast"
	"roundtrip/internal/errors"
)

// Language versions that introduced syntax the unparser can emit.
var (
	v35  = semver.MustParse("3.5")
	v36  = semver.MustParse("3.6")
	v38  = semver.MustParse("3.8")
	v39  = semver.MustParse("3.9")
	v311 = semver.MustParse("3.11")
	v312 = semver.MustParse("3.12")
)

// requires fails with an UnsupportedNodeError when the target predates the
// version that introduced feature.
func (u *Unparser) requires(n ast.Node, feature string, since *semver.Version) error {
	if u.opts.Target.LessThan(since) {
		return errors.Unsupported(n, "%s requires %s, target is %s", feature, shortVersion(since), shortVersion(u.opts.Target))
	}
	return nil
}

func (u *Unparser) targetAtLeast(v *semver.Version) bool {
	return !u.opts.Target.LessThan(v)
}

func shortVersion(v *semver.Version) string {
	return v.Original()
}

// isClassicDecorator reports whether e is a dotted name, optionally called,
// which is all decorators could be before relaxed decorator grammar.
func isClassicDecorator(e ast.Expr) bool {
	if call, ok := e.(*ast.Call); ok {
		e = call.Func
	}
	for {
		switch n := e.(type) {
		case *ast.Name:
			return true
		case *ast.Attribute:
			e = n.Value
		default:
			return false
		}
	}
}
