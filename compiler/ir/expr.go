package ir

import (
	"fmt"

	"tlog.app/go/loc"
)

type (
	Type int

	// Expr is a front-end node which can be lowered to a graph fragment.
	// Expressions are type checked when constructed.
	Expr interface {
		TypeOf() Type
		Lower(b *Builder) (Fragment, error)
	}

	// Locator is implemented by expressions remembering where they were built.
	Locator interface {
		Loc() loc.PC
	}

	Options struct {
		Mode    Mode
		Version int
	}
)

const (
	Uint64 Type = iota + 1
	Bytes
	AnyType
	None
)

// TypesMatch reports whether values of type a can be used where b is expected and vice versa.
func TypesMatch(a, b Type) bool {
	switch {
	case a == None || b == None:
		return a == b
	case a == AnyType || b == AnyType:
		return true
	default:
		return a == b
	}
}

func RequireType(actual, expected Type) error {
	if TypesMatch(actual, expected) {
		return nil
	}

	return &TypeError{Actual: actual, Expected: expected}
}

// RequireVersion fails if what needs a newer version than the one being compiled.
func RequireVersion(what string, min, version int) error {
	if version >= min {
		return nil
	}

	return &InputError{Msg: fmt.Sprintf("version too low to use %s: minimum version needed is %d, but current version being compiled is %d", what, min, version)}
}

func (t Type) String() string {
	switch t {
	case Uint64:
		return "uint64"
	case Bytes:
		return "bytes"
	case AnyType:
		return "anytype"
	case None:
		return "none"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}
