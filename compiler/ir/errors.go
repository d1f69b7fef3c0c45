package ir

import (
	"fmt"
	"strings"

	"tlog.app/go/loc"
)

type (
	// InputError is caused by the compiled program or compilation options.
	InputError struct {
		Msg string
	}

	// InternalError is a program the backend can't represent:
	// op not available at the version, unresolved slot, malformed literal.
	InternalError struct {
		Msg string
	}

	TypeError struct {
		Actual   Type
		Expected Type

		Msg string
	}

	// AssertionError is a defect in the compiler itself.
	AssertionError struct {
		Msg string
	}

	CompileError struct {
		Msg  string
		Expr Expr
	}

	CompileErrors []*CompileError
)

func NewInputError(f string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(f, args...)}
}

func NewInternalError(f string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(f, args...)}
}

func (e *InputError) Error() string     { return e.Msg }
func (e *InternalError) Error() string  { return e.Msg }
func (e *AssertionError) Error() string { return "assertion failed: " + e.Msg }

func (e *TypeError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}

	return fmt.Sprintf("%v while expected %v", e.Actual, e.Expected)
}

// Loc returns the place where the offending expression was built if known.
func (e *CompileError) Loc() (pc loc.PC) {
	if l, ok := e.Expr.(Locator); ok {
		pc = l.Loc()
	}

	return pc
}

func (e *CompileError) Error() string {
	if pc := e.Loc(); pc != 0 {
		return fmt.Sprintf("%s (at %v)", e.Msg, pc)
	}

	return e.Msg
}

func (e CompileErrors) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "encountered %d error(s) during compilation", len(e))

	for i, x := range e {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}

		b.WriteString(x.Error())
	}

	return b.String()
}
