package ir

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// Component is an emittable unit: *Instr or *Label.
	Component interface {
		Origin() Expr
	}

	// Arg is one of uint64, string or Slot.
	Arg = any

	Instr struct {
		Op   *Op
		Args []Arg

		Expr Expr
	}

	Label struct {
		Name string

		Expr Expr
	}
)

// NewInstr creates an instruction.
// Integer args of any Go integer type are stored as uint64.
func NewInstr(x Expr, op *Op, args ...any) *Instr {
	in := &Instr{
		Op:   op,
		Expr: x,
	}

	if len(args) != 0 {
		in.Args = make([]Arg, len(args))
	}

	for i, a := range args {
		switch a := a.(type) {
		case int:
			in.Args[i] = uint64(a)
		case int64:
			in.Args[i] = uint64(a)
		case uint32:
			in.Args[i] = uint64(a)
		case uint:
			in.Args[i] = uint64(a)
		case uint64, string, Slot:
			in.Args[i] = a
		default:
			panic(&AssertionError{Msg: fmt.Sprintf("unsupported instruction arg: %T", a)})
		}
	}

	return in
}

func NewLabel(x Expr, name string) *Label {
	return &Label{Name: name, Expr: x}
}

func (in *Instr) Origin() Expr { return in.Expr }
func (l *Label) Origin() Expr  { return l.Expr }

// Slots returns slot references among the args.
func (in *Instr) Slots() (r []Slot) {
	for _, a := range in.Args {
		if s, ok := a.(Slot); ok {
			r = append(r, s)
		}
	}

	return r
}

// AssignSlot replaces every reference to s with its index.
func (in *Instr) AssignSlot(s Slot, idx uint64) {
	for i, a := range in.Args {
		if x, ok := a.(Slot); ok && x == s {
			in.Args[i] = idx
		}
	}
}

func (in *Instr) String() string {
	var b strings.Builder

	b.WriteString(in.Op.Name)

	for _, a := range in.Args {
		b.WriteByte(' ')
		b.WriteString(fmtAny(a))
	}

	return b.String()
}

func (l *Label) String() string {
	return l.Name + ":"
}

func fmtAny(a any) string {
	switch a := a.(type) {
	case uint64:
		return strconv.FormatUint(a, 10)
	case string:
		return a
	case Slot:
		return a.String()
	default:
		return "<?>"
	}
}
