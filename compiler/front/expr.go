package front

import (
	"tlog.app/go/errors"
	"tlog.app/go/loc"

	"github.com/slowlang/tealc/compiler/ir"
)

type (
	// node is embedded into every expression.
	// Construction errors are kept and reported when the expression is lowered.
	node struct {
		pc  loc.PC
		err error
	}

	// Program allocates scratch slots for the expressions of one program.
	Program struct {
		scratch ir.Scratch
	}
)

func NewProgram() *Program {
	return &Program{}
}

// Slots is the number of scratch slots allocated.
func (p *Program) Slots() int { return p.scratch.Len() }

func (p *Program) newSlot() ir.Slot { return p.scratch.New() }

// here returns the place the public constructor was called from.
func here() loc.PC {
	return loc.Caller(2)
}

func (n *node) Loc() loc.PC { return n.pc }

// Err returns the construction error if any.
func (n *node) Err() error { return n.err }

func (n *node) fail(err error) {
	if n.err != nil || err == nil {
		return
	}

	n.err = err
}

func (n *node) requireType(x ir.Expr, exp ir.Type) {
	n.fail(ir.RequireType(x.TypeOf(), exp))
}

func (n *node) check() error {
	if n.err == nil {
		return nil
	}

	if n.pc == 0 {
		return n.err
	}

	return errors.Wrap(n.err, "%v", n.pc)
}
