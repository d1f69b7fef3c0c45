package front

import (
	"github.com/slowlang/tealc/compiler/ir"
)

type (
	IfExpr struct {
		node

		cond      ir.Expr
		then, els ir.Expr
	}

	CondExpr struct {
		node

		pairs [][2]ir.Expr
		tp    ir.Type
	}

	SeqExpr struct {
		node

		exprs []ir.Expr
	}

	AssertExpr struct {
		node

		cond ir.Expr
	}

	ErrExpr struct {
		node
	}

	// NonceExpr makes otherwise equal programs different.
	NonceExpr struct {
		node

		nonce *BytesExpr
		child ir.Expr
	}
)

// If evaluates then if cond is non-zero, els otherwise.
// els may be nil, then the then branch must have no value.
func If(cond, then, els ir.Expr) *IfExpr {
	x := &IfExpr{node: node{pc: here()}, cond: cond, then: then, els: els}

	x.requireType(cond, ir.Uint64)

	if els == nil {
		x.requireType(then, ir.None)
	} else {
		x.requireType(then, els.TypeOf())
	}

	return x
}

func (x *IfExpr) TypeOf() ir.Type { return x.then.TypeOf() }

func (x *IfExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	cond, err := x.cond.Lower(b)
	if err != nil {
		return ir.Fragment{}, err
	}

	then, err := x.then.Lower(b)
	if err != nil {
		return ir.Fragment{}, err
	}

	end := b.NewSimple()
	br := b.NewCond()

	b.Link(cond.Exit, br)
	b.Link(then.Exit, end)

	if x.els == nil {
		b.Branch(br, then.Entry, end)

		return ir.Fragment{Entry: cond.Entry, Exit: end}, nil
	}

	els, err := x.els.Lower(b)
	if err != nil {
		return ir.Fragment{}, err
	}

	b.Branch(br, then.Entry, els.Entry)
	b.Link(els.Exit, end)

	return ir.Fragment{Entry: cond.Entry, Exit: end}, nil
}

// Cond evaluates the value of the first pair which condition is non-zero.
// The program fails if there is none.
func Cond(pairs ...[2]ir.Expr) *CondExpr {
	x := &CondExpr{node: node{pc: here()}, pairs: pairs, tp: ir.None}

	if len(pairs) == 0 {
		x.fail(ir.NewInputError("Cond requires at least one [condition, value]"))
		return x
	}

	x.tp = pairs[0][1].TypeOf()

	for _, p := range pairs {
		x.requireType(p[0], ir.Uint64)
		x.requireType(p[1], x.tp)
	}

	return x
}

func (x *CondExpr) TypeOf() ir.Type { return x.tp }

func (x *CondExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	end := b.NewSimple()
	prev := ir.Nil

	f := ir.Fragment{Entry: ir.Nil, Exit: end}

	for _, p := range x.pairs {
		cond, err := p[0].Lower(b)
		if err != nil {
			return ir.Fragment{}, err
		}

		val, err := p[1].Lower(b)
		if err != nil {
			return ir.Fragment{}, err
		}

		br := b.NewCond()

		b.Link(cond.Exit, br)
		b.Link(val.Exit, end)
		b.Branch(br, val.Entry, ir.Nil)

		if prev == ir.Nil {
			f.Entry = cond.Entry
		} else {
			b.Block(prev).False = cond.Entry
		}

		prev = br
	}

	fail := b.NewSimple(ir.NewInstr(x, ir.OpErr))
	b.Block(prev).False = fail

	return f, nil
}

// Seq evaluates expressions in order.
// All of them except the last must have no value.
func Seq(exprs ...ir.Expr) *SeqExpr {
	x := &SeqExpr{node: node{pc: here()}, exprs: exprs}

	if len(exprs) == 0 {
		x.fail(ir.NewInputError("Seq requires at least one expression"))
		return x
	}

	for _, e := range exprs[:len(exprs)-1] {
		x.requireType(e, ir.None)
	}

	return x
}

func (x *SeqExpr) TypeOf() ir.Type {
	if len(x.exprs) == 0 {
		return ir.None
	}

	return x.exprs[len(x.exprs)-1].TypeOf()
}

func (x *SeqExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.Seq(x.exprs...)
}

// Assert fails the program if cond is zero.
func Assert(cond ir.Expr) *AssertExpr {
	x := &AssertExpr{node: node{pc: here()}, cond: cond}

	x.requireType(cond, ir.Uint64)

	return x
}

func (x *AssertExpr) TypeOf() ir.Type { return ir.None }

func (x *AssertExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	if b.Version >= ir.OpAssert.MinVersion {
		return b.FromOp(ir.NewInstr(x, ir.OpAssert), x.cond)
	}

	cond, err := x.cond.Lower(b)
	if err != nil {
		return ir.Fragment{}, err
	}

	end := b.NewSimple()
	fail := b.NewSimple(ir.NewInstr(x, ir.OpErr))
	br := b.NewCond()

	b.Branch(br, end, fail)
	b.Link(cond.Exit, br)

	return ir.Fragment{Entry: cond.Entry, Exit: end}, nil
}

// Err fails the program immediately.
func Err() *ErrExpr {
	return &ErrExpr{node: node{pc: here()}}
}

func (x *ErrExpr) TypeOf() ir.Type { return ir.None }

func (x *ErrExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	return b.Single(ir.NewInstr(x, ir.OpErr)), nil
}

// Nonce pushes and pops a unique value in front of child.
// It's used to get a different program hash for the same logic.
func Nonce(base Base, nonce string, child ir.Expr) *NonceExpr {
	x := &NonceExpr{node: node{pc: here()}, child: child}

	if base == UTF8 {
		x.nonce = Bytes(nonce)
	} else {
		x.nonce = BytesBase(base, nonce)
	}

	x.fail(x.nonce.Err())

	return x
}

func (x *NonceExpr) TypeOf() ir.Type { return x.child.TypeOf() }

func (x *NonceExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	pop := &OpExpr{node: x.node, op: ir.OpPop, tp: ir.None, args: []ir.Expr{x.nonce}}

	return b.Seq(pop, x.child)
}
