package front

import (
	"tlog.app/go/loc"

	"github.com/slowlang/tealc/compiler/ir"
)

type (
	// OpExpr is an op applied to its arguments evaluated left to right.
	OpExpr struct {
		node

		op   *ir.Op
		tp   ir.Type
		args []ir.Expr
	}

	// NaryExpr folds two or more arguments with a binary op.
	NaryExpr struct {
		node

		op   *ir.Op
		tp   ir.Type
		args []ir.Expr
	}
)

func Add(l, r ir.Expr) *OpExpr   { return binary(here(), ir.OpAdd, ir.Uint64, ir.Uint64, l, r) }
func Minus(l, r ir.Expr) *OpExpr { return binary(here(), ir.OpMinus, ir.Uint64, ir.Uint64, l, r) }
func Mul(l, r ir.Expr) *OpExpr   { return binary(here(), ir.OpMul, ir.Uint64, ir.Uint64, l, r) }
func Div(l, r ir.Expr) *OpExpr   { return binary(here(), ir.OpDiv, ir.Uint64, ir.Uint64, l, r) }
func Mod(l, r ir.Expr) *OpExpr   { return binary(here(), ir.OpMod, ir.Uint64, ir.Uint64, l, r) }
func Lt(l, r ir.Expr) *OpExpr    { return binary(here(), ir.OpLt, ir.Uint64, ir.Uint64, l, r) }
func Gt(l, r ir.Expr) *OpExpr    { return binary(here(), ir.OpGt, ir.Uint64, ir.Uint64, l, r) }
func Le(l, r ir.Expr) *OpExpr    { return binary(here(), ir.OpLe, ir.Uint64, ir.Uint64, l, r) }
func Ge(l, r ir.Expr) *OpExpr    { return binary(here(), ir.OpGe, ir.Uint64, ir.Uint64, l, r) }

func BitwiseAnd(l, r ir.Expr) *OpExpr {
	return binary(here(), ir.OpBitwiseAnd, ir.Uint64, ir.Uint64, l, r)
}

func BitwiseOr(l, r ir.Expr) *OpExpr {
	return binary(here(), ir.OpBitwiseOr, ir.Uint64, ir.Uint64, l, r)
}

func BitwiseXor(l, r ir.Expr) *OpExpr {
	return binary(here(), ir.OpBitwiseXor, ir.Uint64, ir.Uint64, l, r)
}

// Eq compares two values of the same type.
func Eq(l, r ir.Expr) *OpExpr { return binary(here(), ir.OpEq, r.TypeOf(), ir.Uint64, l, r) }

func Neq(l, r ir.Expr) *OpExpr { return binary(here(), ir.OpNeq, r.TypeOf(), ir.Uint64, l, r) }

func Not(x ir.Expr) *OpExpr        { return unary(here(), ir.OpLogicNot, ir.Uint64, ir.Uint64, x) }
func BitwiseNot(x ir.Expr) *OpExpr { return unary(here(), ir.OpBitwiseNot, ir.Uint64, ir.Uint64, x) }
func Btoi(x ir.Expr) *OpExpr       { return unary(here(), ir.OpBtoi, ir.Bytes, ir.Uint64, x) }
func Itob(x ir.Expr) *OpExpr       { return unary(here(), ir.OpItob, ir.Uint64, ir.Bytes, x) }
func Len(x ir.Expr) *OpExpr        { return unary(here(), ir.OpLen, ir.Bytes, ir.Uint64, x) }
func Sha256(x ir.Expr) *OpExpr     { return unary(here(), ir.OpSha256, ir.Bytes, ir.Bytes, x) }
func Sha512_256(x ir.Expr) *OpExpr { return unary(here(), ir.OpSha512_256, ir.Bytes, ir.Bytes, x) }
func Keccak256(x ir.Expr) *OpExpr  { return unary(here(), ir.OpKeccak256, ir.Bytes, ir.Bytes, x) }

// Pop discards a value.
func Pop(x ir.Expr) *OpExpr { return unary(here(), ir.OpPop, ir.AnyType, ir.None, x) }

// Return ends the program with the given result.
func Return(x ir.Expr) *OpExpr { return unary(here(), ir.OpReturn, ir.Uint64, ir.None, x) }

// Substring takes bytes from start to end of s.
func Substring(s, start, end ir.Expr) *OpExpr {
	x := &OpExpr{node: node{pc: here()}, op: ir.OpSubstring3, tp: ir.Bytes, args: []ir.Expr{s, start, end}}

	x.requireType(s, ir.Bytes)
	x.requireType(start, ir.Uint64)
	x.requireType(end, ir.Uint64)

	return x
}

// Ed25519Verify checks the signature of data by the public key.
func Ed25519Verify(data, sig, key ir.Expr) *OpExpr {
	x := &OpExpr{node: node{pc: here()}, op: ir.OpEd25519, tp: ir.Uint64, args: []ir.Expr{data, sig, key}}

	x.requireType(data, ir.Bytes)
	x.requireType(sig, ir.Bytes)
	x.requireType(key, ir.Bytes)

	return x
}

func binary(pc loc.PC, op *ir.Op, in, out ir.Type, l, r ir.Expr) *OpExpr {
	x := &OpExpr{node: node{pc: pc}, op: op, tp: out, args: []ir.Expr{l, r}}

	if in == ir.None {
		x.fail(ir.NewInputError("%v: can't compare values of type none", op))
	}

	x.requireType(l, in)
	x.requireType(r, in)

	return x
}

func unary(pc loc.PC, op *ir.Op, in, out ir.Type, arg ir.Expr) *OpExpr {
	x := &OpExpr{node: node{pc: pc}, op: op, tp: out, args: []ir.Expr{arg}}

	x.requireType(arg, in)

	return x
}

func (x *OpExpr) TypeOf() ir.Type { return x.tp }

func (x *OpExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	if err := ir.RequireVersion(x.op.Name, x.op.MinVersion, b.Version); err != nil {
		return ir.Fragment{}, err
	}

	return b.FromOp(ir.NewInstr(x, x.op), x.args...)
}

// And is true if all the args are non-zero.
func And(args ...ir.Expr) *NaryExpr { return nary(here(), ir.OpLogicAnd, ir.Uint64, ir.Uint64, args) }

func Or(args ...ir.Expr) *NaryExpr { return nary(here(), ir.OpLogicOr, ir.Uint64, ir.Uint64, args) }

func Concat(args ...ir.Expr) *NaryExpr { return nary(here(), ir.OpConcat, ir.Bytes, ir.Bytes, args) }

func nary(pc loc.PC, op *ir.Op, in, out ir.Type, args []ir.Expr) *NaryExpr {
	x := &NaryExpr{node: node{pc: pc}, op: op, tp: out, args: args}

	if len(args) < 2 {
		x.fail(ir.NewInputError("%v requires at least two arguments, got %d", op, len(args)))
	}

	for _, a := range args {
		x.requireType(a, in)
	}

	return x
}

func (x *NaryExpr) TypeOf() ir.Type { return x.tp }

func (x *NaryExpr) Lower(b *ir.Builder) (f ir.Fragment, err error) {
	if err = x.check(); err != nil {
		return
	}

	if err = ir.RequireVersion(x.op.Name, x.op.MinVersion, b.Version); err != nil {
		return
	}

	for i, a := range x.args {
		af, err := a.Lower(b)
		if err != nil {
			return ir.Fragment{}, err
		}

		if i == 0 {
			f = af
			continue
		}

		b.Link(f.Exit, af.Entry)

		op := b.NewSimple(ir.NewInstr(x, x.op))
		b.Link(af.Exit, op)

		f.Exit = op
	}

	return f, nil
}
