package front

import (
	"tlog.app/go/loc"

	"github.com/slowlang/tealc/compiler/ir"
)

type (
	// ScratchVar is a typed scratch slot.
	ScratchVar struct {
		slot ir.Slot
		tp   ir.Type
	}

	StoreExpr struct {
		node

		slot ir.Slot
		val  ir.Expr
	}

	LoadExpr struct {
		node

		slot ir.Slot
		tp   ir.Type
	}

	// MaybeValue is an op returning a value and a flag telling if the value exists.
	// Both are saved into scratch slots, so the expression itself has no value.
	MaybeValue struct {
		node

		op   *ir.Op
		imm  []any
		args []ir.Expr
		tp   ir.Type

		ok, val ir.Slot
	}
)

var assetHoldingFields = map[string]ir.Type{
	"AssetBalance": ir.Uint64,
	"AssetFrozen":  ir.Uint64,
}

var assetParamsFields = map[string]ir.Type{
	"AssetTotal":         ir.Uint64,
	"AssetDecimals":      ir.Uint64,
	"AssetDefaultFrozen": ir.Uint64,
	"AssetUnitName":      ir.Bytes,
	"AssetName":          ir.Bytes,
	"AssetURL":           ir.Bytes,
	"AssetMetadataHash":  ir.Bytes,
	"AssetManager":       ir.Bytes,
	"AssetReserve":       ir.Bytes,
	"AssetFreeze":        ir.Bytes,
	"AssetClawback":      ir.Bytes,
}

// ScratchVar allocates a new slot. tp of AnyType accepts any value.
func (p *Program) ScratchVar(tp ir.Type) *ScratchVar {
	return &ScratchVar{slot: p.newSlot(), tp: tp}
}

func (v *ScratchVar) Type() ir.Type { return v.tp }

// Store saves the value into the slot.
func (v *ScratchVar) Store(val ir.Expr) *StoreExpr {
	x := &StoreExpr{node: node{pc: here()}, slot: v.slot, val: val}

	x.requireType(val, v.tp)

	return x
}

// Load pushes the slot value.
func (v *ScratchVar) Load() *LoadExpr {
	return &LoadExpr{node: node{pc: here()}, slot: v.slot, tp: v.tp}
}

func (x *StoreExpr) TypeOf() ir.Type { return ir.None }

func (x *StoreExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.FromOp(ir.NewInstr(x, ir.OpStore, x.slot), x.val)
}

func (x *LoadExpr) TypeOf() ir.Type { return x.tp }

func (x *LoadExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	return b.Single(ir.NewInstr(x, ir.OpLoad, x.slot)), nil
}

func (p *Program) maybeValue(pc loc.PC, op *ir.Op, tp ir.Type, imm []any, args ...ir.Expr) *MaybeValue {
	return &MaybeValue{
		node: node{pc: pc},
		op:   op,
		imm:  imm,
		args: args,
		tp:   tp,
		ok:   p.newSlot(),
		val:  p.newSlot(),
	}
}

// HasValue is 1 if the value exists, 0 otherwise.
// It's valid after the MaybeValue itself was evaluated.
func (x *MaybeValue) HasValue() *LoadExpr {
	return &LoadExpr{node: node{pc: here()}, slot: x.ok, tp: ir.Uint64}
}

// Value is the value or zero value if it doesn't exist.
func (x *MaybeValue) Value() *LoadExpr {
	return &LoadExpr{node: node{pc: here()}, slot: x.val, tp: x.tp}
}

func (x *MaybeValue) TypeOf() ir.Type { return ir.None }

func (x *MaybeValue) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	if err := ir.RequireVersion(x.op.Name, x.op.MinVersion, b.Version); err != nil {
		return ir.Fragment{}, err
	}

	f, err := b.FromOp(ir.NewInstr(x, x.op, x.imm...), x.args...)
	if err != nil {
		return ir.Fragment{}, err
	}

	ok := b.NewSimple(ir.NewInstr(x, ir.OpStore, x.ok))
	val := b.NewSimple(ir.NewInstr(x, ir.OpStore, x.val))

	b.Link(f.Exit, ok)
	b.Link(ok, val)

	return ir.Fragment{Entry: f.Entry, Exit: val}, nil
}

// GlobalGetEx reads a global state key of another application.
func (p *Program) GlobalGetEx(app, key ir.Expr) *MaybeValue {
	x := p.maybeValue(here(), ir.OpAppGlobalGetEx, ir.AnyType, nil, app, key)

	x.requireType(app, ir.Uint64)
	x.requireType(key, ir.Bytes)

	return x
}

// LocalGetEx reads a local state key of the account in another application.
func (p *Program) LocalGetEx(account, app, key ir.Expr) *MaybeValue {
	x := p.maybeValue(here(), ir.OpAppLocalGetEx, ir.AnyType, nil, account, app, key)

	x.requireType(account, ir.Uint64)
	x.requireType(app, ir.Uint64)
	x.requireType(key, ir.Bytes)

	return x
}

// AssetHolding reads an asset holding field of the account.
func (p *Program) AssetHolding(name string, account, asset ir.Expr) *MaybeValue {
	tp, ok := assetHoldingFields[name]
	if !ok {
		tp = ir.AnyType
	}

	x := p.maybeValue(here(), ir.OpAssetHoldingGet, tp, []any{name}, account, asset)

	if !ok {
		x.fail(ir.NewInputError("unknown asset holding field: %v", name))
	}

	x.requireType(account, ir.Uint64)
	x.requireType(asset, ir.Uint64)

	return x
}

// AssetParams reads an asset parameter.
func (p *Program) AssetParams(name string, asset ir.Expr) *MaybeValue {
	tp, ok := assetParamsFields[name]
	if !ok {
		tp = ir.AnyType
	}

	x := p.maybeValue(here(), ir.OpAssetParamsGet, tp, []any{name}, asset)

	if !ok {
		x.fail(ir.NewInputError("unknown asset params field: %v", name))
	}

	x.requireType(asset, ir.Uint64)

	return x
}

func Balance(account ir.Expr) *OpExpr {
	return appOp(here(), ir.OpBalance, ir.Uint64, []ir.Expr{account}, ir.Uint64)
}

func OptedIn(account, app ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppOptedIn, ir.Uint64, []ir.Expr{account, app}, ir.Uint64, ir.Uint64)
}

func GlobalGet(key ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppGlobalGet, ir.AnyType, []ir.Expr{key}, ir.Bytes)
}

func GlobalPut(key, val ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppGlobalPut, ir.None, []ir.Expr{key, val}, ir.Bytes, ir.AnyType)
}

func GlobalDel(key ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppGlobalDel, ir.None, []ir.Expr{key}, ir.Bytes)
}

func LocalGet(account, key ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppLocalGet, ir.AnyType, []ir.Expr{account, key}, ir.Uint64, ir.Bytes)
}

func LocalPut(account, key, val ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppLocalPut, ir.None, []ir.Expr{account, key, val}, ir.Uint64, ir.Bytes, ir.AnyType)
}

func LocalDel(account, key ir.Expr) *OpExpr {
	return appOp(here(), ir.OpAppLocalDel, ir.None, []ir.Expr{account, key}, ir.Uint64, ir.Bytes)
}

func appOp(pc loc.PC, op *ir.Op, tp ir.Type, args []ir.Expr, types ...ir.Type) *OpExpr {
	x := &OpExpr{node: node{pc: pc}, op: op, tp: tp, args: args}

	for i, a := range args {
		x.requireType(a, types[i])
	}

	return x
}
