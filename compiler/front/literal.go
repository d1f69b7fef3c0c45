package front

import (
	"regexp"

	"tlog.app/go/loc"

	"github.com/slowlang/tealc/compiler/back"
	"github.com/slowlang/tealc/compiler/ir"
)

type (
	IntExpr struct {
		node
		v uint64
	}

	EnumIntExpr struct {
		node
		name string
	}

	BytesExpr struct {
		node
		arg string
	}

	AddrExpr struct {
		node
		addr string
	}

	TmplExpr struct {
		node
		op   *ir.Op
		tp   ir.Type
		name string
	}

	// Base is a bytes literal encoding.
	Base string
)

const (
	UTF8   Base = "utf8"
	Base16 Base = "base16"
	Base32 Base = "base32"
	Base64 Base = "base64"
)

var tmplName = regexp.MustCompile(`^TMPL_[A-Z0-9_]+$`)

var OnComplete = struct {
	NoOp, OptIn, CloseOut, ClearState, UpdateApplication, DeleteApplication *EnumIntExpr
}{
	NoOp:              enumInt("NoOp"),
	OptIn:             enumInt("OptIn"),
	CloseOut:          enumInt("CloseOut"),
	ClearState:        enumInt("ClearState"),
	UpdateApplication: enumInt("UpdateApplication"),
	DeleteApplication: enumInt("DeleteApplication"),
}

var TxnType = struct {
	Unknown, Payment, KeyRegistration, AssetConfig, AssetTransfer, AssetFreeze, ApplicationCall *EnumIntExpr
}{
	Unknown:         enumInt("unknown"),
	Payment:         enumInt("pay"),
	KeyRegistration: enumInt("keyreg"),
	AssetConfig:     enumInt("acfg"),
	AssetTransfer:   enumInt("axfer"),
	AssetFreeze:     enumInt("afrz"),
	ApplicationCall: enumInt("appl"),
}

func Int(v uint64) *IntExpr {
	return &IntExpr{node: node{pc: here()}, v: v}
}

func (x *IntExpr) TypeOf() ir.Type { return ir.Uint64 }

func (x *IntExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	return b.Single(ir.NewInstr(x, ir.OpInt, x.v)), nil
}

// EnumInt is a named integer constant like OptIn or pay.
func EnumInt(name string) *EnumIntExpr {
	return enumIntAt(here(), name)
}

func enumInt(name string) *EnumIntExpr {
	return enumIntAt(0, name)
}

func enumIntAt(pc loc.PC, name string) *EnumIntExpr {
	x := &EnumIntExpr{node: node{pc: pc}, name: name}

	if _, ok := back.IntEnum[name]; !ok {
		x.fail(ir.NewInputError("unknown int enum: %q", name))
	}

	return x
}

func (x *EnumIntExpr) TypeOf() ir.Type { return ir.Uint64 }

func (x *EnumIntExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.Single(ir.NewInstr(x, ir.OpInt, x.name)), nil
}

// Bytes is a utf8 string constant.
func Bytes(s string) *BytesExpr {
	return &BytesExpr{node: node{pc: here()}, arg: back.Quote([]byte(s))}
}

// BytesBase is a constant given in a base16, base32 or base64 encoding.
func BytesBase(base Base, s string) *BytesExpr {
	x := &BytesExpr{node: node{pc: here()}}

	switch base {
	case Base16:
		if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
		}

		x.arg = "0x" + s
	case Base32, Base64:
		x.arg = string(base) + "(" + s + ")"
	default:
		x.fail(ir.NewInputError("invalid base %q, need base16, base32 or base64", base))
		return x
	}

	if _, err := back.ParseBytes(x.arg); err != nil {
		x.fail(ir.NewInputError("invalid %v value %q: %v", base, s, err))
	}

	return x
}

func (x *BytesExpr) TypeOf() ir.Type { return ir.Bytes }

func (x *BytesExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.Single(ir.NewInstr(x, ir.OpByte, x.arg)), nil
}

// Addr is a 58 character account address constant.
func Addr(a string) *AddrExpr {
	x := &AddrExpr{node: node{pc: here()}, addr: a}

	if _, err := back.DecodeAddress(a); err != nil {
		x.fail(ir.NewInputError("invalid address %q: %v", a, err))
	}

	return x
}

func (x *AddrExpr) TypeOf() ir.Type { return ir.Bytes }

func (x *AddrExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.Single(ir.NewInstr(x, ir.OpAddr, x.addr)), nil
}

// TmplInt is an integer placeholder substituted after compilation.
func TmplInt(name string) *TmplExpr { return tmpl(here(), ir.OpInt, ir.Uint64, name) }

func TmplBytes(name string) *TmplExpr { return tmpl(here(), ir.OpByte, ir.Bytes, name) }

func TmplAddr(name string) *TmplExpr { return tmpl(here(), ir.OpAddr, ir.Bytes, name) }

func tmpl(pc loc.PC, op *ir.Op, tp ir.Type, name string) *TmplExpr {
	x := &TmplExpr{node: node{pc: pc}, op: op, tp: tp, name: name}

	if !tmplName.MatchString(name) {
		x.fail(ir.NewInputError("%s is not a valid template variable", name))
	}

	return x
}

func (x *TmplExpr) TypeOf() ir.Type { return x.tp }

func (x *TmplExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.Single(ir.NewInstr(x, x.op, x.name)), nil
}
