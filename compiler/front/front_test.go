package front

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/tealc/compiler"
	"github.com/slowlang/tealc/compiler/ir"
)

const testAddr = "WSJHNPJ6YCLX5K4GUMQ4ISPK3ABMS3AL3F6CSVQTCUI5F4I65PWEMCWT3M"

func compile(t *testing.T, x ir.Expr, mode ir.Mode, version int, pack bool) string {
	t.Helper()

	r, err := compiler.Compile(context.Background(), x, compiler.Options{Mode: mode, Version: version, AssembleConstants: pack})
	require.NoError(t, err)

	return r
}

func compileErr(x ir.Expr, mode ir.Mode, version int) error {
	_, err := compiler.Compile(context.Background(), x, compiler.Options{Mode: mode, Version: version})
	return err
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestIfElse(t *testing.T) {
	x := Return(If(Eq(Txn("TypeEnum"), TxnType.Payment), Int(1), Int(0)))

	assert.Equal(t, lines(
		"#pragma version 2",
		"txn TypeEnum",
		"int pay",
		"==",
		"bnz l2",
		"int 0",
		"b l3",
		"l2:",
		"int 1",
		"l3:",
		"return",
	), compile(t, x, ir.ModeSignature, 2, false))
}

func TestIfTypes(t *testing.T) {
	var terr *ir.TypeError

	x := If(Int(1), Int(2), nil)
	assert.ErrorAs(t, x.Err(), &terr)

	x = If(Int(1), Int(2), Bytes("a"))
	assert.ErrorAs(t, x.Err(), &terr)

	x = If(Bytes("a"), Int(2), Int(3))
	assert.ErrorAs(t, x.Err(), &terr)

	_, err := x.Lower(ir.NewBuilder(ir.Options{Version: 2}))
	assert.ErrorAs(t, err, &terr)

	x = If(Int(1), Pop(Int(2)), nil)
	assert.NoError(t, x.Err())
	assert.Equal(t, ir.None, x.TypeOf())
}

func TestAssert(t *testing.T) {
	x := Seq(Assert(Int(1)), Return(Int(1)))

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 1",
		"bnz l2",
		"err",
		"l2:",
		"int 1",
		"return",
	), compile(t, x, ir.ModeSignature, 2, false))

	assert.Equal(t, lines(
		"#pragma version 3",
		"int 1",
		"assert",
		"int 1",
		"return",
	), compile(t, x, ir.ModeSignature, 3, false))
}

func TestCond(t *testing.T) {
	x := Return(Cond(
		[2]ir.Expr{Eq(Arg(0), Bytes("a")), Int(10)},
		[2]ir.Expr{Eq(Arg(0), Bytes("b")), Int(20)},
	))

	assert.Equal(t, lines(
		"#pragma version 2",
		"arg 0",
		`byte "a"`,
		"==",
		"bnz l4",
		"arg 0",
		`byte "b"`,
		"==",
		"bnz l3",
		"err",
		"l3:",
		"int 20",
		"b l5",
		"l4:",
		"int 10",
		"l5:",
		"return",
	), compile(t, x, ir.ModeSignature, 2, false))

	var ierr *ir.InputError
	assert.ErrorAs(t, Cond().Err(), &ierr)

	var terr *ir.TypeError
	assert.ErrorAs(t, Cond([2]ir.Expr{Int(1), Int(1)}, [2]ir.Expr{Int(1), Bytes("b")}).Err(), &terr)
}

func TestSeq(t *testing.T) {
	var ierr *ir.InputError
	assert.ErrorAs(t, Seq().Err(), &ierr)

	var terr *ir.TypeError
	assert.ErrorAs(t, Seq(Int(1), Int(2)).Err(), &terr)

	x := Seq(Pop(Int(1)), Int(2))
	assert.Equal(t, ir.Uint64, x.TypeOf())
}

func TestScratchVar(t *testing.T) {
	p := NewProgram()
	v := p.ScratchVar(ir.Uint64)

	x := Seq(v.Store(Int(5)), Return(v.Load()))

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 5",
		"store 0",
		"load 0",
		"return",
	), compile(t, x, ir.ModeSignature, 2, false))

	var terr *ir.TypeError
	assert.ErrorAs(t, v.Store(Bytes("a")).Err(), &terr)

	assert.Equal(t, 1, p.Slots())
}

func TestScratchVarLoadBeforeStore(t *testing.T) {
	p := NewProgram()
	v := p.ScratchVar(ir.AnyType)

	x := Seq(Pop(v.Load()), v.Store(Int(1)), Return(Int(1)))

	err := compileErr(x, ir.ModeSignature, 2)

	var errs ir.CompileErrors
	if assert.ErrorAs(t, err, &errs) {
		assert.Len(t, errs, 1)
	}
}

func TestMaybeValue(t *testing.T) {
	p := NewProgram()
	mv := p.GlobalGetEx(Int(0), Bytes("k"))

	x := Seq(mv, Return(mv.HasValue()))

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 0",
		`byte "k"`,
		"app_global_get_ex",
		"store 0",
		"store 1",
		"load 0",
		"return",
	), compile(t, x, ir.ModeApplication, 2, false))

	var ierr *ir.InputError
	assert.ErrorAs(t, compileErr(x, ir.ModeSignature, 2), &ierr)

	assert.Equal(t, ir.AnyType, mv.Value().TypeOf())
	assert.Equal(t, ir.Uint64, mv.HasValue().TypeOf())
}

func TestAssetMaybeValue(t *testing.T) {
	p := NewProgram()

	mv := p.AssetHolding("AssetBalance", Int(0), Txn("XferAsset"))
	assert.NoError(t, mv.Err())
	assert.Equal(t, ir.Uint64, mv.Value().TypeOf())

	mv = p.AssetParams("AssetURL", Int(0))
	assert.NoError(t, mv.Err())
	assert.Equal(t, ir.Bytes, mv.Value().TypeOf())

	var ierr *ir.InputError
	assert.ErrorAs(t, p.AssetParams("Nonsense", Int(0)).Err(), &ierr)

	r := compile(t, Seq(mv, Return(mv.HasValue())), ir.ModeApplication, 2, false)
	assert.Contains(t, r, "\nasset_params_get AssetURL\nstore ")
}

func TestAppState(t *testing.T) {
	x := Seq(
		GlobalPut(Bytes("count"), Add(GlobalGet(Bytes("count")), Int(1))),
		LocalDel(Int(0), Bytes("x")),
		Return(OptedIn(Int(0), Txn("ApplicationID"))),
	)

	assert.Equal(t, lines(
		"#pragma version 2",
		`byte "count"`,
		`byte "count"`,
		"app_global_get",
		"int 1",
		"+",
		"app_global_put",
		"int 0",
		`byte "x"`,
		"app_local_del",
		"int 0",
		"txn ApplicationID",
		"app_opted_in",
		"return",
	), compile(t, x, ir.ModeApplication, 2, false))

	var terr *ir.TypeError
	assert.ErrorAs(t, GlobalPut(Int(1), Int(1)).Err(), &terr)
	assert.ErrorAs(t, LocalGet(Bytes("a"), Bytes("b")).Err(), &terr)
	assert.ErrorAs(t, GlobalPut(Bytes("a"), Pop(Int(1))).Err(), &terr)
}

func TestTxnFields(t *testing.T) {
	x := Return(And(
		Eq(Txn("Sender"), Addr(testAddr)),
		Eq(TxnArray("Assets", 0), Gtxn(1, "XferAsset")),
		Eq(Gtxns(Int(1), "Note"), GtxnArray(0, "ApplicationArgs", 2)),
	))

	assert.Equal(t, lines(
		"#pragma version 3",
		"txn Sender",
		"addr "+testAddr,
		"==",
		"txna Assets 0",
		"gtxn 1 XferAsset",
		"==",
		"&&",
		"int 1",
		"gtxns Note",
		"gtxna 0 ApplicationArgs 2",
		"==",
		"&&",
		"return",
	), compile(t, x, ir.ModeSignature, 3, false))

	var ierr *ir.InputError
	assert.ErrorAs(t, compileErr(x, ir.ModeSignature, 2), &ierr)

	for _, x := range []*TxnExpr{
		Txn("NoSuchField"),
		Txn("Accounts"),
		TxnArray("Sender", 0),
		TxnArray("Accounts", 256),
		Gtxn(16, "Sender"),
		Gtxn(-1, "Sender"),
	} {
		assert.ErrorAs(t, x.Err(), &ierr, "%v", x.name)
	}

	var terr *ir.TypeError
	assert.ErrorAs(t, Gtxns(Bytes("a"), "Fee").Err(), &terr)

	assert.Equal(t, ir.Bytes, AppArg(0).TypeOf())
	assert.Equal(t, ir.Uint64, Txn("Fee").TypeOf())
}

func TestGlobal(t *testing.T) {
	x := Return(Eq(Global("CreatorAddress"), Global("ZeroAddress")))

	var ierr *ir.InputError
	assert.ErrorAs(t, compileErr(x, ir.ModeApplication, 2), &ierr)

	r := compile(t, x, ir.ModeApplication, 3, false)
	assert.Contains(t, r, "\nglobal CreatorAddress\nglobal ZeroAddress\n==\n")

	assert.ErrorAs(t, Global("Nope").Err(), &ierr)
}

func TestLiterals(t *testing.T) {
	x := Return(Eq(
		Concat(Bytes("a\n"), BytesBase(Base16, "0xFF"), BytesBase(Base32, "ORSXG5A"), BytesBase(Base64, "dGVzdA=="), TmplBytes("TMPL_B")),
		Sha256(Itob(Add(TmplInt("TMPL_I"), OnComplete.OptIn))),
	))

	assert.Equal(t, lines(
		"#pragma version 2",
		`byte "a\n"`,
		"byte 0xFF",
		"concat",
		"byte base32(ORSXG5A)",
		"concat",
		"byte base64(dGVzdA==)",
		"concat",
		"byte TMPL_B",
		"concat",
		"int TMPL_I",
		"int OptIn",
		"+",
		"itob",
		"sha256",
		"==",
		"return",
	), compile(t, x, ir.ModeSignature, 2, false))

	var ierr *ir.InputError

	for _, err := range []error{
		EnumInt("Maybe").Err(),
		BytesBase(Base16, "0xZZ").Err(),
		BytesBase(Base64, "!!").Err(),
		BytesBase("base58", "abc").Err(),
		Addr("TOOSHORT").Err(),
		TmplInt("NAME").Err(),
		TmplAddr("TMPL_lower").Err(),
		Arg(256).Err(),
		Concat(Bytes("a")).Err(),
	} {
		assert.ErrorAs(t, err, &ierr)
	}

	assert.NoError(t, EnumInt("appl").Err())
	assert.NoError(t, TmplAddr("TMPL_RECV_1").Err())
}

func TestOpTypes(t *testing.T) {
	var terr *ir.TypeError

	for _, x := range []*OpExpr{
		Add(Int(1), Bytes("a")),
		Lt(Bytes("a"), Int(1)),
		Eq(Int(1), Bytes("a")),
		Btoi(Int(1)),
		Itob(Bytes("a")),
		Len(Int(1)),
		Return(Bytes("a")),
		Pop(Pop(Int(1))),
		Substring(Int(1), Int(0), Int(1)),
	} {
		assert.ErrorAs(t, x.Err(), &terr, "%v", x.op)
	}

	assert.NoError(t, Eq(Bytes("a"), Bytes("b")).Err())
	assert.NoError(t, Eq(Int(1), GlobalGet(Bytes("b"))).Err())
}

func TestNonce(t *testing.T) {
	x := Nonce(Base16, "00ff", Return(Int(1)))

	assert.Equal(t, lines(
		"#pragma version 2",
		"byte 0x00ff",
		"pop",
		"int 1",
		"return",
	), compile(t, x, ir.ModeSignature, 2, false))

	var ierr *ir.InputError
	assert.ErrorAs(t, Nonce(Base16, "0z", Int(1)).Err(), &ierr)
}

func TestPackedProgram(t *testing.T) {
	x := Return(And(Eq(Int(1), Int(1)), Eq(Int(1), Int(2))))

	assert.Equal(t, lines(
		"#pragma version 3",
		"intcblock 1",
		"intc_0 // 1",
		"intc_0 // 1",
		"==",
		"intc_0 // 1",
		"pushint 2 // 2",
		"==",
		"&&",
		"return",
	), compile(t, x, ir.ModeSignature, 3, true))
}

func TestLoc(t *testing.T) {
	x := Add(Int(1), Bytes("a"))

	assert.NotZero(t, x.Loc())

	err := compileErr(Return(x), ir.ModeSignature, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front_test.go")
}
