package main

import (
	"sort"

	"github.com/slowlang/tealc/compiler/front"
	"github.com/slowlang/tealc/compiler/ir"
)

type (
	program struct {
		Mode        ir.Mode
		Description string
		Build       func() ir.Expr
	}
)

var programs = map[string]program{
	"asset_approval": {
		Mode:        ir.ModeApplication,
		Description: "asset application approval program",
		Build:       assetApproval,
	},
	"asset_clear_state": {
		Mode:        ir.ModeApplication,
		Description: "asset application clear state program",
		Build:       assetClearState,
	},
	"periodic_payment": {
		Mode:        ir.ModeSignature,
		Description: "periodic payment logic signature, parametrized by templates",
		Build:       periodicPayment,
	},
}

func programNames() []string {
	r := make([]string, 0, len(programs))

	for name := range programs {
		r = append(r, name)
	}

	sort.Strings(r)

	return r
}

func assetApproval() ir.Expr {
	arg0 := func() ir.Expr { return front.AppArg(0) }
	arg1 := func() ir.Expr { return front.Btoi(front.AppArg(1)) }
	numArgs := func(n uint64) ir.Expr { return front.Eq(front.Txn("NumAppArgs"), front.Int(n)) }

	isAdmin := front.LocalGet(front.Int(0), front.Bytes("admin"))

	onCreation := front.Seq(
		front.Assert(numArgs(1)),
		front.GlobalPut(front.Bytes("total supply"), front.Btoi(arg0())),
		front.GlobalPut(front.Bytes("reserve"), front.Btoi(arg0())),
		front.LocalPut(front.Int(0), front.Bytes("admin"), front.Int(1)),
		front.LocalPut(front.Int(0), front.Bytes("balance"), front.Int(0)),
		front.Return(front.Int(1)),
	)

	onCloseOut := front.Seq(
		front.GlobalPut(front.Bytes("reserve"), front.Add(
			front.GlobalGet(front.Bytes("reserve")),
			front.LocalGet(front.Int(0), front.Bytes("balance")),
		)),
		front.Return(front.Int(1)),
	)

	register := front.Seq(
		front.LocalPut(front.Int(0), front.Bytes("balance"), front.Int(0)),
		front.Return(front.Int(1)),
	)

	setAdmin := front.Seq(
		front.Assert(front.And(isAdmin, numArgs(2))),
		front.LocalPut(front.Int(1), front.Bytes("admin"), arg1()),
		front.Return(front.Int(1)),
	)

	mint := front.Seq(
		front.Assert(numArgs(2)),
		front.Assert(front.Le(arg1(), front.GlobalGet(front.Bytes("reserve")))),
		front.GlobalPut(front.Bytes("reserve"), front.Minus(front.GlobalGet(front.Bytes("reserve")), arg1())),
		front.LocalPut(front.Int(1), front.Bytes("balance"), front.Add(front.LocalGet(front.Int(1), front.Bytes("balance")), arg1())),
		front.Return(isAdmin),
	)

	transfer := front.Seq(
		front.Assert(numArgs(2)),
		front.Assert(front.Le(arg1(), front.LocalGet(front.Int(0), front.Bytes("balance")))),
		front.LocalPut(front.Int(0), front.Bytes("balance"), front.Minus(front.LocalGet(front.Int(0), front.Bytes("balance")), arg1())),
		front.LocalPut(front.Int(1), front.Bytes("balance"), front.Add(front.LocalGet(front.Int(1), front.Bytes("balance")), arg1())),
		front.Return(front.Int(1)),
	)

	onComplete := func(x ir.Expr) ir.Expr { return front.Eq(front.Txn("OnCompletion"), x) }
	method := func(name string) ir.Expr { return front.Eq(arg0(), front.Bytes(name)) }

	return front.Cond(
		[2]ir.Expr{front.Eq(front.Txn("ApplicationID"), front.Int(0)), onCreation},
		[2]ir.Expr{onComplete(front.OnComplete.DeleteApplication), front.Return(isAdmin)},
		[2]ir.Expr{onComplete(front.OnComplete.UpdateApplication), front.Return(isAdmin)},
		[2]ir.Expr{onComplete(front.OnComplete.CloseOut), onCloseOut},
		[2]ir.Expr{onComplete(front.OnComplete.OptIn), register},
		[2]ir.Expr{method("set admin"), setAdmin},
		[2]ir.Expr{method("mint"), mint},
		[2]ir.Expr{method("transfer"), transfer},
	)
}

func assetClearState() ir.Expr {
	return front.Seq(
		front.GlobalPut(front.Bytes("reserve"), front.Add(
			front.GlobalGet(front.Bytes("reserve")),
			front.LocalGet(front.Int(0), front.Bytes("balance")),
		)),
		front.Return(front.Int(1)),
	)
}

func periodicPayment() ir.Expr {
	zero := func() ir.Expr { return front.Global("ZeroAddress") }

	core := front.And(
		front.Eq(front.Txn("TypeEnum"), front.TxnType.Payment),
		front.Lt(front.Txn("Fee"), front.Int(1000)),
		front.Eq(front.Mod(front.Txn("FirstValid"), front.TmplInt("TMPL_PERIOD")), front.Int(0)),
		front.Eq(front.Txn("LastValid"), front.Add(front.TmplInt("TMPL_DUR"), front.Txn("FirstValid"))),
		front.Eq(front.Txn("Lease"), front.TmplBytes("TMPL_LEASE")),
	)

	transfer := front.And(
		front.Eq(front.Txn("CloseRemainderTo"), zero()),
		front.Eq(front.Txn("RekeyTo"), zero()),
		front.Eq(front.Txn("Receiver"), front.TmplAddr("TMPL_RCV")),
		front.Eq(front.Txn("Amount"), front.TmplInt("TMPL_AMT")),
	)

	closeOut := front.And(
		front.Eq(front.Txn("CloseRemainderTo"), front.TmplAddr("TMPL_RCV")),
		front.Eq(front.Txn("RekeyTo"), zero()),
		front.Eq(front.Txn("Receiver"), zero()),
		front.Eq(front.Txn("FirstValid"), front.TmplInt("TMPL_TIMEOUT")),
		front.Eq(front.Txn("Amount"), front.Int(0)),
	)

	return front.And(core, front.Or(transfer, closeOut))
}
