package ir

import "strings"

type (
	Mode uint8

	// Op describes an opcode of the target machine.
	// Ops are shared and compared by pointer.
	Op struct {
		Name       string
		MinVersion int
		Modes      Mode
	}
)

const (
	ModeSignature Mode = 1 << iota
	ModeApplication

	ModeAny = ModeSignature | ModeApplication
)

var ops = map[string]*Op{}

// Ops, v1 and v2.
var (
	OpErr        = op("err", 1, ModeAny)
	OpSha256     = op("sha256", 1, ModeAny)
	OpKeccak256  = op("keccak256", 1, ModeAny)
	OpSha512_256 = op("sha512_256", 1, ModeAny)
	OpEd25519    = op("ed25519verify", 1, ModeAny)

	OpAdd        = op("+", 1, ModeAny)
	OpMinus      = op("-", 1, ModeAny)
	OpDiv        = op("/", 1, ModeAny)
	OpMul        = op("*", 1, ModeAny)
	OpLt         = op("<", 1, ModeAny)
	OpGt         = op(">", 1, ModeAny)
	OpLe         = op("<=", 1, ModeAny)
	OpGe         = op(">=", 1, ModeAny)
	OpLogicAnd   = op("&&", 1, ModeAny)
	OpLogicOr    = op("||", 1, ModeAny)
	OpEq         = op("==", 1, ModeAny)
	OpNeq        = op("!=", 1, ModeAny)
	OpLogicNot   = op("!", 1, ModeAny)
	OpLen        = op("len", 1, ModeAny)
	OpItob       = op("itob", 1, ModeAny)
	OpBtoi       = op("btoi", 1, ModeAny)
	OpMod        = op("%", 1, ModeAny)
	OpBitwiseOr  = op("|", 1, ModeAny)
	OpBitwiseAnd = op("&", 1, ModeAny)
	OpBitwiseXor = op("^", 1, ModeAny)
	OpBitwiseNot = op("~", 1, ModeAny)
	OpMulw       = op("mulw", 1, ModeAny)
	OpAddw       = op("addw", 2, ModeAny)

	OpInt        = op("int", 1, ModeAny)
	OpIntcblock  = op("intcblock", 1, ModeAny)
	OpIntc       = op("intc", 1, ModeAny)
	OpIntc0      = op("intc_0", 1, ModeAny)
	OpIntc1      = op("intc_1", 1, ModeAny)
	OpIntc2      = op("intc_2", 1, ModeAny)
	OpIntc3      = op("intc_3", 1, ModeAny)
	OpByte       = op("byte", 1, ModeAny)
	OpAddr       = op("addr", 1, ModeAny)
	OpBytecblock = op("bytecblock", 1, ModeAny)
	OpBytec      = op("bytec", 1, ModeAny)
	OpBytec0     = op("bytec_0", 1, ModeAny)
	OpBytec1     = op("bytec_1", 1, ModeAny)
	OpBytec2     = op("bytec_2", 1, ModeAny)
	OpBytec3     = op("bytec_3", 1, ModeAny)

	OpArg  = op("arg", 1, ModeSignature)
	OpArg0 = op("arg_0", 1, ModeSignature)
	OpArg1 = op("arg_1", 1, ModeSignature)
	OpArg2 = op("arg_2", 1, ModeSignature)
	OpArg3 = op("arg_3", 1, ModeSignature)

	OpTxn    = op("txn", 1, ModeAny)
	OpGlobal = op("global", 1, ModeAny)
	OpGtxn   = op("gtxn", 1, ModeAny)
	OpLoad   = op("load", 1, ModeAny)
	OpStore  = op("store", 1, ModeAny)
	OpTxna   = op("txna", 2, ModeAny)
	OpGtxna  = op("gtxna", 2, ModeAny)

	OpBnz    = op("bnz", 1, ModeAny)
	OpBz     = op("bz", 2, ModeAny)
	OpB      = op("b", 2, ModeAny)
	OpReturn = op("return", 2, ModeAny)
	OpPop    = op("pop", 1, ModeAny)
	OpDup    = op("dup", 1, ModeAny)
	OpDup2   = op("dup2", 2, ModeAny)

	OpConcat     = op("concat", 2, ModeAny)
	OpSubstring  = op("substring", 2, ModeAny)
	OpSubstring3 = op("substring3", 2, ModeAny)

	OpBalance         = op("balance", 2, ModeApplication)
	OpAppOptedIn      = op("app_opted_in", 2, ModeApplication)
	OpAppLocalGet     = op("app_local_get", 2, ModeApplication)
	OpAppLocalGetEx   = op("app_local_get_ex", 2, ModeApplication)
	OpAppGlobalGet    = op("app_global_get", 2, ModeApplication)
	OpAppGlobalGetEx  = op("app_global_get_ex", 2, ModeApplication)
	OpAppLocalPut     = op("app_local_put", 2, ModeApplication)
	OpAppGlobalPut    = op("app_global_put", 2, ModeApplication)
	OpAppLocalDel     = op("app_local_del", 2, ModeApplication)
	OpAppGlobalDel    = op("app_global_del", 2, ModeApplication)
	OpAssetHoldingGet = op("asset_holding_get", 2, ModeApplication)
	OpAssetParamsGet  = op("asset_params_get", 2, ModeApplication)
)

// Ops, v3.
var (
	OpAssert     = op("assert", 3, ModeAny)
	OpDig        = op("dig", 3, ModeAny)
	OpSwap       = op("swap", 3, ModeAny)
	OpSelect     = op("select", 3, ModeAny)
	OpGetbit     = op("getbit", 3, ModeAny)
	OpSetbit     = op("setbit", 3, ModeAny)
	OpGetbyte    = op("getbyte", 3, ModeAny)
	OpSetbyte    = op("setbyte", 3, ModeAny)
	OpPushbytes  = op("pushbytes", 3, ModeAny)
	OpPushint    = op("pushint", 3, ModeAny)
	OpGtxns      = op("gtxns", 3, ModeAny)
	OpGtxnsa     = op("gtxnsa", 3, ModeAny)
	OpMinBalance = op("min_balance", 3, ModeApplication)
)

// Ops, v4.
var (
	OpDivmodw = op("divmodw", 4, ModeAny)
	OpGload   = op("gload", 4, ModeApplication)
	OpGloads  = op("gloads", 4, ModeApplication)
	OpGaid    = op("gaid", 4, ModeApplication)
	OpGaids   = op("gaids", 4, ModeApplication)
	OpCallsub = op("callsub", 4, ModeAny)
	OpRetsub  = op("retsub", 4, ModeAny)
	OpShl     = op("shl", 4, ModeAny)
	OpShr     = op("shr", 4, ModeAny)
	OpSqrt    = op("sqrt", 4, ModeAny)
	OpBitlen  = op("bitlen", 4, ModeAny)
	OpExp     = op("exp", 4, ModeAny)
	OpExpw    = op("expw", 4, ModeAny)
	OpBzero   = op("bzero", 4, ModeAny)

	OpBytesAdd        = op("b+", 4, ModeAny)
	OpBytesMinus      = op("b-", 4, ModeAny)
	OpBytesDiv        = op("b/", 4, ModeAny)
	OpBytesMul        = op("b*", 4, ModeAny)
	OpBytesLt         = op("b<", 4, ModeAny)
	OpBytesGt         = op("b>", 4, ModeAny)
	OpBytesLe         = op("b<=", 4, ModeAny)
	OpBytesGe         = op("b>=", 4, ModeAny)
	OpBytesEq         = op("b==", 4, ModeAny)
	OpBytesNeq        = op("b!=", 4, ModeAny)
	OpBytesMod        = op("b%", 4, ModeAny)
	OpBytesBitwiseOr  = op("b|", 4, ModeAny)
	OpBytesBitwiseAnd = op("b&", 4, ModeAny)
	OpBytesBitwiseXor = op("b^", 4, ModeAny)
	OpBytesBitwiseNot = op("b~", 4, ModeAny)
)

// Ops, v5.
var (
	OpEcdsaVerify       = op("ecdsa_verify", 5, ModeAny)
	OpEcdsaPkDecompress = op("ecdsa_pk_decompress", 5, ModeAny)
	OpEcdsaPkRecover    = op("ecdsa_pk_recover", 5, ModeAny)
	OpLoads             = op("loads", 5, ModeAny)
	OpStores            = op("stores", 5, ModeAny)
	OpCover             = op("cover", 5, ModeAny)
	OpUncover           = op("uncover", 5, ModeAny)
	OpExtract           = op("extract", 5, ModeAny)
	OpExtract3          = op("extract3", 5, ModeAny)
	OpExtractUint16     = op("extract_uint16", 5, ModeAny)
	OpExtractUint32     = op("extract_uint32", 5, ModeAny)
	OpExtractUint64     = op("extract_uint64", 5, ModeAny)
	OpAppParamsGet      = op("app_params_get", 5, ModeApplication)
	OpLog               = op("log", 5, ModeApplication)
	OpItxnBegin         = op("itxn_begin", 5, ModeApplication)
	OpItxnField         = op("itxn_field", 5, ModeApplication)
	OpItxnSubmit        = op("itxn_submit", 5, ModeApplication)
	OpItxn              = op("itxn", 5, ModeApplication)
	OpItxna             = op("itxna", 5, ModeApplication)
	OpTxnas             = op("txnas", 5, ModeAny)
	OpGtxnas            = op("gtxnas", 5, ModeAny)
	OpGtxnsas           = op("gtxnsas", 5, ModeAny)
	OpArgs              = op("args", 5, ModeSignature)
)

func op(name string, v int, m Mode) *Op {
	if _, ok := ops[name]; ok {
		panic("duplicate op: " + name)
	}

	o := &Op{
		Name:       name,
		MinVersion: v,
		Modes:      m,
	}

	ops[name] = o

	return o
}

// LookupOp returns the registered op or nil.
func LookupOp(name string) *Op {
	return ops[name]
}

func (o *Op) String() string { return o.Name }

func (o *Op) AllowedAt(version int) bool {
	return version >= o.MinVersion
}

func (o *Op) AllowedIn(m Mode) bool {
	return o.Modes&m != 0
}

func (m Mode) String() string {
	var s []string

	if m&ModeSignature != 0 {
		s = append(s, "Signature")
	}

	if m&ModeApplication != 0 {
		s = append(s, "Application")
	}

	if len(s) == 0 {
		return "None"
	}

	return strings.Join(s, "|")
}
