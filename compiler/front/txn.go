package front

import (
	"tlog.app/go/loc"

	"github.com/slowlang/tealc/compiler/ir"
)

type (
	field struct {
		tp         ir.Type
		minVersion int
		array      bool
	}

	// TxnExpr reads a field of the current or a group transaction.
	TxnExpr struct {
		node

		name string
		f    field

		group    int
		groupDyn ir.Expr

		index int
	}

	GlobalExpr struct {
		node

		name string
		f    field
	}

	ArgExpr struct {
		node

		index int
	}
)

// MaxGroupSize is the number of transactions in the largest group.
const MaxGroupSize = 16

var txnFields = map[string]field{
	"Sender":                   {ir.Bytes, 2, false},
	"Fee":                      {ir.Uint64, 2, false},
	"FirstValid":               {ir.Uint64, 2, false},
	"FirstValidTime":           {ir.Uint64, 2, false},
	"LastValid":                {ir.Uint64, 2, false},
	"Note":                     {ir.Bytes, 2, false},
	"Lease":                    {ir.Bytes, 2, false},
	"Receiver":                 {ir.Bytes, 2, false},
	"Amount":                   {ir.Uint64, 2, false},
	"CloseRemainderTo":         {ir.Bytes, 2, false},
	"VotePK":                   {ir.Bytes, 2, false},
	"SelectionPK":              {ir.Bytes, 2, false},
	"VoteFirst":                {ir.Uint64, 2, false},
	"VoteLast":                 {ir.Uint64, 2, false},
	"VoteKeyDilution":          {ir.Uint64, 2, false},
	"Type":                     {ir.Bytes, 2, false},
	"TypeEnum":                 {ir.Uint64, 2, false},
	"XferAsset":                {ir.Uint64, 2, false},
	"AssetAmount":              {ir.Uint64, 2, false},
	"AssetSender":              {ir.Bytes, 2, false},
	"AssetReceiver":            {ir.Bytes, 2, false},
	"AssetCloseTo":             {ir.Bytes, 2, false},
	"GroupIndex":               {ir.Uint64, 2, false},
	"TxID":                     {ir.Bytes, 2, false},
	"ApplicationID":            {ir.Uint64, 2, false},
	"OnCompletion":             {ir.Uint64, 2, false},
	"ApplicationArgs":          {ir.Bytes, 2, true},
	"NumAppArgs":               {ir.Uint64, 2, false},
	"Accounts":                 {ir.Bytes, 2, true},
	"NumAccounts":              {ir.Uint64, 2, false},
	"ApprovalProgram":          {ir.Bytes, 2, false},
	"ClearStateProgram":        {ir.Bytes, 2, false},
	"RekeyTo":                  {ir.Bytes, 2, false},
	"ConfigAsset":              {ir.Uint64, 2, false},
	"ConfigAssetTotal":         {ir.Uint64, 2, false},
	"ConfigAssetDecimals":      {ir.Uint64, 2, false},
	"ConfigAssetDefaultFrozen": {ir.Uint64, 2, false},
	"ConfigAssetUnitName":      {ir.Bytes, 2, false},
	"ConfigAssetName":          {ir.Bytes, 2, false},
	"ConfigAssetURL":           {ir.Bytes, 2, false},
	"ConfigAssetMetadataHash":  {ir.Bytes, 2, false},
	"ConfigAssetManager":       {ir.Bytes, 2, false},
	"ConfigAssetReserve":       {ir.Bytes, 2, false},
	"ConfigAssetFreeze":        {ir.Bytes, 2, false},
	"ConfigAssetClawback":      {ir.Bytes, 2, false},
	"FreezeAsset":              {ir.Uint64, 2, false},
	"FreezeAssetAccount":       {ir.Bytes, 2, false},
	"FreezeAssetFrozen":        {ir.Uint64, 2, false},
	"Assets":                   {ir.Uint64, 3, true},
	"NumAssets":                {ir.Uint64, 3, false},
	"Applications":             {ir.Uint64, 3, true},
	"NumApplications":          {ir.Uint64, 3, false},
	"GlobalNumUint":            {ir.Uint64, 3, false},
	"GlobalNumByteSlice":       {ir.Uint64, 3, false},
	"LocalNumUint":             {ir.Uint64, 3, false},
	"LocalNumByteSlice":        {ir.Uint64, 3, false},
	"ExtraProgramPages":        {ir.Uint64, 4, false},
	"Nonparticipation":         {ir.Uint64, 5, false},
	"Logs":                     {ir.Bytes, 5, true},
	"NumLogs":                  {ir.Uint64, 5, false},
	"CreatedAssetID":           {ir.Uint64, 5, false},
	"CreatedApplicationID":     {ir.Uint64, 5, false},
}

var globalFields = map[string]field{
	"MinTxnFee":                 {ir.Uint64, 2, false},
	"MinBalance":                {ir.Uint64, 2, false},
	"MaxTxnLife":                {ir.Uint64, 2, false},
	"ZeroAddress":               {ir.Bytes, 2, false},
	"GroupSize":                 {ir.Uint64, 2, false},
	"LogicSigVersion":           {ir.Uint64, 2, false},
	"Round":                     {ir.Uint64, 2, false},
	"LatestTimestamp":           {ir.Uint64, 2, false},
	"CurrentApplicationID":      {ir.Uint64, 2, false},
	"CreatorAddress":            {ir.Bytes, 3, false},
	"CurrentApplicationAddress": {ir.Bytes, 5, false},
	"GroupID":                   {ir.Bytes, 4, false},
}

// Txn reads a scalar field of the current transaction.
func Txn(name string) *TxnExpr {
	return newTxn(here(), name, -1, nil, -1)
}

// TxnArray reads the i-th element of an array field of the current transaction.
func TxnArray(name string, i int) *TxnExpr {
	return newTxn(here(), name, -1, nil, i)
}

// AppArg is the i-th application call argument.
func AppArg(i int) *TxnExpr {
	return newTxn(here(), "ApplicationArgs", -1, nil, i)
}

// Gtxn reads a field of the group transaction with the constant index.
func Gtxn(group int, name string) *TxnExpr {
	return gtxn(here(), group, name, -1)
}

func GtxnArray(group int, name string, i int) *TxnExpr {
	return gtxn(here(), group, name, i)
}

func gtxn(pc loc.PC, group int, name string, i int) *TxnExpr {
	x := newTxn(pc, name, group, nil, i)

	if group < 0 {
		x.fail(ir.NewInputError("invalid group index: %d", group))
	}

	return x
}

// Gtxns reads a field of the group transaction which index is computed at run time.
func Gtxns(group ir.Expr, name string) *TxnExpr {
	return newTxn(here(), name, -1, group, -1)
}

func GtxnsArray(group ir.Expr, name string, i int) *TxnExpr {
	return newTxn(here(), name, -1, group, i)
}

func newTxn(pc loc.PC, name string, group int, groupDyn ir.Expr, index int) *TxnExpr {
	x := &TxnExpr{node: node{pc: pc}, name: name, group: group, groupDyn: groupDyn, index: index}

	f, ok := txnFields[name]
	if !ok {
		x.f = field{tp: ir.AnyType}
		x.fail(ir.NewInputError("unknown txn field: %v", name))

		return x
	}

	x.f = f

	switch {
	case f.array && index < 0:
		x.fail(ir.NewInputError("txn field %v is an array, index required", name))
	case !f.array && index >= 0:
		x.fail(ir.NewInputError("txn field %v is not an array", name))
	case index > 255:
		x.fail(ir.NewInputError("invalid array index: %d", index))
	case index < -1:
		x.fail(ir.NewInputError("invalid array index: %d", index))
	}

	if group >= MaxGroupSize {
		x.fail(ir.NewInputError("invalid group index: %d", group))
	}

	if groupDyn != nil {
		x.requireType(groupDyn, ir.Uint64)
	}

	return x
}

func (x *TxnExpr) TypeOf() ir.Type { return x.f.tp }

func (x *TxnExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	if err := ir.RequireVersion("txn field "+x.name, x.f.minVersion, b.Version); err != nil {
		return ir.Fragment{}, err
	}

	var in *ir.Instr

	switch {
	case x.groupDyn != nil && x.index >= 0:
		in = ir.NewInstr(x, ir.OpGtxnsa, x.name, x.index)
	case x.groupDyn != nil:
		in = ir.NewInstr(x, ir.OpGtxns, x.name)
	case x.group >= 0 && x.index >= 0:
		in = ir.NewInstr(x, ir.OpGtxna, x.group, x.name, x.index)
	case x.group >= 0:
		in = ir.NewInstr(x, ir.OpGtxn, x.group, x.name)
	case x.index >= 0:
		in = ir.NewInstr(x, ir.OpTxna, x.name, x.index)
	default:
		in = ir.NewInstr(x, ir.OpTxn, x.name)
	}

	if err := ir.RequireVersion(in.Op.Name, in.Op.MinVersion, b.Version); err != nil {
		return ir.Fragment{}, err
	}

	if x.groupDyn != nil {
		return b.FromOp(in, x.groupDyn)
	}

	return b.Single(in), nil
}

// Global reads a global field.
func Global(name string) *GlobalExpr {
	x := &GlobalExpr{node: node{pc: here()}, name: name}

	f, ok := globalFields[name]
	if !ok {
		x.f = field{tp: ir.AnyType}
		x.fail(ir.NewInputError("unknown global field: %v", name))

		return x
	}

	x.f = f

	return x
}

func (x *GlobalExpr) TypeOf() ir.Type { return x.f.tp }

func (x *GlobalExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	if err := ir.RequireVersion("global field "+x.name, x.f.minVersion, b.Version); err != nil {
		return ir.Fragment{}, err
	}

	return b.Single(ir.NewInstr(x, ir.OpGlobal, x.name)), nil
}

// Arg is the i-th logic signature argument.
func Arg(i int) *ArgExpr {
	x := &ArgExpr{node: node{pc: here()}, index: i}

	if i < 0 || i > 255 {
		x.fail(ir.NewInputError("invalid arg index %d", i))
	}

	return x
}

func (x *ArgExpr) TypeOf() ir.Type { return ir.Bytes }

func (x *ArgExpr) Lower(b *ir.Builder) (ir.Fragment, error) {
	if err := x.check(); err != nil {
		return ir.Fragment{}, err
	}

	return b.Single(ir.NewInstr(x, ir.OpArg, x.index)), nil
}
