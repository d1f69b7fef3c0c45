package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/tealc/compiler/back"
	"github.com/slowlang/tealc/compiler/format"
	"github.com/slowlang/tealc/compiler/front"
	"github.com/slowlang/tealc/compiler/ir"
)

func in(op *ir.Op, args ...any) *ir.Instr { return ir.NewInstr(nil, op, args...) }

func lines(l ...string) string { return strings.Join(l, "\n") }

func compileTestGraph(t *testing.T, build func(g *ir.Graph) ir.BlockID, opts Options) string {
	t.Helper()

	g := ir.NewGraph()
	root := build(g)

	r, err := CompileGraph(context.Background(), g, root, opts)
	require.NoError(t, err)

	return r
}

func straightLine(g *ir.Graph) ir.BlockID {
	a := g.NewSimple(in(ir.OpInt, 1))
	b := g.NewSimple(in(ir.OpInt, 2))
	c := g.NewSimple(in(ir.OpAdd))

	g.Link(a, b)
	g.Link(b, c)

	return a
}

func branchJoin(g *ir.Graph) ir.BlockID {
	c := g.NewCond(in(ir.OpInt, 1))
	tb := g.NewSimple(in(ir.OpByte, `"true"`))
	fb := g.NewSimple(in(ir.OpByte, `"false"`))
	j := g.NewSimple(in(ir.OpReturn))

	g.Branch(c, tb, fb)
	g.Link(tb, j)
	g.Link(fb, j)

	return c
}

// neitherAdjacent builds a graph where one of the conditional blocks
// is followed by a block which is none of its targets.
func neitherAdjacent(g *ir.Graph) ir.BlockID {
	r := g.NewCond(in(ir.OpInt, 1))
	c := g.NewCond(in(ir.OpInt, 2))
	d := g.NewCond(in(ir.OpInt, 3))
	j := g.NewSimple(in(ir.OpInt, 4), in(ir.OpReturn))
	k := g.NewSimple(in(ir.OpInt, 5), in(ir.OpReturn))

	g.Branch(r, c, d)
	g.Branch(c, j, k)
	g.Branch(d, j, k)

	return r
}

func TestStraightLine(t *testing.T) {
	r := compileTestGraph(t, straightLine, Options{})

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 1",
		"int 2",
		"+",
	), r)
}

func TestBranchJoin(t *testing.T) {
	r := compileTestGraph(t, branchJoin, Options{Version: 2})

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 1",
		"bnz l2",
		`byte "false"`,
		"b l3",
		"l2:",
		`byte "true"`,
		"l3:",
		"return",
	), r)
}

func TestNeitherBranchAdjacent(t *testing.T) {
	r := compileTestGraph(t, neitherAdjacent, Options{Version: 2})

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 1",
		"bnz l2",
		"int 3",
		"bnz l4",
		"bz l3",
		"l2:",
		"int 2",
		"bnz l4",
		"l3:",
		"int 5",
		"return",
		"l4:",
		"int 4",
		"return",
	), r)
}

func TestPacking(t *testing.T) {
	build := func(g *ir.Graph) ir.BlockID {
		return g.NewSimple(in(ir.OpInt, 1), in(ir.OpInt, 1), in(ir.OpInt, 2))
	}

	r := compileTestGraph(t, build, Options{Version: 3, AssembleConstants: true})

	assert.Equal(t, lines(
		"#pragma version 3",
		"intcblock 1",
		"intc_0 // 1",
		"intc_0 // 1",
		"pushint 2 // 2",
	), r)

	g := ir.NewGraph()

	_, err := CompileGraph(context.Background(), g, build(g), Options{Version: 2, AssembleConstants: true})

	var ierr *ir.InputError
	assert.ErrorAs(t, err, &ierr)
}

func TestTooManySlots(t *testing.T) {
	var sc ir.Scratch

	g := ir.NewGraph()

	var code []ir.Component

	for i := 0; i <= NumSlots; i++ {
		code = append(code, in(ir.OpInt, i), in(ir.OpStore, sc.New()))
	}

	code = append(code, in(ir.OpInt, 1), in(ir.OpReturn))

	root := g.NewSimple(code...)

	r, err := CompileGraph(context.Background(), g, root, Options{})

	var ierr *ir.InputError
	assert.ErrorAs(t, err, &ierr)
	assert.Empty(t, r)
}

func TestTooManySlotsStored(t *testing.T) {
	p := front.NewProgram()

	var exprs []ir.Expr

	for i := 0; i < 300; i++ {
		exprs = append(exprs, p.ScratchVar(ir.Uint64).Store(front.Int(uint64(i))))
	}

	exprs = append(exprs, front.Return(front.Int(1)))

	r, err := Compile(context.Background(), front.Seq(exprs...), Options{})

	var ierr *ir.InputError
	assert.ErrorAs(t, err, &ierr)
	assert.Empty(t, r)
}

func TestSlotsAssigned(t *testing.T) {
	var sc ir.Scratch

	s0, s1 := sc.New(), sc.New()

	build := func(g *ir.Graph) ir.BlockID {
		return g.NewSimple(
			in(ir.OpInt, 1),
			in(ir.OpStore, s1),
			in(ir.OpLoad, s1),
			in(ir.OpStore, s0),
			in(ir.OpLoad, s0),
			in(ir.OpReturn),
		)
	}

	assert.Equal(t, lines(
		"#pragma version 2",
		"int 1",
		"store 1",
		"load 1",
		"store 0",
		"load 0",
		"return",
	), compileTestGraph(t, build, Options{}))
}

func TestSlotDiagnostics(t *testing.T) {
	var sc ir.Scratch

	s0, s1 := sc.New(), sc.New()

	g := ir.NewGraph()

	c := g.NewCond(in(ir.OpInt, 1))
	tb := g.NewSimple(in(ir.OpLoad, s0))
	fb := g.NewSimple(in(ir.OpLoad, s1))
	j := g.NewSimple(in(ir.OpReturn))

	g.Branch(c, tb, fb)
	g.Link(tb, j)
	g.Link(fb, j)

	_, err := CompileGraph(context.Background(), g, c, Options{})

	var errs ir.CompileErrors
	if assert.ErrorAs(t, err, &errs) {
		assert.Len(t, errs, 2)
	}

	assert.Contains(t, err.Error(), "encountered 2 error(s) during compilation")
}

func TestOptions(t *testing.T) {
	x := front.Return(front.Int(1))

	var ierr *ir.InputError

	for _, v := range []int{-1, 1, 6, 100} {
		_, err := Compile(context.Background(), x, Options{Version: v})
		assert.ErrorAs(t, err, &ierr, "version %d", v)
	}

	for v := MinVersion; v <= MaxVersion; v++ {
		r, err := Compile(context.Background(), x, Options{Version: v})
		if assert.NoError(t, err) {
			assert.True(t, strings.HasPrefix(r, "#pragma version "), r)
		}
	}

	r, err := Compile(context.Background(), x, Options{})
	require.NoError(t, err)
	assert.Equal(t, "#pragma version 2\nint 1\nreturn", r)

	_, err = Compile(context.Background(), x, Options{Mode: ir.ModeAny})
	assert.ErrorAs(t, err, &ierr)

	_, err = Compile(context.Background(), x, Options{Mode: ir.Mode(8)})
	assert.ErrorAs(t, err, &ierr)
}

func TestModeMismatch(t *testing.T) {
	x := front.Return(front.Btoi(front.GlobalGet(front.Bytes("k"))))

	_, err := Compile(context.Background(), x, Options{Mode: ir.ModeApplication})
	require.NoError(t, err)

	_, err = Compile(context.Background(), x, Options{Mode: ir.ModeSignature})

	var ierr *ir.InputError
	assert.ErrorAs(t, err, &ierr)

	x = front.Return(front.Len(front.Arg(0)))

	_, err = Compile(context.Background(), x, Options{Mode: ir.ModeApplication})
	assert.ErrorAs(t, err, &ierr)
}

func TestOpVersion(t *testing.T) {
	g := ir.NewGraph()
	root := g.NewSimple(in(ir.OpInt, 1), in(ir.OpAssert))

	_, err := CompileGraph(context.Background(), g, root, Options{Version: 2})

	var ierr *ir.InternalError
	assert.ErrorAs(t, err, &ierr)
}

func TestMalformedGraph(t *testing.T) {
	g := ir.NewGraph()

	c := g.NewCond(in(ir.OpInt, 1))
	tb := g.NewSimple(in(ir.OpReturn))

	g.Branch(c, tb, ir.Nil)

	_, err := CompileGraph(context.Background(), g, c, Options{})

	var aerr *ir.AssertionError
	assert.ErrorAs(t, err, &aerr)
}

func TestLowerError(t *testing.T) {
	x := front.Return(front.Add(front.Int(1), front.Bytes("a")))

	_, err := Compile(context.Background(), x, Options{})

	var terr *ir.TypeError
	assert.ErrorAs(t, err, &terr)
}

func TestDeterminism(t *testing.T) {
	build := func() ir.Expr {
		p := front.NewProgram()
		v := p.ScratchVar(ir.Uint64)

		return front.Seq(
			v.Store(front.Txn("Amount")),
			front.Return(front.Cond(
				[2]ir.Expr{front.Gt(v.Load(), front.Int(1000)), front.Int(0)},
				[2]ir.Expr{front.Eq(v.Load(), front.Int(1000)), front.Int(1)},
				[2]ir.Expr{front.Int(1), front.If(front.Lt(v.Load(), front.Int(10)), front.Int(0), front.Int(1))},
			)),
		)
	}

	opts := Options{Version: 3, AssembleConstants: true}

	x := build()

	a, err := Compile(context.Background(), x, opts)
	require.NoError(t, err)

	b, err := Compile(context.Background(), x, opts)
	require.NoError(t, err)

	c, err := Compile(context.Background(), build(), opts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestNormalizationEquivalence(t *testing.T) {
	exprs := map[string]func() ir.Expr{
		"if": func() ir.Expr {
			return front.Return(front.If(front.Txn("Fee"), front.Int(1), front.Int(0)))
		},
		"if_no_else": func() ir.Expr {
			return front.Seq(front.If(front.Txn("Fee"), front.Pop(front.Int(1)), nil), front.Return(front.Int(1)))
		},
		"cond": func() ir.Expr {
			return front.Return(front.Cond(
				[2]ir.Expr{front.Txn("Fee"), front.Int(1)},
				[2]ir.Expr{front.Txn("Amount"), front.Int(2)},
				[2]ir.Expr{front.Int(1), front.Int(3)},
			))
		},
		"assert": func() ir.Expr {
			return front.Seq(front.Assert(front.Txn("Fee")), front.Assert(front.Txn("Amount")), front.Return(front.Int(1)))
		},
		"and": func() ir.Expr {
			return front.Return(front.And(front.Txn("Fee"), front.Txn("Amount"), front.Int(1)))
		},
	}

	for name, build := range exprs {
		t.Run(name, func(t *testing.T) {
			lower := func() (*ir.Graph, ir.BlockID) {
				b := ir.NewBuilder(ir.Options{Mode: ir.ModeSignature, Version: 2})

				f, err := build().Lower(b)
				require.NoError(t, err)

				return b.Graph, f.Entry
			}

			g, root := lower()
			plain := linearize(t, g, root, false)

			g, root = lower()
			norm := linearize(t, g, root, true)

			assert.Equal(t, plain, norm)
		})
	}

	for name, build := range map[string]func(*ir.Graph) ir.BlockID{
		"straight": straightLine,
		"branch":   branchJoin,
		"neither":  neitherAdjacent,
	} {
		t.Run(name, func(t *testing.T) {
			g := ir.NewGraph()
			plain := linearize(t, g, build(g), false)

			g = ir.NewGraph()
			norm := linearize(t, g, build(g), true)

			assert.Equal(t, plain, norm)
		})
	}
}

func TestPackingPreservesLiterals(t *testing.T) {
	x := front.Return(front.And(
		front.Eq(front.Txn("Receiver"), front.Addr("WSJHNPJ6YCLX5K4GUMQ4ISPK3ABMS3AL3F6CSVQTCUI5F4I65PWEMCWT3M")),
		front.Eq(front.Txn("Note"), front.Bytes("note")),
		front.Eq(front.Btoi(front.Txn("Note")), front.Int(1)),
		front.Eq(front.Len(front.Bytes("note")), front.Int(4)),
		front.Eq(front.Txn("TypeEnum"), front.TxnType.Payment),
		front.Eq(front.Txn("Fee"), front.Int(1)),
	))

	for v := 3; v <= MaxVersion; v++ {
		plain, err := Compile(context.Background(), x, Options{Version: v})
		require.NoError(t, err)

		packed, err := Compile(context.Background(), x, Options{Version: v, AssembleConstants: true})
		require.NoError(t, err)

		assert.Equal(t, literals(plain), literals(packed))
		assert.Contains(t, packed, "\nintcblock 1\n")
		assert.Contains(t, packed, "\nbytecblock 0x6e6f7465\n")
	}
}

func linearize(t *testing.T, g *ir.Graph, root ir.BlockID, normalize bool) []string {
	t.Helper()

	g.AddIncoming(root)

	if normalize {
		root = g.Normalize(root)
	}

	require.NoError(t, g.ValidateTree(root))

	order := back.SortBlocks(g, root)

	code, err := back.FlattenBlocks(g, order)
	require.NoError(t, err)

	labels := map[string]string{}

	name := func(l string) string {
		n, ok := labels[l]
		if !ok {
			n = "L" + string(rune('a'+len(labels)))
			labels[l] = n
		}

		return n
	}

	var r []string

	for _, c := range code {
		switch c := c.(type) {
		case *ir.Label:
			r = append(r, name(c.Name)+":")
		case *ir.Instr:
			if c.Op == ir.OpB || c.Op == ir.OpBz || c.Op == ir.OpBnz {
				r = append(r, c.Op.Name+" "+name(c.Args[0].(string)))
				continue
			}

			b, err := format.Component(context.Background(), nil, c)
			require.NoError(t, err)

			r = append(r, string(b))
		}
	}

	return r
}

// literals replaces literal loading instructions with the literal they load.
func literals(text string) []string {
	var r []string

	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, "intcblock") || strings.HasPrefix(l, "bytecblock") {
			continue
		}

		if p := strings.Index(l, " // "); p >= 0 {
			r = append(r, "lit "+l[p+4:])
			continue
		}

		op, arg, _ := strings.Cut(l, " ")

		switch op {
		case "int", "byte", "addr":
			r = append(r, "lit "+arg)
		default:
			r = append(r, l)
		}
	}

	return r
}

func TestLiteralsHelper(t *testing.T) {
	assert.Equal(t, []string{"#pragma version 3", "lit 1", "lit 2", "+"},
		literals("#pragma version 3\nintcblock 1\nintc_0 // 1\npushint 2 // 2\n+"))
}
