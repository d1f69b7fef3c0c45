package back

import (
	"strconv"

	"nikand.dev/go/heap"
	"tlog.app/go/tlog"

	"github.com/slowlang/tealc/compiler/ir"
)

type (
	pool struct {
		freq   map[string]int
		index  map[string]int
		ranked []string

		short []*ir.Op
		long  *ir.Op
		push  *ir.Op
	}
)

// CreateConstantBlocks rewrites int, byte and addr pseudo-ops into constant pool loads.
//
// Values loaded more than once are declared in intcblock and bytecblock,
// ranked by frequency and then by canonical form in descending order.
// Values loaded once are pushed with pushint or pushbytes.
// Each rewritten instruction keeps its original args as a comment.
func CreateConstantBlocks(code []ir.Component) ([]ir.Component, error) {
	ints := newPool([]*ir.Op{ir.OpIntc0, ir.OpIntc1, ir.OpIntc2, ir.OpIntc3}, ir.OpIntc, ir.OpPushint)
	bytes := newPool([]*ir.Op{ir.OpBytec0, ir.OpBytec1, ir.OpBytec2, ir.OpBytec3}, ir.OpBytec, ir.OpPushbytes)

	for _, c := range code {
		in, ok := c.(*ir.Instr)
		if !ok {
			continue
		}

		p, key, err := constant(in, ints, bytes)
		if err != nil {
			return nil, err
		}

		if p != nil {
			p.freq[key]++
		}
	}

	ints.rank()
	bytes.rank()

	tlog.V("constants").Printw("constant pools", "ints", ints.ranked, "bytes", bytes.ranked)

	r := make([]ir.Component, 0, len(code)+2)

	if args := ints.pooled(intArg); len(args) != 0 {
		r = append(r, ir.NewInstr(nil, ir.OpIntcblock, args...))
	}

	if args := bytes.pooled(bytesArg); len(args) != 0 {
		r = append(r, ir.NewInstr(nil, ir.OpBytecblock, args...))
	}

	for _, c := range code {
		in, ok := c.(*ir.Instr)
		if !ok {
			r = append(r, c)
			continue
		}

		p, key, _ := constant(in, ints, bytes)
		if p == nil {
			r = append(r, c)
			continue
		}

		arg := bytesArg(key)
		if p == ints {
			arg = intArg(key)
		}

		r = append(r, p.load(in, key, arg))
	}

	return r, nil
}

func constant(in *ir.Instr, ints, bytes *pool) (p *pool, key string, err error) {
	switch in.Op {
	case ir.OpInt:
		key, err = IntValue(in)
		p = ints
	case ir.OpByte:
		key, err = BytesValue(in)
		p = bytes
	case ir.OpAddr:
		key, err = AddrValue(in)
		p = bytes
	default:
		return nil, "", nil
	}

	if err != nil {
		return nil, "", err
	}

	return p, key, nil
}

func newPool(short []*ir.Op, long, push *ir.Op) *pool {
	return &pool{
		freq:  map[string]int{},
		index: map[string]int{},
		short: short,
		long:  long,
		push:  push,
	}
}

func (p *pool) rank() {
	h := heap.Heap[string]{Less: p.less}

	for k := range p.freq {
		h.Push(k)
	}

	for h.Len() != 0 {
		k := h.Pop()

		p.index[k] = len(p.ranked)
		p.ranked = append(p.ranked, k)
	}
}

func (p *pool) less(d []string, i, j int) bool {
	a, b := d[i], d[j]

	if fa, fb := p.freq[a], p.freq[b]; fa != fb {
		return fa > fb
	}

	return a > b
}

func (p *pool) pooled(conv func(string) ir.Arg) (r []any) {
	for _, k := range p.ranked {
		if p.freq[k] < 2 {
			break
		}

		r = append(r, conv(k))
	}

	return r
}

func (p *pool) load(in *ir.Instr, key string, arg ir.Arg) *ir.Instr {
	if p.freq[key] == 1 {
		return ir.NewInstr(in.Expr, p.push, comment(in, arg)...)
	}

	i := p.index[key]

	if i < len(p.short) {
		return ir.NewInstr(in.Expr, p.short[i], comment(in)...)
	}

	return ir.NewInstr(in.Expr, p.long, comment(in, i)...)
}

func comment(in *ir.Instr, args ...any) []any {
	args = append(args, "//")
	args = append(args, in.Args...)

	return args
}

func intArg(k string) ir.Arg {
	if v, err := strconv.ParseUint(k, 10, 64); err == nil {
		return v
	}

	return k
}

func bytesArg(k string) ir.Arg { return k }
