package back

import (
	"fmt"
	"strconv"

	"github.com/slowlang/tealc/compiler/ir"
)

// FlattenBlocks lays out ordered blocks as a flat instruction stream.
//
// Transfers to the physically next block are omitted.
// Only blocks referenced by a jump get a label.
func FlattenBlocks(g *ir.Graph, order []ir.BlockID) ([]ir.Component, error) {
	pos := positions(order)
	refs := make([]int, len(order))
	codes := make([][]ir.Component, len(order))

	target := func(from, to ir.BlockID) (int, error) {
		p, ok := pos[to]
		if !ok {
			return 0, &ir.AssertionError{Msg: fmt.Sprintf("block %d: jump target %d is not in order", from, to)}
		}

		return p, nil
	}

	jump := func(op *ir.Op, p int) *ir.Instr {
		refs[p]++

		return ir.NewInstr(nil, op, label(p))
	}

	for i, id := range order {
		b := g.Block(id)

		code := make([]ir.Component, len(b.Code), len(b.Code)+2)
		copy(code, b.Code)

		codes[i] = code

		if b.IsTerminal() {
			continue
		}

		switch b.Kind {
		case ir.Simple:
			p, err := target(id, b.Next)
			if err != nil {
				return nil, err
			}

			if p != i+1 {
				codes[i] = append(code, jump(ir.OpB, p))
			}
		case ir.Cond:
			if b.True == ir.Nil || b.False == ir.Nil {
				return nil, &ir.AssertionError{Msg: fmt.Sprintf("block %d: conditional block with a missing branch", id)}
			}

			tp, err := target(id, b.True)
			if err != nil {
				return nil, err
			}

			fp, err := target(id, b.False)
			if err != nil {
				return nil, err
			}

			switch {
			case fp == i+1:
				code = append(code, jump(ir.OpBnz, tp))
			case tp == i+1:
				code = append(code, jump(ir.OpBz, fp))
			default:
				code = append(code, jump(ir.OpBnz, tp), jump(ir.OpBz, fp))
			}

			codes[i] = code
		default:
			return nil, &ir.AssertionError{Msg: fmt.Sprintf("block %d: unsupported kind %v", id, b.Kind)}
		}
	}

	var r []ir.Component

	for i, code := range codes {
		if refs[i] != 0 {
			r = append(r, ir.NewLabel(nil, label(i)))
		}

		r = append(r, code...)
	}

	return r, nil
}

func label(p int) string {
	return "l" + strconv.Itoa(p)
}
