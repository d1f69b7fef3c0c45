package ir

import (
	"tlog.app/go/tlog"

	"github.com/slowlang/tealc/compiler/set"
)

type (
	slotValidator struct {
		g *Graph

		visited map[slotVisit]struct{}
		seen    map[*Instr]struct{}

		errs CompileErrors
	}

	slotVisit struct {
		id    BlockID
		slots string
	}
)

// ValidateSlots finds loads of slots which are not stored on some path from root.
// Each offending instruction is reported once.
func (g *Graph) ValidateSlots(root BlockID) CompileErrors {
	v := &slotValidator{
		g:       g,
		visited: map[slotVisit]struct{}{},
		seen:    map[*Instr]struct{}{},
	}

	v.walk(root, set.MakeBits[Slot](0))

	return v.errs
}

func (v *slotValidator) walk(id BlockID, stored set.Bits[Slot]) {
	b := &v.g.Blocks[id]

	copied := false

	for _, c := range b.Code {
		in, ok := c.(*Instr)
		if !ok {
			continue
		}

		switch in.Op {
		case OpStore:
			if !copied {
				stored = stored.Copy()
				copied = true
			}

			for _, s := range in.Slots() {
				stored.Set(s)
			}
		case OpLoad:
			for _, s := range in.Slots() {
				if !stored.IsSet(s) {
					v.report(in)
				}
			}
		}
	}

	if b.IsTerminal() {
		return
	}

	tlog.V("slots").Printw("block exit", "block", id, "stored", stored)

	key := stored.Key()

	for _, next := range b.Outgoing() {
		k := slotVisit{id: next, slots: key}

		if _, ok := v.visited[k]; ok {
			continue
		}

		v.visited[k] = struct{}{}

		v.walk(next, stored)
	}
}

func (v *slotValidator) report(in *Instr) {
	if _, ok := v.seen[in]; ok {
		return
	}

	v.seen[in] = struct{}{}

	v.errs = append(v.errs, &CompileError{
		Msg:  "scratch slot load occurs before store",
		Expr: in.Expr,
	})
}
