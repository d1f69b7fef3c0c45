package ir

import (
	"tlog.app/go/tlog/tlwire"
)

type (
	BlockID int

	Kind uint8

	// Block is a graph node.
	// Simple blocks use Next, Cond blocks use True and False.
	// Cond blocks expect the condition value on the stack when their code ends.
	Block struct {
		Kind Kind

		Next        BlockID
		True, False BlockID

		Code []Component

		// In is computed by AddIncoming. It's never used for control transfer.
		In []BlockID
	}
)

const (
	Simple Kind = iota
	Cond
)

const Nil BlockID = -1

func (b *Block) Outgoing() []BlockID {
	var r []BlockID

	switch b.Kind {
	case Simple:
		if b.Next != Nil {
			r = append(r, b.Next)
		}
	case Cond:
		if b.True != Nil {
			r = append(r, b.True)
		}

		if b.False != Nil {
			r = append(r, b.False)
		}
	}

	return r
}

// ReplaceOutgoing redirects the first edge pointing at old to new.
func (b *Block) ReplaceOutgoing(old, new BlockID) {
	switch {
	case b.Kind == Simple && b.Next == old:
		b.Next = new
	case b.Kind == Cond && b.True == old:
		b.True = new
	case b.Kind == Cond && b.False == old:
		b.False = new
	}
}

// IsTerminal reports whether the block ends execution.
func (b *Block) IsTerminal() bool {
	for _, c := range b.Code {
		in, ok := c.(*Instr)
		if ok && (in.Op == OpReturn || in.Op == OpErr) {
			return true
		}
	}

	return len(b.Outgoing()) == 0
}

func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Cond:
		return "cond"
	default:
		return "kind?"
	}
}

func (id BlockID) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if id == Nil {
		return e.AppendNil(b)
	}

	return e.AppendInt(b, int(id))
}
