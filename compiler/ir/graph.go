package ir

import (
	"fmt"

	"github.com/slowlang/tealc/compiler/set"
)

type (
	// Graph owns all the blocks of one compilation.
	Graph struct {
		Blocks []Block
	}
)

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) NewSimple(code ...Component) BlockID {
	return g.add(Block{Kind: Simple, Next: Nil, True: Nil, False: Nil, Code: code})
}

func (g *Graph) NewCond(code ...Component) BlockID {
	return g.add(Block{Kind: Cond, Next: Nil, True: Nil, False: Nil, Code: code})
}

func (g *Graph) add(b Block) BlockID {
	id := BlockID(len(g.Blocks))
	g.Blocks = append(g.Blocks, b)

	return id
}

// Block returns the block by id.
// The pointer is valid until the next block is created.
func (g *Graph) Block(id BlockID) *Block {
	return &g.Blocks[id]
}

// Link sets the next edge of a simple block.
func (g *Graph) Link(from, to BlockID) {
	b := &g.Blocks[from]

	if b.Kind != Simple {
		panic(&AssertionError{Msg: fmt.Sprintf("link from %v block %d", b.Kind, from)})
	}

	b.Next = to
}

// Branch sets both edges of a conditional block.
func (g *Graph) Branch(from, t, f BlockID) {
	b := &g.Blocks[from]

	if b.Kind != Cond {
		panic(&AssertionError{Msg: fmt.Sprintf("branch from %v block %d", b.Kind, from)})
	}

	b.True, b.False = t, f
}

// AddIncoming fills In lists of all the blocks reachable from root.
func (g *Graph) AddIncoming(root BlockID) {
	visited := set.MakeBitmap(len(g.Blocks))

	g.addIncoming(root, Nil, &visited)
}

func (g *Graph) addIncoming(id, parent BlockID, visited *set.Bitmap) {
	b := &g.Blocks[id]

	if parent != Nil && !contains(b.In, parent) {
		b.In = append(b.In, parent)
	}

	if visited.TestAndSet(int(id)) {
		return
	}

	for _, next := range b.Outgoing() {
		g.addIncoming(next, id, visited)
	}
}

// ValidateTree checks that In lists agree with edges.
func (g *Graph) ValidateTree(root BlockID) error {
	visited := set.MakeBitmap(len(g.Blocks))

	return g.validateTree(root, Nil, &visited)
}

func (g *Graph) validateTree(id, parent BlockID, visited *set.Bitmap) error {
	if id < 0 || int(id) >= len(g.Blocks) {
		return &AssertionError{Msg: fmt.Sprintf("edge %d -> %d: no such block", parent, id)}
	}

	b := &g.Blocks[id]

	if parent != Nil {
		cnt := 0

		for _, p := range b.In {
			if p == parent {
				cnt++
			}
		}

		if cnt != 1 {
			return &AssertionError{Msg: fmt.Sprintf("block %d: expected parent %d once in incoming, found %d times", id, parent, cnt)}
		}
	}

	if visited.TestAndSet(int(id)) {
		return nil
	}

	if b.Kind == Cond && (b.True == Nil) != (b.False == Nil) {
		return &AssertionError{Msg: fmt.Sprintf("block %d: conditional with a single branch", id)}
	}

	if b.Kind == Cond && b.True != Nil && b.True == b.False {
		return &AssertionError{Msg: fmt.Sprintf("block %d: duplicate edge to %d", id, b.True)}
	}

	for _, next := range b.Outgoing() {
		err := g.validateTree(next, id, visited)
		if err != nil {
			return err
		}
	}

	return nil
}

// Iterate visits blocks reachable from root in breadth-first order.
// Outgoing edges of a block are taken before f is called on it.
func (g *Graph) Iterate(root BlockID, f func(id BlockID) bool) {
	visited := set.MakeBitmap(len(g.Blocks))
	visited.Set(int(root))

	queue := []BlockID{root}

	for len(queue) != 0 {
		id := queue[0]
		queue = queue[1:]

		next := g.Blocks[id].Outgoing()

		if !f(id) {
			return
		}

		for _, n := range next {
			if !visited.TestAndSet(int(n)) {
				queue = append(queue, n)
			}
		}
	}
}

// Normalize merges straight-line chains of blocks.
// A block with the single parent, which has no other children, absorbs the parent code.
// In lists must be computed. Returns the new root.
func (g *Graph) Normalize(root BlockID) BlockID {
	g.Iterate(root, func(id BlockID) bool {
		b := &g.Blocks[id]

		if len(b.In) != 1 {
			return true
		}

		prev := b.In[0]
		p := &g.Blocks[prev]

		out := p.Outgoing()
		if len(out) != 1 || out[0] != id {
			return true
		}

		code := make([]Component, 0, len(p.Code)+len(b.Code))
		code = append(code, p.Code...)
		code = append(code, b.Code...)

		b.Code = code
		b.In = p.In

		for _, pp := range p.In {
			g.Blocks[pp].ReplaceOutgoing(prev, id)
		}

		if prev == root {
			root = id
		}

		return true
	})

	return root
}

func contains(l []BlockID, x BlockID) bool {
	for _, y := range l {
		if y == x {
			return true
		}
	}

	return false
}
