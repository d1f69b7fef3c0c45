package back

import (
	"tlog.app/go/tlog"

	"github.com/slowlang/tealc/compiler/ir"
)

// SortBlocks orders blocks reachable from root so that each block precedes its children.
//
// It's Kahn's algorithm. A block made ready by removing the first entry
// of its incoming list goes to the front of the queue, others go to the back.
// So the true or the next block tends to follow its parent and falls through.
//
// In lists must be computed. The graph is not modified.
func SortBlocks(g *ir.Graph, root ir.BlockID) []ir.BlockID {
	in := make([][]ir.BlockID, len(g.Blocks))

	for id := range g.Blocks {
		in[id] = append([]ir.BlockID(nil), g.Blocks[id].In...)
	}

	queue := []ir.BlockID{root}
	var order []ir.BlockID

	for len(queue) != 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)

		for _, next := range g.Blocks[id].Outgoing() {
			i := index(in[next], id)
			if i < 0 {
				continue
			}

			in[next] = remove(in[next], i)

			if len(in[next]) != 0 {
				continue
			}

			if i == 0 {
				queue = append([]ir.BlockID{next}, queue...)
			} else {
				queue = append(queue, next)
			}

			tlog.V("sort").Printw("ready", "block", next, "parent", id, "front", i == 0)
		}
	}

	return order
}
