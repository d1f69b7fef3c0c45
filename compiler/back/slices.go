package back

import "github.com/slowlang/tealc/compiler/ir"

func index[E comparable](s []E, x E) int {
	for i, y := range s {
		if y == x {
			return i
		}
	}

	return -1
}

func remove[S ~[]E, E any](s S, i int) S {
	copy(s[i:], s[i+1:])

	return s[:len(s)-1]
}

func positions(order []ir.BlockID) map[ir.BlockID]int {
	pos := make(map[ir.BlockID]int, len(order))

	for i, id := range order {
		pos[id] = i
	}

	return pos
}
