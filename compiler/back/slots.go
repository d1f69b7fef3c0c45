package back

import (
	"github.com/slowlang/tealc/compiler/ir"
	"github.com/slowlang/tealc/compiler/set"
)

// CollectSlots returns distinct slots referenced by code in creation order.
func CollectSlots(code []ir.Component) []ir.Slot {
	used := set.MakeBits[ir.Slot](0)

	for _, c := range code {
		in, ok := c.(*ir.Instr)
		if !ok {
			continue
		}

		for _, s := range in.Slots() {
			used.Set(s)
		}
	}

	r := make([]ir.Slot, 0, used.Size())

	used.Range(func(s ir.Slot) bool {
		r = append(r, s)
		return true
	})

	return r
}

// AssignSlots replaces slot references with their indexes in slots.
func AssignSlots(code []ir.Component, slots []ir.Slot) {
	idx := make(map[ir.Slot]uint64, len(slots))

	for i, s := range slots {
		idx[s] = uint64(i)
	}

	for _, c := range code {
		in, ok := c.(*ir.Instr)
		if !ok {
			continue
		}

		for _, s := range in.Slots() {
			if x, ok := idx[s]; ok {
				in.AssignSlot(s, x)
			}
		}
	}
}
