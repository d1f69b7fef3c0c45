package ir

import "strconv"

type (
	// Slot is a scratch slot reference.
	// It is replaced by a dense index at slot assignment.
	Slot int

	// Scratch allocates slots in creation order.
	// One Scratch serves one program.
	Scratch struct {
		next Slot
	}
)

func (s *Scratch) New() Slot {
	x := s.next
	s.next++

	return x
}

// Len is the number of slots allocated so far.
func (s *Scratch) Len() int { return int(s.next) }

func (s Slot) String() string {
	return "slot#" + strconv.Itoa(int(s))
}
