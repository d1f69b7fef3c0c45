package ir

type (
	// Fragment is the result of lowering one expression.
	// Exit is a simple block with no outgoing edge yet.
	Fragment struct {
		Entry BlockID
		Exit  BlockID
	}

	Builder struct {
		*Graph
		Options
	}
)

func NewBuilder(opts Options) *Builder {
	return &Builder{
		Graph:   NewGraph(),
		Options: opts,
	}
}

// Single makes a fragment of one simple block.
func (b *Builder) Single(code ...Component) Fragment {
	id := b.NewSimple(code...)

	return Fragment{Entry: id, Exit: id}
}

// Seq lowers expressions one after another.
func (b *Builder) Seq(args ...Expr) (Fragment, error) {
	f := Fragment{Entry: Nil, Exit: Nil}

	for _, a := range args {
		af, err := a.Lower(b)
		if err != nil {
			return Fragment{}, err
		}

		if f.Entry == Nil {
			f.Entry = af.Entry
		} else {
			b.Link(f.Exit, af.Entry)
		}

		f.Exit = af.Exit
	}

	return f, nil
}

// FromOp lowers args left to right and ends the chain with a block holding only in.
// With no args the op block is both entry and exit.
func (b *Builder) FromOp(in *Instr, args ...Expr) (Fragment, error) {
	op := b.NewSimple(in)

	if len(args) == 0 {
		return Fragment{Entry: op, Exit: op}, nil
	}

	f, err := b.Seq(args...)
	if err != nil {
		return Fragment{}, err
	}

	b.Link(f.Exit, op)

	return Fragment{Entry: f.Entry, Exit: op}, nil
}
