package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/tealc/compiler/ir"
)

// Program renders the version header followed by one line per component.
// There is no trailing newline.
func Program(ctx context.Context, b []byte, version int, code []ir.Component) (_ []byte, err error) {
	b = app(b, "#pragma version %d", version)

	for i, c := range code {
		b = append(b, '\n')

		b, err = format(ctx, b, c)
		if err != nil {
			return nil, errors.Wrap(err, "line %d", i+2)
		}
	}

	return b, nil
}

// Component renders one line without a newline.
func Component(ctx context.Context, b []byte, c ir.Component) ([]byte, error) {
	return format(ctx, b, c)
}

func format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ir.Instr:
		return formatInstr(ctx, b, x)
	case *ir.Label:
		return app(b, "%s:", x.Name), nil
	default:
		return nil, errors.New("unsupported component: %T", x)
	}
}

func formatInstr(ctx context.Context, b []byte, x *ir.Instr) ([]byte, error) {
	b = append(b, x.Op.Name...)

	for _, a := range x.Args {
		switch a := a.(type) {
		case uint64:
			b = app(b, " %d", a)
		case string:
			b = app(b, " %s", a)
		case ir.Slot:
			return nil, ir.NewInternalError("slot not assigned: %v", a)
		default:
			return nil, errors.New("unsupported arg: %T", a)
		}
	}

	return b, nil
}

func app(b []byte, f string, args ...any) []byte {
	return hfmt.Appendf(b, f, args...)
}
