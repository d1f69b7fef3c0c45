package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tealc/compiler/back"
	"github.com/slowlang/tealc/compiler/format"
	"github.com/slowlang/tealc/compiler/ir"
)

const (
	MinVersion     = 2
	MaxVersion     = 5
	DefaultVersion = MinVersion

	// NumSlots is the number of scratch slots the machine has.
	NumSlots = 256
)

type (
	// Options zero values mean Signature mode and DefaultVersion.
	Options struct {
		Mode    ir.Mode
		Version int

		// AssembleConstants packs literals into constant pools.
		// It requires the version which has pushint.
		AssembleConstants bool
	}
)

// Compile lowers x and compiles it into program text.
func Compile(ctx context.Context, x ir.Expr, opts Options) (_ string, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "mode", opts.Mode, "version", opts.Version, "pack", opts.AssembleConstants)
	defer tr.Finish("err", &err)

	opts, err = opts.check()
	if err != nil {
		return "", err
	}

	b := ir.NewBuilder(ir.Options{Mode: opts.Mode, Version: opts.Version})

	f, err := x.Lower(b)
	if err != nil {
		return "", errors.Wrap(err, "lower")
	}

	return compileGraph(ctx, b.Graph, f.Entry, opts)
}

// CompileGraph compiles a graph which was built directly.
func CompileGraph(ctx context.Context, g *ir.Graph, root ir.BlockID, opts Options) (_ string, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile graph", "blocks", len(g.Blocks), "root", root)
	defer tr.Finish("err", &err)

	opts, err = opts.check()
	if err != nil {
		return "", err
	}

	return compileGraph(ctx, g, root, opts)
}

func compileGraph(ctx context.Context, g *ir.Graph, root ir.BlockID, opts Options) (_ string, err error) {
	tr := tlog.SpanFromContext(ctx)

	g.AddIncoming(root)

	err = g.ValidateTree(root)
	if err != nil {
		return "", errors.Wrap(err, "validate tree")
	}

	root = g.Normalize(root)

	err = g.ValidateTree(root)
	if err != nil {
		return "", errors.Wrap(err, "validate normalized tree")
	}

	if tr.If("dump_blocks") {
		g.Iterate(root, func(id ir.BlockID) bool {
			blk := g.Block(id)
			tr.Printw("block", "id", id, "kind", blk.Kind, "code", len(blk.Code), "out", blk.Outgoing(), "in", blk.In)
			return true
		})
	}

	if errs := g.ValidateSlots(root); len(errs) != 0 {
		return "", errors.Wrap(errs, "validate slots")
	}

	order := back.SortBlocks(g, root)

	tr.V("order").Printw("sorted", "order", order)

	code, err := back.FlattenBlocks(g, order)
	if err != nil {
		return "", errors.Wrap(err, "flatten")
	}

	err = back.VerifyOpsForVersion(code, opts.Version)
	if err != nil {
		return "", err
	}

	err = back.VerifyOpsForMode(code, opts.Mode)
	if err != nil {
		return "", err
	}

	slots := back.CollectSlots(code)
	if len(slots) > NumSlots {
		return "", ir.NewInputError("too many slots in use: %d, maximum is %d", len(slots), NumSlots)
	}

	back.AssignSlots(code, slots)

	if opts.AssembleConstants {
		if v := ir.OpPushint.MinVersion; opts.Version < v {
			return "", ir.NewInputError("the minimum version required to enable constant assembly is %d, the current version is %d", v, opts.Version)
		}

		code, err = back.CreateConstantBlocks(code)
		if err != nil {
			return "", errors.Wrap(err, "assemble constants")
		}
	}

	tr.Printw("compiled", "blocks", len(order), "components", len(code), "slots", len(slots))

	text, err := format.Program(ctx, nil, opts.Version, code)
	if err != nil {
		return "", errors.Wrap(err, "render")
	}

	return string(text), nil
}

func (o Options) check() (Options, error) {
	if o.Version == 0 {
		o.Version = DefaultVersion
	}

	if o.Version < MinVersion || o.Version > MaxVersion {
		return o, ir.NewInputError("unsupported version: %d, expected an integer in the range [%d, %d]", o.Version, MinVersion, MaxVersion)
	}

	if o.Mode == 0 {
		o.Mode = ir.ModeSignature
	}

	if o.Mode != ir.ModeSignature && o.Mode != ir.ModeApplication {
		return o, ir.NewInputError("unsupported mode: %v", o.Mode)
	}

	return o, nil
}
