package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tealc/compiler"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile bundled programs, all of them if none is given",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("mode", "", "signature or application, program default if empty"),
			cli.NewFlag("version", compiler.DefaultVersion, "program version"),
			cli.NewFlag("pack", false, "assemble constants into constant blocks"),
			cli.NewFlag("out,o", "", "output directory, stdout if empty"),
			cli.NewFlag("config,c", "", "yaml file with compilation targets, overrides args"),
			cli.NewFlag("verbosity,v", "", "log verbosity topics"),
		},
	}

	listCmd := &cli.Command{
		Name:        "list",
		Description: "list bundled programs",
		Action:      listAct,
	}

	app := &cli.Command{
		Name:        "tealc",
		Description: "tealc compiles expression programs into stack machine assembly",
		Commands: []*cli.Command{
			compileCmd,
			listCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func compileAct(c *cli.Command) error {
	if v := c.String("verbosity"); v != "" {
		tlog.SetVerbosity(v)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var targets []Target

	if name := c.String("config"); name != "" {
		cfg, err := LoadConfig(name)
		if err != nil {
			return err
		}

		targets = cfg.Targets
	} else {
		targets = flagTargets(c)
	}

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	return run(ctx, targets, os.Stdout, tty)
}

func flagTargets(c *cli.Command) []Target {
	names := []string(c.Args)
	if len(names) == 0 {
		names = programNames()
	}

	out := c.String("out")

	targets := make([]Target, 0, len(names))

	for _, name := range names {
		t := Target{
			Program:           name,
			Mode:              c.String("mode"),
			Version:           c.Int("version"),
			AssembleConstants: c.Bool("pack"),
		}

		if out != "" {
			t.Out = filepath.Join(out, name+".teal")
		}

		targets = append(targets, t)
	}

	return targets
}

func run(ctx context.Context, targets []Target, stdout io.Writer, tty bool) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run", "targets", len(targets))
	defer tr.Finish("err", &err)

	sep := "\n\n"
	if tty {
		sep = "\n"
	}

	var printed int

	for _, t := range targets {
		text, err := compileTarget(ctx, t)
		if err != nil {
			return errors.Wrap(err, "target %v", t.Program)
		}

		if t.Out != "" {
			err = writeFile(t.Out, text)
			if err != nil {
				return errors.Wrap(err, "target %v", t.Program)
			}

			tr.Printw("written", "program", t.Program, "out", t.Out, "size", len(text))

			continue
		}

		if printed != 0 {
			text = sep + text
		}

		printed++

		if tty {
			text += "\n"
		}

		_, err = io.WriteString(stdout, text)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func compileTarget(ctx context.Context, t Target) (string, error) {
	p, ok := programs[t.Program]
	if !ok {
		return "", errors.New("unknown program: %v", t.Program)
	}

	opts, err := t.Options(p.Mode)
	if err != nil {
		return "", err
	}

	return compiler.Compile(ctx, p.Build(), opts)
}

func writeFile(name, text string) error {
	if dir := filepath.Dir(name); dir != "." {
		err := os.MkdirAll(dir, 0o755)
		if err != nil {
			return errors.Wrap(err, "mkdir")
		}
	}

	return os.WriteFile(name, []byte(text), 0o644)
}

func listAct(c *cli.Command) error {
	for _, name := range programNames() {
		p := programs[name]

		fmt.Printf("%-20s %-12v %s\n", name, p.Mode, p.Description)
	}

	return nil
}
