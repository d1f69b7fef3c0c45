package main

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/slowlang/tealc/compiler"
	"github.com/slowlang/tealc/compiler/ir"
)

type (
	// Config is a list of programs to compile in one run.
	//
	//	targets:
	//	  - program: asset_approval
	//	    version: 3
	//	    assemble_constants: true
	//	    out: build/asset_approval.teal
	Config struct {
		Targets []Target `yaml:"targets"`
	}

	Target struct {
		Program string `yaml:"program"`

		// Mode is signature or application. Program default if empty.
		Mode    string `yaml:"mode,omitempty"`
		Version int    `yaml:"version,omitempty"`

		AssembleConstants bool `yaml:"assemble_constants,omitempty"`

		// Out is the output file. Stdout if empty.
		Out string `yaml:"out,omitempty"`
	}
)

func LoadConfig(name string) (*Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var c Config

	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	for i, t := range c.Targets {
		if t.Program == "" {
			return nil, errors.New("target %d: program is not set", i)
		}
	}

	return &c, nil
}

// Options returns compiler options for the target.
// def is used if the mode is not set.
func (t Target) Options(def ir.Mode) (compiler.Options, error) {
	mode, err := ParseMode(t.Mode, def)
	if err != nil {
		return compiler.Options{}, err
	}

	return compiler.Options{
		Mode:              mode,
		Version:           t.Version,
		AssembleConstants: t.AssembleConstants,
	}, nil
}

func ParseMode(s string, def ir.Mode) (ir.Mode, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "signature", "sig":
		return ir.ModeSignature, nil
	case "application", "app":
		return ir.ModeApplication, nil
	default:
		return 0, errors.New("unsupported mode: %q", s)
	}
}
