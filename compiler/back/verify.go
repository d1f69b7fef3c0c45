package back

import (
	"github.com/slowlang/tealc/compiler/ir"
)

// VerifyOpsForVersion fails on the first op which needs a newer version.
func VerifyOpsForVersion(code []ir.Component, version int) error {
	for _, c := range code {
		in, ok := c.(*ir.Instr)
		if !ok || in.Op.AllowedAt(version) {
			continue
		}

		return ir.NewInternalError("op not supported in version %d: %v, minimum required version is %d", version, in.Op, in.Op.MinVersion)
	}

	return nil
}

// VerifyOpsForMode fails on the first op not allowed in mode.
func VerifyOpsForMode(code []ir.Component, mode ir.Mode) error {
	for _, c := range code {
		in, ok := c.(*ir.Instr)
		if !ok || in.Op.AllowedIn(mode) {
			continue
		}

		return ir.NewInputError("op not supported in %v mode: %v", mode, in.Op)
	}

	return nil
}
