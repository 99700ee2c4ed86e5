// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/ir"
	"github.com/r3bb1t/bin-lift/state"
	"github.com/sirupsen/logrus"
)

// NewContext creates a fresh lifter context for a function named name,
// scaffolding it per spec.md §3/§6/§8: one integer parameter per GPR
// slot (width = mode pointer size), one 1-bit parameter per flag slot,
// a single entry block, and a stack buffer allocated once up front.
func NewContext(name string, cfg Config) *Context {
	gprWidth := cfg.Mode.PointerWidth()
	fn := ir.NewFunc(name, ir.Int(gprWidth))
	b := ir.NewBuilder(fn)
	st := state.New(gprWidth)

	for _, reg := range arch.GPRs {
		p := fn.NewParam(ir.Int(gprWidth), reg)
		st.Set(reg, p)
	}
	for _, reg := range arch.Flags {
		width := 1
		if reg == arch.IOPL {
			width = 2
		}
		p := fn.NewParam(ir.Int(width), reg)
		st.Set(reg, p)
	}

	stackPtr := b.Alloc(ir.I8, StackBytes)

	log := logrus.WithFields(logrus.Fields{"func": name, "mode": cfg.Mode.String()})
	if cfg.Verbose {
		log.Logger.SetLevel(logrus.DebugLevel)
	} else {
		log.Logger.SetLevel(logrus.InfoLevel)
	}

	c := &Context{
		Mode:        cfg.Mode,
		Fn:          fn,
		B:           b,
		State:       st,
		Stack:       stackPtr,
		Config:      cfg,
		runtimeAddr:      cfg.EntryAddress,
		initialCallerRet: cfg.CallerReturnAddress,
		log:              log,
	}

	// The stack cell at the entry RSP already holds cfg.CallerReturnAddress
	// before the trace's first instruction runs (spec.md §4.9's "the
	// initial caller"); seed the shadow cache so a plain RET with no
	// matching in-trace CALL still classifies as a real return.
	entryRSP, _ := st.Get(arch.RSP)
	c.recordStackConst(entryRSP, cfg.CallerReturnAddress)

	return c
}

// Finish emits the function's terminating return (spec.md §3
// "Lifecycle": "after the last instruction the driver emits a return of
// the current RAX slot, truncated or zero-extended to the function
// return type") and returns the completed function.
func (c *Context) Finish() *ir.Func {
	rax, _ := c.State.Get(arch.RAX)
	ret := c.B.ExtTo(rax, c.Fn.RetType.Width, false)
	c.B.Ret(ret)
	return c.Fn
}
