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

// Stack buffer geometry (spec.md §6 "Stack buffer"): 0x1000 elements of
// 128-bit width, indexed byte-wise, i.e. 0x10000 bytes total.
const (
	StackSlots     = 0x1000
	StackSlotBytes = 16
	StackBytes     = StackSlots * StackSlotBytes
)

// Context is the lifter context (spec.md §3 "Lifter context"): the IR
// module, the builder, the active mode, the abstract-state table, the
// stack buffer pointer, and the simulated instruction pointer. Exactly
// one Context exists per lifted function (spec.md §5 "exclusive
// ownership"); every semantic rule takes *Context the way every
// falcon/compile/ssa rule method takes *Func or *Block.
type Context struct {
	Mode    arch.Mode
	Fn      *ir.Func
	B       *ir.Builder
	State   *state.Table
	Stack   *ir.Value
	Config  Config

	runtimeAddr      uint64
	initialCallerRet uint64

	// stackConst shadows the top-of-stack value written by the most
	// recent PUSH/CALL as a concrete constant, keyed by the identity of
	// the RSP value in effect at that write. It lets POP/RET recover
	// "this memory cell reads back as a known constant" without the
	// general IR memory model doing store-to-load forwarding (spec.md
	// §4.9 "classify as real return if the stored return address reads
	// back as a constant").
	stackConst map[*ir.Value]uint64

	// Unsupported accumulates mnemonics the driver could not lift when
	// Config.StopOnUnsupported is false (spec.md §7).
	Unsupported map[string]int

	log *logrus.Entry
}

// RuntimeAddress returns the simulated instruction pointer's current
// value (spec.md §4.9, §9 "Simulated runtime address").
func (c *Context) RuntimeAddress() uint64 { return c.runtimeAddr }

// IncreaseIP advances the simulated instruction pointer by length bytes,
// called once per instruction by the driver before dispatch.
func (c *Context) IncreaseIP(length int) { c.runtimeAddr += uint64(length) }

// SetRuntimeAddress overwrites the simulated instruction pointer, used
// by JMP/CALL when the target is a compile-time-known displacement.
func (c *Context) SetRuntimeAddress(addr uint64) { c.runtimeAddr = addr }

func (c *Context) recordUnsupported(mnemonic string) {
	if c.Unsupported == nil {
		c.Unsupported = make(map[string]int)
	}
	c.Unsupported[mnemonic]++
}

// GPRWidth is the natural width of a GPR in the active mode (spec.md §3:
// "every GPR identifier maps to an integer IR value whose bit width
// equals the register's natural width in the current mode").
func (c *Context) GPRWidth() int { return c.Mode.PointerWidth() }

// recordStackConst remembers that the memory cell addressed by the
// current RSP value was just written with the constant imm.
func (c *Context) recordStackConst(rsp *ir.Value, imm uint64) {
	if c.stackConst == nil {
		c.stackConst = make(map[*ir.Value]uint64)
	}
	c.stackConst[rsp] = imm
}

// lookupStackConst reports whether the memory cell addressed by rsp was
// last written with a known constant, and what it was.
func (c *Context) lookupStackConst(rsp *ir.Value) (uint64, bool) {
	v, ok := c.stackConst[rsp]
	return v, ok
}
