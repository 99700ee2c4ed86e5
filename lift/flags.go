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

// flags.go implements the pure IR-construction helpers of spec.md §4.3:
// one function per canonical flag formula, operating only on already-
// built IR values (the pre-operand, the post-operand if applicable, and
// the result) and writing the outcome into the abstract-state table.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/ir"
)

// SetZF: ZF = (result == 0).
func (c *Context) SetZF(result *ir.Value) {
	zero := c.B.ConstInt(result.Type, 0)
	c.State.Set(arch.ZF, c.B.ICmp(ir.OpICmpEQ, result, zero))
}

// SetSF: SF = signed result < 0, i.e. the MSB of result.
func (c *Context) SetSF(result *ir.Value) {
	width := result.Type.Width
	shifted := c.B.Binary(ir.OpLShr, result.Type, result, c.B.ConstInt(result.Type, uint64(width-1)))
	c.State.Set(arch.SF, c.B.Trunc(shifted, 1))
}

// SetPF: PF = parity of the low 8 bits of result (population count of
// result & 0xFF is even), via the population-count primitive and a
// low-bit mask (spec.md §4.3).
func (c *Context) SetPF(result *ir.Value) {
	low8 := c.B.Trunc(result, 8)
	popcnt := c.B.PopCount(low8)
	parityBit := c.B.Binary(ir.OpAnd, popcnt.Type, popcnt, c.B.ConstInt(popcnt.Type, 1))
	isOdd := c.B.ICmp(ir.OpICmpEQ, parityBit, c.B.ConstInt(popcnt.Type, 1))
	// PF is 1 when the count of set bits is EVEN, i.e. when isOdd is false.
	c.State.Set(arch.PF, c.B.Not(isOdd))
}

// SetAFAdd: AF = ((a & 0xF) + (b & 0xF)) > 0xF, the ADD-family formula.
func (c *Context) SetAFAdd(a, b *ir.Value) {
	t := a.Type
	nibble := c.B.ConstInt(t, 0xF)
	aLow := c.B.Binary(ir.OpAnd, t, a, nibble)
	bLow := c.B.Binary(ir.OpAnd, t, b, nibble)
	sum := c.B.Binary(ir.OpAdd, t, aLow, bLow)
	af := c.B.ICmp(ir.OpICmpULT, nibble, sum)
	c.State.Set(arch.AF, af)
}

// SetAFSub: AF = (a & 0xF) < (b & 0xF), the SUB/DEC/CMP-family formula.
func (c *Context) SetAFSub(a, b *ir.Value) {
	t := a.Type
	nibble := c.B.ConstInt(t, 0xF)
	aLow := c.B.Binary(ir.OpAnd, t, a, nibble)
	bLow := c.B.Binary(ir.OpAnd, t, b, nibble)
	af := c.B.ICmp(ir.OpICmpULT, aLow, bLow)
	c.State.Set(arch.AF, af)
}

// SetAFGeneral: AF = bit 4 of (a ^ b ^ result), the general form used by
// ADC/SBB once the carry-adjusted intermediate is known.
func (c *Context) SetAFGeneral(a, b, result *ir.Value) {
	t := a.Type
	x := c.B.Binary(ir.OpXor, t, a, b)
	x = c.B.Binary(ir.OpXor, t, x, result)
	bit4 := c.B.Binary(ir.OpLShr, t, x, c.B.ConstInt(t, 4))
	c.State.Set(arch.AF, c.B.Trunc(bit4, 1))
}

// SetCFAdd: CF = result <u a (unsigned wrap occurred).
func (c *Context) SetCFAdd(a, result *ir.Value) {
	c.State.Set(arch.CF, c.B.ICmp(ir.OpICmpULT, result, a))
}

// SetCFSub: CF = a <u b.
func (c *Context) SetCFSub(a, b *ir.Value) {
	c.State.Set(arch.CF, c.B.ICmp(ir.OpICmpULT, a, b))
}

// msb extracts the sign bit of v as a 1-bit value.
func (c *Context) msb(v *ir.Value) *ir.Value {
	width := v.Type.Width
	shifted := c.B.Binary(ir.OpLShr, v.Type, v, c.B.ConstInt(v.Type, uint64(width-1)))
	return c.B.Trunc(shifted, 1)
}

// SetOFAdd: OF = sign of (a ^ result) & (b ^ result) is negative.
func (c *Context) SetOFAdd(a, b, result *ir.Value) {
	t := a.Type
	x1 := c.B.Binary(ir.OpXor, t, a, result)
	x2 := c.B.Binary(ir.OpXor, t, b, result)
	combined := c.B.Binary(ir.OpAnd, t, x1, x2)
	c.State.Set(arch.OF, c.msb(combined))
}

// SetOFSub: OF = sign of (a ^ b) & (a ^ result) is negative.
func (c *Context) SetOFSub(a, b, result *ir.Value) {
	t := a.Type
	x1 := c.B.Binary(ir.OpXor, t, a, b)
	x2 := c.B.Binary(ir.OpXor, t, a, result)
	combined := c.B.Binary(ir.OpAnd, t, x1, x2)
	c.State.Set(arch.OF, c.msb(combined))
}

// SetArithFlagsAdd writes the full flag set (CF, OF, AF, PF, SF, ZF) for an
// ADD-family result (spec.md §4.5).
func (c *Context) SetArithFlagsAdd(a, b, result *ir.Value) {
	c.SetCFAdd(a, result)
	c.SetOFAdd(a, b, result)
	c.SetAFAdd(a, b)
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
}

// SetArithFlagsSub writes the full flag set for a SUB-family result.
func (c *Context) SetArithFlagsSub(a, b, result *ir.Value) {
	c.SetCFSub(a, b)
	c.SetOFSub(a, b, result)
	c.SetAFSub(a, b)
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
}

// SetLogicalFlags: TEST/AND/OR/XOR set PF, SF, ZF from the result and
// force CF=0, OF=0; AF is architecturally undefined and left untouched
// (spec.md §4.6).
func (c *Context) SetLogicalFlags(result *ir.Value) {
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
	c.State.Set(arch.CF, c.B.ConstInt(ir.I1, 0))
	c.State.Set(arch.OF, c.B.ConstInt(ir.I1, 0))
}

// PreserveFlag returns the current value of reg without writing
// anything; it documents "this flag is deliberately
// unchanged" at the call site (spec.md §8 property 1, "flag
// independence"). It exists mainly as a readability aid for count-zero
// idempotence (spec.md §4.7, §8 property 5): callers Select between the
// freshly computed flag and c.ReadReg(flag) rather than calling this.
func (c *Context) PreserveFlag(reg arch.Reg) *ir.Value {
	return c.ReadReg(reg)
}
