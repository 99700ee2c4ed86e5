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

// flagops.go implements the direct flag-manipulation family (spec.md
// §4.12): CLC, STC, CMC, CLD, STD, SALC, LAHF, SAHF.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func (c *Context) liftClc(inst decode.Instruction) error {
	c.State.Set(arch.CF, c.B.ConstInt(ir.I1, 0))
	return nil
}

func (c *Context) liftStc(inst decode.Instruction) error {
	c.State.Set(arch.CF, c.B.ConstInt(ir.I1, 1))
	return nil
}

func (c *Context) liftCmc(inst decode.Instruction) error {
	c.State.Set(arch.CF, c.B.Not(c.ReadReg(arch.CF)))
	return nil
}

func (c *Context) liftCld(inst decode.Instruction) error {
	c.State.Set(arch.DF, c.B.ConstInt(ir.I1, 0))
	return nil
}

func (c *Context) liftStd(inst decode.Instruction) error {
	c.State.Set(arch.DF, c.B.ConstInt(ir.I1, 1))
	return nil
}

// liftSalc sets AL to 0xFF when CF=1, else 0x00. Undocumented opcode
// 0xD6, kept because obfuscated traces occasionally use it as a
// CF-to-GPR bridge (spec.md §4.12).
func (c *Context) liftSalc(inst decode.Instruction) error {
	cf := c.ReadReg(arch.CF)
	allOnes := c.B.ConstInt(ir.I8, 0xFF)
	zero := c.B.ConstInt(ir.I8, 0)
	isSet := c.B.ICmp(ir.OpICmpEQ, cf, c.B.ConstInt(ir.I1, 1))
	al := c.B.Select(isSet, allOnes, zero)
	return c.StoreOperand(decode.Operand{Kind: decode.OperandRegister, Reg: arch.RAX, SubKind: arch.SubLow8, SizeBits: 8}, al)
}

// liftLahf assembles AH from (SF<<7 | ZF<<6 | AF<<4 | PF<<2 | CF) plus
// the reserved bit-1 = 1 (spec.md §4.12).
func (c *Context) liftLahf(inst decode.Instruction) error {
	t := ir.I8
	sf := c.B.ZExt(c.ReadReg(arch.SF), 8)
	zf := c.B.ZExt(c.ReadReg(arch.ZF), 8)
	af := c.B.ZExt(c.ReadReg(arch.AF), 8)
	pf := c.B.ZExt(c.ReadReg(arch.PF), 8)
	cf := c.B.ZExt(c.ReadReg(arch.CF), 8)

	ah := c.B.ConstInt(t, 1 << 1)
	ah = c.B.Binary(ir.OpOr, t, ah, c.B.Binary(ir.OpShl, t, sf, c.B.ConstInt(t, 7)))
	ah = c.B.Binary(ir.OpOr, t, ah, c.B.Binary(ir.OpShl, t, zf, c.B.ConstInt(t, 6)))
	ah = c.B.Binary(ir.OpOr, t, ah, c.B.Binary(ir.OpShl, t, af, c.B.ConstInt(t, 4)))
	ah = c.B.Binary(ir.OpOr, t, ah, c.B.Binary(ir.OpShl, t, pf, c.B.ConstInt(t, 2)))
	ah = c.B.Binary(ir.OpOr, t, ah, cf)

	return c.StoreOperand(decode.Operand{Kind: decode.OperandRegister, Reg: arch.RAX, SubKind: arch.SubHigh8, SizeBits: 8}, ah)
}

// liftSahf distributes AH's bits 0,2,4,6,7 back into CF, PF, AF, ZF, SF
// respectively (spec.md §4.12).
func (c *Context) liftSahf(inst decode.Instruction) error {
	ah := c.LoadRegisterOperand(decode.Operand{Kind: decode.OperandRegister, Reg: arch.RAX, SubKind: arch.SubHigh8, SizeBits: 8})
	bit := func(n int) *ir.Value {
		shifted := c.B.Binary(ir.OpLShr, ir.I8, ah, c.B.ConstInt(ir.I8, uint64(n)))
		return c.B.Trunc(c.B.Binary(ir.OpAnd, ir.I8, shifted, c.B.ConstInt(ir.I8, 1)), 1)
	}
	c.State.Set(arch.CF, bit(0))
	c.State.Set(arch.PF, bit(2))
	c.State.Set(arch.AF, bit(4))
	c.State.Set(arch.ZF, bit(6))
	c.State.Set(arch.SF, bit(7))
	return nil
}
