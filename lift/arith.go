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

// arith.go implements the binary-arithmetic family (spec.md §4.5): ADD,
// SUB, ADC, SBB, CMP, INC, DEC, NEG, XADD.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func (c *Context) liftAdd(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpAdd, a.Type, a, b)
	c.SetArithFlagsAdd(a, b, result)
	return c.StoreOperand(dst, result)
}

func (c *Context) liftSub(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpSub, a.Type, a, b)
	c.SetArithFlagsSub(a, b, result)
	return c.StoreOperand(dst, result)
}

// liftAdc adds with the incoming carry: result = a + b + CF. CF is
// recomputed from both steps, the intermediate (a+b) and the final
// result, so a carry out of either step is observed (spec.md §4.3 "For
// ADC/SBB"); OF and AF are computed from a, b and the final result.
func (c *Context) liftAdc(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	t := a.Type
	cf := c.B.ZExt(c.ReadReg(arch.CF), t.Width)
	inter := c.B.Binary(ir.OpAdd, t, a, b)
	result := c.B.Binary(ir.OpAdd, t, inter, cf)

	carryFromFirst := c.B.ICmp(ir.OpICmpULT, inter, a)
	carryFromSecond := c.B.ICmp(ir.OpICmpULT, result, inter)
	c.State.Set(arch.CF, c.B.Binary(ir.OpOr, ir.I1, carryFromFirst, carryFromSecond))
	c.SetOFAdd(a, b, result)
	c.SetAFGeneral(a, b, result)
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
	return c.StoreOperand(dst, result)
}

// liftSbb subtracts with the incoming borrow: result = a - b - CF.
func (c *Context) liftSbb(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	t := a.Type
	cf := c.B.ZExt(c.ReadReg(arch.CF), t.Width)
	inter := c.B.Binary(ir.OpSub, t, a, b)
	result := c.B.Binary(ir.OpSub, t, inter, cf)

	borrowFromFirst := c.B.ICmp(ir.OpICmpULT, a, b)
	borrowFromSecond := c.B.ICmp(ir.OpICmpULT, inter, cf)
	c.State.Set(arch.CF, c.B.Binary(ir.OpOr, ir.I1, borrowFromFirst, borrowFromSecond))
	c.SetOFSub(a, b, result)
	c.SetAFGeneral(a, b, result)
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
	return c.StoreOperand(dst, result)
}

// liftCmp performs subtraction but discards the result, only updating
// flags (spec.md §4.5).
func (c *Context) liftCmp(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpSub, a.Type, a, b)
	c.SetArithFlagsSub(a, b, result)
	return nil
}

// liftIncDec implements INC/DEC: a single operand with an implicit 1,
// which does not update CF (spec.md §4.5).
func (c *Context) liftIncDec(inst decode.Instruction, isInc bool) error {
	dst := inst.Operands[0]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	one := c.B.ConstInt(a.Type, 1)
	var result *ir.Value
	if isInc {
		result = c.B.Binary(ir.OpAdd, a.Type, a, one)
		c.SetOFAdd(a, one, result)
		c.SetAFAdd(a, one)
	} else {
		result = c.B.Binary(ir.OpSub, a.Type, a, one)
		c.SetOFSub(a, one, result)
		c.SetAFSub(a, one)
	}
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
	return c.StoreOperand(dst, result)
}

// liftNeg computes 0 - operand. CF is set iff the operand was non-zero;
// OF is the overflow of the subtraction (spec.md §4.5).
func (c *Context) liftNeg(inst decode.Instruction) error {
	dst := inst.Operands[0]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	zero := c.B.ConstInt(a.Type, 0)
	result := c.B.Binary(ir.OpSub, a.Type, zero, a)

	nonZero := c.B.ICmp(ir.OpICmpNE, a, zero)
	c.State.Set(arch.CF, nonZero)
	c.SetOFSub(zero, a, result)
	c.SetAFSub(zero, a)
	c.SetPF(result)
	c.SetSF(result)
	c.SetZF(result)
	return c.StoreOperand(dst, result)
}

// liftXadd computes sum, writes sum to destination and the original
// destination to source. For trace lifting, order matters: read both,
// then write both (spec.md §4.5).
func (c *Context) liftXadd(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	sum := c.B.Binary(ir.OpAdd, a.Type, a, b)
	c.SetArithFlagsAdd(a, b, sum)
	if err := c.StoreOperand(dst, sum); err != nil {
		return err
	}
	return c.StoreOperand(src, c.B.ExtTo(a, src.SizeBits, false))
}
