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

// logical.go implements the bitwise-logical family (spec.md §4.6): AND,
// ANDN, OR, XOR, TEST, NOT. AND/OR/XOR/TEST set PF, SF, ZF and clear
// CF/OF; NOT does not touch any flag.
package lift

import (
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func (c *Context) liftAnd(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpAnd, a.Type, a, b)
	c.SetLogicalFlags(result)
	return c.StoreOperand(dst, result)
}

// liftAndn computes ~src1 & src2 (BMI1). It is a three-operand form:
// Operands[0] is the destination, Operands[1] and Operands[2] are the
// two sources.
func (c *Context) liftAndn(inst decode.Instruction) error {
	dst, src1, src2 := inst.Operands[0], inst.Operands[1], inst.Operands[2]
	v1, err := c.LoadOperand(src1)
	if err != nil {
		return err
	}
	v2, err := c.LoadOperand(src2)
	if err != nil {
		return err
	}
	v2 = c.B.ExtTo(v2, v1.Type.Width, false)
	notV1 := c.B.Not(v1)
	result := c.B.Binary(ir.OpAnd, v1.Type, notV1, v2)
	c.SetLogicalFlags(result)
	return c.StoreOperand(dst, result)
}

func (c *Context) liftOr(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpOr, a.Type, a, b)
	c.SetLogicalFlags(result)
	return c.StoreOperand(dst, result)
}

func (c *Context) liftXor(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpXor, a.Type, a, b)
	c.SetLogicalFlags(result)
	return c.StoreOperand(dst, result)
}

// liftTest performs AND but discards the result, only updating flags.
func (c *Context) liftTest(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	result := c.B.Binary(ir.OpAnd, a.Type, a, b)
	c.SetLogicalFlags(result)
	return nil
}

// liftNot computes the bitwise complement; no flag is affected.
func (c *Context) liftNot(inst decode.Instruction) error {
	dst := inst.Operands[0]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	return c.StoreOperand(dst, c.B.Not(a))
}
