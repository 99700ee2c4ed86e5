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

// bitbyte.go implements the bit-and-byte family (spec.md §4.8): BT,
// BTS, BTR, BTC, BSF, BSR.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// bitIndex masks the bit-index operand to the destination's width, per
// spec.md §4.8 (the same count-masking rule as shifts/rotates).
func (c *Context) bitIndex(index decode.Operand, t *ir.Type) (*ir.Value, error) {
	raw, err := c.LoadOperand(index)
	if err != nil {
		return nil, err
	}
	raw = c.B.ExtTo(raw, t.Width, false)
	return c.B.Binary(ir.OpAnd, t, raw, c.B.ConstInt(t, countMask(t.Width))), nil
}

// testBit extracts bit n of v as a 1-bit value.
func (c *Context) testBit(v *ir.Value, n *ir.Value, t *ir.Type) *ir.Value {
	shifted := c.B.Binary(ir.OpLShr, t, v, n)
	return c.B.Trunc(c.B.Binary(ir.OpAnd, t, shifted, c.B.ConstInt(t, 1)), 1)
}

// liftBt copies the addressed bit into CF without modifying the
// operand.
func (c *Context) liftBt(inst decode.Instruction) error {
	dst, index := inst.Operands[0], inst.Operands[1]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	n, err := c.bitIndex(index, a.Type)
	if err != nil {
		return err
	}
	c.State.Set(arch.CF, c.testBit(a, n, a.Type))
	return nil
}

func (c *Context) liftBts(inst decode.Instruction) error {
	return c.bitSetLike(inst, ir.OpOr)
}

func (c *Context) liftBtr(inst decode.Instruction) error {
	return c.bitSetLike(inst, ir.OpAnd)
}

func (c *Context) liftBtc(inst decode.Instruction) error {
	return c.bitSetLike(inst, ir.OpXor)
}

// bitSetLike implements BTS (set), BTR (clear), BTC (complement): read
// CF from the prior bit value, then combine a 1-bit mask into the
// operand with op (OR to set, AND-with-complement to clear, XOR to
// toggle).
func (c *Context) bitSetLike(inst decode.Instruction, op ir.Op) error {
	dst, index := inst.Operands[0], inst.Operands[1]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	t := a.Type
	n, err := c.bitIndex(index, t)
	if err != nil {
		return err
	}
	c.State.Set(arch.CF, c.testBit(a, n, t))

	one := c.B.ConstInt(t, 1)
	mask := c.B.Binary(ir.OpShl, t, one, n)
	var result *ir.Value
	if op == ir.OpAnd {
		mask = c.B.Not(mask)
	}
	result = c.B.Binary(op, t, a, mask)
	return c.StoreOperand(dst, result)
}

// liftBsf finds the index of the least-significant set bit. If the
// source is zero, ZF is set and the destination retains its prior value
// (spec.md §4.8, "BSF/BSR zero-source fallback").
func (c *Context) liftBsf(inst decode.Instruction) error {
	return c.bitScan(inst, false)
}

// liftBsr finds the index of the most-significant set bit.
func (c *Context) liftBsr(inst decode.Instruction) error {
	return c.bitScan(inst, true)
}

func (c *Context) bitScan(inst decode.Instruction, reverse bool) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	s, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	t := s.Type
	zero := c.B.ConstInt(t, 0)
	isZero := c.B.ICmp(ir.OpICmpEQ, s, zero)
	c.State.Set(arch.ZF, isZero)

	index := c.scanIndex(s, t, reverse)

	old, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	result := c.B.Select(isZero, c.B.ExtTo(old, t.Width, false), index)
	return c.StoreOperand(dst, result)
}

// scanIndex computes the bit-scan result for a non-zero s as a chain of
// Selects, one per candidate bit position. Folding from the far end
// inward means the last Select applied wins: for BSF that is the
// lowest set bit, for BSR the highest (width is small and fixed per
// lifted instruction, so the unrolled chain is cheap).
func (c *Context) scanIndex(s *ir.Value, t *ir.Type, reverse bool) *ir.Value {
	result := c.B.ConstInt(t, 0)
	if reverse {
		for pos := 0; pos < t.Width; pos++ {
			bit := c.testBit(s, c.B.ConstInt(t, uint64(pos)), t)
			match := c.B.ICmp(ir.OpICmpEQ, bit, c.B.ConstInt(ir.I1, 1))
			result = c.B.Select(match, c.B.ConstInt(t, uint64(pos)), result)
		}
		return result
	}
	for pos := t.Width - 1; pos >= 0; pos-- {
		bit := c.testBit(s, c.B.ConstInt(t, uint64(pos)), t)
		match := c.B.ICmp(ir.OpICmpEQ, bit, c.B.ConstInt(ir.I1, 1))
		result = c.B.Select(match, c.B.ConstInt(t, uint64(pos)), result)
	}
	return result
}
