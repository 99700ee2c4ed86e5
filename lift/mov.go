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

// mov.go implements the data-transfer family (spec.md §4.4): MOV,
// MOVSX/MOVSXD, MOVZX, XCHG, BSWAP. None of these affect flags.
package lift

import (
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func (c *Context) liftMov(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	v, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	v = c.B.ZExt(v, dst.SizeBits)
	return c.StoreOperand(dst, v)
}

func (c *Context) liftMovsx(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	v, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	v = c.B.SExt(v, dst.SizeBits)
	return c.StoreOperand(dst, v)
}

func (c *Context) liftMovzx(inst decode.Instruction) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	v, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	v = c.B.ZExt(v, dst.SizeBits)
	return c.StoreOperand(dst, v)
}

// liftXchg loads both operands, then stores each to the other (spec.md
// §4.4). Reads happen-before writes per spec.md §5's ordering guarantee.
func (c *Context) liftXchg(inst decode.Instruction) error {
	a, b := inst.Operands[0], inst.Operands[1]
	av, err := c.LoadOperand(a)
	if err != nil {
		return err
	}
	bv, err := c.LoadOperand(b)
	if err != nil {
		return err
	}
	if err := c.StoreOperand(a, c.B.ExtTo(bv, a.SizeBits, false)); err != nil {
		return err
	}
	return c.StoreOperand(b, c.B.ExtTo(av, b.SizeBits, false))
}

// liftBswap reverses the byte order of the destination. A 16-bit
// destination is defined to produce zero (spec.md §4.4: architectural
// undefined behavior resolved as zero).
func (c *Context) liftBswap(inst decode.Instruction) error {
	dst := inst.Operands[0]
	if dst.SizeBits == 16 {
		return c.StoreOperand(dst, c.B.ConstInt(ir.Int(16), 0))
	}
	v, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	nbytes := dst.SizeBits / 8
	t := v.Type
	result := c.B.ConstInt(t, 0)
	for i := 0; i < nbytes; i++ {
		shiftDown := c.B.ConstInt(t, uint64(i*8))
		byteVal := c.B.Binary(ir.OpLShr, t, v, shiftDown)
		byteVal = c.B.Binary(ir.OpAnd, t, byteVal, c.B.ConstInt(t, 0xFF))
		shiftUp := c.B.ConstInt(t, uint64((nbytes-1-i)*8))
		placed := c.B.Binary(ir.OpShl, t, byteVal, shiftUp)
		result = c.B.Binary(ir.OpOr, t, result, placed)
	}
	return c.StoreOperand(dst, result)
}
