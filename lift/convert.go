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

// convert.go implements the sign-extending-conversion family (spec.md
// §4.10): CBW, CWDE, CDQE, CWD, CDQ, CQO. None of these touch flags.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// liftCbw/liftCwde/liftCdqe sign-extend A into a wider A: AL->AX,
// AX->EAX, EAX->RAX.
func (c *Context) liftCbw(inst decode.Instruction) error {
	return c.widenA(8, 16)
}

func (c *Context) liftCwde(inst decode.Instruction) error {
	return c.widenA(16, 32)
}

func (c *Context) liftCdqe(inst decode.Instruction) error {
	return c.widenA(32, 64)
}

func (c *Context) widenA(fromBits, toBits int) error {
	a := c.ReadReg(arch.RAX)
	narrow := c.B.Trunc(a, fromBits)
	wide := c.B.SExt(narrow, toBits)
	c.StoreRegisterOperand(decode.Operand{Reg: arch.RAX, SubKind: subKindFor(toBits), SizeBits: toBits}, wide)
	return nil
}

// subKindFor maps a destination width to the sub-register write rule
// StoreRegisterOperand needs to preserve (or, for 32 bits in 64-bit
// mode, architecturally zero) the enclosing slot's unwritten bits.
func subKindFor(bits int) arch.SubKind {
	switch bits {
	case 8:
		return arch.SubLow8
	case 16:
		return arch.SubLow16
	case 32:
		return arch.SubLow32
	default:
		return arch.SubFull
	}
}

// liftCwd/liftCdq/liftCqo sign-replicate A's sign bit across all of D:
// AX->DX:AX, EAX->EDX:EAX, RAX->RDX:RAX. Implemented as a sign-flag
// test plus a select between all-ones and all-zeros of the target
// width (spec.md §4.10).
func (c *Context) liftCwd(inst decode.Instruction) error {
	return c.signReplicateD(16)
}

func (c *Context) liftCdq(inst decode.Instruction) error {
	return c.signReplicateD(32)
}

func (c *Context) liftCqo(inst decode.Instruction) error {
	return c.signReplicateD(64)
}

func (c *Context) signReplicateD(bits int) error {
	t := ir.Int(bits)
	a := c.B.Trunc(c.ReadReg(arch.RAX), bits)
	signBit := c.msb(a)
	allOnes := c.B.ConstInt(t, uint64(1)<<uint(bits)-1)
	allZeros := c.B.ConstInt(t, 0)
	isNeg := c.B.ICmp(ir.OpICmpEQ, signBit, c.B.ConstInt(ir.I1, 1))
	d := c.B.Select(isNeg, allOnes, allZeros)
	c.StoreRegisterOperand(decode.Operand{Reg: arch.RDX, SubKind: subKindFor(bits), SizeBits: bits}, d)
	return nil
}
