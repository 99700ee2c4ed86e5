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

// stringmove.go implements MOVSB/W/D/Q (spec.md §4.14): read the source
// address (RSI), write to the destination address (RDI), then advance
// both by the operand byte size -- forward when DF=0, backward when
// DF=1. If a REP prefix is present and RCX currently holds a known
// constant, the operation is unrolled that many times and RCX is zeroed
// afterward; otherwise a single transfer is lifted (the common case for
// a trace that has already been unrolled upstream).
package lift

import (
	"strings"

	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func (c *Context) liftMovs(inst decode.Instruction) error {
	sizeBits := movsSizeBits(inst.Mnemonic)

	count := 1
	var clearRCX bool
	if inst.HasRep {
		rcx := c.ReadReg(arch.RCX)
		if rcx.Op == ir.OpConst {
			count = int(rcx.Imm)
			clearRCX = true
		}
	}

	for i := 0; i < count; i++ {
		if err := c.movsOnce(sizeBits); err != nil {
			return err
		}
	}
	if clearRCX {
		c.State.Set(arch.RCX, c.B.ConstInt(ir.Int(c.GPRWidth()), 0))
	}
	return nil
}

func (c *Context) movsOnce(sizeBits int) error {
	srcMem := decode.Operand{Kind: decode.OperandMemory, SizeBits: sizeBits, Mem: decode.Mem{Base: arch.RSI}}
	dstMem := decode.Operand{Kind: decode.OperandMemory, SizeBits: sizeBits, Mem: decode.Mem{Base: arch.RDI}}

	v, err := c.LoadMemoryOperand(srcMem)
	if err != nil {
		return err
	}
	if err := c.StoreMemoryOperand(dstMem, v); err != nil {
		return err
	}

	df := c.ReadReg(arch.DF)
	width := c.GPRWidth()
	wt := ir.Int(width)
	forward := c.B.ConstInt(wt, uint64(sizeBits/8))
	backward := c.B.Neg(forward)
	delta := c.B.Select(c.B.ICmp(ir.OpICmpEQ, df, c.B.ConstInt(ir.I1, 1)), backward, forward)

	rsi := c.ReadReg(arch.RSI)
	rdi := c.ReadReg(arch.RDI)
	c.State.Set(arch.RSI, c.B.Binary(ir.OpAdd, wt, rsi, delta))
	c.State.Set(arch.RDI, c.B.Binary(ir.OpAdd, wt, rdi, delta))
	return nil
}

// movsSizeBits derives the per-element transfer width from the
// mnemonic's size suffix (x86asm spells these MOVSB, MOVSW, MOVSD,
// MOVSQ).
func movsSizeBits(mnemonic string) int {
	m := strings.ToUpper(mnemonic)
	switch {
	case strings.HasSuffix(m, "B"):
		return 8
	case strings.HasSuffix(m, "W"):
		return 16
	case strings.HasSuffix(m, "Q"):
		return 64
	default: // MOVSD and the bare "MOVS" both default to the 32-bit form
		return 32
	}
}
