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

// system.go implements RDTSC (spec.md §4.15): call a cycle-counter
// primitive yielding a 64-bit value; the high 32 bits become EDX and
// the low 32 bits become EAX.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func (c *Context) liftRdtsc(inst decode.Instruction) error {
	tsc := c.Fn.NewValue(ir.OpCycleCounter, ir.I64)

	lo := c.B.Trunc(tsc, 32)
	hi := c.B.Trunc(c.B.Binary(ir.OpLShr, ir.I64, tsc, c.B.ConstInt(ir.I64, 32)), 32)

	c.StoreRegisterOperand(decode.Operand{Reg: arch.RAX, SubKind: arch.SubLow32, SizeBits: 32}, lo)
	c.StoreRegisterOperand(decode.Operand{Reg: arch.RDX, SubKind: arch.SubLow32, SizeBits: 32}, hi)
	return nil
}
