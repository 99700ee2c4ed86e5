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

// stackops.go implements the stack family (spec.md §4.13): PUSH, POP,
// PUSHFQ, POPFQ.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// liftPush subtracts the operand byte size from RSP, then stores the
// value at the new RSP (spec.md §4.13).
func (c *Context) liftPush(inst decode.Instruction) error {
	src := inst.Operands[0]
	v, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	return c.pushValue(v, src.SizeBits)
}

func (c *Context) pushValue(v *ir.Value, sizeBits int) error {
	rsp := c.ReadReg(arch.RSP)
	newRsp := c.B.Binary(ir.OpSub, rsp.Type, rsp, c.B.ConstInt(rsp.Type, uint64(sizeBits/8)))
	c.State.Set(arch.RSP, newRsp)

	mem := decode.Operand{
		Kind:     decode.OperandMemory,
		SizeBits: sizeBits,
		Mem:      decode.Mem{Base: arch.RSP},
	}
	if v.Op == ir.OpConst {
		c.recordStackConst(newRsp, v.Imm)
	}
	return c.StoreMemoryOperand(mem, v)
}

// liftPop loads from the current RSP, then adds the operand byte size
// to RSP (spec.md §4.13).
func (c *Context) liftPop(inst decode.Instruction) error {
	dst := inst.Operands[0]
	v, _, _, err := c.popValue(dst.SizeBits)
	if err != nil {
		return err
	}
	return c.StoreOperand(dst, v)
}

// popValue loads from the current RSP, advances RSP past the popped
// element, and additionally reports whether the popped cell was last
// written with a known constant (and what it was) via the stackConst
// shadow cache -- used by liftRet to classify real-vs-ROP returns
// without requiring the general memory model to do store-to-load
// forwarding.
func (c *Context) popValue(sizeBits int) (v *ir.Value, known uint64, knownOk bool, err error) {
	rsp := c.ReadReg(arch.RSP)
	known, knownOk = c.lookupStackConst(rsp)

	mem := decode.Operand{
		Kind:     decode.OperandMemory,
		SizeBits: sizeBits,
		Mem:      decode.Mem{Base: arch.RSP},
	}
	v, err = c.LoadMemoryOperand(mem)
	if err != nil {
		return nil, 0, false, err
	}
	newRsp := c.B.Binary(ir.OpAdd, rsp.Type, rsp, c.B.ConstInt(rsp.Type, uint64(sizeBits/8)))
	c.State.Set(arch.RSP, newRsp)
	return v, known, knownOk, nil
}

// liftPushfq pushes the composed RFLAGS value (spec.md §4.13, §4.1).
func (c *Context) liftPushfq(inst decode.Instruction) error {
	return c.pushValue(c.RFLAGS(), c.GPRWidth())
}

// liftPopfq pops a value and redistributes it into the flag slots.
func (c *Context) liftPopfq(inst decode.Instruction) error {
	v, _, _, err := c.popValue(c.GPRWidth())
	if err != nil {
		return err
	}
	c.SetRFLAGS(v)
	return nil
}
