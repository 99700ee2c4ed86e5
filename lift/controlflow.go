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

// controlflow.go implements CALL, RET, JMP (spec.md §4.9). The lifter
// treats the trace as straight-line: these instructions update the
// abstract stack and the simulated instruction pointer but never
// actually branch in the generated IR -- the trace was already
// flattened by inclusion order before reaching the lifter.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// liftCall subtracts the pointer size from RSP, stores the current RIP
// at the new RSP, and, if the target is a compile-time-known
// displacement, records the resolved address as the next runtime
// address (spec.md §4.9).
func (c *Context) liftCall(inst decode.Instruction) error {
	retAddr := c.ReadReg(arch.RIP)
	if err := c.pushValue(retAddr, c.GPRWidth()); err != nil {
		return err
	}

	target := inst.Operands[0]
	if target.Kind == decode.OperandPointer {
		c.SetRuntimeAddress(c.RuntimeAddress() + uint64(target.Imm))
	}
	return nil
}

// liftRet adds the pointer size (plus any immediate stack-adjustment
// operand) back to RSP, classifies the popped return address as "real"
// or "ROP" by comparing it against the configured caller address, and,
// for a real return, emits an IR return of the zero-extended RAX
// (spec.md §4.9, §9).
func (c *Context) liftRet(inst decode.Instruction) error {
	_, known, knownOk, err := c.popValue(c.GPRWidth())
	if err != nil {
		return err
	}

	if len(inst.Operands) > 0 && inst.Operands[0].Kind == decode.OperandImmediate {
		rsp := c.ReadReg(arch.RSP)
		adj := c.B.ConstInt(rsp.Type, uint64(inst.Operands[0].Imm))
		c.State.Set(arch.RSP, c.B.Binary(ir.OpAdd, rsp.Type, rsp, adj))
	}

	if knownOk && known == c.initialCallerRet {
		rax := c.ReadReg(arch.RAX)
		c.B.Ret(c.B.ExtTo(rax, c.Fn.RetType.Width, false))
	}
	return nil
}

// liftJmp updates the simulated RIP by the jump target's displacement
// when it is a compile-time-known constant; an indirect jump through a
// register or memory operand leaves the simulated RIP unchanged, since
// the flattened trace already supplies whatever instruction comes next
// (spec.md §4.9).
func (c *Context) liftJmp(inst decode.Instruction) error {
	target := inst.Operands[0]
	if target.Kind == decode.OperandPointer {
		c.SetRuntimeAddress(c.RuntimeAddress() + uint64(target.Imm))
	}
	return nil
}
