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
// lift_test.go holds shared test scaffolding for the rest of the
// package's tests: a fresh Context factory, small decode.Operand
// builders, and a symbolic evaluator that walks the handful of ir.Op
// kinds the semantic rules in this package actually emit. The
// evaluator exists because the lifter never folds constants itself --
// every emitted value is a real IR node -- so a test that wants to
// assert "ADD 2 + 3 sets the result to 5" needs something to reduce
// that IR tree back to a host-side number.
package lift

import (
	"testing"

	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

func newTestContext(t *testing.T, mode arch.Mode) *Context {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Mode = mode
	return NewContext("test", cfg)
}

// setGPR seeds reg's abstract-state entry with an OpConst value of the
// context's native GPR width.
func setGPR(c *Context, reg arch.Reg, value uint64) {
	c.State.Set(reg, c.B.ConstInt(ir.Int(c.GPRWidth()), value))
}

func setFlag(c *Context, reg arch.Reg, value uint64) {
	c.State.Set(reg, c.B.ConstInt(ir.I1, value))
}

func regOp(reg arch.Reg, kind arch.SubKind, sizeBits int) decode.Operand {
	return decode.Operand{Kind: decode.OperandRegister, Reg: reg, SubKind: kind, SizeBits: sizeBits}
}

func immOp(sizeBits int, imm int64) decode.Operand {
	return decode.Operand{Kind: decode.OperandImmediate, SizeBits: sizeBits, Imm: imm, Signed: true}
}

func instrWithOperands(mnemonic string, ops ...decode.Operand) decode.Instruction {
	return decode.Instruction{Mnemonic: mnemonic, Operands: ops}
}

func maskW(width int, v uint64) uint64 {
	if width >= 64 {
		return v
	}
	return v & (uint64(1)<<uint(width) - 1)
}

func asSigned(v uint64, width int) int64 {
	if width >= 64 {
		return int64(v)
	}
	sign := uint64(1) << uint(width-1)
	if v&sign != 0 {
		return int64(v) - int64(uint64(1)<<uint(width))
	}
	return int64(v)
}

// eval reduces a Value built purely out of OpConst leaves and the
// arithmetic/logical/compare/select/convert ops this package's semantic
// rules use, to a host-side uint64 masked to the value's own bit width.
// It panics on ops outside that set (Load/Store/Param/...) since no
// test in this package should reach those through eval.
func eval(v *ir.Value) uint64 {
	width := v.Type.Width
	switch v.Op {
	case ir.OpConst:
		return maskW(width, v.Imm)
	case ir.OpAdd:
		return maskW(width, eval(v.Args[0])+eval(v.Args[1]))
	case ir.OpSub:
		return maskW(width, eval(v.Args[0])-eval(v.Args[1]))
	case ir.OpMul:
		return maskW(width, eval(v.Args[0])*eval(v.Args[1]))
	case ir.OpUDiv:
		return maskW(width, eval(v.Args[0])/eval(v.Args[1]))
	case ir.OpSDiv:
		aw := v.Args[0].Type.Width
		return maskW(width, uint64(asSigned(eval(v.Args[0]), aw)/asSigned(eval(v.Args[1]), aw)))
	case ir.OpURem:
		return maskW(width, eval(v.Args[0])%eval(v.Args[1]))
	case ir.OpSRem:
		aw := v.Args[0].Type.Width
		return maskW(width, uint64(asSigned(eval(v.Args[0]), aw)%asSigned(eval(v.Args[1]), aw)))
	case ir.OpAnd:
		return maskW(width, eval(v.Args[0])&eval(v.Args[1]))
	case ir.OpOr:
		return maskW(width, eval(v.Args[0])|eval(v.Args[1]))
	case ir.OpXor:
		return maskW(width, eval(v.Args[0])^eval(v.Args[1]))
	case ir.OpNot:
		return maskW(width, ^eval(v.Args[0]))
	case ir.OpNeg:
		return maskW(width, ^eval(v.Args[0])+1)
	case ir.OpShl:
		return maskW(width, eval(v.Args[0])<<eval(v.Args[1]))
	case ir.OpLShr:
		return maskW(width, eval(v.Args[0])>>eval(v.Args[1]))
	case ir.OpAShr:
		aw := v.Args[0].Type.Width
		return maskW(width, uint64(asSigned(eval(v.Args[0]), aw)>>eval(v.Args[1])))
	case ir.OpICmpEQ:
		if eval(v.Args[0]) == eval(v.Args[1]) {
			return 1
		}
		return 0
	case ir.OpICmpNE:
		if eval(v.Args[0]) != eval(v.Args[1]) {
			return 1
		}
		return 0
	case ir.OpICmpULT:
		if eval(v.Args[0]) < eval(v.Args[1]) {
			return 1
		}
		return 0
	case ir.OpICmpSLT:
		aw := v.Args[0].Type.Width
		if asSigned(eval(v.Args[0]), aw) < asSigned(eval(v.Args[1]), aw) {
			return 1
		}
		return 0
	case ir.OpTrunc, ir.OpZExt:
		return maskW(width, eval(v.Args[0]))
	case ir.OpSExt:
		aw := v.Args[0].Type.Width
		return maskW(width, uint64(asSigned(eval(v.Args[0]), aw)))
	case ir.OpSelect:
		if eval(v.Args[0]) != 0 {
			return maskW(width, eval(v.Args[1]))
		}
		return maskW(width, eval(v.Args[2]))
	case ir.OpPopCount:
		x := eval(v.Args[0])
		var n uint64
		for x != 0 {
			n += x & 1
			x >>= 1
		}
		return n
	default:
		panic("eval: unsupported op in test evaluator: " + v.Op.String())
	}
}

func evalReg(c *Context, reg arch.Reg) uint64 {
	return eval(c.ReadReg(reg))
}
