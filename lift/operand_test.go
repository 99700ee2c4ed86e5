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
package lift

import (
	"testing"

	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
	"github.com/stretchr/testify/assert"
)

func TestLoadRegisterOperandHighByteExtraction(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0xABCD)

	v := c.LoadRegisterOperand(regOp(arch.RAX, arch.SubHigh8, 8))
	assert.EqualValues(t, 0xAB, eval(v))
}

func TestStoreRegisterOperandSubLow8PreservesUpperBits(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0x1234)

	c.StoreRegisterOperand(regOp(arch.RAX, arch.SubLow8, 8), c.B.ConstInt(ir.I8, 0xFF))
	assert.EqualValues(t, 0x12FF, evalReg(c, arch.RAX))
}

func TestStoreRegisterOperandSubLow32ZeroesUpperHalfIn64BitMode(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0xFFFFFFFFFFFFFFFF)

	c.StoreRegisterOperand(regOp(arch.RAX, arch.SubLow32, 32), c.B.ConstInt(ir.I32, 0x5))
	assert.EqualValues(t, 0x5, evalReg(c, arch.RAX), "a 32-bit sub-register write in 64-bit mode clears the upper 32 bits")
}

func TestStoreRegisterOperandSubLow16PreservesUpperBits(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0xFFFFFFFF0000)

	c.StoreRegisterOperand(regOp(arch.RAX, arch.SubLow16, 16), c.B.ConstInt(ir.I16, 0xBEEF))
	assert.EqualValues(t, 0xFFFFFFFF0000|0xBEEF, evalReg(c, arch.RAX))
}

func TestEffectiveAddressBaseIndexScaleDisplacement(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0x1000) // base
	setGPR(c, arch.RBX, 4)     // index

	mem := decode.Mem{Base: arch.RAX, Index: arch.RBX, Scale: 8, HasDisp: true, Disp: 0x10}
	addr := c.EffectiveAddress(mem, 64)

	assert.EqualValues(t, 0x1000+4*8+0x10, eval(addr))
}

func TestEffectiveAddressScaleOneUsesIndexUnchanged(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0x2000)
	setGPR(c, arch.RBX, 7)

	mem := decode.Mem{Base: arch.RAX, Index: arch.RBX, Scale: 1}
	addr := c.EffectiveAddress(mem, 64)

	assert.EqualValues(t, 0x2000+7, eval(addr))
}

func TestRFLAGSRoundTripsThroughContext(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	for _, f := range arch.Flags {
		setFlag(c, f, 0)
	}
	setFlag(c, arch.CF, 1)
	setFlag(c, arch.PF, 0)
	setFlag(c, arch.AF, 1)
	setFlag(c, arch.ZF, 1)
	setFlag(c, arch.SF, 0)
	setFlag(c, arch.DF, 0)
	setFlag(c, arch.OF, 1)

	composed := c.RFLAGS()

	c2 := newTestContext(t, arch.Long64)
	c2.SetRFLAGS(c2.B.ConstInt(composed.Type, eval(composed)))

	assert.EqualValues(t, 1, evalReg(c2, arch.CF))
	assert.EqualValues(t, 0, evalReg(c2, arch.PF))
	assert.EqualValues(t, 1, evalReg(c2, arch.AF))
	assert.EqualValues(t, 1, evalReg(c2, arch.ZF))
	assert.EqualValues(t, 0, evalReg(c2, arch.SF))
	assert.EqualValues(t, 0, evalReg(c2, arch.DF))
	assert.EqualValues(t, 1, evalReg(c2, arch.OF))
}
