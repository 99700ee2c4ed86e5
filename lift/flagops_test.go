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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiftClcStc(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.CF, 1)

	require.NoError(t, c.liftClc(instrWithOperands("CLC")))
	assert.EqualValues(t, 0, evalReg(c, arch.CF))

	require.NoError(t, c.liftStc(instrWithOperands("STC")))
	assert.EqualValues(t, 1, evalReg(c, arch.CF))
}

func TestLiftCmcComplementsCF(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.CF, 0)

	require.NoError(t, c.liftCmc(instrWithOperands("CMC")))
	assert.EqualValues(t, 1, evalReg(c, arch.CF))

	require.NoError(t, c.liftCmc(instrWithOperands("CMC")))
	assert.EqualValues(t, 0, evalReg(c, arch.CF))
}

func TestLiftCldStd(t *testing.T) {
	c := newTestContext(t, arch.Long64)

	require.NoError(t, c.liftStd(instrWithOperands("STD")))
	assert.EqualValues(t, 1, evalReg(c, arch.DF))

	require.NoError(t, c.liftCld(instrWithOperands("CLD")))
	assert.EqualValues(t, 0, evalReg(c, arch.DF))
}

func TestLiftSalcSetsALFromCF(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.CF, 1)
	setGPR(c, arch.RAX, 0)

	require.NoError(t, c.liftSalc(instrWithOperands("SALC")))
	assert.EqualValues(t, 0xFF, evalReg(c, arch.RAX)&0xFF)
}

func TestLiftLahfAssemblesAH(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.SF, 1)
	setFlag(c, arch.ZF, 0)
	setFlag(c, arch.AF, 1)
	setFlag(c, arch.PF, 0)
	setFlag(c, arch.CF, 1)
	setGPR(c, arch.RAX, 0)

	require.NoError(t, c.liftLahf(instrWithOperands("LAHF")))

	ah := (evalReg(c, arch.RAX) >> 8) & 0xFF
	assert.EqualValues(t, uint64(1<<7|1<<4|1<<1|1), ah)
}

func TestLiftSahfRoundTripsThroughLahf(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.SF, 1)
	setFlag(c, arch.ZF, 1)
	setFlag(c, arch.AF, 0)
	setFlag(c, arch.PF, 1)
	setFlag(c, arch.CF, 0)
	setGPR(c, arch.RAX, 0)

	require.NoError(t, c.liftLahf(instrWithOperands("LAHF")))

	c2 := newTestContext(t, arch.Long64)
	setGPR(c2, arch.RAX, evalReg(c, arch.RAX))
	require.NoError(t, c2.liftSahf(instrWithOperands("SAHF")))

	assert.EqualValues(t, 1, evalReg(c2, arch.SF))
	assert.EqualValues(t, 1, evalReg(c2, arch.ZF))
	assert.EqualValues(t, 0, evalReg(c2, arch.AF))
	assert.EqualValues(t, 1, evalReg(c2, arch.PF))
	assert.EqualValues(t, 0, evalReg(c2, arch.CF))
}
