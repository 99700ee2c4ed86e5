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

func TestLiftCmovccTakesSourceWhenTrue(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 1)
	setGPR(c, arch.RBX, 99)
	setFlag(c, arch.ZF, 1)

	inst := instrWithOperands("CMOVZ", regOp(arch.RAX, arch.SubFull, 64), regOp(arch.RBX, arch.SubFull, 64))
	require.NoError(t, c.liftCmovcc(inst, "Z"))

	assert.EqualValues(t, 99, evalReg(c, arch.RAX))
}

func TestLiftCmovccKeepsDestinationWhenFalse(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 1)
	setGPR(c, arch.RBX, 99)
	setFlag(c, arch.ZF, 0)

	inst := instrWithOperands("CMOVZ", regOp(arch.RAX, arch.SubFull, 64), regOp(arch.RBX, arch.SubFull, 64))
	require.NoError(t, c.liftCmovcc(inst, "Z"))

	assert.EqualValues(t, 1, evalReg(c, arch.RAX))
}

func TestLiftSetccZeroExtendsPredicate(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.CF, 1)
	setGPR(c, arch.RAX, 0)

	inst := instrWithOperands("SETB", regOp(arch.RAX, arch.SubLow8, 8))
	require.NoError(t, c.liftSetcc(inst, "B"))

	assert.EqualValues(t, 1, evalReg(c, arch.RAX)&0xFF)
}

func TestConditionPredicateAliasesAgree(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setFlag(c, arch.CF, 0)
	setFlag(c, arch.ZF, 0)

	nb, err := c.conditionPredicate("NB")
	require.NoError(t, err)
	ae, err := c.conditionPredicate("AE")
	require.NoError(t, err)
	assert.Equal(t, eval(nb), eval(ae), "NB and AE must compute the same predicate")
}
