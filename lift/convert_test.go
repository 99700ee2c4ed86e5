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

func TestLiftCbwSignExtendsALIntoAX(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0xFFFFFFFFFFFFFF80) // AL = 0x80, upper bits garbage to be overwritten up to bit 16

	require.NoError(t, c.liftCbw(instrWithOperands("CBW")))

	// AX must become 0xFF80; bits above 16 must be preserved from before.
	got := evalReg(c, arch.RAX)
	assert.EqualValues(t, 0xFF80, got&0xFFFF)
	assert.EqualValues(t, 0xFFFFFFFFFFFF0000, got&0xFFFFFFFFFFFF0000, "CBW must not disturb bits above AX")
}

func TestLiftCdqeSignExtendsEAXIntoRAX(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0xFFFFFFFF80000000) // EAX = 0x80000000

	require.NoError(t, c.liftCdqe(instrWithOperands("CDQE")))

	assert.EqualValues(t, 0xFFFFFFFF80000000, evalReg(c, arch.RAX))
}

func TestLiftCdqSignReplicatesIntoEDX(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0x80000000) // EAX negative

	require.NoError(t, c.liftCdq(instrWithOperands("CDQ")))

	assert.EqualValues(t, 0xFFFFFFFF, evalReg(c, arch.RDX), "CDQ replicates EAX's sign across all of EDX")
}

func TestLiftCwdPositiveGivesZeroDX(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0x7FFF)
	setGPR(c, arch.RDX, 0xFFFF)

	require.NoError(t, c.liftCwd(instrWithOperands("CWD")))

	assert.EqualValues(t, 0, evalReg(c, arch.RDX)&0xFFFF)
}
