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

func TestNewContextScaffoldsOneParamPerGPRAndFlag(t *testing.T) {
	c := newTestContext(t, arch.Long64)

	want := len(arch.GPRs) + len(arch.Flags)
	assert.Len(t, c.Fn.Params, want)
}

func TestNewContextAllocatesTheStackBufferOnce(t *testing.T) {
	c := newTestContext(t, arch.Long64)

	require.Equal(t, "Alloc", c.Stack.Op.String())
	assert.EqualValues(t, StackBytes, c.Stack.Imm)
}

func TestNewContextSeedsEntryRSPShadowWithCallerReturnAddress(t *testing.T) {
	c := NewContext("test", Config{Mode: arch.Long64, CallerReturnAddress: 0x7777})

	rsp, ok := c.State.Get(arch.RSP)
	require.True(t, ok)
	known, ok := c.lookupStackConst(rsp)
	require.True(t, ok)
	assert.EqualValues(t, 0x7777, known)
}

func TestFinishEmitsReturnOfRAX(t *testing.T) {
	c := newTestContext(t, arch.Long64)
	setGPR(c, arch.RAX, 0x99)

	fn := c.Finish()

	values := fn.Entry.Values
	last := values[len(values)-1]
	assert.Equal(t, "Ret", last.Op.String())
}

func TestGPRWidthTracksMode(t *testing.T) {
	c64 := newTestContext(t, arch.Long64)
	assert.Equal(t, 64, c64.GPRWidth())

	c32 := newTestContext(t, arch.Legacy32)
	assert.Equal(t, 32, c32.GPRWidth())
}
