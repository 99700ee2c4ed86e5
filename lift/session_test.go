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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movImm(reg arch.Reg, imm int64) decode.Instruction {
	return decode.Instruction{Mnemonic: "MOV", Len: 3, Operands: []decode.Operand{
		regOp(reg, arch.SubFull, 64), immOp(64, imm),
	}}
}

func TestSessionLiftEntryRegistersFunctionAndContext(t *testing.T) {
	s := NewSession()
	entry := Entry{Address: 0x1000, Trace: []decode.Instruction{movImm(arch.RAX, 5)}}

	require.NoError(t, s.LiftEntry(entry, DefaultConfig()))

	c, ok := s.Contexts[0x1000]
	require.True(t, ok)
	assert.EqualValues(t, 5, evalReg(c, arch.RAX))
	assert.Equal(t, "protected_0x1000", c.Fn.Name)
}

func TestSessionLiftAllLiftsEveryEntryInOrder(t *testing.T) {
	s := NewSession()
	entries := []Entry{
		{Address: 0x1000, Trace: []decode.Instruction{movImm(arch.RAX, 1)}},
		{Address: 0x2000, Trace: []decode.Instruction{movImm(arch.RAX, 2)}},
	}

	require.NoError(t, s.LiftAll(entries, DefaultConfig()))

	assert.Len(t, s.Contexts, 2)
	assert.EqualValues(t, 1, evalReg(s.Contexts[0x1000], arch.RAX))
	assert.EqualValues(t, 2, evalReg(s.Contexts[0x2000], arch.RAX))
}

func TestSessionLiftAllStopsAtFirstFatalError(t *testing.T) {
	s := NewSession()
	entries := []Entry{
		{Address: 0x1000, Trace: []decode.Instruction{{Mnemonic: "VPXOR", Len: 3}}},
		{Address: 0x2000, Trace: []decode.Instruction{movImm(arch.RAX, 2)}},
	}

	err := s.LiftAll(entries, DefaultConfig())
	require.Error(t, err)
	assert.Len(t, s.Contexts, 0, "the second entry must never be reached")
}
