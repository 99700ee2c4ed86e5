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
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeEqual(t *testing.T) {
	assert.True(t, I32.Equal(Int(32)))
	assert.False(t, I32.Equal(I64))
	assert.False(t, I32.Equal(Float(32)))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "i32", I32.String())
	assert.Equal(t, "i1", I1.String())
	assert.Equal(t, "f64", Float(64).String())
}

func TestBuilderConstIntMasksToWidth(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)

	v := b.ConstInt(I8, 0x1FF)
	assert.Equal(t, uint64(0xFF), v.Imm)
}

func TestBuilderTruncIsNoopAtSameWidth(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	v := b.ConstInt(I32, 7)

	same := b.Trunc(v, 32)
	assert.Same(t, v, same)

	narrower := b.Trunc(v, 8)
	require.NotSame(t, v, narrower)
	assert.Equal(t, OpTrunc, narrower.Op)
}

func TestBuilderExtToPicksDirection(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)

	narrow := b.ConstInt(I8, 0xFF)

	widenedUnsigned := b.ExtTo(narrow, 32, false)
	assert.Equal(t, OpZExt, widenedUnsigned.Op)

	widenedSigned := b.ExtTo(narrow, 32, true)
	assert.Equal(t, OpSExt, widenedSigned.Op)

	narrowed := b.ExtTo(b.ConstInt(I32, 1), 8, true)
	assert.Equal(t, OpTrunc, narrowed.Op)
}

func TestValueAddArgRegistersUse(t *testing.T) {
	fn := NewFunc("f", I32)
	b := NewBuilder(fn)
	lhs := b.ConstInt(I32, 1)
	rhs := b.ConstInt(I32, 2)
	sum := b.Binary(OpAdd, I32, lhs, rhs)

	require.Len(t, lhs.Uses, 1)
	assert.Same(t, sum, lhs.Uses[0])
	require.Len(t, rhs.Uses, 1)
	assert.Same(t, sum, rhs.Uses[0])
}

func TestFuncNewValueAllocatesSequentialIds(t *testing.T) {
	fn := NewFunc("f", I32)
	b := NewBuilder(fn)
	v1 := b.ConstInt(I32, 1)
	v2 := b.ConstInt(I32, 2)
	assert.Equal(t, v1.Id+1, v2.Id)
}

func TestFuncParamsAppendToEntryBlock(t *testing.T) {
	fn := NewFunc("f", I64)
	p := fn.NewParam(I64, "rax")
	require.Len(t, fn.Params, 1)
	assert.Same(t, p, fn.Params[0])
	assert.Same(t, p, fn.Entry.Values[0])
}

func TestModuleStringConcatenatesFuncs(t *testing.T) {
	m := NewModule()
	fn1 := NewFunc("a", I64)
	NewBuilder(fn1).Ret(NewBuilder(fn1).ConstInt(I64, 0))
	fn2 := NewFunc("b", I64)
	NewBuilder(fn2).Ret(NewBuilder(fn2).ConstInt(I64, 0))
	m.AddFunc(fn1)
	m.AddFunc(fn2)

	s := m.String()
	assert.Contains(t, s, "func a:")
	assert.Contains(t, s, "func b:")
}
