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

func TestBuilderSelectTakesTypeFromIfTrue(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	cond := b.ConstInt(I1, 1)
	ifTrue := b.ConstInt(I32, 1)
	ifFalse := b.ConstInt(I32, 2)

	sel := b.Select(cond, ifTrue, ifFalse)
	assert.Equal(t, OpSelect, sel.Op)
	assert.True(t, sel.Type.Equal(I32))
	require.Len(t, sel.Args, 3)
	assert.Same(t, cond, sel.Args[0])
}

func TestBuilderICmpResultIsAlwaysI1(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	lhs := b.ConstInt(I64, 1)
	rhs := b.ConstInt(I64, 2)

	cmp := b.ICmp(OpICmpULT, lhs, rhs)
	assert.True(t, cmp.Type.Equal(I1))
	assert.Equal(t, OpICmpULT, cmp.Op)
}

func TestBuilderPopCountPreservesOperandWidth(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	v := b.ConstInt(I32, 0xFF)

	pc := b.PopCount(v)
	assert.True(t, pc.Type.Equal(I32))
}

func TestBuilderLoadStoreAndGEP(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	buf := b.Alloc(I8, 256)
	offset := b.ConstInt(I64, 16)

	ptr := b.GEP(buf, offset)
	assert.Equal(t, OpGEP, ptr.Op)
	assert.True(t, ptr.Type.Equal(buf.Type), "GEP preserves the pointee type")

	loaded := b.Load(I32, ptr)
	assert.Equal(t, OpLoad, loaded.Op)
	assert.True(t, loaded.Type.Equal(I32))

	stored := b.Store(ptr, loaded)
	assert.Equal(t, OpStore, stored.Op)
	assert.Nil(t, stored.Type, "Store has no result type")
}

func TestBuilderAllocRecordsElementCountInImm(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)

	buf := b.Alloc(I8, 0x1000)
	assert.Equal(t, OpAlloc, buf.Op)
	assert.EqualValues(t, 0x1000, buf.Imm)
	assert.True(t, buf.Type.IsPointer())
}

func TestBuilderMarkCarriesSymWithNoType(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)

	m := b.Mark("ADD@0x10")
	assert.Equal(t, OpMark, m.Op)
	assert.Nil(t, m.Type)
	assert.Equal(t, "ADD@0x10", m.Sym)
}

func TestBuilderCallIntrinsicNamesTheIntrinsicInSym(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	arg := b.ConstInt(I64, 1)

	call := b.CallIntrinsic("popcount", I64, arg)
	assert.Equal(t, OpCall, call.Op)
	assert.Equal(t, "popcount", call.Sym)
	require.Len(t, call.Args, 1)
}

func TestBuilderRetHasNoResultType(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	v := b.ConstInt(I64, 0)

	ret := b.Ret(v)
	assert.Equal(t, OpRet, ret.Op)
	assert.Nil(t, ret.Type)
}

func TestBuilderExtToTruncatesWhenNarrower(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	v := b.ConstInt(I64, 0xFFFFFFFF00000001)

	narrowed := b.ExtTo(v, 32, false)
	assert.Equal(t, OpTrunc, narrowed.Op)
	assert.True(t, narrowed.Type.Equal(I32))
}

func TestBuilderNotAndNegPreserveOperandType(t *testing.T) {
	fn := NewFunc("f", I64)
	b := NewBuilder(fn)
	v := b.ConstInt(I16, 5)

	n := b.Not(v)
	assert.True(t, n.Type.Equal(I16))
	g := b.Neg(v)
	assert.True(t, g.Type.Equal(I16))
}
