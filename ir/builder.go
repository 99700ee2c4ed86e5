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

// Builder emits Values into a Func's entry block. There is exactly one
// Builder per lifted function and all emission through it is sequential
// (spec.md §5: "There is exactly one IR builder; all emission is
// sequential with a definite insertion point").
type Builder struct {
	Fn *Func
}

func NewBuilder(fn *Func) *Builder {
	return &Builder{Fn: fn}
}

func (b *Builder) ConstInt(t *Type, v uint64) *Value {
	val := b.Fn.NewValue(OpConst, t)
	val.Imm = v & mask(t.Width)
	return val
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

func (b *Builder) Binary(op Op, t *Type, lhs, rhs *Value) *Value {
	return b.Fn.NewValue(op, t, lhs, rhs)
}

func (b *Builder) Unary(op Op, t *Type, arg *Value) *Value {
	return b.Fn.NewValue(op, t, arg)
}

// Trunc narrows v to width bits. A no-op (returns v unchanged) when v is
// already that width, matching the "reads may truncate freely" note in
// spec.md's Design Notes.
func (b *Builder) Trunc(v *Value, width int) *Value {
	if v.Type.Width == width {
		return v
	}
	return b.Fn.NewValue(OpTrunc, Int(width), v)
}

func (b *Builder) ZExt(v *Value, width int) *Value {
	if v.Type.Width == width {
		return v
	}
	return b.Fn.NewValue(OpZExt, Int(width), v)
}

func (b *Builder) SExt(v *Value, width int) *Value {
	if v.Type.Width == width {
		return v
	}
	return b.Fn.NewValue(OpSExt, Int(width), v)
}

// ExtTo zero- or sign-extends v to width depending on signed, or
// truncates if v is already wider. Used by the "two-operand load" rule
// in spec.md §4.2.
func (b *Builder) ExtTo(v *Value, width int, signed bool) *Value {
	switch {
	case v.Type.Width == width:
		return v
	case v.Type.Width > width:
		return b.Trunc(v, width)
	case signed:
		return b.SExt(v, width)
	default:
		return b.ZExt(v, width)
	}
}

func (b *Builder) Select(cond, ifTrue, ifFalse *Value) *Value {
	return b.Fn.NewValue(OpSelect, ifTrue.Type, cond, ifTrue, ifFalse)
}

func (b *Builder) ICmp(op Op, lhs, rhs *Value) *Value {
	return b.Fn.NewValue(op, I1, lhs, rhs)
}

func (b *Builder) Not(v *Value) *Value {
	return b.Fn.NewValue(OpNot, v.Type, v)
}

func (b *Builder) Neg(v *Value) *Value {
	return b.Fn.NewValue(OpNeg, v.Type, v)
}

func (b *Builder) PopCount(v *Value) *Value {
	return b.Fn.NewValue(OpPopCount, v.Type, v)
}

func (b *Builder) Load(t *Type, ptr *Value) *Value {
	return b.Fn.NewValue(OpLoad, t, ptr)
}

func (b *Builder) Store(ptr, v *Value) *Value {
	return b.Fn.NewValue(OpStore, nil, ptr, v)
}

// GEP computes ptr + offset (a byte index into the pointee buffer),
// producing a new pointer of the same element type.
func (b *Builder) GEP(ptr, offset *Value) *Value {
	return b.Fn.NewValue(OpGEP, ptr.Type, ptr, offset)
}

func (b *Builder) Alloc(elem *Type, count uint64) *Value {
	v := b.Fn.NewValue(OpAlloc, Ptr(elem))
	v.Imm = count
	return v
}

func (b *Builder) Mark(sym interface{}) *Value {
	return b.Fn.NewValue(OpMark, nil).withSym(sym)
}

func (v *Value) withSym(sym interface{}) *Value {
	v.Sym = sym
	return v
}

func (b *Builder) CallIntrinsic(name string, t *Type, args ...*Value) *Value {
	v := b.Fn.NewValue(OpCall, t, args...)
	v.Sym = name
	return v
}

func (b *Builder) Ret(v *Value) *Value {
	return b.Fn.NewValue(OpRet, nil, v)
}
