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

// Package ir is a small typed SSA intermediate representation: values,
// a single-entry-block function, and a module grouping lifted functions.
// It plays the role falcon/compile/ssa.HIR plays for the Falcon source
// language, generalized to arbitrary integer bit widths since a lifted
// x86 trace has no notion of int/long/short — only 1/8/16/32/64-bit
// integers and a pointer into the stack buffer.
package ir

import "fmt"

// Kind tags a Type as integer or floating point. Operand values produced
// and consumed by the lifter's semantics are always Integer; Float exists
// so that a conversion from a Float value is a detectable error rather
// than a silent truncation (spec.md §7, "conversion failure").
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindPointer
)

// Type is a tagged variant: an integer of a given bit width, a float of
// a given bit width, or a pointer to an element type. Two integer Types
// are the same type iff their widths match; callers compare by value,
// not identity, so Types are safe to construct ad hoc.
type Type struct {
	Kind  Kind
	Width int // in bits, for Int/Float
	Elem  *Type
}

func Int(width int) *Type { return &Type{Kind: KindInt, Width: width} }
func Float(width int) *Type { return &Type{Kind: KindFloat, Width: width} }
func Ptr(elem *Type) *Type { return &Type{Kind: KindPointer, Width: 64, Elem: elem} }

var (
	I1  = Int(1)
	I8  = Int(8)
	I16 = Int(16)
	I32 = Int(32)
	I64 = Int(64)
)

func (t *Type) IsInt() bool     { return t.Kind == KindInt }
func (t *Type) IsFloat() bool   { return t.Kind == KindFloat }
func (t *Type) IsPointer() bool { return t.Kind == KindPointer }

func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Kind == o.Kind && t.Width == o.Width
}

func (t *Type) String() string {
	switch t.Kind {
	case KindInt:
		return fmt.Sprintf("i%d", t.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", t.Width)
	case KindPointer:
		return fmt.Sprintf("%v*", t.Elem)
	default:
		return "<unknown type>"
	}
}
