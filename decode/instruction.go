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

// Package decode is the only place in this repository that knows about
// raw byte decoding. It wraps golang.org/x/arch/x86/x86asm -- the actual
// upstream collaborator spec.md §1/§6 describe as "a library supplies
// decoded instructions" -- and re-expresses each decoded x86asm.Inst as
// the flat, decoder-agnostic Instruction contract the lift package is
// written against. Nothing downstream of this package imports x86asm
// directly.
package decode

import "github.com/r3bb1t/bin-lift/arch"

// OperandKind is the shape of one decoded operand (spec.md §3).
type OperandKind int

const (
	OperandUnused OperandKind = iota
	OperandRegister
	OperandMemory
	OperandImmediate
	OperandPointer
)

// Mem is a decoded memory operand: segment, optional base, optional
// index, scale, and a signed displacement with a has-displacement flag
// (spec.md §3 "Memory operand"). RegNone in Base/Index means "absent".
type Mem struct {
	Segment    arch.Reg
	Base       arch.Reg
	Index      arch.Reg
	Scale      uint8
	Disp       int64
	HasDisp    bool
}

// Operand is one decoded instruction operand.
type Operand struct {
	Kind     OperandKind
	SizeBits int

	Reg    arch.Reg    // OperandRegister
	SubKind arch.SubKind // OperandRegister: which slice of Reg this is
	Mem    Mem         // OperandMemory
	Imm    int64       // OperandImmediate / OperandPointer
	Signed bool        // OperandImmediate: signedness of Imm
}

// Category loosely groups a mnemonic the way spec.md §2 enumerates
// semantic families; it is informational only and has no bearing on
// correctness (dispatch in package lift always matches on Mnemonic).
type Category string

const (
	CategoryDataTransfer Category = "data-transfer"
	CategoryArithmetic   Category = "arithmetic"
	CategoryLogical      Category = "logical"
	CategoryShiftRotate  Category = "shift-rotate"
	CategoryBitByte      Category = "bit-byte"
	CategoryFlagOp       Category = "flag-op"
	CategoryConvert      Category = "convert"
	CategoryCondMove     Category = "cond-move"
	CategoryCondSet      Category = "cond-set"
	CategoryStringMove   Category = "string-move"
	CategoryControlFlow  Category = "control-flow"
	CategoryStackOp      Category = "stack-op"
	CategorySystem       Category = "system"
	CategoryUnknown      Category = "unknown"
)

// Instruction is the decoder-agnostic contract the lift package's
// driver consumes (spec.md §3 "Decoded instruction", §6 "Upstream").
type Instruction struct {
	Mnemonic string
	Category Category
	Len      int
	HasRep   bool
	Operands []Operand
	RawImms  []int64
	Mode     arch.Mode
}
