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
package decode

import (
	"strings"

	"github.com/r3bb1t/bin-lift/arch"
	"golang.org/x/arch/x86/x86asm"
)

// Decode decodes one instruction from src at the given mode. It is the
// only call in this repository into the raw-byte decoder.
func Decode(src []byte, mode arch.Mode) (x86asm.Inst, error) {
	bits := 64
	if mode == arch.Legacy32 {
		bits = 32
	}
	return x86asm.Decode(src, bits)
}

// FromX86Asm adapts a decoded x86asm.Inst into our Instruction contract.
func FromX86Asm(inst x86asm.Inst, mode arch.Mode) (Instruction, error) {
	out := Instruction{
		Mnemonic: inst.Op.String(),
		Category: categorize(inst.Op.String()),
		Len:      inst.Len,
		HasRep:   hasRepPrefix(inst),
		Mode:     mode,
	}

	for _, a := range inst.Args {
		if a == nil {
			break
		}
		op, err := convertArg(a, inst, mode)
		if err != nil {
			return Instruction{}, err
		}
		out.Operands = append(out.Operands, op)
		if op.Kind == OperandImmediate {
			out.RawImms = append(out.RawImms, op.Imm)
		}
	}
	return out, nil
}

// immediateWidth derives the declared bit width of an immediate operand
// from the instruction's decoded data size, since x86asm attaches that
// metadata to the Inst rather than to the individual Imm argument.
func immediateWidth(inst x86asm.Inst) int {
	if inst.DataSize != 0 {
		return inst.DataSize
	}
	return 32
}

func convertArg(a x86asm.Arg, inst x86asm.Inst, mode arch.Mode) (Operand, error) {
	switch v := a.(type) {
	case x86asm.Reg:
		enclosing, kind, width, ok := arch.EnclosingGPR(v)
		if !ok {
			return Operand{}, &UnsupportedOperandError{Detail: "non-GPR register operand"}
		}
		return Operand{Kind: OperandRegister, SizeBits: width, Reg: enclosing, SubKind: kind}, nil

	case x86asm.Mem:
		if v.Segment == x86asm.FS || v.Segment == x86asm.GS {
			return Operand{}, &UnsupportedOperandError{Detail: "non-default segment " + v.Segment.String()}
		}
		seg, _, _, _ := arch.EnclosingGPR(v.Segment)
		base, _, _, baseOK := arch.EnclosingGPR(v.Base)
		if !baseOK {
			base = arch.RegNone
		}
		index, _, _, indexOK := arch.EnclosingGPR(v.Index)
		if !indexOK {
			index = arch.RegNone
		}
		size := inst.MemBytes * 8
		if size == 0 {
			size = immediateWidth(inst)
		}
		return Operand{
			Kind:     OperandMemory,
			SizeBits: size,
			Mem: Mem{
				Segment: seg,
				Base:    base,
				Index:   index,
				Scale:   v.Scale,
				Disp:    v.Disp,
				HasDisp: v.Disp != 0,
			},
		}, nil

	case x86asm.Imm:
		return Operand{Kind: OperandImmediate, Imm: int64(v), Signed: true, SizeBits: immediateWidth(inst)}, nil

	case x86asm.Rel:
		return Operand{Kind: OperandPointer, Imm: int64(v), Signed: true, SizeBits: mode.PointerWidth()}, nil

	default:
		return Operand{Kind: OperandUnused}, nil
	}
}

// hasRepPrefix reports whether inst carries a REP/REPE prefix, the
// attribute flag spec.md §6 calls HAS_REP. x86asm.Prefix values carry
// metadata bits (PrefixImplicit, PrefixIgnored, PrefixInvalid) above the
// raw byte, so the comparison masks those off first.
func hasRepPrefix(inst x86asm.Inst) bool {
	const metaMask = 0x1FF
	for _, p := range inst.Prefix {
		if p == 0 {
			break
		}
		switch p & metaMask {
		case x86asm.PrefixREP & metaMask:
			return true
		}
	}
	return false
}

func categorize(mnemonic string) Category {
	m := strings.ToUpper(mnemonic)
	switch {
	case strings.HasPrefix(m, "MOV") && !oneOf(m, "MOVSB", "MOVSW", "MOVSD", "MOVSQ"), m == "XCHG", m == "BSWAP":
		return CategoryDataTransfer
	case oneOf(m, "ADD", "SUB", "ADC", "SBB", "CMP", "INC", "DEC", "NEG", "XADD"):
		return CategoryArithmetic
	case oneOf(m, "AND", "ANDN", "OR", "XOR", "TEST", "NOT"):
		return CategoryLogical
	case oneOf(m, "SHL", "SHLX", "SHR", "SHRX", "SAR", "SARX", "SHLD", "SHRD", "ROL", "ROR", "RCL", "RCR"):
		return CategoryShiftRotate
	case oneOf(m, "BT", "BTS", "BTR", "BTC", "BSF", "BSR"):
		return CategoryBitByte
	case oneOf(m, "CLC", "STC", "CMC", "CLD", "STD", "SALC", "LAHF", "SAHF"):
		return CategoryFlagOp
	case oneOf(m, "CBW", "CWDE", "CDQE", "CWD", "CDQ", "CQO"):
		return CategoryConvert
	case strings.HasPrefix(m, "CMOV"):
		return CategoryCondMove
	case strings.HasPrefix(m, "SET"):
		return CategoryCondSet
	case strings.HasPrefix(m, "MOVS"):
		return CategoryStringMove
	case oneOf(m, "CALL", "RET", "JMP"):
		return CategoryControlFlow
	case oneOf(m, "PUSH", "POP", "PUSHFQ", "POPFQ"):
		return CategoryStackOp
	case m == "RDTSC":
		return CategorySystem
	default:
		return CategoryUnknown
	}
}

func oneOf(s string, cands ...string) bool {
	for _, c := range cands {
		if s == c {
			return true
		}
	}
	return false
}

// UnsupportedOperandError reports an operand the lifter's register model
// cannot place (e.g. an x87/MMX/XMM register); spec.md §7 "Conversion
// failure" -- fatal.
type UnsupportedOperandError struct {
	Detail string
}

func (e *UnsupportedOperandError) Error() string {
	return "decode: unsupported operand: " + e.Detail
}
