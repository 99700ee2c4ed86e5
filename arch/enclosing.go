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
package arch

import "golang.org/x/arch/x86/x86asm"

// SubKind classifies how a decoded sub-register sits inside its
// largest-enclosing GPR slot (spec.md §4.1/§4.2).
type SubKind int

const (
	SubFull  SubKind = iota // occupies the whole slot (RAX, EAX in 32-bit mode, ...)
	SubLow8                 // AL, BL, ... (bits 0-7)
	SubHigh8                // AH, BH, CH, DH (bits 8-15)
	SubLow16                // AX, BX, ... (bits 0-15)
	SubLow32                // EAX, EBX, ... in 64-bit mode (bits 0-31, zero-extends on write)
)

// subRegInfo describes one decoded x86asm register.
type subRegInfo struct {
	enclosing Reg
	kind      SubKind
	width     int
}

var subRegTable = buildSubRegTable()

func buildSubRegTable() map[x86asm.Reg]subRegInfo {
	t := make(map[x86asm.Reg]subRegInfo)

	low8 := []x86asm.Reg{x86asm.AL, x86asm.CL, x86asm.DL, x86asm.BL, x86asm.SPB, x86asm.BPB, x86asm.SIB, x86asm.DIB,
		x86asm.R8B, x86asm.R9B, x86asm.R10B, x86asm.R11B, x86asm.R12B, x86asm.R13B, x86asm.R14B, x86asm.R15B}
	high8 := []x86asm.Reg{x86asm.AH, x86asm.CH, x86asm.DH, x86asm.BH}
	low16 := []x86asm.Reg{x86asm.AX, x86asm.CX, x86asm.DX, x86asm.BX, x86asm.SP, x86asm.BP, x86asm.SI, x86asm.DI,
		x86asm.R8W, x86asm.R9W, x86asm.R10W, x86asm.R11W, x86asm.R12W, x86asm.R13W, x86asm.R14W, x86asm.R15W}
	low32 := []x86asm.Reg{x86asm.EAX, x86asm.ECX, x86asm.EDX, x86asm.EBX, x86asm.ESP, x86asm.EBP, x86asm.ESI, x86asm.EDI,
		x86asm.R8L, x86asm.R9L, x86asm.R10L, x86asm.R11L, x86asm.R12L, x86asm.R13L, x86asm.R14L, x86asm.R15L}
	full64 := []x86asm.Reg{x86asm.RAX, x86asm.RCX, x86asm.RDX, x86asm.RBX, x86asm.RSP, x86asm.RBP, x86asm.RSI, x86asm.RDI,
		x86asm.R8, x86asm.R9, x86asm.R10, x86asm.R11, x86asm.R12, x86asm.R13, x86asm.R14, x86asm.R15}

	// RAX..RDI/R8..R15, in the order the x86asm families above are
	// listed, map 1:1 onto our GPR identifiers by table position. The
	// SP/BP-family entries (SPB/BPB, SP/BP, ESP/EBP, RSP/RBP) sit at
	// positions 4 and 5 of every family, so each of them resolves to
	// RSP/RBP through this table rather than through the decoder's own
	// "largest enclosing register" notion.
	enclosingOrder := []Reg{RAX, RCX, RDX, RBX, RSP, RBP, RSI, RDI, R8, R9, R10, R11, R12, R13, R14, R15}

	add := func(regs []x86asm.Reg, kind SubKind, width int) {
		for i, r := range regs {
			t[r] = subRegInfo{enclosing: enclosingOrder[i], kind: kind, width: width}
		}
	}
	add(low8, SubLow8, 8)
	// AH/CH/DH/BH enclose RAX/RCX/RDX/RBX respectively; there are only
	// four of them so they don't follow the 16-wide positional family
	// the other add() calls rely on.
	for i, r := range high8 {
		t[r] = subRegInfo{enclosing: []Reg{RAX, RCX, RDX, RBX}[i], kind: SubHigh8, width: 8}
	}
	add(low16, SubLow16, 16)
	add(low32, SubLow32, 32)
	add(full64, SubFull, 64)

	return t
}

// EnclosingGPR resolves a decoded x86asm register to its largest
// enclosing GPR identifier, its sub-register kind, and its declared bit
// width. ok is false for non-GPR registers (segment, x87, MMX, XMM).
func EnclosingGPR(r x86asm.Reg) (reg Reg, kind SubKind, width int, ok bool) {
	if r == x86asm.RIP || r == x86asm.EIP || r == x86asm.IP {
		return RIP, SubFull, 64, true
	}
	info, found := subRegTable[r]
	if !found {
		return RegNone, SubFull, 0, false
	}
	return info.enclosing, info.kind, info.width, true
}
