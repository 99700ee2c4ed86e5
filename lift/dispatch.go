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

// dispatch.go is the mnemonic-to-semantic-rule switch the trace driver
// calls once per decoded instruction (spec.md §4.16 step (c)). Every
// mnemonic spec.md §2 enumerates has a case here; anything else reports
// ErrUnsupportedMnemonic so the driver can record or abort per
// Config.StopOnUnsupported.
package lift

import (
	"strings"

	"github.com/r3bb1t/bin-lift/decode"
)

func (c *Context) dispatch(inst decode.Instruction) error {
	m := strings.ToUpper(inst.Mnemonic)

	if suffix, ok := conditionSuffix(m, "CMOV"); ok {
		return c.liftCmovcc(inst, suffix)
	}
	if suffix, ok := conditionSuffix(m, "SET"); ok {
		return c.liftSetcc(inst, suffix)
	}

	switch m {
	// Data transfer (spec.md §4.4)
	case "MOV":
		return c.liftMov(inst)
	case "MOVSX", "MOVSXD":
		return c.liftMovsx(inst)
	case "MOVZX":
		return c.liftMovzx(inst)
	case "XCHG":
		return c.liftXchg(inst)
	case "BSWAP":
		return c.liftBswap(inst)

	// Binary arithmetic (spec.md §4.5)
	case "ADD":
		return c.liftAdd(inst)
	case "SUB":
		return c.liftSub(inst)
	case "ADC":
		return c.liftAdc(inst)
	case "SBB":
		return c.liftSbb(inst)
	case "CMP":
		return c.liftCmp(inst)
	case "INC":
		return c.liftIncDec(inst, true)
	case "DEC":
		return c.liftIncDec(inst, false)
	case "NEG":
		return c.liftNeg(inst)
	case "XADD":
		return c.liftXadd(inst)

	// Logical (spec.md §4.6)
	case "AND":
		return c.liftAnd(inst)
	case "ANDN":
		return c.liftAndn(inst)
	case "OR":
		return c.liftOr(inst)
	case "XOR":
		return c.liftXor(inst)
	case "TEST":
		return c.liftTest(inst)
	case "NOT":
		return c.liftNot(inst)

	// Shift/rotate (spec.md §4.7)
	case "SHL", "SAL":
		return c.liftShl(inst)
	case "SHR":
		return c.liftShr(inst)
	case "SAR":
		return c.liftSar(inst)
	case "SHLX":
		return c.liftShlx(inst)
	case "SHRX":
		return c.liftShrx(inst)
	case "SARX":
		return c.liftSarx(inst)
	case "SHLD":
		return c.liftShld(inst)
	case "SHRD":
		return c.liftShrd(inst)
	case "ROL":
		return c.liftRol(inst)
	case "ROR":
		return c.liftRor(inst)
	case "RCL":
		return c.liftRcl(inst)
	case "RCR":
		return c.liftRcr(inst)

	// Bit/byte (spec.md §4.8)
	case "BT":
		return c.liftBt(inst)
	case "BTS":
		return c.liftBts(inst)
	case "BTR":
		return c.liftBtr(inst)
	case "BTC":
		return c.liftBtc(inst)
	case "BSF":
		return c.liftBsf(inst)
	case "BSR":
		return c.liftBsr(inst)

	// Control flow (spec.md §4.9)
	case "CALL":
		return c.liftCall(inst)
	case "RET", "RETN":
		return c.liftRet(inst)
	case "JMP":
		return c.liftJmp(inst)

	// Convert (spec.md §4.10)
	case "CBW":
		return c.liftCbw(inst)
	case "CWDE":
		return c.liftCwde(inst)
	case "CDQE":
		return c.liftCdqe(inst)
	case "CWD":
		return c.liftCwd(inst)
	case "CDQ":
		return c.liftCdq(inst)
	case "CQO":
		return c.liftCqo(inst)

	// Flag ops (spec.md §4.12)
	case "CLC":
		return c.liftClc(inst)
	case "STC":
		return c.liftStc(inst)
	case "CMC":
		return c.liftCmc(inst)
	case "CLD":
		return c.liftCld(inst)
	case "STD":
		return c.liftStd(inst)
	case "SALC":
		return c.liftSalc(inst)
	case "LAHF":
		return c.liftLahf(inst)
	case "SAHF":
		return c.liftSahf(inst)

	// Stack ops (spec.md §4.13)
	case "PUSH":
		return c.liftPush(inst)
	case "POP":
		return c.liftPop(inst)
	case "PUSHFQ", "PUSHF":
		return c.liftPushfq(inst)
	case "POPFQ", "POPF":
		return c.liftPopfq(inst)

	// String move (spec.md §4.14)
	case "MOVSB", "MOVSW", "MOVSD", "MOVSQ":
		return c.liftMovs(inst)

	// System (spec.md §4.15)
	case "RDTSC":
		return c.liftRdtsc(inst)

	default:
		return wrapf(ErrUnsupportedMnemonic, "mnemonic %q", inst.Mnemonic)
	}
}
