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

// cond.go builds the 1-bit condition predicates shared by CMOVcc and
// SETcc (spec.md §4.11). The "condition-to-formula table" is keyed by
// every suffix spelling spec.md names (B, BE, L, LE, NB, NBE, ...) plus
// the Intel mnemonic aliases golang.org/x/arch/x86/x86asm actually
// produces (A, AE, E, G, GE, NE), since both spellings denote the same
// predicate.
package lift

import (
	"strings"

	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/ir"
)

// conditionSuffixes lists every accepted suffix spelling. conditionSuffix
// compares the whole remainder of the mnemonic against each entry for
// equality, so "CMOVNBE" resolves to "NBE" and never to "NB".
var conditionSuffixes = []string{
	"NBE", "NLE", "NB", "NL", "NO", "NP", "NS", "NZ", "NE",
	"BE", "LE", "AE", "GE",
	"B", "L", "O", "P", "S", "Z", "A", "G", "E",
}

// conditionPredicate evaluates the named condition against the current
// flag values, per spec.md §4.11's table.
func (c *Context) conditionPredicate(suffix string) (*ir.Value, error) {
	cf := c.ReadReg(arch.CF)
	zf := c.ReadReg(arch.ZF)
	sf := c.ReadReg(arch.SF)
	of := c.ReadReg(arch.OF)
	pf := c.ReadReg(arch.PF)

	switch suffix {
	case "B":
		return cf, nil
	case "BE":
		return c.B.Binary(ir.OpOr, ir.I1, cf, zf), nil
	case "L":
		return c.B.ICmp(ir.OpICmpNE, sf, of), nil
	case "LE":
		sNeO := c.B.ICmp(ir.OpICmpNE, sf, of)
		return c.B.Binary(ir.OpOr, ir.I1, zf, sNeO), nil
	case "NB", "AE":
		return c.B.Not(cf), nil
	case "NBE", "A":
		notCF := c.B.Not(cf)
		notZF := c.B.Not(zf)
		return c.B.Binary(ir.OpAnd, ir.I1, notCF, notZF), nil
	case "NL", "GE":
		return c.B.ICmp(ir.OpICmpEQ, sf, of), nil
	case "NLE", "G":
		notZF := c.B.Not(zf)
		sEqO := c.B.ICmp(ir.OpICmpEQ, sf, of)
		return c.B.Binary(ir.OpAnd, ir.I1, notZF, sEqO), nil
	case "O":
		return of, nil
	case "NO":
		return c.B.Not(of), nil
	case "P":
		return pf, nil
	case "NP":
		return c.B.Not(pf), nil
	case "S":
		return sf, nil
	case "NS":
		return c.B.Not(sf), nil
	case "Z", "E":
		return zf, nil
	case "NZ", "NE":
		return c.B.Not(zf), nil
	default:
		return nil, wrapf(ErrUnsupportedMnemonic, "unknown condition suffix %q", suffix)
	}
}

// conditionSuffix extracts the condition suffix from a CMOVcc/SETcc
// mnemonic, e.g. "CMOVNBE" -> "NBE", "SETZ" -> "Z".
func conditionSuffix(mnemonic, prefix string) (string, bool) {
	m := strings.ToUpper(mnemonic)
	if !strings.HasPrefix(m, prefix) {
		return "", false
	}
	suffix := m[len(prefix):]
	for _, s := range conditionSuffixes {
		if s == suffix {
			return s, true
		}
	}
	return "", false
}
