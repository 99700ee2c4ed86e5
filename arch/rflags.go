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

// rflagsField describes one bit (or, for IOPL, bit-pair) of RFLAGS: the
// register/flag identifier it corresponds to, its shift, and its width.
// A reserved field has a fixed value instead of a backing Reg.
type rflagsField struct {
	reg   Reg
	shift uint
	width uint
	fixed bool
	value uint64
}

func (f rflagsField) Reg() Reg          { return f.reg }
func (f rflagsField) Shift() uint       { return f.shift }
func (f rflagsField) Width() int        { return int(f.width) }
func (f rflagsField) Fixed() bool       { return f.fixed }
func (f rflagsField) FixedValue() uint64 { return f.value }

// RFLAGSLayout is the bit-exact RFLAGS assembly table referenced by
// spec.md §4.1: "a query for RFLAGS assembles the value by left-shifting
// each flag bit into position". Positions match the documented subset
// (CF=0, PF=2, AF=4, ZF=6, SF=7, TF=8, IF=9, DF=10, OF=11) extended with
// the remaining architectural bits needed for a faithful round-trip.
var RFLAGSLayout = []rflagsField{
	{reg: CF, shift: 0, width: 1},
	{shift: 1, width: 1, fixed: true, value: 1},
	{reg: PF, shift: 2, width: 1},
	{shift: 3, width: 1, fixed: true, value: 0},
	{reg: AF, shift: 4, width: 1},
	{shift: 5, width: 1, fixed: true, value: 0},
	{reg: ZF, shift: 6, width: 1},
	{reg: SF, shift: 7, width: 1},
	{reg: TF, shift: 8, width: 1},
	{reg: IF, shift: 9, width: 1},
	{reg: DF, shift: 10, width: 1},
	{reg: OF, shift: 11, width: 1},
	{reg: IOPL, shift: 12, width: 2},
	{reg: NT, shift: 14, width: 1},
	{shift: 15, width: 1, fixed: true, value: 0},
	{reg: RF, shift: 16, width: 1},
	{reg: VM, shift: 17, width: 1},
	{reg: AC, shift: 18, width: 1},
	{reg: VIF, shift: 19, width: 1},
	{reg: VIP, shift: 20, width: 1},
	{reg: ID, shift: 21, width: 1},
}

// ComposeRFLAGS assembles a full RFLAGS value from individual flag bits,
// read through get. Reserved bits take their architectural fixed value.
func ComposeRFLAGS(get func(Reg) uint64) uint64 {
	var v uint64
	for _, f := range RFLAGSLayout {
		var bits uint64
		if f.fixed {
			bits = f.value
		} else {
			bits = get(f.reg) & ((1 << f.width) - 1)
		}
		v |= bits << f.shift
	}
	return v
}

// DecomposeRFLAGS distributes an RFLAGS value back into its flag bits via
// set. Reserved bits are not written back anywhere (there is no slot for
// them); they exist purely to keep the shift table bit-exact.
func DecomposeRFLAGS(value uint64, set func(Reg, uint64)) {
	for _, f := range RFLAGSLayout {
		if f.fixed {
			continue
		}
		bits := (value >> f.shift) & ((1 << f.width) - 1)
		set(f.reg, bits)
	}
}
