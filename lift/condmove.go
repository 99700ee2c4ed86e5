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

// condmove.go implements CMOVcc (spec.md §4.11): select between
// destination (false) and source (true), store to destination. No flag
// is affected.
package lift

import "github.com/r3bb1t/bin-lift/decode"

func (c *Context) liftCmovcc(inst decode.Instruction, suffix string) error {
	dst, src := inst.Operands[0], inst.Operands[1]
	pred, err := c.conditionPredicate(suffix)
	if err != nil {
		return err
	}
	a, b, err := c.LoadTwoOperands(dst, src, false)
	if err != nil {
		return err
	}
	return c.StoreOperand(dst, c.B.Select(pred, b, a))
}
