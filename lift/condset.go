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

// condset.go implements SETcc (spec.md §4.11): zero-extend the
// condition predicate to 8 bits and store to destination.
package lift

import "github.com/r3bb1t/bin-lift/decode"

func (c *Context) liftSetcc(inst decode.Instruction, suffix string) error {
	dst := inst.Operands[0]
	pred, err := c.conditionPredicate(suffix)
	if err != nil {
		return err
	}
	return c.StoreOperand(dst, c.B.ZExt(pred, 8))
}
