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

// driver.go is the trace driver (spec.md §4.16): it walks a decoded
// instruction list in order, advances the simulated instruction pointer,
// dispatches each instruction to its semantic rule, and finalizes the
// lifted function with a return of RAX.
package lift

import (
	"errors"
	"fmt"

	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// Lift translates a straight-line trace of decoded instructions into a
// single IR function named "protected" (spec.md §6 "Downstream"). It is
// the package's main entry point.
func Lift(trace []decode.Instruction, cfg Config) (*ir.Func, *Context, error) {
	c := NewContext("protected", cfg)
	for offset, inst := range trace {
		c.IncreaseIP(inst.Len)
		if cfg.Verbose {
			c.B.Mark(fmt.Sprintf("%s@%#x", inst.Mnemonic, c.RuntimeAddress()))
			c.log.WithFields(map[string]interface{}{
				"offset": offset, "mnemonic": inst.Mnemonic, "rip": c.RuntimeAddress(),
			}).Debug("dispatch")
		}

		if err := c.dispatch(inst); err != nil {
			if errors.Is(err, ErrUnsupportedMnemonic) {
				c.recordUnsupported(inst.Mnemonic)
				if cfg.StopOnUnsupported {
					return nil, c, &Error{Mnemonic: inst.Mnemonic, Offset: offset, Err: err}
				}
				c.log.WithField("mnemonic", inst.Mnemonic).Warn("unsupported mnemonic, continuing")
				continue
			}
			return nil, c, &Error{Mnemonic: inst.Mnemonic, Offset: offset, Err: err}
		}
	}
	return c.Finish(), c, nil
}
