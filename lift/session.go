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

// session.go lifts more than one function out of the same trace file,
// a registry of per-function contexts keyed by entry address (grounded
// on original_source/src/compiler/contexts.rs, which serves the same
// purpose for the Rust original). Each entry produces its own
// "protected_<addr>" function inside one shared ir.Module.
package lift

import (
	"errors"
	"fmt"

	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// Entry pairs an entry address with the trace of instructions starting
// there (spec.md §6 "Driver input", extended to the multi-function
// case).
type Entry struct {
	Address uint64
	Trace   []decode.Instruction
}

// Session lifts a set of Entry values into one ir.Module, one function
// per entry, and keeps each entry's resulting Context available for
// inspection (e.g. reading Context.Unsupported after a non-fatal run).
type Session struct {
	Module   *ir.Module
	Contexts map[uint64]*Context
}

// NewSession creates an empty session backed by a fresh, empty module.
func NewSession() *Session {
	return &Session{
		Module:   ir.NewModule(),
		Contexts: make(map[uint64]*Context),
	}
}

// LiftEntry lifts one Entry's trace, registers the resulting function
// under "protected_<address>", and records its Context for later
// inspection. cfg.EntryAddress is overridden with e.Address.
func (s *Session) LiftEntry(e Entry, cfg Config) error {
	cfg.EntryAddress = e.Address
	c := NewContext(fmt.Sprintf("protected_%#x", e.Address), cfg)

	for offset, inst := range e.Trace {
		c.IncreaseIP(inst.Len)
		if cfg.Verbose {
			c.B.Mark(fmt.Sprintf("%s@%#x", inst.Mnemonic, c.RuntimeAddress()))
		}
		if err := c.dispatch(inst); err != nil {
			if errors.Is(err, ErrUnsupportedMnemonic) {
				c.recordUnsupported(inst.Mnemonic)
				if cfg.StopOnUnsupported {
					return &Error{Mnemonic: inst.Mnemonic, Offset: offset, Err: err}
				}
				continue
			}
			return &Error{Mnemonic: inst.Mnemonic, Offset: offset, Err: err}
		}
	}

	fn := c.Finish()
	s.Module.AddFunc(fn)
	s.Contexts[e.Address] = c
	return nil
}

// LiftAll lifts every entry in order, stopping at the first fatal
// error.
func (s *Session) LiftAll(entries []Entry, cfg Config) error {
	for _, e := range entries {
		if err := s.LiftEntry(e, cfg); err != nil {
			return err
		}
	}
	return nil
}
