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

// Package state is the abstract machine state: a mutable mapping from
// register/flag identifier to the most recently written IR value
// (spec.md §3 "Abstract state", §5 "a self-managed SSA on top of a
// mutable map"). It is owned exclusively by one lifter context and
// accessed through &mut-style methods, per the Design Notes' guidance
// against interior mutability here.
package state

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/ir"
)

// Table is the abstract-state map. The zero value is not usable; use New.
type Table struct {
	values      map[arch.Reg]*ir.Value
	defaultWidth int
}

// New creates an empty Table. defaultWidth is the GPR width in the
// active mode (64 or 32), used to manufacture the zero constant that a
// missing lookup yields (spec.md §3: "the mapping is total after
// function scaffolding... missing lookups yield a zero constant of the
// default width, never a failure").
func New(defaultWidth int) *Table {
	return &Table{values: make(map[arch.Reg]*ir.Value), defaultWidth: defaultWidth}
}

// Set records v as the current value of reg. Last-writer-wins.
func (t *Table) Set(reg arch.Reg, v *ir.Value) {
	t.values[reg] = v
}

// Get returns the current value of reg, or nil if it was never set (the
// caller -- Context.ReadReg in lift/operand.go -- is responsible for turning a
// nil into the zero-of-default-width relaxation described in spec.md
// §7's "Register-unwrap failure").
func (t *Table) Get(reg arch.Reg) (*ir.Value, bool) {
	v, ok := t.values[reg]
	return v, ok
}

func (t *Table) DefaultWidth() int {
	return t.defaultWidth
}

// Snapshot returns a shallow copy of the current register values,
// useful for verifying "flag independence" (spec.md §8 property 1) in
// tests: record a Snapshot before an instruction, compare a Snapshot
// after, and confirm only the flags the instruction defines differ.
func (t *Table) Snapshot() map[arch.Reg]*ir.Value {
	cp := make(map[arch.Reg]*ir.Value, len(t.values))
	for k, v := range t.values {
		cp[k] = v
	}
	return cp
}
