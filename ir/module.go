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
package ir

import "strings"

// Module groups the functions produced by lifting a trace (spec.md §6,
// "downstream: the IR module is handed to the caller for serialization").
// It owns nothing beyond the functions themselves -- no global data, no
// symbol table -- since the lifter's only persistent state outside a
// function is the per-function abstract-state table (see package state).
type Module struct {
	Funcs []*Func
}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) AddFunc(fn *Func) {
	m.Funcs = append(m.Funcs, fn)
}

func (m *Module) String() string {
	var b strings.Builder
	for _, fn := range m.Funcs {
		b.WriteString(fn.String())
		b.WriteString("\n")
	}
	return b.String()
}
