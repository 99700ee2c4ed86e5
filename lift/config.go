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
package lift

import "github.com/r3bb1t/bin-lift/arch"

// Config governs driver behavior (spec.md §6 "Driver input", §7
// "Propagation"). The CLI (cmd/vmlift) populates one of these from
// viper-bound flags/config file; library callers just construct one.
type Config struct {
	Mode arch.Mode

	// EntryAddress seeds the simulated instruction pointer.
	EntryAddress uint64

	// CallerReturnAddress is the return address that was already on the
	// stack when the trace begins -- the value a RET is compared against
	// to classify it as a "real return" versus a "ROP return" (spec.md
	// §4.9, §9 "ROP return").
	CallerReturnAddress uint64

	// StopOnUnsupported makes the first unsupported mnemonic fatal.
	// When false (the "debug build" mode in spec.md §7), unsupported
	// mnemonics are recorded in Context.Unsupported and the driver
	// continues with the next instruction.
	StopOnUnsupported bool

	// Verbose enables per-instruction debug logging and the OpMark
	// debug annotations described in SPEC_FULL.md §C.
	Verbose bool
}

func DefaultConfig() Config {
	return Config{Mode: arch.Long64, StopOnUnsupported: true}
}
