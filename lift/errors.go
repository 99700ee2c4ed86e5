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

import (
	"errors"
	"fmt"
)

// Sentinel errors implementing spec.md §7's error taxonomy. Every
// returned error wraps exactly one of these with fmt.Errorf("%w: ...")
// so callers can errors.Is against the taxonomy rather than string-match.
var (
	// ErrUnsupportedMnemonic: the mnemonic has no semantic rule.
	// Non-fatal when Config.StopOnUnsupported is false.
	ErrUnsupportedMnemonic = errors.New("lift: unsupported mnemonic")

	// ErrNotInteger: an IR value expected to be Integer was Float.
	ErrNotInteger = errors.New("lift: value is not an integer")

	// ErrBadRegister: a register identifier was RegNone where it must
	// not be.
	ErrBadRegister = errors.New("lift: invalid register operand")

	// ErrIRBuild surfaces a failure from IR construction.
	ErrIRBuild = errors.New("lift: IR construction failed")

	// ErrIntrinsicMissing: a required primitive (population count,
	// cycle counter) is not available.
	ErrIntrinsicMissing = errors.New("lift: required intrinsic not available")

	// ErrFlagRange: an RFLAGS bit index is outside the covered range.
	ErrFlagRange = errors.New("lift: RFLAGS bit index out of range")

	// ErrUnimplementedSegment: a non-default memory segment (spec.md
	// §4.2's GS/FS example) has no defined lowering.
	ErrUnimplementedSegment = errors.New("lift: non-default segment not implemented")
)

// Error wraps one of the sentinels above with the offending mnemonic and
// the trace offset it occurred at, for diagnostics (spec.md §A.2).
type Error struct {
	Mnemonic string
	Offset   int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lift: %s at offset %d: %v", e.Mnemonic, e.Offset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}
