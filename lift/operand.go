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
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// --- Register load/store (spec.md §4.2) -------------------------------

// ReadReg resolves reg to its current abstract-state value, materializing
// it on the fly for RIP and RFLAGS, or falling back to a zero constant of
// default width for any slot that was never written (spec.md §7
// "Register-unwrap failure": "a deliberate relaxation and is not an
// error").
func (c *Context) ReadReg(reg arch.Reg) *ir.Value {
	if reg == arch.RIP {
		return c.B.ConstInt(ir.Int(c.GPRWidth()), c.RuntimeAddress())
	}
	if v, ok := c.State.Get(reg); ok {
		return v
	}
	return c.B.ConstInt(ir.Int(c.State.DefaultWidth()), 0)
}

// RFLAGS assembles the full flags register from individual flag slots
// (spec.md §4.1).
func (c *Context) RFLAGS() *ir.Value {
	// Build the composition purely in IR: shift each flag into position
	// and OR the pieces together, mirroring arch.ComposeRFLAGS's layout
	// but operating on *ir.Value instead of uint64 (flag values are
	// themselves IR values, not host-side constants, once any prior
	// instruction has touched them).
	width := c.GPRWidth()
	result := c.B.ConstInt(ir.Int(width), 0)
	for _, f := range arch.RFLAGSLayout {
		var bits *ir.Value
		if f.Fixed() {
			bits = c.B.ConstInt(ir.Int(width), f.FixedValue())
		} else {
			flagVal := c.ReadReg(f.Reg())
			bits = c.B.ZExt(flagVal, width)
		}
		shifted := c.B.Binary(ir.OpShl, ir.Int(width), bits, c.B.ConstInt(ir.Int(width), uint64(f.Shift())))
		result = c.B.Binary(ir.OpOr, ir.Int(width), result, shifted)
	}
	return result
}

// SetRFLAGS distributes a full flags value back into its flag slots
// (spec.md §4.1, §4.13 POPFQ).
func (c *Context) SetRFLAGS(v *ir.Value) {
	width := v.Type.Width
	for _, f := range arch.RFLAGSLayout {
		if f.Fixed() {
			continue
		}
		shifted := c.B.Binary(ir.OpLShr, ir.Int(width), v, c.B.ConstInt(ir.Int(width), uint64(f.Shift())))
		bitWidth := f.Width()
		maskVal := uint64(1)<<uint(bitWidth) - 1
		masked := c.B.Binary(ir.OpAnd, ir.Int(width), shifted, c.B.ConstInt(ir.Int(width), maskVal))
		truncated := c.B.Trunc(masked, bitWidth)
		c.State.Set(f.Reg(), truncated)
	}
}

// LoadRegisterOperand loads a decoded register operand, handling the
// high-byte / sub-register slicing rules of spec.md §4.2.
func (c *Context) LoadRegisterOperand(op decode.Operand) *ir.Value {
	if op.Reg == arch.RIP {
		return c.ReadReg(arch.RIP)
	}
	if op.Reg == arch.RegNone {
		return c.B.ConstInt(ir.Int(op.SizeBits), 0)
	}
	full := c.ReadReg(op.Reg)
	switch op.SubKind {
	case arch.SubHigh8:
		shifted := c.B.Binary(ir.OpLShr, full.Type, full, c.B.ConstInt(full.Type, 8))
		masked := c.B.Binary(ir.OpAnd, full.Type, shifted, c.B.ConstInt(full.Type, 0xFF))
		return c.B.Trunc(masked, 8)
	case arch.SubLow8, arch.SubLow16, arch.SubLow32:
		return c.B.Trunc(full, op.SizeBits)
	default: // SubFull
		return c.B.ExtTo(full, op.SizeBits, false)
	}
}

// StoreRegisterOperand writes v into the register operand op, preserving
// unwritten bits of the enclosing slot per spec.md §4.2's four
// sub-register write rules.
func (c *Context) StoreRegisterOperand(op decode.Operand, v *ir.Value) {
	if op.Reg == arch.RegNone {
		return
	}
	width := c.GPRWidth()
	wt := ir.Int(width)

	switch op.SubKind {
	case arch.SubLow8:
		old := c.ReadReg(op.Reg)
		cleared := c.B.Binary(ir.OpAnd, wt, old, c.B.ConstInt(wt, ^uint64(0xFF)))
		newVal := c.B.ZExt(v, width)
		c.State.Set(op.Reg, c.B.Binary(ir.OpOr, wt, cleared, newVal))

	case arch.SubHigh8:
		old := c.ReadReg(op.Reg)
		cleared := c.B.Binary(ir.OpAnd, wt, old, c.B.ConstInt(wt, ^uint64(0xFF00)))
		widened := c.B.ZExt(v, width)
		shifted := c.B.Binary(ir.OpShl, wt, widened, c.B.ConstInt(wt, 8))
		c.State.Set(op.Reg, c.B.Binary(ir.OpOr, wt, cleared, shifted))

	case arch.SubLow16:
		old := c.ReadReg(op.Reg)
		cleared := c.B.Binary(ir.OpAnd, wt, old, c.B.ConstInt(wt, ^uint64(0xFFFF)))
		newVal := c.B.ZExt(v, width)
		c.State.Set(op.Reg, c.B.Binary(ir.OpOr, wt, cleared, newVal))

	case arch.SubLow32:
		// Writing a 32-bit sub-register in 64-bit mode does NOT preserve
		// the upper 32 bits -- it replaces the whole slot with the
		// zero-extended 32-bit value (spec.md §4.2, architectural x86-64
		// behavior). In 32-bit mode this is simply a full-width write.
		c.State.Set(op.Reg, c.B.ZExt(v, width))

	default: // SubFull
		c.State.Set(op.Reg, c.B.ZExt(v, width))
	}
}

// --- Effective address (spec.md §4.2) ---------------------------------

// EffectiveAddress computes base + index*scale + displacement, every
// summand zero-extended to 64 bits, truncated/zero-extended to the
// operand's size at the end. A scale of 0 or 1 means "use index
// unchanged" (spec.md §4.2).
func (c *Context) EffectiveAddress(mem decode.Mem, sizeBits int) *ir.Value {
	const addrWidth = 64
	addrType := ir.Int(addrWidth)
	sum := c.B.ConstInt(addrType, 0)

	if mem.Base != arch.RegNone {
		base := c.ReadReg(mem.Base)
		sum = c.B.Binary(ir.OpAdd, addrType, sum, c.B.ZExt(base, addrWidth))
	}
	if mem.Index != arch.RegNone {
		index := c.B.ZExt(c.ReadReg(mem.Index), addrWidth)
		scale := mem.Scale
		if scale <= 1 {
			sum = c.B.Binary(ir.OpAdd, addrType, sum, index)
		} else {
			scaled := c.B.Binary(ir.OpMul, addrType, index, c.B.ConstInt(addrType, uint64(scale)))
			sum = c.B.Binary(ir.OpAdd, addrType, sum, scaled)
		}
	}
	if mem.HasDisp {
		sum = c.B.Binary(ir.OpAdd, addrType, sum, c.B.ConstInt(addrType, uint64(mem.Disp)))
	}
	return c.B.ExtTo(sum, sizeBits, false)
}

// --- Memory load/store (spec.md §4.2) ----------------------------------

// LoadMemoryOperand computes the effective address, indexes into the
// stack buffer at that byte offset, and emits a typed load.
func (c *Context) LoadMemoryOperand(op decode.Operand) (*ir.Value, error) {
	if op.Mem.Segment != arch.RegNone {
		return nil, wrapf(ErrUnimplementedSegment, "segment register in memory operand")
	}
	addr := c.EffectiveAddress(op.Mem, 64)
	ptr := c.B.GEP(c.Stack, addr)
	return c.B.Load(ir.Int(op.SizeBits), ptr), nil
}

// StoreMemoryOperand computes the effective address and stores v there.
func (c *Context) StoreMemoryOperand(op decode.Operand, v *ir.Value) error {
	if op.Mem.Segment != arch.RegNone {
		return wrapf(ErrUnimplementedSegment, "segment register in memory operand")
	}
	addr := c.EffectiveAddress(op.Mem, 64)
	ptr := c.B.GEP(c.Stack, addr)
	c.B.Store(ptr, v)
	return nil
}

// --- Immediate load (spec.md §4.2) -------------------------------------

func (c *Context) LoadImmediateOperand(op decode.Operand) *ir.Value {
	return c.B.ConstInt(ir.Int(op.SizeBits), uint64(op.Imm))
}

// --- Generic operand load/store dispatch -------------------------------

// LoadOperand loads any operand kind, routing to the register/memory/
// immediate helper above.
func (c *Context) LoadOperand(op decode.Operand) (*ir.Value, error) {
	switch op.Kind {
	case decode.OperandRegister:
		return c.LoadRegisterOperand(op), nil
	case decode.OperandMemory:
		return c.LoadMemoryOperand(op)
	case decode.OperandImmediate, decode.OperandPointer:
		return c.LoadImmediateOperand(op), nil
	default:
		return nil, wrapf(ErrBadRegister, "unused operand loaded")
	}
}

func (c *Context) StoreOperand(op decode.Operand, v *ir.Value) error {
	switch op.Kind {
	case decode.OperandRegister:
		c.StoreRegisterOperand(op, v)
		return nil
	case decode.OperandMemory:
		return c.StoreMemoryOperand(op, v)
	default:
		return wrapf(ErrBadRegister, "cannot store to operand kind %d", op.Kind)
	}
}

// LoadTwoOperands loads dst and src, then zero- or sign-extends src to
// dst's width so both share a bit width (spec.md §4.2 "Two-operand
// load"). signed selects sign- vs zero-extension for widening.
func (c *Context) LoadTwoOperands(dst, src decode.Operand, signed bool) (*ir.Value, *ir.Value, error) {
	dv, err := c.LoadOperand(dst)
	if err != nil {
		return nil, nil, err
	}
	sv, err := c.LoadOperand(src)
	if err != nil {
		return nil, nil, err
	}
	sv = c.B.ExtTo(sv, dv.Type.Width, signed)
	return dv, sv, nil
}
