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

// shift.go implements the shift/rotate family (spec.md §4.7): SHL/SHLX,
// SHR/SHRX, SAR/SARX, SHLD/SHRD, ROL/ROR, RCL/RCR.
//
// The shift count is always masked to 5 bits for 32-bit operands and 6
// bits for 64-bit operands before use (spec.md §4.7 "count masking"),
// and a masked count of zero must leave both the destination and every
// flag untouched (spec.md §8 property 5, "count-zero idempotence") --
// enforced here by Select-ing between the freshly computed value/flag
// and the pre-instruction one based on whether the masked count is
// zero. SHLX/SHRX/SARX are the BMI2 forms: same arithmetic, but they
// never touch any flag.
package lift

import (
	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/ir"
)

// countMask returns the mask applied to a shift/rotate count: 0x3F for
// 64-bit operands, 0x1F otherwise (spec.md §4.7).
func countMask(width int) uint64 {
	if width == 64 {
		return 0x3F
	}
	return 0x1F
}

// maskedCount loads the count operand and masks it to the destination's
// operand width, returning the masked count and a 1-bit "count is zero"
// predicate for the idempotence Select.
func (c *Context) maskedCount(count decode.Operand, t *ir.Type) (*ir.Value, *ir.Value, error) {
	raw, err := c.LoadOperand(count)
	if err != nil {
		return nil, nil, err
	}
	raw = c.B.ExtTo(raw, t.Width, false)
	masked := c.B.Binary(ir.OpAnd, t, raw, c.B.ConstInt(t, countMask(t.Width)))
	isZero := c.B.ICmp(ir.OpICmpEQ, masked, c.B.ConstInt(t, 0))
	return masked, isZero, nil
}

// selectFlag preserves reg's prior value when isZero holds, otherwise
// commits newVal -- the count-zero idempotence rule applied per flag.
func (c *Context) selectFlag(reg arch.Reg, isZero, newVal *ir.Value) {
	old := c.ReadReg(reg)
	c.State.Set(reg, c.B.Select(isZero, old, newVal))
}

func (c *Context) liftShl(inst decode.Instruction) error {
	return c.shiftLike(inst, ir.OpShl, false, true)
}

func (c *Context) liftShr(inst decode.Instruction) error {
	return c.shiftLike(inst, ir.OpLShr, false, true)
}

func (c *Context) liftSar(inst decode.Instruction) error {
	return c.shiftLike(inst, ir.OpAShr, false, true)
}

// liftShlx/liftShrx/liftSarx are the flagless BMI2 forms, three-operand:
// Operands[0] = dest, Operands[1] = source, Operands[2] = count.
func (c *Context) liftShlx(inst decode.Instruction) error {
	return c.shiftLikeX(inst, ir.OpShl)
}

func (c *Context) liftShrx(inst decode.Instruction) error {
	return c.shiftLikeX(inst, ir.OpLShr)
}

func (c *Context) liftSarx(inst decode.Instruction) error {
	return c.shiftLikeX(inst, ir.OpAShr)
}

// shiftLike implements the flag-updating two-operand SHL/SHR/SAR forms.
// CF becomes the last bit shifted out; OF is defined only for a count of
// exactly 1 and left unchanged otherwise; PF/SF/ZF follow the result;
// AF is architecturally undefined and left untouched.
func (c *Context) shiftLike(inst decode.Instruction, op ir.Op, _ bool, updatesFlags bool) error {
	dst, count := inst.Operands[0], inst.Operands[1]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	t := a.Type
	masked, isZero, err := c.maskedCount(count, t)
	if err != nil {
		return err
	}
	result := c.B.Binary(op, t, a, masked)

	if updatesFlags {
		cf := c.shiftOutBit(op, a, t, masked)
		c.selectFlag(arch.CF, isZero, cf)

		countIsOne := c.B.ICmp(ir.OpICmpEQ, masked, c.B.ConstInt(t, 1))
		of := c.shiftOverflow(op, a, result, t)
		oldOF := c.ReadReg(arch.OF)
		ofCommit := c.B.Select(countIsOne, of, oldOF)
		c.selectFlag(arch.OF, isZero, ofCommit)

		pf, sf, zf := c.parityResult(result), c.signResult(result), c.zeroResult(result)
		c.selectFlag(arch.PF, isZero, pf)
		c.selectFlag(arch.SF, isZero, sf)
		c.selectFlag(arch.ZF, isZero, zf)
	}

	final := c.B.Select(isZero, a, result)
	return c.StoreOperand(dst, final)
}

// shiftLikeX implements the BMI2 SHLX/SHRX/SARX forms: same shift
// arithmetic as shiftLike, but it never reads or writes any flag.
func (c *Context) shiftLikeX(inst decode.Instruction, op ir.Op) error {
	dst, src, count := inst.Operands[0], inst.Operands[1], inst.Operands[2]
	a, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	t := a.Type
	masked, isZero, err := c.maskedCount(count, t)
	if err != nil {
		return err
	}
	result := c.B.Binary(op, t, a, masked)
	final := c.B.Select(isZero, a, result)
	return c.StoreOperand(dst, final)
}

// shiftOutBit computes the last bit shifted out of the operand, the
// value CF takes for a non-zero shift count.
func (c *Context) shiftOutBit(op ir.Op, a *ir.Value, t *ir.Type, masked *ir.Value) *ir.Value {
	one := c.B.ConstInt(t, 1)
	switch op {
	case ir.OpShl:
		width := c.B.ConstInt(t, uint64(t.Width))
		shiftAmt := c.B.Binary(ir.OpSub, t, width, masked)
		bit := c.B.Binary(ir.OpLShr, t, a, shiftAmt)
		return c.B.Trunc(c.B.Binary(ir.OpAnd, t, bit, one), 1)
	default: // OpLShr, OpAShr
		shiftAmt := c.B.Binary(ir.OpSub, t, masked, one)
		bit := c.B.Binary(ir.OpLShr, t, a, shiftAmt)
		return c.B.Trunc(c.B.Binary(ir.OpAnd, t, bit, one), 1)
	}
}

// shiftOverflow computes OF for a shift-by-one: for SHL, XOR of the
// result's and operand's sign bits; for SHR, the operand's original
// sign bit; for SAR, always 0 (spec.md §4.7).
func (c *Context) shiftOverflow(op ir.Op, a, result *ir.Value, t *ir.Type) *ir.Value {
	switch op {
	case ir.OpShl:
		return c.B.Trunc(c.B.Binary(ir.OpXor, t, c.msbWide(a, t), c.msbWide(result, t)), 1)
	case ir.OpLShr:
		return c.B.Trunc(c.msbWide(a, t), 1)
	default: // OpAShr
		return c.B.ConstInt(ir.I1, 0)
	}
}

func (c *Context) msbWide(v *ir.Value, t *ir.Type) *ir.Value {
	return c.B.Binary(ir.OpLShr, t, v, c.B.ConstInt(t, uint64(t.Width-1)))
}

func (c *Context) parityResult(result *ir.Value) *ir.Value {
	low8 := c.B.Trunc(result, 8)
	popcnt := c.B.PopCount(low8)
	parityBit := c.B.Binary(ir.OpAnd, popcnt.Type, popcnt, c.B.ConstInt(popcnt.Type, 1))
	isOdd := c.B.ICmp(ir.OpICmpEQ, parityBit, c.B.ConstInt(popcnt.Type, 1))
	return c.B.Not(isOdd)
}

func (c *Context) signResult(result *ir.Value) *ir.Value {
	width := result.Type.Width
	shifted := c.B.Binary(ir.OpLShr, result.Type, result, c.B.ConstInt(result.Type, uint64(width-1)))
	return c.B.Trunc(shifted, 1)
}

func (c *Context) zeroResult(result *ir.Value) *ir.Value {
	zero := c.B.ConstInt(result.Type, 0)
	return c.B.ICmp(ir.OpICmpEQ, result, zero)
}

// liftShld/liftShrd implement the double-precision shifts: the
// destination is shifted in from bits supplied by a second register.
// SHLD shifts dst left, filling vacated low bits from src's high bits;
// SHRD shifts dst right, filling vacated high bits from src's low bits.
// CF and OF are computed on the destination using the equivalent plain
// SHL/SHR rules (spec.md §4.7): OF is written only for count == 1 and
// left unchanged for other counts; CF takes the last bit shifted out of
// the destination for any non-zero count.
func (c *Context) liftShld(inst decode.Instruction) error {
	return c.doubleShift(inst, true)
}

func (c *Context) liftShrd(inst decode.Instruction) error {
	return c.doubleShift(inst, false)
}

func (c *Context) doubleShift(inst decode.Instruction, left bool) error {
	dst, src, count := inst.Operands[0], inst.Operands[1], inst.Operands[2]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	b, err := c.LoadOperand(src)
	if err != nil {
		return err
	}
	t := a.Type
	b = c.B.ExtTo(b, t.Width, false)
	masked, isZero, err := c.maskedCount(count, t)
	if err != nil {
		return err
	}

	width := c.B.ConstInt(t, uint64(t.Width))
	var result *ir.Value
	if left {
		hi := c.B.Binary(ir.OpShl, t, a, masked)
		complement := c.B.Binary(ir.OpSub, t, width, masked)
		lo := c.B.Binary(ir.OpLShr, t, b, complement)
		result = c.B.Binary(ir.OpOr, t, hi, lo)
	} else {
		lo := c.B.Binary(ir.OpLShr, t, a, masked)
		complement := c.B.Binary(ir.OpSub, t, width, masked)
		hi := c.B.Binary(ir.OpShl, t, b, complement)
		result = c.B.Binary(ir.OpOr, t, lo, hi)
	}

	shiftOp := ir.OpLShr
	if left {
		shiftOp = ir.OpShl
	}
	cf := c.shiftOutBit(shiftOp, a, t, masked)
	c.selectFlag(arch.CF, isZero, cf)

	countIsOne := c.B.ICmp(ir.OpICmpEQ, masked, c.B.ConstInt(t, 1))
	of := c.shiftOverflow(shiftOp, a, result, t)
	oldOF := c.ReadReg(arch.OF)
	ofCommit := c.B.Select(countIsOne, of, oldOF)
	c.selectFlag(arch.OF, isZero, ofCommit)

	c.selectFlag(arch.PF, isZero, c.parityResult(result))
	c.selectFlag(arch.SF, isZero, c.signResult(result))
	c.selectFlag(arch.ZF, isZero, c.zeroResult(result))

	final := c.B.Select(isZero, a, result)
	return c.StoreOperand(dst, final)
}

func (c *Context) liftRol(inst decode.Instruction) error {
	return c.rotateLike(inst, true)
}

func (c *Context) liftRor(inst decode.Instruction) error {
	return c.rotateLike(inst, false)
}

// rotateLike implements ROL/ROR: result = (a << n) | (a >> (width-n))
// (or the mirror for ROR). CF becomes the last bit rotated into
// position; OF is defined only for count == 1. PF/SF/ZF/AF are left
// untouched by rotates (spec.md §4.7).
func (c *Context) rotateLike(inst decode.Instruction, left bool) error {
	dst, count := inst.Operands[0], inst.Operands[1]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	t := a.Type
	masked, isZero, err := c.maskedCount(count, t)
	if err != nil {
		return err
	}
	width := c.B.ConstInt(t, uint64(t.Width))
	complement := c.B.Binary(ir.OpSub, t, width, masked)

	var result *ir.Value
	var cf *ir.Value
	if left {
		hi := c.B.Binary(ir.OpShl, t, a, masked)
		lo := c.B.Binary(ir.OpLShr, t, a, complement)
		result = c.B.Binary(ir.OpOr, t, hi, lo)
		cf = c.B.Trunc(c.B.Binary(ir.OpAnd, t, result, c.B.ConstInt(t, 1)), 1)
	} else {
		lo := c.B.Binary(ir.OpLShr, t, a, masked)
		hi := c.B.Binary(ir.OpShl, t, a, complement)
		result = c.B.Binary(ir.OpOr, t, lo, hi)
		cf = c.B.Trunc(c.msbWide(result, t), 1)
	}
	c.selectFlag(arch.CF, isZero, cf)

	countIsOne := c.B.ICmp(ir.OpICmpEQ, masked, c.B.ConstInt(t, 1))
	var of *ir.Value
	if left {
		of = c.B.Trunc(c.B.Binary(ir.OpXor, t, cf2val(c.B, t, cf), c.msbWide(result, t)), 1)
	} else {
		msbA := c.msbWide(a, t)
		bit0 := c.B.Binary(ir.OpAnd, t, a, c.B.ConstInt(t, 1))
		of = c.B.Trunc(c.B.Binary(ir.OpXor, t, msbA, bit0), 1)
	}
	oldOF := c.ReadReg(arch.OF)
	ofCommit := c.B.Select(countIsOne, of, oldOF)
	c.selectFlag(arch.OF, isZero, ofCommit)

	final := c.B.Select(isZero, a, result)
	return c.StoreOperand(dst, final)
}

// cf2val widens a 1-bit carry value back to width bits for combination
// with other wide values via XOR.
func cf2val(b *ir.Builder, t *ir.Type, cf *ir.Value) *ir.Value {
	return b.ZExt(cf, t.Width)
}

func (c *Context) liftRcl(inst decode.Instruction) error {
	return c.rotateThroughCarry(inst, true)
}

func (c *Context) liftRcr(inst decode.Instruction) error {
	return c.rotateThroughCarry(inst, false)
}

// rotateThroughCarry implements RCL/RCR: a (width+1)-bit rotate that
// includes CF as the extra bit. Modeled by widening the operand to
// width+1 with CF as the new top bit, rotating within that wider type,
// then splitting the result back into the stored value and the new CF.
func (c *Context) rotateThroughCarry(inst decode.Instruction, left bool) error {
	dst, count := inst.Operands[0], inst.Operands[1]
	a, err := c.LoadOperand(dst)
	if err != nil {
		return err
	}
	t := a.Type
	masked, isZero, err := c.maskedCount(count, t)
	if err != nil {
		return err
	}

	wide := ir.Int(t.Width + 1)
	widenedA := c.B.ZExt(a, wide.Width)
	cf := c.B.ZExt(c.ReadReg(arch.CF), wide.Width)
	withCF := c.B.Binary(ir.OpOr, wide, widenedA, c.B.Binary(ir.OpShl, wide, cf, c.B.ConstInt(wide, uint64(t.Width))))

	wideMasked := c.B.ZExt(masked, wide.Width)
	wideWidthConst := c.B.ConstInt(wide, uint64(wide.Width))
	ringMod := c.B.Binary(ir.OpURem, wide, wideMasked, wideWidthConst)
	complement := c.B.Binary(ir.OpSub, wide, wideWidthConst, ringMod)

	var rotated *ir.Value
	if left {
		hi := c.B.Binary(ir.OpShl, wide, withCF, ringMod)
		lo := c.B.Binary(ir.OpLShr, wide, withCF, complement)
		rotated = c.B.Binary(ir.OpOr, wide, hi, lo)
	} else {
		lo := c.B.Binary(ir.OpLShr, wide, withCF, ringMod)
		hi := c.B.Binary(ir.OpShl, wide, withCF, complement)
		rotated = c.B.Binary(ir.OpOr, wide, lo, hi)
	}

	newCF := c.B.Trunc(c.B.Binary(ir.OpLShr, wide, rotated, c.B.ConstInt(wide, uint64(t.Width))), 1)
	result := c.B.Trunc(rotated, t.Width)

	c.selectFlag(arch.CF, isZero, newCF)
	countIsOne := c.B.ICmp(ir.OpICmpEQ, masked, c.B.ConstInt(t, 1))
	of := c.B.Trunc(c.B.Binary(ir.OpXor, t, cf2val(c.B, t, newCF), c.msbWide(result, t)), 1)
	oldOF := c.ReadReg(arch.OF)
	ofCommit := c.B.Select(countIsOne, of, oldOF)
	c.selectFlag(arch.OF, isZero, ofCommit)

	final := c.B.Select(isZero, a, result)
	return c.StoreOperand(dst, final)
}
