// Completion: 100% - Addressing complete for [base] and [base+disp]
package amd64

import (
	"fmt"
	"math"
)

// Mem is a memory operand of the form [base+disp]
type Mem struct {
	Base string
	Disp int
}

// BytePtr addresses the byte at [base]
func BytePtr(base string) Mem {
	return Mem{Base: base}
}

// BytePtrDisp addresses the byte at [base+disp]
func BytePtrDisp(base string, disp int) Mem {
	return Mem{Base: base, Disp: disp}
}

func (m Mem) String() string {
	switch {
	case m.Disp > 0:
		return fmt.Sprintf("[%s+%d]", m.Base, m.Disp)
	case m.Disp < 0:
		return fmt.Sprintf("[%s-%d]", m.Base, -m.Disp)
	default:
		return "[" + m.Base + "]"
	}
}

// resolve checks the operand and returns its base register and 32-bit displacement
func (o *Out) resolve(m Mem) (Register, int32, error) {
	base, err := o.reg(m.Base, 64)
	if err != nil {
		return Register{}, 0, err
	}
	if m.Disp < math.MinInt32 || m.Disp > math.MaxInt32 {
		return Register{}, 0, fmt.Errorf("%w: %d", ErrDisplacement, m.Disp)
	}
	return base, int32(m.Disp), nil
}

// rex writes a REX prefix when one is needed (or when w is set)
func (o *Out) rex(w bool, reg uint8, base Register) {
	rex := uint8(0x40)
	if w {
		rex |= 0x08 // REX.W
	}
	if reg >= 8 {
		rex |= 0x04 // REX.R
	}
	if base.Extended() {
		rex |= 0x01 // REX.B
	}
	if rex != 0x40 {
		o.Write(rex)
	}
}

// modRMMem writes the ModR/M byte, an optional SIB byte and the displacement
// for [base+disp]. The caller has already written prefix and opcode.
func (o *Out) modRMMem(reg uint8, base Register, disp int32) {
	rm := base.Encoding & 7
	var mod uint8
	switch {
	case disp == 0 && rm != 5: // [rbp] and [r13] have no mod=00 form
		mod = 0x00
	case disp >= math.MinInt8 && disp <= math.MaxInt8:
		mod = 0x40
	default:
		mod = 0x80
	}

	o.Write(mod | (reg&7)<<3 | rm)
	if rm == 4 {
		o.Write(0x24) // SIB: base only, for [rsp] and [r12]
	}

	switch mod {
	case 0x40:
		o.Write(uint8(int8(disp)))
	case 0x80:
		o.WriteUnsigned(uint32(disp))
	}
}

// imm8 checks that v can be stored as a byte, signed or unsigned
func imm8(v int) (uint8, error) {
	if v < math.MinInt8 || v > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %d is not a byte", ErrImmediateRange, v)
	}
	return uint8(v), nil
}

// byteMemOp emits a one byte opcode with a /ext extension on an 8-bit memory operand
func (o *Out) byteMemOp(opcode uint8, ext uint8, m Mem) error {
	base, disp, err := o.resolve(m)
	if err != nil {
		return err
	}
	o.rex(false, 0, base)
	o.Write(opcode)
	o.modRMMem(ext, base, disp)
	return nil
}

// byteMemImm is byteMemOp followed by an 8-bit immediate
func (o *Out) byteMemImm(opcode uint8, ext uint8, m Mem, imm int) error {
	b, err := imm8(imm)
	if err != nil {
		return err
	}
	if err := o.byteMemOp(opcode, ext, m); err != nil {
		return err
	}
	o.Write(b)
	return nil
}
