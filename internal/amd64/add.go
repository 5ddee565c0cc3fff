// Completion: 100% - Instruction implementation complete
package amd64

import (
	"fmt"
	"math"
)

// ADD instruction implementation
// Essential for the tape machine:
//   - Cell arithmetic: a run of '+' becomes one add byte [rbx], n
//   - Cursor movement: a run of '>' becomes one add rbx, n
//   - Multiply-add: add byte [rbx+off], al after mul

// AddMem8Imm emits ADD byte [base+disp], imm8 (80 /0 ib)
func (o *Out) AddMem8Imm(m Mem, imm int) error {
	o.verbose("add byte %s, %d", m, imm)
	defer o.endVerbose()
	return o.byteMemImm(0x80, 0, m, imm)
}

// AddRegImm emits ADD r64, imm (83 /0 ib when it fits a signed byte, 81 /0 id otherwise)
func (o *Out) AddRegImm(reg string, imm int64) error {
	return o.aluRegImm(0, "add", reg, imm)
}

// AddMem8Reg8 emits ADD byte [base+disp], r8 (00 /r)
func (o *Out) AddMem8Reg8(m Mem, src string) error {
	s, err := o.reg(src, 8)
	if err != nil {
		return err
	}
	base, disp, err := o.resolve(m)
	if err != nil {
		return err
	}

	o.verbose("add byte %s, %s", m, src)
	defer o.endVerbose()

	o.rex(false, s.Encoding, base)
	o.Write(0x00)
	o.modRMMem(s.Encoding, base, disp)
	return nil
}

// aluRegImm encodes the group 1 immediate forms on a 64-bit register.
// ext is the opcode extension: /0 add, /5 sub.
func (o *Out) aluRegImm(ext uint8, mnemonic, reg string, imm int64) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}
	if imm < math.MinInt32 || imm > math.MaxInt32 {
		return fmt.Errorf("%w: %s %s, %d", ErrImmediateRange, mnemonic, reg, imm)
	}

	o.verbose("%s %s, %d", mnemonic, reg, imm)
	defer o.endVerbose()

	o.rex(true, 0, r)
	modrm := 0xC0 | ext<<3 | (r.Encoding & 7)
	if imm >= math.MinInt8 && imm <= math.MaxInt8 {
		o.Write(0x83)
		o.Write(modrm)
		o.Write(uint8(int8(imm)))
		return nil
	}
	o.Write(0x81)
	o.Write(modrm)
	o.WriteUnsigned(uint32(int32(imm)))
	return nil
}
