// Completion: 100% - Instruction implementation complete
package amd64

// MOV instruction implementation
// Used for:
//   - Taking the tape pointer argument into the cursor register
//   - Loading the output routine address before an indirect call
//   - Storing zero into a cell

// MovRegReg emits MOV dst, src for 64-bit registers (REX.W 89 /r)
func (o *Out) MovRegReg(dst, src string) error {
	d, err := o.reg(dst, 64)
	if err != nil {
		return err
	}
	s, err := o.reg(src, 64)
	if err != nil {
		return err
	}

	o.verbose("mov %s, %s", dst, src)
	defer o.endVerbose()

	o.rex(true, s.Encoding, d)
	o.Write(0x89)
	// ModR/M: 11 src dst
	o.Write(0xC0 | (s.Encoding&7)<<3 | (d.Encoding & 7))
	return nil
}

// MovRegImm64 emits MOV r64, imm64 (REX.W B8+r io)
func (o *Out) MovRegImm64(reg string, imm uint64) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}

	o.verbose("mov %s, 0x%x", reg, imm)
	defer o.endVerbose()

	o.rex(true, 0, r)
	o.Write(0xB8 + (r.Encoding & 7))
	o.Write8u(imm)
	return nil
}

// MovReg32Imm emits MOV r32, imm32 (B8+r id). The upper half of the 64-bit register is cleared.
func (o *Out) MovReg32Imm(reg string, imm uint32) error {
	r, err := o.reg(reg, 32)
	if err != nil {
		return err
	}

	o.verbose("mov %s, %d", reg, imm)
	defer o.endVerbose()

	o.rex(false, 0, r)
	o.Write(0xB8 + (r.Encoding & 7))
	o.WriteUnsigned(imm)
	return nil
}

// MovMem8Imm emits MOV byte [base+disp], imm8 (C6 /0 ib)
func (o *Out) MovMem8Imm(m Mem, imm int) error {
	o.verbose("mov byte %s, %d", m, imm)
	defer o.endVerbose()
	return o.byteMemImm(0xC6, 0, m, imm)
}
