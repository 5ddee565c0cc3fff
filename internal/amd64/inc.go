// Completion: 100% - Instruction implementation complete
package amd64

// INC instruction - increment a tape cell or the cursor register by 1

// IncMem8 emits INC byte [base+disp] (FE /0)
func (o *Out) IncMem8(m Mem) error {
	o.verbose("inc byte %s", m)
	defer o.endVerbose()
	return o.byteMemOp(0xFE, 0, m)
}

// IncReg emits INC r64 (REX.W FF /0)
func (o *Out) IncReg(reg string) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}

	o.verbose("inc %s", reg)
	defer o.endVerbose()

	o.rex(true, 0, r)
	o.Write(0xFF)
	// ModR/M byte: 11 000 reg (register direct mode, opcode extension /0)
	o.Write(0xC0 | (r.Encoding & 7))
	return nil
}
