// Completion: 100% - Instruction implementation complete
package amd64

// DEC instruction - decrement a tape cell or the cursor register by 1

// DecMem8 emits DEC byte [base+disp] (FE /1)
func (o *Out) DecMem8(m Mem) error {
	o.verbose("dec byte %s", m)
	defer o.endVerbose()
	return o.byteMemOp(0xFE, 1, m)
}

// DecReg emits DEC r64 (REX.W FF /1)
func (o *Out) DecReg(reg string) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}

	o.verbose("dec %s", reg)
	defer o.endVerbose()

	o.rex(true, 0, r)
	o.Write(0xFF)
	// ModR/M byte: 11 001 reg
	o.Write(0xC8 | (r.Encoding & 7))
	return nil
}
