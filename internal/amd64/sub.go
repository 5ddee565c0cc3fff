// Completion: 100% - Instruction implementation complete
package amd64

// SUB instruction - the negative counterparts of the ADD forms

// SubMem8Imm emits SUB byte [base+disp], imm8 (80 /5 ib)
func (o *Out) SubMem8Imm(m Mem, imm int) error {
	o.verbose("sub byte %s, %d", m, imm)
	defer o.endVerbose()
	return o.byteMemImm(0x80, 5, m, imm)
}

// SubRegImm emits SUB r64, imm (83 /5 ib or 81 /5 id)
func (o *Out) SubRegImm(reg string, imm int64) error {
	return o.aluRegImm(5, "sub", reg, imm)
}
