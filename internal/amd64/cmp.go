// Completion: 100% - Instruction implementation complete
package amd64

// CMP instruction - sets flags for the loop tests

// CmpMem8Imm emits CMP byte [base+disp], imm8 (80 /7 ib)
func (o *Out) CmpMem8Imm(m Mem, imm int) error {
	o.verbose("cmp byte %s, %d", m, imm)
	defer o.endVerbose()
	return o.byteMemImm(0x80, 7, m, imm)
}
