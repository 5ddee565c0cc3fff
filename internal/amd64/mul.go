// Completion: 100% - Instruction implementation complete
package amd64

// MulMem8 emits MUL byte [base+disp] (F6 /4). AX = AL * operand, unsigned.
func (o *Out) MulMem8(m Mem) error {
	o.verbose("mul byte %s", m)
	defer o.endVerbose()
	return o.byteMemOp(0xF6, 4, m)
}
