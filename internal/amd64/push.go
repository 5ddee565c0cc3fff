// Completion: 100% - Instruction implementation complete
package amd64

// PUSH and POP - saving callee-saved registers around the generated routine

// PushReg emits PUSH r64 (50+r, with REX.B for r8-r15)
func (o *Out) PushReg(reg string) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}

	o.verbose("push %s", reg)
	defer o.endVerbose()

	o.rex(false, 0, r)
	o.Write(0x50 + (r.Encoding & 7))
	return nil
}

// PopReg emits POP r64 (58+r, with REX.B for r8-r15)
func (o *Out) PopReg(reg string) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}

	o.verbose("pop %s", reg)
	defer o.endVerbose()

	o.rex(false, 0, r)
	o.Write(0x58 + (r.Encoding & 7))
	return nil
}
