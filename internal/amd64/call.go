// Completion: 100% - Instruction implementation complete
package amd64

// CallReg emits CALL r64 (FF /2), an indirect call through a register
func (o *Out) CallReg(reg string) error {
	r, err := o.reg(reg, 64)
	if err != nil {
		return err
	}

	o.verbose("call %s", reg)
	defer o.endVerbose()

	o.rex(false, 0, r)
	o.Write(0xFF)
	// ModR/M: 11 010 reg
	o.Write(0xD0 | (r.Encoding & 7))
	return nil
}
