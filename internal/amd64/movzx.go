// Completion: 100% - Instruction implementation complete
package amd64

// MovzxRegMem8 emits MOVZX r32, byte [base+disp] (0F B6 /r)
func (o *Out) MovzxRegMem8(dst string, m Mem) error {
	d, err := o.reg(dst, 32)
	if err != nil {
		return err
	}
	base, disp, err := o.resolve(m)
	if err != nil {
		return err
	}

	o.verbose("movzx %s, byte %s", dst, m)
	defer o.endVerbose()

	o.rex(false, d.Encoding, base)
	o.Write(0x0F)
	o.Write(0xB6)
	o.modRMMem(d.Encoding, base, disp)
	return nil
}
