// Completion: 100% - Instruction implementation complete
package amd64

// XorReg32 emits XOR dst, src on 32-bit registers (31 /r).
// xor eax, eax is the usual way to zero the return value.
func (o *Out) XorReg32(dst, src string) error {
	d, err := o.reg(dst, 32)
	if err != nil {
		return err
	}
	s, err := o.reg(src, 32)
	if err != nil {
		return err
	}

	o.verbose("xor %s, %s", dst, src)
	defer o.endVerbose()

	o.rex(false, s.Encoding, d)
	o.Write(0x31)
	o.Write(0xC0 | (s.Encoding&7)<<3 | (d.Encoding & 7))
	return nil
}
