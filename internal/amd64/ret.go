// Completion: 100% - Instruction implementation complete
package amd64

// Ret emits a near return (C3)
func (o *Out) Ret() {
	o.verbose("ret")
	defer o.endVerbose()
	o.Write(0xC3)
}
