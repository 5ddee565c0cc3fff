// Completion: 100% - Helper module complete
package codegen

import "github.com/xyproto/bfjit/internal/engine"

// Calling conventions for the generated routine
//
// The routine has the C signature int f(uint8_t *tape) and calls the output
// routine as void out(int c). Only the integer argument registers, the
// callee-saved set and the stack rules matter here:
// - System V AMD64 ABI (Linux, macOS, BSD)
// - Microsoft x64 ABI (Windows)

// CallingConvention defines the interface for platform-specific calling conventions
type CallingConvention interface {
	Name() string

	// GetIntegerArgReg returns the register for integer argument at given index
	GetIntegerArgReg(index int) string

	GetIntegerReturnReg() string

	// GetCalleeSavedRegs returns registers that the callee must save/restore
	GetCalleeSavedRegs() []string

	// GetShadowSpaceSize returns the size of shadow space required (Windows: 32, others: 0)
	GetShadowSpaceSize() int

	// GetStackAlignment returns the required stack alignment at a call instruction
	GetStackAlignment() int
}

// SystemVAMD64 implements the System V AMD64 calling convention (Linux, macOS, BSD)
type SystemVAMD64 struct{}

func (cc *SystemVAMD64) Name() string { return "sysv" }

func (cc *SystemVAMD64) GetIntegerArgReg(index int) string {
	regs := []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	if index < len(regs) {
		return regs[index]
	}
	return "" // Overflow to stack
}

func (cc *SystemVAMD64) GetIntegerReturnReg() string {
	return "rax"
}

func (cc *SystemVAMD64) GetCalleeSavedRegs() []string {
	return []string{"rbx", "rbp", "r12", "r13", "r14", "r15"}
}

func (cc *SystemVAMD64) GetShadowSpaceSize() int {
	return 0 // No shadow space required
}

func (cc *SystemVAMD64) GetStackAlignment() int {
	return 16
}

// MicrosoftX64 implements the Microsoft x64 calling convention (Windows)
type MicrosoftX64 struct{}

func (cc *MicrosoftX64) Name() string { return "win64" }

func (cc *MicrosoftX64) GetIntegerArgReg(index int) string {
	regs := []string{"rcx", "rdx", "r8", "r9"}
	if index < len(regs) {
		return regs[index]
	}
	return "" // Overflow to stack
}

func (cc *MicrosoftX64) GetIntegerReturnReg() string {
	return "rax"
}

func (cc *MicrosoftX64) GetCalleeSavedRegs() []string {
	return []string{"rbx", "rbp", "rdi", "rsi", "r12", "r13", "r14", "r15"}
}

func (cc *MicrosoftX64) GetShadowSpaceSize() int {
	return 32 // Required 32-byte shadow space
}

func (cc *MicrosoftX64) GetStackAlignment() int {
	return 16
}

// ConventionFor returns the calling convention used on the given platform
func ConventionFor(p engine.Platform) CallingConvention {
	if p.OS == engine.OSWindows {
		return &MicrosoftX64{}
	}
	return &SystemVAMD64{}
}

// HostConvention returns the calling convention of the running process
func HostConvention() CallingConvention {
	return ConventionFor(engine.Host())
}
