// Completion: 100% - Instruction implementation complete
package amd64

import "fmt"

// JMP and Jcc instructions. All jumps use the rel32 form so a loop body of
// any size fits and the displacement can be patched after the fact.

// JumpCondition represents the condition tested by a conditional jump
type JumpCondition int

const (
	JumpEqual JumpCondition = iota
	JumpNotEqual
	JumpLess
	JumpLessOrEqual
	JumpGreater
	JumpGreaterOrEqual
	JumpBelow
	JumpAboveOrEqual
)

var conditionCodes = map[JumpCondition]struct {
	name string
	code uint8 // Second opcode byte of the 0F 8x form
}{
	JumpEqual:          {"je", 0x84},
	JumpNotEqual:       {"jne", 0x85},
	JumpLess:           {"jl", 0x8C},
	JumpLessOrEqual:    {"jle", 0x8E},
	JumpGreater:        {"jg", 0x8F},
	JumpGreaterOrEqual: {"jge", 0x8D},
	JumpBelow:          {"jb", 0x82},
	JumpAboveOrEqual:   {"jae", 0x83},
}

func (c JumpCondition) String() string {
	if cc, ok := conditionCodes[c]; ok {
		return cc.name
	}
	return fmt.Sprintf("jcc(%d)", int(c))
}

// Jcc emits a conditional near jump to l (0F 8x rel32)
func (o *Out) Jcc(cond JumpCondition, l Label) error {
	cc, ok := conditionCodes[cond]
	if !ok {
		return fmt.Errorf("unknown jump condition %d", int(cond))
	}

	o.verbose("%s L%d", cc.name, l)
	defer o.endVerbose()

	o.Write(0x0F)
	o.Write(cc.code)
	return o.rel32(l)
}

// Jmp emits an unconditional near jump to l (E9 rel32)
func (o *Out) Jmp(l Label) error {
	o.verbose("jmp L%d", l)
	defer o.endVerbose()

	o.Write(0xE9)
	return o.rel32(l)
}
