// Package opcode defines the intermediate representation shared by the
// compiler, the reference interpreter and the native code generator.
package opcode

import (
	"fmt"
	"strings"
)

// Kind identifies one of the closed set of IR instructions
type Kind uint8

const (
	Nop          Kind = iota // No effect, keeps absolute jump targets valid after rewrites
	AlterValue               // cell += A (mod 256)
	AlterPointer             // cursor += A
	JumpForward              // if cell == 0 { goto A }
	JumpBackward             // if cell != 0 { goto A }
	AddMul                   // tape[cursor+A] += cell * B (mod 256)
	SetZero                  // cell = 0
	PutChar                  // write cell to the output stream
)

func (k Kind) String() string {
	switch k {
	case Nop:
		return "nop"
	case AlterValue:
		return "add"
	case AlterPointer:
		return "move"
	case JumpForward:
		return "jz"
	case JumpBackward:
		return "jnz"
	case AddMul:
		return "addmul"
	case SetZero:
		return "zero"
	case PutChar:
		return "put"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Instruction is a single IR slot.
//
// The meaning of A depends on Kind: the signed delta for AlterValue and
// AlterPointer, the absolute target index for the two jumps, and the
// destination offset for AddMul. Mul is only used by AddMul.
type Instruction struct {
	Kind Kind
	A    int
	Mul  uint8
}

// Constructors, mostly to keep tests readable

func Value(delta int) Instruction    { return Instruction{Kind: AlterValue, A: delta} }
func Pointer(delta int) Instruction  { return Instruction{Kind: AlterPointer, A: delta} }
func Forward(target int) Instruction { return Instruction{Kind: JumpForward, A: target} }
func Backward(target int) Instruction {
	return Instruction{Kind: JumpBackward, A: target}
}

func Mul(offset int, multiplier uint8) Instruction {
	return Instruction{Kind: AddMul, A: offset, Mul: multiplier}
}

func Zero() Instruction { return Instruction{Kind: SetZero} }
func Put() Instruction  { return Instruction{Kind: PutChar} }
func Skip() Instruction { return Instruction{Kind: Nop} }

// IsJump reports whether the instruction is one of the two loop delimiters
func (in Instruction) IsJump() bool {
	return in.Kind == JumpForward || in.Kind == JumpBackward
}

func (in Instruction) String() string {
	switch in.Kind {
	case AlterValue, AlterPointer:
		return fmt.Sprintf("%s %+d", in.Kind, in.A)
	case JumpForward, JumpBackward:
		return fmt.Sprintf("%s %d", in.Kind, in.A)
	case AddMul:
		return fmt.Sprintf("%s %+d, *%d", in.Kind, in.A, in.Mul)
	default:
		return in.Kind.String()
	}
}

// Program is a complete IR sequence. Jump targets are indices into it.
type Program []Instruction

// Count returns how many instructions of the given kind the program holds
func (p Program) Count(kind Kind) int {
	n := 0
	for _, in := range p {
		if in.Kind == kind {
			n++
		}
	}
	return n
}

// Listing returns one instruction per line, prefixed by its index
func (p Program) Listing() string {
	var sb strings.Builder
	width := len(fmt.Sprintf("%d", len(p)))
	for i, in := range p {
		fmt.Fprintf(&sb, "%*d  %s\n", width, i, in)
	}
	return sb.String()
}

// Validate checks the structural invariants every backend relies on:
// no zero deltas, every jump target in range, and every JumpForward and
// JumpBackward pointing at each other.
func (p Program) Validate() error {
	for i, in := range p {
		switch in.Kind {
		case AlterValue, AlterPointer:
			if in.A == 0 {
				return fmt.Errorf("instruction %d: %s with zero delta", i, in.Kind)
			}
		case JumpForward:
			if in.A <= i || in.A >= len(p) {
				return fmt.Errorf("instruction %d: forward target %d out of range", i, in.A)
			}
			if other := p[in.A]; other.Kind != JumpBackward || other.A != i {
				return fmt.Errorf("instruction %d: target %d is %s, not a matching jnz %d", i, in.A, other, i)
			}
		case JumpBackward:
			if in.A >= i || in.A < 0 {
				return fmt.Errorf("instruction %d: backward target %d out of range", i, in.A)
			}
			if other := p[in.A]; other.Kind != JumpForward || other.A != i {
				return fmt.Errorf("instruction %d: target %d is %s, not a matching jz %d", i, in.A, other, i)
			}
		case Nop, AddMul, SetZero, PutChar:
		default:
			return fmt.Errorf("instruction %d: unknown kind %d", i, uint8(in.Kind))
		}
	}
	return nil
}
