// Package vm is the reference interpreter for the IR. It executes exactly
// the semantics the native code generator has to reproduce.
package vm

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/xyproto/bfjit/internal/diag"
	"github.com/xyproto/bfjit/internal/opcode"
)

// DefaultTapeSize is the tape length used by both backends unless configured otherwise
const DefaultTapeSize = 512

// ErrTapeFault is returned when the cursor leaves the tape.
// The language leaves this undefined; Go's bounds checks turn it into an error.
var ErrTapeFault = errors.New("cursor moved outside the tape")

// Stats is the instrumentation collected during a run
type Stats struct {
	Ops    uint64    // Instructions dispatched, Nop included
	ByKind [8]uint64 // Dispatch count per opcode.Kind
}

// Machine holds the tape and cursor of one execution
type Machine struct {
	tape   []byte
	cursor int
	out    io.Writer
	stats  Stats
	char   [1]byte
}

// New creates a machine with a zeroed tape of the given size writing to out
func New(tapeSize int, out io.Writer) *Machine {
	if tapeSize <= 0 {
		tapeSize = DefaultTapeSize
	}
	return &Machine{
		tape: make([]byte, tapeSize),
		out:  out,
	}
}

// Execute runs prog on a fresh default-sized tape
func Execute(prog opcode.Program, out io.Writer) (Stats, error) {
	m := New(DefaultTapeSize, out)
	err := m.Run(prog)
	return m.Stats(), err
}

// Tape returns the tape. It is the live buffer, not a copy.
func (m *Machine) Tape() []byte {
	return m.tape
}

func (m *Machine) Cursor() int {
	return m.cursor
}

func (m *Machine) Stats() Stats {
	return m.stats
}

// Run interprets prog until the instruction index reaches its end.
// A program that never halts never returns.
func (m *Machine) Run(prog opcode.Program) (err error) {
	index := 0

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if re, ok := r.(runtime.Error); ok && strings.Contains(re.Error(), "index out of range") {
			err = fmt.Errorf("%w: instruction %d, cursor %d, tape size %d",
				ErrTapeFault, index, m.cursor, len(m.tape))
			return
		}
		panic(r)
	}()

	for index != len(prog) {
		in := prog[index]
		m.stats.Ops++
		if int(in.Kind) < len(m.stats.ByKind) {
			m.stats.ByKind[in.Kind]++
		}

		switch in.Kind {
		case opcode.AlterValue:
			m.tape[m.cursor] += byte(in.A)
		case opcode.AlterPointer:
			m.cursor += in.A
		case opcode.JumpForward:
			if m.tape[m.cursor] == 0 {
				index = in.A
				continue
			}
		case opcode.JumpBackward:
			if m.tape[m.cursor] != 0 {
				index = in.A
				continue
			}
		case opcode.SetZero:
			m.tape[m.cursor] = 0
		case opcode.AddMul:
			src := m.tape[m.cursor]
			m.tape[m.cursor+in.A] += in.Mul * src
		case opcode.PutChar:
			m.char[0] = m.tape[m.cursor]
			if _, err := m.out.Write(m.char[:]); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		case opcode.Nop:
		default:
			return diag.Internal(nil, "instruction %d: unknown opcode %s", index, in.Kind)
		}

		index++
	}

	return nil
}
