// Completion: 100% - Native code generation complete for every opcode
package codegen

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/xyproto/bfjit/internal/amd64"
	"github.com/xyproto/bfjit/internal/diag"
	"github.com/xyproto/bfjit/internal/opcode"
)

var (
	ErrLabelUnderflow = errors.New("loop close without pending loop labels")
	ErrLabelLeftover  = errors.New("loop labels still pending at end of program")
	ErrZeroDelta      = errors.New("zero delta reached code generation")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrNoTrampoline   = errors.New("program prints but no output routine address was given")
)

// VerboseMode prints a summary of every generated routine to stderr
var VerboseMode bool

// cursor holds the tape pointer for the whole routine. It is callee-saved
// in both conventions, so calls to the output routine leave it alone.
const cursor = "rbx"

// Options configures one code generation
type Options struct {
	// Trampoline is the absolute address of a C-ABI routine void out(int c).
	// It is embedded in the code, which makes the result valid only inside
	// the process that produced the address.
	Trampoline uintptr

	// Convention selects argument registers and stack rules. nil means the host's.
	Convention CallingConvention
}

// loopLabels is the pair pushed by a loop open and popped by its close
type loopLabels struct {
	body amd64.Label
	skip amd64.Label
}

type generator struct {
	out    *amd64.Out
	opts   Options
	arg0   string
	shadow int
	loops  []loopLabels
}

// Generate lowers prog into an x86-64 routine with the signature
// int f(uint8_t *tape). The routine returns 0.
func Generate(prog opcode.Program, opts Options) ([]byte, error) {
	if opts.Convention == nil {
		opts.Convention = HostConvention()
	}
	cc := opts.Convention
	if !slices.Contains(cc.GetCalleeSavedRegs(), cursor) {
		return nil, diag.Internal(nil, "%s is not callee-saved under the %s convention", cursor, cc.Name())
	}
	if opts.Trampoline == 0 && prog.Count(opcode.PutChar) > 0 {
		return nil, diag.Codegen(ErrNoTrampoline, "cannot lower put")
	}

	g := &generator{
		out:    amd64.NewOut(),
		opts:   opts,
		arg0:   cc.GetIntegerArgReg(0),
		shadow: cc.GetShadowSpaceSize(),
	}

	if err := g.prologue(); err != nil {
		return nil, diag.Codegen(err, "prologue")
	}
	for i, in := range prog {
		if err := g.lower(i, in); err != nil {
			return nil, err
		}
	}
	if len(g.loops) > 0 {
		return nil, diag.Codegen(ErrLabelLeftover, "%d loops were opened but never closed", len(g.loops))
	}
	if err := g.epilogue(); err != nil {
		return nil, diag.Codegen(err, "epilogue")
	}

	code, err := g.out.Assemble()
	if err != nil {
		return nil, diag.Codegen(err, "resolving loop labels")
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "codegen: %d instructions -> %d bytes (%s)\n", len(prog), len(code), cc.Name())
	}
	return code, nil
}

// On entry rsp is 8 mod 16 because of the return address. Pushing the
// cursor register realigns it, and the shadow space is a multiple of 16.
func (g *generator) prologue() error {
	if err := g.out.PushReg(cursor); err != nil {
		return err
	}
	if err := g.out.MovRegReg(cursor, g.arg0); err != nil {
		return err
	}
	if g.shadow > 0 {
		return g.out.SubRegImm("rsp", int64(g.shadow))
	}
	return nil
}

func (g *generator) epilogue() error {
	if g.shadow > 0 {
		if err := g.out.AddRegImm("rsp", int64(g.shadow)); err != nil {
			return err
		}
	}
	if err := g.out.PopReg(cursor); err != nil {
		return err
	}
	ret, _ := amd64.Low32(g.opts.Convention.GetIntegerReturnReg())
	if err := g.out.XorReg32(ret, ret); err != nil {
		return err
	}
	g.out.Ret()
	return nil
}

func (g *generator) lower(i int, in opcode.Instruction) error {
	var err error
	switch in.Kind {
	case opcode.Nop:
	case opcode.AlterValue:
		err = g.alterValue(in.A)
	case opcode.AlterPointer:
		err = g.alterPointer(in.A)
	case opcode.SetZero:
		err = g.out.MovMem8Imm(amd64.BytePtr(cursor), 0)
	case opcode.PutChar:
		err = g.putChar()
	case opcode.AddMul:
		err = g.addMul(in.A, in.Mul)
	case opcode.JumpForward:
		err = g.jumpForward()
	case opcode.JumpBackward:
		err = g.jumpBackward()
	default:
		return diag.Internal(ErrUnknownOpcode, "instruction %d: %s", i, in.Kind)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrZeroDelta):
		return diag.Internal(err, "instruction %d (%s)", i, in)
	default:
		return diag.Codegen(err, "instruction %d (%s)", i, in)
	}
}

func (g *generator) alterValue(delta int) error {
	if delta == 0 {
		return ErrZeroDelta
	}
	cell := amd64.BytePtr(cursor)
	// Cells wrap, so only the delta modulo 256 matters
	switch d := ((delta % 256) + 256) % 256; {
	case d == 0:
		return nil
	case d == 1:
		return g.out.IncMem8(cell)
	case d == 255:
		return g.out.DecMem8(cell)
	case d < 128:
		return g.out.AddMem8Imm(cell, d)
	default:
		return g.out.SubMem8Imm(cell, 256-d)
	}
}

func (g *generator) alterPointer(delta int) error {
	switch {
	case delta == 0:
		return ErrZeroDelta
	case delta == 1:
		return g.out.IncReg(cursor)
	case delta == -1:
		return g.out.DecReg(cursor)
	case delta > 0:
		return g.out.AddRegImm(cursor, int64(delta))
	default:
		return g.out.SubRegImm(cursor, -int64(delta))
	}
}

// putChar passes the current cell zero-extended as the first argument and
// calls the trampoline through rax, which is caller-saved in both conventions
func (g *generator) putChar() error {
	arg, ok := amd64.Low32(g.arg0)
	if !ok {
		return fmt.Errorf("%w: no 32-bit form of %s", amd64.ErrUnknownRegister, g.arg0)
	}
	if err := g.out.MovzxRegMem8(arg, amd64.BytePtr(cursor)); err != nil {
		return err
	}
	if err := g.out.MovRegImm64("rax", uint64(g.opts.Trampoline)); err != nil {
		return err
	}
	return g.out.CallReg("rax")
}

// addMul adds multiplier * [cursor] to [cursor+offset]. mul leaves the low
// byte of the product in al, which is exactly the wrapped result.
func (g *generator) addMul(offset int, multiplier uint8) error {
	cell := amd64.BytePtr(cursor)
	if multiplier == 1 {
		if err := g.out.MovzxRegMem8("eax", cell); err != nil {
			return err
		}
	} else {
		if err := g.out.MovReg32Imm("eax", uint32(multiplier)); err != nil {
			return err
		}
		if err := g.out.MulMem8(cell); err != nil {
			return err
		}
	}
	return g.out.AddMem8Reg8(amd64.BytePtrDisp(cursor, offset), "al")
}

func (g *generator) jumpForward() error {
	loop := loopLabels{body: g.out.NewLabel(), skip: g.out.NewLabel()}
	if err := g.out.CmpMem8Imm(amd64.BytePtr(cursor), 0); err != nil {
		return err
	}
	if err := g.out.Jcc(amd64.JumpEqual, loop.skip); err != nil {
		return err
	}
	if err := g.out.Bind(loop.body); err != nil {
		return err
	}
	g.loops = append(g.loops, loop)
	return nil
}

func (g *generator) jumpBackward() error {
	if len(g.loops) == 0 {
		return ErrLabelUnderflow
	}
	loop := g.loops[len(g.loops)-1]
	g.loops = g.loops[:len(g.loops)-1]

	if err := g.out.CmpMem8Imm(amd64.BytePtr(cursor), 0); err != nil {
		return err
	}
	if err := g.out.Jcc(amd64.JumpNotEqual, loop.body); err != nil {
		return err
	}
	return g.out.Bind(loop.skip)
}
