package vm_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xyproto/bfjit/internal/compiler"
	"github.com/xyproto/bfjit/internal/diag"
	"github.com/xyproto/bfjit/internal/opcode"
	"github.com/xyproto/bfjit/internal/samples"
	"github.com/xyproto/bfjit/internal/vm"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func mustCompile(src string) opcode.Program {
	prog, err := compiler.Compile(src)
	Expect(err).NotTo(HaveOccurred())
	return prog
}

func run(prog opcode.Program) (*vm.Machine, string) {
	var out bytes.Buffer
	m := vm.New(vm.DefaultTapeSize, &out)
	Expect(m.Run(prog)).To(Succeed())
	return m, out.String()
}

var _ = Describe("Machine", func() {
	Context("arithmetic", func() {
		It("should wrap the cell below zero", func() {
			m, _ := run(opcode.Program{opcode.Value(-1)})
			Expect(m.Tape()[0]).To(Equal(byte(255)))
		})

		It("should wrap the cell above 255", func() {
			m, _ := run(opcode.Program{opcode.Value(300)})
			Expect(m.Tape()[0]).To(Equal(byte(44)))
		})

		It("should move the cursor by the signed delta", func() {
			m, _ := run(opcode.Program{opcode.Pointer(5), opcode.Pointer(-2)})
			Expect(m.Cursor()).To(Equal(3))
		})

		It("should start with a zeroed tape of the default size", func() {
			m := vm.New(0, &bytes.Buffer{})
			Expect(m.Tape()).To(HaveLen(vm.DefaultTapeSize))
			Expect(m.Tape()).To(HaveEach(byte(0)))
		})
	})

	Context("jumps", func() {
		It("should skip a loop over a zero cell", func() {
			m, out := run(mustCompile("[.]"))
			Expect(out).To(BeEmpty())
			// jz lands on the jnz, which falls through
			Expect(m.Stats().Ops).To(Equal(uint64(2)))
		})

		It("should repeat a loop until the cell is zero", func() {
			m, out := run(mustCompile("+++[.-]"))
			Expect(out).To(Equal("\x03\x02\x01"))
			Expect(m.Tape()[0]).To(Equal(byte(0)))
		})
	})

	Context("addmul", func() {
		It("should add the scaled source cell and leave the source alone", func() {
			m, _ := run(opcode.Program{opcode.Value(7), opcode.Mul(2, 3)})
			Expect(m.Tape()[2]).To(Equal(byte(21)))
			Expect(m.Tape()[0]).To(Equal(byte(7)))
		})

		It("should wrap the product modulo 256", func() {
			m, _ := run(opcode.Program{opcode.Value(100), opcode.Pointer(1), opcode.Value(10), opcode.Pointer(-1), opcode.Mul(1, 3)})
			Expect(m.Tape()[1]).To(Equal(byte((10 + 300) % 256)))
		})

		It("should read the source before writing when the offset is zero", func() {
			m, _ := run(opcode.Program{opcode.Value(3), opcode.Mul(0, 2)})
			Expect(m.Tape()[0]).To(Equal(byte(9)))
		})

		It("should reach cells to the left", func() {
			m, _ := run(opcode.Program{opcode.Pointer(4), opcode.Value(2), opcode.Mul(-4, 5)})
			Expect(m.Tape()[0]).To(Equal(byte(10)))
		})
	})

	Context("scenarios", func() {
		It("should clear the cell with the clear pattern", func() {
			prog := mustCompile("+++[-]")
			Expect(prog.Count(opcode.SetZero)).To(Equal(1))
			Expect(prog.Count(opcode.Nop)).To(Equal(2))
			m, _ := run(prog)
			Expect(m.Tape()[0]).To(Equal(byte(0)))
		})

		It("should copy-add with the basic loop", func() {
			m, _ := run(mustCompile("++>+++[-<+>]"))
			Expect(m.Tape()[0]).To(Equal(byte(5)))
			Expect(m.Tape()[1]).To(Equal(byte(0)))
		})

		It("should move-add with pattern A", func() {
			prog := mustCompile("+++++++[->>+<<]")
			Expect(prog[1]).To(Equal(opcode.Mul(2, 1)))
			m, _ := run(prog)
			Expect(m.Tape()[2]).To(Equal(byte(7)))
			Expect(m.Tape()[0]).To(Equal(byte(0)))
		})

		It("should multiply-add with pattern B", func() {
			prog := mustCompile("+++++[>+++<-]")
			Expect(prog[1]).To(Equal(opcode.Mul(1, 3)))
			m, _ := run(prog)
			Expect(m.Tape()[1]).To(Equal(byte(15)))
			Expect(m.Tape()[0]).To(Equal(byte(0)))
		})

		It("should apply a negative multiplier as its byte value", func() {
			m, _ := run(mustCompile("++[>--<-]"))
			Expect(m.Tape()[1]).To(Equal(byte(252)))
		})

		for _, s := range samples.List {
			s := s
			It("should print the expected output for "+s.Name, func() {
				_, out := run(mustCompile(s.Source))
				Expect(out).To(Equal(s.Output))
			})
		}
	})

	Context("optimization soundness", func() {
		sources := []string{
			"+++[-]",
			"++>+++[-<+>]",
			"+++++[>+++<-]>.",
			"++[>--<-]>.",
			"+++++++[->>+<<]>>.",
			"+++[>+++++[>+++++<-]<-]>>.",
			samples.HelloWorld.Source,
		}
		for _, src := range sources {
			src := src
			It("should behave identically with and without peephole rewrites: "+src, func() {
				plain, err := compiler.CompileWithOptions(src, compiler.Options{DisableOptimizations: true})
				Expect(err).NotTo(HaveOccurred())
				optimized := mustCompile(src)

				mPlain, outPlain := run(plain)
				mOpt, outOpt := run(optimized)

				Expect(outOpt).To(Equal(outPlain))
				Expect(mOpt.Tape()).To(Equal(mPlain.Tape()))
				Expect(mOpt.Cursor()).To(Equal(mPlain.Cursor()))
			})
		}
	})

	Context("instrumentation", func() {
		It("should count every dispatched instruction including nops", func() {
			m, _ := run(opcode.Program{opcode.Value(1), opcode.Skip(), opcode.Put()})
			Expect(m.Stats().Ops).To(Equal(uint64(3)))
			Expect(m.Stats().ByKind[opcode.Nop]).To(Equal(uint64(1)))
			Expect(m.Stats().ByKind[opcode.PutChar]).To(Equal(uint64(1)))
		})

		It("should report stats from Execute", func() {
			var out bytes.Buffer
			stats, err := vm.Execute(mustCompile(samples.HelloWorld.Source), &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal(samples.HelloWorld.Output))
			Expect(stats.Ops).To(BeNumerically(">", 100))
		})
	})

	Context("failures", func() {
		It("should turn a cursor below the tape into a tape fault", func() {
			m := vm.New(16, &bytes.Buffer{})
			err := m.Run(opcode.Program{opcode.Pointer(-1), opcode.Value(1)})
			Expect(err).To(MatchError(vm.ErrTapeFault))
		})

		It("should turn a cursor past the tape into a tape fault", func() {
			m := vm.New(16, &bytes.Buffer{})
			err := m.Run(opcode.Program{opcode.Pointer(16), opcode.Put()})
			Expect(errors.Is(err, vm.ErrTapeFault)).To(BeTrue())
		})

		It("should return write errors", func() {
			m := vm.New(16, failingWriter{})
			err := m.Run(opcode.Program{opcode.Put()})
			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})

		It("should reject unknown opcodes as an internal error", func() {
			m := vm.New(16, &bytes.Buffer{})
			err := m.Run(opcode.Program{{Kind: opcode.Kind(42)}})
			Expect(err).To(HaveOccurred())
			Expect(diag.IsFatal(err)).To(BeTrue())
			category, ok := diag.CategoryOf(err)
			Expect(ok).To(BeTrue())
			Expect(category).To(Equal(diag.CategoryInternal))
		})
	})
})
