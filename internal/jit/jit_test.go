package jit_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xyproto/bfjit/internal/compiler"
	"github.com/xyproto/bfjit/internal/jit"
	"github.com/xyproto/bfjit/internal/opcode"
	"github.com/xyproto/bfjit/internal/samples"
	"github.com/xyproto/bfjit/internal/vm"
)

type failingWriter struct{ calls int }

func (w *failingWriter) Write([]byte) (int, error) {
	w.calls++
	return 0, errors.New("broken pipe")
}

func mustCompile(src string) opcode.Program {
	prog, err := compiler.Compile(src)
	Expect(err).NotTo(HaveOccurred())
	return prog
}

// runNative builds prog, runs it on a fresh tape and frees it
func runNative(prog opcode.Program) ([]byte, string) {
	var out bytes.Buffer
	f, err := jit.Build(prog, jit.Options{Writer: &out})
	Expect(err).NotTo(HaveOccurred())
	defer f.Free()

	tape := make([]byte, vm.DefaultTapeSize)
	status, err := f.Run(tape)
	Expect(err).NotTo(HaveOccurred())
	Expect(status).To(BeZero())
	return tape, out.String()
}

func runVM(prog opcode.Program) ([]byte, string) {
	var out bytes.Buffer
	m := vm.New(vm.DefaultTapeSize, &out)
	Expect(m.Run(prog)).To(Succeed())
	return m.Tape(), out.String()
}

var _ = Describe("OutputMode", func() {
	It("should parse every name", func() {
		for i, name := range jit.OutputModeNames {
			mode, err := jit.ParseOutputMode(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(int(mode)).To(Equal(i))
			Expect(mode.String()).To(Equal(name))
		}
		_, err := jit.ParseOutputMode("stdout")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Function", func() {
	BeforeEach(func() {
		if !jit.Supported() {
			Skip("native code needs an x86-64 host")
		}
	})

	Context("equivalence with the interpreter", func() {
		all := append([]samples.Sample{samples.HelloWorld}, samples.List...)
		for _, s := range all {
			s := s
			It("should match the interpreter on "+s.Name, func() {
				prog := mustCompile(s.Source)

				nativeTape, nativeOut := runNative(prog)
				vmTape, vmOut := runVM(prog)

				Expect(nativeOut).To(Equal(s.Output))
				Expect(nativeOut).To(Equal(vmOut))
				Expect(nativeTape).To(Equal(vmTape))
			})
		}

		It("should match without peephole rewrites", func() {
			prog, err := compiler.CompileWithOptions(samples.HelloWorld.Source,
				compiler.Options{DisableOptimizations: true})
			Expect(err).NotTo(HaveOccurred())

			_, out := runNative(prog)
			Expect(out).To(Equal(samples.HelloWorld.Output))
		})
	})

	Context("scenarios", func() {
		It("should clear a cell", func() {
			tape, _ := runNative(mustCompile("+++[-]"))
			Expect(tape[0]).To(BeZero())
		})

		It("should add the source into the destination", func() {
			tape, _ := runNative(mustCompile("+++++[->+<]"))
			Expect(tape[0]).To(BeZero())
			Expect(tape[1]).To(Equal(byte(5)))
		})

		It("should multiply into the neighbour", func() {
			tape, _ := runNative(mustCompile("+++++[>+++<-]"))
			Expect(tape[0]).To(BeZero())
			Expect(tape[1]).To(Equal(byte(15)))
		})

		It("should wrap a negative multiplier", func() {
			tape, _ := runNative(mustCompile("++[>--<-]"))
			Expect(tape[1]).To(Equal(byte(252)))
		})

		It("should leave the caller's tape as the program left it", func() {
			tape, _ := runNative(mustCompile(">>+++<-"))
			Expect(tape[:3]).To(Equal([]byte{0, 255, 3}))
		})

		It("should handle large deltas", func() {
			tape, _ := runNative(opcode.Program{opcode.Value(300), opcode.Pointer(200), opcode.Value(-2)})
			Expect(tape[0]).To(Equal(byte(44)))
			Expect(tape[200]).To(Equal(byte(254)))
		})

		It("should double a cell with a zero offset", func() {
			tape, _ := runNative(opcode.Program{opcode.Value(21), opcode.Mul(0, 1)})
			Expect(tape[0]).To(Equal(byte(42)))
		})
	})

	Context("output", func() {
		It("should report a failing writer", func() {
			w := &failingWriter{}
			f, err := jit.Build(mustCompile("+.+.+."), jit.Options{Writer: w})
			Expect(err).NotTo(HaveOccurred())
			defer f.Free()

			_, err = f.Run(make([]byte, 16))
			Expect(err).To(MatchError(ContainSubstring("broken pipe")))
			Expect(w.calls).To(Equal(1))
		})

		It("should run repeatedly with independent output", func() {
			var out bytes.Buffer
			f, err := jit.Build(mustCompile("++++++++[>++++++++<-]>+."), jit.Options{Writer: &out})
			Expect(err).NotTo(HaveOccurred())
			defer f.Free()

			for i := 0; i < 3; i++ {
				_, err := f.Run(make([]byte, 16))
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(out.String()).To(Equal("AAA"))
		})

		It("should run through the C library", func() {
			f, err := jit.Build(mustCompile("+++[-]"), jit.Options{Output: jit.LibcOutput})
			if err != nil {
				Skip("C library not available: " + err.Error())
			}
			defer f.Free()

			tape := make([]byte, 16)
			status, err := f.Run(tape)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(BeZero())
		})
	})

	Context("lifecycle", func() {
		It("should refuse to run after Free", func() {
			f, err := jit.Build(mustCompile("+"), jit.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Code()).NotTo(BeEmpty())

			Expect(f.Free()).To(Succeed())
			Expect(f.Free()).To(Succeed())
			Expect(f.Code()).To(BeNil())

			_, err = f.Run(make([]byte, 1))
			Expect(errors.Is(err, jit.ErrFreed)).To(BeTrue())
		})

		It("should refuse an empty tape", func() {
			f, err := jit.Build(mustCompile("+"), jit.Options{})
			Expect(err).NotTo(HaveOccurred())
			defer f.Free()

			_, err = f.Run(nil)
			Expect(errors.Is(err, jit.ErrEmptyTape)).To(BeTrue())
		})

		It("should pass code generation errors through", func() {
			_, err := jit.Build(opcode.Program{opcode.Forward(0)}, jit.Options{})
			Expect(err).To(HaveOccurred())
		})
	})
})
