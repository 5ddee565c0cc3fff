// Completion: 100% - Pipeline complete for both backends
package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tebeka/atexit"

	"github.com/xyproto/bfjit/internal/amd64"
	"github.com/xyproto/bfjit/internal/codegen"
	"github.com/xyproto/bfjit/internal/compiler"
	"github.com/xyproto/bfjit/internal/jit"
	"github.com/xyproto/bfjit/internal/opcode"
	"github.com/xyproto/bfjit/internal/vm"
)

// Runner drives the three phases (compile, generate, execute) and logs
// how long each one took
type Runner struct {
	Config Config
	Stdout io.Writer
	Log    *slog.Logger
}

// phase logs the duration of one pipeline step
func (r *Runner) phase(name string, start time.Time, attrs ...any) {
	r.Log.Info(name, append([]any{"took", time.Since(start)}, attrs...)...)
}

// Compile turns source into IR
func (r *Runner) Compile(file, source string) (opcode.Program, error) {
	start := time.Now()
	prog, err := compiler.CompileWithOptions(source, compiler.Options{
		File:                 file,
		DisableOptimizations: r.Config.NoOptimize,
	})
	if err != nil {
		return nil, err
	}
	r.phase("compilation", start, "instructions", len(prog), "nops", prog.Count(opcode.Nop))
	return prog, nil
}

// Run compiles and executes source with the configured backend
func (r *Runner) Run(file, source string) error {
	prog, err := r.Compile(file, source)
	if err != nil {
		return err
	}

	backend := r.Config.Backend
	if backend == BackendJIT && !jit.Supported() {
		r.Log.Warn("native code cannot run on this host, using the interpreter instead")
		backend = BackendVM
	}

	switch backend {
	case BackendVM:
		return r.interpret(prog)
	default:
		return r.native(prog)
	}
}

func (r *Runner) interpret(prog opcode.Program) error {
	start := time.Now()
	m := vm.New(r.Config.TapeSize, r.Stdout)
	err := m.Run(prog)
	r.phase("vm execution", start, "ops", m.Stats().Ops)
	return err
}

func (r *Runner) native(prog opcode.Program) error {
	start := time.Now()
	f, err := jit.Build(prog, jit.Options{Output: r.Config.Output, Writer: r.Stdout})
	if err != nil {
		return err
	}
	// A fatal error exits through atexit, which still unmaps the code.
	// Free is idempotent, so the deferred call and the handler can both run.
	atexit.Register(func() { f.Free() })
	defer f.Free()
	r.phase("native code generation", start, "bytes", len(f.Code()))

	start = time.Now()
	tape := make([]byte, r.Config.TapeSize)
	status, err := f.Run(tape)
	r.phase("native code execution", start, "status", status)
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("generated code returned status %d", status)
	}
	return nil
}

// DumpIR writes the IR listing of source
func (r *Runner) DumpIR(file, source string) error {
	prog, err := r.Compile(file, source)
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.Stdout, prog.Listing())
	return err
}

// DumpAsm writes the disassembly of the code generated for source. A
// placeholder trampoline address is used, so nothing needs to be resolved.
func (r *Runner) DumpAsm(file, source string) error {
	prog, err := r.Compile(file, source)
	if err != nil {
		return err
	}
	start := time.Now()
	code, err := codegen.Generate(prog, codegen.Options{Trampoline: placeholderTrampoline})
	if err != nil {
		return err
	}
	r.phase("native code generation", start, "bytes", len(code))
	_, err = io.WriteString(r.Stdout, amd64.Disassemble(code))
	return err
}

// placeholderTrampoline stands in for the output routine in listings
const placeholderTrampoline = 0xDEADBEEF
