// Package jit ties code generation and executable memory together and runs
// the result on a caller-provided tape.
package jit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/xyproto/bfjit/internal/codegen"
	"github.com/xyproto/bfjit/internal/diag"
	"github.com/xyproto/bfjit/internal/engine"
	"github.com/xyproto/bfjit/internal/execmem"
	"github.com/xyproto/bfjit/internal/opcode"
)

var (
	ErrUnsupportedPlatform = errors.New("native execution needs an x86-64 host")
	ErrEmptyTape           = errors.New("tape has no cells")
	ErrFreed               = errors.New("function was already freed")
)

// Options configures Build
type Options struct {
	Output OutputMode
	// Writer receives the output of CallbackOutput runs. nil means os.Stdout.
	Writer io.Writer
}

// Function is generated code loaded into executable memory.
// It is bound to this process: the code embeds the trampoline address.
type Function struct {
	region *execmem.Region
	output OutputMode
	writer io.Writer
}

// Supported reports whether generated code can run on this host
func Supported() bool {
	return engine.Host().CanRunNative()
}

// Build generates native code for prog and loads it
func Build(prog opcode.Program, opts Options) (*Function, error) {
	if !Supported() {
		return nil, diag.Resource(ErrUnsupportedPlatform, "host is %s", engine.Host())
	}

	var trampoline uintptr
	switch opts.Output {
	case CallbackOutput:
		trampoline = writerTrampoline()
	case LibcOutput:
		addr, err := libcTrampoline()
		if err != nil {
			return nil, diag.Resource(err, "resolving the C library output routine")
		}
		trampoline = addr
	default:
		return nil, fmt.Errorf("unknown output mode %s", opts.Output)
	}

	code, err := codegen.Generate(prog, codegen.Options{Trampoline: trampoline})
	if err != nil {
		return nil, err
	}

	region, err := execmem.Load(code)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	return &Function{region: region, output: opts.Output, writer: w}, nil
}

// Run calls the generated routine on tape and returns its status, which is
// 0 for every routine Generate produces. The routine does not check the
// cursor: a program that leaves the tape writes outside it.
func (f *Function) Run(tape []byte) (int, error) {
	if f.region == nil {
		return 0, ErrFreed
	}
	if len(tape) == 0 {
		return 0, ErrEmptyTape
	}

	var detach func() error
	if f.output == CallbackOutput {
		detach = attach(f.writer)
	}

	r1, _, _ := purego.SyscallN(f.region.Entry(), uintptr(unsafe.Pointer(&tape[0])))
	runtime.KeepAlive(tape)
	status := int(int32(r1))

	if detach != nil {
		if err := detach(); err != nil {
			return status, fmt.Errorf("writing output: %w", err)
		}
		return status, nil
	}
	if err := flushLibc(); err != nil {
		return status, fmt.Errorf("flushing output: %w", err)
	}
	return status, nil
}

// Code returns the machine code as loaded
func (f *Function) Code() []byte {
	if f.region == nil {
		return nil
	}
	return f.region.Code()
}

// Free releases the executable memory. The function cannot run afterwards.
func (f *Function) Free() error {
	if f.region == nil {
		return nil
	}
	err := f.region.Free()
	f.region = nil
	return err
}
