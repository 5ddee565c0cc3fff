// Completion: 100% - Lowering and back-patching complete
package compiler

import (
	"errors"
	"fmt"
	"os"

	"github.com/xyproto/bfjit/internal/diag"
	"github.com/xyproto/bfjit/internal/opcode"
)

var (
	ErrUnmatchedOpen  = errors.New("unmatched '['")
	ErrUnmatchedClose = errors.New("unmatched ']'")
)

// VerboseMode makes the compiler report what the peephole pass rewrote
var VerboseMode bool

// Options controls a single compilation
type Options struct {
	File                 string // Only used to label diagnostics
	DisableOptimizations bool   // Return the IR exactly as lowered
}

// Compile turns source text into optimized IR
func Compile(source string) (opcode.Program, error) {
	return CompileWithOptions(source, Options{})
}

// CompileWithOptions filters, lowers and (unless disabled) peephole-optimizes source.
// Compilation is all-or-nothing: on error no program is returned.
func CompileWithOptions(source string, opts Options) (opcode.Program, error) {
	prog, err := Lower(Tokenize(source))
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			de.Location.File = opts.File
			de.Context.SourceLine = diag.SourceLineAt(source, de.Location.Line)
		}
		return nil, err
	}

	if opts.DisableOptimizations {
		return prog, nil
	}

	n := Optimize(prog)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "peephole: rewrote %d loops in %d instructions\n", n, len(prog))
	}
	return prog, nil
}

// openLoop is a pending '[' waiting for its ']'
type openLoop struct {
	index int
	pos   diag.SourceLocation
}

// Lower converts the token stream into IR and resolves every loop's jump
// targets. Runs of arithmetic symbols collapse into one delta; a run whose
// net effect is zero emits nothing.
func Lower(tokens []Token) (opcode.Program, error) {
	prog := make(opcode.Program, 0, len(tokens))
	var stack []openLoop

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Symbol {
		case '+', '-':
			v := 0
			for ; i < len(tokens) && (tokens[i].Symbol == '+' || tokens[i].Symbol == '-'); i++ {
				if tokens[i].Symbol == '+' {
					v++
				} else {
					v--
				}
			}
			i--
			if v != 0 {
				prog = append(prog, opcode.Value(v))
			}
		case '>', '<':
			v := 0
			for ; i < len(tokens) && (tokens[i].Symbol == '>' || tokens[i].Symbol == '<'); i++ {
				if tokens[i].Symbol == '>' {
					v++
				} else {
					v--
				}
			}
			i--
			if v != 0 {
				prog = append(prog, opcode.Pointer(v))
			}
		case '.':
			prog = append(prog, opcode.Put())
		case '[':
			stack = append(stack, openLoop{index: len(prog), pos: tok.Pos})
			prog = append(prog, opcode.Forward(0))
		case ']':
			if len(stack) == 0 {
				err := diag.Syntax(tok.Pos, ErrUnmatchedClose, "unmatched ']'")
				err.Context.HelpText = "there is no open '[' left for this ']' to close"
				return nil, err
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			here := len(prog)
			prog = append(prog, opcode.Backward(start.index))
			prog[start.index] = opcode.Forward(here)
		case ',':
			// Input is not supported; the symbol is accepted and ignored
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		err := diag.Syntax(open.pos, ErrUnmatchedOpen, "unmatched '['")
		if len(stack) == 1 {
			err.Context.HelpText = "this '[' is never closed"
		} else {
			err.Context.HelpText = fmt.Sprintf("this '[' is never closed (%d loops are left open)", len(stack))
		}
		return nil, err
	}

	return prog, nil
}
