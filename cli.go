// Completion: 100% - Subcommand dispatch complete
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xyproto/bfjit/internal/engine"
	"github.com/xyproto/bfjit/internal/jit"
)

// cli.go - Go-like command-line interface for bfjit
//
// Subcommands:
// - bfjit run <file>   (compile and execute, the default)
// - bfjit ir <file>    (print the optimized IR)
// - bfjit asm <file>   (print the generated x86-64 code)
// - bfjit repl         (interactive session on one tape)
// - bfjit <file>       (shorthand for run)
//
// Also supports shebang execution: #!/usr/bin/env bfjit

// CommandContext holds the execution context for a CLI command
type CommandContext struct {
	Args   []string
	Runner *Runner
	Stdout io.Writer
}

var commandNames = []string{"run", "ir", "asm", "repl", "help", "version"}

// RunCLI determines which command to run based on arguments
func RunCLI(ctx *CommandContext) error {
	args := ctx.Args
	if len(args) == 0 {
		return cmdHelp(ctx)
	}

	switch subcmd := args[0]; subcmd {
	case "run":
		if len(args) != 2 {
			return usage("expected: bfjit run <file>")
		}
		return withSource(args[1], ctx.Runner.Run)
	case "ir":
		if len(args) != 2 {
			return usage("expected: bfjit ir <file>")
		}
		return withSource(args[1], ctx.Runner.DumpIR)
	case "asm":
		if len(args) != 2 {
			return usage("expected: bfjit asm <file>")
		}
		return withSource(args[1], ctx.Runner.DumpAsm)
	case "repl":
		return cmdRepl(ctx)
	case "help", "--help", "-h":
		return cmdHelp(ctx)
	case "version", "--version", "-V":
		fmt.Fprintln(ctx.Stdout, versionString)
		return nil
	default:
		if _, err := os.Stat(subcmd); err == nil {
			if len(args) != 1 {
				return usage("expected exactly one program file, got %d arguments", len(args))
			}
			return withSource(subcmd, ctx.Runner.Run)
		}
		if suggestion := engine.Suggest(subcmd, commandNames); suggestion != "" {
			return usage("unknown command or file: %s (did you mean %q?)", subcmd, suggestion)
		}
		return usage("unknown command or file: %s", subcmd)
	}
}

// withSource reads a program file and hands its full contents to fn
func withSource(path string, fn func(file, source string) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return usage("reading program: %w", err)
	}
	return fn(path, string(data))
}

func cmdHelp(ctx *CommandContext) error {
	fmt.Fprintf(ctx.Stdout, `%s - a just-in-time compiler for the eight-symbol tape language

USAGE:
    bfjit [flags] <command> [arguments]

COMMANDS:
    run <file>      Compile and execute a program
    ir <file>       Print the optimized instruction listing
    asm <file>      Print the generated x86-64 code
    repl            Interactive session on a single tape
    help            Show this help message
    version         Show version information

SHORTHAND:
    bfjit <file>    Same as 'bfjit run <file>'
    bfjit -c '+++.' Run inline source

FLAGS:
    -v, -verbose        Show phase timings and emitted instructions
    -backend <name>     %s (default from BFJIT_BACKEND, else jit)
    -trampoline <name>  Output routine for native code: %s
    -tape <cells>       Tape size in cells (default %d)
    -O0                 Skip the peephole optimizer
    -ir                 Print the instruction listing instead of running
    -S                  Print the disassembly instead of running
    -i                  Start the interactive session
    -c <source>         Program text given on the command line
    -watch              Rerun the program file whenever it changes

ENVIRONMENT:
    BFJIT_BACKEND, BFJIT_TAPE_SIZE, BFJIT_TRAMPOLINE, BFJIT_VERBOSE, NO_COLOR
`, versionString,
		strings.Join(backendNames, ", "),
		strings.Join(jit.OutputModeNames, ", "),
		ctx.Runner.Config.TapeSize)
	return nil
}
