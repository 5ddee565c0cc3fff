// Completion: 100% - Interactive session complete
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/xyproto/bfjit/internal/compiler"
	"github.com/xyproto/bfjit/internal/diag"
	"github.com/xyproto/bfjit/internal/vm"
)

const (
	historyFile = ".bfjit_history"
	promptMain  = "bf> "
	promptCont  = "... "
)

// session is the state kept between REPL inputs. Every input runs on the
// same tape and continues from where the cursor was left, so the
// interpreter is used regardless of the configured backend.
type session struct {
	runner  *Runner
	out     io.Writer
	machine *vm.Machine
}

func newSession(r *Runner, out io.Writer) *session {
	return &session{runner: r, out: out, machine: vm.New(r.Config.TapeSize, out)}
}

// eval handles one complete input. It returns true when the session should end.
func (s *session) eval(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return false, nil
	case ":quit", ":q":
		return true, nil
	case ":reset":
		s.machine = vm.New(s.runner.Config.TapeSize, s.out)
		return false, nil
	case ":tape":
		fmt.Fprintln(s.out, s.describeTape())
		return false, nil
	}
	if strings.HasPrefix(strings.TrimSpace(input), ":") {
		return false, fmt.Errorf("unknown command %s (try :tape, :reset or :quit)", strings.TrimSpace(input))
	}

	prog, err := s.runner.Compile("<repl>", input)
	if err != nil {
		return false, err
	}
	if err := s.machine.Run(prog); err != nil {
		if errors.Is(err, vm.ErrTapeFault) {
			s.machine = vm.New(s.runner.Config.TapeSize, s.out)
			return false, fmt.Errorf("%w (tape was reset)", err)
		}
		return false, err
	}
	return false, nil
}

// describeTape shows the cells around the cursor, the cursor cell in brackets
func (s *session) describeTape() string {
	tape, cursor := s.machine.Tape(), s.machine.Cursor()
	lo := max(0, cursor-8)
	hi := min(len(tape), cursor+8)

	var sb strings.Builder
	fmt.Fprintf(&sb, "cursor %d:", cursor)
	for i := lo; i < hi; i++ {
		if i == cursor {
			fmt.Fprintf(&sb, " [%d]", tape[i])
		} else {
			fmt.Fprintf(&sb, " %d", tape[i])
		}
	}
	return sb.String()
}

// needsMore reports whether the input only failed because a loop is still open
func needsMore(input string) bool {
	_, err := compiler.Compile(input)
	return errors.Is(err, compiler.ErrUnmatchedOpen)
}

func cmdRepl(ctx *CommandContext) error {
	fmt.Fprintf(ctx.Stdout, "%s (type :quit to exit)\n", versionString)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(ctx.Runner, ctx.Stdout)
	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(ctx.Stdout)
			return nil
		}
		done, err := s.eval(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, render(err, ctx.Runner.Config.Color))
		}
		if done {
			return nil
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
	}
}

// readInput keeps prompting while a loop is left open
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

// render formats err for the terminal, with source context for diagnostics
func render(err error, color bool) string {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.Format(color)
	}
	return "error: " + err.Error()
}
