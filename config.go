// Completion: 100% - Configuration complete
package main

import (
	"fmt"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/xyproto/bfjit/internal/engine"
	"github.com/xyproto/bfjit/internal/jit"
	"github.com/xyproto/bfjit/internal/vm"
)

// Backend selects how a compiled program is executed
type Backend int

const (
	BackendJIT Backend = iota
	BackendVM
)

var backendNames = []string{"jit", "vm"}

func (b Backend) String() string {
	if int(b) >= 0 && int(b) < len(backendNames) {
		return backendNames[b]
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// Config is everything a run needs. Environment variables give the
// defaults and command-line flags override them.
type Config struct {
	Backend    Backend
	TapeSize   int
	Output     jit.OutputMode
	Verbose    bool
	Color      bool
	NoOptimize bool
}

// configFromEnv reads BFJIT_BACKEND, BFJIT_TAPE_SIZE, BFJIT_TRAMPOLINE,
// BFJIT_VERBOSE and NO_COLOR
func configFromEnv() (Config, error) {
	cfg := Config{
		TapeSize: env.Int("BFJIT_TAPE_SIZE", vm.DefaultTapeSize),
		Verbose:  env.Bool("BFJIT_VERBOSE"),
		Color:    !env.Has("NO_COLOR"),
	}

	var err error
	if cfg.Backend, err = parseBackend(env.Str("BFJIT_BACKEND", "jit")); err != nil {
		return cfg, fmt.Errorf("BFJIT_BACKEND: %w", err)
	}
	if cfg.Output, err = parseOutputMode(env.Str("BFJIT_TRAMPOLINE", "callback")); err != nil {
		return cfg, fmt.Errorf("BFJIT_TRAMPOLINE: %w", err)
	}
	if cfg.TapeSize <= 0 {
		return cfg, fmt.Errorf("BFJIT_TAPE_SIZE: tape size must be positive, got %d", cfg.TapeSize)
	}
	return cfg, nil
}

func parseBackend(s string) (Backend, error) {
	for i, name := range backendNames {
		if strings.EqualFold(s, name) {
			return Backend(i), nil
		}
	}
	return 0, unknownChoice("backend", s, backendNames)
}

func parseOutputMode(s string) (jit.OutputMode, error) {
	mode, err := jit.ParseOutputMode(s)
	if err != nil {
		return 0, unknownChoice("trampoline", s, jit.OutputModeNames)
	}
	return mode, nil
}

func unknownChoice(what, got string, choices []string) error {
	if suggestion := engine.Suggest(strings.ToLower(got), choices); suggestion != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", what, got, suggestion)
	}
	return fmt.Errorf("unknown %s %q (choose one of: %s)", what, got, strings.Join(choices, ", "))
}
