// Completion: 100% - Output trampolines complete
package jit

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
)

// OutputMode selects the routine generated code calls for every put
type OutputMode int

const (
	// CallbackOutput calls back into Go and writes to an io.Writer
	CallbackOutput OutputMode = iota
	// LibcOutput calls putchar from the C library directly
	LibcOutput
)

// OutputModeNames lists the accepted names, in declaration order
var OutputModeNames = []string{"callback", "libc"}

func (m OutputMode) String() string {
	if int(m) >= 0 && int(m) < len(OutputModeNames) {
		return OutputModeNames[m]
	}
	return fmt.Sprintf("output(%d)", int(m))
}

// ParseOutputMode accepts the names in OutputModeNames, case-insensitively
func ParseOutputMode(s string) (OutputMode, error) {
	for i, name := range OutputModeNames {
		if strings.EqualFold(s, name) {
			return OutputMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown output mode %q", s)
}

// The Go callback is created once per process. purego keeps a fixed number
// of callback slots, so the single trampoline dispatches to whatever writer
// the current run installed. runMu serializes runs that use it.
var (
	callbackOnce sync.Once
	callbackAddr uintptr

	runMu   sync.Mutex
	sink    io.Writer
	sinkErr error
	char    [1]byte
)

// writerTrampoline returns the C-ABI address of putByte
func writerTrampoline() uintptr {
	callbackOnce.Do(func() {
		callbackAddr = purego.NewCallback(putByte)
	})
	return callbackAddr
}

// putByte runs on the thread executing generated code. After the first
// write error the rest of the output is dropped and the error is reported
// when the run returns.
func putByte(c uintptr) uintptr {
	if sink == nil || sinkErr != nil {
		return 0
	}
	char[0] = byte(c)
	if _, err := sink.Write(char[:]); err != nil {
		sinkErr = err
	}
	return 0
}

// attach installs w as the callback target for one run and returns the
// function that detaches it and reports the first write error
func attach(w io.Writer) func() error {
	runMu.Lock()
	sink, sinkErr = w, nil
	return func() error {
		err := sinkErr
		sink, sinkErr = nil, nil
		runMu.Unlock()
		return err
	}
}
