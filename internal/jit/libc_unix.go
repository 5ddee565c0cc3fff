// Completion: 100% - Platform-specific module complete
//go:build !windows

package jit

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var libc struct {
	once    sync.Once
	putchar uintptr
	fflush  uintptr
	err     error
}

func libcPath() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	case "freebsd":
		return "libc.so.7"
	default:
		return "libc.so.6"
	}
}

func loadLibc() error {
	libc.once.Do(func() {
		handle, err := purego.Dlopen(libcPath(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			libc.err = fmt.Errorf("loading %s: %w", libcPath(), err)
			return
		}
		if libc.putchar, err = purego.Dlsym(handle, "putchar"); err != nil {
			libc.err = fmt.Errorf("resolving putchar: %w", err)
			return
		}
		if libc.fflush, err = purego.Dlsym(handle, "fflush"); err != nil {
			libc.err = fmt.Errorf("resolving fflush: %w", err)
		}
	})
	return libc.err
}

// libcTrampoline returns the address of putchar
func libcTrampoline() (uintptr, error) {
	if err := loadLibc(); err != nil {
		return 0, err
	}
	return libc.putchar, nil
}

// flushLibc pushes anything putchar buffered out to the file descriptor
func flushLibc() error {
	if err := loadLibc(); err != nil {
		return err
	}
	// fflush(NULL) flushes every open stream
	if r, _, _ := purego.SyscallN(libc.fflush, 0); int32(r) != 0 {
		return fmt.Errorf("fflush returned %d", int32(r))
	}
	return nil
}
