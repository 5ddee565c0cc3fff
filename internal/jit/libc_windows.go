// Completion: 100% - Platform-specific module complete
//go:build windows

package jit

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
)

var libc struct {
	once    sync.Once
	putchar *windows.Proc
	fflush  *windows.Proc
	err     error
}

func loadLibc() error {
	libc.once.Do(func() {
		dll, err := windows.LoadDLL("msvcrt.dll")
		if err != nil {
			libc.err = fmt.Errorf("loading msvcrt.dll: %w", err)
			return
		}
		if libc.putchar, err = dll.FindProc("putchar"); err != nil {
			libc.err = fmt.Errorf("resolving putchar: %w", err)
			return
		}
		if libc.fflush, err = dll.FindProc("fflush"); err != nil {
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
	return libc.putchar.Addr(), nil
}

// flushLibc pushes anything putchar buffered out to the console
func flushLibc() error {
	if err := loadLibc(); err != nil {
		return err
	}
	if r, _, _ := libc.fflush.Call(0); int32(r) != 0 {
		return fmt.Errorf("fflush returned %d", int32(r))
	}
	return nil
}
