// Completion: 100% - Platform-specific module complete
//go:build windows

package execmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// virtualAllocator commits private pages with VirtualAlloc
type virtualAllocator struct{}

// DefaultAllocator returns the allocator for the running platform
func DefaultAllocator() PageAllocator {
	return virtualAllocator{}
}

func (virtualAllocator) PageSize() int {
	return windows.Getpagesize()
}

func (virtualAllocator) Alloc(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("VirtualAlloc failed: %w", err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func (virtualAllocator) Protect(mem []byte) error {
	var old uint32
	addr := uintptr(unsafe.Pointer(&mem[0]))
	if err := windows.VirtualProtect(addr, uintptr(len(mem)), windows.PAGE_EXECUTE_READ, &old); err != nil {
		return fmt.Errorf("VirtualProtect failed: %w", err)
	}
	return nil
}

func (virtualAllocator) Free(mem []byte) error {
	addr := uintptr(unsafe.Pointer(&mem[0]))
	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("VirtualFree failed: %w", err)
	}
	return nil
}
