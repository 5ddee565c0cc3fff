// Completion: 100% - Platform-specific module complete
//go:build !windows

package execmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapAllocator maps anonymous private pages
type mmapAllocator struct{}

// DefaultAllocator returns the allocator for the running platform
func DefaultAllocator() PageAllocator {
	return mmapAllocator{}
}

func (mmapAllocator) PageSize() int {
	return unix.Getpagesize()
}

func (mmapAllocator) Alloc(size int) ([]byte, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return mem, nil
}

func (mmapAllocator) Protect(mem []byte) error {
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("mprotect failed: %w", err)
	}
	return nil
}

func (mmapAllocator) Free(mem []byte) error {
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap failed: %w", err)
	}
	return nil
}
