// Completion: 100% - Loader complete, W^X enforced on every platform
package execmem

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/xyproto/bfjit/internal/diag"
)

// ErrEmptyCode is returned when there is nothing to load
var ErrEmptyCode = errors.New("no code to load")

// VerboseMode reports every mapping and unmapping to stderr
var VerboseMode bool

// PageAllocator is the platform layer under Load. Memory handed out by
// Alloc is readable and writable but not executable. Protect turns the
// whole allocation read+execute. A page is never writable and executable
// at the same time.
type PageAllocator interface {
	PageSize() int
	Alloc(size int) ([]byte, error)
	Protect(mem []byte) error
	Free(mem []byte) error
}

// Region is a block of executable pages holding one generated routine
type Region struct {
	mem       []byte
	codeSize  int
	allocator PageAllocator
}

// Load copies code into fresh executable pages from the host allocator
func Load(code []byte) (*Region, error) {
	return LoadWith(DefaultAllocator(), code)
}

// LoadWith copies code into pages from a: allocate writable, copy, then
// switch to read+execute. Allocation and protection failures are fatal
// resource errors and leave nothing mapped.
func LoadWith(a PageAllocator, code []byte) (*Region, error) {
	if len(code) == 0 {
		return nil, diag.Internal(ErrEmptyCode, "loading generated code")
	}

	pageSize := a.PageSize()
	if pageSize <= 0 {
		return nil, diag.Resource(nil, "invalid page size %d", pageSize)
	}
	allocSize := ((len(code) + pageSize - 1) / pageSize) * pageSize

	mem, err := a.Alloc(allocSize)
	if err != nil {
		return nil, diag.Resource(err, "allocating %d bytes of code memory", allocSize)
	}
	if len(mem) < allocSize {
		a.Free(mem)
		return nil, diag.Resource(nil, "allocator returned %d bytes, asked for %d", len(mem), allocSize)
	}
	mem = mem[:allocSize]

	copy(mem, code)

	if err := a.Protect(mem); err != nil {
		a.Free(mem)
		return nil, diag.Resource(err, "making %d bytes of code executable", allocSize)
	}

	r := &Region{mem: mem, codeSize: len(code), allocator: a}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "execmem: %d bytes in %d pages at 0x%x\n", len(code), allocSize/pageSize, r.Entry())
	}
	return r, nil
}

// Entry is the address of the first instruction, or 0 once freed
func (r *Region) Entry() uintptr {
	if r.mem == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(&r.mem[0]))
}

// Size is the mapped size, a whole number of pages
func (r *Region) Size() int {
	return len(r.mem)
}

// CodeSize is the number of bytes that were loaded
func (r *Region) CodeSize() int {
	return r.codeSize
}

// Code returns the loaded bytes. The memory is read-only; writing to it faults.
func (r *Region) Code() []byte {
	if r.mem == nil {
		return nil
	}
	return r.mem[:r.codeSize]
}

// Free unmaps the region. Calling it again is a no-op.
func (r *Region) Free() error {
	if r.mem == nil {
		return nil
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "execmem: freeing %d bytes at 0x%x\n", len(r.mem), r.Entry())
	}
	err := r.allocator.Free(r.mem)
	r.mem = nil
	if err != nil {
		return diag.Resource(err, "releasing code memory")
	}
	return nil
}
