// Completion: 100% - Emitter complete, labels resolved on Assemble
package amd64

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// VerboseMode prints every emitted instruction and its bytes to stderr
var VerboseMode bool

var (
	ErrUnknownRegister = errors.New("unknown register")
	ErrRegisterSize    = errors.New("register has the wrong size for this instruction")
	ErrImmediateRange  = errors.New("immediate does not fit the instruction")
	ErrDisplacement    = errors.New("displacement does not fit in 32 bits")
	ErrUnboundLabel    = errors.New("label was never bound")
	ErrLabelRebound    = errors.New("label is already bound")
	ErrUnknownLabel    = errors.New("label was not created by this emitter")
)

// Label is a position in the code that jumps can target before it is known
type Label int

// fixup is a rel32 field that must be patched once its label is bound
type fixup struct {
	at    int // Offset of the rel32 field
	label Label
}

// Out accumulates machine code for one routine
type Out struct {
	buf    bytes.Buffer
	labels []int // Bound offset per label, -1 while unbound
	fixups []fixup
}

// NewOut creates an empty emitter
func NewOut() *Out {
	return &Out{}
}

// Write appends one byte
func (o *Out) Write(b uint8) {
	o.buf.WriteByte(b)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, " %02x", b)
	}
}

// WriteUnsigned appends a little-endian 32-bit value
func (o *Out) WriteUnsigned(i uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], i)
	for _, x := range b {
		o.Write(x)
	}
}

// Write8u appends a little-endian 64-bit value
func (o *Out) Write8u(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	for _, x := range b {
		o.Write(x)
	}
}

// Len returns the number of bytes emitted so far
func (o *Out) Len() int {
	return o.buf.Len()
}

// NewLabel creates an unbound label
func (o *Out) NewLabel() Label {
	o.labels = append(o.labels, -1)
	return Label(len(o.labels) - 1)
}

// Bind places the label at the current position
func (o *Out) Bind(l Label) error {
	if int(l) < 0 || int(l) >= len(o.labels) {
		return fmt.Errorf("%w: %d", ErrUnknownLabel, l)
	}
	if o.labels[l] >= 0 {
		return fmt.Errorf("%w: %d at offset %d", ErrLabelRebound, l, o.labels[l])
	}
	o.labels[l] = o.buf.Len()
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "L%d:\n", l)
	}
	return nil
}

// rel32 emits a placeholder that Assemble patches with the distance to l
func (o *Out) rel32(l Label) error {
	if int(l) < 0 || int(l) >= len(o.labels) {
		return fmt.Errorf("%w: %d", ErrUnknownLabel, l)
	}
	o.fixups = append(o.fixups, fixup{at: o.buf.Len(), label: l})
	o.WriteUnsigned(0)
	return nil
}

// Assemble resolves every label reference and returns the finished code
func (o *Out) Assemble() ([]byte, error) {
	code := bytes.Clone(o.buf.Bytes())
	for _, f := range o.fixups {
		target := o.labels[f.label]
		if target < 0 {
			return nil, fmt.Errorf("%w: L%d referenced at offset %d", ErrUnboundLabel, f.label, f.at)
		}
		rel := int64(target) - int64(f.at+4)
		binary.LittleEndian.PutUint32(code[f.at:], uint32(int32(rel)))
	}
	return code, nil
}

func (o *Out) reg(name string, size int) (Register, error) {
	r, ok := GetRegister(name)
	if !ok {
		return Register{}, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
	}
	if r.Size != size {
		return Register{}, fmt.Errorf("%w: %s is %d-bit, need %d-bit", ErrRegisterSize, name, r.Size, size)
	}
	return r, nil
}

func (o *Out) verbose(format string, args ...any) {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, format+":", args...)
	}
}

func (o *Out) endVerbose() {
	if VerboseMode {
		fmt.Fprintln(os.Stderr)
	}
}
