// Completion: 100% - Peephole optimization implemented and working
package compiler

import "github.com/xyproto/bfjit/internal/opcode"

// optimizer.go - Peephole rewrites of common loop idioms
//
// Rewrites happen in place. A matched loop is replaced by its cheaper
// equivalent followed by Nop padding, so the program never changes length
// and every absolute jump target computed during lowering stays valid.
//
// Recognized shapes (tried in this order, first match wins):
//   [-]             -> zero, nop, nop
//   [->(n)+<(n)]    -> addmul n *1, zero, nop x4
//   [>(n)+(k)<(n)-] -> addmul n *k, zero, nop x4
//
// Only these exact shapes are matched. Loops with the same net effect but a
// different order of operations are left as ordinary loops.

// Optimize rewrites recognized loops in one left-to-right pass and returns
// how many loops were rewritten
func Optimize(prog opcode.Program) int {
	rewritten := 0
	for i := range prog {
		if prog[i].Kind != opcode.JumpForward {
			continue
		}
		if rewriteClear(prog, i) || rewriteMoveAdd(prog, i) || rewriteMulAdd(prog, i) {
			rewritten++
		}
	}
	return rewritten
}

// closesAt reports whether the loop opened at i is closed exactly at i+k
func closesAt(prog opcode.Program, i, k int) bool {
	if i+k >= len(prog) {
		return false
	}
	end := prog[i+k]
	return end.Kind == opcode.JumpBackward && end.A == i
}

func is(in opcode.Instruction, kind opcode.Kind, a int) bool {
	return in.Kind == kind && in.A == a
}

// [-]
func rewriteClear(prog opcode.Program, i int) bool {
	if !closesAt(prog, i, 2) || !is(prog[i+1], opcode.AlterValue, -1) {
		return false
	}
	prog[i] = opcode.Zero()
	prog[i+1] = opcode.Skip()
	prog[i+2] = opcode.Skip()
	return true
}

// [->(n)+<(n)]
func rewriteMoveAdd(prog opcode.Program, i int) bool {
	if !closesAt(prog, i, 5) {
		return false
	}
	if !is(prog[i+1], opcode.AlterValue, -1) || !is(prog[i+3], opcode.AlterValue, 1) {
		return false
	}
	if prog[i+2].Kind != opcode.AlterPointer {
		return false
	}
	n := prog[i+2].A
	if !is(prog[i+4], opcode.AlterPointer, -n) {
		return false
	}
	replaceLoop(prog, i, n, 1)
	return true
}

// [>(n)+(k)<(n)-]
func rewriteMulAdd(prog opcode.Program, i int) bool {
	if !closesAt(prog, i, 5) {
		return false
	}
	if prog[i+1].Kind != opcode.AlterPointer || prog[i+2].Kind != opcode.AlterValue {
		return false
	}
	n := prog[i+1].A
	if !is(prog[i+3], opcode.AlterPointer, -n) || !is(prog[i+4], opcode.AlterValue, -1) {
		return false
	}
	// A negative k wraps to its two's complement byte, which is the same
	// multiplier modulo 256.
	k := prog[i+2].A
	replaceLoop(prog, i, n, uint8(k))
	return true
}

func replaceLoop(prog opcode.Program, i, offset int, multiplier uint8) {
	prog[i] = opcode.Mul(offset, multiplier)
	prog[i+1] = opcode.Zero()
	for j := 2; j <= 5; j++ {
		prog[i+j] = opcode.Skip()
	}
}
