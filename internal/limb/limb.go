// Package limb provides the word-level primitives of the fixed-precision
// floating-point engine: carry-propagating addition and subtraction over limb
// slices, bit shifts, and the high-part-only multiplication used for
// floating-point (not fixed-point) products.
//
// Limb slices are little-endian: x[len(x)-1] is the most significant word.
// All functions operate on caller-provided buffers and never allocate.
package limb

import (
	"math/big"
	"math/bits"
)

// Word is a single limb. It aliases big.Word so that mantissa buffers can be
// handed to math/big without copying.
type Word = big.Word

const (
	// W is the number of bits in a Word.
	W = bits.UintSize

	// MaxLimbs is the largest limb count a context may request. On 64-bit
	// platforms this is 4224 bits of precision.
	MaxLimbs = 66

	// Cap is the capacity of a fixed mantissa buffer. It holds one limb more
	// than MaxLimbs so that guard-limb computations can run at n+1 limbs for
	// every valid context.
	Cap = MaxLimbs + 1

	// TopBit is the most significant bit of a Word.
	TopBit = Word(1) << (W - 1)
)

// Buf is a fixed-capacity mantissa buffer. Its zero value is ready to use and
// it lives on the stack whenever it does not escape.
type Buf [Cap]Word

// WideBuf is large enough for a guard-extended accumulator or a full
// double-width product of two MaxLimbs operands.
type WideBuf [2*Cap + 2]Word

// Clear sets all words of z to zero.
func Clear(z []Word) {
	for i := range z {
		z[i] = 0
	}
}

// IsZero reports whether all words of x are zero.
func IsZero(x []Word) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// Cmp compares x and y as unsigned integers of equal length.
// It returns -1, 0 or +1.
func Cmp(x, y []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// LeadingZeros returns the number of leading zero bits of x, counting from
// the most significant word. It returns len(x)*W when x is zero.
func LeadingZeros(x []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return (len(x)-1-i)*W + bits.LeadingZeros(uint(x[i]))
		}
	}
	return len(x) * W
}

// IsNormalized reports whether the top bit of the most significant word of x
// is set.
func IsNormalized(x []Word) bool {
	return len(x) > 0 && x[len(x)-1]&TopBit != 0
}

// IsPow2 reports whether x is exactly TopBit followed by zero words, i.e. the
// normalized mantissa of a power of two.
func IsPow2(x []Word) bool {
	n := len(x)
	if n == 0 || x[n-1] != TopBit {
		return false
	}
	return IsZero(x[:n-1])
}
