package limb

import "math/bits"

// ─────────────────────────────────────────────────────────────────────────────
// Vector Carry Chains
// ─────────────────────────────────────────────────────────────────────────────

// Add computes z = x + y over len(z) words and returns the carry out of the
// top word. x and y must have at least len(z) words. z may alias x or y.
func Add(z, x, y []Word) Word {
	if len(z) == 0 {
		return 0
	}
	return addVV(z, x, y)
}

// Sub computes z = x - y over len(z) words and returns the borrow out of the
// top word. z may alias x or y.
func Sub(z, x, y []Word) Word {
	if len(z) == 0 {
		return 0
	}
	return subVV(z, x, y)
}

// AddMulW computes z += x*y where y is a single word and returns the carry
// word. x must have at least len(z) words.
func AddMulW(z, x []Word, y Word) Word {
	if len(z) == 0 {
		return 0
	}
	return addMulVVW(z, x, y)
}

// AddW computes z = x + y where y is a single word, and returns the carry.
func AddW(z, x []Word, y Word) Word {
	c := uint(y)
	for i := range z {
		var s uint
		s, c = bits.Add(uint(x[i]), c, 0)
		z[i] = Word(s)
	}
	return Word(c)
}

// SubW computes z = x - y where y is a single word, and returns the borrow.
func SubW(z, x []Word, y Word) Word {
	b := uint(y)
	for i := range z {
		var d uint
		d, b = bits.Sub(uint(x[i]), b, 0)
		z[i] = Word(d)
	}
	return Word(b)
}

// Neg sets z to the two's complement negation of x modulo 2^(len(z)*W).
func Neg(z, x []Word) {
	c := uint(1)
	for i := range z {
		var s uint
		s, c = bits.Add(^uint(x[i]), 0, c)
		z[i] = Word(s)
	}
}

// MulW computes z = x*y where y is a single word and returns the high word.
func MulW(z, x []Word, y Word) Word {
	var c uint
	for i := range z {
		hi, lo := bits.Mul(uint(x[i]), uint(y))
		var cc uint
		lo, cc = bits.Add(lo, c, 0)
		z[i] = Word(lo)
		c = hi + cc
	}
	return Word(c)
}

// ─────────────────────────────────────────────────────────────────────────────
// Shifts
// ─────────────────────────────────────────────────────────────────────────────

// Shl computes z = x << s for 0 <= s < W and returns the bits shifted out of
// the top word (in the low bits of the result). z may alias x.
func Shl(z, x []Word, s uint) Word {
	n := len(z)
	if n == 0 {
		return 0
	}
	if s == 0 {
		copy(z, x[:n])
		return 0
	}
	ŝ := W - s
	w1 := x[n-1]
	c := w1 >> ŝ
	for i := n - 1; i > 0; i-- {
		w := w1
		w1 = x[i-1]
		z[i] = w<<s | w1>>ŝ
	}
	z[0] = w1 << s
	return c
}

// Shr computes z = x >> s for 0 <= s < W and returns the bits shifted out of
// the bottom word (in the high bits of the result). z may alias x.
func Shr(z, x []Word, s uint) Word {
	n := len(z)
	if n == 0 {
		return 0
	}
	if s == 0 {
		copy(z, x[:n])
		return 0
	}
	ŝ := W - s
	w1 := x[0]
	c := w1 << ŝ
	for i := 0; i < n-1; i++ {
		w := w1
		w1 = x[i+1]
		z[i] = w>>s | w1<<ŝ
	}
	z[n-1] = w1 >> s
	return c
}

// ShrN computes z = floor(x / 2^shift) for an arbitrary shift, with z and x
// of equal length. Bits shifted below word 0 are discarded. z may alias x.
func ShrN(z, x []Word, shift uint) {
	n := len(z)
	q := int(shift / W)
	if q >= n {
		Clear(z)
		return
	}
	r := shift % W
	if r == 0 {
		for i := 0; i < n-q; i++ {
			z[i] = x[i+q]
		}
	} else {
		for i := 0; i < n-q-1; i++ {
			z[i] = x[i+q]>>r | x[i+q+1]<<(W-r)
		}
		z[n-q-1] = x[n-1] >> r
	}
	Clear(z[n-q:])
}

// ShlN computes z = x << shift modulo 2^(len(z)*W) for an arbitrary shift,
// with z and x of equal length. z may alias x.
func ShlN(z, x []Word, shift uint) {
	n := len(z)
	q := int(shift / W)
	if q >= n {
		Clear(z)
		return
	}
	r := shift % W
	if r == 0 {
		for i := n - 1; i >= q; i-- {
			z[i] = x[i-q]
		}
	} else {
		for i := n - 1; i > q; i-- {
			z[i] = x[i-q]<<r | x[i-q-1]>>(W-r)
		}
		z[q] = x[0] << r
	}
	Clear(z[:q])
}

// Normalize shifts x left in place until its top bit is set and returns the
// shift applied. x must be non-zero.
func Normalize(x []Word) uint {
	lz := uint(LeadingZeros(x))
	if lz != 0 {
		ShlN(x, x, lz)
	}
	return lz
}
