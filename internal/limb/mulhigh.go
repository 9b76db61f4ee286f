package limb

import "math/bits"

// ─────────────────────────────────────────────────────────────────────────────
// High-Part-Only Multiplication
// ─────────────────────────────────────────────────────────────────────────────
//
// For n-limb operands only the partial products x[i]*y[j] with i+j >= n-1
// are formed. Their sum, divided by B^(n-1), fits in n+1 words; the top n
// words after renormalization are the result. The omitted partial products
// are worth less than n units of the last place before renormalization, so
// the result is never larger than the true product and trails it by less
// than (n+1)<<shift ulp.
//
// The same truncated sum is computed by every variant (generic, square,
// closed forms), so they agree bit for bit.

// MulHigh sets z to the normalized high part of x*y, where x, y and z all
// have len(z) words and x, y are normalized. It returns the left shift (0, 1
// or 2) applied during renormalization; the caller subtracts it from the
// exponent sum. z may alias x or y.
func MulHigh(z, x, y []Word) uint {
	n := len(z)
	var t [Cap + 1]Word
	tt := t[:n+1]
	for i := 0; i < n; i++ {
		tt[i+1] = AddMulW(tt[:i+1], y[n-1-i:], x[i])
	}
	return finishHigh(z, tt)
}

// SqrHigh sets z to the normalized high part of x*x. It computes the same
// truncated sum as MulHigh(z, x, x) but forms each cross product once.
func SqrHigh(z, x []Word) uint {
	n := len(z)
	var t [Cap + 1]Word
	tt := t[:n+1]

	// Cross products x[i]*x[j], i < j, i+j >= n-1.
	for i := 0; i < n-1; i++ {
		j0 := max(i+1, n-1-i)
		p0 := i + j0 - (n - 1)
		tt[i+1] = AddMulW(tt[p0:i+1], x[j0:], x[i])
	}
	Shl(tt, tt, 1)

	// Diagonal squares x[i]^2, 2i >= n-1.
	for i := n / 2; i < n; i++ {
		p := 2*i - (n - 1)
		hi, lo := bits.Mul(uint(x[i]), uint(x[i]))
		s, c := bits.Add(uint(tt[p]), lo, 0)
		tt[p] = Word(s)
		s, c = bits.Add(uint(tt[p+1]), hi, c)
		tt[p+1] = Word(s)
		if c != 0 {
			AddW(tt[p+2:], tt[p+2:], Word(c))
		}
	}
	return finishHigh(z, tt)
}

// finishHigh renormalizes the n+1 word truncated product t into the n words
// of z and returns the applied left shift.
func finishHigh(z, t []Word) uint {
	n := len(z)
	s := uint(bits.LeadingZeros(uint(t[n])))
	if s == 0 {
		copy(z, t[1:])
		return 0
	}
	for k := 0; k < n; k++ {
		z[k] = t[k+1]<<s | t[k]>>(W-s)
	}
	return s
}

// MulHigh1 is the single-limb closed form of MulHigh.
func MulHigh1(x, y Word) (z Word, shift uint) {
	hi, lo := bits.Mul(uint(x), uint(y))
	s := uint(bits.LeadingZeros(hi))
	return Word(hi<<s | lo>>(W-s)), s
}

// MulHigh2 is the two-limb closed form of MulHigh. Operands and result are
// given most significant word first.
func MulHigh2(x1, x0, y1, y0 Word) (z1, z0 Word, shift uint) {
	a1, a0 := bits.Mul(uint(x0), uint(y1))
	b1, b0 := bits.Mul(uint(x1), uint(y0))
	c1, c0 := bits.Mul(uint(x1), uint(y1))

	t0, k := bits.Add(a0, b0, 0)
	t1, k1 := bits.Add(a1, b1, k)
	t1, k2 := bits.Add(t1, c0, 0)
	t2 := c1 + k1 + k2

	s := uint(bits.LeadingZeros(t2))
	z1 = Word(t2<<s | t1>>(W-s))
	z0 = Word(t1<<s | t0>>(W-s))
	return z1, z0, s
}

// SqrHigh2 is the two-limb closed form of SqrHigh.
func SqrHigh2(x1, x0 Word) (z1, z0 Word, shift uint) {
	a1, a0 := bits.Mul(uint(x0), uint(x1))
	c1, c0 := bits.Mul(uint(x1), uint(x1))

	// Double the single cross product.
	d2 := a1 >> (W - 1)
	d1 := a1<<1 | a0>>(W-1)
	d0 := a0 << 1

	t0 := d0
	t1, k := bits.Add(d1, c0, 0)
	t2 := c1 + d2 + k

	s := uint(bits.LeadingZeros(t2))
	z1 = Word(t2<<s | t1>>(W-s))
	z0 = Word(t1<<s | t0>>(W-s))
	return z1, z0, s
}
