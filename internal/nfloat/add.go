package nfloat

import (
	"math/bits"

	"github.com/agbru/nfloat/internal/limb"
)

// wide is a mantissa buffer with one guard limb beyond the largest context,
// including guard contexts.
type wide [limb.Cap + 1]Word

// Add sets z to x + y.
func (c *Context) Add(z, x, y *Float) Status {
	return c.add(z, x, y, y.neg)
}

// Sub sets z to x - y.
func (c *Context) Sub(z, x, y *Float) Status {
	return c.add(z, x, y, !y.neg)
}

// add sets z to x + y where yneg replaces the sign of y.
//
// The operand with the larger exponent is the primary one; the secondary
// mantissa is shifted right by the exponent difference delta and bits
// shifted out are discarded. Same-sign sums are therefore truncated toward
// zero. Effective subtractions are exact for delta 0 and 1, where
// cancellation can remove many leading bits, and for delta >= 2 lose at
// most the discarded bits of the secondary operand while the result needs
// at most one bit of renormalization.
func (c *Context) add(z, x, y *Float, yneg bool) Status {
	if x.isSpecial() || y.isSpecial() {
		return c.addSpecial(z, x, y, yneg)
	}
	a, b := x, y
	aneg, bneg := x.neg, yneg
	if a.exp < b.exp {
		a, b = b, a
		aneg, bneg = bneg, aneg
	}
	delta := uint64(a.exp - b.exp)
	if delta >= uint64(c.n*W) {
		c.Set(z, a)
		z.neg = aneg
		return Success
	}
	switch c.n {
	case 1:
		return c.add1(z, a, b, aneg, bneg, uint(delta))
	case 2:
		return c.add2(z, a, b, aneg, bneg, uint(delta))
	case 3:
		return c.add3(z, a, b, aneg, bneg, uint(delta))
	case 4:
		return c.add4(z, a, b, aneg, bneg, uint(delta))
	default:
		var t wide
		return c.addN(z, a, b, aneg, bneg, uint(delta), t[:])
	}
}

func (c *Context) addSpecial(z, x, y *Float, yneg bool) Status {
	switch {
	case x.IsNaN() || y.IsNaN():
		return c.nan(z, Unable)
	case x.IsInf() && y.IsInf():
		if x.neg != yneg {
			return c.nan(z, Unable)
		}
		z.setInf(x.neg)
		return Success
	case x.IsInf():
		z.setInf(x.neg)
		return Success
	case y.IsInf():
		z.setInf(yneg)
		return Success
	case y.IsZero():
		c.Set(z, x)
		return Success
	default: // x is zero
		c.Set(z, y)
		if !y.IsZero() {
			z.neg = yneg
		}
		return Success
	}
}

// addN is the general path. t must hold at least n+1 words.
func (c *Context) addN(z, a, b *Float, aneg, bneg bool, delta uint, t []Word) Status {
	n := c.n
	exp := a.exp
	zd := z.d[:n]

	if aneg == bneg {
		limb.ShrN(t[:n], b.d[:n], delta)
		if limb.Add(zd, a.d[:n], t[:n]) != 0 {
			limb.Shr(zd, zd, 1)
			zd[n-1] |= limb.TopBit
			exp++
		}
		return c.finite(z, aneg, exp)
	}

	switch delta {
	case 0:
		r := limb.Cmp(a.d[:n], b.d[:n])
		if r == 0 {
			z.setZero()
			return Success
		}
		if r < 0 {
			a, b = b, a
			aneg = bneg
		}
		limb.Sub(zd, a.d[:n], b.d[:n])
		lz := limb.Normalize(zd)
		return c.finite(z, aneg, exp-int64(lz))

	case 1:
		// Exact (n+1)-limb difference; the guard limb keeps the bit of b
		// shifted out by the alignment.
		var g wide
		gd := g[:n+1]
		copy(gd[1:], a.d[:n])
		t[0] = b.d[0] << (W - 1)
		limb.Shr(t[1:n+1], b.d[:n], 1)
		limb.Sub(gd, gd, t[:n+1])
		lz := limb.Normalize(gd)
		copy(zd, gd[1:])
		return c.finite(z, aneg, exp-int64(lz))

	default:
		limb.ShrN(t[:n], b.d[:n], delta)
		limb.Sub(zd, a.d[:n], t[:n])
		if zd[n-1]&limb.TopBit == 0 {
			limb.Shl(zd, zd, 1)
			exp--
		}
		return c.finite(z, aneg, exp)
	}
}

// add1 is addN for single-limb contexts.
func (c *Context) add1(z, a, b *Float, aneg, bneg bool, delta uint) Status {
	x, y := uint(a.d[0]), uint(b.d[0])
	exp := a.exp

	if aneg == bneg {
		s, carry := bits.Add(x, y>>delta, 0)
		if carry != 0 {
			s = s>>1 | 1<<(W-1)
			exp++
		}
		z.d[0] = Word(s)
		return c.finite(z, aneg, exp)
	}

	switch delta {
	case 0:
		if x == y {
			z.setZero()
			return Success
		}
		if x < y {
			x, y = y, x
			aneg = bneg
		}
		r := x - y
		lz := bits.LeadingZeros(r)
		z.d[0] = Word(r << lz)
		return c.finite(z, aneg, exp-int64(lz))

	case 1:
		lo, borrow := bits.Sub(0, y<<(W-1), 0)
		hi, _ := bits.Sub(x, y>>1, borrow)
		var lz int
		if hi != 0 {
			lz = bits.LeadingZeros(hi)
			z.d[0] = Word(hi<<lz | lo>>(W-lz))
		} else {
			l := bits.LeadingZeros(lo)
			z.d[0] = Word(lo << l)
			lz = W + l
		}
		return c.finite(z, aneg, exp-int64(lz))

	default:
		r := x - y>>delta
		if r&(1<<(W-1)) == 0 {
			r <<= 1
			exp--
		}
		z.d[0] = Word(r)
		return c.finite(z, aneg, exp)
	}
}

// add2 is addN for two-limb contexts.
func (c *Context) add2(z, a, b *Float, aneg, bneg bool, delta uint) Status {
	x1, x0 := uint(a.d[1]), uint(a.d[0])
	y1, y0 := uint(b.d[1]), uint(b.d[0])
	exp := a.exp

	if aneg == bneg {
		t1, t0 := shr2(y1, y0, delta)
		s0, carry := bits.Add(x0, t0, 0)
		s1, carry := bits.Add(x1, t1, carry)
		if carry != 0 {
			s0 = s0>>1 | s1<<(W-1)
			s1 = s1>>1 | 1<<(W-1)
			exp++
		}
		z.d[1], z.d[0] = Word(s1), Word(s0)
		return c.finite(z, aneg, exp)
	}

	switch delta {
	case 0:
		if x1 == y1 && x0 == y0 {
			z.setZero()
			return Success
		}
		if x1 < y1 || (x1 == y1 && x0 < y0) {
			x1, x0, y1, y0 = y1, y0, x1, x0
			aneg = bneg
		}
		r0, borrow := bits.Sub(x0, y0, 0)
		r1, _ := bits.Sub(x1, y1, borrow)
		var lz int
		if r1 != 0 {
			lz = bits.LeadingZeros(r1)
			r1 = r1<<lz | r0>>(W-lz)
			r0 <<= lz
		} else {
			l := bits.LeadingZeros(r0)
			r1, r0 = r0<<l, 0
			lz = W + l
		}
		z.d[1], z.d[0] = Word(r1), Word(r0)
		return c.finite(z, aneg, exp-int64(lz))

	case 1:
		// Three words: (x1, x0, 0) - (y1, y0, 0) >> 1.
		t2, t1, t0 := y1>>1, y0>>1|y1<<(W-1), y0<<(W-1)
		r0, borrow := bits.Sub(0, t0, 0)
		r1, borrow := bits.Sub(x0, t1, borrow)
		r2, _ := bits.Sub(x1, t2, borrow)
		var lz int
		var z1, z0 uint
		switch {
		case r2 != 0:
			l := bits.LeadingZeros(r2)
			z1, z0 = r2<<l|r1>>(W-l), r1<<l|r0>>(W-l)
			lz = l
		case r1 != 0:
			l := bits.LeadingZeros(r1)
			z1, z0 = r1<<l|r0>>(W-l), r0<<l
			lz = W + l
		default:
			l := bits.LeadingZeros(r0)
			z1, z0 = r0<<l, 0
			lz = 2*W + l
		}
		z.d[1], z.d[0] = Word(z1), Word(z0)
		return c.finite(z, aneg, exp-int64(lz))

	default:
		t1, t0 := shr2(y1, y0, delta)
		r0, borrow := bits.Sub(x0, t0, 0)
		r1, _ := bits.Sub(x1, t1, borrow)
		if r1&(1<<(W-1)) == 0 {
			r1 = r1<<1 | r0>>(W-1)
			r0 <<= 1
			exp--
		}
		z.d[1], z.d[0] = Word(r1), Word(r0)
		return c.finite(z, aneg, exp)
	}
}

// add3 is addN for three-limb contexts.
func (c *Context) add3(z, a, b *Float, aneg, bneg bool, delta uint) Status {
	x2, x1, x0 := uint(a.d[2]), uint(a.d[1]), uint(a.d[0])
	y2, y1, y0 := uint(b.d[2]), uint(b.d[1]), uint(b.d[0])
	exp := a.exp

	if aneg == bneg {
		t2, t1, t0 := shr3(y2, y1, y0, delta)
		s0, carry := bits.Add(x0, t0, 0)
		s1, carry := bits.Add(x1, t1, carry)
		s2, carry := bits.Add(x2, t2, carry)
		if carry != 0 {
			s0 = s0>>1 | s1<<(W-1)
			s1 = s1>>1 | s2<<(W-1)
			s2 = s2>>1 | 1<<(W-1)
			exp++
		}
		z.d[2], z.d[1], z.d[0] = Word(s2), Word(s1), Word(s0)
		return c.finite(z, aneg, exp)
	}

	var r2, r1, r0 uint
	var lz int
	switch delta {
	case 0:
		if x2 == y2 && x1 == y1 && x0 == y0 {
			z.setZero()
			return Success
		}
		if x2 < y2 || (x2 == y2 && (x1 < y1 || (x1 == y1 && x0 < y0))) {
			x2, x1, x0, y2, y1, y0 = y2, y1, y0, x2, x1, x0
			aneg = bneg
		}
		d0, borrow := bits.Sub(x0, y0, 0)
		d1, borrow := bits.Sub(x1, y1, borrow)
		d2, _ := bits.Sub(x2, y2, borrow)
		r2, r1, r0, _, lz = norm5(d2, d1, d0, 0, 0)

	case 1:
		// Four words: (x2, x1, x0, 0) - (y2, y1, y0, 0) >> 1.
		t3, t2, t1, t0 := y2>>1, y1>>1|y2<<(W-1), y0>>1|y1<<(W-1), y0<<(W-1)
		d0, borrow := bits.Sub(0, t0, 0)
		d1, borrow := bits.Sub(x0, t1, borrow)
		d2, borrow := bits.Sub(x1, t2, borrow)
		d3, _ := bits.Sub(x2, t3, borrow)
		r2, r1, r0, _, lz = norm5(d3, d2, d1, d0, 0)

	default:
		t2, t1, t0 := shr3(y2, y1, y0, delta)
		d0, borrow := bits.Sub(x0, t0, 0)
		d1, borrow := bits.Sub(x1, t1, borrow)
		d2, _ := bits.Sub(x2, t2, borrow)
		r2, r1, r0 = d2, d1, d0
		if d2&(1<<(W-1)) == 0 {
			r2, r1, r0 = d2<<1|d1>>(W-1), d1<<1|d0>>(W-1), d0<<1
			lz = 1
		}
	}
	z.d[2], z.d[1], z.d[0] = Word(r2), Word(r1), Word(r0)
	return c.finite(z, aneg, exp-int64(lz))
}

// add4 is addN for four-limb contexts.
func (c *Context) add4(z, a, b *Float, aneg, bneg bool, delta uint) Status {
	x3, x2, x1, x0 := uint(a.d[3]), uint(a.d[2]), uint(a.d[1]), uint(a.d[0])
	y3, y2, y1, y0 := uint(b.d[3]), uint(b.d[2]), uint(b.d[1]), uint(b.d[0])
	exp := a.exp

	if aneg == bneg {
		t3, t2, t1, t0 := shr4(y3, y2, y1, y0, delta)
		s0, carry := bits.Add(x0, t0, 0)
		s1, carry := bits.Add(x1, t1, carry)
		s2, carry := bits.Add(x2, t2, carry)
		s3, carry := bits.Add(x3, t3, carry)
		if carry != 0 {
			s0 = s0>>1 | s1<<(W-1)
			s1 = s1>>1 | s2<<(W-1)
			s2 = s2>>1 | s3<<(W-1)
			s3 = s3>>1 | 1<<(W-1)
			exp++
		}
		z.d[3], z.d[2], z.d[1], z.d[0] = Word(s3), Word(s2), Word(s1), Word(s0)
		return c.finite(z, aneg, exp)
	}

	var r3, r2, r1, r0 uint
	var lz int
	switch delta {
	case 0:
		if x3 == y3 && x2 == y2 && x1 == y1 && x0 == y0 {
			z.setZero()
			return Success
		}
		if less4(x3, x2, x1, x0, y3, y2, y1, y0) {
			x3, x2, x1, x0, y3, y2, y1, y0 = y3, y2, y1, y0, x3, x2, x1, x0
			aneg = bneg
		}
		d0, borrow := bits.Sub(x0, y0, 0)
		d1, borrow := bits.Sub(x1, y1, borrow)
		d2, borrow := bits.Sub(x2, y2, borrow)
		d3, _ := bits.Sub(x3, y3, borrow)
		r3, r2, r1, r0, lz = norm5(d3, d2, d1, d0, 0)

	case 1:
		// Five words: (x3, x2, x1, x0, 0) - (y3, y2, y1, y0, 0) >> 1.
		t4, t3, t2, t1, t0 := y3>>1, y2>>1|y3<<(W-1), y1>>1|y2<<(W-1), y0>>1|y1<<(W-1), y0<<(W-1)
		d0, borrow := bits.Sub(0, t0, 0)
		d1, borrow := bits.Sub(x0, t1, borrow)
		d2, borrow := bits.Sub(x1, t2, borrow)
		d3, borrow := bits.Sub(x2, t3, borrow)
		d4, _ := bits.Sub(x3, t4, borrow)
		r3, r2, r1, r0, lz = norm5(d4, d3, d2, d1, d0)

	default:
		t3, t2, t1, t0 := shr4(y3, y2, y1, y0, delta)
		d0, borrow := bits.Sub(x0, t0, 0)
		d1, borrow := bits.Sub(x1, t1, borrow)
		d2, borrow := bits.Sub(x2, t2, borrow)
		d3, _ := bits.Sub(x3, t3, borrow)
		r3, r2, r1, r0 = d3, d2, d1, d0
		if d3&(1<<(W-1)) == 0 {
			r3, r2, r1, r0 = d3<<1|d2>>(W-1), d2<<1|d1>>(W-1), d1<<1|d0>>(W-1), d0<<1
			lz = 1
		}
	}
	z.d[3], z.d[2], z.d[1], z.d[0] = Word(r3), Word(r2), Word(r1), Word(r0)
	return c.finite(z, aneg, exp-int64(lz))
}

// less4 compares two four-word integers, most significant word first.
func less4(x3, x2, x1, x0, y3, y2, y1, y0 uint) bool {
	switch {
	case x3 != y3:
		return x3 < y3
	case x2 != y2:
		return x2 < y2
	case x1 != y1:
		return x1 < y1
	}
	return x0 < y0
}

// norm5 shifts the non-zero five-word integer (r4, ..., r0) left until its
// top bit is set and returns the top four words and the shift.
func norm5(r4, r3, r2, r1, r0 uint) (uint, uint, uint, uint, int) {
	lz := 0
	for r4 == 0 {
		r4, r3, r2, r1, r0 = r3, r2, r1, r0, 0
		lz += W
	}
	l := uint(bits.LeadingZeros(r4))
	return r4<<l | r3>>(W-l), r3<<l | r2>>(W-l), r2<<l | r1>>(W-l), r1<<l | r0>>(W-l), lz + int(l)
}

// shr3 shifts the three-word integer (y2, y1, y0) right by s < 3W bits.
func shr3(y2, y1, y0 uint, s uint) (uint, uint, uint) {
	switch {
	case s >= 2*W:
		return 0, 0, y2 >> (s - 2*W)
	case s >= W:
		s -= W
		return 0, y2 >> s, y1>>s | y2<<(W-s)
	}
	return y2 >> s, y1>>s | y2<<(W-s), y0>>s | y1<<(W-s)
}

// shr4 shifts the four-word integer (y3, y2, y1, y0) right by s < 4W bits.
func shr4(y3, y2, y1, y0 uint, s uint) (uint, uint, uint, uint) {
	switch {
	case s >= 3*W:
		return 0, 0, 0, y3 >> (s - 3*W)
	case s >= 2*W:
		s -= 2 * W
		return 0, 0, y3 >> s, y2>>s | y3<<(W-s)
	case s >= W:
		s -= W
		return 0, y3 >> s, y2>>s | y3<<(W-s), y1>>s | y2<<(W-s)
	}
	return y3 >> s, y2>>s | y3<<(W-s), y1>>s | y2<<(W-s), y0>>s | y1<<(W-s)
}

// shr2 shifts the two-word integer (y1, y0) right by s < 2W bits.
func shr2(y1, y0 uint, s uint) (uint, uint) {
	if s >= W {
		return 0, y1 >> (s - W)
	}
	return y1 >> s, y0>>s | y1<<(W-s)
}
