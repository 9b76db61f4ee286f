package nfloat

import (
	"math"
	"math/bits"

	"github.com/agbru/nfloat/internal/limb"
)

// ─────────────────────────────────────────────────────────────────────────────
// Reduction Accumulator
// ─────────────────────────────────────────────────────────────────────────────
//
// A dot product is accumulated without intermediate rounding:
//
//  1. Scan the terms for the largest product exponent emax. A product of
//     mantissas in [0.5, 1) with exponents ex, ey lies below 2^(ex+ey).
//  2. Choose the working exponent E = emax + pad, pad = bits.Len(k) + 1 for
//     k non-zero terms. Every term is then below 2^-pad relative to 2^E, so
//     the sum of all k terms stays below 1/2 and fits a signed fraction.
//  3. Add each high-part product into an (n+1)-limb two's complement
//     fraction scaled by 2^E, after a right shift by E minus its exponent.
//     Terms shifted entirely out of the n+1 limbs are skipped.
//  4. Negate if the sign bit is set, renormalize and keep the top n limbs.
//
// Each term loses less than (n+1)<<2 units of its own last place in the
// product and at most one unit of the accumulator's last place in the
// shift; the final truncation loses less than one unit of the result.

// terms is a sequence of products x × y, each optionally negated.
type terms interface {
	len() int
	term(i int) (x, y *Float, neg bool)
}

// sliceTerms pairs x[i] with y[i], or with y[len-1-i] when rev is set.
type sliceTerms struct {
	x, y []Float
	rev  bool
	neg  bool
}

func (s sliceTerms) len() int { return len(s.x) }

func (s sliceTerms) term(i int) (*Float, *Float, bool) {
	j := i
	if s.rev {
		j = len(s.y) - 1 - i
	}
	return &s.x[i], &s.y[j], s.neg
}

// pairTerms is the two-term sum a×b ± c×d.
type pairTerms struct {
	a, b, c, d *Float
	sub        bool
}

func (pairTerms) len() int { return 2 }

func (p pairTerms) term(i int) (*Float, *Float, bool) {
	if i == 0 {
		return p.a, p.b, false
	}
	return p.c, p.d, p.sub
}

// accumulator is the signed (n+1)-limb fraction of step 3.
type accumulator struct {
	n   int
	exp int64
	w   wide
	t   wide
}

// reset prepares an accumulator for k terms below 2^emax.
func (a *accumulator) reset(n int, emax int64, k int) {
	a.n = n
	a.exp = emax + int64(bits.Len(uint(k))+1)
	limb.Clear(a.w[:n+1])
}

// skip reports whether a term below 2^e cannot reach the accumulator.
func (a *accumulator) skip(e int64) bool {
	return a.exp-e >= int64((a.n+1)*W)
}

// add accumulates ±0.p × 2^e where p has n limbs and e <= emax.
func (a *accumulator) add(p []Word, e int64, neg bool) {
	n := a.n
	shift := a.exp - e
	if shift >= int64((n+1)*W) {
		return
	}
	t := a.t[:n+1]
	t[0] = 0
	copy(t[1:], p)
	limb.ShrN(t, t, uint(shift))
	if neg {
		limb.Sub(a.w[:n+1], a.w[:n+1], t)
	} else {
		limb.Add(a.w[:n+1], a.w[:n+1], t)
	}
}

// finish rounds the accumulated sum into z.
func (a *accumulator) finish(c *Context, z *Float) Status {
	n := a.n
	w := a.w[:n+1]
	neg := w[n]&limb.TopBit != 0
	if neg {
		limb.Neg(w, w)
	}
	if limb.IsZero(w) {
		z.setZero()
		return Success
	}
	lz := limb.Normalize(w)
	copy(z.d[:n], w[1:])
	return c.finite(z, neg, a.exp-int64(lz))
}

// ─────────────────────────────────────────────────────────────────────────────
// Real dot products
// ─────────────────────────────────────────────────────────────────────────────

// Dot sets z to initial + Σ x[i]×y[i], or initial - Σ x[i]×y[i] when
// subtract is set. initial may be nil. The sum is rounded once. Special
// values anywhere fall back to a sequence of rounded operations.
//
// Dot panics if x and y have different lengths.
func (c *Context) Dot(z, initial *Float, subtract bool, x, y []Float) Status {
	if len(x) != len(y) {
		panic("nfloat: Dot of vectors with different lengths")
	}
	return dispatch(c, z, initial, sliceTerms{x: x, y: y, neg: subtract})
}

// DotRev is like Dot but pairs x[i] with y[len(y)-1-i].
func (c *Context) DotRev(z, initial *Float, subtract bool, x, y []Float) Status {
	if len(x) != len(y) {
		panic("nfloat: DotRev of vectors with different lengths")
	}
	return dispatch(c, z, initial, sliceTerms{x: x, y: y, rev: true, neg: subtract})
}

// AddMul sets z to z + x×y with a single rounding.
func (c *Context) AddMul(z, x, y *Float) Status {
	return dispatch(c, z, z, oneTerm{x: x, y: y})
}

// SubMul sets z to z - x×y with a single rounding.
func (c *Context) SubMul(z, x, y *Float) Status {
	return dispatch(c, z, z, oneTerm{x: x, y: y, neg: true})
}

// oneTerm is a single signed product.
type oneTerm struct {
	x, y *Float
	neg  bool
}

func (oneTerm) len() int { return 1 }

func (o oneTerm) term(int) (*Float, *Float, bool) { return o.x, o.y, o.neg }

// MulAddMul sets z to a×b + c×d with a single rounding.
func (c *Context) MulAddMul(z, a, b, x, y *Float) Status {
	return dispatch(c, z, nil, pairTerms{a: a, b: b, c: x, d: y})
}

// MulSubMul sets z to a×b - c×d with a single rounding.
func (c *Context) MulSubMul(z, a, b, x, y *Float) Status {
	return dispatch(c, z, nil, pairTerms{a: a, b: b, c: x, d: y, sub: true})
}

// dispatch selects the limb-count specialization.
func dispatch[T terms](c *Context, z, initial *Float, ts T) Status {
	switch c.n {
	case 1:
		return dot1(c, z, initial, ts)
	case 2:
		return dot2(c, z, initial, ts)
	default:
		return dotN(c, z, initial, ts)
	}
}

// scan performs step 1. It returns the largest exponent bound, the number
// of non-zero terms, including initial, and whether any operand is an
// infinity or NaN.
func scan[T terms](initial *Float, ts T) (emax int64, k int, special bool) {
	emax = math.MinInt64
	if initial != nil {
		switch {
		case initial.IsZero():
		case initial.isSpecial():
			return 0, 0, true
		default:
			emax, k = initial.exp, 1
		}
	}
	for i, l := 0, ts.len(); i < l; i++ {
		x, y, _ := ts.term(i)
		if x.isSpecial() || y.isSpecial() {
			if !x.IsFinite() || !y.IsFinite() {
				return 0, 0, true
			}
			continue
		}
		if e := x.exp + y.exp; e > emax {
			emax = e
		}
		k++
	}
	return emax, k, false
}

// dotSlow evaluates the sum with individually rounded operations.
func dotSlow[T terms](c *Context, z, initial *Float, ts T) Status {
	var s, p Float
	if initial != nil {
		c.Set(&s, initial)
	} else {
		s.setZero()
	}
	var st Status
	for i, l := 0, ts.len(); i < l; i++ {
		x, y, neg := ts.term(i)
		st |= c.Mul(&p, x, y)
		if neg {
			st |= c.Sub(&s, &s, &p)
		} else {
			st |= c.Add(&s, &s, &p)
		}
	}
	c.Set(z, &s)
	return st
}

// dotN is the general accumulator.
func dotN[T terms](c *Context, z, initial *Float, ts T) Status {
	emax, k, special := scan(initial, ts)
	if special {
		return dotSlow(c, z, initial, ts)
	}
	if k == 0 {
		z.setZero()
		return Success
	}
	n := c.n
	var acc accumulator
	acc.reset(n, emax, k)
	if initial != nil && !initial.IsZero() {
		acc.add(initial.d[:n], initial.exp, initial.neg)
	}
	var p limb.Buf
	for i, l := 0, ts.len(); i < l; i++ {
		x, y, neg := ts.term(i)
		if x.IsZero() || y.IsZero() {
			continue
		}
		e := x.exp + y.exp
		if acc.skip(e) {
			continue
		}
		s := mulMant(p[:n], x.d[:n], y.d[:n])
		acc.add(p[:n], e-int64(s), neg != (x.neg != y.neg))
	}
	return acc.finish(c, z)
}

// dot1 is dotN for single-limb contexts with a two-word accumulator.
func dot1[T terms](c *Context, z, initial *Float, ts T) Status {
	emax, k, special := scan(initial, ts)
	if special {
		return dotSlow(c, z, initial, ts)
	}
	if k == 0 {
		z.setZero()
		return Success
	}
	E := emax + int64(bits.Len(uint(k))+1)
	var hi, lo uint

	acc := func(p uint, e int64, neg bool) {
		shift := E - e
		if shift >= 2*W {
			return
		}
		var th, tl uint
		if s := uint(shift); s < W {
			th, tl = p>>s, p<<(W-s)
		} else {
			tl = p >> (s - W)
		}
		var cb uint
		if neg {
			lo, cb = bits.Sub(lo, tl, 0)
			hi, _ = bits.Sub(hi, th, cb)
		} else {
			lo, cb = bits.Add(lo, tl, 0)
			hi, _ = bits.Add(hi, th, cb)
		}
	}

	if initial != nil && !initial.IsZero() {
		acc(uint(initial.d[0]), initial.exp, initial.neg)
	}
	for i, l := 0, ts.len(); i < l; i++ {
		x, y, neg := ts.term(i)
		if x.IsZero() || y.IsZero() {
			continue
		}
		e := x.exp + y.exp
		if E-e >= 2*W {
			continue
		}
		p, s := limb.MulHigh1(x.d[0], y.d[0])
		acc(uint(p), e-int64(s), neg != (x.neg != y.neg))
	}

	neg := hi>>(W-1) != 0
	if neg {
		var cb uint
		lo, cb = bits.Add(^lo, 0, 1)
		hi, _ = bits.Add(^hi, 0, cb)
	}
	var lz int
	switch {
	case hi != 0:
		lz = bits.LeadingZeros(hi)
		z.d[0] = Word(hi<<lz | lo>>(W-lz))
	case lo != 0:
		l := bits.LeadingZeros(lo)
		z.d[0] = Word(lo << l)
		lz = W + l
	default:
		z.setZero()
		return Success
	}
	return c.finite(z, neg, E-int64(lz))
}

// dot2 is dotN for two-limb contexts with a three-word accumulator.
func dot2[T terms](c *Context, z, initial *Float, ts T) Status {
	emax, k, special := scan(initial, ts)
	if special {
		return dotSlow(c, z, initial, ts)
	}
	if k == 0 {
		z.setZero()
		return Success
	}
	E := emax + int64(bits.Len(uint(k))+1)
	var a2, a1, a0 uint

	acc := func(p1, p0 uint, e int64, neg bool) {
		shift := E - e
		if shift >= 3*W {
			return
		}
		t2, t1, t0 := shr3Pair(p1, p0, uint(shift))
		var cb uint
		if neg {
			a0, cb = bits.Sub(a0, t0, 0)
			a1, cb = bits.Sub(a1, t1, cb)
			a2, _ = bits.Sub(a2, t2, cb)
		} else {
			a0, cb = bits.Add(a0, t0, 0)
			a1, cb = bits.Add(a1, t1, cb)
			a2, _ = bits.Add(a2, t2, cb)
		}
	}

	if initial != nil && !initial.IsZero() {
		acc(uint(initial.d[1]), uint(initial.d[0]), initial.exp, initial.neg)
	}
	for i, l := 0, ts.len(); i < l; i++ {
		x, y, neg := ts.term(i)
		if x.IsZero() || y.IsZero() {
			continue
		}
		e := x.exp + y.exp
		if E-e >= 3*W {
			continue
		}
		p1, p0, s := limb.MulHigh2(x.d[1], x.d[0], y.d[1], y.d[0])
		acc(uint(p1), uint(p0), e-int64(s), neg != (x.neg != y.neg))
	}

	neg := a2>>(W-1) != 0
	if neg {
		var cb uint
		a0, cb = bits.Add(^a0, 0, 1)
		a1, cb = bits.Add(^a1, 0, cb)
		a2, _ = bits.Add(^a2, 0, cb)
	}
	var lz int
	var z1, z0 uint
	switch {
	case a2 != 0:
		l := bits.LeadingZeros(a2)
		z1, z0 = a2<<l|a1>>(W-l), a1<<l|a0>>(W-l)
		lz = l
	case a1 != 0:
		l := bits.LeadingZeros(a1)
		z1, z0 = a1<<l|a0>>(W-l), a0<<l
		lz = W + l
	case a0 != 0:
		l := bits.LeadingZeros(a0)
		z1, z0 = a0<<l, 0
		lz = 2*W + l
	default:
		z.setZero()
		return Success
	}
	z.d[1], z.d[0] = Word(z1), Word(z0)
	return c.finite(z, neg, E-int64(lz))
}

// shr3Pair returns the three-word integer (p1, p0, 0) shifted right by s < 3W.
func shr3Pair(p1, p0 uint, s uint) (t2, t1, t0 uint) {
	q, r := s/W, s%W
	switch q {
	case 0:
		return p1 >> r, p0>>r | p1<<(W-r), p0 << (W - r)
	case 1:
		return 0, p1 >> r, p0>>r | p1<<(W-r)
	default:
		return 0, 0, p1 >> r
	}
}
