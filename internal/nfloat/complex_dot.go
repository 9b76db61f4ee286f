package nfloat

import (
	"math"

	"github.com/agbru/nfloat/internal/limb"
)

// ComplexDot sets z to initial + Σ x[i]×y[i], or initial - Σ x[i]×y[i] when
// subtract is set. initial may be nil. Each component is accumulated in
// one wide fraction and rounded once.
//
// For terms whose four components are non-zero with balanced exponents,
// and at precisions of at least DotKaratsubaLimbs, the imaginary part uses
// (a+b)(c+d) - ac - bd, which reuses the real part's products. The rounded
// sums a+b and c+d make that form less accurate when ad+bc cancels.
//
// ComplexDot panics if x and y have different lengths.
func (c *Context) ComplexDot(z, initial *Complex, subtract bool, x, y []Complex) Status {
	if len(x) != len(y) {
		panic("nfloat: ComplexDot of vectors with different lengths")
	}
	return c.complexDot(z, initial, subtract, x, y, false)
}

// ComplexDotRev is like ComplexDot but pairs x[i] with y[len(y)-1-i].
func (c *Context) ComplexDotRev(z, initial *Complex, subtract bool, x, y []Complex) Status {
	if len(x) != len(y) {
		panic("nfloat: ComplexDotRev of vectors with different lengths")
	}
	return c.complexDot(z, initial, subtract, x, y, true)
}

// cbound tracks the exponent bound and term count of one component.
type cbound struct {
	emax int64
	k    int
}

func (b *cbound) note(e int64, k int) {
	if e > b.emax {
		b.emax = e
	}
	b.k += k
}

func (b *cbound) noteProduct(x, y *Float) {
	if !x.IsZero() && !y.IsZero() {
		b.note(x.exp+y.exp, 1)
	}
}

// karatsubaTerm reports whether x×y takes the three-product form.
func (c *Context) karatsubaTerm(x, y *Complex) bool {
	if c.n < c.dotKaratsuba {
		return false
	}
	if x.Re.IsZero() || x.Im.IsZero() || y.Re.IsZero() || y.Im.IsZero() {
		return false
	}
	return ComplexExpSkew(x) <= W && ComplexExpSkew(y) <= W
}

func (c *Context) complexDot(z, initial *Complex, subtract bool, x, y []Complex, rev bool) Status {
	pair := func(i int) (*Complex, *Complex) {
		if rev {
			return &x[i], &y[len(y)-1-i]
		}
		return &x[i], &y[i]
	}

	if initial != nil && hasNonFinite(initial) {
		return c.complexDotSlow(z, initial, subtract, x, y, rev)
	}
	for i := range x {
		if a, b := pair(i); hasNonFinite(a, b) {
			return c.complexDotSlow(z, initial, subtract, x, y, rev)
		}
	}

	re := cbound{emax: math.MinInt64}
	im := cbound{emax: math.MinInt64}
	if initial != nil {
		if !initial.Re.IsZero() {
			re.note(initial.Re.exp, 1)
		}
		if !initial.Im.IsZero() {
			im.note(initial.Im.exp, 1)
		}
	}
	for i := range x {
		a, b := pair(i)
		re.noteProduct(&a.Re, &b.Re)
		re.noteProduct(&a.Im, &b.Im)
		if c.karatsubaTerm(a, b) {
			// |a+b| < 2^(max(ea,eb)+1) and likewise for c+d.
			e := max(a.Re.exp, a.Im.exp) + max(b.Re.exp, b.Im.exp) + 2
			im.note(e, 3)
			continue
		}
		im.noteProduct(&a.Re, &b.Im)
		im.noteProduct(&a.Im, &b.Re)
	}

	n := c.n
	var racc, iacc accumulator
	racc.reset(n, re.emax, re.k)
	iacc.reset(n, im.emax, im.k)
	if initial != nil {
		if !initial.Re.IsZero() {
			racc.add(initial.Re.d[:n], initial.Re.exp, initial.Re.neg)
		}
		if !initial.Im.IsZero() {
			iacc.add(initial.Im.d[:n], initial.Im.exp, initial.Im.neg)
		}
	}

	var p limb.Buf
	product := func(acc *accumulator, u, v *Float, neg bool) {
		if u.IsZero() || v.IsZero() {
			return
		}
		e := u.exp + v.exp
		if acc.skip(e) {
			return
		}
		s := mulMant(p[:n], u.d[:n], v.d[:n])
		acc.add(p[:n], e-int64(s), neg != (u.neg != v.neg))
	}

	plain := func(a, b *Complex) {
		product(&racc, &a.Re, &b.Re, subtract)
		product(&racc, &a.Im, &b.Im, !subtract)
		product(&iacc, &a.Re, &b.Im, subtract)
		product(&iacc, &a.Im, &b.Re, subtract)
	}

	var s, t Float
	for i := range x {
		a, b := pair(i)
		if !c.karatsubaTerm(a, b) {
			plain(a, b)
			continue
		}
		if c.Add(&s, &a.Re, &a.Im) != Success || c.Add(&t, &b.Re, &b.Im) != Success {
			plain(a, b)
			continue
		}
		// ac and bd are formed once and fed to both accumulators.
		c.addShared(&racc, &iacc, &p, &a.Re, &b.Re, subtract, false)
		c.addShared(&racc, &iacc, &p, &a.Im, &b.Im, subtract, true)
		product(&iacc, &s, &t, subtract)
	}

	st := racc.finish(c, &z.Re)
	return st | iacc.finish(c, &z.Im)
}

// addShared adds ±u×v to re, negated again when flip is set, and
// subtracts ±u×v from im, which carries (a+b)(c+d) - ac - bd.
func (c *Context) addShared(re, im *accumulator, p *limb.Buf, u, v *Float, subtract, flip bool) {
	if u.IsZero() || v.IsZero() {
		return
	}
	n := c.n
	e := u.exp + v.exp
	if re.skip(e) && im.skip(e) {
		return
	}
	s := mulMant(p[:n], u.d[:n], v.d[:n])
	e -= int64(s)
	neg := subtract != (u.neg != v.neg)
	re.add(p[:n], e, neg != flip)
	im.add(p[:n], e, !neg)
}

// complexDotSlow evaluates the sum with individually rounded operations.
func (c *Context) complexDotSlow(z, initial *Complex, subtract bool, x, y []Complex, rev bool) Status {
	var sum, p Complex
	if initial != nil {
		c.ComplexSet(&sum, initial)
	} else {
		c.ComplexZero(&sum)
	}
	var st Status
	for i := range x {
		j := i
		if rev {
			j = len(y) - 1 - i
		}
		st |= c.ComplexMul(&p, &x[i], &y[j])
		if subtract {
			st |= c.ComplexSub(&sum, &sum, &p)
		} else {
			st |= c.ComplexAdd(&sum, &sum, &p)
		}
	}
	c.ComplexSet(z, &sum)
	return st
}
