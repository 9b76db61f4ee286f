package nfloat

import "github.com/agbru/nfloat/internal/limb"

// Mul sets z to x × y.
//
// Only the partial products that reach the top n limbs are formed (see
// limb.MulHigh), so the result may trail the truncated exact product by a
// few units in the last place. Mul is exactly commutative.
func (c *Context) Mul(z, x, y *Float) Status {
	if x.isSpecial() || y.isSpecial() {
		return c.mulSpecial(z, x, y)
	}
	neg := x.neg != y.neg
	exp := x.exp + y.exp
	s := mulMant(z.d[:c.n], x.d[:c.n], y.d[:c.n])
	return c.finite(z, neg, exp-int64(s))
}

// Sqr sets z to x × x. It is bit-identical to Mul(z, x, x).
func (c *Context) Sqr(z, x *Float) Status {
	if x.isSpecial() {
		return c.mulSpecial(z, x, x)
	}
	exp := 2 * x.exp
	s := sqrMant(z.d[:c.n], x.d[:c.n])
	return c.finite(z, false, exp-int64(s))
}

// MulInt64 sets z to x × v.
func (c *Context) MulInt64(z, x *Float, v int64) Status {
	var t Float
	c.SetInt64(&t, v)
	return c.Mul(z, x, &t)
}

// mulMant sets z to the high part of x*y and returns the renormalization
// shift, using the closed forms for one and two limbs.
func mulMant(z, x, y []Word) uint {
	switch len(z) {
	case 1:
		var s uint
		z[0], s = limb.MulHigh1(x[0], y[0])
		return s
	case 2:
		var s uint
		z[1], z[0], s = limb.MulHigh2(x[1], x[0], y[1], y[0])
		return s
	default:
		return limb.MulHigh(z, x, y)
	}
}

func sqrMant(z, x []Word) uint {
	switch len(z) {
	case 1:
		var s uint
		z[0], s = limb.MulHigh1(x[0], x[0])
		return s
	case 2:
		var s uint
		z[1], z[0], s = limb.SqrHigh2(x[1], x[0])
		return s
	default:
		return limb.SqrHigh(z, x)
	}
}

func (c *Context) mulSpecial(z, x, y *Float) Status {
	neg := x.neg != y.neg
	switch {
	case x.IsNaN() || y.IsNaN():
		return c.nan(z, Unable)
	case x.IsInf() && y.IsZero(), x.IsZero() && y.IsInf():
		return c.nan(z, Unable)
	case x.IsInf() || y.IsInf():
		z.setInf(neg)
		return Success
	default:
		z.setZero()
		return Success
	}
}
