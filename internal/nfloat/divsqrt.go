package nfloat

import "github.com/agbru/nfloat/internal/limb"

// Division and square roots are computed by the context's bridge backend on
// the mantissas alone; this file does the exponent arithmetic and the
// special cases. Results are truncated toward zero.

// Div sets z to x / y.
//
// Division of a non-zero value by zero is a Domain error, or a signed
// infinity when the context allows infinities. 0/0 is a Domain error, or NaN
// when allowed; Inf/Inf reports Unable unless NaN is allowed.
func (c *Context) Div(z, x, y *Float) Status {
	neg := x.neg != y.neg
	if x.isSpecial() || y.isSpecial() {
		switch {
		case x.IsNaN() || y.IsNaN():
			return c.nan(z, Unable)
		case y.IsZero():
			if x.IsZero() {
				return c.nan(z, Domain)
			}
			return c.inf(z, neg, Domain)
		case x.IsInf():
			if y.IsInf() {
				return c.nan(z, Unable)
			}
			z.setInf(neg)
			return Success
		default: // x is zero or y is infinite
			z.setZero()
			return Success
		}
	}
	n := c.n
	ex, ey := x.exp, y.exp
	if limb.IsPow2(y.d[:n]) {
		// x / (0.5 × 2^ey) = x × 2^(1-ey)
		c.Set(z, x)
		return c.finite(z, neg, ex+1-ey)
	}
	e := c.backend.Quo(z.d[:n], x.d[:n], y.d[:n])
	return c.finite(z, neg, ex-ey+e)
}

// Inv sets z to 1 / x.
func (c *Context) Inv(z, x *Float) Status {
	if x.isSpecial() {
		switch {
		case x.IsNaN():
			return c.nan(z, Unable)
		case x.IsZero():
			return c.inf(z, false, Domain)
		default:
			z.setZero()
			return Success
		}
	}
	n := c.n
	neg, e := x.neg, x.exp
	if limb.IsPow2(x.d[:n]) {
		z.setPow2(n, neg, 0)
		return c.finite(z, neg, 2-e)
	}
	var one limb.Buf
	one[n-1] = limb.TopBit
	q := c.backend.Quo(z.d[:n], one[:n], x.d[:n])
	return c.finite(z, neg, 1-e+q)
}

// Sqrt sets z to the square root of x. The square root of a negative value
// is a Domain error, or NaN when allowed.
func (c *Context) Sqrt(z, x *Float) Status {
	if x.isSpecial() {
		switch {
		case x.IsNaN():
			return c.nan(z, Unable)
		case x.IsZero():
			z.setZero()
			return Success
		case x.neg:
			return c.nan(z, Domain)
		default:
			z.setInf(false)
			return Success
		}
	}
	if x.neg {
		return c.nan(z, Domain)
	}
	n := c.n
	e := x.exp
	odd := e&1 != 0
	if odd && limb.IsPow2(x.d[:n]) {
		// sqrt(0.5 × 2^e) = 0.5 × 2^((e+1)/2) for odd e.
		z.setPow2(n, false, 0)
		return c.finite(z, false, (e+1)/2)
	}
	c.backend.Sqrt(z.d[:n], x.d[:n], odd)
	if odd {
		return c.finite(z, false, (e+1)/2)
	}
	return c.finite(z, false, e/2)
}

// Rsqrt sets z to 1 / sqrt(x). Zero gives +Inf when infinities are allowed
// and a Domain error otherwise.
func (c *Context) Rsqrt(z, x *Float) Status {
	if x.isSpecial() {
		switch {
		case x.IsNaN():
			return c.nan(z, Unable)
		case x.IsZero():
			return c.inf(z, false, Domain)
		case x.neg:
			return c.nan(z, Domain)
		default:
			z.setZero()
			return Success
		}
	}
	if x.neg {
		return c.nan(z, Domain)
	}
	n := c.n
	e := x.exp
	odd := e&1 != 0
	if odd && limb.IsPow2(x.d[:n]) {
		// 1/sqrt(0.5 × 2^e) = 0.5 × 2^((3-e)/2) for odd e.
		z.setPow2(n, false, 0)
		return c.finite(z, false, (3-e)/2)
	}
	c.backend.Rsqrt(z.d[:n], x.d[:n], odd)
	if odd {
		return c.finite(z, false, 1-(e+1)/2)
	}
	return c.finite(z, false, 1-e/2)
}
