package nfloat

// ComplexSet sets z to x.
func (c *Context) ComplexSet(z, x *Complex) {
	c.Set(&z.Re, &x.Re)
	c.Set(&z.Im, &x.Im)
}

// ComplexZero sets z to 0.
func (c *Context) ComplexZero(z *Complex) *Complex {
	z.Re.setZero()
	z.Im.setZero()
	return z
}

// ComplexOne sets z to 1.
func (c *Context) ComplexOne(z *Complex) *Complex {
	c.One(&z.Re)
	z.Im.setZero()
	return z
}

// ComplexI sets z to the imaginary unit.
func (c *Context) ComplexI(z *Complex) *Complex {
	z.Re.setZero()
	c.One(&z.Im)
	return z
}

// SetComplex128 sets z to v.
func (c *Context) SetComplex128(z *Complex, v complex128) Status {
	return c.SetFloat64(&z.Re, real(v)) | c.SetFloat64(&z.Im, imag(v))
}

// Complex128 returns z truncated toward zero in each component.
func (c *Context) Complex128(z *Complex) complex128 {
	return complex(c.Float64(&z.Re), c.Float64(&z.Im))
}

// ComplexIsZero reports whether both components are zero.
func (c *Context) ComplexIsZero(z *Complex) bool {
	return z.Re.IsZero() && z.Im.IsZero()
}

// ComplexEqual reports whether x == y componentwise.
func (c *Context) ComplexEqual(x, y *Complex) (bool, Status) {
	re, st1 := c.Equal(&x.Re, &y.Re)
	im, st2 := c.Equal(&x.Im, &y.Im)
	return re && im, st1 | st2
}

// ComplexNeg sets z to -x.
func (c *Context) ComplexNeg(z, x *Complex) {
	c.Neg(&z.Re, &x.Re)
	c.Neg(&z.Im, &x.Im)
}

// ComplexConj sets z to the conjugate of x.
func (c *Context) ComplexConj(z, x *Complex) {
	c.Set(&z.Re, &x.Re)
	c.Neg(&z.Im, &x.Im)
}

// ComplexAdd sets z to x + y.
func (c *Context) ComplexAdd(z, x, y *Complex) Status {
	return c.Add(&z.Re, &x.Re, &y.Re) | c.Add(&z.Im, &x.Im, &y.Im)
}

// ComplexSub sets z to x - y.
func (c *Context) ComplexSub(z, x, y *Complex) Status {
	return c.Sub(&z.Re, &x.Re, &y.Re) | c.Sub(&z.Im, &x.Im, &y.Im)
}

// ComplexMulReal sets z to x × r for a real r.
func (c *Context) ComplexMulReal(z, x *Complex, r *Float) Status {
	t := *r // r may be a component of z
	return c.Mul(&z.Re, &x.Re, &t) | c.Mul(&z.Im, &x.Im, &t)
}

// ComplexMul2Exp sets z to x × 2^e.
func (c *Context) ComplexMul2Exp(z, x *Complex, e int64) Status {
	return c.Mul2Exp(&z.Re, &x.Re, e) | c.Mul2Exp(&z.Im, &x.Im, e)
}

// ComplexNorm sets z to |x|² = re² + im² with a single rounding.
func (c *Context) ComplexNorm(z *Float, x *Complex) Status {
	return c.MulAddMul(z, &x.Re, &x.Re, &x.Im, &x.Im)
}

// ComplexAbs sets z to |x|. The squared modulus and the root are rounded
// separately.
func (c *Context) ComplexAbs(z *Float, x *Complex) Status {
	switch {
	case x.Im.IsZero():
		c.Abs(z, &x.Re)
		return Success
	case x.Re.IsZero():
		c.Abs(z, &x.Im)
		return Success
	}
	var n Float
	st := c.ComplexNorm(&n, x)
	return st | c.Sqrt(z, &n)
}

// ComplexString formats z as "(re, im)".
func (c *Context) ComplexString(z *Complex) string {
	return "(" + c.String(&z.Re) + ", " + c.String(&z.Im) + ")"
}

// ─────────────────────────────────────────────────────────────────────────────
// Division
// ─────────────────────────────────────────────────────────────────────────────

// ComplexDiv sets z to x / y, computed as x × conj(y) / |y|². A real or
// purely imaginary divisor takes a direct path with two real divisions.
func (c *Context) ComplexDiv(z, x, y *Complex) Status {
	a, b := x.Re, x.Im
	yr, yi := y.Re, y.Im
	switch {
	case yi.IsZero():
		// (a + bi) / c = a/c + (b/c)i
		return c.Div(&z.Re, &a, &yr) | c.Div(&z.Im, &b, &yr)
	case yr.IsZero():
		// (a + bi) / (di) = b/d - (a/d)i
		st := c.Div(&z.Re, &b, &yi)
		st |= c.Div(&z.Im, &a, &yi)
		c.Neg(&z.Im, &z.Im)
		return st
	}
	var n Float
	var num, conj Complex
	st := c.ComplexNorm(&n, y)
	c.ComplexConj(&conj, y)
	st |= c.ComplexMul(&num, x, &conj)
	st |= c.Div(&z.Re, &num.Re, &n)
	st |= c.Div(&z.Im, &num.Im, &n)
	return st
}

// ComplexInv sets z to 1 / x.
func (c *Context) ComplexInv(z, x *Complex) Status {
	a, b := x.Re, x.Im
	switch {
	case b.IsZero():
		z.Im.setZero()
		return c.Inv(&z.Re, &a)
	case a.IsZero():
		// 1 / (bi) = -(1/b)i
		z.Re.setZero()
		st := c.Inv(&z.Im, &b)
		c.Neg(&z.Im, &z.Im)
		return st
	}
	var n Float
	st := c.ComplexNorm(&n, x)
	st |= c.Div(&z.Re, &a, &n)
	st |= c.Div(&z.Im, &b, &n)
	c.Neg(&z.Im, &z.Im)
	return st
}

// ComplexExpSkew returns the largest exponent difference between the
// components of x, or 0 if either is zero or special.
func ComplexExpSkew(x *Complex) int64 {
	if x.Re.isSpecial() || x.Im.isSpecial() {
		return 0
	}
	d := x.Re.exp - x.Im.exp
	if d < 0 {
		d = -d
	}
	return d
}

// hasNonFinite reports whether any component is an infinity or NaN.
func hasNonFinite(xs ...*Complex) bool {
	for _, x := range xs {
		if !x.Re.IsFinite() || !x.Im.IsFinite() {
			return true
		}
	}
	return false
}
