package nfloat

// MulAlgorithm identifies a complex multiplication strategy.
type MulAlgorithm int

const (
	// MulNaive forms four independently rounded products. It is used for
	// special values and for large exponent skew between products.
	MulNaive MulAlgorithm = iota
	// MulComponent forms two products when a component is zero.
	MulComponent
	// MulStandard forms each component as a fused two-product sum with a
	// single rounding.
	MulStandard
	// MulKaratsuba forms three products in a context with one guard limb:
	// s = c(a+b), t = a(d-c), u = b(c+d), re = s-u, im = s+t.
	MulKaratsuba
)

func (a MulAlgorithm) String() string {
	switch a {
	case MulNaive:
		return "naive"
	case MulComponent:
		return "component"
	case MulStandard:
		return "standard"
	case MulKaratsuba:
		return "karatsuba"
	default:
		return "unknown"
	}
}

// ComplexMulAlgorithm returns the strategy ComplexMul uses for x × y.
func (c *Context) ComplexMulAlgorithm(x, y *Complex) MulAlgorithm {
	switch {
	case hasNonFinite(x, y):
		return MulNaive
	case x.Re.IsZero() || x.Im.IsZero() || y.Re.IsZero() || y.Im.IsZero():
		return MulComponent
	}
	ea, eb, ec, ed := x.Re.exp, x.Im.exp, y.Re.exp, y.Im.exp
	lo, hi := ea+ec, ea+ec
	for _, e := range [...]int64{eb + ed, ea + ed, eb + ec} {
		lo, hi = min(lo, e), max(hi, e)
	}
	switch {
	case hi-lo > W:
		return MulNaive
	case c.n < c.complexKaratsuba:
		return MulStandard
	default:
		return MulKaratsuba
	}
}

// ComplexSqrAlgorithm returns the strategy ComplexSqr uses for x².
func (c *Context) ComplexSqrAlgorithm(x *Complex) MulAlgorithm {
	switch {
	case hasNonFinite(x):
		return MulNaive
	case x.Re.IsZero() || x.Im.IsZero():
		return MulComponent
	case 2*ComplexExpSkew(x) > int64((c.n+1)*W):
		return MulNaive
	case c.n < c.complexKaratsuba:
		return MulStandard
	default:
		return MulKaratsuba
	}
}

// ComplexMul sets z to x × y. The strategy is chosen by
// ComplexMulAlgorithm; all strategies agree up to rounding and are exact
// when one factor is 1.
func (c *Context) ComplexMul(z, x, y *Complex) Status {
	switch c.ComplexMulAlgorithm(x, y) {
	case MulComponent:
		return c.cmulComponent(z, x, y)
	case MulStandard:
		return c.cmulStandard(z, x, y)
	case MulKaratsuba:
		return c.cmulKaratsuba(z, x, y)
	default:
		return c.cmulNaive(z, x, y)
	}
}

func (c *Context) cmulNaive(z, x, y *Complex) Status {
	var ac, bd, ad, bc Float
	st := c.Mul(&ac, &x.Re, &y.Re)
	st |= c.Mul(&bd, &x.Im, &y.Im)
	st |= c.Mul(&ad, &x.Re, &y.Im)
	st |= c.Mul(&bc, &x.Im, &y.Re)
	st |= c.Sub(&z.Re, &ac, &bd)
	st |= c.Add(&z.Im, &ad, &bc)
	return st
}

func (c *Context) cmulComponent(z, x, y *Complex) Status {
	xr, xi, yr, yi := x.Re, x.Im, y.Re, y.Im
	var st Status
	switch {
	case xi.IsZero(): // a(c + di)
		st = c.Mul(&z.Re, &xr, &yr)
		st |= c.Mul(&z.Im, &xr, &yi)
	case xr.IsZero(): // bi(c + di) = -bd + bci
		st = c.Mul(&z.Re, &xi, &yi)
		st |= c.Mul(&z.Im, &xi, &yr)
		c.Neg(&z.Re, &z.Re)
	case yi.IsZero(): // (a + bi)c
		st = c.Mul(&z.Re, &xr, &yr)
		st |= c.Mul(&z.Im, &xi, &yr)
	default: // (a + bi)di = -bd + adi
		st = c.Mul(&z.Re, &xi, &yi)
		st |= c.Mul(&z.Im, &xr, &yi)
		c.Neg(&z.Re, &z.Re)
	}
	return st
}

func (c *Context) cmulStandard(z, x, y *Complex) Status {
	var re, im Float
	st := c.MulSubMul(&re, &x.Re, &y.Re, &x.Im, &y.Im)
	st |= c.MulAddMul(&im, &x.Re, &y.Im, &x.Im, &y.Re)
	c.Set(&z.Re, &re)
	c.Set(&z.Im, &im)
	return st
}

func (c *Context) cmulKaratsuba(z, x, y *Complex) Status {
	g := c.guard
	if g == nil {
		return c.cmulStandard(z, x, y)
	}
	var a, b, p, q Float
	c.extend(&a, &x.Re)
	c.extend(&b, &x.Im)
	c.extend(&p, &y.Re)
	c.extend(&q, &y.Im)

	var s, t, u, w Float
	st := g.Add(&w, &a, &b)
	st |= g.Mul(&s, &p, &w) // s = c(a+b)
	st |= g.Sub(&w, &q, &p)
	st |= g.Mul(&t, &a, &w) // t = a(d-c)
	st |= g.Add(&w, &p, &q)
	st |= g.Mul(&u, &b, &w) // u = b(c+d)
	st |= g.Sub(&w, &s, &u)
	st |= g.Add(&s, &s, &t)
	c.truncate(&z.Re, &w)
	c.truncate(&z.Im, &s)
	return st
}

// ComplexSqr sets z to x².
func (c *Context) ComplexSqr(z, x *Complex) Status {
	a, b := x.Re, x.Im
	switch c.ComplexSqrAlgorithm(x) {
	case MulComponent:
		if b.IsZero() {
			z.Im.setZero()
			return c.Sqr(&z.Re, &a)
		}
		z.Im.setZero()
		st := c.Sqr(&z.Re, &b)
		c.Neg(&z.Re, &z.Re)
		return st
	case MulStandard:
		st := c.MulSubMul(&z.Re, &a, &a, &b, &b)
		st |= c.Mul(&z.Im, &a, &b)
		return st | c.Mul2Exp(&z.Im, &z.Im, 1)
	case MulKaratsuba:
		g := c.guard
		if g == nil {
			st := c.MulSubMul(&z.Re, &a, &a, &b, &b)
			st |= c.Mul(&z.Im, &a, &b)
			return st | c.Mul2Exp(&z.Im, &z.Im, 1)
		}
		var ga, gb, s, t Float
		c.extend(&ga, &a)
		c.extend(&gb, &b)
		st := g.Add(&s, &ga, &gb)
		st |= g.Sub(&t, &ga, &gb)
		st |= g.Mul(&s, &s, &t) // (a+b)(a-b)
		c.truncate(&z.Re, &s)
		st |= c.Mul(&z.Im, &a, &b)
		return st | c.Mul2Exp(&z.Im, &z.Im, 1)
	default:
		var aa, bb Float
		st := c.Sqr(&aa, &a)
		st |= c.Sqr(&bb, &b)
		st |= c.Mul(&z.Im, &a, &b)
		st |= c.Mul2Exp(&z.Im, &z.Im, 1)
		return st | c.Sub(&z.Re, &aa, &bb)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Guard-limb conversions
// ─────────────────────────────────────────────────────────────────────────────

// extend sets z, a value of c.guard, to x with a zero guard limb appended
// below the mantissa.
func (c *Context) extend(z, x *Float) {
	z.neg = x.neg
	z.exp = x.exp
	if x.isSpecial() {
		return
	}
	copy(z.d[1:c.n+1], x.d[:c.n])
	z.d[0] = 0
}

// truncate sets z to the c.guard value x with its guard limb dropped,
// truncating toward zero.
func (c *Context) truncate(z, x *Float) {
	z.neg = x.neg
	z.exp = x.exp
	if x.isSpecial() {
		return
	}
	copy(z.d[:c.n], x.d[1:c.n+1])
}
