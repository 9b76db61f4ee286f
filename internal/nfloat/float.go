package nfloat

import (
	"math"

	"github.com/agbru/nfloat/internal/limb"
)

// Sentinel exponents of the special values. All lie below MinExp.
const (
	expZero = math.MinInt64 + iota
	expInf
	expNaN
)

// Float is a fixed-precision binary floating-point value. Only the first
// Context.Limbs() words of the mantissa are significant. Floats hold no
// pointers and may be copied freely.
//
// The zero Float is not a valid value; initialize with a Context method
// (Zero, SetInt64, Set, ...) or use it only as a destination.
type Float struct {
	neg bool
	exp int64
	d   limb.Buf
}

// Complex is a pair of Floats under the same Context.
type Complex struct {
	Re, Im Float
}

func (x *Float) isSpecial() bool { return x.exp < MinExp }

func (x *Float) setZero() {
	x.neg = false
	x.exp = expZero
}

func (x *Float) setInf(neg bool) {
	x.neg = neg
	x.exp = expInf
}

func (x *Float) setNaN() {
	x.neg = false
	x.exp = expNaN
}

// setPow2 sets x to 0.5 * 2^exp with an n-limb mantissa. The exponent is
// not range checked.
func (x *Float) setPow2(n int, neg bool, exp int64) {
	limb.Clear(x.d[:n-1])
	x.d[n-1] = limb.TopBit
	x.neg = neg
	x.exp = exp
}

// ─────────────────────────────────────────────────────────────────────────────
// Predicates
// ─────────────────────────────────────────────────────────────────────────────

// IsZero reports whether x is zero.
func (x *Float) IsZero() bool { return x.exp == expZero }

// IsInf reports whether x is an infinity of either sign.
func (x *Float) IsInf() bool { return x.exp == expInf }

// IsNaN reports whether x is NaN.
func (x *Float) IsNaN() bool { return x.exp == expNaN }

// IsSpecial reports whether x is zero, an infinity or NaN.
func (x *Float) IsSpecial() bool { return x.isSpecial() }

// IsFinite reports whether x is zero or a normal value.
func (x *Float) IsFinite() bool { return x.exp >= MinExp || x.exp == expZero }

// Signbit reports whether x is negative or negative infinity.
func (x *Float) Signbit() bool { return x.neg }

// Sgn returns -1, 0 or +1 for negative, zero and positive values, including
// infinities. It returns 0 for NaN.
func (x *Float) Sgn() int {
	switch {
	case x.exp == expZero || x.exp == expNaN:
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// Exponent returns the binary exponent of a finite non-zero x, for which
// 0.5 <= |x| / 2^Exponent < 1. It returns 0 for special values.
func (x *Float) Exponent() int64 {
	if x.isSpecial() {
		return 0
	}
	return x.exp
}

// IsNormalized reports whether x satisfies the representation invariant
// under c: special, or with the top mantissa bit set and the exponent in
// range.
func (c *Context) IsNormalized(x *Float) bool {
	if x.isSpecial() {
		return x.exp == expZero || x.exp == expInf || x.exp == expNaN
	}
	return x.exp <= MaxExp && limb.IsNormalized(x.d[:c.n])
}

// IsOne reports whether x is exactly 1.
func (c *Context) IsOne(x *Float) bool {
	return !x.neg && x.exp == 1 && limb.IsPow2(x.d[:c.n])
}

// IsNegOne reports whether x is exactly -1.
func (c *Context) IsNegOne(x *Float) bool {
	return x.neg && x.exp == 1 && limb.IsPow2(x.d[:c.n])
}

// IsPow2 reports whether |x| is a power of two.
func (c *Context) IsPow2(x *Float) bool {
	return !x.isSpecial() && limb.IsPow2(x.d[:c.n])
}

// identical reports whether x and y have the same encoding under c.
func (c *Context) identical(x, y *Float) bool {
	if x.neg != y.neg || x.exp != y.exp {
		return false
	}
	if x.isSpecial() {
		return true
	}
	return limb.Cmp(x.d[:c.n], y.d[:c.n]) == 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// Zero sets z to 0 and returns z.
func (c *Context) Zero(z *Float) *Float {
	z.setZero()
	return z
}

// One sets z to 1 and returns z.
func (c *Context) One(z *Float) *Float {
	z.setPow2(c.n, false, 1)
	return z
}

// NegOne sets z to -1 and returns z.
func (c *Context) NegOne(z *Float) *Float {
	z.setPow2(c.n, true, 1)
	return z
}

// PosInf sets z to +Inf. It reports Unable if c does not allow infinities.
func (c *Context) PosInf(z *Float) Status {
	return c.inf(z, false, Unable)
}

// NegInf sets z to -Inf. It reports Unable if c does not allow infinities.
func (c *Context) NegInf(z *Float) Status {
	return c.inf(z, true, Unable)
}

// NaN sets z to NaN. It reports Unable if c does not allow NaN.
func (c *Context) NaN(z *Float) Status {
	return c.nan(z, Unable)
}

// New returns a new Float set to zero.
func (c *Context) New() *Float {
	return c.Zero(new(Float))
}

// NewInt64 returns a new Float set to v.
func (c *Context) NewInt64(v int64) *Float {
	z := new(Float)
	c.SetInt64(z, v)
	return z
}

// Set sets z to x.
func (c *Context) Set(z, x *Float) {
	if z == x {
		return
	}
	z.neg = x.neg
	z.exp = x.exp
	if !x.isSpecial() {
		copy(z.d[:c.n], x.d[:c.n])
	}
}

// Swap exchanges the values of x and y.
func (c *Context) Swap(x, y *Float) {
	*x, *y = *y, *x
}

// Neg sets z to -x. The negation of zero and NaN is the same value.
func (c *Context) Neg(z, x *Float) {
	c.Set(z, x)
	if z.exp != expZero && z.exp != expNaN {
		z.neg = !z.neg
	}
}

// Abs sets z to |x|.
func (c *Context) Abs(z, x *Float) {
	c.Set(z, x)
	z.neg = false
}

// Mul2Exp sets z to x × 2^e.
func (c *Context) Mul2Exp(z, x *Float, e int64) Status {
	if x.isSpecial() {
		c.Set(z, x)
		return Success
	}
	neg := x.neg
	switch {
	case e > 0 && x.exp > MaxExp-e:
		return c.overflow(z, neg)
	case e < 0 && x.exp < MinExp-e:
		return c.underflow(z)
	}
	c.Set(z, x)
	z.exp += e
	return Success
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparison
// ─────────────────────────────────────────────────────────────────────────────

// Cmp compares x and y under the total order -Inf < finite < +Inf. It
// returns -1, 0 or +1, or Unable if either operand is NaN.
func (c *Context) Cmp(x, y *Float) (int, Status) {
	if x.IsNaN() || y.IsNaN() {
		return 0, Unable
	}
	sx, sy := x.Sgn(), y.Sgn()
	switch {
	case sx < sy:
		return -1, Success
	case sx > sy:
		return 1, Success
	case sx == 0:
		return 0, Success
	}
	r := c.cmpAbs(x, y)
	if sx < 0 {
		r = -r
	}
	return r, Success
}

// CmpAbs compares |x| and |y|. It reports Unable if either operand is NaN.
func (c *Context) CmpAbs(x, y *Float) (int, Status) {
	if x.IsNaN() || y.IsNaN() {
		return 0, Unable
	}
	return c.cmpAbs(x, y), Success
}

// Equal reports whether x == y. It reports Unable if either operand is NaN.
func (c *Context) Equal(x, y *Float) (bool, Status) {
	r, st := c.Cmp(x, y)
	return st == Success && r == 0, st
}

// cmpAbs compares the magnitudes of two non-NaN values.
func (c *Context) cmpAbs(x, y *Float) int {
	// Zero < finite < Inf; rank specials first.
	rx, ry := magnitudeRank(x), magnitudeRank(y)
	if rx != ry {
		if rx < ry {
			return -1
		}
		return 1
	}
	if rx != 1 {
		return 0
	}
	switch {
	case x.exp < y.exp:
		return -1
	case x.exp > y.exp:
		return 1
	}
	return limb.Cmp(x.d[:c.n], y.d[:c.n])
}

func magnitudeRank(x *Float) int {
	switch x.exp {
	case expZero:
		return 0
	case expInf:
		return 2
	default:
		return 1
	}
}
