package nfloat

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/agbru/nfloat/internal/limb"
)

// Conversions truncate toward zero to the context precision. Values that
// are exactly representable convert exactly in both directions.

// SetUint64 sets z to v.
func (c *Context) SetUint64(z *Float, v uint64) Status {
	if v == 0 {
		z.setZero()
		return Success
	}
	if W == 64 {
		lz := bits.LeadingZeros64(v)
		limb.Clear(z.d[:c.n-1])
		z.d[c.n-1] = Word(v << lz)
		z.neg = false
		z.exp = int64(64 - lz)
		return Success
	}
	return c.SetInt(z, new(big.Int).SetUint64(v))
}

// SetInt64 sets z to v.
func (c *Context) SetInt64(z *Float, v int64) Status {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = -u
	}
	st := c.SetUint64(z, u)
	if neg {
		z.neg = true
	}
	return st
}

// SetInt sets z to x.
func (c *Context) SetInt(z *Float, x *big.Int) Status {
	if x.Sign() == 0 {
		z.setZero()
		return Success
	}
	c.loadWords(z, x.Sign() < 0, x.Bits())
	return c.finite(z, z.neg, int64(x.BitLen()))
}

// loadWords stores the leading n words of the normalized (top word
// non-zero) integer m into the mantissa of z, truncating. The caller sets
// the exponent to the bit length of m.
func (c *Context) loadWords(z *Float, neg bool, m []Word) {
	n := c.n
	k := len(m)
	z.neg = neg
	if k <= n {
		limb.Clear(z.d[:n-k])
		copy(z.d[n-k:n], m)
		if s := uint(limb.LeadingZeros(z.d[n-1 : n])); s != 0 {
			limb.Shl(z.d[:n], z.d[:n], s)
		}
		return
	}
	// Take n+1 words so the top n are full after the shift.
	var t wide
	copy(t[:n+1], m[k-n-1:])
	if s := uint(limb.LeadingZeros(t[n : n+1])); s != 0 {
		limb.Shl(t[:n+1], t[:n+1], s)
	}
	copy(z.d[:n], t[1:n+1])
}

// SetRat sets z to x, truncated toward zero.
func (c *Context) SetRat(z *Float, x *big.Rat) Status {
	if x.Sign() == 0 {
		z.setZero()
		return Success
	}
	if x.IsInt() {
		return c.SetInt(z, x.Num())
	}
	f := new(big.Float).SetPrec(uint(c.Prec())).SetMode(big.ToZero).SetRat(x)
	return c.SetBigFloat(z, f)
}

// SetBigFloat sets z to x, truncated toward zero.
func (c *Context) SetBigFloat(z *Float, x *big.Float) Status {
	switch {
	case x.IsInf():
		return c.inf(z, x.Signbit(), Unable)
	case x.Sign() == 0:
		z.setZero()
		return Success
	}
	var m big.Float
	e := x.MantExp(&m)
	if m.MinPrec() > uint(c.Prec()) {
		m.SetMode(big.ToZero).SetPrec(uint(c.Prec()))
	}
	m.Abs(&m)
	m.SetMantExp(&m, int(m.MinPrec()))
	i, _ := m.Int(nil)
	c.loadWords(z, x.Signbit(), i.Bits())
	return c.finite(z, z.neg, int64(e))
}

// SetFloat64 sets z to v. NaN and infinities follow the context policy.
func (c *Context) SetFloat64(z *Float, v float64) Status {
	switch {
	case math.IsNaN(v):
		return c.nan(z, Unable)
	case math.IsInf(v, 0):
		return c.inf(z, v < 0, Unable)
	case v == 0:
		z.setZero()
		return Success
	}
	return c.SetBigFloat(z, big.NewFloat(v))
}

// SetString sets z to the value of s, truncated toward zero. It accepts the
// syntax of big.ParseFloat with base 0, including "Inf".
func (c *Context) SetString(z *Float, s string) (Status, error) {
	if s == "NaN" || s == "nan" {
		return c.nan(z, Unable), nil
	}
	f, _, err := big.ParseFloat(s, 0, uint(c.Prec()), big.ToZero)
	if err != nil {
		return Success, fmt.Errorf("nfloat: parsing %q: %w", s, err)
	}
	return c.SetBigFloat(z, f), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Outbound conversions
// ─────────────────────────────────────────────────────────────────────────────

// mantInt returns the mantissa of a finite non-zero x as a new big.Int.
func (c *Context) mantInt(x *Float) *big.Int {
	return new(big.Int).SetBits(append([]Word(nil), x.d[:c.n]...))
}

// BigFloat returns x exactly as a big.Float with precision c.Prec().
func (c *Context) BigFloat(x *Float) (*big.Float, Status) {
	f := new(big.Float).SetPrec(uint(c.Prec()))
	switch {
	case x.IsNaN():
		return f, Domain
	case x.IsInf():
		return f.SetInf(x.neg), Success
	case x.IsZero():
		return f, Success
	}
	if x.exp > math.MaxInt32 || x.exp < math.MinInt32+int64(c.Prec()) {
		return f, Unable
	}
	f.SetInt(c.mantInt(x))
	f.SetMantExp(f, int(x.exp)-c.Prec())
	if x.neg {
		f.Neg(f)
	}
	return f, Success
}

// maxRatShift bounds the exponents Rat and Int accept before reporting
// Unable rather than building an enormous integer.
const maxRatShift = 1 << 24

// Rat returns x exactly as a big.Rat.
func (c *Context) Rat(x *Float) (*big.Rat, Status) {
	switch {
	case x.IsInf(), x.IsNaN():
		return new(big.Rat), Domain
	case x.IsZero():
		return new(big.Rat), Success
	}
	sh := x.exp - int64(c.Prec())
	if sh > maxRatShift || sh < -maxRatShift {
		return new(big.Rat), Unable
	}
	m := c.mantInt(x)
	if x.neg {
		m.Neg(m)
	}
	if sh >= 0 {
		return new(big.Rat).SetInt(m.Lsh(m, uint(sh))), Success
	}
	den := new(big.Int).Lsh(big.NewInt(1), uint(-sh))
	return new(big.Rat).SetFrac(m, den), Success
}

// Int returns x truncated toward zero to an integer.
func (c *Context) Int(x *Float) (*big.Int, Status) {
	switch {
	case x.IsInf(), x.IsNaN():
		return new(big.Int), Domain
	case x.IsZero(), x.exp <= 0:
		return new(big.Int), Success
	}
	sh := x.exp - int64(c.Prec())
	if sh > maxRatShift {
		return new(big.Int), Unable
	}
	m := c.mantInt(x)
	if sh >= 0 {
		m.Lsh(m, uint(sh))
	} else {
		m.Rsh(m, uint(-sh))
	}
	if x.neg {
		m.Neg(m)
	}
	return m, Success
}

// Int64 returns x truncated toward zero. It reports Unable if the result
// does not fit.
func (c *Context) Int64(x *Float) (int64, Status) {
	i, st := c.Int(x)
	if st != Success {
		return 0, st
	}
	if !i.IsInt64() {
		return 0, Unable
	}
	return i.Int64(), Success
}

// Float64 returns x truncated toward zero to a float64. Values beyond the
// float64 range become infinities or zeros, as with big.Float.
func (c *Context) Float64(x *Float) float64 {
	switch {
	case x.IsNaN():
		return math.NaN()
	case x.IsInf():
		if x.neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case x.IsZero():
		return 0
	case x.exp > 1100:
		if x.neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case x.exp < -1100:
		if x.neg {
			return math.Copysign(0, -1)
		}
		return 0
	}
	// Below the normal range a float64 keeps fewer than 53 bits, and
	// big.Float.Float64 would round those to nearest.
	prec := int64(53)
	if x.exp < minNormalExp64 {
		prec -= minNormalExp64 - x.exp
	}
	if prec <= 0 {
		if x.neg {
			return math.Copysign(0, -1)
		}
		return 0
	}
	f, _ := c.BigFloat(x)
	f.SetMode(big.ToZero).SetPrec(uint(prec))
	v, _ := f.Float64()
	return v
}

// minNormalExp64 is the exponent of the smallest normal float64 with the
// mantissa in [0.5, 1).
const minNormalExp64 = -1021

// ─────────────────────────────────────────────────────────────────────────────
// Formatting
// ─────────────────────────────────────────────────────────────────────────────

// Text formats x like big.Float.Text.
func (c *Context) Text(x *Float, format byte, prec int) string {
	switch {
	case x.IsNaN():
		return "NaN"
	case x.IsZero():
		return "0"
	}
	f, st := c.BigFloat(x)
	if st != Success {
		// Exponent beyond big.Float range.
		sign := ""
		if x.neg {
			sign = "-"
		}
		return fmt.Sprintf("%s0x.%xp%+d", sign, c.mantInt(x), x.exp)
	}
	return f.Text(format, prec)
}

// String formats x with the shortest decimal representation that
// identifies it at the context precision.
func (c *Context) String(x *Float) string {
	return c.Text(x, 'g', -1)
}
