package nfloat

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/agbru/nfloat/internal/limb"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test Utilities
// ─────────────────────────────────────────────────────────────────────────────

// testLimbs covers the closed forms, the small generic path and larger
// contexts.
var testLimbs = []int{1, 2, 3, 4, 5, 8, 13}

// limbContext returns a context with exactly n limbs.
func limbContext(n int, opts ...Option) *Context {
	return MustContext(n*W, opts...)
}

// randFloat returns a random normalized value with an exponent in
// [-spread, spread].
func randFloat(c *Context, r *rand.Rand, spread int64) Float {
	var x Float
	for i := 0; i < c.n; i++ {
		x.d[i] = Word(uint(r.Uint64()))
	}
	x.d[c.n-1] |= limb.TopBit
	x.neg = r.Intn(2) == 1
	x.exp = r.Int63n(2*spread+1) - spread
	return x
}

// nearby returns a value of opposite sign to x with the same or adjacent
// exponent and a mantissa that shares the top bits of x, forcing
// cancellation in x + y.
func nearby(c *Context, r *rand.Rand, x *Float) Float {
	y := *x
	y.neg = !x.neg
	// Randomize the bits below bit k.
	k := r.Intn(c.n*W - 1)
	for w := 0; w*W < k; w++ {
		m := ^Word(0)
		if rem := k - w*W; rem < W {
			m = Word(1)<<uint(rem) - 1
		}
		y.d[w] ^= Word(uint(r.Uint64())) & m
	}
	if r.Intn(3) == 0 {
		y.exp--
	}
	return y
}

// ratOf returns x as an exact rational, failing the test for special
// values.
func ratOf(t testing.TB, c *Context, x *Float) *big.Rat {
	t.Helper()
	q, st := c.Rat(x)
	if st != Success {
		t.Fatalf("Rat(%s) = %v", c.String(x), st)
	}
	return q
}

// pow2 returns 2^e as a rational.
func pow2(e int64) *big.Rat {
	if e >= 0 {
		return new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(e)))
	}
	return new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), uint(-e)))
}

// ulp returns one unit in the last place of a finite non-zero x.
func ulp(c *Context, x *Float) *big.Rat {
	return pow2(x.exp - int64(c.Prec()))
}

// checkAbs fails the test if |got - want| > tol.
func checkAbs(t testing.TB, c *Context, got *Float, want, tol *big.Rat, what string) {
	t.Helper()
	var g *big.Rat
	if got.IsZero() {
		g = new(big.Rat)
	} else {
		g = ratOf(t, c, got)
	}
	d := new(big.Rat).Sub(g, want)
	d.Abs(d)
	if d.Cmp(tol) > 0 {
		df, _ := d.Float64()
		tf, _ := tol.Float64()
		t.Errorf("%s: got %s, want %s (error %g > %g)", what, c.String(got), want.FloatString(40), df, tf)
	}
}

// checkUlps fails the test unless got is within k units in its last place
// of want. A zero result must be exact.
func checkUlps(t testing.TB, c *Context, got *Float, want *big.Rat, k int64, what string) {
	t.Helper()
	if got.IsZero() {
		if want.Sign() != 0 {
			t.Errorf("%s: got 0, want %s", what, want.FloatString(40))
		}
		return
	}
	tol := new(big.Rat).Mul(ulp(c, got), new(big.Rat).SetInt64(k))
	checkAbs(t, c, got, want, tol, what)
}

// requireIdentical fails the test unless x and y have the same encoding.
func requireIdentical(t testing.TB, c *Context, got, want *Float, what string) {
	t.Helper()
	if !c.identical(got, want) {
		t.Errorf("%s: got %s (exp %d), want %s (exp %d)", what,
			c.Text(got, 'x', -1), got.exp, c.Text(want, 'x', -1), want.exp)
	}
}

// requireNormalized fails the test if x breaks the representation
// invariant.
func requireNormalized(t testing.TB, c *Context, x *Float, what string) {
	t.Helper()
	if !c.IsNormalized(x) {
		t.Errorf("%s: result not normalized: exp %d, top word %#x", what, x.exp, x.d[c.n-1])
	}
}

// fromInt64 returns v as a Float under c.
func fromInt64(c *Context, v int64) Float {
	var x Float
	c.SetInt64(&x, v)
	return x
}

// fromString parses s, failing the test on error.
func fromString(t testing.TB, c *Context, s string) Float {
	t.Helper()
	var x Float
	if _, err := c.SetString(&x, s); err != nil {
		t.Fatal(err)
	}
	return x
}
