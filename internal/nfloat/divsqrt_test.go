package nfloat

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"
)

// ratSqr returns q².
func ratSqr(q *big.Rat) *big.Rat { return new(big.Rat).Mul(q, q) }

func TestDivAgainstRat(t *testing.T) {
	t.Parallel()
	for _, n := range testLimbs {
		t.Run(fmt.Sprintf("Limbs%d", n), func(t *testing.T) {
			t.Parallel()
			c := limbContext(n)
			r := rand.New(rand.NewSource(int64(n) * 13))
			for i := 0; i < 200; i++ {
				x := randFloat(c, r, 300)
				y := randFloat(c, r, 300)
				var z Float
				if st := c.Div(&z, &x, &y); st != Success {
					t.Fatalf("n=%d: Div status %v", n, st)
				}
				requireNormalized(t, c, &z, "Div")
				want := new(big.Rat).Quo(ratOf(t, c, &x), ratOf(t, c, &y))
				checkUlps(t, c, &z, want, 1, "Div")
				got := ratOf(t, c, &z)
				if new(big.Rat).Abs(got).Cmp(new(big.Rat).Abs(want)) > 0 {
					t.Errorf("n=%d: Div rounded away from zero", n)
				}

				if st := c.Inv(&z, &y); st != Success {
					t.Fatalf("n=%d: Inv status %v", n, st)
				}
				want.Inv(ratOf(t, c, &y))
				checkUlps(t, c, &z, want, 1, "Inv")
			}
		})
	}
}

func TestDivByPowerOfTwoIsExact(t *testing.T) {
	t.Parallel()
	for _, n := range testLimbs {
		c := limbContext(n)
		r := rand.New(rand.NewSource(int64(n)))
		x := randFloat(c, r, 50)
		var p, got, want Float
		c.SetInt64(&p, -8)
		c.Div(&got, &x, &p)
		c.Mul2Exp(&want, &x, -3)
		c.Neg(&want, &want)
		requireIdentical(t, c, &got, &want, "x / -8")

		c.Inv(&got, &p)
		want = fromString(t, c, "-0.125")
		requireIdentical(t, c, &got, &want, "1 / -8")
	}
}

func TestSqrtAgainstRat(t *testing.T) {
	t.Parallel()
	for _, n := range testLimbs {
		t.Run(fmt.Sprintf("Limbs%d", n), func(t *testing.T) {
			t.Parallel()
			c := limbContext(n)
			r := rand.New(rand.NewSource(int64(n) * 17))
			for i := 0; i < 200; i++ {
				x := randFloat(c, r, 300)
				x.neg = false
				xq := ratOf(t, c, &x)

				var z Float
				if st := c.Sqrt(&z, &x); st != Success {
					t.Fatalf("n=%d: Sqrt status %v", n, st)
				}
				requireNormalized(t, c, &z, "Sqrt")
				// z is the root truncated toward zero: z² <= x < (z + ulp)².
				zq := ratOf(t, c, &z)
				if ratSqr(zq).Cmp(xq) > 0 {
					t.Errorf("n=%d: Sqrt rounded up", n)
				}
				hi := new(big.Rat).Add(zq, ulp(c, &z))
				if ratSqr(hi).Cmp(xq) <= 0 {
					t.Errorf("n=%d: Sqrt more than one ulp low", n)
				}

				if st := c.Rsqrt(&z, &x); st != Success {
					t.Fatalf("n=%d: Rsqrt status %v", n, st)
				}
				requireNormalized(t, c, &z, "Rsqrt")
				// z² x <= 1 < (z + 2 ulp)² x.
				zq = ratOf(t, c, &z)
				if new(big.Rat).Mul(ratSqr(zq), xq).Cmp(big.NewRat(1, 1)) > 0 {
					t.Errorf("n=%d: Rsqrt rounded up", n)
				}
				hi = new(big.Rat).Add(zq, new(big.Rat).Mul(ulp(c, &z), big.NewRat(2, 1)))
				if new(big.Rat).Mul(ratSqr(hi), xq).Cmp(big.NewRat(1, 1)) <= 0 {
					t.Errorf("n=%d: Rsqrt more than two ulps low", n)
				}
			}
		})
	}
}

func TestRootsOfPowersOfTwo(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		x     string
		sqrt  string
		rsqrt string
	}{
		{"One", "1", "1", "1"},
		{"Four", "4", "2", "0.5"},
		{"Sixteenth", "0.0625", "0.25", "4"},
		{"Large", "0x1p100", "0x1p50", "0x1p-50"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, n := range testLimbs {
				c := limbContext(n)
				x := fromString(t, c, tc.x)
				var z Float
				c.Sqrt(&z, &x)
				want := fromString(t, c, tc.sqrt)
				requireIdentical(t, c, &z, &want, "Sqrt")
				c.Rsqrt(&z, &x)
				want = fromString(t, c, tc.rsqrt)
				requireIdentical(t, c, &z, &want, "Rsqrt")
			}
		})
	}
}

func TestSqrtOfPerfectSquare(t *testing.T) {
	t.Parallel()
	c := MustContext(256)
	x := fromInt64(c, 1522756) // 1234²
	var z Float
	c.Sqrt(&z, &x)
	if v, _ := c.Int64(&z); v != 1234 {
		t.Errorf("Sqrt(1234²) = %s", c.String(&z))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Special Values
// ─────────────────────────────────────────────────────────────────────────────

func TestDivSqrtSpecials(t *testing.T) {
	t.Parallel()
	ieee := MustContext(128, WithFlags(IEEE))
	strict := MustContext(128)
	var pinf, ninf, nan, zero Float
	pinf.setInf(false)
	ninf.setInf(true)
	nan.setNaN()
	zero.setZero()
	two := fromInt64(ieee, 2)
	mtwo := fromInt64(ieee, -2)

	type unary func(c *Context, z, x *Float) Status
	div := func(y *Float) unary {
		return func(c *Context, z, x *Float) Status { return c.Div(z, x, y) }
	}
	testCases := []struct {
		name       string
		op         unary
		x          *Float
		check      func(*Float) bool
		strictStat Status
	}{
		{"FiniteByZero", div(&zero), &mtwo, func(z *Float) bool { return z.IsInf() && z.neg }, Domain},
		{"ZeroByZero", div(&zero), &zero, (*Float).IsNaN, Domain},
		{"InfByInf", div(&ninf), &pinf, (*Float).IsNaN, Unable},
		{"InfByFinite", div(&mtwo), &pinf, func(z *Float) bool { return z.IsInf() && z.neg }, Success},
		{"FiniteByInf", div(&pinf), &two, (*Float).IsZero, Success},
		{"NaNDividend", div(&two), &nan, (*Float).IsNaN, Unable},
		{"InvZero", (*Context).Inv, &zero, func(z *Float) bool { return z.IsInf() && !z.neg }, Domain},
		{"InvInf", (*Context).Inv, &ninf, (*Float).IsZero, Success},
		{"SqrtNegative", (*Context).Sqrt, &mtwo, (*Float).IsNaN, Domain},
		{"SqrtNegInf", (*Context).Sqrt, &ninf, (*Float).IsNaN, Domain},
		{"SqrtInf", (*Context).Sqrt, &pinf, (*Float).IsInf, Success},
		{"SqrtZero", (*Context).Sqrt, &zero, (*Float).IsZero, Success},
		{"RsqrtZero", (*Context).Rsqrt, &zero, (*Float).IsInf, Domain},
		{"RsqrtNegative", (*Context).Rsqrt, &mtwo, (*Float).IsNaN, Domain},
		{"RsqrtInf", (*Context).Rsqrt, &pinf, (*Float).IsZero, Success},
		{"RsqrtNaN", (*Context).Rsqrt, &nan, (*Float).IsNaN, Unable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var z Float
			if st := tc.op(ieee, &z, tc.x); st != Success || !tc.check(&z) {
				t.Errorf("IEEE: %v, %s", st, ieee.String(&z))
			}
			if st := tc.op(strict, &z, tc.x); st != tc.strictStat {
				t.Errorf("strict status = %v, want %v", st, tc.strictStat)
			}
		})
	}
}

func TestDivSqrtAliasing(t *testing.T) {
	t.Parallel()
	for _, n := range testLimbs {
		c := limbContext(n)
		r := rand.New(rand.NewSource(int64(n) + 21))
		x := randFloat(c, r, 10)
		y := randFloat(c, r, 10)
		x.neg = false

		var want Float
		c.Div(&want, &x, &y)
		z := x
		c.Div(&z, &z, &y)
		requireIdentical(t, c, &z, &want, "Div(x, x, y)")
		z = y
		c.Div(&z, &x, &z)
		requireIdentical(t, c, &z, &want, "Div(y, x, y)")

		z = x
		c.Div(&z, &z, &z)
		var one Float
		c.One(&one)
		requireIdentical(t, c, &z, &one, "x / x")

		for name, op := range map[string]func(z, x *Float) Status{
			"Inv": c.Inv, "Sqrt": c.Sqrt, "Rsqrt": c.Rsqrt,
		} {
			op(&want, &x)
			z = x
			op(&z, &z)
			requireIdentical(t, c, &z, &want, name+"(x, x)")
		}
	}
}
