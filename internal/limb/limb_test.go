package limb

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test Utilities
// ─────────────────────────────────────────────────────────────────────────────

// randomWords creates a slice of random words for testing.
func randomWords(n int, r *rand.Rand) []Word {
	words := make([]Word, n)
	for i := range words {
		words[i] = Word(uint(r.Uint64()))
	}
	return words
}

// randomMantissa creates a normalized random mantissa of n words.
func randomMantissa(n int, r *rand.Rand) []Word {
	x := randomWords(n, r)
	x[n-1] |= TopBit
	return x
}

// toInt returns a big.Int holding a copy of x.
func toInt(x []Word) *big.Int {
	return new(big.Int).SetBits(append([]Word(nil), x...))
}

// mask returns 2^bits - 1.
func mask(bits int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return m.Sub(m, big.NewInt(1))
}

// truncatedProduct computes the sum of x[i]*y[j] over i+j >= n-1 scaled by
// B^-(n-1), the quantity MulHigh renormalizes.
func truncatedProduct(x, y []Word) *big.Int {
	n := len(x)
	sum := new(big.Int)
	for i := 0; i < n; i++ {
		for j := n - 1 - i; j < n; j++ {
			p := new(big.Int).Mul(toInt(x[i:i+1]), toInt(y[j:j+1]))
			p.Lsh(p, uint((i+j-(n-1))*W))
			sum.Add(sum, p)
		}
	}
	return sum
}

// ─────────────────────────────────────────────────────────────────────────────
// Carry Chain Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestAddSubAgainstBigInt(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		size int
	}{
		{"Empty", 0},
		{"Single", 1},
		{"Small", 4},
		{"Medium", 17},
		{"Max", MaxLimbs},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewSource(int64(tc.size) + 1))
			x := randomWords(tc.size, r)
			y := randomWords(tc.size, r)
			z := make([]Word, tc.size)
			m := mask(tc.size * W)

			c := Add(z, x, y)
			want := new(big.Int).Add(toInt(x), toInt(y))
			got := toInt(z)
			if c != 0 {
				got.Add(got, new(big.Int).Lsh(big.NewInt(int64(c)), uint(tc.size*W)))
			}
			if got.Cmp(want) != 0 {
				t.Errorf("Add mismatch: got %x, want %x", got, want)
			}

			b := Sub(z, x, y)
			want = new(big.Int).Sub(toInt(x), toInt(y))
			want.And(want, m)
			if toInt(z).Cmp(want) != 0 {
				t.Errorf("Sub mismatch: got %x, want %x", toInt(z), want)
			}
			if (b != 0) != (toInt(x).Cmp(toInt(y)) < 0) {
				t.Errorf("Sub borrow = %d for x<y = %v", b, toInt(x).Cmp(toInt(y)) < 0)
			}
		})
	}
}

func TestAddMulWAgainstBigInt(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(7))
	for n := 1; n <= 12; n++ {
		z := randomWords(n, r)
		x := randomWords(n, r)
		y := Word(uint(r.Uint64()))
		want := new(big.Int).Mul(toInt(x), toInt([]Word{y}))
		want.Add(want, toInt(z))

		c := AddMulW(z, x, y)
		got := toInt(z)
		got.Add(got, new(big.Int).Lsh(toInt([]Word{c}), uint(n*W)))
		if got.Cmp(want) != 0 {
			t.Errorf("n=%d: AddMulW mismatch", n)
		}
	}
}

func TestNegIsTwosComplement(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(11))
	x := randomWords(5, r)
	z := make([]Word, 5)
	Neg(z, x)
	sum := make([]Word, 5)
	Add(sum, x, z)
	if !IsZero(sum) {
		t.Errorf("x + Neg(x) = %v, want 0", sum)
	}
}

func TestAddWSubWPropagate(t *testing.T) {
	t.Parallel()
	x := []Word{^Word(0), ^Word(0), 5}
	z := make([]Word, 3)
	if c := AddW(z, x, 1); c != 0 || z[0] != 0 || z[1] != 0 || z[2] != 6 {
		t.Errorf("AddW = %v carry %d", z, c)
	}
	if b := SubW(z, z, 1); b != 0 || z[0] != ^Word(0) || z[1] != ^Word(0) || z[2] != 5 {
		t.Errorf("SubW = %v borrow %d", z, b)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Shift Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestShiftsAgainstBigInt(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(3))
	const n = 6
	shifts := []uint{0, 1, 7, W - 1, W, W + 3, 3*W + 17, n*W - 1, n * W, n*W + 5}
	for _, s := range shifts {
		x := randomWords(n, r)
		z := make([]Word, n)

		ShrN(z, x, s)
		want := new(big.Int).Rsh(toInt(x), s)
		if toInt(z).Cmp(want) != 0 {
			t.Errorf("ShrN(%d) mismatch", s)
		}

		ShlN(z, x, s)
		want = new(big.Int).Lsh(toInt(x), s)
		want.And(want, mask(n*W))
		if toInt(z).Cmp(want) != 0 {
			t.Errorf("ShlN(%d) mismatch", s)
		}

		// In place.
		y := append([]Word(nil), x...)
		ShrN(y, y, s)
		ShrN(z, x, s)
		if Cmp(y, z) != 0 {
			t.Errorf("ShrN(%d) in place differs", s)
		}
	}
}

func TestShlShrReturnShiftedBits(t *testing.T) {
	t.Parallel()
	x := []Word{1, TopBit | 1}
	z := make([]Word, 2)
	if c := Shl(z, x, 1); c != 1 || z[1] != 2 || z[0] != 2 {
		t.Errorf("Shl = %v, out %d", z, c)
	}
	if c := Shr(z, x, 1); c != TopBit || z[0] != TopBit || z[1] != TopBit>>1 {
		t.Errorf("Shr = %v, out %x", z, c)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	// Limbs are little-endian: x[len(x)-1] is the most significant word.
	testCases := []struct {
		name  string
		x     []Word
		shift uint
		want  []Word
	}{
		{"TopWordOne", []Word{0, 0, 1}, W - 1, []Word{0, 0, TopBit}},
		{"BottomWordOne", []Word{1, 0, 0}, 3*W - 1, []Word{0, 0, TopBit}},
		{"AcrossWords", []Word{3, 0}, 2*W - 2, []Word{0, TopBit | TopBit>>1}},
		{"SplitBits", []Word{TopBit, 1}, W - 1, []Word{0, TopBit | TopBit>>1}},
		{"AlreadyNormal", []Word{5, TopBit}, 0, []Word{5, TopBit}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			x := append([]Word(nil), tc.x...)
			if s := Normalize(x); s != tc.shift {
				t.Errorf("Normalize(%v) shift = %d, want %d", tc.x, s, tc.shift)
			}
			if Cmp(x, tc.want) != 0 {
				t.Errorf("Normalize(%v) = %v, want %v", tc.x, x, tc.want)
			}
			if !IsNormalized(x) {
				t.Errorf("Normalize(%v) left the top bit clear", tc.x)
			}
		})
	}
	if LeadingZeros([]Word{0, 0}) != 2*W {
		t.Errorf("LeadingZeros(0) = %d", LeadingZeros([]Word{0, 0}))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// High-Part Multiplication Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestMulHighMatchesTruncatedSum(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 3, 4, 5, 8, 16, MaxLimbs} {
		x := randomMantissa(n, r)
		y := randomMantissa(n, r)
		z := make([]Word, n)
		s := MulHigh(z, x, y)

		tp := truncatedProduct(x, y)
		if tp.BitLen() != (n+1)*W-int(s) {
			t.Fatalf("n=%d: shift %d inconsistent with bit length %d", n, s, tp.BitLen())
		}
		want := new(big.Int).Lsh(tp, s)
		want.Rsh(want, W)
		if toInt(z).Cmp(want) != 0 {
			t.Errorf("n=%d: MulHigh mismatch", n)
		}
		if !IsNormalized(z) {
			t.Errorf("n=%d: result not normalized", n)
		}

		// Error against the exact product at the same scale.
		exact := new(big.Int).Mul(toInt(x), toInt(y))
		exact.Lsh(exact, s)
		exact.Rsh(exact, uint(n*W))
		diff := exact.Sub(exact, toInt(z))
		if diff.Sign() < 0 || diff.Cmp(big.NewInt(int64(n+1)<<s)) > 0 {
			t.Errorf("n=%d: error %v ulp outside [0, (n+1)<<%d]", n, diff, s)
		}
	}
}

func TestSqrHighMatchesMulHigh(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(5))
	for n := 1; n <= MaxLimbs; n++ {
		x := randomMantissa(n, r)
		a := make([]Word, n)
		b := make([]Word, n)
		sa := MulHigh(a, x, x)
		sb := SqrHigh(b, x)
		if sa != sb || Cmp(a, b) != 0 {
			t.Fatalf("n=%d: SqrHigh differs from MulHigh", n)
		}
	}
}

func TestClosedFormsMatchGeneric(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(9))
	for i := 0; i < 2000; i++ {
		x := randomMantissa(2, r)
		y := randomMantissa(2, r)

		z1 := make([]Word, 1)
		s1 := MulHigh(z1, x[1:], y[1:])
		c1, cs1 := MulHigh1(x[1], y[1])
		if c1 != z1[0] || cs1 != s1 {
			t.Fatalf("MulHigh1(%x, %x) = %x/%d, want %x/%d", x[1], y[1], c1, cs1, z1[0], s1)
		}

		z2 := make([]Word, 2)
		s2 := MulHigh(z2, x, y)
		h, l, cs2 := MulHigh2(x[1], x[0], y[1], y[0])
		if h != z2[1] || l != z2[0] || cs2 != s2 {
			t.Fatalf("MulHigh2 mismatch for %x * %x", x, y)
		}

		s2 = MulHigh(z2, x, x)
		h, l, cs2 = SqrHigh2(x[1], x[0])
		if h != z2[1] || l != z2[0] || cs2 != s2 {
			t.Fatalf("SqrHigh2 mismatch for %x", x)
		}
	}
}

func TestMulHighAliasing(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(13))
	x := randomMantissa(7, r)
	y := randomMantissa(7, r)
	want := make([]Word, 7)
	MulHigh(want, x, y)

	xc := append([]Word(nil), x...)
	MulHigh(xc, xc, y)
	if Cmp(xc, want) != 0 {
		t.Error("MulHigh(x, x, y) differs from out-of-place result")
	}
}

// TestMulHighCommutativeProperty uses property-based testing to verify that
// the truncated product does not depend on operand order.
func TestMulHighCommutativeProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("MulHigh(x,y) == MulHigh(y,x)", prop.ForAll(
		func(n int, seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			x := randomMantissa(n, r)
			y := randomMantissa(n, r)
			a := make([]Word, n)
			b := make([]Word, n)
			sa := MulHigh(a, x, y)
			sb := MulHigh(b, y, x)
			return sa == sb && Cmp(a, b) == 0
		},
		gen.IntRange(1, MaxLimbs),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestCPUFeaturesString(t *testing.T) {
	t.Parallel()
	f := GetCPUFeatures()
	if f.String() == "" {
		t.Error("CPUFeatures.String() returned empty string")
	}
	if Backend() == "" {
		t.Error("Backend() returned empty string")
	}
	t.Logf("CPU: %s, backend: %s", f, Backend())
}
