//go:build gmp

// This file provides a GMP-backed bridge, conditionally compiled with the
// "gmp" build tag. Builds without the tag use math/big only.
//
// System Requirements for GMP:
//   - Linux: sudo apt-get install libgmp-dev (Debian/Ubuntu)
//   - macOS: brew install gmp
//
// All three operations are computed as exact integer truncations, which
// agree bit for bit with the math/big backend.

package bridge

import (
	"math/big"
	"sync"

	"github.com/ncw/gmp"

	"github.com/agbru/nfloat/internal/limb"
)

func init() {
	Register(GMP{}, true)
}

// GMP computes bridge results with github.com/ncw/gmp integers.
type GMP struct{}

// Name returns "gmp".
func (GMP) Name() string { return "gmp" }

type gmpScratch struct {
	a, b    gmp.Int
	in, out big.Int
	buf     []byte
}

var gmpPool = sync.Pool{New: func() any { return new(gmpScratch) }}

// load sets g to the mantissa integer of x.
func (s *gmpScratch) load(g *gmp.Int, x []Word) {
	v := view(&s.in, x)
	s.buf = v.FillBytes(grow(s.buf, len(x)*limb.W/8))
	release(&s.in)
	g.SetBytes(s.buf)
}

// save writes g into z through a math/big intermediate.
func (s *gmpScratch) save(z []Word, g *gmp.Int) {
	s.out.SetBytes(g.Bytes())
	store(z, &s.out)
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

// Quo implements Backend.
func (GMP) Quo(z, x, y []Word) int64 {
	bitsN := uint(len(z) * limb.W)
	s := gmpPool.Get().(*gmpScratch)
	defer gmpPool.Put(s)

	s.load(&s.a, x)
	s.load(&s.b, y)
	s.a.Lsh(&s.a, bitsN)
	s.a.Quo(&s.a, &s.b)
	var e int64
	if uint(s.a.BitLen()) > bitsN {
		s.a.Rsh(&s.a, 1)
		e = 1
	}
	s.save(z, &s.a)
	return e
}

// Sqrt implements Backend.
func (GMP) Sqrt(z, x []Word, odd bool) {
	shift := uint(len(z) * limb.W)
	if odd {
		shift--
	}
	s := gmpPool.Get().(*gmpScratch)
	defer gmpPool.Put(s)

	s.load(&s.a, x)
	s.a.Lsh(&s.a, shift)
	s.a.Sqrt(&s.a)
	s.save(z, &s.a)
}

// Rsqrt implements Backend.
func (GMP) Rsqrt(z, x []Word, odd bool) {
	shift := uint(3*len(z)*limb.W - 2)
	if odd {
		shift++
	}
	s := gmpPool.Get().(*gmpScratch)
	defer gmpPool.Put(s)

	s.load(&s.b, x)
	s.a.SetInt64(1)
	s.a.Lsh(&s.a, shift)
	s.a.Quo(&s.a, &s.b)
	s.a.Sqrt(&s.a)
	s.save(z, &s.a)
}
